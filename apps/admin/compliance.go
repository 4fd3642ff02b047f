package main

import (
	"context"
	"fmt"

	"github.com/trezcool/observa/core/period"
)

func (cli *commandLine) compliance(ctx context.Context, profileID, campus string, kind period.Kind, number *int) error {
	viewer, err := cli.profileRepo.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	sum, err := cli.complianceSvc.Current(ctx, viewer, campus, kind, number)
	if err != nil {
		return err
	}
	if cli.jsonOutput {
		return cli.writeJSON(sum)
	}

	fmt.Fprintf(cli.out, "%s (%s) / %s (%s)\n", sum.Week.Label(), sum.Week.Display(), sum.Fortnight.Label(), sum.Fortnight.Display())
	fmt.Fprintf(cli.out, "%d/%d teachers observed: %.1f%% (%s)\n\n", sum.TotalObserved, sum.TotalTeachers, sum.OverallComplianceRate, sum.Status)

	tw := cli.newTable()
	fmt.Fprintln(tw, "COORDINATOR\tSCHOOL\tOBSERVED\tRATE\tSTATUS\tPENDING\t")
	for _, cc := range sum.Coordinators {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.1f%%\t%s\t%s\t\n",
			cc.CoordinatorName, cc.SchoolID, cc.ObservedCount, cc.TotalTeachers, cc.ComplianceRate, cc.Status, cc.PendingNames())
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	if len(sum.Unassigned) > 0 {
		fmt.Fprintf(cli.out, "\n%d teachers without coordinator:\n", len(sum.Unassigned))
		for _, ts := range sum.Unassigned {
			fmt.Fprintf(cli.out, "  - %s\n", ts.FullName)
		}
	}
	return nil
}
