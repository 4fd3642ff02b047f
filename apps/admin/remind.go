package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) remind(ctx context.Context, profileID, campus string, dryRun bool) error {
	viewer, err := cli.profileRepo.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	reminders, err := cli.complianceSvc.SendReminders(ctx, viewer, campus, dryRun)
	if err != nil {
		return err
	}
	if cli.jsonOutput {
		return cli.writeJSON(reminders)
	}

	if len(reminders) == 0 {
		fmt.Fprintln(cli.out, "No coordinator needs a reminder.")
		return nil
	}
	tw := cli.newTable()
	fmt.Fprintln(tw, "COORDINATOR\tEMAIL\tPENDING\tDAYS LEFT\tURGENCY\t")
	for _, r := range reminders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t\n",
			r.Coordinator.CoordinatorName, r.Coordinator.CoordinatorEmail, len(r.Pending), r.RemainingDays, r.Urgency)
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintln(cli.out, "\nDry run: no email sent.")
	} else {
		fmt.Fprintf(cli.out, "\n%d reminders sent.\n", len(reminders))
	}
	return nil
}
