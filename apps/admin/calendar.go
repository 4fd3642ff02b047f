package main

import (
	"fmt"

	"github.com/trezcool/observa/core/period"
)

func (cli *commandLine) calendar(kind period.Kind, count int, recent bool) error {
	cal := cli.complianceSvc.Calendar()
	periods := cal.Upcoming(kind, count)
	if recent {
		periods = cal.Recent(kind, count)
	}
	if cli.jsonOutput {
		return cli.writeJSON(periods)
	}

	fmt.Fprintf(cli.out, "School year %s, today %s\n\n", cal.SchoolYear().Name(), cal.Today().Format("02/01/2006"))
	tw := cli.newTable()
	fmt.Fprintln(tw, "PERIOD\tDATES\tWORK DAYS\t")
	for _, p := range periods {
		marker := ""
		if p.Number == cal.CurrentNumber(kind) {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%d\t\n", p.Label(), marker, p.Display(), len(period.WorkDays(p)))
	}
	return tw.Flush()
}
