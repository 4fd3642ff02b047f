package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/period"
	"github.com/trezcool/observa/core/profile"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out           io.Writer
	jsonOutput    bool // set when stdout is not a terminal
	db            *sqlx.DB
	profileRepo   profile.Repository
	complianceSvc *compliance.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  calendar -kind weekly|fortnightly -count N [-recent] - list school periods")
	fmt.Fprintln(cli.out, "  compliance -profile ID [-kind K] [-number N] [-campus SCHOOL] - compute observation compliance")
	fmt.Fprintln(cli.out, "  remind -profile ID [-campus SCHOOL] [-dry-run] - email coordinators with urgent pending observations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	calendarCmd := flag.NewFlagSet("calendar", flag.ContinueOnError)
	calendarKind := calendarCmd.String("kind", string(period.Weekly), "The period kind: weekly or fortnightly.")
	calendarCount := calendarCmd.Int("count", 4, "How many periods to list.")
	calendarRecent := calendarCmd.Bool("recent", false, "List the periods ending at the current one instead of those starting at it.")

	complianceCmd := flag.NewFlagSet("compliance", flag.ContinueOnError)
	complianceProfile := complianceCmd.String("profile", "", "The ID of the profile whose scope is computed.")
	complianceKind := complianceCmd.String("kind", string(period.Weekly), "The period kind: weekly or fortnightly.")
	complianceNumber := complianceCmd.Int("number", 0, "The period number (default: current period).")
	complianceCampus := complianceCmd.String("campus", "", "Restrict to a school (admins and rectors only).")

	remindCmd := flag.NewFlagSet("remind", flag.ContinueOnError)
	remindProfile := remindCmd.String("profile", "", "The ID of the profile whose scope is reminded.")
	remindCampus := remindCmd.String("campus", "", "Restrict to a school (admins and rectors only).")
	remindDryRun := remindCmd.Bool("dry-run", false, "List the reminders without sending them.")

	for _, fs := range []*flag.FlagSet{calendarCmd, complianceCmd, remindCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "calendar":
		if err := calendarCmd.Parse(args[2:]); err != nil {
			return err
		}
		kind, err := period.ParseKind(*calendarKind)
		if err != nil {
			return err
		}
		return cli.calendar(kind, *calendarCount, *calendarRecent)
	case "compliance":
		if err := complianceCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *complianceProfile == "" {
			complianceCmd.Usage()
			return errHelp
		}
		kind, err := period.ParseKind(*complianceKind)
		if err != nil {
			return err
		}
		var number *int
		if *complianceNumber > 0 {
			number = complianceNumber
		}
		return cli.compliance(context.Background(), *complianceProfile, *complianceCampus, kind, number)
	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *remindProfile == "" {
			remindCmd.Usage()
			return errHelp
		}
		return cli.remind(context.Background(), *remindProfile, *remindCampus, *remindDryRun)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) writeJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (cli *commandLine) newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
}
