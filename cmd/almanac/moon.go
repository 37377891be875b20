package main

import (
	"fmt"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/log"
)

func runPhase(args []string) error {
	var c commonFlags
	fs := newFlagSet("phase", "Moon phase and illumination at an instant.")
	fs.StringVar(&c.tzName, "tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
	timeStr := fs.String("time", "", "Time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now in tz)")
	c.registerOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	loc, err := time.LoadLocation(c.tzName)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.tzName, err)
	}

	tLocal := time.Now().In(loc)
	if *timeStr != "" {
		if tLocal, err = parseInstant(*timeStr, loc); err != nil {
			return fmt.Errorf("invalid -time: %w", err)
		}
	}

	phase, err := almanac.MoonPhaseAt(tLocal, c.options()...)
	if err != nil {
		return fmt.Errorf("MoonPhaseAt failed: %w", err)
	}

	if c.jsonOut {
		return printJSON(phase)
	}

	fmt.Fprintf(stdout, "Moon phase at %s (%s)\n", phase.Time.Format(time.RFC3339), loc.String())
	fmt.Fprintf(stdout, "  Name       : %s\n", phase.Name)
	fmt.Fprintf(stdout, "  Age        : %.2f days\n", phase.Age)
	fmt.Fprintf(stdout, "  Fraction   : %.3f (%.1f%% illuminated)\n", phase.Fraction, phase.Fraction*100)
	fmt.Fprintf(stdout, "  Elongation : %.2f°\n", phase.Elongation)
	if phase.Waxing {
		fmt.Fprintf(stdout, "  Trend      : Waxing (illumination increasing)\n")
	} else {
		fmt.Fprintf(stdout, "  Trend      : Waning (illumination decreasing)\n")
	}
	fmt.Fprintf(stdout, "  Next new   : %s\n", phase.NextNewMoon.In(loc).Format(time.RFC3339))
	return nil
}

type phaseEventJSON struct {
	Phase string    `json:"phase"`
	JDE   float64   `json:"jde"`
	Time  time.Time `json:"time"`
}

func runPhases(args []string) error {
	var c commonFlags
	fs := newFlagSet("phases", "All principal phases of the Moon in a year.")
	year := fs.Int("year", time.Now().Year(), "calendar year")
	only := fs.String("phase", "", "restrict to one phase: new, first, full or last")
	fs.StringVar(&c.tzName, "tz", "UTC", "IANA time zone name for display")
	c.registerOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	var errs cerrors.M
	loc, err := time.LoadLocation(c.tzName)
	errs.Append(err)
	want, err := parsePhase(*only)
	errs.Append(err)
	if err := errs.Err(); err != nil {
		return err
	}

	events, err := almanac.MoonPhaseEvents(*year, c.options()...)
	if err != nil {
		return err
	}
	log.Debugw("moon phases", "year", *year, "events", len(events))

	var out []phaseEventJSON
	for _, ev := range events {
		if want != nil && ev.Phase != *want {
			continue
		}
		out = append(out, phaseEventJSON{Phase: ev.Phase.String(), JDE: ev.JDE, Time: ev.Time.In(loc)})
	}

	if c.jsonOut {
		return printJSON(out)
	}
	for _, ev := range out {
		fmt.Fprintf(stdout, "%-14s %s  (JDE %.5f)\n", ev.Phase, ev.Time.Format("2006-01-02 15:04 MST"), ev.JDE)
	}
	return nil
}

func parsePhase(s string) (*almanac.Phase, error) {
	var p almanac.Phase
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "new":
		p = almanac.NewMoon
	case "first":
		p = almanac.FirstQuarter
	case "full":
		p = almanac.FullMoon
	case "last":
		p = almanac.LastQuarter
	default:
		return nil, fmt.Errorf("unknown -phase %q (use new, first, full or last)", s)
	}
	return &p, nil
}
