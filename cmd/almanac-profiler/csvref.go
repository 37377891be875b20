package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/log"
)

// csvProfile compares rise/set (or dawn/dusk) against a reference table.
// Dates are YYYY-MM-DD and times are local HH:MM or HH:MM:SS in the zone
// given by -tz. An empty time or "-" marks a date without that event, as
// moonrise tables have about once a month:
//
//	date,rise,set
//	2025-01-01,07:32,17:12
//	2025-01-02,07:32,17:13
type csvProfile struct {
	coords   almanac.Coordinates
	body     almanac.Body
	loc      *time.Location
	year     int
	twilight *almanac.TwilightKind
	opts     []almanac.Option
	verbose  io.Writer // per-row lines, nil for summary only
	out      *csv.Writer
}

func (p *csvProfile) mode() string {
	body := strings.ToUpper(p.body.String())
	if p.twilight == nil {
		return body
	}
	return fmt.Sprintf("%s (%s TWILIGHT)", body, strings.ToUpper(p.twilight.String()))
}

type csvResult struct {
	rows, skipped int
	rise, set     *samples
}

func (p *csvProfile) run(r io.Reader) (csvResult, error) {
	res := csvResult{
		rise: newSamples("Rise error", "minutes"),
		set:  newSamples("Set error", "minutes"),
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow variable, we validate

	records, err := cr.ReadAll()
	if err != nil {
		return res, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return res, fmt.Errorf("empty CSV file")
	}

	if p.out != nil {
		if err := p.out.Write([]string{"date", "mode", "rise_signed", "set_signed", "phase_fraction", "phase_name"}); err != nil {
			return res, fmt.Errorf("failed to write outcsv header: %w", err)
		}
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(records[0][0], "date") {
		startIdx = 1
	}

	for i := startIdx; i < len(records); i++ {
		res.rows++
		if err := p.row(i+1, records[i], &res); err != nil {
			log.Warnw("skipping row", "row", i+1, "error", err)
			res.skipped++
		}
	}
	return res, nil
}

func (p *csvProfile) row(n int, row []string, res *csvResult) error {
	if len(row) < 3 {
		return fmt.Errorf("expected at least 3 columns (date,rise,set), got %d", len(row))
	}
	dateStr := strings.TrimSpace(row[0])

	date, err := time.ParseInLocation("2006-01-02", dateStr, p.loc)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	if p.year != 0 && date.Year() != p.year {
		// Just warn; don't skip.
		log.Warnf("row %d: date %s not in year %d", n, dateStr, p.year)
	}

	refRise, err := parseLocalTime(date, strings.TrimSpace(row[1]), p.loc)
	if err != nil {
		return fmt.Errorf("invalid rise time %q: %w", row[1], err)
	}
	refSet, err := parseLocalTime(date, strings.TrimSpace(row[2]), p.loc)
	if err != nil {
		return fmt.Errorf("invalid set time %q: %w", row[2], err)
	}

	var rs almanac.RiseSet
	if p.twilight != nil {
		// In twilight mode, interpret CSV "rise" as dawn and "set" as dusk.
		rs, err = almanac.TwilightFor(p.coords, date, *p.twilight, p.opts...)
	} else {
		rs, err = almanac.RiseSetFor(p.body, p.coords, date, p.opts...)
	}
	if err != nil {
		return fmt.Errorf("almanac error: %w", err)
	}

	gotRise := inZone(rs.Rise, p.loc)
	gotSet := inZone(rs.Set, p.loc)
	riseSigned := diffMinutesSigned(gotRise, refRise)
	setSigned := diffMinutesSigned(gotSet, refSet)

	x := float64(date.YearDay())
	res.rise.add(x, riseSigned)
	res.set.add(x, setSigned)

	if p.verbose != nil {
		fmt.Fprintf(p.verbose, "%s %s: rise err=%.2f min (got=%s ref=%s), set err=%.2f min (got=%s ref=%s)\n",
			dateStr, p.mode(),
			riseSigned, gotRise.Format("15:04:05"), refRise.Format("15:04"),
			setSigned, gotSet.Format("15:04:05"), refSet.Format("15:04"))
	}

	if p.out != nil {
		// Moon phase at local noon, handy when eyeballing residuals.
		var phaseFraction, phaseName string
		noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, p.loc)
		if mp, err := almanac.MoonPhaseAt(noon, p.opts...); err == nil {
			phaseFraction = fmt.Sprintf("%.6f", mp.Fraction)
			phaseName = mp.Name
		}
		rec := []string{
			dateStr,
			p.mode(),
			fmt.Sprintf("%.6f", riseSigned),
			fmt.Sprintf("%.6f", setSigned),
			phaseFraction,
			phaseName,
		}
		if err := p.out.Write(rec); err != nil {
			log.Warnf("row %d: failed to write outcsv: %v", n, err)
		}
	}
	return nil
}

func diffMinutesSigned(a, b time.Time) float64 {
	// If either time is zero, treat as "no data".
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes() // can be negative or positive
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(loc)
}

func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	if hhmm == "" || hhmm == "-" {
		return time.Time{}, nil
	}
	// Expect HH:MM (optionally HH:MM:SS).
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	// Combine parsed clock time with date.
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
