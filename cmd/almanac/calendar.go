package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/earth"
	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/log"
)

type seasonJSON struct {
	Season string    `json:"season"`
	JDE    float64   `json:"jde"`
	Time   time.Time `json:"time"`
}

func runSeasons(args []string) error {
	var c commonFlags
	fs := newFlagSet("seasons", "Equinoxes and solstices of a year.")
	year := fs.Int("year", time.Now().Year(), "calendar year")
	fs.StringVar(&c.tzName, "tz", "UTC", "IANA time zone name for display")
	c.registerOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	loc, err := time.LoadLocation(c.tzName)
	if err != nil {
		return fmt.Errorf("invalid -tz %q: %w", c.tzName, err)
	}

	events, err := almanac.Seasons(*year, c.options()...)
	if err != nil {
		return err
	}

	out := make([]seasonJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, seasonJSON{Season: ev.Season.String(), JDE: ev.JDE, Time: ev.Time.In(loc)})
	}

	if c.jsonOut {
		return printJSON(out)
	}
	for _, ev := range out {
		fmt.Fprintf(stdout, "%-18s %s  (JDE %.5f)\n", ev.Season, ev.Time.Format("2006-01-02 15:04 MST"), ev.JDE)
	}
	return nil
}

type jdJSON struct {
	JD       float64 `json:"jd"`
	Date     string  `json:"date"`
	Calendar string  `json:"calendar"`
}

func runJD(args []string) error {
	var c commonFlags
	fs := newFlagSet("jd", "Convert a calendar date to a Julian Day, or back with -jd.")
	dateS := fs.String("date", "", "calendar date: YYYY-MM-DD, YYYY-MM-DDTHH:MM or a fractional day as YYYY-MM-DD.ddd")
	jdS := fs.String("jd", "", "Julian Day to convert to a calendar date")
	c.registerOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	var errs cerrors.M
	if (*dateS == "") == (*jdS == "") {
		errs.Append(errors.New("exactly one of -date or -jd is required"))
	}
	if err := errs.Err(); err != nil {
		return err
	}

	var (
		cd  almanac.CalendarDateTime
		jd  float64
		err error
	)
	if *jdS != "" {
		if jd, err = strconv.ParseFloat(*jdS, 64); err != nil {
			return fmt.Errorf("invalid -jd %q: %w", *jdS, err)
		}
		if cd, err = almanac.JulianDayToDate(jd); err != nil {
			return err
		}
	} else {
		if cd, err = parseCalendarDate(*dateS); err != nil {
			return err
		}
		if jd, err = almanac.DateToJulianDay(cd); err != nil {
			return err
		}
	}

	log.Debugf("converted %s <-> JD %.6f", cd, jd)

	cal := "gregorian"
	if jd < 2299160.5 {
		cal = "julian"
	}
	out := jdJSON{JD: jd, Date: cd.String(), Calendar: cal}

	if c.jsonOut {
		return printJSON(out)
	}
	fmt.Fprintf(stdout, "JD %.5f = %s (%s calendar)\n", out.JD, out.Date, out.Calendar)
	return nil
}

// parseCalendarDate accepts a date with an optional clock time or a
// fractional day, for dates outside the range time.Time formats well
// (e.g. -4712-01-01.5).
func parseCalendarDate(s string) (almanac.CalendarDateTime, error) {
	if t, err := parseInstant(s, time.UTC); err == nil {
		return julian.FromTime(t), nil
	}

	var (
		y, m int
		d    float64
	)
	if n, err := fmt.Sscanf(s, "%d-%d-%g", &y, &m, &d); err != nil || n != 3 {
		return almanac.CalendarDateTime{}, fmt.Errorf("%w: cannot parse %q", almanac.ErrInvalidDate, s)
	}
	return almanac.CalendarDateTime{Year: y, Month: m, Day: d}, nil
}

type positionJSON struct {
	Body             string    `json:"body"`
	Time             time.Time `json:"time"`
	JDE              float64   `json:"jde"`
	RA               float64   `json:"ra_deg"`
	Dec              float64   `json:"dec_deg"`
	RAText           string    `json:"ra"`
	DecText          string    `json:"dec"`
	ApparentSidereal string    `json:"apparent_sidereal_time"`
	DistanceKm       float64   `json:"distance_km,omitempty"`
}

func runPosition(args []string) error {
	var c commonFlags
	fs := newFlagSet("position", "Apparent right ascension and declination of the Sun or Moon, and Greenwich sidereal time.")
	bodyS := fs.String("body", "sun", "celestial body: sun or moon")
	timeStr := fs.String("time", "", "UTC time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now)")
	c.registerOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	body, err := parseBody(*bodyS)
	if err != nil {
		return err
	}

	t := time.Now().UTC()
	if *timeStr != "" {
		var err error
		if t, err = parseInstant(*timeStr, time.UTC); err != nil {
			return fmt.Errorf("invalid -time: %w", err)
		}
	}

	jd := almanac.JulianDay(t)
	jde := jd + c.deltaT/86400
	theta := earth.ApparentSiderealTime(jd)

	var alpha, delta, dist float64
	switch body {
	case almanac.Moon:
		p := almanac.MoonPositionAt(t, c.options()...)
		alpha, delta, dist = p.RA, p.Dec, p.Distance
	default:
		alpha, delta = almanac.ApparentSolarCoordinates(jde)
	}

	out := positionJSON{
		Body:             strings.ToLower(body.String()),
		Time:             t,
		JDE:              jde,
		RA:               alpha,
		Dec:              delta,
		RAText:           fmt.Sprintf("%.1s", sexa.FmtRA(unit.RAFromDeg(alpha))),
		DecText:          fmt.Sprintf("%.0s", sexa.FmtAngle(unit.AngleFromDeg(delta))),
		ApparentSidereal: fmt.Sprintf("%.2s", sexa.FmtTime(unit.TimeFromDay(theta/360))),
		DistanceKm:       dist,
	}

	if c.jsonOut {
		return printJSON(out)
	}
	fmt.Fprintf(stdout, "%s at %s (JDE %.5f)\n", body, t.Format(time.RFC3339), jde)
	fmt.Fprintf(stdout, "  RA  : %s (%.5f°)\n", out.RAText, out.RA)
	fmt.Fprintf(stdout, "  Dec : %s (%.5f°)\n", out.DecText, out.Dec)
	if out.DistanceKm > 0 {
		fmt.Fprintf(stdout, "  Dist: %.0f km\n", out.DistanceKm)
	}
	fmt.Fprintf(stdout, "  GAST: %s\n", out.ApparentSidereal)
	return nil
}
