package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	cerrors "cloudeng.io/errors"

	"github.com/thurmanmarka/almanac"
)

// commonFlags are shared by the subcommands that need an observer, a date
// or ΔT.
type commonFlags struct {
	lat, lon float64
	dateS    string
	tzName   string
	deltaT   float64
	jsonOut  bool
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: almanac %s [flags]\n\n%s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func (c *commonFlags) registerObserver(fs *flag.FlagSet) {
	fs.Float64Var(&c.lat, "lat", 0, "latitude in degrees (north positive)")
	fs.Float64Var(&c.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
}

func (c *commonFlags) registerDate(fs *flag.FlagSet) {
	fs.StringVar(&c.dateS, "date", "", "date in YYYY-MM-DD (optional, defaults to today in -tz)")
	fs.StringVar(&c.tzName, "tz", "Local", "IANA time zone name (e.g. America/Phoenix)")
}

func (c *commonFlags) registerOutput(fs *flag.FlagSet) {
	fs.Float64Var(&c.deltaT, "deltat", almanac.DefaultDeltaT, "ΔT = TD − UT in seconds")
	fs.BoolVar(&c.jsonOut, "json", false, "output result as JSON")
}

func (c *commonFlags) coordinates() almanac.Coordinates {
	return almanac.Coordinates{Lat: c.lat, Lon: c.lon}
}

func (c *commonFlags) options() []almanac.Option {
	return []almanac.Option{almanac.WithDeltaT(c.deltaT)}
}

// validateObserver appends every problem with the observer flags to errs.
func (c *commonFlags) validateObserver(errs *cerrors.M) {
	if c.lat < -90 || c.lat > 90 {
		errs.Append(fmt.Errorf("-lat %v out of range [-90, 90]", c.lat))
	}
	if c.lon < -180 || c.lon > 180 {
		errs.Append(fmt.Errorf("-lon %v out of range [-180, 180]", c.lon))
	}
}

// resolveDate parses -tz and -date; problems are appended to errs.
func (c *commonFlags) resolveDate(errs *cerrors.M) (time.Time, *time.Location) {
	loc, err := time.LoadLocation(c.tzName)
	if err != nil {
		errs.Append(fmt.Errorf("invalid -tz %q: %w", c.tzName, err))
		loc = time.UTC
	}

	if c.dateS == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), loc
	}

	date, err := time.ParseInLocation("2006-01-02", c.dateS, loc)
	if err != nil {
		errs.Append(fmt.Errorf("invalid -date %q: %w", c.dateS, err))
	}
	return date, loc
}

// parseInstant accepts the layouts the phase subcommand documents.
func parseInstant(s string, loc *time.Location) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	var parseErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("could not parse %q: %w", s, parseErr)
}
