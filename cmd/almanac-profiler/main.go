// Command almanac-profiler measures the accuracy of the almanac library,
// either against a reference rise/set table (-refcsv) or against the
// full-precision models of the meeus package (-meeus).
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/log"
)

type config struct {
	lat, lon float64
	tzName   string
	body     string
	year     int
	refCSV   string
	outCSV   string
	twilight string
	verbose  bool
	debug    bool
	jsonOut  bool
	deltaT   float64
	meeus    bool
	fromYear int
	toYear   int
	stepDays float64
}

func parseFlags(args []string) (config, error) {
	var c config
	fs := flag.NewFlagSet("almanac-profiler", flag.ContinueOnError)
	fs.Float64Var(&c.lat, "lat", 0, "latitude in degrees (north positive)")
	fs.Float64Var(&c.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	fs.StringVar(&c.tzName, "tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
	fs.StringVar(&c.body, "body", "sun", "celestial body of the -refcsv table: sun or moon")
	fs.IntVar(&c.year, "year", 0, "year of the ephemeris data (optional, used for sanity checks)")
	fs.StringVar(&c.refCSV, "refcsv", "", "path to reference ephemeris CSV file (date,rise,set)")
	fs.StringVar(&c.outCSV, "outcsv", "", "optional path to write per-row error CSV")
	fs.StringVar(&c.twilight, "twilight", "", "twilight kind: civil, nautical, astronomical")
	fs.BoolVar(&c.verbose, "verbose", false, "print per-day errors instead of only summary")
	fs.BoolVar(&c.debug, "debug", false, "debug logging")
	fs.BoolVar(&c.jsonOut, "json", false, "print the summary as JSON")
	fs.Float64Var(&c.deltaT, "deltat", almanac.DefaultDeltaT, "ΔT = TD − UT in seconds")
	fs.BoolVar(&c.meeus, "meeus", false, "compare with the meeus package instead of a CSV table")
	fs.IntVar(&c.fromYear, "from", 1900, "first year of the -meeus comparison")
	fs.IntVar(&c.toYear, "to", 2100, "last year of the -meeus comparison")
	fs.Float64Var(&c.stepDays, "step", 7.3, "days between position samples in -meeus mode")

	if err := fs.Parse(args); err != nil {
		return c, err
	}

	var errs cerrors.M
	if c.meeus == (c.refCSV != "") {
		errs.Append(errors.New("use exactly one of -refcsv or -meeus"))
	}
	if c.meeus {
		if c.toYear < c.fromYear {
			errs.Append(fmt.Errorf("-to %d is before -from %d", c.toYear, c.fromYear))
		}
		if c.stepDays <= 0 {
			errs.Append(fmt.Errorf("-step must be positive, got %v", c.stepDays))
		}
	}
	switch strings.ToLower(c.body) {
	case "sun":
	case "moon":
		if c.twilight != "" {
			errs.Append(errors.New("-twilight is only supported for -body sun"))
		}
	default:
		errs.Append(fmt.Errorf("unsupported -body %q (use sun or moon)", c.body))
	}
	if c.lat < -90 || c.lat > 90 {
		errs.Append(fmt.Errorf("-lat %v out of range [-90, 90]", c.lat))
	}
	if c.lon < -180 || c.lon > 180 {
		errs.Append(fmt.Errorf("-lon %v out of range [-180, 180]", c.lon))
	}
	return c, errs.Err()
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if lerr := log.Init(c.debug); lerr != nil {
		fmt.Fprintln(os.Stderr, lerr)
		os.Exit(1)
	}
	defer log.Sync()
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	if err := run(c, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(c config, w io.Writer) error {
	if c.meeus {
		p := meeusProfile{from: c.fromYear, to: c.toYear, step: c.stepDays}
		all, err := p.run()
		if err != nil {
			return err
		}
		return report(w, c, "almanac vs meeus", nil, all...)
	}
	return runCSV(c, w)
}

func runCSV(c config, w io.Writer) error {
	loc, err := time.LoadLocation(c.tzName)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", c.tzName, err)
	}

	p := &csvProfile{
		coords: almanac.Coordinates{Lat: c.lat, Lon: c.lon},
		loc:    loc,
		year:   c.year,
		body:   almanac.Sun,
		opts:   []almanac.Option{almanac.WithDeltaT(c.deltaT)},
	}
	if strings.EqualFold(c.body, "moon") {
		p.body = almanac.Moon
	}
	if c.verbose {
		p.verbose = w
	}

	if c.twilight != "" {
		var kind almanac.TwilightKind
		switch strings.ToLower(c.twilight) {
		case "civil":
			kind = almanac.TwilightCivil
		case "nautical":
			kind = almanac.TwilightNautical
		case "astronomical":
			kind = almanac.TwilightAstronomical
		default:
			return fmt.Errorf("unknown twilight kind %q (use civil, nautical, or astronomical)", c.twilight)
		}
		p.twilight = &kind
	}

	if c.outCSV != "" {
		outFile, err := os.Create(c.outCSV)
		if err != nil {
			return fmt.Errorf("failed to create outcsv %q: %w", c.outCSV, err)
		}
		defer outFile.Close()

		p.out = csv.NewWriter(outFile)
		defer p.out.Flush()
	}

	if c.lat == 0 && c.lon == 0 {
		log.Warnf("lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	f, err := os.Open(c.refCSV)
	if err != nil {
		return fmt.Errorf("failed to open refcsv %q: %w", c.refCSV, err)
	}
	defer f.Close()

	res, err := p.run(f)
	if err != nil {
		return err
	}
	log.Infow("reference table processed", "file", c.refCSV, "rows", res.rows, "skipped", res.skipped)

	header := []string{
		fmt.Sprintf("Mode:    %s", p.mode()),
		fmt.Sprintf("Lat/Lon: %.4f / %.4f", c.lat, c.lon),
		fmt.Sprintf("TZ:      %s", loc.String()),
		fmt.Sprintf("Rows:    %d (processed), %d skipped", res.rows-res.skipped, res.skipped),
	}
	return report(w, c, "almanac profiler summary", header, res.rise, res.set)
}

func report(w io.Writer, c config, title string, header []string, all ...*samples) error {
	sums := make([]summary, 0, len(all))
	for _, s := range all {
		sums = append(sums, s.summarize())
	}

	if c.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}

	fmt.Fprintf(w, "=== %s ===\n", title)
	for _, line := range header {
		fmt.Fprintln(w, line)
	}
	for _, s := range sums {
		s.print(w)
	}
	return nil
}
