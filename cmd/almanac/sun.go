package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/log"
)

var stdout io.Writer = os.Stdout

func runSun(args []string) error {
	var c commonFlags
	fs := newFlagSet("sun", "Sunrise, solar noon and sunset, twilight, golden and blue hour; or moonrise, transit and moonset.")
	c.registerObserver(fs)
	c.registerDate(fs)
	c.registerOutput(fs)
	bodyS := fs.String("body", "sun", "celestial body: sun or moon")
	event := fs.String("event", "both", "event: rise, set, or both")
	twilight := fs.String("twilight", "", "also show twilight: civil, nautical, astronomical or all")
	photo := fs.Bool("photo", false, "also show golden hour and blue hour")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var errs cerrors.M
	c.validateObserver(&errs)
	date, _ := c.resolveDate(&errs)
	switch strings.ToLower(*event) {
	case "rise", "set", "both":
	default:
		errs.Append(fmt.Errorf("unknown -event %q (use rise, set or both)", *event))
	}
	kinds, err := parseTwilight(*twilight)
	errs.Append(err)
	body, err := parseBody(*bodyS)
	errs.Append(err)
	if body == almanac.Moon && (len(kinds) > 0 || *photo) {
		errs.Append(fmt.Errorf("-twilight and -photo are only supported for -body sun"))
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if c.lat == 0 && c.lon == 0 {
		log.Warnf("lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon to set a real location.")
	}

	coords := c.coordinates()
	opts := c.options()
	if body == almanac.Moon {
		return runMoonRiseSet(c, coords, date, *event)
	}
	log.Debugw("computing sun events", "lat", c.lat, "lon", c.lon, "date", date.Format("2006-01-02"), "tz", date.Location().String())

	out := sunOutput{
		Body:      "sun",
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
		Date:      date.Format("2006-01-02"),
		Timezone:  date.Location().String(),
		DeltaT:    c.deltaT,
	}

	rs, err := almanac.SlideIntoSunset(coords, date, opts...)
	switch {
	case err == nil:
		filterEvent(&rs, *event)
		out.Sun = newWindowJSON(rs)
		if !rs.Rise.IsZero() && !rs.Set.IsZero() {
			hours := rs.Set.Sub(rs.Rise).Hours()
			out.DaylightHours = &hours
		}
	case errors.Is(err, almanac.ErrNoRiseNoSet):
		out.Note = polarNote(err)
	default:
		return fmt.Errorf("error computing sunrise/sunset: %w", err)
	}

	for _, k := range kinds {
		tw, err := almanac.TwilightFor(coords, date, k, opts...)
		if err != nil {
			log.Infof("no %v twilight on %s: %v", k, out.Date, err)
			continue
		}
		out.Twilight = append(out.Twilight, twilightJSON{Kind: k.String(), Dawn: tw.Rise, Dusk: tw.Set})
	}

	if *photo {
		if g, err := almanac.GoldenHourFor(coords, date, opts...); err == nil {
			out.GoldenHour = newPhasesJSON(g)
		} else {
			log.Infof("no golden hour on %s: %v", out.Date, err)
		}
		if b, err := almanac.BlueHourFor(coords, date, opts...); err == nil {
			out.BlueHour = newPhasesJSON(b)
		} else {
			log.Infof("no blue hour on %s: %v", out.Date, err)
		}
	}

	if c.jsonOut {
		return printJSON(out)
	}
	printSunHuman(out)
	return nil
}

// runMoonRiseSet prints moonrise, the Moon's transit and moonset.
func runMoonRiseSet(c commonFlags, coords almanac.Coordinates, date time.Time, event string) error {
	log.Debugw("computing moon events", "lat", c.lat, "lon", c.lon, "date", date.Format("2006-01-02"), "tz", date.Location().String())

	out := sunOutput{
		Body:      "moon",
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
		Date:      date.Format("2006-01-02"),
		Timezone:  date.Location().String(),
		DeltaT:    c.deltaT,
	}

	rs, err := almanac.RiseSetFor(almanac.Moon, coords, date, c.options()...)
	switch {
	case err == nil:
		event = strings.ToLower(event)
		filterEvent(&rs, event)
		out.Moon = newWindowJSON(rs)
		if rs.Rise.IsZero() && event != "set" {
			out.Note = "no moonrise on this date"
		} else if rs.Set.IsZero() && event != "rise" {
			out.Note = "no moonset on this date"
		}
	case errors.Is(err, almanac.ErrNoRiseNoSet):
		out.Note = moonPolarNote(err)
	default:
		return fmt.Errorf("error computing moonrise/moonset: %w", err)
	}

	if c.jsonOut {
		return printJSON(out)
	}
	printSunHuman(out)
	return nil
}

func parseBody(s string) (almanac.Body, error) {
	switch strings.ToLower(s) {
	case "sun":
		return almanac.Sun, nil
	case "moon":
		return almanac.Moon, nil
	default:
		return almanac.Sun, fmt.Errorf("unsupported -body %q (use sun or moon)", s)
	}
}

func parseTwilight(s string) ([]almanac.TwilightKind, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "civil":
		return []almanac.TwilightKind{almanac.TwilightCivil}, nil
	case "nautical":
		return []almanac.TwilightKind{almanac.TwilightNautical}, nil
	case "astronomical":
		return []almanac.TwilightKind{almanac.TwilightAstronomical}, nil
	case "all":
		return []almanac.TwilightKind{almanac.TwilightCivil, almanac.TwilightNautical, almanac.TwilightAstronomical}, nil
	default:
		return nil, fmt.Errorf("unknown -twilight %q (use civil, nautical, astronomical or all)", s)
	}
}

func filterEvent(rs *almanac.RiseSet, event string) {
	switch strings.ToLower(event) {
	case "rise":
		rs.Set = time.Time{}
	case "set":
		rs.Rise = time.Time{}
	}
}

func polarNote(err error) string {
	if almanac.IsPolarDay(err) {
		return "the Sun stays above the horizon all day (polar day)"
	}
	return "the Sun stays below the horizon all day (polar night)"
}

func moonPolarNote(err error) string {
	var ce *almanac.CircumpolarError
	switch {
	case errors.As(err, &ce) && ce.AlwaysAbove():
		return "the Moon stays above the horizon all day"
	case errors.As(err, &ce):
		return "the Moon stays below the horizon all day"
	default:
		return "the Moon neither rises nor sets on this date"
	}
}

type windowJSON struct {
	Rise    *time.Time `json:"rise,omitempty"`
	Transit *time.Time `json:"transit,omitempty"`
	Set     *time.Time `json:"set,omitempty"`
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func newWindowJSON(rs almanac.RiseSet) *windowJSON {
	return &windowJSON{Rise: optTime(rs.Rise), Transit: optTime(rs.Transit), Set: optTime(rs.Set)}
}

type twilightJSON struct {
	Kind string    `json:"kind"`
	Dawn time.Time `json:"dawn"`
	Dusk time.Time `json:"dusk"`
}

type phasesJSON struct {
	Morning *almanac.PhaseWindow `json:"morning,omitempty"`
	Evening *almanac.PhaseWindow `json:"evening,omitempty"`
}

func newPhasesJSON(p almanac.DaylightPhases) *phasesJSON {
	var out phasesJSON
	if p.HasMorning {
		out.Morning = &p.Morning
	}
	if p.HasEvening {
		out.Evening = &p.Evening
	}
	return &out
}

type sunOutput struct {
	Body          string         `json:"body"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	Date          string         `json:"date"` // YYYY-MM-DD
	Timezone      string         `json:"timezone"`
	DeltaT        float64        `json:"delta_t"`
	Sun           *windowJSON    `json:"sun,omitempty"`
	Moon          *windowJSON    `json:"moon,omitempty"`
	DaylightHours *float64       `json:"daylight_hours,omitempty"`
	Twilight      []twilightJSON `json:"twilight,omitempty"`
	GoldenHour    *phasesJSON    `json:"golden_hour,omitempty"`
	BlueHour      *phasesJSON    `json:"blue_hour,omitempty"`
	Note          string         `json:"note,omitempty"`
}

func printSunHuman(out sunOutput) {
	name := "Sun"
	if out.Body == "moon" {
		name = "Moon"
	}
	fmt.Fprintf(stdout, "%s for lat=%.6f lon=%.6f\n", name, out.Latitude, out.Longitude)
	fmt.Fprintf(stdout, "Date: %s (%s)\n\n", out.Date, out.Timezone)

	if out.Note != "" {
		fmt.Fprintf(stdout, "Note: %s\n", out.Note)
	}
	if s := out.Sun; s != nil {
		printTime("Rise", s.Rise)
		printTime("Noon", s.Transit)
		printTime("Set", s.Set)
	}
	if m := out.Moon; m != nil {
		printTime("Rise", m.Rise)
		printTime("Transit", m.Transit)
		printTime("Set", m.Set)
	}
	if out.DaylightHours != nil {
		fmt.Fprintf(stdout, "Daylight: %.2f hours\n", *out.DaylightHours)
	}
	for _, tw := range out.Twilight {
		fmt.Fprintf(stdout, "Twilight (%s): dawn %s, dusk %s\n",
			tw.Kind, tw.Dawn.Format(time.RFC3339), tw.Dusk.Format(time.RFC3339))
	}
	printPhases("Golden hour", out.GoldenHour)
	printPhases("Blue hour", out.BlueHour)
}

func printTime(label string, t *time.Time) {
	if t == nil {
		return
	}
	fmt.Fprintf(stdout, "%-8s %s\n", label+":", t.Format(time.RFC3339))
}

func printPhases(label string, p *phasesJSON) {
	if p == nil {
		return
	}
	if w := p.Morning; w != nil {
		fmt.Fprintf(stdout, "%s (morning): %s – %s\n", label, w.Start.Format("15:04:05"), w.End.Format("15:04:05"))
	}
	if w := p.Evening; w != nil {
		fmt.Fprintf(stdout, "%s (evening): %s – %s\n", label, w.Start.Format("15:04:05"), w.End.Format("15:04:05"))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
