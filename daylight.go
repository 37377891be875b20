package almanac

import (
	"errors"
	"fmt"
	"time"

	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/solver"
	"github.com/thurmanmarka/almanac/internal/sun"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// TwilightKind identifies the type of twilight based on the Sun's altitude
// below the horizon.
type TwilightKind int

const (
	// TwilightCivil corresponds to the Sun's center at -6 degrees altitude.
	TwilightCivil TwilightKind = iota

	// TwilightNautical corresponds to the Sun's center at -12 degrees altitude.
	TwilightNautical

	// TwilightAstronomical corresponds to the Sun's center at -18 degrees altitude.
	TwilightAstronomical
)

func (k TwilightKind) String() string {
	switch k {
	case TwilightCivil:
		return "civil"
	case TwilightNautical:
		return "nautical"
	case TwilightAstronomical:
		return "astronomical"
	default:
		return fmt.Sprintf("TwilightKind(%d)", int(k))
	}
}

func (k TwilightKind) altitude() (float64, error) {
	switch k {
	case TwilightCivil:
		return -6, nil
	case TwilightNautical:
		return -12, nil
	case TwilightAstronomical:
		return -18, nil
	default:
		return 0, fmt.Errorf("unknown TwilightKind: %d", int(k))
	}
}

// SunStandardAltitude is the apparent altitude of the Sun's center at
// sunrise and sunset: refraction plus semidiameter.
const SunStandardAltitude = -0.8333

// RiseSet holds the times a body crosses an altitude on a given date.
// Transit is the meridian passage, which does not depend on the altitude.
type RiseSet struct {
	Rise    time.Time
	Transit time.Time
	Set     time.Time
}

// PhaseWindow represents a continuous time interval where the Sun's altitude
// stays within a particular range (e.g. golden hour or blue hour).
type PhaseWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns End − Start.
func (w PhaseWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// DaylightPhases holds the morning and evening windows for a given phase
// (e.g. golden hour or blue hour).
type DaylightPhases struct {
	// Morning is the interval after dawn / sunrise.
	Morning PhaseWindow
	// Evening is the interval before dusk / sunset.
	Evening PhaseWindow

	// HasMorning / HasEvening indicate whether the corresponding window
	// exists on this date at this location (high latitudes can be weird).
	HasMorning bool
	HasEvening bool
}

// SlideIntoSunset is your glorious convenience helper:
// it returns sunrise, solar noon and sunset at the given location and date.
//
// The date's calendar day and time zone select the day; the returned times
// are in that zone and fall on that local date.
func SlideIntoSunset(loc Coordinates, date time.Time, opts ...Option) (RiseSet, error) {
	return SunRiseTransitSet(loc, date, SunStandardAltitude, opts...)
}

// SunRiseTransitSet returns the times the Sun's center crosses altitude h0
// (degrees) on the local calendar date of date.
func SunRiseTransitSet(loc Coordinates, date time.Time, h0 float64, opts ...Option) (RiseSet, error) {
	d, err := newSolarDay(loc, date, h0, newConfig(opts))
	if err != nil {
		return RiseSet{}, err
	}
	return RiseSet{
		Rise:    d.event(riseOf),
		Transit: d.event(transitOf),
		Set:     d.event(setOf),
	}, nil
}

// DaylightHours calculates the duration of daylight (time between sunrise and
// sunset) for the Sun at the given location and date. Returns the duration in
// hours as a float64.
//
// If the sun does not rise or set on the given date (e.g., polar regions), it
// returns 0 and an error matching ErrNoRiseNoSet; use errors.As with
// *CircumpolarError to tell polar day from polar night.
func DaylightHours(loc Coordinates, date time.Time, opts ...Option) (float64, error) {
	rs, err := SlideIntoSunset(loc, date, opts...)
	if err != nil {
		return 0, err
	}

	duration := rs.Set.Sub(rs.Rise)
	return duration.Hours(), nil
}

// TwilightFor computes twilight times (dawn and dusk) of the given kind for
// a location and local calendar date. The returned RiseSet uses Rise as the
// "dawn" time (upward crossing of the twilight altitude) and Set as the
// "dusk" time (downward crossing).
//
// For example, TwilightCivil returns civil dawn (Rise) and civil dusk (Set)
// where the Sun's altitude crosses -6 degrees.
func TwilightFor(loc Coordinates, date time.Time, kind TwilightKind, opts ...Option) (RiseSet, error) {
	alt, err := kind.altitude()
	if err != nil {
		return RiseSet{}, err
	}
	return SunRiseTransitSet(loc, date, alt, opts...)
}

// GoldenHourFor computes the golden hour intervals for the given local
// calendar date and location. Golden hour is (approximately) defined as
// the period when the Sun's center altitude is between -4° and +6°.
//
// If neither morning nor evening golden hour exists (e.g. extreme
// high-latitude edge cases), ErrNoRiseNoSet is returned.
func GoldenHourFor(loc Coordinates, date time.Time, opts ...Option) (DaylightPhases, error) {
	return phasesBetween(loc, date, -4, 6, newConfig(opts))
}

// BlueHourFor computes the blue hour intervals for the given local calendar
// date and location. Blue hour here is defined as the period when the Sun's
// center altitude is between -6° and -4°.
//
// If neither morning nor evening blue hour exists, ErrNoRiseNoSet is returned.
func BlueHourFor(loc Coordinates, date time.Time, opts ...Option) (DaylightPhases, error) {
	return phasesBetween(loc, date, -6, -4, newConfig(opts))
}

// phasesBetween returns the windows in which the Sun climbs from lowAlt to
// highAlt in the morning and descends back in the evening.
func phasesBetween(loc Coordinates, date time.Time, lowAlt, highAlt float64, c config) (DaylightPhases, error) {
	low, errLow := newSolarDay(loc, date, lowAlt, c)
	high, errHigh := newSolarDay(loc, date, highAlt, c)

	var phases DaylightPhases
	if errLow != nil || errHigh != nil {
		return phases, firstErr(errLow, errHigh)
	}

	// Morning: Sun climbing from lowAlt -> highAlt.
	if start, end := low.event(riseOf), high.event(riseOf); end.After(start) {
		phases.Morning = PhaseWindow{Start: start, End: end}
		phases.HasMorning = true
	}

	// Evening: Sun descending from highAlt -> lowAlt.
	if start, end := high.event(setOf), low.event(setOf); end.After(start) {
		phases.Evening = PhaseWindow{Start: start, End: end}
		phases.HasEvening = true
	}

	if !phases.HasMorning && !phases.HasEvening {
		return DaylightPhases{}, fmt.Errorf("%w: no window between %v° and %v°", ErrNoRiseNoSet, lowAlt, highAlt)
	}
	return phases, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func riseOf(r solver.Result) float64    { return r.Rise }
func transitOf(r solver.Result) float64 { return r.Transit }
func setOf(r solver.Result) float64     { return r.Set }

// tracker supplies what the solver needs for one body.
type tracker struct {
	samples func(jd0 float64) (alpha, delta [3]float64)
	h0      func(jd0 float64) float64
	passes  int
	// pin keeps an event that skips the local date on that date at the
	// clock time of the requested UT day instead of dropping it.
	pin bool
}

func sunTracker(h0 float64) tracker {
	return tracker{
		samples: sun.Samples,
		h0:      func(float64) float64 { return h0 },
		passes:  1,
		pin:     true,
	}
}

// bodyDay solves a body's crossings of its standard altitude around a local
// calendar date. The solver works in UT days, so an event belonging to the
// local date may come from the UT day before or after it.
type bodyDay struct {
	tz       *time.Location
	year     int
	month    time.Month
	day      int
	jd0      float64
	results  map[int]solver.Result
	observer solver.Observer
	deltaT   float64
	track    tracker
}

func newSolarDay(loc Coordinates, date time.Time, h0 float64, c config) (*bodyDay, error) {
	return newBodyDay(loc, date, sunTracker(h0), c)
}

func newBodyDay(loc Coordinates, date time.Time, track tracker, c config) (*bodyDay, error) {
	year, month, day := date.Date()
	jd0, err := julian.DateToJulianDay(year, int(month), float64(day), 0)
	if err != nil {
		return nil, err
	}

	d := &bodyDay{
		tz:       date.Location(),
		year:     year,
		month:    month,
		day:      day,
		jd0:      jd0,
		results:  make(map[int]solver.Result, 3),
		observer: solver.Observer{Lon: -loc.Lon, Lat: loc.Lat},
		deltaT:   c.deltaT,
		track:    track,
	}

	// The requested UT day decides whether the body crosses h0 at all.
	if _, err := d.solve(0); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *bodyDay) solve(offset int) (solver.Result, error) {
	if r, ok := d.results[offset]; ok {
		return r, nil
	}
	jd0 := d.jd0 + float64(offset)
	alpha, delta := d.track.samples(jd0)
	h0 := d.track.h0(jd0)
	r, err := solver.RiseTransitSetIterated(d.observer, h0, jd0, alpha, delta, d.deltaT, d.track.passes)
	if err != nil {
		return solver.Result{}, err
	}
	d.results[offset] = r
	return r, nil
}

// find returns the selected event on the local calendar date, in the
// date's zone. ok is false when the event does not happen on that date.
func (d *bodyDay) find(pick func(solver.Result) float64) (t time.Time, ok bool) {
	base := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{0, 1, -1} {
		r, err := d.solve(offset)
		if err != nil {
			continue
		}
		tod := timeutil.FractionToTimeOfDay(pick(r))
		t := base.AddDate(0, 0, offset).Add(tod.Duration()).In(d.tz)
		if y, m, dd := t.Date(); y == d.year && m == d.month && dd == d.day {
			return t, true
		}
	}

	if !d.track.pin {
		return time.Time{}, false
	}
	// Near the poles the event can skip the local date entirely; keep the
	// clock time of the requested UT day on the requested date.
	tod := timeutil.FractionToTimeOfDay(timeutil.Normalize01(pick(d.results[0])))
	return withLocalDate(base.Add(tod.Duration()).In(d.tz), d.year, d.month, d.day), true
}

// event is find for the Sun, whose events are always pinned to the date.
func (d *bodyDay) event(pick func(solver.Result) float64) time.Time {
	t, _ := d.find(pick)
	return t
}

// withLocalDate returns a copy of t but with its calendar date
// forced to (year, month, day), keeping the same clock time and location.
func withLocalDate(t time.Time, year int, month time.Month, day int) time.Time {
	loc := t.Location()
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// IsPolarDay reports whether err says the Sun stays above the altitude all
// day.
func IsPolarDay(err error) bool {
	var ce *CircumpolarError
	return errors.As(err, &ce) && ce.AlwaysAbove()
}
