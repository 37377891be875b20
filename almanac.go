// Package almanac computes calendar and astronomical events: Julian Day
// conversion, the apparent position of the Sun, equinoxes and solstices,
// the principal lunar phases and the rising, transit and setting of the Sun.
//
// The numerical entry points (DateToJulianDay, ApparentSolarCoordinates,
// EquinoxSolstice, MoonPhaseDate, RiseTransitSet, ...) work in Julian Days
// and degrees and follow the conventions of Meeus, "Astronomical
// Algorithms". The time.Time conveniences (SlideIntoSunset, TwilightFor,
// GoldenHourFor, Seasons, MoonPhaseAt, ...) take an observer's Coordinates
// and return times in the location of the date passed in.
//
// Everything is pure computation; all functions are safe for concurrent use.
package almanac

import (
	"time"

	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/moon"
	"github.com/thurmanmarka/almanac/internal/solver"
	"github.com/thurmanmarka/almanac/internal/sun"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 // degrees, north positive
	Lon       float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 // meters above sea level (reserved for future use)
}

// CalendarDateTime is a calendar date whose Day carries the time of day as
// a fraction.
type CalendarDateTime = julian.CalendarDate

// TimeOfDay is a day fraction split into clock components.
type TimeOfDay = timeutil.TimeOfDay

// DayEvents holds transit, rise and set as fractions of the UT day.
type DayEvents = solver.Result

// CircumpolarError is returned when a body does not cross the requested
// altitude on a date.
type CircumpolarError = solver.CircumpolarError

// Season identifies an equinox or solstice.
type Season = sun.Season

const (
	VernalEquinox   = sun.VernalEquinox
	SummerSolstice  = sun.SummerSolstice
	AutumnalEquinox = sun.AutumnalEquinox
	WinterSolstice  = sun.WinterSolstice
)

// Phase identifies one of the principal lunar phases.
type Phase = moon.Phase

const (
	NewMoon      = moon.NewMoon
	FirstQuarter = moon.FirstQuarter
	FullMoon     = moon.FullMoon
	LastQuarter  = moon.LastQuarter
)

var (
	// ErrInvalidDate is returned for dates in the 1582 Gregorian reform gap,
	// out of range months or days and negative Julian Days.
	ErrInvalidDate = julian.ErrInvalidDate

	// ErrNoRiseNoSet is returned when a body does not rise or set on that
	// date at that location. For the Sun the error is always a
	// *CircumpolarError.
	ErrNoRiseNoSet = solver.ErrCircumpolar

	// ErrUnsupportedSeason is returned for Season values outside the enum.
	ErrUnsupportedSeason = sun.ErrUnsupportedSeason

	// ErrUnsupportedPhase is returned for Phase values outside the enum.
	ErrUnsupportedPhase = moon.ErrUnsupportedPhase
)

// DefaultDeltaT is the value of ΔT = TD − UT, in seconds, used when no
// WithDeltaT option is given. It is the observed value for the mid 2020s;
// far from that era pass a modeled value instead.
const DefaultDeltaT = 69.2

type config struct {
	deltaT float64
}

// Option adjusts a computation.
type Option func(*config)

// WithDeltaT sets ΔT = TD − UT in seconds.
func WithDeltaT(seconds float64) Option {
	return func(c *config) {
		c.deltaT = seconds
	}
}

func newConfig(opts []Option) config {
	c := config{deltaT: DefaultDeltaT}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// tdToUT converts a Julian Ephemeris Day to a UTC time.
func (c config) tdToUT(jde float64) time.Time {
	return julian.JDToTime(jde - c.deltaT/86400)
}

// utToTD converts a time to a Julian Ephemeris Day.
func (c config) utToTD(t time.Time) float64 {
	return julian.TimeToJD(t) + c.deltaT/86400
}

// DateToJulianDay returns the Julian Day of d. Dates before 1582 October 15
// are taken in the Julian calendar.
func DateToJulianDay(d CalendarDateTime) (float64, error) {
	return julian.DateToJulianDay(d.Year, d.Month, d.Day, 0)
}

// JulianDayToDate is the inverse of DateToJulianDay.
func JulianDayToDate(jd float64) (CalendarDateTime, error) {
	return julian.JulianDayToDate(jd)
}

// ApparentSolarCoordinates returns the Sun's apparent right ascension and
// declination in degrees at Julian Ephemeris Day jde.
func ApparentSolarCoordinates(jde float64) (alpha, delta float64) {
	return sun.ApparentCoordinates(jde)
}

// EquinoxSolstice returns the Julian Ephemeris Day of an equinox or
// solstice of year.
func EquinoxSolstice(year int, s Season) (float64, error) {
	return sun.EquinoxSolstice(year, s)
}

// MoonPhaseDate returns the Julian Ephemeris Day of the occurrence of phase
// p nearest to fractionalYear (e.g. 1977.13 for mid February).
func MoonPhaseDate(fractionalYear float64, p Phase) (float64, error) {
	return moon.PhaseDate(fractionalYear, p)
}

// MoonPhases returns every occurrence of phase p in year, in dynamical time,
// in ascending order.
func MoonPhases(year int, p Phase) ([]CalendarDateTime, error) {
	jdes, err := moon.Phases(year, p)
	if err != nil {
		return nil, err
	}

	dates := make([]CalendarDateTime, 0, len(jdes))
	for _, jde := range jdes {
		cd, err := julian.JulianDayToDate(jde)
		if err != nil {
			return nil, err
		}
		dates = append(dates, cd)
	}
	return dates, nil
}

// RiseTransitSet returns the transit, rise and set of a body on the day
// whose 0h UT is jd0, as fractions of that day.
//
// Unlike Coordinates, lon here is positive WEST of Greenwich. h0 is the
// standard altitude in degrees (-0.8333 for the Sun). alpha and delta are
// the body's apparent right ascension and declination at 0h TD on jd0-1,
// jd0 and jd0+1.
func RiseTransitSet(lon, lat, h0, jd0 float64, alpha, delta [3]float64, opts ...Option) (DayEvents, error) {
	c := newConfig(opts)
	return solver.RiseTransitSet(solver.Observer{Lon: lon, Lat: lat}, h0, jd0, alpha, delta, c.deltaT)
}

// FractionToTimeOfDay splits a number of days into clock components,
// keeping the sign of negative values.
func FractionToTimeOfDay(days float64) TimeOfDay {
	return timeutil.FractionToTimeOfDay(days)
}
