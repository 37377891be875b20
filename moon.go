package almanac

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/almanac/internal/moon"
)

// Body represents a celestial body.
type Body int

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	default:
		return fmt.Sprintf("Body(%d)", int(b))
	}
}

// LunarPosition is the Moon's apparent geocentric position: ecliptic
// longitude and latitude, distance in km, horizontal parallax, right
// ascension and declination (degrees).
type LunarPosition = moon.Position

// ApparentLunarCoordinates returns the Moon's apparent right ascension and
// declination in degrees at Julian Ephemeris Day jde.
func ApparentLunarCoordinates(jde float64) (alpha, delta float64) {
	return moon.ApparentCoordinates(jde)
}

// MoonPositionAt returns the Moon's apparent geocentric position at t.
func MoonPositionAt(t time.Time, opts ...Option) LunarPosition {
	c := newConfig(opts)
	return moon.PositionAt(c.utToTD(t))
}

// moonPasses is the number of rise/transit/set correction passes for the
// Moon, which moves about 13° a day against the stars.
const moonPasses = 3

func moonTracker() tracker {
	return tracker{
		samples: moon.Samples,
		h0:      moon.StandardAltitude,
		passes:  moonPasses,
	}
}

// MoonRiseTransitSet returns moonrise, the Moon's meridian transit and
// moonset on the local calendar date of date, in date's zone.
//
// The Moon rises about 50 minutes later each day, so about once a month a
// date has no moonrise (or no moonset, or no transit); the missing event is
// the zero time. If the Moon neither rises nor sets, the error matches
// ErrNoRiseNoSet.
func MoonRiseTransitSet(loc Coordinates, date time.Time, opts ...Option) (RiseSet, error) {
	d, err := newBodyDay(loc, date, moonTracker(), newConfig(opts))
	if err != nil {
		return RiseSet{}, err
	}

	var rs RiseSet
	rs.Rise, _ = d.find(riseOf)
	rs.Transit, _ = d.find(transitOf)
	rs.Set, _ = d.find(setOf)

	if rs.Rise.IsZero() && rs.Set.IsZero() {
		return rs, fmt.Errorf("%w: no moonrise or moonset on %s", ErrNoRiseNoSet, date.Format("2006-01-02"))
	}
	return rs, nil
}

// RiseSetFor returns rise, transit and set times for the given body and
// location on a date. The date's time zone is used for the returned times.
func RiseSetFor(body Body, loc Coordinates, date time.Time, opts ...Option) (RiseSet, error) {
	switch body {
	case Sun:
		return SlideIntoSunset(loc, date, opts...)
	case Moon:
		return MoonRiseTransitSet(loc, date, opts...)
	default:
		return RiseSet{}, fmt.Errorf("unknown body %v", body)
	}
}
