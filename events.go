package almanac

import (
	"sort"
	"time"

	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/moon"
	"github.com/thurmanmarka/almanac/internal/sun"
)

// SeasonEvent is an equinox or solstice.
type SeasonEvent struct {
	Season Season
	JDE    float64   // dynamical time
	Time   time.Time // UTC
}

// Seasons returns the four equinoxes and solstices of year in calendar
// order.
func Seasons(year int, opts ...Option) ([]SeasonEvent, error) {
	c := newConfig(opts)

	events := make([]SeasonEvent, 0, 4)
	for s := sun.VernalEquinox; s <= sun.WinterSolstice; s++ {
		jde, err := sun.EquinoxSolstice(year, s)
		if err != nil {
			return nil, err
		}
		events = append(events, SeasonEvent{Season: s, JDE: jde, Time: c.tdToUT(jde)})
	}
	return events, nil
}

// PhaseEvent is one occurrence of a principal lunar phase.
type PhaseEvent struct {
	Phase Phase
	JDE   float64   // dynamical time
	Time  time.Time // UTC
}

// MoonPhaseEvents returns every principal phase of year, all four kinds
// merged in time order.
func MoonPhaseEvents(year int, opts ...Option) ([]PhaseEvent, error) {
	c := newConfig(opts)

	var events []PhaseEvent
	for p := moon.NewMoon; p <= moon.LastQuarter; p++ {
		jdes, err := moon.Phases(year, p)
		if err != nil {
			return nil, err
		}
		for _, jde := range jdes {
			events = append(events, PhaseEvent{Phase: p, JDE: jde, Time: c.tdToUT(jde)})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].JDE < events[j].JDE })
	return events, nil
}

// MoonPhase describes the illuminated fraction and qualitative phase
// of the Moon at a given instant.
type MoonPhase struct {
	Time        time.Time // the instant this phase is evaluated at
	Age         float64   // days since the previous new moon
	Fraction    float64   // illuminated fraction [0..1], 0=new, 1=full
	Elongation  float64   // geocentric Sun-Moon angular separation in degrees [0..180]
	Waxing      bool      // true if waxing (illumination increasing), false if waning
	Name        string    // e.g. "New Moon", "Waxing Crescent", "First Quarter", ...
	PrevNewMoon time.Time // UTC
	NextNewMoon time.Time // UTC
}

// MoonPhaseAt computes the Moon's illuminated fraction and qualitative phase
// at the given time. Phase is a global property (independent of observer
// location), so we work in UTC internally and return the original time.
func MoonPhaseAt(t time.Time, opts ...Option) (MoonPhase, error) {
	c := newConfig(opts)
	age := moon.PhaseAt(c.utToTD(t))

	return MoonPhase{
		Time:        t,
		Age:         age.Days,
		Fraction:    age.Fraction,
		Elongation:  age.Elongation,
		Waxing:      age.Waxing,
		Name:        age.Name,
		PrevNewMoon: c.tdToUT(age.PrevNewMoon),
		NextNewMoon: c.tdToUT(age.NextNewMoon),
	}, nil
}

// JulianDay returns the Julian Day (UT) of t.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t)
}

// TimeFromJulianDay returns the UTC time of a Julian Day.
func TimeFromJulianDay(jd float64) time.Time {
	return julian.JDToTime(jd)
}
