// Package moon computes the instants of the principal lunar phases.
//
// The algorithm is Meeus ch.49: a mean phase from the lunation number k,
// corrected by periodic terms in the Sun's and Moon's mean anomalies, the
// Moon's argument of latitude and the longitude of its node. Results are
// Julian Ephemeris Days, accurate to well under a minute for 1900–2100.
package moon

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/series"
)

// Phase identifies one of the four principal lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

func (p Phase) String() string {
	switch p {
	case NewMoon:
		return "New Moon"
	case FirstQuarter:
		return "First Quarter"
	case FullMoon:
		return "Full Moon"
	case LastQuarter:
		return "Last Quarter"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ErrUnsupportedPhase is returned for Phase values outside the four defined
// constants.
var ErrUnsupportedPhase = errors.New("unsupported lunar phase")

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588861

// lunationsPerYear converts a fractional year to an approximate k.
const lunationsPerYear = 12.3685

// Fundamental arguments in degrees per lunation.
var (
	// M, Sun's mean anomaly.
	argM = series.Arg{Phase: 2.5534, Rate: 29.10535670}
	// M′, Moon's mean anomaly.
	argMp = series.Arg{Phase: 201.5643, Rate: 385.81693528}
	// F, Moon's argument of latitude.
	argF = series.Arg{Phase: 160.7108, Rate: 390.67050284}
	// Ω, longitude of the ascending node.
	argNode = series.Arg{Phase: 124.7746, Rate: -1.56375588}
)

func sin(amp float64, args ...series.Arg) series.Term {
	return series.Combine(amp, series.Sin, args...)
}

func cos(amp float64, args ...series.Arg) series.Term {
	return series.Combine(amp, series.Cos, args...)
}

// corrections splits a phase's periodic terms by the power of the Earth
// orbit eccentricity factor E that scales them.
type corrections struct {
	e0, e1, e2 series.Series
}

func (c corrections) sum(k, E float64) float64 {
	return c.e0.Sum(k) + E*c.e1.Sum(k) + E*E*c.e2.Sum(k)
}

var newMoonTerms = corrections{
	e0: series.Series{
		sin(-0.40720, argMp),
		sin(0.01608, argMp.Mul(2)),
		sin(0.01039, argF.Mul(2)),
		sin(-0.00111, argMp, argF.Mul(-2)),
		sin(-0.00057, argMp, argF.Mul(2)),
		sin(-0.00042, argMp.Mul(3)),
		sin(-0.00017, argNode),
		sin(-0.00007, argMp, argM.Mul(2)),
		sin(0.00004, argMp.Mul(2), argF.Mul(-2)),
		sin(0.00004, argM.Mul(3)),
		sin(0.00003, argMp, argM, argF.Mul(-2)),
		sin(0.00003, argMp.Mul(2), argF.Mul(2)),
		sin(-0.00003, argMp, argM, argF.Mul(2)),
		sin(0.00003, argMp, argM.Mul(-1), argF.Mul(2)),
		sin(-0.00002, argMp, argM.Mul(-1), argF.Mul(-2)),
		sin(-0.00002, argMp.Mul(3), argM),
		sin(0.00002, argMp.Mul(4)),
	},
	e1: series.Series{
		sin(0.17241, argM),
		sin(0.00739, argMp, argM.Mul(-1)),
		sin(-0.00514, argMp, argM),
		sin(0.00056, argMp.Mul(2), argM),
		sin(0.00042, argM, argF.Mul(2)),
		sin(0.00038, argM, argF.Mul(-2)),
		sin(-0.00024, argMp.Mul(2), argM.Mul(-1)),
	},
	e2: series.Series{
		sin(0.00208, argM.Mul(2)),
	},
}

var fullMoonTerms = corrections{
	e0: series.Series{
		sin(-0.40614, argMp),
		sin(0.01614, argMp.Mul(2)),
		sin(0.01043, argF.Mul(2)),
		sin(-0.00111, argMp, argF.Mul(-2)),
		sin(-0.00057, argMp, argF.Mul(2)),
		sin(-0.00042, argMp.Mul(3)),
		sin(-0.00017, argNode),
		sin(-0.00007, argMp, argM.Mul(2)),
		sin(0.00004, argMp.Mul(2), argF.Mul(-2)),
		sin(0.00004, argM.Mul(3)),
		sin(0.00003, argMp, argM, argF.Mul(-2)),
		sin(0.00003, argMp.Mul(2), argF.Mul(2)),
		sin(-0.00003, argMp, argM, argF.Mul(2)),
		sin(0.00003, argMp, argM.Mul(-1), argF.Mul(2)),
		sin(-0.00002, argMp, argM.Mul(-1), argF.Mul(-2)),
		sin(-0.00002, argMp.Mul(3), argM),
		sin(0.00002, argMp.Mul(4)),
	},
	e1: series.Series{
		sin(0.17302, argM),
		sin(0.00734, argMp, argM.Mul(-1)),
		sin(-0.00515, argMp, argM),
		sin(0.00056, argMp.Mul(2), argM),
		sin(0.00042, argM, argF.Mul(2)),
		sin(0.00038, argM, argF.Mul(-2)),
		sin(-0.00024, argMp.Mul(2), argM.Mul(-1)),
	},
	e2: series.Series{
		sin(0.00209, argM.Mul(2)),
	},
}

var quarterTerms = corrections{
	e0: series.Series{
		sin(-0.62801, argMp),
		sin(0.00862, argMp.Mul(2)),
		sin(0.00804, argF.Mul(2)),
		sin(-0.00180, argMp, argF.Mul(-2)),
		sin(-0.00070, argMp, argF.Mul(2)),
		sin(-0.00040, argMp.Mul(3)),
		sin(-0.00017, argNode),
		sin(-0.00005, argMp, argM.Mul(-1), argF.Mul(-2)),
		sin(0.00004, argMp.Mul(2), argF.Mul(2)),
		sin(-0.00004, argMp, argM, argF.Mul(2)),
		sin(0.00004, argMp, argM.Mul(-2)),
		sin(0.00003, argMp, argM, argF.Mul(-2)),
		sin(0.00003, argM.Mul(3)),
		sin(0.00002, argMp.Mul(2), argF.Mul(-2)),
		sin(0.00002, argMp, argM.Mul(-1), argF.Mul(2)),
		sin(-0.00002, argMp.Mul(3), argM),
	},
	e1: series.Series{
		sin(0.17172, argM),
		sin(-0.01183, argMp, argM),
		sin(0.00454, argMp, argM.Mul(-1)),
		sin(-0.00034, argMp.Mul(2), argM.Mul(-1)),
		sin(0.00032, argM, argF.Mul(2)),
		sin(0.00032, argM, argF.Mul(-2)),
		sin(0.00027, argMp.Mul(2), argM),
	},
	e2: series.Series{
		sin(0.00204, argM.Mul(2)),
		sin(-0.00028, argMp, argM.Mul(2)),
	},
}

// quarterW is the extra quarter-phase correction, added for the first
// quarter and subtracted for the last. The constant 0.00306 is added
// separately.
var quarterW = corrections{
	e0: series.Series{
		cos(0.00026, argMp),
		cos(-0.00002, argMp, argM.Mul(-1)),
		cos(0.00002, argMp, argM),
		cos(0.00002, argF.Mul(2)),
	},
	e1: series.Series{
		cos(-0.00038, argM),
	},
}

// Additional corrections common to all phases, from the planetary
// arguments A1…A14.
var planetaryTerms = series.Series{
	{Amplitude: 0.000325, Phase: 299.77, Rate: 0.107408},
	{Amplitude: 0.000165, Phase: 251.88, Rate: 0.016321},
	{Amplitude: 0.000164, Phase: 251.83, Rate: 26.651886},
	{Amplitude: 0.000126, Phase: 349.42, Rate: 36.412478},
	{Amplitude: 0.000110, Phase: 84.66, Rate: 18.206239},
	{Amplitude: 0.000062, Phase: 141.74, Rate: 53.303771},
	{Amplitude: 0.000060, Phase: 207.14, Rate: 2.453732},
	{Amplitude: 0.000056, Phase: 154.84, Rate: 7.306860},
	{Amplitude: 0.000047, Phase: 34.52, Rate: 27.261239},
	{Amplitude: 0.000042, Phase: 207.19, Rate: 0.121824},
	{Amplitude: 0.000040, Phase: 291.34, Rate: 1.844379},
	{Amplitude: 0.000037, Phase: 161.72, Rate: 24.198154},
	{Amplitude: 0.000035, Phase: 239.56, Rate: 25.513099},
	{Amplitude: 0.000023, Phase: 331.55, Rate: 3.592518},
}

func (p Phase) offset() (float64, error) {
	switch p {
	case NewMoon:
		return 0, nil
	case FirstQuarter:
		return 0.25, nil
	case FullMoon:
		return 0.5, nil
	case LastQuarter:
		return 0.75, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedPhase, int(p))
	}
}

// lunation returns k for the occurrence of the phase nearest to
// fractionalYear: the approximate k snapped to the closest value with the
// phase's fractional part (Meeus 49.2).
func lunation(fractionalYear float64, p Phase) (float64, error) {
	off, err := p.offset()
	if err != nil {
		return 0, err
	}
	k := (fractionalYear - 2000) * lunationsPerYear
	return math.Floor(k-off+0.5) + off, nil
}

// PhaseDate returns the Julian Ephemeris Day of the occurrence of the
// requested phase nearest to fractionalYear (e.g. 1977.13 is mid February
// 1977).
func PhaseDate(fractionalYear float64, p Phase) (float64, error) {
	k, err := lunation(fractionalYear, p)
	if err != nil {
		return 0, err
	}
	return phaseJDE(k, p), nil
}

// phaseJDE evaluates the phase whose lunation number is k. p must be valid
// and agree with the fractional part of k.
func phaseJDE(k float64, p Phase) float64 {
	T := k / 1236.85

	jde := 2451550.09766 + SynodicMonth*k +
		T*T*(0.00015437+T*(-0.000000150+T*0.00000000073))

	E := 1 - T*(0.002516+T*0.0000074)

	switch p {
	case NewMoon:
		jde += newMoonTerms.sum(k, E)
	case FullMoon:
		jde += fullMoonTerms.sum(k, E)
	default:
		jde += quarterTerms.sum(k, E)
		w := 0.00306 + quarterW.sum(k, E)
		if p == LastQuarter {
			w = -w
		}
		jde += w
	}

	return jde + planetaryTerms.Sum(k)
}

// sweepStep is the fractional-year stride of Phases; it is shorter than a
// lunation so no phase can fall between two samples.
const sweepStep = 0.05

// Phases returns the Julian Ephemeris Days of every occurrence of phase p
// whose calendar date falls in year, in ascending order.
func Phases(year int, p Phase) ([]float64, error) {
	if _, err := p.offset(); err != nil {
		return nil, err
	}

	seen := make(map[float64]bool)
	var out []float64

	// Start and end one step outside the year so the sweep covers events
	// in the first and last days.
	steps := int(math.Round(1 / sweepStep))
	for i := -1; i <= steps+1; i++ {
		k, _ := lunation(float64(year)+float64(i)*sweepStep, p)
		if seen[k] {
			continue
		}
		seen[k] = true

		jde := phaseJDE(k, p)
		cd, err := julian.JulianDayToDate(jde)
		if err != nil {
			return nil, err
		}
		if cd.Year != year {
			continue
		}
		out = append(out, jde)
	}

	sort.Float64s(out)
	return out, nil
}
