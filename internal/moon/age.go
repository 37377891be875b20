package moon

import (
	"math"

	"github.com/thurmanmarka/almanac/internal/sun"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Age describes where an instant falls within its lunation and how much of
// the Moon's disk is lit.
type Age struct {
	PrevNewMoon float64 // JDE of the new moon that started the lunation
	NextNewMoon float64 // JDE of the new moon that ends it
	Days        float64 // days since PrevNewMoon
	Elongation  float64 // geocentric Sun–Moon elongation ψ in degrees [0..180]
	PhaseAngle  float64 // Sun–Moon–Earth angle i in degrees [0..180]
	Fraction    float64 // illuminated fraction [0..1], 0=new, 1=full
	Waxing      bool
	Name        string // e.g. "Waxing Crescent"
}

// PhaseAt locates jde within its lunation using the true new moon times and
// computes the illuminated fraction from the positions of the Sun and the
// Moon (Meeus ch.48).
func PhaseAt(jde float64) Age {
	k := math.Floor((jde - 2451550.09766) / SynodicMonth)

	prev := phaseJDE(k, NewMoon)
	for prev > jde {
		k--
		prev = phaseJDE(k, NewMoon)
	}
	next := phaseJDE(k+1, NewMoon)
	for next <= jde {
		k++
		prev = next
		next = phaseJDE(k+1, NewMoon)
	}

	psi, i, waxing := illumination(jde)
	fraction := (1 + timeutil.CosD(i)) / 2

	return Age{
		PrevNewMoon: prev,
		NextNewMoon: next,
		Days:        jde - prev,
		Elongation:  psi,
		PhaseAngle:  i,
		Fraction:    fraction,
		Waxing:      waxing,
		Name:        classifyPhaseName(fraction, waxing),
	}
}

// auKm is the astronomical unit in km.
const auKm = 149597870.7

// illumination returns the geocentric elongation ψ and the phase angle i
// of the Moon, and whether the Moon is east of the Sun (waxing).
func illumination(jde float64) (psi, i float64, waxing bool) {
	m := PositionAt(jde)
	s := sun.PositionAt(jde)

	dLon := timeutil.Revolution(m.Longitude - s.ApparentLongitude)
	psi = timeutil.AcosD(clamp1(timeutil.CosD(m.Latitude) * timeutil.CosD(dLon)))

	R := s.Radius * auKm
	sinPsi, cosPsi := math.Sincos(timeutil.Deg2Rad(psi))
	i = timeutil.Rad2Deg(math.Atan2(R*sinPsi, m.Distance-R*cosPsi))

	return psi, i, dLon < 180
}

func clamp1(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

func classifyPhaseName(f float64, waxing bool) string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
