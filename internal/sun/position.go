// Package sun computes the apparent position of the Sun and the instants of
// the equinoxes and solstices.
package sun

import (
	"math"

	"github.com/thurmanmarka/almanac/internal/earth"
	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Position holds the intermediate and final quantities of the solar model
// for one instant. Angles are in degrees, Radius in AU.
type Position struct {
	MeanLongitude     float64 // L0, geometric mean longitude
	MeanAnomaly       float64 // M
	Eccentricity      float64 // e, Earth's orbit
	EquationOfCenter  float64 // C
	TrueLongitude     float64 // ☉ = L0 + C
	TrueAnomaly       float64 // ν = M + C
	Radius            float64 // R
	ApparentLongitude float64 // λ, corrected for nutation and aberration
	Obliquity         float64 // ε0 + 0.00256 cos Ω
	RA                float64 // α, [0, 360)
	Dec               float64 // δ
}

// ApparentCoordinates returns the apparent geocentric right ascension and
// declination of the Sun, in degrees, at Julian Ephemeris Day jde.
//
// The model is the low-accuracy one of Meeus ch.25, good to about 0.01°.
func ApparentCoordinates(jde float64) (alpha, delta float64) {
	p := PositionAt(jde)
	return p.RA, p.Dec
}

// PositionAt evaluates the full solar model at jde.
func PositionAt(jde float64) Position {
	T := julian.Centuries(jde)

	L0 := timeutil.Revolution(280.46646 + T*(36000.76983+T*0.0003032))
	M := timeutil.Revolution(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)

	Mr := timeutil.Deg2Rad(M)
	C := (1.914602-T*(0.004817+T*0.000014))*math.Sin(Mr) +
		(0.019993-T*0.000101)*math.Sin(2*Mr) +
		0.000289*math.Sin(3*Mr)

	trueLon := L0 + C
	nu := M + C
	R := 1.000001018 * (1 - e*e) / (1 + e*timeutil.CosD(nu))

	omega := 125.04 - 1934.136*T
	lambda := trueLon - 0.00569 - 0.00478*timeutil.SinD(omega)
	eps := earth.MeanObliquity(T) + 0.00256*timeutil.CosD(omega)

	lr := timeutil.Deg2Rad(lambda)
	er := timeutil.Deg2Rad(eps)

	alpha := timeutil.Revolution(timeutil.Rad2Deg(math.Atan2(math.Cos(er)*math.Sin(lr), math.Cos(lr))))
	delta := timeutil.Rad2Deg(math.Asin(math.Sin(er) * math.Sin(lr)))

	return Position{
		MeanLongitude:     L0,
		MeanAnomaly:       M,
		Eccentricity:      e,
		EquationOfCenter:  C,
		TrueLongitude:     timeutil.Revolution(trueLon),
		TrueAnomaly:       timeutil.Revolution(nu),
		Radius:            R,
		ApparentLongitude: timeutil.Revolution(lambda),
		Obliquity:         eps,
		RA:                alpha,
		Dec:               delta,
	}
}

// Samples returns the Sun's apparent right ascension and declination at 0h
// dynamical time on the days jd0-1, jd0 and jd0+1 (jd0 is a Julian Day at
// 0h). This is the input the rise/transit/set solver interpolates across.
func Samples(jd0 float64) (alpha, delta [3]float64) {
	for i := 0; i < 3; i++ {
		alpha[i], delta[i] = ApparentCoordinates(jd0 + float64(i-1))
	}
	return alpha, delta
}
