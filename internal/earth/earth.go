// Package earth models the orientation of the Earth: sidereal time,
// nutation and the obliquity of the ecliptic.
//
// Nutation uses the abbreviated four-argument series (Meeus ch.22), good to
// about 0.5" in Δψ and 0.1" in Δε.
package earth

import (
	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/series"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Fundamental arguments in degrees per Julian century.
var (
	// Ω, longitude of the ascending node of the Moon's mean orbit.
	moonNode = series.Arg{Phase: 125.04452, Rate: -1934.136261}
	// L, mean longitude of the Sun.
	sunLongitude = series.Arg{Phase: 280.4665, Rate: 36000.7698}
	// L′, mean longitude of the Moon.
	moonLongitude = series.Arg{Phase: 218.3165, Rate: 481267.8813}
)

// Arc-seconds.
var nutationInLongitude = series.Series{
	series.Combine(-17.20, series.Sin, moonNode),
	series.Combine(-1.32, series.Sin, sunLongitude.Mul(2)),
	series.Combine(-0.23, series.Sin, moonLongitude.Mul(2)),
	series.Combine(0.21, series.Sin, moonNode.Mul(2)),
}

// Arc-seconds.
var nutationInObliquity = series.Series{
	series.Combine(9.20, series.Cos, moonNode),
	series.Combine(0.57, series.Cos, sunLongitude.Mul(2)),
	series.Combine(0.10, series.Cos, moonLongitude.Mul(2)),
	series.Combine(-0.09, series.Cos, moonNode.Mul(2)),
}

// MeanSiderealTime returns the mean sidereal time at Greenwich, in degrees,
// for the instant jd (UT).
func MeanSiderealTime(jd float64) float64 {
	T := julian.Centuries(jd)
	theta := 280.46061837 +
		360.98564736629*(jd-julian.J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0
	return timeutil.Revolution(theta)
}

// Nutation returns the nutation in longitude Δψ and in obliquity Δε, both in
// arc-seconds, for T Julian centuries from J2000.0.
func Nutation(T float64) (deltaPsi, deltaEpsilon float64) {
	return nutationInLongitude.Sum(T), nutationInObliquity.Sum(T)
}

// MeanObliquity returns the mean obliquity of the ecliptic ε₀ in degrees
// (Meeus 22.2).
func MeanObliquity(T float64) float64 {
	arcsec := 21.448 - T*(46.8150+T*(0.00059-T*0.001813))
	return 23.0 + (26.0+arcsec/60.0)/60.0
}

// Obliquity returns the mean obliquity ε₀ and the true obliquity ε = ε₀ + Δε,
// both in degrees.
func Obliquity(T float64) (eps0, eps float64) {
	eps0 = MeanObliquity(T)
	_, deltaEpsilon := Nutation(T)
	return eps0, eps0 + deltaEpsilon/3600.0
}

// ApparentSiderealTime returns the apparent sidereal time at Greenwich in
// degrees: the mean sidereal time corrected for the nutation in longitude.
func ApparentSiderealTime(jd float64) float64 {
	T := julian.Centuries(jd)
	deltaPsi, _ := Nutation(T)
	_, eps := Obliquity(T)

	// Δψ·cos ε / 15 is the correction in seconds of time; 240 s per degree.
	correction := deltaPsi * timeutil.CosD(eps) / 15.0 / 240.0
	return timeutil.Revolution(MeanSiderealTime(jd) + correction)
}
