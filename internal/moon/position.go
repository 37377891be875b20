package moon

import (
	"math"

	"github.com/thurmanmarka/almanac/internal/earth"
	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// EarthRadius is the equatorial radius of the Earth in km.
const EarthRadius = 6378.14

// Position is the geocentric position of the Moon at one instant. Angles
// are in degrees.
type Position struct {
	Longitude float64 // apparent ecliptic longitude λ, nutation included
	Latitude  float64 // ecliptic latitude β
	Distance  float64 // Earth–Moon distance Δ in km
	Parallax  float64 // equatorial horizontal parallax π
	RA        float64 // apparent right ascension α, [0, 360)
	Dec       float64 // apparent declination δ
}

// periodicTerm is one row of Meeus tables 47.A and 47.B: integer multiples
// of D, M, M′ and F, and the coefficients of the sine (longitude, latitude)
// or cosine (distance) of their sum.
type periodicTerm struct {
	d, m, mp, f float64
	a, b        float64 // Σl or Σb in 1e-6 degrees; Σr in 1e-3 km
}

// The largest terms of table 47.A. Dropped terms sum to under 0.025° in
// longitude and 60 km in distance.
var longitudeDistanceTerms = []periodicTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
	{1, 0, 1, 0, -2348, 6322},
	{2, -2, 0, 0, 2236, -9884},
}

// The largest terms of table 47.B (b only). Dropped terms sum to under
// 0.01°.
var latitudeTerms = []periodicTerm{
	{0, 0, 0, 1, 5128122, 0},
	{0, 0, 1, 1, 280602, 0},
	{0, 0, 1, -1, 277693, 0},
	{2, 0, 0, -1, 173237, 0},
	{2, 0, -1, 1, 55413, 0},
	{2, 0, -1, -1, 46271, 0},
	{2, 0, 0, 1, 32573, 0},
	{0, 0, 2, 1, 17198, 0},
	{2, 0, 1, -1, 9266, 0},
	{0, 0, 2, -1, 8822, 0},
	{2, -1, 0, -1, 8216, 0},
	{2, 0, -2, -1, 4324, 0},
	{2, 0, 1, 1, 4200, 0},
	{2, 1, 0, -1, -3359, 0},
	{2, -1, -1, 1, 2463, 0},
	{2, -1, 0, 1, 2211, 0},
	{2, -1, -1, -1, 2065, 0},
	{0, 1, -1, -1, -1870, 0},
	{4, 0, -1, -1, 1828, 0},
	{0, 1, 0, 1, -1794, 0},
	{0, 0, 0, 3, -1749, 0},
	{0, 1, -1, 1, -1565, 0},
	{1, 0, 0, 1, -1491, 0},
	{0, 1, 1, 1, -1475, 0},
	{0, 1, 1, -1, -1410, 0},
	{0, 1, 0, -1, -1344, 0},
	{1, 0, 0, -1, -1335, 0},
	{0, 0, 3, 1, 1107, 0},
	{4, 0, 0, -1, 1021, 0},
	{4, 0, -1, 1, 833, 0},
}

// eccentricityFactor scales terms containing the Sun's mean anomaly M by
// E^|M|.
func eccentricityFactor(m, E float64) float64 {
	switch math.Abs(m) {
	case 1:
		return E
	case 2:
		return E * E
	default:
		return 1
	}
}

// PositionAt evaluates the lunar theory of Meeus ch.47, truncated to its
// larger terms, at Julian Ephemeris Day jde.
func PositionAt(jde float64) Position {
	T := julian.Centuries(jde)

	Lp := timeutil.Revolution(218.3164477 + T*(481267.88123421+T*(-0.0015786+T*(1/538841.0-T/65194000.0))))
	D := timeutil.Revolution(297.8501921 + T*(445267.1114034+T*(-0.0018819+T*(1/545868.0-T/113065000.0))))
	M := timeutil.Revolution(357.5291092 + T*(35999.0502909+T*(-0.0001536+T/24490000.0)))
	Mp := timeutil.Revolution(134.9633964 + T*(477198.8675055+T*(0.0087414+T*(1/69699.0-T/14712000.0))))
	F := timeutil.Revolution(93.2720950 + T*(483202.0175233+T*(-0.0036539+T*(-1/3526000.0+T/863310000.0))))
	E := 1 - T*(0.002516+T*0.0000074)

	A1 := 119.75 + 131.849*T
	A2 := 53.09 + 479264.290*T
	A3 := 313.45 + 481266.484*T

	var sumL, sumR, sumB float64
	for _, t := range longitudeDistanceTerms {
		arg := t.d*D + t.m*M + t.mp*Mp + t.f*F
		e := eccentricityFactor(t.m, E)
		sumL += t.a * e * timeutil.SinD(arg)
		sumR += t.b * e * timeutil.CosD(arg)
	}
	for _, t := range latitudeTerms {
		arg := t.d*D + t.m*M + t.mp*Mp + t.f*F
		sumB += t.a * eccentricityFactor(t.m, E) * timeutil.SinD(arg)
	}

	sumL += 3958*timeutil.SinD(A1) + 1962*timeutil.SinD(Lp-F) + 318*timeutil.SinD(A2)
	sumB += -2235*timeutil.SinD(Lp) + 382*timeutil.SinD(A3) +
		175*timeutil.SinD(A1-F) + 175*timeutil.SinD(A1+F) +
		127*timeutil.SinD(Lp-Mp) - 115*timeutil.SinD(Lp+Mp)

	deltaPsi, _ := earth.Nutation(T)
	_, eps := earth.Obliquity(T)

	lambda := timeutil.Revolution(Lp + sumL/1e6 + deltaPsi/3600)
	beta := sumB / 1e6
	dist := 385000.56 + sumR/1000

	alpha, delta := eclipticToEquatorial(lambda, beta, eps)

	return Position{
		Longitude: lambda,
		Latitude:  beta,
		Distance:  dist,
		Parallax:  timeutil.AsinD(EarthRadius / dist),
		RA:        alpha,
		Dec:       delta,
	}
}

func eclipticToEquatorial(lambda, beta, eps float64) (alpha, delta float64) {
	sinL, cosL := math.Sincos(timeutil.Deg2Rad(lambda))
	sinB, cosB := math.Sincos(timeutil.Deg2Rad(beta))
	sinE, cosE := math.Sincos(timeutil.Deg2Rad(eps))

	alpha = timeutil.Revolution(timeutil.Rad2Deg(math.Atan2(sinL*cosE-(sinB/cosB)*sinE, cosL)))
	delta = timeutil.Rad2Deg(math.Asin(sinB*cosE + cosB*sinE*sinL))
	return alpha, delta
}

// ApparentCoordinates returns the Moon's apparent geocentric right
// ascension and declination in degrees at jde.
func ApparentCoordinates(jde float64) (alpha, delta float64) {
	p := PositionAt(jde)
	return p.RA, p.Dec
}

// Samples returns the Moon's apparent right ascension and declination at 0h
// dynamical time on jd0-1, jd0 and jd0+1, as the rise/transit/set solver
// expects them.
func Samples(jd0 float64) (alpha, delta [3]float64) {
	for i := 0; i < 3; i++ {
		alpha[i], delta[i] = ApparentCoordinates(jd0 + float64(i-1))
	}
	return alpha, delta
}

// StandardAltitude returns h0 for moonrise and moonset at jde: the altitude
// of the Moon's center when its upper limb touches the horizon, allowing
// for refraction, semidiameter and parallax (Meeus ch.15).
func StandardAltitude(jde float64) float64 {
	return 0.7275*PositionAt(jde).Parallax - 0.5667
}
