// Package solver finds the times of rising, transit and setting of a body
// from three daily samples of its apparent position (Meeus ch.15).
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/thurmanmarka/almanac/internal/earth"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// ErrCircumpolar is matched (via errors.Is) by every *CircumpolarError.
var ErrCircumpolar = errors.New("body is circumpolar: it never crosses the standard altitude")

// CircumpolarError reports that the body stays on one side of the standard
// altitude for the whole day.
type CircumpolarError struct {
	// CosH0 is the out-of-range cosine of the hour angle at rise/set.
	CosH0 float64
}

func (e *CircumpolarError) Error() string {
	if e.AlwaysAbove() {
		return fmt.Sprintf("%v (always above, cos H0 = %.4f)", ErrCircumpolar, e.CosH0)
	}
	return fmt.Sprintf("%v (always below, cos H0 = %.4f)", ErrCircumpolar, e.CosH0)
}

// Is makes errors.Is(err, ErrCircumpolar) true.
func (e *CircumpolarError) Is(target error) bool {
	return target == ErrCircumpolar
}

// AlwaysAbove reports whether the body never sets (true) or never rises.
//
// A NaN cosine, a body grazing h0 all day, counts as above.
func (e *CircumpolarError) AlwaysAbove() bool {
	return e.CosH0 < -1 || math.IsNaN(e.CosH0)
}

// Result holds the times of the events as fractions of the UT day, each in
// [0, 1).
type Result struct {
	Transit float64
	Rise    float64
	Set     float64
}

// Observer is the input to RiseTransitSet.
type Observer struct {
	// Lon is the geographic longitude in degrees, positive WEST of
	// Greenwich as in Meeus.
	Lon float64
	// Lat is the geographic latitude in degrees, positive north.
	Lat float64
}

// RiseTransitSet computes the transit, rise and set of a body on the day
// whose 0h UT is jd0.
//
// h0 is the standard altitude in degrees (-0.8333 for the Sun, -0.5667
// for stars and planets). alpha and delta are the body's apparent right
// ascension and declination in degrees at 0h dynamical time on jd0-1, jd0
// and jd0+1. deltaT is TD − UT in seconds; it only shifts the
// interpolation point, so an approximate value is adequate.
//
// If the body never reaches h0 on that day a *CircumpolarError is
// returned.
func RiseTransitSet(obs Observer, h0, jd0 float64, alpha, delta [3]float64, deltaT float64) (Result, error) {
	if math.Abs(obs.Lat) >= 90 {
		// The altitude at a pole is ±δ all day; a body exactly at h0 is
		// reported as above.
		if math.Copysign(delta[1], obs.Lat) >= h0 {
			return Result{}, &CircumpolarError{CosH0: math.Inf(-1)}
		}
		return Result{}, &CircumpolarError{CosH0: math.Inf(1)}
	}

	sinPhi, cosPhi := math.Sincos(timeutil.Deg2Rad(obs.Lat))

	cosH0 := (timeutil.SinD(h0) - sinPhi*timeutil.SinD(delta[1])) /
		(cosPhi * timeutil.CosD(delta[1]))
	if math.IsNaN(cosH0) || cosH0 < -1 || cosH0 > 1 {
		return Result{}, &CircumpolarError{CosH0: cosH0}
	}
	H0 := timeutil.AcosD(cosH0)

	theta0 := earth.ApparentSiderealTime(jd0)

	ra := unwrapRA(alpha)

	m0 := timeutil.Normalize01((alpha[1] + obs.Lon - theta0) / 360)
	m1 := timeutil.Normalize01(m0 - H0/360)
	m2 := timeutil.Normalize01(m0 + H0/360)

	ev := evaluator{
		lon:    obs.Lon,
		sinPhi: sinPhi,
		cosPhi: cosPhi,
		h0:     h0,
		theta0: theta0,
		dt:     deltaT / 86400,
		ra:     ra,
		dec:    delta,
	}

	return Result{
		Transit: timeutil.Normalize01(m0 + ev.transitCorrection(m0)),
		Rise:    timeutil.Normalize01(m1 + ev.riseSetCorrection(m1)),
		Set:     timeutil.Normalize01(m2 + ev.riseSetCorrection(m2)),
	}, nil
}

// RiseTransitSetIterated is RiseTransitSet for fast-moving bodies such as
// the Moon: the corrections are applied passes times, and the results are
// not folded back into [0, 1). A fraction below 0 or from 1 up means the
// event nearest the first estimate happens on the previous or next day.
func RiseTransitSetIterated(obs Observer, h0, jd0 float64, alpha, delta [3]float64, deltaT float64, passes int) (Result, error) {
	first, err := RiseTransitSet(obs, h0, jd0, alpha, delta, deltaT)
	if err != nil {
		return Result{}, err
	}
	if passes <= 1 {
		return first, nil
	}

	sinPhi, cosPhi := math.Sincos(timeutil.Deg2Rad(obs.Lat))
	ev := evaluator{
		lon:    obs.Lon,
		sinPhi: sinPhi,
		cosPhi: cosPhi,
		h0:     h0,
		theta0: earth.ApparentSiderealTime(jd0),
		dt:     deltaT / 86400,
		ra:     unwrapRA(alpha),
		dec:    delta,
	}

	r := first
	for i := 1; i < passes; i++ {
		r.Transit += ev.transitCorrection(r.Transit)
		r.Rise += ev.riseSetCorrection(r.Rise)
		r.Set += ev.riseSetCorrection(r.Set)
	}
	return r, nil
}

type evaluator struct {
	lon            float64
	sinPhi, cosPhi float64
	h0             float64
	theta0         float64
	dt             float64
	ra, dec        [3]float64
}

// hourAngle returns the local hour angle H in (-180, 180] and the
// interpolated declination at fraction m.
func (e evaluator) hourAngle(m float64) (H, dec float64) {
	theta := e.theta0 + 360.985647*m
	n := m + e.dt
	ra := Interpolate3(e.ra, n)
	dec = Interpolate3(e.dec, n)
	H = timeutil.Revolution180(theta - e.lon - ra)
	return H, dec
}

func (e evaluator) transitCorrection(m float64) float64 {
	H, _ := e.hourAngle(m)
	return -H / 360
}

func (e evaluator) riseSetCorrection(m float64) float64 {
	H, dec := e.hourAngle(m)
	sinDec, cosDec := math.Sincos(timeutil.Deg2Rad(dec))
	h := timeutil.AsinD(e.sinPhi*sinDec + e.cosPhi*cosDec*timeutil.CosD(H))
	return (h - e.h0) / (360 * cosDec * e.cosPhi * timeutil.SinD(H))
}

// Interpolate3 interpolates three equally spaced tabular values y at the
// interpolation factor n, measured from the central value (Meeus 3.3).
func Interpolate3(y [3]float64, n float64) float64 {
	a := y[1] - y[0]
	b := y[2] - y[1]
	c := b - a
	return y[1] + n/2*(a+b+n*c)
}

// unwrapRA removes the 360° jump from right ascension samples that straddle
// 0h, so that they interpolate smoothly.
func unwrapRA(alpha [3]float64) [3]float64 {
	return [3]float64{
		alpha[1] - timeutil.Revolution180(alpha[1]-alpha[0]),
		alpha[1],
		alpha[1] + timeutil.Revolution180(alpha[2]-alpha[1]),
	}
}
