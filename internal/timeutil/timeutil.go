package timeutil

import (
	"math"
	"time"
)

// -----------------------------
// Range normalizers
// -----------------------------

// Revolution maps any angle in degrees into [0, 360).
func Revolution(deg float64) float64 {
	if deg >= 0 && deg < 360 {
		return deg
	}
	r := math.Mod(deg, 360.0)
	if r < 0 {
		r += 360.0
	}
	// r+360 can round up to exactly 360 for tiny negative inputs.
	if r >= 360.0 {
		r -= 360.0
	}
	return r
}

// Revolution180 maps any angle in degrees into (-180, 180].
func Revolution180(deg float64) float64 {
	r := Revolution(deg)
	if r > 180.0 {
		r -= 360.0
	}
	return r
}

// Normalize01 folds a fraction of a day (or any unit) into [0, 1).
func Normalize01(x float64) float64 {
	if x >= 0 && x < 1 {
		return x
	}
	r := x - math.Floor(x)
	if r >= 1 {
		r = 0
	}
	return r
}

// Normalize24 maps hours into [0, 24).
func Normalize24(h float64) float64 {
	return Revolution(h*15.0) / 15.0
}

// -----------------------------
// Fraction of day -> clock time
// -----------------------------

// TimeOfDay is a number of days split into clock components. For negative
// inputs every component is negative (or zero) and Negative is set.
type TimeOfDay struct {
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
	Negative     bool
}

const msPerDay = 86400000

// FractionToTimeOfDay splits a real number of days into days, hours,
// minutes, seconds and milliseconds. The value is rounded to the nearest
// millisecond first so that e.g. 0.5 never yields 11:59:59.999.
func FractionToTimeOfDay(days float64) TimeOfDay {
	sign := 1
	if days < 0 {
		sign = -1
		days = -days
	}

	ms := int64(math.Round(days * msPerDay))

	tod := TimeOfDay{
		Days:         sign * int(ms/msPerDay),
		Hours:        sign * int(ms%msPerDay/3600000),
		Minutes:      sign * int(ms%3600000/60000),
		Seconds:      sign * int(ms%60000/1000),
		Milliseconds: sign * int(ms%1000),
		Negative:     sign < 0 && ms != 0,
	}
	return tod
}

// Duration returns the total span represented by t.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Days)*24*time.Hour +
		time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Milliseconds)*time.Millisecond
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// AsinD returns asin(x) in degrees.
func AsinD(x float64) float64 {
	return Rad2Deg(math.Asin(x))
}

// AcosD returns acos(x) in degrees.
func AcosD(x float64) float64 {
	return Rad2Deg(math.Acos(x))
}

// Atan2D returns atan2(y, x) in degrees.
func Atan2D(y, x float64) float64 {
	return Rad2Deg(math.Atan2(y, x))
}
