// Package series evaluates sums of periodic terms of the form
//
//	Amplitude · trig(Phase + Rate·x)
//
// which is the common kernel behind the equinox/solstice, lunar phase and
// nutation models. Only the term tables differ between those models.
package series

import (
	"math"

	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Trig selects the trigonometric function applied to a term's argument.
type Trig int

const (
	Sin Trig = iota
	Cos
)

// Term is one periodic term. Phase is in degrees, Rate in degrees per unit
// of the series argument (Julian centuries or lunations).
type Term struct {
	Amplitude float64
	Phase     float64
	Rate      float64
	Func      Trig
}

// Eval returns the value of the term at x.
func (t Term) Eval(x float64) float64 {
	arg := timeutil.Deg2Rad(timeutil.Revolution(t.Phase + t.Rate*x))
	if t.Func == Cos {
		return t.Amplitude * math.Cos(arg)
	}
	return t.Amplitude * math.Sin(arg)
}

// Series is an ordered list of terms. Terms are summed in order so results
// are reproducible bit for bit.
type Series []Term

// Sum evaluates the series at x.
func (s Series) Sum(x float64) float64 {
	var sum float64
	for _, t := range s {
		sum += t.Eval(x)
	}
	return sum
}

// Arg is a fundamental argument that grows linearly: Phase + Rate·x degrees.
type Arg struct {
	Phase float64
	Rate  float64
}

// At returns the argument in degrees at x, without normalization.
func (a Arg) At(x float64) float64 {
	return a.Phase + a.Rate*x
}

// Mul returns the n-th multiple of a.
func (a Arg) Mul(n float64) Arg {
	return Arg{Phase: a.Phase * n, Rate: a.Rate * n}
}

// Plus returns a + b.
func (a Arg) Plus(b Arg) Arg {
	return Arg{Phase: a.Phase + b.Phase, Rate: a.Rate + b.Rate}
}

// Combine builds a term whose argument is the sum of args, which are
// usually integer multiples of fundamental arguments (e.g. 2D − M′).
func Combine(amplitude float64, fn Trig, args ...Arg) Term {
	var sum Arg
	for _, a := range args {
		sum = sum.Plus(a)
	}
	return Term{Amplitude: amplitude, Phase: sum.Phase, Rate: sum.Rate, Func: fn}
}
