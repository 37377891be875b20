package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// samples collects signed errors (ours − reference) against an abscissa,
// usually the year, so that drift can be fitted.
type samples struct {
	name string
	unit string
	x    []float64
	err  []float64
}

func newSamples(name, unit string) *samples {
	return &samples{name: name, unit: unit}
}

func (s *samples) add(x, v float64) {
	if math.IsNaN(v) {
		return
	}
	s.x = append(s.x, x)
	s.err = append(s.err, v)
}

type summary struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	AbsMean  float64 `json:"abs_mean"`
	AbsP95   float64 `json:"abs_p95"`
	AbsMax   float64 `json:"abs_max"`
	Drift    float64 `json:"drift_per_x"` // least-squares slope of error vs x
	HasDrift bool    `json:"has_drift"`
}

func (s *samples) summarize() summary {
	// Statistics stay zero when there are too few samples; Count tells
	// them apart from real zeros. JSON cannot carry NaN.
	out := summary{Name: s.name, Unit: s.unit, Count: len(s.err)}
	if out.Count == 0 {
		return out
	}

	out.Mean = stat.Mean(s.err, nil)
	if out.Count > 1 {
		out.StdDev = stat.StdDev(s.err, nil)
	}
	out.Min = floats.Min(s.err)
	out.Max = floats.Max(s.err)

	abs := make([]float64, len(s.err))
	for i, v := range s.err {
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)
	out.AbsMean = stat.Mean(abs, nil)
	out.AbsP95 = stat.Quantile(0.95, stat.Empirical, abs, nil)
	out.AbsMax = abs[len(abs)-1]

	if len(s.x) > 2 && floats.Max(s.x) > floats.Min(s.x) {
		_, out.Drift = stat.LinearRegression(s.x, s.err, nil, false)
		out.HasDrift = true
	}
	return out
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "\n%s (%s, ours − reference):\n", s.Name, s.Unit)
	fmt.Fprintf(w, "  count: %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	if s.Count > 1 {
		fmt.Fprintf(w, "  mean:  %.3f ± %.3f\n", s.Mean, s.StdDev)
	} else {
		fmt.Fprintf(w, "  mean:  %.3f\n", s.Mean)
	}
	fmt.Fprintf(w, "  min:   %.3f\n", s.Min)
	fmt.Fprintf(w, "  max:   %.3f\n", s.Max)
	fmt.Fprintf(w, "  |err| mean %.3f, p95 %.3f, max %.3f\n", s.AbsMean, s.AbsP95, s.AbsMax)
	if s.HasDrift {
		fmt.Fprintf(w, "  drift: %.3g per unit\n", s.Drift)
	}
}
