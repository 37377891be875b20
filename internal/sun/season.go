package sun

import (
	"errors"
	"fmt"

	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/series"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// Season identifies an equinox or solstice.
type Season int

const (
	VernalEquinox Season = iota
	SummerSolstice
	AutumnalEquinox
	WinterSolstice
)

func (s Season) String() string {
	switch s {
	case VernalEquinox:
		return "March equinox"
	case SummerSolstice:
		return "June solstice"
	case AutumnalEquinox:
		return "September equinox"
	case WinterSolstice:
		return "December solstice"
	default:
		return fmt.Sprintf("Season(%d)", int(s))
	}
}

// ErrUnsupportedSeason is returned for Season values outside the four
// defined constants.
var ErrUnsupportedSeason = errors.New("unsupported season")

// Mean equinox/solstice polynomials in Y (Meeus tables 27.A and 27.B),
// indexed by Season. Coefficients are for Y^0 … Y^4.
var (
	// Years -1000 … +1000, Y = year/1000.
	meanEarly = [4][5]float64{
		{1721139.29189, 365242.13740, 0.06134, 0.00111, -0.00071},
		{1721233.25401, 365241.72562, -0.05323, 0.00907, 0.00025}, // Y² as printed in the book
		{1721325.70455, 365242.49558, -0.11677, -0.00297, 0.00074},
		{1721414.39987, 365242.88257, -0.00769, -0.00933, -0.00006},
	}
	// Years +1000 … +3000, Y = (year-2000)/1000.
	meanModern = [4][5]float64{
		{2451623.80984, 365242.37404, 0.05169, -0.00411, -0.00057},
		{2451716.56767, 365241.62603, 0.00325, 0.00888, -0.00030},
		{2451810.21715, 365242.01767, -0.11575, 0.00337, 0.00078},
		{2451900.05952, 365242.74049, -0.06223, -0.00823, 0.00032},
	}
)

// Periodic terms A·cos(B + C·T) of Meeus table 27.C.
var seasonTerms = series.Series{
	{Amplitude: 485, Phase: 324.96, Rate: 1934.136, Func: series.Cos},
	{Amplitude: 203, Phase: 337.23, Rate: 32964.467, Func: series.Cos},
	{Amplitude: 199, Phase: 342.08, Rate: 20.186, Func: series.Cos},
	{Amplitude: 182, Phase: 27.85, Rate: 445267.112, Func: series.Cos},
	{Amplitude: 156, Phase: 73.14, Rate: 45036.886, Func: series.Cos},
	{Amplitude: 136, Phase: 171.52, Rate: 22518.443, Func: series.Cos},
	{Amplitude: 77, Phase: 222.54, Rate: 65928.934, Func: series.Cos},
	{Amplitude: 74, Phase: 296.72, Rate: 3034.906, Func: series.Cos},
	{Amplitude: 70, Phase: 243.58, Rate: 9037.513, Func: series.Cos},
	{Amplitude: 58, Phase: 119.81, Rate: 33718.147, Func: series.Cos},
	{Amplitude: 52, Phase: 297.17, Rate: 150.678, Func: series.Cos},
	{Amplitude: 50, Phase: 21.02, Rate: 2281.226, Func: series.Cos},
	{Amplitude: 45, Phase: 247.54, Rate: 29929.562, Func: series.Cos},
	{Amplitude: 44, Phase: 325.15, Rate: 31555.956, Func: series.Cos},
	{Amplitude: 29, Phase: 60.93, Rate: 4443.417, Func: series.Cos},
	{Amplitude: 18, Phase: 155.12, Rate: 67555.328, Func: series.Cos},
	{Amplitude: 17, Phase: 288.79, Rate: 4562.452, Func: series.Cos},
	{Amplitude: 16, Phase: 198.04, Rate: 62894.029, Func: series.Cos},
	{Amplitude: 14, Phase: 199.76, Rate: 31436.921, Func: series.Cos},
	{Amplitude: 12, Phase: 95.39, Rate: 14577.848, Func: series.Cos},
	{Amplitude: 12, Phase: 287.11, Rate: 31931.756, Func: series.Cos},
	{Amplitude: 12, Phase: 320.81, Rate: 34777.259, Func: series.Cos},
	{Amplitude: 9, Phase: 227.73, Rate: 1222.114, Func: series.Cos},
	{Amplitude: 8, Phase: 15.45, Rate: 16859.074, Func: series.Cos},
}

// EquinoxSolstice returns the Julian Ephemeris Day of the requested
// equinox or solstice in the given year. Accuracy is about a minute for
// years 1951–2050 and degrades slowly outside that range.
func EquinoxSolstice(year int, s Season) (float64, error) {
	if s < VernalEquinox || s > WinterSolstice {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedSeason, int(s))
	}

	var (
		coeff [5]float64
		y     float64
	)
	if year < 1000 {
		coeff = meanEarly[s]
		y = float64(year) / 1000.0
	} else {
		coeff = meanModern[s]
		y = float64(year-2000) / 1000.0
	}

	jde0 := coeff[0] + y*(coeff[1]+y*(coeff[2]+y*(coeff[3]+y*coeff[4])))

	T := julian.Centuries(jde0)
	W := 35999.373*T - 2.47
	dLambda := 1 + 0.0334*timeutil.CosD(W) + 0.0007*timeutil.CosD(2*W)
	S := seasonTerms.Sum(T)

	return jde0 + 0.00001*S/dLambda, nil
}
