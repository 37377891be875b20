package main

import (
	"math"

	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/meeus/v3/solstice"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/earth"
	"github.com/thurmanmarka/almanac/internal/julian"
	"github.com/thurmanmarka/almanac/internal/log"
	"github.com/thurmanmarka/almanac/internal/moon"
	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// meeusProfile compares this library with the full-precision models of
// github.com/soniakeys/meeus over a span of years.
type meeusProfile struct {
	from, to int
	step     float64 // days between solar and lunar position samples
}

// Before year 1000 solstice.June uses -0.05232 for the Y² coefficient
// where Table 27.A prints -0.05323; the difference reaches 77 s at 987.
var meeusSeasons = map[almanac.Season]func(int) float64{
	almanac.VernalEquinox:   solstice.March,
	almanac.SummerSolstice:  solstice.June,
	almanac.AutumnalEquinox: solstice.September,
	almanac.WinterSolstice:  solstice.December,
}

var meeusPhases = map[almanac.Phase]func(float64) float64{
	almanac.NewMoon:      moonphase.New,
	almanac.FirstQuarter: moonphase.First,
	almanac.FullMoon:     moonphase.Full,
	almanac.LastQuarter:  moonphase.Last,
}

func (p meeusProfile) run() ([]*samples, error) {
	ra := newSamples("Solar right ascension", "arcsec")
	dec := newSamples("Solar declination", "arcsec")
	gast := newSamples("Apparent sidereal time", "ms")
	seasons := newSamples("Equinoxes and solstices", "seconds")
	phases := newSamples("Lunar phases", "seconds")
	moonLon := newSamples("Lunar longitude", "arcsec")
	moonLat := newSamples("Lunar latitude", "arcsec")
	moonDist := newSamples("Lunar distance", "km")

	start, err := almanac.DateToJulianDay(almanac.CalendarDateTime{Year: p.from, Month: 1, Day: 1})
	if err != nil {
		return nil, err
	}
	end, err := almanac.DateToJulianDay(almanac.CalendarDateTime{Year: p.to + 1, Month: 1, Day: 1})
	if err != nil {
		return nil, err
	}

	for jd := start; jd < end; jd += p.step {
		year := 2000 + julian.Centuries(jd)*100

		alpha, delta := almanac.ApparentSolarCoordinates(jd)
		refRA, refDec := solar.ApparentEquatorial(jd)
		ra.add(year, timeutil.Revolution180(alpha-refRA.Deg())*3600)
		dec.add(year, (delta-refDec.Deg())*3600)

		theta := earth.ApparentSiderealTime(jd)
		refTheta := sidereal.Apparent(jd).Sec() / 240 // seconds of time to degrees
		gast.add(year, timeutil.Revolution180(theta-refTheta)*240*1000)

		m := moon.PositionAt(jd)
		refLon, refLat, refDist := moonposition.Position(jd)
		dpsi, _ := nutation.Nutation(jd)
		moonLon.add(year, timeutil.Revolution180(m.Longitude-(refLon+dpsi).Deg())*3600)
		moonLat.add(year, (m.Latitude-refLat.Deg())*3600)
		moonDist.add(year, m.Distance-refDist)
	}

	for year := p.from; year <= p.to; year++ {
		for s := almanac.VernalEquinox; s <= almanac.WinterSolstice; s++ {
			jde, err := almanac.EquinoxSolstice(year, s)
			if err != nil {
				return nil, err
			}
			seasons.add(float64(year), (jde-meeusSeasons[s](year))*86400)
		}
	}

	// One fractional year per lunation, 0.1 lunation past its new moon.
	// Both models return the occurrence of each phase nearest that year,
	// so every pair below belongs to the same lunation.
	kFrom := math.Floor((float64(p.from) - 2000) * 12.3685)
	kTo := math.Ceil((float64(p.to+1) - 2000) * 12.3685)
	for k := kFrom; k < kTo; k++ {
		fy := 2000 + (k+0.1)/12.3685
		for ph := almanac.NewMoon; ph <= almanac.LastQuarter; ph++ {
			jde, err := almanac.MoonPhaseDate(fy, ph)
			if err != nil {
				return nil, err
			}
			phases.add(fy, (jde-meeusPhases[ph](fy))*86400)
		}
	}

	log.Debugw("meeus comparison done", "from", p.from, "to", p.to, "solar_samples", len(ra.err), "lunations", kTo-kFrom)
	return []*samples{ra, dec, gast, seasons, phases, moonLon, moonLat, moonDist}, nil
}
