package almanac

import (
	"math"
	"testing"
	"time"
)

// Reference values from published moonrise/moonset tables.
func TestMoonRiseTransitSet_2025_11_30(t *testing.T) {
	cases := []struct {
		name     string
		coords   Coordinates
		zone     string
		rise     string // HH:MM local
		set      string
		maxError float64 // minutes
	}{
		{"Phoenix", phoenix, "America/Phoenix", "14:10", "02:13", 10},
		{"New York", newYork, "America/New_York", "13:30", "01:36", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc := mustLoad(t, tc.zone)
			date := time.Date(2025, time.November, 30, 0, 0, 0, 0, loc)

			rs, err := MoonRiseTransitSet(tc.coords, date)
			if err != nil {
				t.Fatalf("MoonRiseTransitSet: %v", err)
			}

			at := func(hhmm string) time.Time {
				p, err := time.ParseInLocation("15:04", hhmm, loc)
				if err != nil {
					t.Fatal(err)
				}
				return time.Date(2025, time.November, 30, p.Hour(), p.Minute(), 0, 0, loc)
			}

			riseErr := diffMinutes(rs.Rise, at(tc.rise))
			setErr := diffMinutes(rs.Set, at(tc.set))
			t.Logf("[%s 2025-11-30] moonrise %s (err=%.2f min), moonset %s (err=%.2f min), transit %s",
				tc.name, rs.Rise.Format(time.RFC3339), riseErr, rs.Set.Format(time.RFC3339), setErr,
				rs.Transit.Format(time.RFC3339))

			if riseErr > tc.maxError || setErr > tc.maxError {
				t.Errorf("moonrise/moonset error too large (rise=%.2f, set=%.2f minutes)", riseErr, setErr)
			}
			// Two days past first quarter the Moon transits in the evening.
			if h := rs.Transit.Hour(); h < 17 || h > 21 {
				t.Errorf("transit %v, want early evening", rs.Transit)
			}
		})
	}
}

func TestMoonRiseTransitSetSkipsADay(t *testing.T) {
	loc := mustLoad(t, "America/New_York")

	var noRise, noSet int
	for d := 1; d <= 31; d++ {
		date := time.Date(2025, time.December, d, 0, 0, 0, 0, loc)
		rs, err := MoonRiseTransitSet(newYork, date)
		if err != nil {
			t.Fatalf("%s: %v", date.Format("2006-01-02"), err)
		}

		for name, ev := range map[string]time.Time{"rise": rs.Rise, "transit": rs.Transit, "set": rs.Set} {
			if ev.IsZero() {
				continue
			}
			if y, m, dd := ev.Date(); y != 2025 || m != time.December || dd != d {
				t.Errorf("%s on 2025-12-%02d falls on %s", name, d, ev.Format(time.RFC3339))
			}
			if ev.Location() != loc {
				t.Errorf("%s on 2025-12-%02d in %v, want %v", name, d, ev.Location(), loc)
			}
		}
		if rs.Rise.IsZero() {
			noRise++
		}
		if rs.Set.IsZero() {
			noSet++
		}
	}

	// The Moon rises about 50 minutes later each day, so a 31-day month
	// loses at least one moonrise and one moonset.
	if noRise < 1 || noRise > 2 {
		t.Errorf("%d dates without moonrise in December 2025, want 1 or 2", noRise)
	}
	if noSet < 1 || noSet > 2 {
		t.Errorf("%d dates without moonset in December 2025, want 1 or 2", noSet)
	}
}

func TestRiseSetFor(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	sunRS, err := RiseSetFor(Sun, phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	want, err := SlideIntoSunset(phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	if !sunRS.Rise.Equal(want.Rise) || !sunRS.Set.Equal(want.Set) {
		t.Errorf("RiseSetFor(Sun) = %+v, want %+v", sunRS, want)
	}

	moonRS, err := RiseSetFor(Moon, phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	if moonRS.Rise.Equal(sunRS.Rise) {
		t.Error("RiseSetFor(Moon) returned the sunrise")
	}

	if _, err := RiseSetFor(Body(7), phoenix, date); err == nil {
		t.Error("expected an error for an unknown body")
	}
}

func TestBodyString(t *testing.T) {
	for b, want := range map[Body]string{Sun: "Sun", Moon: "Moon", Body(5): "Body(5)"} {
		if got := b.String(); got != want {
			t.Errorf("Body(%d).String() = %q, want %q", int(b), got, want)
		}
	}
}

func TestMoonPositionAt(t *testing.T) {
	// Meeus example 47.a, 1992 April 12 0h TD.
	tt := time.Date(1992, time.April, 12, 0, 0, 0, 0, time.UTC)
	p := MoonPositionAt(tt, WithDeltaT(0))

	if math.Abs(p.Longitude-133.167265) > 0.03 || math.Abs(p.Dec-13.768368) > 0.03 {
		t.Errorf("MoonPositionAt = %+v", p)
	}

	alpha, delta := ApparentLunarCoordinates(2448724.5)
	if alpha != p.RA || delta != p.Dec {
		t.Errorf("ApparentLunarCoordinates = %.6f, %.6f; position %.6f, %.6f", alpha, delta, p.RA, p.Dec)
	}
}
