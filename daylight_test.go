package almanac

import (
	"errors"
	"math"
	"testing"
	"time"
)

// diffMinutes returns the absolute difference between two times in minutes.
func diffMinutes(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d.Minutes()
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load %s: %v", name, err)
	}
	return loc
}

var (
	phoenix = Coordinates{Lat: 33.4484, Lon: -112.0740}
	newYork = Coordinates{Lat: 40.7128, Lon: -74.0060}
)

func TestSlideIntoSunsetEphemeris(t *testing.T) {
	locPHX := mustLoad(t, "America/Phoenix")
	locNY := mustLoad(t, "America/New_York")

	// Reference values from published sunrise/sunset tables (local time).
	cases := []struct {
		name         string
		coords       Coordinates
		date         time.Time
		expectedRise time.Time
		expectedSet  time.Time
	}{
		{
			name:         "Phoenix 2025-11-30",
			coords:       phoenix,
			date:         time.Date(2025, time.November, 30, 0, 0, 0, 0, locPHX),
			expectedRise: time.Date(2025, time.November, 30, 7, 13, 0, 0, locPHX),
			expectedSet:  time.Date(2025, time.November, 30, 17, 21, 0, 0, locPHX),
		},
		{
			name:         "NewYork 2025-11-30",
			coords:       newYork,
			date:         time.Date(2025, time.November, 30, 0, 0, 0, 0, locNY),
			expectedRise: time.Date(2025, time.November, 30, 6, 59, 0, 0, locNY),
			expectedSet:  time.Date(2025, time.November, 30, 16, 31, 0, 0, locNY),
		},
	}

	const maxAllowedErr = 3.0 // minutes

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs, err := SlideIntoSunset(tc.coords, tc.date)
			if err != nil {
				t.Fatalf("SlideIntoSunset() error = %v", err)
			}

			riseErr := diffMinutes(rs.Rise, tc.expectedRise)
			setErr := diffMinutes(rs.Set, tc.expectedSet)
			t.Logf("rise %v (err %.2f min), set %v (err %.2f min)", rs.Rise, riseErr, rs.Set, setErr)

			if riseErr > maxAllowedErr || setErr > maxAllowedErr {
				t.Errorf("error too large (rise=%.2f, set=%.2f minutes)", riseErr, setErr)
			}
			if rs.Rise.Location() != tc.date.Location() {
				t.Errorf("times not in the date's zone: %v", rs.Rise.Location())
			}
			if !(rs.Rise.Before(rs.Transit) && rs.Transit.Before(rs.Set)) {
				t.Errorf("events out of order: %v %v %v", rs.Rise, rs.Transit, rs.Set)
			}
		})
	}
}

func TestSlideIntoSunsetStaysOnLocalDate(t *testing.T) {
	// Sunset in Phoenix is after 0h UT of the next day; Sydney's sunrise is
	// before 0h UT of the same day.
	locations := []struct {
		coords Coordinates
		tz     string
	}{
		{phoenix, "America/Phoenix"},
		{Coordinates{Lat: -33.8688, Lon: 151.2093}, "Australia/Sydney"},
		{Coordinates{Lat: 59.9139, Lon: 10.7522}, "Europe/Oslo"},
	}

	for _, l := range locations {
		tz := mustLoad(t, l.tz)
		for day := 1; day <= 365; day += 17 {
			date := time.Date(2025, time.January, day, 0, 0, 0, 0, tz)
			rs, err := SlideIntoSunset(l.coords, date)
			if err != nil {
				t.Fatalf("%s %s: %v", l.tz, date.Format("2006-01-02"), err)
			}
			y, m, d := date.Date()
			for name, ev := range map[string]time.Time{"rise": rs.Rise, "transit": rs.Transit, "set": rs.Set} {
				if ey, em, ed := ev.Date(); ey != y || em != m || ed != d {
					t.Errorf("%s %s: %s on %v", l.tz, date.Format("2006-01-02"), name, ev)
				}
			}
		}
	}
}

func TestDaylightHours(t *testing.T) {
	locPHX := mustLoad(t, "America/Phoenix")

	tests := []struct {
		name         string
		date         time.Time
		wantMinHours float64 // minimum expected hours
		wantMaxHours float64 // maximum expected hours
	}{
		{
			name:         "Phoenix Summer Solstice",
			date:         time.Date(2025, time.June, 21, 0, 0, 0, 0, locPHX),
			wantMinHours: 14.0,
			wantMaxHours: 14.5,
		},
		{
			name:         "Phoenix Winter Solstice",
			date:         time.Date(2025, time.December, 21, 0, 0, 0, 0, locPHX),
			wantMinHours: 9.8,
			wantMaxHours: 10.2,
		},
		{
			name:         "Phoenix Spring Equinox",
			date:         time.Date(2025, time.March, 20, 0, 0, 0, 0, locPHX),
			wantMinHours: 11.9,
			wantMaxHours: 12.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := DaylightHours(phoenix, tt.date)
			if err != nil {
				t.Fatalf("DaylightHours() error = %v", err)
			}

			if hours < tt.wantMinHours || hours > tt.wantMaxHours {
				t.Errorf("DaylightHours() = %.2f hours, want between %.2f and %.2f",
					hours, tt.wantMinHours, tt.wantMaxHours)
			}

			t.Logf("%s: %.2f hours of daylight", tt.name, hours)
		})
	}
}

func TestDaylightHours_Equator(t *testing.T) {
	// At the equator, daylight should be ~12 hours year-round
	quito := Coordinates{
		Lat: -0.1807,
		Lon: -78.4678,
	}

	locQuito := mustLoad(t, "America/Guayaquil")

	dates := []time.Time{
		time.Date(2025, time.March, 20, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.June, 21, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.September, 22, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.December, 21, 0, 0, 0, 0, locQuito),
	}

	for _, date := range dates {
		hours, err := DaylightHours(quito, date)
		if err != nil {
			t.Fatalf("DaylightHours() error = %v for %s", err, date.Format("2006-01-02"))
		}

		// At the equator, expect ~12 hours ± 15 minutes
		if math.Abs(hours-12.0) > 0.25 {
			t.Errorf("Quito %s: got %.2f hours, expected ~12 hours",
				date.Format("2006-01-02"), hours)
		}
	}
}

func TestDaylightHours_Polar(t *testing.T) {
	longyearbyen := Coordinates{Lat: 78.2232, Lon: 15.6267}
	tz := mustLoad(t, "Arctic/Longyearbyen")

	_, err := DaylightHours(longyearbyen, time.Date(2025, time.June, 21, 0, 0, 0, 0, tz))
	if !errors.Is(err, ErrNoRiseNoSet) {
		t.Fatalf("June: err = %v, want ErrNoRiseNoSet", err)
	}
	if !IsPolarDay(err) {
		t.Errorf("June: expected polar day, got %v", err)
	}

	_, err = DaylightHours(longyearbyen, time.Date(2025, time.December, 21, 0, 0, 0, 0, tz))
	if !errors.Is(err, ErrNoRiseNoSet) {
		t.Fatalf("December: err = %v, want ErrNoRiseNoSet", err)
	}
	if IsPolarDay(err) {
		t.Errorf("December: expected polar night, got %v", err)
	}
}

func TestTwilightFor_Phoenix_2025_11_28(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	// Reference values taken from an online twilight calculator for
	// Phoenix, AZ on 2025-11-28 (local time, America/Phoenix).
	cases := []struct {
		name       string
		kind       TwilightKind
		expectDawn string // HH:MM local
		expectDusk string // HH:MM local
	}{
		{"Civil", TwilightCivil, "06:45", "17:47"},
		{"Nautical", TwilightNautical, "06:14", "18:18"},
		{"Astronomical", TwilightAstronomical, "05:44", "18:48"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refDawn, err := time.ParseInLocation("15:04", tc.expectDawn, loc)
			if err != nil {
				t.Fatalf("parse ref dawn %q: %v", tc.expectDawn, err)
			}
			refDusk, err := time.ParseInLocation("15:04", tc.expectDusk, loc)
			if err != nil {
				t.Fatalf("parse ref dusk %q: %v", tc.expectDusk, err)
			}
			// Attach the same calendar date
			refDawn = time.Date(date.Year(), date.Month(), date.Day(),
				refDawn.Hour(), refDawn.Minute(), 0, 0, loc)
			refDusk = time.Date(date.Year(), date.Month(), date.Day(),
				refDusk.Hour(), refDusk.Minute(), 0, 0, loc)

			rs, err := TwilightFor(phoenix, date, tc.kind)
			if err != nil {
				t.Fatalf("TwilightFor(%s) error: %v", tc.name, err)
			}

			dawnErr := diffMinutes(rs.Rise, refDawn)
			duskErr := diffMinutes(rs.Set, refDusk)

			t.Logf("[%s twilight / Phoenix 2025-11-28] dawn %s (err=%.2f min), dusk %s (err=%.2f min)",
				tc.name, rs.Rise.Format(time.RFC3339), dawnErr, rs.Set.Format(time.RFC3339), duskErr)

			const maxAllowedErr = 5.0 // minutes
			if dawnErr > maxAllowedErr || duskErr > maxAllowedErr {
				t.Fatalf("%s twilight error too large (dawn=%.2f, dusk=%.2f minutes)",
					tc.name, dawnErr, duskErr)
			}
		})
	}
}

func TestTwilightForUnknownKind(t *testing.T) {
	if _, err := TwilightFor(phoenix, time.Now(), TwilightKind(9)); err == nil {
		t.Fatal("expected an error for an unknown twilight kind")
	}
}

func TestGoldenAndBlueHour(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	rs, err := SlideIntoSunset(phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	golden, err := GoldenHourFor(phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	blue, err := BlueHourFor(phoenix, date)
	if err != nil {
		t.Fatal(err)
	}

	if !golden.HasMorning || !golden.HasEvening || !blue.HasMorning || !blue.HasEvening {
		t.Fatalf("missing windows: golden %+v blue %+v", golden, blue)
	}

	// Blue hour ends where golden hour begins, and sunrise lies inside the
	// morning golden hour.
	if d := diffMinutes(blue.Morning.End, golden.Morning.Start); d > 0.01 {
		t.Errorf("morning blue hour ends %.2f min away from golden hour start", d)
	}
	if d := diffMinutes(blue.Evening.Start, golden.Evening.End); d > 0.01 {
		t.Errorf("evening blue hour starts %.2f min away from golden hour end", d)
	}
	if rs.Rise.Before(golden.Morning.Start) || rs.Rise.After(golden.Morning.End) {
		t.Errorf("sunrise %v outside golden hour %+v", rs.Rise, golden.Morning)
	}
	if rs.Set.Before(golden.Evening.Start) || rs.Set.After(golden.Evening.End) {
		t.Errorf("sunset %v outside golden hour %+v", rs.Set, golden.Evening)
	}

	for name, w := range map[string]PhaseWindow{
		"golden morning": golden.Morning, "golden evening": golden.Evening,
		"blue morning": blue.Morning, "blue evening": blue.Evening,
	} {
		if w.Duration() < 5*time.Minute || w.Duration() > 90*time.Minute {
			t.Errorf("%s lasts %v", name, w.Duration())
		}
	}
}

func TestSunRiseTransitSetOptions(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	a, err := SlideIntoSunset(phoenix, date)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SlideIntoSunset(phoenix, date, WithDeltaT(0))
	if err != nil {
		t.Fatal(err)
	}
	// ΔT only moves the interpolation point; a minute of ΔT is worth well
	// under a second for the Sun.
	if d := diffMinutes(a.Set, b.Set); d > 0.05 {
		t.Errorf("ΔT changed sunset by %.3f minutes", d)
	}
}
