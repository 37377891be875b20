package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/thurmanmarka/almanac"
	"github.com/thurmanmarka/almanac/internal/log"
)

// capture runs fn with stdout redirected to a buffer.
func capture(t *testing.T, fn func([]string) error, args ...string) (string, error) {
	t.Helper()
	log.SetLogger(zaptest.NewLogger(t))

	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	defer func() { stdout = saved }()

	err := fn(args)
	return buf.String(), err
}

func TestRunSunValidationCollectsAllErrors(t *testing.T) {
	_, err := capture(t, runSun, "-lat", "95", "-lon", "200", "-event", "noon", "-twilight", "dusk")
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"-lat", "-lon", "-event", "-twilight"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestRunSunJSON(t *testing.T) {
	out, err := capture(t, runSun,
		"-lat", "33.4484", "-lon", "-112.0740", "-date", "2025-11-28", "-tz", "America/Phoenix",
		"-twilight", "all", "-photo", "-json")
	if err != nil {
		t.Fatal(err)
	}

	var got sunOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if got.Sun == nil || got.Sun.Rise == nil || got.Sun.Set == nil {
		t.Fatalf("missing sun events: %s", out)
	}
	if got.Sun.Rise.Format("15:04") < "07:05" || got.Sun.Rise.Format("15:04") > "07:15" {
		t.Errorf("sunrise %v", got.Sun.Rise)
	}
	if len(got.Twilight) != 3 || got.GoldenHour == nil || got.BlueHour == nil {
		t.Errorf("incomplete output: %s", out)
	}
}

func TestRunSunPolar(t *testing.T) {
	out, err := capture(t, runSun, "-lat", "78.22", "-lon", "15.63", "-date", "2025-06-21", "-tz", "UTC")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "polar day") {
		t.Errorf("output does not mention polar day:\n%s", out)
	}
}

func TestRunSunBodyMoon(t *testing.T) {
	out, err := capture(t, runSun,
		"-body", "moon", "-lat", "40.7128", "-lon", "-74.0060", "-date", "2025-11-30", "-tz", "America/New_York", "-json")
	if err != nil {
		t.Fatal(err)
	}

	var got sunOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if got.Body != "moon" || got.Sun != nil || got.Moon == nil {
		t.Fatalf("unexpected output: %s", out)
	}
	// Moonrise about 13:30, moonset about 01:36.
	if m := got.Moon; m.Rise == nil || m.Rise.Format("15:04") < "13:20" || m.Rise.Format("15:04") > "13:40" {
		t.Errorf("moonrise %v", m.Rise)
	}
	if m := got.Moon; m.Set == nil || m.Set.Format("15:04") < "01:26" || m.Set.Format("15:04") > "01:46" {
		t.Errorf("moonset %v", m.Set)
	}

	human, err := capture(t, runSun,
		"-body", "moon", "-lat", "40.7128", "-lon", "-74.0060", "-date", "2025-11-30", "-tz", "America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Moon for lat=40.712800", "Rise:", "Transit:", "Set:"} {
		if !strings.Contains(human, want) {
			t.Errorf("output missing %q:\n%s", want, human)
		}
	}
}

func TestRunSunBodyValidation(t *testing.T) {
	_, err := capture(t, runSun, "-body", "mars")
	if err == nil || !strings.Contains(err.Error(), "-body") {
		t.Errorf("-body mars: err = %v", err)
	}
	_, err = capture(t, runSun, "-body", "moon", "-lat", "40", "-twilight", "civil")
	if err == nil || !strings.Contains(err.Error(), "-body sun") {
		t.Errorf("-body moon -twilight civil: err = %v", err)
	}
}

func TestRunSeasons(t *testing.T) {
	out, err := capture(t, runSeasons, "-year", "2025")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"March equinox", "2025-03-20 09:0", "December solstice", "2025-12-21 15:0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPhases(t *testing.T) {
	out, err := capture(t, runPhases, "-year", "2024", "-phase", "new", "-json")
	if err != nil {
		t.Fatal(err)
	}
	var events []phaseEventJSON
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 13 {
		t.Errorf("got %d new moons in 2024, want 13", len(events))
	}

	if _, err := capture(t, runPhases, "-phase", "gibbous"); err == nil {
		t.Error("expected an error for an unknown phase")
	}
}

func TestRunJD(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-date", "2000-01-01T12:00"}, "JD 2451545.00000"},
		{[]string{"-date", "1957-10-04.81"}, "JD 2436116.31000"},
		{[]string{"-jd", "2299160.5"}, "1582-10-15T00:00:00.000 (gregorian calendar)"},
		{[]string{"-jd", "0"}, "-4712-01-01T12:00:00.000 (julian calendar)"},
	}
	for _, tt := range tests {
		out, err := capture(t, runJD, tt.args...)
		if err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v: output %q does not contain %q", tt.args, out, tt.want)
		}
	}

	if _, err := capture(t, runJD, "-date", "1582-10-10"); !errors.Is(err, almanac.ErrInvalidDate) {
		t.Errorf("gap date: err = %v, want ErrInvalidDate", err)
	}
	if _, err := capture(t, runJD); err == nil {
		t.Error("expected an error without -date or -jd")
	}
}

func TestRunPosition(t *testing.T) {
	out, err := capture(t, runPosition, "-time", "1992-10-13T00:00:00Z", "-deltat", "0", "-json")
	if err != nil {
		t.Fatal(err)
	}
	var got positionJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.RA < 198.37 || got.RA > 198.39 || got.Dec < -7.79 || got.Dec > -7.78 {
		t.Errorf("position = (%v, %v)", got.RA, got.Dec)
	}
	if got.RAText == "" || got.DecText == "" || got.ApparentSidereal == "" {
		t.Errorf("missing sexagesimal text: %+v", got)
	}
}

func TestRunPositionMoon(t *testing.T) {
	// Meeus example 47.a, 1992 April 12 0h TD.
	out, err := capture(t, runPosition, "-body", "moon", "-time", "1992-04-12T00:00:00Z", "-deltat", "0", "-json")
	if err != nil {
		t.Fatal(err)
	}
	var got positionJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Body != "moon" || math.Abs(got.RA-134.688470) > 0.035 || math.Abs(got.Dec-13.768368) > 0.03 {
		t.Errorf("position = %+v", got)
	}
	if math.Abs(got.DistanceKm-368409.7) > 100 {
		t.Errorf("distance = %.1f km", got.DistanceKm)
	}
}

func TestParseTwilight(t *testing.T) {
	kinds, err := parseTwilight("ALL")
	if err != nil || len(kinds) != 3 {
		t.Errorf("parseTwilight(ALL) = %v, %v", kinds, err)
	}
	if kinds, err := parseTwilight(""); err != nil || kinds != nil {
		t.Errorf("parseTwilight(\"\") = %v, %v", kinds, err)
	}
}
