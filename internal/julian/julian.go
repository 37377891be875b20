// Package julian converts between calendar dates and Julian Day numbers.
//
// Dates on or after 1582 October 15 are Gregorian, earlier dates are in the
// proleptic Julian calendar. The ten days in between never existed and are
// rejected with ErrInvalidDate.
package julian

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/almanac/internal/timeutil"
)

// J2000 is the Julian Day of the J2000.0 epoch, 2000 January 1.5 TT.
const J2000 = 2451545.0

// DaysPerCentury is the length of a Julian century in days.
const DaysPerCentury = 36525.0

// gregorianStartJD is the first Julian Day (at midnight) of the Gregorian
// calendar, 1582 October 15.
const gregorianStartJD = 2299161

// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// ErrInvalidDate is returned for dates that cannot be converted: the
// Julian/Gregorian cutover gap, out of range months or days, or negative
// Julian Days.
var ErrInvalidDate = errors.New("invalid calendar date")

// CalendarDate is a calendar date whose Day carries the time of day as a
// fraction, e.g. Day 4.81 is the 4th at 19:26:24.
type CalendarDate struct {
	Year  int
	Month int
	Day   float64
}

// TimeOfDay returns the clock time encoded in the fractional part of Day.
func (c CalendarDate) TimeOfDay() timeutil.TimeOfDay {
	_, frac := math.Modf(c.Day)
	return timeutil.FractionToTimeOfDay(frac)
}

// Time returns c as a UTC time.Time, rounded to the millisecond.
func (c CalendarDate) Time() time.Time {
	whole := math.Floor(c.Day)
	tod := timeutil.FractionToTimeOfDay(c.Day - whole)
	base := time.Date(c.Year, time.Month(c.Month), int(whole), 0, 0, 0, 0, time.UTC)
	return base.Add(tod.Duration())
}

// String formats c as an ISO 8601 date-time rounded to the millisecond.
// A fraction that rounds up to midnight moves to the next calendar day.
func (c CalendarDate) String() string {
	year, month := c.Year, c.Month
	whole := math.Floor(c.Day)
	tod := timeutil.FractionToTimeOfDay(c.Day - whole)
	day := int(whole)
	if tod.Days > 0 {
		if jd, err := DateToJulianDay(year, month, whole, 0); err == nil {
			if next, err := JulianDayToDate(jd + float64(tod.Days)); err == nil {
				year, month, day = next.Year, next.Month, int(math.Floor(next.Day+0.5/86400000))
			}
		}
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		year, month, day, tod.Hours, tod.Minutes, tod.Seconds, tod.Milliseconds)
}

// FromTime builds a CalendarDate from the UTC representation of t.
func FromTime(t time.Time) CalendarDate {
	u := t.UTC()
	year, month, day := u.Date()
	frac := (float64(u.Hour())*3600.0 +
		float64(u.Minute())*60.0 +
		float64(u.Second()) +
		float64(u.Nanosecond())/1e9) / 86400.0
	return CalendarDate{Year: year, Month: int(month), Day: float64(day) + frac}
}

// DateToJulianDay returns the Julian Day for the given calendar date. day may
// carry a fraction; dayFraction is added on top of it (pass 0.5 for noon).
func DateToJulianDay(year, month int, day, dayFraction float64) (float64, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 {
		return 0, fmt.Errorf("%w: day %v", ErrInvalidDate, day)
	}

	gregorian, err := isGregorian(year, month, day)
	if err != nil {
		return 0, err
	}
	if n := daysInMonth(year, month, gregorian); day >= float64(n+1) {
		return 0, fmt.Errorf("%w: %04d-%02d has %d days, got day %v", ErrInvalidDate, year, month, n, day)
	}

	y := year
	m := month
	if m <= 2 {
		y--
		m += 12
	}

	var b float64
	if gregorian {
		a := floorDiv(y, 100)
		b = float64(2 - a + floorDiv(a, 4))
	}

	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		day + b - 1524.5 + dayFraction

	return jd, nil
}

// isGregorian reports which calendar the date belongs to and rejects the
// days dropped at the 1582 reform.
func isGregorian(year, month int, day float64) (bool, error) {
	switch {
	case year != 1582:
		return year > 1582, nil
	case month != 10:
		return month > 10, nil
	case day >= 15:
		return true, nil
	case day >= 5:
		return false, fmt.Errorf("%w: 1582-10-%02d falls in the Gregorian reform gap", ErrInvalidDate, int(day))
	default:
		return false, nil
	}
}

func daysInMonth(year, month int, gregorian bool) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		leap := floorMod(year, 4) == 0
		if gregorian && floorMod(year, 100) == 0 {
			leap = floorMod(year, 400) == 0
		}
		if leap {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// JulianDayToDate converts a Julian Day back to a calendar date.
func JulianDayToDate(jd float64) (CalendarDate, error) {
	if jd < 0 || math.IsNaN(jd) || math.IsInf(jd, 0) {
		return CalendarDate{}, fmt.Errorf("%w: julian day %v", ErrInvalidDate, jd)
	}

	zf, f := math.Modf(jd + 0.5)
	z := int(zf)

	a := z
	if z >= gregorianStartJD {
		alpha := int((float64(z) - 1867216.25) / 36524.25)
		a = z + 1 + alpha - alpha/4
	}

	b := a + 1524
	c := int((float64(b) - 122.1) / 365.25)
	d := int(365.25 * float64(c))
	e := int(float64(b-d) / 30.6001)

	day := float64(b-d-int(30.6001*float64(e))) + f

	month := e - 1
	if e >= 14 {
		month = e - 13
	}

	year := c - 4716
	if month <= 2 {
		year = c - 4715
	}

	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// TimeToJD returns the Julian Day of t (UTC).
func TimeToJD(t time.Time) float64 {
	u := t.UTC()
	secs := float64(u.Unix()) + float64(u.Nanosecond())/1e9
	return unixEpochJD + secs/86400.0
}

// JDToTime returns the UTC time for a Julian Day, rounded to the millisecond.
func JDToTime(jd float64) time.Time {
	whole := math.Floor(jd - unixEpochJD)
	ms := math.Round((jd - unixEpochJD - whole) * 86400000)
	return time.Unix(int64(whole)*86400, 0).UTC().Add(time.Duration(ms) * time.Millisecond)
}

// Centuries returns Julian centuries since J2000.0.
func Centuries(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// FromCenturies is the inverse of Centuries.
func FromCenturies(t float64) float64 {
	return t*DaysPerCentury + J2000
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
