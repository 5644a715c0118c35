package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// ErrInvalidMonth is returned for month strings that are not "YYYY-MM".
	ErrInvalidMonth = errors.New("invalid month")
	// ErrInvalidDate is returned for dates that are not valid calendar days.
	ErrInvalidDate = errors.New("invalid date")
)

var (
	monthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	dateRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Month is a calendar month without a day component.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a Month, validating the month number.
func NewMonth(year int, month time.Month) (Month, error) {
	if month < time.January || month > time.December || year < 1 {
		return Month{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidMonth, year, int(month))
	}
	return Month{Year: year, Month: month}, nil
}

// ParseMonth parses a zero-padded "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	m := monthRe.FindStringSubmatch(s)
	if m == nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	month, err := NewMonth(year, time.Month(mon))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return month, nil
}

// MustMonth parses s and panics on error. Intended for tests and constants.
func MustMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthOf returns the month containing t, read in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Index is a monotonically increasing month counter (year*12 + month-1).
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Sub returns the number of months from other to m.
func (m Month) Sub(other Month) int {
	return m.Index() - other.Index()
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	idx := m.Index() + n
	return Month{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Next returns the following month.
func (m Month) Next() Month { return m.AddMonths(1) }

// Previous returns the preceding month.
func (m Month) Previous() Month { return m.AddMonths(-1) }

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool { return m.Index() < other.Index() }

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool { return m.Index() > other.Index() }

// FirstDay returns the first calendar day of m.
func (m Month) FirstDay() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FutureMonths returns count consecutive months starting at start.
func FutureMonths(start Month, count int) []Month {
	if count <= 0 {
		return nil
	}
	months := make([]Month, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, start.AddMonths(i))
	}
	return months
}

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates and builds a Date.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if year < 1 || t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return NewDate(year, time.Month(mon), day)
}

// MustDate parses s and panics on error. Intended for tests.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DayNumber returns the number of days since 1970-01-01.
func (d Date) DayNumber() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.DayNumber() < other.DayNumber()
}

// MonthOf returns the month containing d.
func (d Date) MonthOf() Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats d as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
