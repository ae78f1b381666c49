package date

import (
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// CompactFormat is the 8 digit format used by the ledger file.
const CompactFormat = "20060102"

const Day = 24 * time.Hour

// Date represents a date with day-level granularity.
//
// The zero value is the "no date" value: it prints as an empty string and is
// neither before nor after any other zero Date.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// DaysUntil returns the number of calendar days from d to x. It is negative
// when x is before d.
func (d Date) DaysUntil(x Date) int {
	return int(x.time().Sub(d.time()) / Day)
}

// String format the date in its standard format, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Compact formats the date as YYYYMMDD, or "" for the zero Date.
func (d Date) Compact() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(CompactFormat)
}

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	// We use a slightly more permisive format for read, to support 2025-7-1 instead of 2025-07-01
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// ParseCompact parses a YYYYMMDD date. The empty string is the zero Date.
func ParseCompact(str string) (Date, error) {
	if str == "" {
		return Date{}, nil
	}
	if len(str) != len(CompactFormat) {
		return Date{}, fmt.Errorf("invalid date %q want format %q", str, CompactFormat)
	}
	on, err := time.Parse(CompactFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, CompactFormat, err)
	}
	return New(on.Date()), nil
}

// MarshalText renders the date in its standard format, for text based encoders (yaml).
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Max returns the latest of the two dates, ignoring zero dates.
func Max(a, b Date) Date {
	if a.IsZero() || b.After(a) {
		return b
	}
	return a
}

// Min returns the earliest of the two dates, ignoring zero dates.
func Min(a, b Date) Date {
	if a.IsZero() || (!b.IsZero() && b.Before(a)) {
		return b
	}
	return a
}
