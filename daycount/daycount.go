// Package daycount provides the calendar-date helpers the lattice engine
// needs: ISO date parsing, ACT/365F year fractions, and float rounding.
//
// The engine never adjusts for holidays or weekends (spec mandates a plain
// calendar-day grid), so unlike the teacher's calendar package this package
// carries no business-day calendar at all.
package daycount

import (
	"fmt"
	"math"
	"time"
)

const isoLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date into a UTC time.Time at midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("daycount: ParseDate %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(isoLayout)
}

// Days returns the signed day count between two dates (end - start).
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// YearFraction returns the ACT/365F year fraction between two dates.
func YearFraction(start, end time.Time) float64 {
	return Days(start, end) / 365.0
}

// RoundTo rounds val to the given number of decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
