// Package calculator holds the pure computations behind billable records:
// hours and amounts for time entries, top-client aggregation and the
// dashboard summary. Nothing here touches storage.
package calculator

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	msPerHour = 3_600_000

	// DateLayout is the calendar-date format used for derived date fields.
	DateLayout = "2006-01-02"
)

// EntryFigures are the derived values attached to a time entry on every read.
type EntryFigures struct {
	Hours       float64
	TotalAmount float64
	Duration    string
}

// Round2 rounds x to 2 decimal places, half away from zero.
//
// Rounding happens on the shortest decimal representation of x, so 10.005
// rounds to 10.01 even though 10.005*100 is 1000.4999... in binary.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// Hours returns end-start in hours, rounded to 2 decimals.
// Time is measured in whole milliseconds.
func Hours(start, end time.Time) float64 {
	ms := end.Sub(start).Milliseconds()
	return Round2(float64(ms) / msPerHour)
}

// Amount returns hours × rate. Hours are rounded before multiplying and the
// product is rounded again.
func Amount(hours, rate float64) float64 {
	return Round2(Round2(hours) * rate)
}

// FormatDuration renders hours as "Xh Ym".
func FormatDuration(hours float64) string {
	whole := math.Floor(hours)
	minutes := math.Round(math.Mod(hours, 1) * 60)
	return fmt.Sprintf("%dh %dm", int64(whole), int64(minutes))
}

// Figures computes all derived values for an entry. Callers must validate
// that end is after start first; inverted ranges yield negative figures.
func Figures(start, end time.Time, rate float64) EntryFigures {
	hours := Hours(start, end)
	return EntryFigures{
		Hours:       hours,
		TotalAmount: Amount(hours, rate),
		Duration:    FormatDuration(hours),
	}
}

// DateOf returns the calendar date of t in loc as YYYY-MM-DD.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
