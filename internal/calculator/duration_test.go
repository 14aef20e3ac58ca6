package calculator

import (
	"math"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.5, 2.5},
		{10.005, 10.01},
		{1000.005, 1000.01},
		{1.334, 1.33},
		{1.335, 1.34},
		{-1.335, -1.34},
		{0, 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if !math.IsNaN(Round2(math.NaN())) {
		t.Error("Round2(NaN) should stay NaN")
	}
}

func TestFigures(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		start        time.Time
		end          time.Time
		rate         float64
		wantHours    float64
		wantAmount   float64
		wantDuration string
	}{
		{
			name:         "two and a half hours at 100",
			start:        base,
			end:          time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC),
			rate:         100,
			wantHours:    2.5,
			wantAmount:   250,
			wantDuration: "2h 30m",
		},
		{
			name:         "hours rounded before multiplying",
			start:        base,
			end:          base.Add(80 * time.Minute),
			rate:         75,
			wantHours:    1.33,
			wantAmount:   99.75,
			wantDuration: "1h 20m",
		},
		{
			name:         "under a minute",
			start:        base,
			end:          base.Add(30 * time.Second),
			rate:         120,
			wantHours:    0.01,
			wantAmount:   1.2,
			wantDuration: "0h 1m",
		},
		{
			name:         "just below two hours never shows 60m",
			start:        base,
			end:          base.Add(119*time.Minute + 50*time.Second),
			rate:         10,
			wantHours:    2,
			wantAmount:   20,
			wantDuration: "2h 0m",
		},
		{
			name:         "zero rate",
			start:        base,
			end:          base.Add(time.Hour),
			rate:         0,
			wantHours:    1,
			wantAmount:   0,
			wantDuration: "1h 0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Figures(tt.start, tt.end, tt.rate)
			if got.Hours != tt.wantHours {
				t.Errorf("Hours = %v, want %v", got.Hours, tt.wantHours)
			}
			if got.TotalAmount != tt.wantAmount {
				t.Errorf("TotalAmount = %v, want %v", got.TotalAmount, tt.wantAmount)
			}
			if got.Duration != tt.wantDuration {
				t.Errorf("Duration = %q, want %q", got.Duration, tt.wantDuration)
			}
		})
	}
}

// Amounts are hours rounded to cents, times the rate, rounded again. The
// exact amount (rate × unrounded hours) is noted for each case.
func TestAmountFormula(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		duration time.Duration
		rate     float64
		want     float64
	}{
		{"7m30s rounds up to 0.13h", 7*time.Minute + 30*time.Second, 100, 13}, // exact: 12.50
		{"1m rounds to 0.02h", time.Minute, 60, 1.2},                          // exact: 1.00
		{"80m rounds to 1.33h", 80 * time.Minute, 150, 199.5},                 // exact: 200.00
		{"20m at fractional rate", 20 * time.Minute, 33.33, 11},               // exact: 11.11
		{"1.005h rounds half up", time.Hour + 18*time.Second, 100, 101},       // exact: 100.50
		{"just under 11h", 11*time.Hour - time.Millisecond, 50, 550},          // exact: 549.999986
		{"whole hours", 2*time.Hour + 30*time.Minute, 100, 250},               // exact: 250.00
		{"zero rate", 3 * time.Hour, 0, 0},                                    // exact: 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Figures(start, start.Add(tt.duration), tt.rate).TotalAmount
			if got != tt.want {
				t.Errorf("amount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	if got := DateOf(ts, nil); got != "2024-01-01" {
		t.Errorf("DateOf(nil loc) = %q, want 2024-01-01", got)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	if got := DateOf(ts, tokyo); got != "2024-01-02" {
		t.Errorf("DateOf(JST) = %q, want 2024-01-02", got)
	}
}
