package service

import "time"

// Clock supplies the current time. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Settings holds the presentation settings shared by the services.
type Settings struct {
	// Location is used for every derived calendar date and for "today".
	// Defaults to UTC.
	Location *time.Location

	// Currency prefixes money amounts in the dashboard activity feed.
	Currency string

	Clock Clock
}

func (s Settings) withDefaults() Settings {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.Clock == nil {
		s.Clock = SystemClock{}
	}
	return s
}
