package utils

import (
	"time"
)

// TimeProvider abstracts the clock so record timestamps can be fixed in tests
type TimeProvider interface {
	Now() time.Time
}

// SystemTimeProvider returns the system time in UTC, the zone withdrawal records are stored in
type SystemTimeProvider struct{}

// NewSystemTimeProvider returns the clock used outside tests
func NewSystemTimeProvider() *SystemTimeProvider {
	return &SystemTimeProvider{}
}

// Now returns current time
func (SystemTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider always returns FixedTime
type FixedTimeProvider struct {
	FixedTime time.Time
}

// Now returns the fixed time
func (d FixedTimeProvider) Now() time.Time {
	return d.FixedTime
}

// Elapsed returns how long ago since is according to tp, never negative
func Elapsed(tp TimeProvider, since time.Time) time.Duration {
	d := tp.Now().Sub(since)
	if d < 0 {
		return 0
	}
	return d
}
