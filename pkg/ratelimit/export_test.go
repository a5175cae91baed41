package ratelimit

import "time"

// Exports for testing. These let black-box tests arrange limiter state
// without waiting out real windows.

// Seed appends admission timestamps, oldest first.
func (l *Limiter) Seed(timestamps ...time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = append(l.timestamps, timestamps...)
}

// Timestamps returns a copy of the recorded admissions without evicting.
func (l *Limiter) Timestamps() []time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]time.Time(nil), l.timestamps...)
}
