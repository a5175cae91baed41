// Package ratelimit provides a sliding-window limiter for outbound API calls.
//
// A Limiter admits at most capacity calls within any trailing window. Callers
// that arrive while the window is saturated are delayed, never rejected
// (unless a maximum queue depth is configured), and are admitted in arrival
// order.
//
//	limiter, err := ratelimit.New(5, 10*time.Second)
//	if err != nil {
//	    return err
//	}
//	if _, err := limiter.Acquire(ctx); err != nil {
//	    return err // ctx canceled while waiting
//	}
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Default rate used by Gazelle indexers when none is configured.
const (
	DefaultCapacity = 5
	DefaultWindow   = 10 * time.Second
)

var (
	// ErrInvalidRate indicates a limiter was configured with a non-positive
	// capacity or window. A zero capacity would block every caller forever.
	ErrInvalidRate = errors.New("rate limit capacity and window must be positive")

	// ErrQueueFull indicates the configured maximum number of queued callers
	// was reached. Only returned when WithMaxQueue is set.
	ErrQueueFull = errors.New("rate limiter queue is full")
)

// Limiter is a sliding-window rate limiter. It is safe for concurrent use.
type Limiter struct {
	capacity int
	window   time.Duration
	maxQueue int64
	now      func() time.Time
	logger   *zap.Logger
	observe  func(time.Duration)

	// turn is held by the caller at the head of the admission queue.
	// Blocked senders on a channel are served in arrival order, which gives
	// FIFO admission without holding mu across the wait.
	turn   chan struct{}
	queued atomic.Int64

	mu         sync.Mutex
	timestamps []time.Time // admitted calls, oldest first
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source. Acquire sleeps on real timers, so a custom
// clock must advance with wall time; fixed clocks are only useful for PeekWait.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger used for wait diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWaitObserver registers a callback invoked with the observed wait of
// every delayed admission.
func WithWaitObserver(fn func(time.Duration)) Option {
	return func(l *Limiter) {
		l.observe = fn
	}
}

// WithMaxQueue bounds the number of callers allowed inside Acquire at once.
// Callers beyond the bound fail with ErrQueueFull. Zero means unbounded.
func WithMaxQueue(n int) Option {
	return func(l *Limiter) {
		if n >= 0 {
			l.maxQueue = int64(n)
		}
	}
}

// New creates a limiter admitting capacity calls per window.
func New(capacity int, window time.Duration, opts ...Option) (*Limiter, error) {
	if capacity <= 0 || window <= 0 {
		return nil, fmt.Errorf("%d per %s: %w", capacity, window, ErrInvalidRate)
	}

	l := &Limiter{
		capacity:   capacity,
		window:     window,
		now:        time.Now,
		logger:     zap.NewNop(),
		turn:       make(chan struct{}, 1),
		timestamps: make([]time.Time, 0, capacity),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Capacity returns the number of calls admitted per window.
func (l *Limiter) Capacity() int {
	return l.capacity
}

// Window returns the sliding window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Acquire blocks until the call may proceed and records its admission.
// It returns the time spent waiting, zero when admitted immediately.
//
// If ctx is done before admission, Acquire returns ctx.Err() and no slot is
// consumed.
func (l *Limiter) Acquire(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if n := l.queued.Add(1); l.maxQueue > 0 && n > l.maxQueue {
		l.queued.Add(-1)
		return 0, fmt.Errorf("%d callers waiting: %w", n-1, ErrQueueFull)
	}
	defer l.queued.Add(-1)

	select {
	case l.turn <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { <-l.turn }()

	start := l.now()
	delayed := false
	for {
		wait, admitted := l.tryAdmit()
		if admitted {
			if !delayed {
				return 0, nil
			}
			elapsed := l.now().Sub(start)
			if l.observe != nil {
				l.observe(elapsed)
			}
			return elapsed, nil
		}

		l.logger.Debug("waiting for rate limiter",
			zap.Duration("wait", wait),
			zap.Int("capacity", l.capacity),
			zap.Duration("window", l.window))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
		// Both cases may be ready at once and select picks randomly.
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		delayed = true
	}
}

// PeekWait reports how long a call arriving now would wait, without
// recording anything. The boolean is false when no wait is needed.
// Stale timestamps are evicted as a side effect.
func (l *Limiter) PeekWait() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)
	if len(l.timestamps) < l.capacity {
		return 0, false
	}
	return l.window - now.Sub(l.timestamps[0]), true
}

// InWindow returns the number of admissions inside the current window.
func (l *Limiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.now())
	return len(l.timestamps)
}

// tryAdmit records an admission if the window has room. Otherwise it
// returns the time until the oldest admission leaves the window.
func (l *Limiter) tryAdmit() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)
	if len(l.timestamps) < l.capacity {
		l.timestamps = append(l.timestamps, now)
		return 0, true
	}
	return l.window - now.Sub(l.timestamps[0]), false
}

// evict drops timestamps that are at least one window old.
// Caller must hold mu.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	stale := 0
	for stale < len(l.timestamps) && !l.timestamps[stale].After(cutoff) {
		stale++
	}
	if stale == 0 {
		return
	}
	l.timestamps = append(l.timestamps[:0], l.timestamps[stale:]...)
}
