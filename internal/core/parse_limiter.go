package core

// parse_limiter.go bounds how many dumps are parsed at once.
//
// A parse holds the whole dump and its Dataset in memory, so concurrent
// uploads are admitted through a weighted semaphore. Callers that cannot get
// a slot within maxWait fail with ErrTooManyParses.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyParses is returned when every parse slot stays busy for the
// whole wait period. Clients should retry after a short delay.
var ErrTooManyParses = errors.New("too many concurrent parses, please try again later")

// DefaultMaxConcurrentParses is the default limit for parallel parses.
const DefaultMaxConcurrentParses = 2

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ParseLimiter admits at most a fixed number of parses at a time.
type ParseLimiter struct {
	sem     *semaphore.Weighted
	size    int
	maxWait time.Duration
	active  atomic.Int64
}

// NewParseLimiter creates a limiter with maxConcurrent slots.
// Non-positive arguments fall back to the defaults.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ParseLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		size:    maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. It returns ctx.Err() when the caller's context
// ends first and ErrTooManyParses when only the wait period ran out.
// Every successful Acquire must be paired with Release.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyParses
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (l *ParseLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *ParseLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of parses holding a slot.
func (l *ParseLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *ParseLimiter) MaxConcurrent() int {
	return l.size
}

// Available returns the number of free slots.
func (l *ParseLimiter) Available() int {
	return l.size - l.ActiveCount()
}

// WaitForDrain blocks until no parse holds a slot or ctx ends.
// Used during shutdown.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, int64(l.size)); err != nil {
		return err
	}
	l.sem.Release(int64(l.size))
	return nil
}

// ParseLimiterStatus is a point-in-time view of the limiter.
type ParseLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for the health endpoint.
func (l *ParseLimiter) Status() ParseLimiterStatus {
	active := l.ActiveCount()
	return ParseLimiterStatus{
		Active:        active,
		Available:     l.size - active,
		MaxConcurrent: l.size,
	}
}
