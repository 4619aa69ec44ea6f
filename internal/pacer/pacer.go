// Package pacer spaces out profile lookups so the upstream sees a slow,
// irregular request pattern.
package pacer

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks the caller before an outbound profile lookup
type Pacer interface {
	Pause(ctx context.Context) error
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// RandomPacer pauses for a duration drawn uniformly from [min, max] and,
// when a rate ceiling is set, also waits for a limiter token.
type RandomPacer struct {
	min     time.Duration
	max     time.Duration
	limiter *rate.Limiter
	rand    func() float64
	sleep   SleepFunc
	now     func() time.Time
}

// Option configures a RandomPacer
type Option func(*RandomPacer)

// WithRand replaces the source of uniform [0,1) values
func WithRand(f func() float64) Option {
	return func(p *RandomPacer) { p.rand = f }
}

// WithSleep replaces the blocking sleep, so tests can record pauses
func WithSleep(f SleepFunc) Option {
	return func(p *RandomPacer) { p.sleep = f }
}

// WithClock replaces time.Now for the rate ceiling
func WithClock(now func() time.Time) Option {
	return func(p *RandomPacer) { p.now = now }
}

// WithRatePerMinute caps the number of pauses that may complete per minute.
// Zero or less disables the cap.
func WithRatePerMinute(n int) Option {
	return func(p *RandomPacer) {
		if n <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// New creates a RandomPacer for the [min, max] interval
func New(min, max time.Duration, opts ...Option) *RandomPacer {
	if max < min {
		min, max = max, min
	}
	p := &RandomPacer{
		min:   min,
		max:   max,
		rand:  rand.Float64,
		sleep: Sleep,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next draws the next pause duration
func (p *RandomPacer) Next() time.Duration {
	span := p.max - p.min
	if span <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.rand()*float64(span))
}

// Pause blocks for a random duration. With a rate ceiling it then waits out
// whatever is left before the next limiter token; a ceiling of at least one
// lookup per minimum pause never adds to the drawn duration.
func (p *RandomPacer) Pause(ctx context.Context) error {
	if err := p.sleep(ctx, p.Next()); err != nil {
		return err
	}
	if p.limiter == nil {
		return nil
	}

	now := p.now()
	reservation := p.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	if err := p.sleep(ctx, delay); err != nil {
		reservation.CancelAt(p.now())
		return err
	}
	return nil
}

// Sleep is the default SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Recorder is a Pacer that only records pause requests
type Recorder struct {
	Pauses int
	Err    error
}

func (r *Recorder) Pause(ctx context.Context) error {
	r.Pauses++
	return r.Err
}
