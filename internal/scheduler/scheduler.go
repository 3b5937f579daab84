// Package scheduler holds the timing primitives behind UI refreshes: a
// trailing-edge debouncer, timed boot phases and a periodic loop.
package scheduler

import (
	"context"
	"sync"
	"time"

	applog "moneytracker/internal/log"
)

// Debouncer coalesces bursts of Schedule calls into a single run of fn,
// delay after the last call.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule cancels any pending run and arms a new one.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending run, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Phase is one step of a staged start-up.
type Phase struct {
	Name  string
	Delay time.Duration // measured from the RunPhases call
	Run   func(ctx context.Context)
}

// RunPhases starts every phase after its delay without waiting for earlier
// phases to finish. Phases still pending when ctx is done are skipped. The
// returned channel is closed once every phase has run or been skipped.
func RunPhases(ctx context.Context, logger *applog.Logger, phases ...Phase) <-chan struct{} {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentScheduler)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, p := range phases {
		wg.Add(1)
		go func(p Phase) {
			defer wg.Done()
			if !Sleep(ctx, p.Delay) {
				logger.DebugContext(ctx, "Phase skipped", applog.FieldPhase, p.Name)
				return
			}
			start := time.Now()
			p.Run(ctx)
			logger.DebugContext(ctx, "Phase completed",
				applog.FieldPhase, p.Name,
				applog.FieldDuration, time.Since(start).Milliseconds())
		}(p)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// After runs fn once after delay unless ctx is done first. It does not block.
func After(ctx context.Context, delay time.Duration, fn func()) {
	go func() {
		if Sleep(ctx, delay) {
			fn()
		}
	}()
}

// Every calls fn on each tick of interval until ctx is done.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Sleep waits for d and reports false if ctx ended first.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
