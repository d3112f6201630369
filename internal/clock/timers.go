// Package clock runs repeating callbacks against a virtual time base that
// the caller advances, so the frame loop and tests share one scheduler.
package clock

import "time"

// Cancel stops a scheduled callback. It is safe to call more than once.
type Cancel func()

type timer struct {
	period    time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
}

// Timers is a single-goroutine scheduler. Callbacks run inside Advance.
type Timers struct {
	now    time.Duration
	timers []*timer
}

// NewTimers returns an empty scheduler at virtual time zero.
func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the current virtual time.
func (t *Timers) Now() time.Duration { return t.now }

// Pending reports how many callbacks are still scheduled.
func (t *Timers) Pending() int {
	n := 0
	for _, tm := range t.timers {
		if !tm.cancelled {
			n++
		}
	}
	return n
}

// Every schedules fn to run each period, first one period from now.
func (t *Timers) Every(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		panic("clock: non-positive period")
	}
	tm := &timer{period: period, next: t.now + period, fn: fn}
	t.timers = append(t.timers, tm)
	return func() { tm.cancelled = true }
}

// Advance moves virtual time forward by d and fires every callback that
// comes due, in time order. A callback cancelled while Advance runs is never
// fired again, even if further periods fell inside d.
func (t *Timers) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := t.now + d
	for {
		tm := t.earliest(target)
		if tm == nil {
			break
		}
		t.now = tm.next
		tm.next += tm.period
		tm.fn()
	}
	t.now = target
	t.compact()
}

func (t *Timers) earliest(limit time.Duration) *timer {
	var best *timer
	for _, tm := range t.timers {
		if tm.cancelled || tm.next > limit {
			continue
		}
		if best == nil || tm.next < best.next {
			best = tm
		}
	}
	return best
}

func (t *Timers) compact() {
	live := t.timers[:0]
	for _, tm := range t.timers {
		if !tm.cancelled {
			live = append(live, tm)
		}
	}
	for i := len(live); i < len(t.timers); i++ {
		t.timers[i] = nil
	}
	t.timers = live
}
