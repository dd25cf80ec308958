package dispatch

import (
	"sort"
	"sync/atomic"
	"time"
)

type testTimer struct {
	deadline time.Duration
	seq      uint64
	fn       func()
	task     *delayedTask
}

// TestLoop is a Dispatcher with a manual clock. Nothing runs until one of
// the Run methods is called, which makes protocol tests deterministic.
type TestLoop struct {
	now    time.Duration
	seq    uint64
	queue  []func()
	timers []*testTimer
}

func NewTestLoop() *TestLoop {
	return &TestLoop{}
}

func (l *TestLoop) Post(fn func()) {
	l.queue = append(l.queue, fn)
}

func (l *TestLoop) PostAfter(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	t := &delayedTask{}
	l.seq++
	l.timers = append(l.timers, &testTimer{deadline: l.now + d, seq: l.seq, fn: fn, task: t})
	sort.Slice(l.timers, func(i, j int) bool {
		if l.timers[i].deadline == l.timers[j].deadline {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].deadline < l.timers[j].deadline
	})
	return t
}

// Elapsed returns the virtual time since the loop was created.
func (l *TestLoop) Elapsed() time.Duration {
	return l.now
}

// RunUntilIdle runs posted functions, including ones they post, without
// advancing the clock.
func (l *TestLoop) RunUntilIdle() {
	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
	}
}

// RunFor advances the clock by d, firing due timers in deadline order.
func (l *TestLoop) RunFor(d time.Duration) {
	target := l.now + d
	l.RunUntilIdle()
	for {
		l.dropCanceled()
		if len(l.timers) == 0 || l.timers[0].deadline > target {
			break
		}
		t := l.timers[0]
		l.timers = l.timers[1:]
		l.now = t.deadline
		if t.task.fire() {
			t.fn()
		}
		l.RunUntilIdle()
	}
	l.now = target
}

// PendingTimers returns the number of armed, uncancelled timers.
func (l *TestLoop) PendingTimers() int {
	l.dropCanceled()
	return len(l.timers)
}

func (l *TestLoop) dropCanceled() {
	out := l.timers[:0]
	for _, t := range l.timers {
		if atomic.LoadInt32(&t.task.state) == taskPending {
			out = append(out, t)
		}
	}
	l.timers = out
}
