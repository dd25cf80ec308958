// Package dispatch provides the single-threaded run loop every protocol
// component executes on. Code running on a Dispatcher never takes locks;
// other goroutines hand work over with Post.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rigado/bthost"
)

// Dispatcher runs posted functions one at a time, in posting order.
type Dispatcher interface {
	Post(fn func())
	PostAfter(d time.Duration, fn func()) Task
}

// Task is a delayed function that can be cancelled before it runs.
type Task interface {
	// Cancel prevents the task from running. It reports whether the task was
	// still pending.
	Cancel() bool
}

const (
	taskPending int32 = iota
	taskFired
	taskCanceled
)

type delayedTask struct {
	state int32
	timer *time.Timer
}

func (t *delayedTask) Cancel() bool {
	if !atomic.CompareAndSwapInt32(&t.state, taskPending, taskCanceled) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

func (t *delayedTask) fire() bool {
	return atomic.CompareAndSwapInt32(&t.state, taskPending, taskFired)
}

// Loop is a Dispatcher backed by a goroutine started with Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	notify chan struct{}
	done   chan struct{}
	closed bool

	bthost.Logger
}

// NewLoop returns an idle loop; call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		Logger: bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "dispatch"}),
	}
}

// Post queues fn. Functions posted after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// PostAfter queues fn once d has elapsed.
func (l *Loop) PostAfter(d time.Duration, fn func()) Task {
	t := &delayedTask{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fire() {
				fn()
			}
		})
	})
	return t
}

// Run processes posted functions until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		q := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range q {
			fn()
		}

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.notify:
		}
	}
}

// Close stops the loop; pending functions are discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
}

// Done is closed once the loop has been closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
