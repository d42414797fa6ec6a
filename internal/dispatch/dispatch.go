// Package dispatch delivers callbacks onto a caller-owned execution context.
//
// A Loop plays the role of a main thread: whatever goroutine calls Run owns the
// loop, and every func posted to it runs there, one at a time, in post order.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Dispatcher runs fn on the execution context it represents.
type Dispatcher interface {
	Post(fn func())
}

// Inline runs posted funcs immediately on the posting goroutine.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

type Loop struct {
	mu        sync.Mutex
	queue     []func()
	wake      chan struct{}
	stopped   bool
	executing atomic.Bool
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		log.Warn().Str("op", "dispatch/loop").Msg("post on stopped loop dropped")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted funcs until ctx is done or Stop is called. Funcs still queued
// when Stop is called are run before Run returns; cancelling ctx abandons them.
func (l *Loop) Run(ctx context.Context) {
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.executing.Store(true)
			fn()
			l.executing.Store(false)
		}
		l.mu.Lock()
		stopped := l.stopped && len(l.queue) == 0
		l.mu.Unlock()
		if stopped {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// RunUntil drives the loop until done is closed and everything posted before that is drained.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) {
	go func() {
		select {
		case <-done:
			l.Stop()
		case <-ctx.Done():
		}
	}()
	l.Run(ctx)
}

func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Executing reports whether a posted func is running on the loop right now.
func (l *Loop) Executing() bool {
	return l.executing.Load()
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}
