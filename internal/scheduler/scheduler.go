package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("scheduler is closed")

// Scheduler is a fixed pool of workers pulling units of work off a shared queue.
// The queue is unbounded, so Submit never waits on the workers.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
}

var (
	defaultOnce sync.Once
	defaultPool *Scheduler
)

// Default returns the process-wide pool used by downloads started without an explicit scheduler.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		defaultPool = New(4)
	})
	return defaultPool
}

func New(numWorkers int) *Scheduler {
	if numWorkers < 1 {
		numWorkers = 1
	}
	s := &Scheduler{}
	s.cond = sync.NewCond(&s.mu)
	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go func(workerID int) {
			defer s.wg.Done()
			s.work(workerID)
		}(i)
	}
	return s
}

// Submit queues fn for a worker and returns without waiting, so a task may submit
// to its own pool.
func (s *Scheduler) Submit(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.queue = append(s.queue, fn)
	s.cond.Signal()
	return nil
}

// Close stops accepting work and waits for queued work to finish.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) work(workerID int) {
	for {
		fn, ok := s.next()
		if !ok {
			return
		}
		runTask(workerID, fn)
	}
}

// next blocks until a task is queued, or reports false once the pool is closed and drained.
func (s *Scheduler) next() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return nil, false
	}
	fn := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return fn, true
}

func runTask(workerID int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("op", "scheduler/scheduler").Int("worker", workerID).Err(fmt.Errorf("%v", r)).Msg("task panicked")
		}
	}()
	fn()
}
