// Package task runs cooperative background tasks on the simulation thread.
//
// A task is a function that suspends only at explicit wait points
// (Co.Delay, Co.WaitUntil). The Scheduler resumes suspended tasks from
// Advance, one at a time, so task bodies never run in parallel with each
// other or with the caller of Advance. Each task owns a cancellation
// handle; cancelling aborts the task at its current or next wait point.
package task

import (
	"context"
	"time"
)

// Scheduler drives cooperative tasks from the update loop.
type Scheduler struct {
	now   time.Duration
	tasks []*Handle
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler's simulated time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of tasks that have not finished.
func (s *Scheduler) Pending() int {
	n := 0
	for _, h := range s.tasks {
		if !h.done {
			n++
		}
	}
	return n
}

// Go starts fn. It runs synchronously until its first suspension or return,
// then continues from later Advance calls.
func (s *Scheduler) Go(ctx context.Context, fn func(co *Co) error) *Handle {
	h := s.spawn(ctx, fn)
	s.step(h)
	return h
}

// Advance moves simulated time forward by dt and resumes every task whose
// wait condition holds or whose context was cancelled.
func (s *Scheduler) Advance(dt time.Duration) {
	s.now += dt

	snapshot := s.tasks[:len(s.tasks):len(s.tasks)]
	for _, h := range snapshot {
		if h.done || h.running {
			continue
		}
		if h.ctx.Err() != nil || h.ready == nil || h.ready() {
			s.step(h)
		}
	}

	s.compact()
}

// Close cancels every task and lets each one unwind.
func (s *Scheduler) Close() {
	for len(s.tasks) > 0 {
		snapshot := s.tasks
		for _, h := range snapshot {
			h.Cancel()
		}
		s.compact()
	}
}

func (s *Scheduler) spawn(ctx context.Context, fn func(co *Co) error) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		sched:  s,
		ctx:    ctx,
		cancel: cancel,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	s.tasks = append(s.tasks, h)
	go h.run(fn)
	return h
}

// step hands control to h and blocks until it suspends or finishes.
func (s *Scheduler) step(h *Handle) {
	h.ready = nil
	h.running = true
	h.resume <- struct{}{}
	<-h.yield
	h.running = false
}

func (s *Scheduler) compact() {
	live := s.tasks[:0:0]
	for _, h := range s.tasks {
		if !h.done {
			live = append(live, h)
		}
	}
	s.tasks = live
}

// Handle controls a started task.
type Handle struct {
	sched  *Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	resume chan struct{}
	yield  chan struct{}
	ready  func() bool

	running bool
	done    bool
	err     error
}

func (h *Handle) run(fn func(co *Co) error) {
	<-h.resume
	err := fn(&Co{h: h})
	h.err = err
	h.done = true
	h.cancel()
	h.yield <- struct{}{}
}

// Cancel aborts the task. A suspended task is resumed immediately so its
// wait returns the cancellation error; a running task sees it at its next
// wait point. Cancelling a finished task is a no-op.
func (h *Handle) Cancel() {
	if h.done {
		return
	}
	h.cancel()
	if !h.running {
		h.sched.step(h)
	}
}

// Done reports whether the task has returned.
func (h *Handle) Done() bool {
	return h.done
}

// Err returns the task's result once it is done.
func (h *Handle) Err() error {
	return h.err
}

// Co is the task-side view of a running task.
type Co struct {
	h *Handle
}

// Context returns the task's cancellation context.
func (c *Co) Context() context.Context {
	return c.h.ctx
}

// Now returns the scheduler's simulated time.
func (c *Co) Now() time.Duration {
	return c.h.sched.now
}

// Delay suspends for d of simulated time. A non-positive d still yields
// until the next Advance.
func (c *Co) Delay(d time.Duration) error {
	if err := c.h.ctx.Err(); err != nil {
		return err
	}
	s := c.h.sched
	deadline := s.now + d
	return c.suspend(func() bool { return s.now >= deadline })
}

// WaitUntil returns once cond holds. cond is checked immediately and then
// once per Advance while suspended.
func (c *Co) WaitUntil(cond func() bool) error {
	if err := c.h.ctx.Err(); err != nil {
		return err
	}
	if cond() {
		return nil
	}
	return c.suspend(cond)
}

// Yield suspends until the next Advance.
func (c *Co) Yield() error {
	if err := c.h.ctx.Err(); err != nil {
		return err
	}
	return c.suspend(func() bool { return true })
}

func (c *Co) suspend(ready func() bool) error {
	h := c.h
	h.ready = ready
	h.yield <- struct{}{}
	<-h.resume
	return h.ctx.Err()
}

// Slot holds at most one task at a time, like a cancellation token field
// that is set while a task runs and cleared when it ends.
type Slot struct {
	h *Handle
}

// Active reports whether a task currently occupies the slot.
func (sl *Slot) Active() bool {
	return sl.h != nil
}

// Start runs fn in the slot unless a task already occupies it.
// Returns false when the call was a no-op.
func (sl *Slot) Start(s *Scheduler, ctx context.Context, fn func(co *Co) error) bool {
	if sl.h != nil {
		return false
	}
	h := s.spawn(ctx, func(co *Co) error {
		defer func() {
			if sl.h == co.h {
				sl.h = nil
			}
		}()
		return fn(co)
	})
	// Occupied before the first step so re-entrant Starts are no-ops.
	sl.h = h
	s.step(h)
	return true
}

// Stop cancels the occupying task and frees the slot in one step.
func (sl *Slot) Stop() {
	h := sl.h
	if h == nil {
		return
	}
	sl.h = nil
	h.Cancel()
}
