// Package sched runs cooperative timed tasks from a frame loop.
//
// Nothing here starts a goroutine. A Scheduler only makes progress when its
// owner calls Advance with the time elapsed since the previous frame, so every
// callback runs on the caller's goroutine between frames.
package sched

// epsilon absorbs float drift when summing frame deltas (0.1*4 != 0.4).
const epsilon = 1e-9

type taskKind int

const (
	kindAfter taskKind = iota
	kindTween
	kindRepeat
)

// Task is a handle to a scheduled unit of work.
type Task struct {
	kind     taskKind
	duration float64 // delay, tween length or repeat interval
	elapsed  float64
	count    int
	fired    int

	fn   func()
	step func(progress float64)
	done func()
	tick func(i int)

	cancelled bool
	finished  bool
}

// Cancel stops the task. Callbacks that have not run yet never will.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Done reports whether the task finished or was cancelled.
func (t *Task) Done() bool {
	return t == nil || t.cancelled || t.finished
}

// Cancelled reports whether Cancel was called before the task finished.
func (t *Task) Cancelled() bool {
	return t != nil && t.cancelled
}

func (t *Task) advance(dt float64) {
	t.elapsed += dt
	switch t.kind {
	case kindAfter:
		if t.elapsed+epsilon >= t.duration {
			t.finished = true
			t.fn()
		}
	case kindTween:
		p := 1.0
		if t.duration > 0 {
			p = t.elapsed / t.duration
		}
		if t.elapsed+epsilon >= t.duration || p >= 1 {
			t.finished = true
			if t.step != nil {
				t.step(1)
			}
			if t.done != nil {
				t.done()
			}
			return
		}
		if t.step != nil {
			t.step(p)
		}
	case kindRepeat:
		for t.fired < t.count && !t.cancelled && t.elapsed+epsilon >= t.duration*float64(t.fired) {
			i := t.fired
			t.fired++
			t.tick(i)
		}
		if t.fired >= t.count {
			t.finished = true
		}
	}
}

// Scheduler owns a set of tasks advanced by explicit frame deltas.
type Scheduler struct {
	tasks    []*Task
	inflight []*Task
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) add(t *Task) *Task {
	s.tasks = append(s.tasks, t)
	return t
}

// After runs fn once delay seconds of advanced time have passed.
func (s *Scheduler) After(delay float64, fn func()) *Task {
	return s.add(&Task{kind: kindAfter, duration: delay, fn: fn})
}

// Tween calls step with progress in (0, 1] on every advance until the
// duration has elapsed, then calls done. Progress 1 is always delivered
// exactly once.
func (s *Scheduler) Tween(duration float64, step func(progress float64), done func()) *Task {
	return s.add(&Task{kind: kindTween, duration: duration, step: step, done: done})
}

// Repeat calls fn count times, interval seconds apart. The first call
// happens immediately, the remaining ones from Advance.
func (s *Scheduler) Repeat(count int, interval float64, fn func(i int)) *Task {
	t := &Task{kind: kindRepeat, duration: interval, count: count, tick: fn}
	if count <= 0 {
		t.finished = true
		return t
	}
	t.fired = 1
	fn(0)
	if t.cancelled || t.fired >= count {
		t.finished = true
		return t
	}
	return s.add(t)
}

// Advance moves every pending task forward by dt seconds. Tasks scheduled
// from inside a callback start counting on the next Advance.
func (s *Scheduler) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.inflight = s.tasks
	s.tasks = nil
	for _, t := range s.inflight {
		if t.cancelled || t.finished {
			continue
		}
		t.advance(dt)
	}

	kept := make([]*Task, 0, len(s.inflight)+len(s.tasks))
	for _, t := range s.inflight {
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	for _, t := range s.tasks {
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	s.inflight = nil
	s.tasks = kept
}

// Clear cancels every pending task, including the ones currently running.
func (s *Scheduler) Clear() {
	for _, t := range s.inflight {
		t.Cancel()
	}
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = nil
}

// Pending returns the number of tasks that have not finished.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Done() {
			n++
		}
	}
	return n
}
