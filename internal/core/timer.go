package core

import (
	"sync"
	"time"

	"github.com/valter-silva-au/dayplan/internal/logging"
)

// Dispatcher applies intents. *Store implements it.
type Dispatcher interface {
	Dispatch(in Intent) error
}

// TimerState is a snapshot of the task timer.
type TimerState struct {
	Active           bool
	TaskID           string
	TaskName         string
	ElapsedSeconds   int
	RemainingSeconds int
}

// TaskTimer is a countdown focus timer for one task at a time. When it
// finishes or is stopped, the elapsed time is logged against the task.
type TaskTimer struct {
	mu       sync.Mutex
	sched    Scheduler
	store    Dispatcher
	handle   Handle
	taskID   string
	taskName string
	duration int
	elapsed  int
	onChange func(TimerState)
}

// NewTaskTimer creates an idle timer.
func NewTaskTimer(sched Scheduler, store Dispatcher) *TaskTimer {
	return &TaskTimer{sched: sched, store: store}
}

// OnChange registers fn to be called after every tick and state change.
func (t *TaskTimer) OnChange(fn func(TimerState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Start begins timing taskName for the given duration. A running timer is
// stopped first and its elapsed time logged.
func (t *TaskTimer) Start(taskID, taskName string, d time.Duration) {
	t.mu.Lock()
	prev := t.stopLocked()
	t.taskID = taskID
	t.taskName = taskName
	t.duration = int(d / time.Second)
	t.elapsed = 0
	t.handle = t.sched.Every(time.Second, t.tick)
	snap, fn := t.snapshotLocked(), t.onChange
	t.mu.Unlock()

	t.logTime(prev)
	if fn != nil {
		fn(snap)
	}
}

// Stop stops the timer and logs the elapsed time.
func (t *TaskTimer) Stop() {
	t.mu.Lock()
	prev := t.stopLocked()
	snap, fn := t.snapshotLocked(), t.onChange
	t.mu.Unlock()

	t.logTime(prev)
	if fn != nil {
		fn(snap)
	}
}

// Active reports whether a timer is running.
func (t *TaskTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle != nil
}

// State returns a snapshot of the timer.
func (t *TaskTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *TaskTimer) tick(time.Time) {
	t.mu.Lock()
	if t.handle == nil {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	var done *LogTime
	if t.elapsed >= t.duration {
		done = t.stopLocked()
	}
	snap, fn := t.snapshotLocked(), t.onChange
	t.mu.Unlock()

	t.logTime(done)
	if fn != nil {
		fn(snap)
	}
}

// stopLocked cancels the running job and returns the log intent for it, or
// nil when nothing was running or no time elapsed.
func (t *TaskTimer) stopLocked() *LogTime {
	if t.handle == nil {
		return nil
	}
	t.handle.Cancel()
	t.handle = nil
	if t.elapsed == 0 {
		return nil
	}
	return &LogTime{TaskID: t.taskID, TaskName: t.taskName, DurationSeconds: t.elapsed}
}

func (t *TaskTimer) snapshotLocked() TimerState {
	s := TimerState{
		Active:         t.handle != nil,
		TaskID:         t.taskID,
		TaskName:       t.taskName,
		ElapsedSeconds: t.elapsed,
	}
	if rem := t.duration - t.elapsed; rem > 0 {
		s.RemainingSeconds = rem
	}
	return s
}

func (t *TaskTimer) logTime(in *LogTime) {
	if in == nil || t.store == nil {
		return
	}
	if err := t.store.Dispatch(*in); err != nil {
		logging.Warn("timer", "logging %ds for %q: %v", in.DurationSeconds, in.TaskName, err)
	}
}
