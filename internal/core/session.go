package core

import (
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Session ties the store to the two clocks of an interactive run: the task
// timer and the idle detector. Only one of them counts at a time; starting a
// timer resets idle detection and a running timer keeps the detector
// ineligible.
type Session struct {
	Store *Store
	Timer *TaskTimer
	Idle  *IdleDetector

	sched        Scheduler
	handle       Handle
	timerDefault time.Duration
}

// NewSession wires a timer and an idle detector to store using sched.
func NewSession(store *Store, sched Scheduler, cfg models.GlobalConfig) *Session {
	s := &Session{
		Store:        store,
		Timer:        NewTaskTimer(sched, store),
		sched:        sched,
		timerDefault: time.Duration(cfg.Timer.DefaultMinutes) * time.Minute,
	}
	if s.timerDefault <= 0 {
		s.timerDefault = 25 * time.Minute
	}
	s.Idle = NewIdleDetector(IdleOptionsFromConfig(cfg.Idle, s.idleEligible), store)
	return s
}

func (s *Session) idleEligible() bool {
	return s.Store.DayStarted() && !s.Timer.Active()
}

// Run starts the once-a-second idle tick. Call Close to stop it.
func (s *Session) Run() {
	if s.handle != nil {
		return
	}
	s.handle = s.sched.Every(time.Second, s.Idle.Tick)
}

// StartTimer starts the focus timer for a task. A zero duration uses the
// configured default.
func (s *Session) StartTimer(taskID, taskName string, d time.Duration) {
	if d <= 0 {
		d = s.timerDefault
	}
	s.Timer.Start(taskID, taskName, d)
	s.Idle.Reset()
}

// StopTimer stops the focus timer and logs its elapsed time.
func (s *Session) StopTimer() {
	s.Timer.Stop()
}

// Activity forwards a user input event to the idle detector.
func (s *Session) Activity(now time.Time) {
	s.Idle.Activity(now)
}

// Close stops the tick and the timer.
func (s *Session) Close() {
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.Timer.Stop()
}
