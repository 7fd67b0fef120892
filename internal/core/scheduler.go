package core

import (
	"sync"
	"time"
)

// Handle cancels a scheduled job. Cancel is safe to call more than once.
type Handle interface {
	Cancel()
}

// Scheduler runs fn every d until the returned handle is cancelled. Both the
// task timer and the idle detector tick through a Scheduler.
type Scheduler interface {
	Every(d time.Duration, fn func(now time.Time)) Handle
}

type tickerScheduler struct{}

// NewTickerScheduler returns a Scheduler backed by time.Ticker.
func NewTickerScheduler() Scheduler {
	return tickerScheduler{}
}

type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}

func (tickerScheduler) Every(d time.Duration, fn func(time.Time)) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	t := time.NewTicker(d)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-h.stop:
				return
			case now := <-t.C:
				select {
				case <-h.stop:
					return
				default:
				}
				fn(now)
			}
		}
	}()
	return h
}

// ManualScheduler is a Scheduler driven by Advance. Jobs fire synchronously
// on the caller's goroutine in time order.
type ManualScheduler struct {
	mu   sync.Mutex
	now  time.Time
	jobs map[int]*manualJob
	seq  int
}

type manualJob struct {
	id        int
	every     time.Duration
	next      time.Time
	fn        func(time.Time)
	cancelled bool
}

// NewManualScheduler returns a ManualScheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start, jobs: make(map[int]*manualJob)}
}

type manualHandle struct {
	m  *ManualScheduler
	id int
}

func (h manualHandle) Cancel() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if j, ok := h.m.jobs[h.id]; ok {
		j.cancelled = true
		delete(h.m.jobs, h.id)
	}
}

// Every implements Scheduler.
func (m *ManualScheduler) Every(d time.Duration, fn func(time.Time)) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.jobs[m.seq] = &manualJob{id: m.seq, every: d, next: m.now.Add(d), fn: fn}
	return manualHandle{m: m, id: m.seq}
}

// Now returns the scheduler's clock.
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing every job that comes due.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		var due *manualJob
		for _, j := range m.jobs {
			if j.next.After(target) {
				continue
			}
			if due == nil || j.next.Before(due.next) || (j.next.Equal(due.next) && j.id < due.id) {
				due = j
			}
		}
		if due == nil {
			break
		}
		m.now = due.next
		due.next = due.next.Add(due.every)
		at := m.now
		m.mu.Unlock()
		due.fn(at)
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}
