package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/dayplan/internal/logging"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Persister loads and saves the whole planner document. The storage package
// provides the diskv-backed implementation; defining the interface here keeps
// core independent of it.
type Persister interface {
	Load() (*models.State, error)
	Save(state *models.State) error
}

// Intent is a single user or system action applied to the planner state.
// The set of intents is closed: every implementation lives in this package.
type Intent interface {
	apply(st *models.State, e *env) error
}

// StoreOptions configures a Store. Zero values select in-memory operation,
// the wall clock and random UUIDs.
type StoreOptions struct {
	Persister       Persister
	Events          EventLogger
	Now             func() time.Time
	NewID           func() string
	StreakThreshold int
}

// Store is the single source of truth for planner state. Mutations are
// applied to a copy of the current state and swapped in atomically, then
// persisted and broadcast to subscribers.
type Store struct {
	mu              sync.Mutex
	state           models.State
	persister       Persister
	events          EventLogger
	now             func() time.Time
	newID           func() string
	streakThreshold int

	subMu   sync.Mutex
	subs    map[int]func(models.State)
	nextSub int

	persistErr error
}

// NewStore creates a Store. Call Initialize before dispatching intents.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		persister:       opts.Persister,
		events:          opts.Events,
		now:             opts.Now,
		newID:           opts.NewID,
		streakThreshold: opts.StreakThreshold,
		subs:            make(map[int]func(models.State)),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.state = models.NewState(models.FormatDay(s.now()))
	return s
}

// env carries the per-dispatch context into intents.
type env struct {
	now             time.Time
	today           string
	newID           func() string
	streakThreshold int
	inboxBefore     int
	events          []pendingEvent
}

type pendingEvent struct {
	typ  string
	data map[string]any
}

func (e *env) emit(typ string, data map[string]any) {
	e.events = append(e.events, pendingEvent{typ: typ, data: data})
}

func (s *Store) newEnv() *env {
	now := s.now()
	return &env{
		now:             now,
		today:           models.FormatDay(now),
		newID:           s.newID,
		streakThreshold: s.streakThreshold,
	}
}

// Initialize loads persisted state and performs day and week rollover.
// Unreadable state never blocks startup: the store falls back to defaults
// and records the failure in PersistErr.
func (s *Store) Initialize() {
	s.mu.Lock()
	e := s.newEnv()
	st := models.NewState(e.today)
	var loadErr error
	if s.persister != nil {
		loaded, err := s.persister.Load()
		switch {
		case err != nil:
			logging.Warn("store", "loading state failed, starting from defaults: %v", err)
			loadErr = err
		case loaded != nil:
			st = *loaded
			st.Normalize()
			rederiveCompletion(&st)
		}
	}
	if st.Plan.Date == "" {
		st.Plan.Date = e.today
	}
	s.catchUp(&st, e)
	s.commitLocked(st, e)
	if loadErr != nil {
		s.mu.Lock()
		s.persistErr = loadErr
		s.mu.Unlock()
	}
}

// catchUp applies any rollover owed since the state was last touched.
func (s *Store) catchUp(st *models.State, e *env) {
	if st.Plan.Date != e.today {
		rollover(st, e)
	}
	rotateWeek(st, e)
}

// Dispatch applies an intent. Intents naming IDs that do not exist are
// no-ops and return nil; policy rejections return one of the sentinel
// errors and leave the state untouched.
func (s *Store) Dispatch(in Intent) error {
	s.mu.Lock()
	e := s.newEnv()
	next := s.state.Clone()
	s.catchUp(&next, e)
	var base models.State
	mark := len(e.events)
	if mark > 0 {
		checkAchievements(&next, e)
		mark = len(e.events)
		base = next.Clone()
	}
	e.inboxBefore = len(next.Inbox)
	if err := in.apply(&next, e); err != nil {
		// A rejected intent still keeps any rollover that ran first.
		if mark > 0 {
			e.events = e.events[:mark]
			s.commitLocked(base, e)
			return err
		}
		s.mu.Unlock()
		return err
	}
	checkAchievements(&next, e)
	s.commitLocked(next, e)
	return nil
}

// commitLocked swaps in the new state, persists it, then releases s.mu
// before notifying subscribers and writing events.
func (s *Store) commitLocked(next models.State, e *env) {
	s.state = next
	if s.persister != nil {
		snapshot := next.Clone()
		if err := s.persister.Save(&snapshot); err != nil {
			logging.Warn("store", "persisting state failed, keeping changes in memory: %v", err)
			s.persistErr = err
		} else {
			s.persistErr = nil
		}
	}
	view := next.Clone()
	s.mu.Unlock()

	if s.events != nil {
		for _, ev := range e.events {
			if err := s.events.LogEvent(ev.typ, ev.data); err != nil {
				logging.Debug("store", "writing event %s: %v", ev.typ, err)
			}
		}
	}
	s.notify(view)
}

// State returns a deep copy of the current state.
func (s *Store) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Today returns the local day string according to the store's clock.
func (s *Store) Today() string {
	return models.FormatDay(s.now())
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// PersistErr returns the most recent persistence failure, or nil if the last
// save succeeded.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Subscribe registers fn to receive a copy of the state after every applied
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(st models.State) {
	s.subMu.Lock()
	fns := make([]func(models.State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(st.Clone())
	}
}

// DayStarted reports whether today's plan has been started.
func (s *Store) DayStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Plan.Started && s.state.Plan.Date == models.FormatDay(s.now())
}
