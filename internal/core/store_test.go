package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// --- Helpers ---

// fakeClock is a settable clock for stores under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t *testing.T, day string) *fakeClock {
	t.Helper()
	d, err := time.ParseInLocation(models.DateLayout, day, time.Local)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	return &fakeClock{now: d.Add(9 * time.Hour)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NextDay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, 1)
}

// memPersister keeps the document in memory and can be told to fail.
type memPersister struct {
	mu      sync.Mutex
	doc     *models.State
	loadErr error
	saveErr error
	saves   int
}

func (p *memPersister) Load() (*models.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if p.doc == nil {
		return nil, nil
	}
	c := p.doc.Clone()
	return &c, nil
}

func (p *memPersister) Save(st *models.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	c := st.Clone()
	p.doc = &c
	p.saves++
	return nil
}

// recordingEvents collects event types in order.
type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEvents) LogEvent(eventType string, _ map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	return nil
}

func (r *recordingEvents) has(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.types {
		if t == eventType {
			return true
		}
	}
	return false
}

type testStore struct {
	*Store
	clock  *fakeClock
	disk   *memPersister
	events *recordingEvents
}

// newTestStore returns an initialized store on day with sequential IDs.
func newTestStore(t *testing.T, day string) *testStore {
	t.Helper()
	return newTestStoreWith(t, day, &memPersister{})
}

func newTestStoreWith(t *testing.T, day string, disk *memPersister) *testStore {
	t.Helper()
	clock := newClock(t, day)
	events := &recordingEvents{}
	n := 0
	s := NewStore(StoreOptions{
		Persister: disk,
		Events:    events,
		Now:       clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
	})
	s.Initialize()
	return &testStore{Store: s, clock: clock, disk: disk, events: events}
}

func mustDispatch(t *testing.T, s *testStore, in Intent) {
	t.Helper()
	if err := s.Dispatch(in); err != nil {
		t.Fatalf("Dispatch(%T) error = %v", in, err)
	}
}

// addTask adds a plan task and returns its ID.
func addTask(t *testing.T, s *testStore, text string, deps ...string) string {
	t.Helper()
	mustDispatch(t, s, AddTask{Text: text, DependsOn: deps})
	tasks := s.State().Plan.Tasks
	return tasks[len(tasks)-1].ID
}

func findTask(t *testing.T, st models.State, id string) models.Task {
	t.Helper()
	for _, task := range st.Plan.Tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not in plan", id)
	return models.Task{}
}

// --- Store tests ---

func TestStore_InitializeFresh(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	st := s.State()

	if st.Plan.Date != "2024-01-02" {
		t.Errorf("Plan.Date = %q, want 2024-01-02", st.Plan.Date)
	}
	if st.Plan.Tasks == nil || st.Inbox == nil || st.Goals == nil {
		t.Error("collections should be empty, not nil")
	}
	if s.disk.saves != 1 {
		t.Errorf("Initialize should persist once, saves = %d", s.disk.saves)
	}
	if s.PersistErr() != nil {
		t.Errorf("PersistErr() = %v", s.PersistErr())
	}
}

func TestStore_InitializeLoadFailureFallsBackToDefaults(t *testing.T) {
	disk := &memPersister{loadErr: errors.New("disk on fire")}
	s := newTestStoreWith(t, "2024-01-02", disk)

	if err := s.PersistErr(); err == nil || err.Error() != "disk on fire" {
		t.Errorf("PersistErr() = %v, want the load error", err)
	}
	if len(s.State().Plan.Tasks) != 0 {
		t.Error("state should fall back to defaults")
	}
	// The store stays usable.
	addTask(t, s, "Still works")
	if s.PersistErr() != nil {
		t.Errorf("a later successful save should clear PersistErr, got %v", s.PersistErr())
	}
}

func TestStore_SaveFailureKeepsChangesInMemory(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	s.disk.mu.Lock()
	s.disk.saveErr = errors.New("quota exceeded")
	s.disk.mu.Unlock()

	addTask(t, s, "Unsaved")
	if s.PersistErr() == nil {
		t.Fatal("expected PersistErr after a failed save")
	}
	if len(s.State().Plan.Tasks) != 1 {
		t.Error("the change should stay in memory")
	}
}

func TestStore_MissingIDsAreNoOps(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	addTask(t, s, "Real task")
	before := s.State()

	for _, in := range []Intent{
		ToggleTask{ID: "missing"},
		DeleteTask{ID: "missing"},
		ToggleGoal{ID: "missing"},
		ToggleSubGoal{GoalID: "missing", SubGoalID: "x"},
		AddSubTask{ProjectID: "missing", Text: "x"},
		ToggleRoutineTask{ID: "missing"},
		ProcessInbox{ItemID: "missing", Action: InboxToTask},
		DeleteInboxItem{ID: "missing"},
	} {
		if err := s.Dispatch(in); err != nil {
			t.Errorf("Dispatch(%T) error = %v, want nil", in, err)
		}
	}

	after := s.State()
	if len(after.Plan.Tasks) != len(before.Plan.Tasks) || after.Plan.Tasks[0].Completed {
		t.Errorf("state changed: %+v", after.Plan.Tasks)
	}
}

func TestStore_EmptyTextRejected(t *testing.T) {
	s := newTestStore(t, "2024-01-02")

	for _, in := range []Intent{
		AddTask{Text: "   "},
		AddGoal{Text: ""},
		AddProject{Text: "\t"},
		AddRoutineTask{Text: ""},
		CaptureInbox{Text: " "},
		AddWeeklyGoal{Text: ""},
	} {
		if err := s.Dispatch(in); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Dispatch(%T) error = %v, want ErrEmptyText", in, err)
		}
	}
	st := s.State()
	if len(st.Plan.Tasks)+len(st.Goals)+len(st.Projects)+len(st.RoutineTasks)+len(st.Inbox) != 0 {
		t.Errorf("no entity should be created: %+v", st)
	}
}

func TestStore_TextIsTrimmed(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	id := addTask(t, s, "  Write report  ")
	if got := findTask(t, s.State(), id).Text; got != "Write report" {
		t.Errorf("Text = %q, want trimmed", got)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	var got []int
	unsubscribe := s.Subscribe(func(st models.State) {
		got = append(got, len(st.Plan.Tasks))
	})

	addTask(t, s, "One")
	addTask(t, s, "Two")
	unsubscribe()
	addTask(t, s, "Three")

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("notifications = %v, want [1 2]", got)
	}
}

func TestStore_StateIsACopy(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	addTask(t, s, "Original")

	st := s.State()
	st.Plan.Tasks[0].Text = "Mutated"
	if s.State().Plan.Tasks[0].Text != "Original" {
		t.Error("mutating a returned state must not leak into the store")
	}
}

func TestStore_EventsEmitted(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	id := addTask(t, s, "Ship it")
	mustDispatch(t, s, ToggleTask{ID: id})

	for _, want := range []string{"task.added", "task.completed", "achievement.unlocked"} {
		if !s.events.has(want) {
			t.Errorf("expected %s event, got %v", want, s.events.types)
		}
	}
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	addTask(t, s, "Saved")

	reopened := newTestStoreWith(t, "2024-01-02", s.disk)
	if len(reopened.State().Plan.Tasks) != 1 {
		t.Errorf("reopened store should see the task, got %+v", reopened.State().Plan.Tasks)
	}
}

func TestStore_DayStarted(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	if s.DayStarted() {
		t.Fatal("fresh day should not be started")
	}
	mustDispatch(t, s, StartDay{})
	if !s.DayStarted() {
		t.Fatal("day should be started")
	}
	s.clock.NextDay()
	if s.DayStarted() {
		t.Error("a new calendar day is not started until rollover and StartDay")
	}
}
