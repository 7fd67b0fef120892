package core

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// diskWithPlan returns a persister holding a plan for day with the given
// tasks. Tasks whose text starts with "done:" are completed.
func diskWithPlan(day string, texts ...string) *memPersister {
	st := models.NewState(day)
	for i, text := range texts {
		t := models.Task{ID: "t" + strconv.Itoa(i+1), Text: text, Priority: models.PriorityNone}
		if rest, ok := strings.CutPrefix(text, "done:"); ok {
			t.Text = rest
			t.Completed = true
		}
		st.Plan.Tasks = append(st.Plan.Tasks, t)
	}
	return &memPersister{doc: &st}
}

func TestInitialize_RollsOverStaleDay(t *testing.T) {
	disk := diskWithPlan("2024-01-01", "Write", "Read", "Call", "done:Plan")
	s := newTestStoreWith(t, "2024-01-02", disk)

	st := s.State()
	if st.Plan.Date != "2024-01-02" {
		t.Errorf("Plan.Date = %q, want 2024-01-02", st.Plan.Date)
	}
	if len(st.Plan.Tasks) != 0 {
		t.Errorf("Plan.Tasks = %+v, want empty", st.Plan.Tasks)
	}
	if len(st.Performance) != 1 || st.Performance[0] != (models.PerformanceRecord{Date: "2024-01-01", Score: 25}) {
		t.Errorf("Performance = %+v, want one record of 25 for 2024-01-01", st.Performance)
	}
	if st.PendingRollover == nil || st.PendingRollover.FromDate != "2024-01-01" || len(st.PendingRollover.Tasks) != 3 {
		t.Fatalf("PendingRollover = %+v, want three unfinished tasks", st.PendingRollover)
	}
	if st.Streak.Current != 1 || st.Streak.LastActivityDate != "2024-01-01" {
		t.Errorf("Streak = %+v", st.Streak)
	}
	if !HasAchievement(st, models.AchievementFirstTask) {
		t.Error("the closed day had a completed task")
	}
	if !s.events.has("day.rolled_over") {
		t.Error("expected day.rolled_over event")
	}
	if disk.doc.Plan.Date != "2024-01-02" {
		t.Error("rolled over state should be persisted")
	}
}

func TestInitialize_SameDayKeepsPlan(t *testing.T) {
	disk := diskWithPlan("2024-01-02", "Write")
	s := newTestStoreWith(t, "2024-01-02", disk)

	st := s.State()
	if len(st.Plan.Tasks) != 1 || st.PendingRollover != nil || len(st.Performance) != 0 {
		t.Errorf("same-day load should not roll over: %+v", st)
	}
}

func TestResolveRollover(t *testing.T) {
	disk := diskWithPlan("2024-01-01", "Write", "Read", "Call")
	s := newTestStoreWith(t, "2024-01-02", disk)

	if err := s.Dispatch(StartDay{}); !errors.Is(err, ErrRolloverPending) {
		t.Fatalf("StartDay error = %v, want ErrRolloverPending", err)
	}

	mustDispatch(t, s, ResolveRollover{Carry: []string{"t1"}, ToInbox: []string{"t2"}})
	st := s.State()
	if st.PendingRollover != nil {
		t.Fatal("rollover should be resolved")
	}
	if len(st.Plan.Tasks) != 1 || st.Plan.Tasks[0].ID != "t1" || st.Plan.Tasks[0].Completed {
		t.Errorf("plan = %+v, want carried t1", st.Plan.Tasks)
	}
	if len(st.Inbox) != 1 || st.Inbox[0].Text != "Read" {
		t.Errorf("inbox = %+v, want Read", st.Inbox)
	}

	mustDispatch(t, s, StartDay{})
	if DayStatus(s.State()) != PhaseStarted || !s.DayStarted() {
		t.Error("day should be started")
	}
	mustDispatch(t, s, ResolveRollover{Carry: []string{"t3"}})
	if len(s.State().Plan.Tasks) != 1 {
		t.Error("resolving with nothing pending is a no-op")
	}
}

func TestRollover_StagedTasksBecomeThePlan(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	mustDispatch(t, s, StageTomorrowTask{Text: "Tomorrow A"})
	mustDispatch(t, s, StageTomorrowTask{Text: "Tomorrow B", Priority: models.PriorityHigh})
	mustDispatch(t, s, UnstageTomorrowTask{ID: s.State().TomorrowTasks[0].ID})
	mustDispatch(t, s, StartDay{})

	s.clock.NextDay()
	mustDispatch(t, s, Refresh{})

	st := s.State()
	if st.Plan.Date != "2024-01-03" || st.Plan.Started {
		t.Errorf("plan = %+v, want a fresh unstarted 2024-01-03", st.Plan)
	}
	if len(st.Plan.Tasks) != 1 || st.Plan.Tasks[0].Text != "Tomorrow B" {
		t.Errorf("plan tasks = %+v", st.Plan.Tasks)
	}
	if len(st.TomorrowTasks) != 0 {
		t.Error("staged tasks should be consumed")
	}
	if st.PendingRollover != nil {
		t.Error("nothing was unfinished")
	}
}

func TestDispatch_RejectedIntentKeepsRollover(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	addTask(t, s, "Unfinished")

	s.clock.NextDay()
	if err := s.Dispatch(AddTask{Text: "  "}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("error = %v, want ErrEmptyText", err)
	}

	st := s.State()
	if st.Plan.Date != "2024-01-03" {
		t.Errorf("Plan.Date = %q, rollover should survive the rejection", st.Plan.Date)
	}
	if st.PendingRollover == nil || len(st.PendingRollover.Tasks) != 1 {
		t.Errorf("PendingRollover = %+v", st.PendingRollover)
	}
	if s.disk.doc.Plan.Date != "2024-01-03" {
		t.Error("the rollover should be persisted")
	}
}

// --- Streak ---

func TestAdvanceStreak(t *testing.T) {
	var s models.Streak
	s = AdvanceStreak(s, "2024-01-01", 100, 0)
	s = AdvanceStreak(s, "2024-01-02", 100, 0)
	if s.Current != 2 || s.Longest != 2 {
		t.Fatalf("after two good days: %+v", s)
	}
	s = AdvanceStreak(s, "2024-01-03", 0, 0)
	if s.Current != 0 || s.Longest != 2 {
		t.Fatalf("after a zero day: %+v", s)
	}
	s = AdvanceStreak(s, "2024-01-05", 60, 50)
	if s.Current != 1 || s.Longest != 2 {
		t.Fatalf("a new run starts at one: %+v", s)
	}
	s = AdvanceStreak(s, "2024-01-06", 50, 50)
	if s.Current != 0 {
		t.Fatalf("a score equal to the threshold does not qualify: %+v", s)
	}
}

func completeDay(t *testing.T, s *testStore, text string) {
	t.Helper()
	id := addTask(t, s, text)
	mustDispatch(t, s, ToggleTask{ID: id})
}

func TestStreak_ThroughRollover(t *testing.T) {
	s := newTestStore(t, "2024-01-01")
	completeDay(t, s, "Day one")
	if got := LiveStreak(s.State(), s.Today(), 0); got != 1 {
		t.Errorf("LiveStreak on a qualifying first day = %d, want 1", got)
	}

	s.clock.NextDay()
	completeDay(t, s, "Day two")
	s.clock.NextDay()
	mustDispatch(t, s, Refresh{})

	st := s.State()
	if st.Streak.Current != 2 || st.Streak.Longest != 2 {
		t.Fatalf("after two perfect days: %+v", st.Streak)
	}
	if !HasAchievement(st, models.AchievementPerfectDay) {
		t.Error("a perfect day should unlock its achievement")
	}

	s.clock.NextDay()
	mustDispatch(t, s, Refresh{})
	st = s.State()
	if st.Streak.Current != 0 || st.Streak.Longest != 2 {
		t.Errorf("after an empty day: %+v", st.Streak)
	}
}

func TestStreak_GapDaysBreakTheRun(t *testing.T) {
	s := newTestStore(t, "2024-01-01")
	completeDay(t, s, "Day one")
	s.clock.NextDay()
	completeDay(t, s, "Day two")

	s.clock.NextDay()
	s.clock.NextDay()
	mustDispatch(t, s, Refresh{})

	st := s.State()
	if st.Streak.Current != 0 || st.Streak.Longest != 2 {
		t.Errorf("Streak = %+v, want broken run with longest 2", st.Streak)
	}
	if got := len(st.Performance); got != 2 {
		t.Errorf("only planned days are scored, got %d records", got)
	}
}

func TestScoreDay(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  int
	}{
		{"empty", nil, 0},
		{"half", []models.Task{{Completed: true}, {}}, 50},
		{"bonus pushes past 100", []models.Task{{Completed: true}, {Completed: true, IsBonus: true}}, 200},
		{"only bonus", []models.Task{{Completed: true, IsBonus: true}}, 100},
		{"one of three", []models.Task{{Completed: true}, {}, {}}, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := models.NewState("2024-01-02")
			st.Plan.Tasks = tt.tasks
			if got := ScoreDay(st); got != tt.want {
				t.Errorf("ScoreDay = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTallyDay_CountsScheduledRoutine(t *testing.T) {
	st := models.NewState("2024-01-02") // Tuesday
	st.Plan.Tasks = []models.Task{{Completed: true}}
	st.RoutineTasks = []models.RoutineTask{
		{ID: "r1", Completed: true},
		{ID: "r2", RecurringDays: []int{2}},
		{ID: "r3", RecurringDays: []int{0}},
	}
	got := TallyDay(st)
	want := DayTally{Eligible: 3, EligibleDone: 2, Completed: 2}
	if got != want {
		t.Errorf("TallyDay = %+v, want %+v", got, want)
	}
	if got.Perfect() {
		t.Error("an unfinished routine item spoils the day")
	}
}

func TestAverageScoreAndPerformanceBetween(t *testing.T) {
	st := models.NewState("2024-01-10")
	st.Performance = []models.PerformanceRecord{
		{Date: "2024-01-01", Score: 100},
		{Date: "2024-01-03", Score: 50},
		{Date: "2024-01-09", Score: 0},
	}
	week := PerformanceBetween(st, "2024-01-01", "2024-01-07")
	if len(week) != 2 {
		t.Fatalf("PerformanceBetween = %+v", week)
	}
	if got := AverageScore(week); got != 75 {
		t.Errorf("AverageScore = %d, want 75", got)
	}
	if AverageScore(nil) != 0 {
		t.Error("empty average should be zero")
	}
}

// --- Shutdown ---

func TestShutdownFlow(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	done := addTask(t, s, "Finished")
	open := addTask(t, s, "Not finished")
	mustDispatch(t, s, ToggleTask{ID: done})

	if err := s.Dispatch(ShutdownReflect{WentWell: "x"}); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("reflect before begin: error = %v, want ErrWrongStep", err)
	}

	mustDispatch(t, s, BeginShutdown{})
	if DayStatus(s.State()) != PhaseShutdownReview {
		t.Fatalf("phase = %s", DayStatus(s.State()))
	}
	if err := s.Dispatch(ShutdownPlanNext{}); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("plan before review: error = %v, want ErrWrongStep", err)
	}

	mustDispatch(t, s, ShutdownReview{MoveToInbox: []string{open, done}})
	st := s.State()
	if len(st.Plan.Tasks) != 1 || st.Plan.Tasks[0].ID != done {
		t.Errorf("plan = %+v, only the unfinished task moves", st.Plan.Tasks)
	}
	if len(st.Inbox) != 1 || st.Inbox[0].Text != "Not finished" {
		t.Errorf("inbox = %+v", st.Inbox)
	}
	if DayStatus(st) != PhaseShutdownReflect {
		t.Fatalf("phase = %s", DayStatus(st))
	}

	mustDispatch(t, s, ShutdownReflect{WentWell: "Deep work", ToImprove: "Fewer meetings"})
	mustDispatch(t, s, ShutdownPlanNext{Tasks: []string{"Write report", "  "}})

	st = s.State()
	if DayStatus(st) != PhaseNotStarted {
		t.Errorf("phase = %s, routine should be closed", DayStatus(st))
	}
	if len(st.TomorrowTasks) != 1 || st.TomorrowTasks[0].Text != "Write report" {
		t.Errorf("TomorrowTasks = %+v", st.TomorrowTasks)
	}
	r := ReflectionFor(st, "2024-01-02")
	if r == nil || r.WentWell != "Deep work" {
		t.Errorf("reflection = %+v", r)
	}
	if !s.events.has("day.shutdown") {
		t.Error("expected day.shutdown event")
	}
}

func TestShutdown_SkipsReflectWhenAlreadyWritten(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	mustDispatch(t, s, AddReflection{Notes: "Written earlier"})

	mustDispatch(t, s, BeginShutdown{})
	mustDispatch(t, s, ShutdownReview{})
	if DayStatus(s.State()) != PhaseShutdownPlanNext {
		t.Errorf("phase = %s, want plan_next", DayStatus(s.State()))
	}
	mustDispatch(t, s, CloseShutdown{})
	if DayStatus(s.State()) != PhaseNotStarted {
		t.Error("close should leave the routine")
	}
}

func TestShutdownReflect_Skip(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	mustDispatch(t, s, BeginShutdown{})
	mustDispatch(t, s, ShutdownReview{})
	mustDispatch(t, s, ShutdownReflect{Skip: true})
	if ReflectionFor(s.State(), "2024-01-02") != nil {
		t.Error("skipping should not write a reflection")
	}
	if DayStatus(s.State()) != PhaseShutdownPlanNext {
		t.Error("skipping should still advance")
	}
}

func TestAddReflection_OnePerDay(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	if err := s.Dispatch(AddReflection{}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty reflection: error = %v, want ErrEmptyText", err)
	}
	mustDispatch(t, s, AddReflection{WentWell: "First"})
	mustDispatch(t, s, AddReflection{WentWell: "Second"})

	st := s.State()
	if len(st.Reflections) != 1 || st.Reflections[0].WentWell != "Second" {
		t.Errorf("Reflections = %+v, want one updated entry", st.Reflections)
	}

	s.clock.NextDay()
	mustDispatch(t, s, AddReflection{Notes: "Next day"})
	if len(s.State().Reflections) != 2 {
		t.Error("a new day gets its own reflection")
	}
}

// --- Weekly review ---

func TestWeeklyReview(t *testing.T) {
	s := newTestStore(t, "2024-01-03")
	mustDispatch(t, s, AddWeeklyGoal{Text: "Ship v1"})
	mustDispatch(t, s, AddWeeklyGoal{Text: "Rest"})
	mustDispatch(t, s, ToggleWeeklyGoal{ID: s.State().WeeklyPlan.Goals[1].ID})

	if err := s.Dispatch(BeginWeeklyReview{}); !errors.Is(err, ErrReviewUnavailable) {
		t.Fatalf("error = %v, want ErrReviewUnavailable", err)
	}

	for i := 0; i < 5; i++ {
		s.clock.NextDay()
	}
	mustDispatch(t, s, Refresh{})

	st := s.State()
	if st.LastWeekPlan == nil || st.LastWeekPlan.WeekStartDate != "2024-01-01" || len(st.LastWeekPlan.Goals) != 2 {
		t.Fatalf("LastWeekPlan = %+v", st.LastWeekPlan)
	}
	if st.WeeklyPlan.WeekStartDate != "2024-01-08" || len(st.WeeklyPlan.Goals) != 0 {
		t.Fatalf("WeeklyPlan = %+v", st.WeeklyPlan)
	}

	mustDispatch(t, s, BeginWeeklyReview{})
	if err := s.Dispatch(PlanNextWeek{Goals: []string{"x"}}); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("plan during goals step: error = %v", err)
	}
	mustDispatch(t, s, AdvanceWeeklyReview{})

	sum := LastWeekSummary(s.State())
	if sum.WeekStart != "2024-01-01" || sum.GoalsTotal != 2 || sum.GoalsCompleted != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.Records) != 1 || sum.Records[0].Date != "2024-01-03" {
		t.Errorf("summary records = %+v", sum.Records)
	}

	mustDispatch(t, s, AdvanceWeeklyReview{})
	if err := s.Dispatch(AdvanceWeeklyReview{}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("advance past the last step: error = %v", err)
	}
	mustDispatch(t, s, PlanNextWeek{Goals: []string{"Launch", " ", "Celebrate"}})

	st = s.State()
	if st.WeeklyReviewStep != "" {
		t.Errorf("review should be closed, step = %q", st.WeeklyReviewStep)
	}
	if len(st.WeeklyPlan.Goals) != 2 || st.WeeklyPlan.Goals[0].Text != "Launch" {
		t.Errorf("next week goals = %+v", st.WeeklyPlan.Goals)
	}
	if !s.events.has("week.rotated") || !s.events.has("week.planned") {
		t.Errorf("events = %v", s.events.types)
	}
}
