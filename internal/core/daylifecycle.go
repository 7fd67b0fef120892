package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// DayPhase is the coarse lifecycle state of the current day.
type DayPhase string

const (
	PhaseNotStarted       DayPhase = "NOT_STARTED"
	PhaseStarted          DayPhase = "STARTED"
	PhaseShutdownReview   DayPhase = "SHUTDOWN.review"
	PhaseShutdownReflect  DayPhase = "SHUTDOWN.reflect"
	PhaseShutdownPlanNext DayPhase = "SHUTDOWN.plan_next"
)

// DayStatus derives the day phase from the state.
func DayStatus(st models.State) DayPhase {
	switch st.ShutdownStep {
	case models.ShutdownReview:
		return PhaseShutdownReview
	case models.ShutdownReflect:
		return PhaseShutdownReflect
	case models.ShutdownPlanNext:
		return PhaseShutdownPlanNext
	}
	if st.Plan.Started {
		return PhaseStarted
	}
	return PhaseNotStarted
}

// rollover closes the plan day st.Plan.Date and opens e.today. The old day
// is scored and folded into the streak, achievements are checked against the
// old plan, and unfinished tasks wait in PendingRollover for the user to
// carry them or send them to the inbox.
func rollover(st *models.State, e *env) {
	from := st.Plan.Date
	score := ScoreDay(*st)
	upsertPerformance(st, from, score)
	st.Streak = AdvanceStreak(st.Streak, from, score, e.streakThreshold)
	if daysBetween(from, e.today) > 1 {
		// The days in between had no plan and cannot qualify.
		st.Streak.Current = 0
	}
	checkDayAchievements(st, e)
	checkStreakAchievements(st, e)

	var unfinished []models.Task
	for _, t := range st.Plan.Tasks {
		if !t.Completed {
			unfinished = append(unfinished, t)
		}
	}
	if len(unfinished) > 0 {
		if st.PendingRollover == nil {
			st.PendingRollover = &models.PendingRollover{FromDate: from}
		}
		st.PendingRollover.Tasks = append(st.PendingRollover.Tasks, unfinished...)
	}

	tasks := st.TomorrowTasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	st.Plan = models.Plan{Date: e.today, Tasks: tasks}
	st.TomorrowTasks = []models.Task{}
	for i := range st.RoutineTasks {
		st.RoutineTasks[i].Completed = false
	}
	st.ShutdownStep = ""

	e.emit("day.rolled_over", map[string]any{
		"from":       from,
		"to":         e.today,
		"score":      score,
		"unfinished": len(unfinished),
		"streak":     st.Streak.Current,
	})
}

// Refresh applies any pending day or week rollover and nothing else.
type Refresh struct{}

func (Refresh) apply(*models.State, *env) error { return nil }

// StartDay locks today's plan. Afterwards new non-bonus tasks go to the
// inbox. Starting is refused while yesterday's unfinished tasks are
// unresolved.
type StartDay struct{}

func (StartDay) apply(st *models.State, e *env) error {
	if st.PendingRollover != nil {
		return ErrRolloverPending
	}
	if st.Plan.Started {
		return nil
	}
	now := e.now
	st.Plan.Started = true
	st.Plan.StartedAt = &now
	e.emit("day.started", map[string]any{"date": st.Plan.Date, "tasks": len(st.Plan.Tasks)})
	return nil
}

// ResolveRollover settles the pending rollover. Tasks listed in Carry join
// today's plan, tasks listed in ToInbox become inbox items and the rest are
// dropped. A task named in both is carried.
type ResolveRollover struct {
	Carry   []string
	ToInbox []string
}

func (in ResolveRollover) apply(st *models.State, e *env) error {
	pr := st.PendingRollover
	if pr == nil {
		return nil
	}
	carry := toSet(in.Carry)
	inbox := toSet(in.ToInbox)
	carried, moved := 0, 0
	for _, t := range pr.Tasks {
		switch {
		case carry[t.ID]:
			if indexOf(st.Plan.Tasks, t.ID) >= 0 {
				continue
			}
			t.Completed = false
			t.CompletedAt = nil
			st.Plan.Tasks = append(st.Plan.Tasks, t)
			carried++
		case inbox[t.ID]:
			captureInbox(st, e, t.Text)
			moved++
		}
	}
	st.PendingRollover = nil
	e.emit("rollover.resolved", map[string]any{
		"carried":  carried,
		"to_inbox": moved,
		"dropped":  len(pr.Tasks) - carried - moved,
	})
	return nil
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
