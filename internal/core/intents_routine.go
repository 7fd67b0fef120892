package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AddRoutineTask adds a recurring routine item. Days are weekday indices
// (0 = Sunday); an empty list means every day.
type AddRoutineTask struct {
	Text      string
	GoalID    string
	Days      []int
	DependsOn []string
}

func (in AddRoutineTask) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	days, ok := cleanDays(in.Days)
	if !ok {
		return ErrInvalidTaskOptions
	}
	r := models.RoutineTask{
		ID:            e.newID(),
		Text:          text,
		GoalID:        in.GoalID,
		RecurringDays: days,
		DependsOn:     cleanIDs(in.DependsOn),
	}
	st.RoutineTasks = append(st.RoutineTasks, r)
	e.emit("routine.added", map[string]any{"routine_id": r.ID})
	return nil
}

func cleanDays(days []int) ([]int, bool) {
	var out []int
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, false
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, true
}

// ToggleRoutineTask flips a routine item's completion for today.
type ToggleRoutineTask struct {
	ID string
}

func (in ToggleRoutineTask) apply(st *models.State, e *env) error {
	i := indexOf(st.RoutineTasks, in.ID)
	if i < 0 {
		return nil
	}
	r := &st.RoutineTasks[i]
	if !r.Completed && IsBlocked(*r, st.RoutineTasks) {
		return ErrBlocked
	}
	r.Completed = !r.Completed
	if r.Completed {
		e.emit("routine.completed", map[string]any{"routine_id": r.ID})
	}
	return nil
}

// DeleteRoutineTask removes a routine item.
type DeleteRoutineTask struct {
	ID string
}

func (in DeleteRoutineTask) apply(st *models.State, _ *env) error {
	if i := indexOf(st.RoutineTasks, in.ID); i >= 0 {
		st.RoutineTasks = removeAt(st.RoutineTasks, i)
	}
	return nil
}

// ReorderRoutineTasks arranges routine items in the given ID order.
type ReorderRoutineTasks struct {
	IDs []string
}

func (in ReorderRoutineTasks) apply(st *models.State, _ *env) error {
	st.RoutineTasks = reorder(st.RoutineTasks, in.IDs)
	return nil
}

// SetRoutineDependencies replaces a routine item's dependency list.
type SetRoutineDependencies struct {
	ID        string
	DependsOn []string
}

func (in SetRoutineDependencies) apply(st *models.State, _ *env) error {
	i := indexOf(st.RoutineTasks, in.ID)
	if i < 0 {
		return nil
	}
	deps := cleanIDs(in.DependsOn)
	if WouldCycle(in.ID, deps, st.RoutineTasks) {
		return ErrDependencyCycle
	}
	st.RoutineTasks[i].DependsOn = deps
	return nil
}

// RoutineForDay returns the routine items scheduled on the weekday of day.
func RoutineForDay(st models.State, day string) []models.RoutineTask {
	t, ok := parseDay(day)
	if !ok {
		return nil
	}
	var out []models.RoutineTask
	for _, r := range st.RoutineTasks {
		if r.ScheduledOn(t.Weekday()) {
			out = append(out, r)
		}
	}
	return out
}
