package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// currentWeek returns this week's plan, creating it if needed.
func currentWeek(st *models.State, e *env) *models.WeeklyPlan {
	if st.WeeklyPlan == nil {
		st.WeeklyPlan = &models.WeeklyPlan{WeekStartDate: WeekStart(e.today), Goals: []models.WeeklyGoal{}}
	}
	return st.WeeklyPlan
}

func findWeeklyGoal(st *models.State, id string) *models.WeeklyGoal {
	if st.WeeklyPlan == nil {
		return nil
	}
	if i := indexOf(st.WeeklyPlan.Goals, id); i >= 0 {
		return &st.WeeklyPlan.Goals[i]
	}
	return nil
}

// AddWeeklyGoal adds a goal to this week's plan.
type AddWeeklyGoal struct {
	Text string
}

func (in AddWeeklyGoal) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	wp := currentWeek(st, e)
	wp.Goals = append(wp.Goals, models.WeeklyGoal{ID: e.newID(), Text: text, SubGoals: []models.WeeklySubGoal{}})
	return nil
}

// ToggleWeeklyGoal flips a weekly goal without sub-goals.
type ToggleWeeklyGoal struct {
	ID string
}

func (in ToggleWeeklyGoal) apply(st *models.State, _ *env) error {
	w := findWeeklyGoal(st, in.ID)
	if w == nil {
		return nil
	}
	if len(w.SubGoals) > 0 {
		return ErrHasChildren
	}
	w.Completed = !w.Completed
	return nil
}

// DeleteWeeklyGoal removes a weekly goal.
type DeleteWeeklyGoal struct {
	ID string
}

func (in DeleteWeeklyGoal) apply(st *models.State, _ *env) error {
	if st.WeeklyPlan == nil {
		return nil
	}
	if i := indexOf(st.WeeklyPlan.Goals, in.ID); i >= 0 {
		st.WeeklyPlan.Goals = removeAt(st.WeeklyPlan.Goals, i)
	}
	return nil
}

// AddWeeklySubGoal appends a sub-goal to a weekly goal.
type AddWeeklySubGoal struct {
	WeeklyGoalID string
	Text         string
	DependsOn    []string
}

func (in AddWeeklySubGoal) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	w := findWeeklyGoal(st, in.WeeklyGoalID)
	if w == nil {
		return nil
	}
	w.SubGoals = append(w.SubGoals, models.WeeklySubGoal{
		ID:        e.newID(),
		Text:      text,
		DependsOn: cleanIDs(in.DependsOn),
	})
	propagateWeeklyGoal(w)
	return nil
}

// ToggleWeeklySubGoal flips a weekly sub-goal and re-derives its parent.
type ToggleWeeklySubGoal struct {
	WeeklyGoalID string
	SubGoalID    string
}

func (in ToggleWeeklySubGoal) apply(st *models.State, _ *env) error {
	w := findWeeklyGoal(st, in.WeeklyGoalID)
	if w == nil {
		return nil
	}
	si := indexOf(w.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	sg := &w.SubGoals[si]
	if !sg.Completed && IsBlocked(*sg, w.SubGoals) {
		return ErrBlocked
	}
	sg.Completed = !sg.Completed
	propagateWeeklyGoal(w)
	return nil
}

// DeleteWeeklySubGoal removes a weekly sub-goal and re-derives its parent.
type DeleteWeeklySubGoal struct {
	WeeklyGoalID string
	SubGoalID    string
}

func (in DeleteWeeklySubGoal) apply(st *models.State, _ *env) error {
	w := findWeeklyGoal(st, in.WeeklyGoalID)
	if w == nil {
		return nil
	}
	if si := indexOf(w.SubGoals, in.SubGoalID); si >= 0 {
		w.SubGoals = removeAt(w.SubGoals, si)
		if len(w.SubGoals) == 0 {
			w.Completed = false
		}
		propagateWeeklyGoal(w)
	}
	return nil
}

// SetWeeklySubGoalDependencies replaces a weekly sub-goal's dependency list.
type SetWeeklySubGoalDependencies struct {
	WeeklyGoalID string
	SubGoalID    string
	DependsOn    []string
}

func (in SetWeeklySubGoalDependencies) apply(st *models.State, _ *env) error {
	w := findWeeklyGoal(st, in.WeeklyGoalID)
	if w == nil {
		return nil
	}
	si := indexOf(w.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	deps := cleanIDs(in.DependsOn)
	if WouldCycle(in.SubGoalID, deps, w.SubGoals) {
		return ErrDependencyCycle
	}
	w.SubGoals[si].DependsOn = deps
	return nil
}

// SendWeeklySubGoalToPlan promotes a weekly sub-goal into today's plan.
type SendWeeklySubGoalToPlan struct {
	WeeklyGoalID string
	SubGoalID    string
}

func (in SendWeeklySubGoalToPlan) apply(st *models.State, e *env) error {
	w := findWeeklyGoal(st, in.WeeklyGoalID)
	if w == nil {
		return nil
	}
	si := indexOf(w.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	sg := &w.SubGoals[si]
	if sg.LinkedTaskID != "" && indexOf(st.Plan.Tasks, sg.LinkedTaskID) >= 0 {
		return nil
	}
	t := newTask(e, sg.Text, models.PriorityNone)
	t.Origin = &models.TaskOrigin{Kind: models.OriginWeeklyGoal, ParentID: w.ID, ChildID: sg.ID}
	st.Plan.Tasks = append(st.Plan.Tasks, t)
	sg.LinkedTaskID = t.ID
	e.emit("task.promoted", map[string]any{"task_id": t.ID, "origin": string(models.OriginWeeklyGoal)})
	return nil
}

// rotateWeek moves an expired weekly plan into LastWeekPlan so the weekly
// review can look back at it.
func rotateWeek(st *models.State, e *env) {
	start := WeekStart(e.today)
	if st.WeeklyPlan == nil || st.WeeklyPlan.WeekStartDate == start {
		return
	}
	prev := st.WeeklyPlan
	st.LastWeekPlan = prev
	st.WeeklyPlan = &models.WeeklyPlan{WeekStartDate: start, Goals: []models.WeeklyGoal{}}
	e.emit("week.rotated", map[string]any{"from": prev.WeekStartDate, "to": start})
}
