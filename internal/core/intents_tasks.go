package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AddTask adds a task to today's plan. Once the day has started, non-bonus
// tasks are captured into the inbox instead so the plan stays fixed during
// execution.
type AddTask struct {
	Text            string
	Priority        models.Priority
	Tags            []string
	DependsOn       []string
	Bonus           bool
	TaskType        models.TaskType
	EstimateMinutes int
}

func (in AddTask) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	if !validPriority(in.Priority) || in.EstimateMinutes < 0 {
		return ErrInvalidTaskOptions
	}
	if st.Plan.Started && !in.Bonus {
		captureInbox(st, e, text)
		return nil
	}
	t := newTask(e, text, in.Priority)
	t.Tags = cleanTags(in.Tags)
	t.DependsOn = cleanIDs(in.DependsOn)
	t.IsBonus = in.Bonus
	t.EstimateMinutes = in.EstimateMinutes
	if in.TaskType != "" {
		t.TaskType = in.TaskType
	}
	st.Plan.Tasks = append(st.Plan.Tasks, t)
	e.emit("task.added", map[string]any{"task_id": t.ID, "bonus": t.IsBonus})
	return nil
}

func newTask(e *env, text string, p models.Priority) models.Task {
	if p == "" {
		p = models.PriorityNone
	}
	return models.Task{
		ID:        e.newID(),
		Text:      text,
		Priority:  p,
		TaskType:  models.TaskTypeTask,
		CreatedAt: e.now,
	}
}

// ToggleTask flips a planned task's completion. Completing a blocked task is
// rejected; reopening is always allowed.
type ToggleTask struct {
	ID string
}

func (in ToggleTask) apply(st *models.State, e *env) error {
	i := indexOf(st.Plan.Tasks, in.ID)
	if i < 0 {
		return nil
	}
	t := &st.Plan.Tasks[i]
	if !t.Completed && IsBlocked(*t, st.Plan.Tasks) {
		return ErrBlocked
	}
	t.Completed = !t.Completed
	if t.Completed {
		now := e.now
		t.CompletedAt = &now
		e.emit("task.completed", map[string]any{"task_id": t.ID, "bonus": t.IsBonus})
	} else {
		t.CompletedAt = nil
		e.emit("task.reopened", map[string]any{"task_id": t.ID})
	}
	return nil
}

// DeleteTask removes a task from today's plan. The sub-goal or sub-task it
// was promoted from is unlinked so it can be planned again.
type DeleteTask struct {
	ID string
}

func (in DeleteTask) apply(st *models.State, e *env) error {
	i := indexOf(st.Plan.Tasks, in.ID)
	if i < 0 {
		return nil
	}
	unlinkPromotedTask(st, st.Plan.Tasks[i])
	st.Plan.Tasks = removeAt(st.Plan.Tasks, i)
	e.emit("task.deleted", map[string]any{"task_id": in.ID})
	return nil
}

func unlinkPromotedTask(st *models.State, t models.Task) {
	if t.Origin == nil || t.Origin.ChildID == "" {
		return
	}
	o := t.Origin
	switch o.Kind {
	case models.OriginGoal:
		if gi := indexOf(st.Goals, o.ParentID); gi >= 0 {
			if si := indexOf(st.Goals[gi].SubGoals, o.ChildID); si >= 0 && st.Goals[gi].SubGoals[si].LinkedTaskID == t.ID {
				st.Goals[gi].SubGoals[si].LinkedTaskID = ""
			}
		}
	case models.OriginProject:
		if pi := indexOf(st.Projects, o.ParentID); pi >= 0 {
			if si := indexOf(st.Projects[pi].SubTasks, o.ChildID); si >= 0 && st.Projects[pi].SubTasks[si].LinkedTaskID == t.ID {
				st.Projects[pi].SubTasks[si].LinkedTaskID = ""
			}
		}
	case models.OriginWeeklyGoal:
		if st.WeeklyPlan == nil {
			return
		}
		if wi := indexOf(st.WeeklyPlan.Goals, o.ParentID); wi >= 0 {
			w := &st.WeeklyPlan.Goals[wi]
			if si := indexOf(w.SubGoals, o.ChildID); si >= 0 && w.SubGoals[si].LinkedTaskID == t.ID {
				w.SubGoals[si].LinkedTaskID = ""
			}
		}
	}
}

// UpdateTask edits a planned task. Nil fields are left unchanged.
type UpdateTask struct {
	ID              string
	Text            *string
	Priority        *models.Priority
	Tags            []string
	EstimateMinutes *int
}

func (in UpdateTask) apply(st *models.State, e *env) error {
	i := indexOf(st.Plan.Tasks, in.ID)
	if i < 0 {
		return nil
	}
	t := &st.Plan.Tasks[i]
	if in.Text != nil {
		text, err := cleanText(*in.Text)
		if err != nil {
			return err
		}
		t.Text = text
	}
	if in.Priority != nil {
		if !validPriority(*in.Priority) {
			return ErrInvalidTaskOptions
		}
		t.Priority = *in.Priority
	}
	if in.Tags != nil {
		t.Tags = cleanTags(in.Tags)
	}
	if in.EstimateMinutes != nil {
		if *in.EstimateMinutes < 0 {
			return ErrInvalidTaskOptions
		}
		t.EstimateMinutes = *in.EstimateMinutes
	}
	return nil
}

// ReorderTasks arranges today's plan in the given ID order.
type ReorderTasks struct {
	IDs []string
}

func (in ReorderTasks) apply(st *models.State, _ *env) error {
	st.Plan.Tasks = reorder(st.Plan.Tasks, in.IDs)
	return nil
}

// MoveTask moves one task to a zero-based position in today's plan.
type MoveTask struct {
	ID       string
	Position int
}

func (in MoveTask) apply(st *models.State, _ *env) error {
	st.Plan.Tasks = moveTo(st.Plan.Tasks, in.ID, in.Position)
	return nil
}

// SetTaskDependencies replaces the dependency list of a planned task.
// Dependencies that would close a cycle are rejected.
type SetTaskDependencies struct {
	ID        string
	DependsOn []string
}

func (in SetTaskDependencies) apply(st *models.State, _ *env) error {
	i := indexOf(st.Plan.Tasks, in.ID)
	if i < 0 {
		return nil
	}
	deps := cleanIDs(in.DependsOn)
	if WouldCycle(in.ID, deps, st.Plan.Tasks) {
		return ErrDependencyCycle
	}
	st.Plan.Tasks[i].DependsOn = deps
	return nil
}

// StageTomorrowTask stages a task for tomorrow's plan. Staged tasks become
// the initial plan at the next rollover.
type StageTomorrowTask struct {
	Text     string
	Priority models.Priority
	Tags     []string
}

func (in StageTomorrowTask) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	if !validPriority(in.Priority) {
		return ErrInvalidTaskOptions
	}
	t := newTask(e, text, in.Priority)
	t.Tags = cleanTags(in.Tags)
	st.TomorrowTasks = append(st.TomorrowTasks, t)
	return nil
}

// UnstageTomorrowTask removes a staged task.
type UnstageTomorrowTask struct {
	ID string
}

func (in UnstageTomorrowTask) apply(st *models.State, _ *env) error {
	if i := indexOf(st.TomorrowTasks, in.ID); i >= 0 {
		st.TomorrowTasks = removeAt(st.TomorrowTasks, i)
	}
	return nil
}

// LogTime appends a time log entry for a task or routine item.
type LogTime struct {
	TaskID          string
	TaskName        string
	DurationSeconds int
}

func (in LogTime) apply(st *models.State, e *env) error {
	name, err := cleanText(in.TaskName)
	if err != nil {
		return err
	}
	if in.DurationSeconds <= 0 {
		return ErrInvalidTaskOptions
	}
	st.Logs = append(st.Logs, models.LogEntry{
		ID:              e.newID(),
		TaskID:          in.TaskID,
		TaskName:        name,
		DurationSeconds: in.DurationSeconds,
		Timestamp:       e.now,
		Day:             e.today,
	})
	e.emit("time.logged", map[string]any{"task_id": in.TaskID, "seconds": in.DurationSeconds})
	return nil
}

// AddUnplannedTask records work done outside the plan.
type AddUnplannedTask struct {
	Text            string
	DurationSeconds int
}

func (in AddUnplannedTask) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	if in.DurationSeconds < 0 {
		return ErrInvalidTaskOptions
	}
	st.UnplannedTasks = append(st.UnplannedTasks, models.UnplannedTask{
		ID:              e.newID(),
		Text:            text,
		Day:             e.today,
		DurationSeconds: in.DurationSeconds,
		CreatedAt:       e.now,
	})
	e.emit("unplanned.added", map[string]any{"seconds": in.DurationSeconds})
	return nil
}
