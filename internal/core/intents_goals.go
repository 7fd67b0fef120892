package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AddGoal creates a top-level goal.
type AddGoal struct {
	Text            string
	Category        models.GoalCategory
	Deadline        string
	ReviewFrequency models.ReviewFrequency
}

func (in AddGoal) apply(st *models.State, e *env) error {
	g, err := newGoal(e, in.Text, in.Category, in.Deadline, in.ReviewFrequency)
	if err != nil {
		return err
	}
	st.Goals = append(st.Goals, g)
	e.emit("goal.added", map[string]any{"goal_id": g.ID, "category": string(g.Category)})
	return nil
}

func newGoal(e *env, text string, cat models.GoalCategory, deadline string, freq models.ReviewFrequency) (models.Goal, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Goal{}, err
	}
	switch cat {
	case "":
		cat = models.CategoryShortTerm
	case models.CategoryShortTerm, models.CategoryLongTerm:
	default:
		return models.Goal{}, ErrInvalidTaskOptions
	}
	if !validDate(deadline) {
		return models.Goal{}, ErrInvalidDate
	}
	if !validReviewFrequency(freq) {
		return models.Goal{}, ErrInvalidTaskOptions
	}
	if freq == "" {
		freq = models.ReviewNone
	}
	return models.Goal{
		ID:              e.newID(),
		Text:            text,
		Category:        cat,
		Deadline:        deadline,
		ReviewFrequency: freq,
		SubGoals:        []models.SubGoal{},
		CreatedAt:       e.now,
	}, nil
}

// UpdateGoal edits a goal. Nil fields are left unchanged.
type UpdateGoal struct {
	ID              string
	Text            *string
	Category        *models.GoalCategory
	Deadline        *string
	ReviewFrequency *models.ReviewFrequency
}

func (in UpdateGoal) apply(st *models.State, _ *env) error {
	i := indexOf(st.Goals, in.ID)
	if i < 0 {
		return nil
	}
	g := &st.Goals[i]
	if in.Text != nil {
		text, err := cleanText(*in.Text)
		if err != nil {
			return err
		}
		g.Text = text
	}
	if in.Category != nil {
		if *in.Category != models.CategoryShortTerm && *in.Category != models.CategoryLongTerm {
			return ErrInvalidTaskOptions
		}
		g.Category = *in.Category
	}
	if in.Deadline != nil {
		if !validDate(*in.Deadline) {
			return ErrInvalidDate
		}
		g.Deadline = *in.Deadline
	}
	if in.ReviewFrequency != nil {
		if !validReviewFrequency(*in.ReviewFrequency) {
			return ErrInvalidTaskOptions
		}
		g.ReviewFrequency = *in.ReviewFrequency
	}
	return nil
}

// ToggleGoal flips a goal without sub-goals. Goals with sub-goals derive
// their completion and cannot be toggled directly.
type ToggleGoal struct {
	ID string
}

func (in ToggleGoal) apply(st *models.State, e *env) error {
	i := indexOf(st.Goals, in.ID)
	if i < 0 {
		return nil
	}
	g := &st.Goals[i]
	if len(g.SubGoals) > 0 {
		return ErrHasChildren
	}
	g.Completed = !g.Completed
	if g.Completed {
		e.emit("goal.completed", map[string]any{"goal_id": g.ID})
	}
	return nil
}

// ArchiveGoal hides a goal from active lists without deleting it.
type ArchiveGoal struct {
	ID string
}

func (in ArchiveGoal) apply(st *models.State, _ *env) error {
	if i := indexOf(st.Goals, in.ID); i >= 0 {
		st.Goals[i].Archived = true
	}
	return nil
}

// RestoreGoal brings an archived goal back.
type RestoreGoal struct {
	ID string
}

func (in RestoreGoal) apply(st *models.State, _ *env) error {
	if i := indexOf(st.Goals, in.ID); i >= 0 {
		st.Goals[i].Archived = false
	}
	return nil
}

// DeleteGoal permanently removes a goal and its sub-goals. Tasks promoted
// from it keep their now dangling origin.
type DeleteGoal struct {
	ID string
}

func (in DeleteGoal) apply(st *models.State, e *env) error {
	if i := indexOf(st.Goals, in.ID); i >= 0 {
		st.Goals = removeAt(st.Goals, i)
		e.emit("goal.deleted", map[string]any{"goal_id": in.ID})
	}
	return nil
}

// ReorderGoals arranges goals in the given ID order.
type ReorderGoals struct {
	IDs []string
}

func (in ReorderGoals) apply(st *models.State, _ *env) error {
	st.Goals = reorder(st.Goals, in.IDs)
	return nil
}

// MarkGoalReviewed records that a goal was reviewed today.
type MarkGoalReviewed struct {
	ID string
}

func (in MarkGoalReviewed) apply(st *models.State, e *env) error {
	if i := indexOf(st.Goals, in.ID); i >= 0 {
		st.Goals[i].LastReviewed = e.today
	}
	return nil
}

// AddSubGoal appends a sub-goal to a goal.
type AddSubGoal struct {
	GoalID    string
	Text      string
	DependsOn []string
}

func (in AddSubGoal) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	i := indexOf(st.Goals, in.GoalID)
	if i < 0 {
		return nil
	}
	g := &st.Goals[i]
	g.SubGoals = append(g.SubGoals, models.SubGoal{
		ID:        e.newID(),
		Text:      text,
		DependsOn: cleanIDs(in.DependsOn),
	})
	propagateGoal(g)
	return nil
}

// ToggleSubGoal flips a sub-goal and re-derives its goal's completion.
type ToggleSubGoal struct {
	GoalID    string
	SubGoalID string
}

func (in ToggleSubGoal) apply(st *models.State, e *env) error {
	gi := indexOf(st.Goals, in.GoalID)
	if gi < 0 {
		return nil
	}
	g := &st.Goals[gi]
	si := indexOf(g.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	sg := &g.SubGoals[si]
	if !sg.Completed && IsBlocked(*sg, g.SubGoals) {
		return ErrBlocked
	}
	sg.Completed = !sg.Completed
	was := g.Completed
	propagateGoal(g)
	if g.Completed && !was {
		e.emit("goal.completed", map[string]any{"goal_id": g.ID})
	}
	return nil
}

// DeleteSubGoal removes a sub-goal and re-derives its goal's completion.
type DeleteSubGoal struct {
	GoalID    string
	SubGoalID string
}

func (in DeleteSubGoal) apply(st *models.State, _ *env) error {
	gi := indexOf(st.Goals, in.GoalID)
	if gi < 0 {
		return nil
	}
	g := &st.Goals[gi]
	if si := indexOf(g.SubGoals, in.SubGoalID); si >= 0 {
		g.SubGoals = removeAt(g.SubGoals, si)
		if len(g.SubGoals) == 0 {
			g.Completed = false
		}
		propagateGoal(g)
	}
	return nil
}

// SetSubGoalDependencies replaces a sub-goal's dependency list.
type SetSubGoalDependencies struct {
	GoalID    string
	SubGoalID string
	DependsOn []string
}

func (in SetSubGoalDependencies) apply(st *models.State, _ *env) error {
	gi := indexOf(st.Goals, in.GoalID)
	if gi < 0 {
		return nil
	}
	g := &st.Goals[gi]
	si := indexOf(g.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	deps := cleanIDs(in.DependsOn)
	if WouldCycle(in.SubGoalID, deps, g.SubGoals) {
		return ErrDependencyCycle
	}
	g.SubGoals[si].DependsOn = deps
	return nil
}

// SendSubGoalToPlan promotes a sub-goal into today's plan. The new task
// points back at the sub-goal and the sub-goal records the task; after that
// the two are toggled independently.
type SendSubGoalToPlan struct {
	GoalID    string
	SubGoalID string
}

func (in SendSubGoalToPlan) apply(st *models.State, e *env) error {
	gi := indexOf(st.Goals, in.GoalID)
	if gi < 0 {
		return nil
	}
	g := &st.Goals[gi]
	si := indexOf(g.SubGoals, in.SubGoalID)
	if si < 0 {
		return nil
	}
	sg := &g.SubGoals[si]
	if sg.LinkedTaskID != "" && indexOf(st.Plan.Tasks, sg.LinkedTaskID) >= 0 {
		return nil
	}
	t := newTask(e, sg.Text, models.PriorityNone)
	t.Origin = &models.TaskOrigin{Kind: models.OriginGoal, ParentID: g.ID, ChildID: sg.ID}
	st.Plan.Tasks = append(st.Plan.Tasks, t)
	sg.LinkedTaskID = t.ID
	e.emit("task.promoted", map[string]any{"task_id": t.ID, "origin": string(models.OriginGoal)})
	return nil
}
