package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AddProject creates a project.
type AddProject struct {
	Text            string
	Deadline        string
	ReviewFrequency models.ReviewFrequency
}

func (in AddProject) apply(st *models.State, e *env) error {
	p, err := newProject(e, in.Text, in.Deadline, in.ReviewFrequency)
	if err != nil {
		return err
	}
	st.Projects = append(st.Projects, p)
	e.emit("project.added", map[string]any{"project_id": p.ID})
	return nil
}

func newProject(e *env, text, deadline string, freq models.ReviewFrequency) (models.Project, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Project{}, err
	}
	if !validDate(deadline) {
		return models.Project{}, ErrInvalidDate
	}
	if !validReviewFrequency(freq) {
		return models.Project{}, ErrInvalidTaskOptions
	}
	if freq == "" {
		freq = models.ReviewNone
	}
	return models.Project{
		ID:              e.newID(),
		Text:            text,
		Deadline:        deadline,
		ReviewFrequency: freq,
		SubTasks:        []models.SubTask{},
		CreatedAt:       e.now,
	}, nil
}

// UpdateProject edits a project. Nil fields are left unchanged.
type UpdateProject struct {
	ID              string
	Text            *string
	Deadline        *string
	ReviewFrequency *models.ReviewFrequency
}

func (in UpdateProject) apply(st *models.State, _ *env) error {
	i := indexOf(st.Projects, in.ID)
	if i < 0 {
		return nil
	}
	p := &st.Projects[i]
	if in.Text != nil {
		text, err := cleanText(*in.Text)
		if err != nil {
			return err
		}
		p.Text = text
	}
	if in.Deadline != nil {
		if !validDate(*in.Deadline) {
			return ErrInvalidDate
		}
		p.Deadline = *in.Deadline
	}
	if in.ReviewFrequency != nil {
		if !validReviewFrequency(*in.ReviewFrequency) {
			return ErrInvalidTaskOptions
		}
		p.ReviewFrequency = *in.ReviewFrequency
	}
	return nil
}

// ToggleProject flips a project without sub-tasks.
type ToggleProject struct {
	ID string
}

func (in ToggleProject) apply(st *models.State, e *env) error {
	i := indexOf(st.Projects, in.ID)
	if i < 0 {
		return nil
	}
	p := &st.Projects[i]
	if len(p.SubTasks) > 0 {
		return ErrHasChildren
	}
	p.Completed = !p.Completed
	if p.Completed {
		e.emit("project.completed", map[string]any{"project_id": p.ID})
	}
	return nil
}

// ArchiveProject hides a project from active lists.
type ArchiveProject struct {
	ID string
}

func (in ArchiveProject) apply(st *models.State, _ *env) error {
	if i := indexOf(st.Projects, in.ID); i >= 0 {
		st.Projects[i].Archived = true
	}
	return nil
}

// RestoreProject brings an archived project back.
type RestoreProject struct {
	ID string
}

func (in RestoreProject) apply(st *models.State, _ *env) error {
	if i := indexOf(st.Projects, in.ID); i >= 0 {
		st.Projects[i].Archived = false
	}
	return nil
}

// DeleteProject permanently removes a project and its sub-tasks.
type DeleteProject struct {
	ID string
}

func (in DeleteProject) apply(st *models.State, e *env) error {
	if i := indexOf(st.Projects, in.ID); i >= 0 {
		st.Projects = removeAt(st.Projects, i)
		e.emit("project.deleted", map[string]any{"project_id": in.ID})
	}
	return nil
}

// ReorderProjects arranges projects in the given ID order.
type ReorderProjects struct {
	IDs []string
}

func (in ReorderProjects) apply(st *models.State, _ *env) error {
	st.Projects = reorder(st.Projects, in.IDs)
	return nil
}

// MarkProjectReviewed records that a project was reviewed today.
type MarkProjectReviewed struct {
	ID string
}

func (in MarkProjectReviewed) apply(st *models.State, e *env) error {
	if i := indexOf(st.Projects, in.ID); i >= 0 {
		st.Projects[i].LastReviewed = e.today
	}
	return nil
}

// AddSubTask appends a sub-task to a project.
type AddSubTask struct {
	ProjectID string
	Text      string
	DependsOn []string
}

func (in AddSubTask) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	i := indexOf(st.Projects, in.ProjectID)
	if i < 0 {
		return nil
	}
	p := &st.Projects[i]
	p.SubTasks = append(p.SubTasks, models.SubTask{
		ID:        e.newID(),
		Text:      text,
		DependsOn: cleanIDs(in.DependsOn),
	})
	propagateProject(p)
	return nil
}

// ToggleSubTask flips a sub-task and re-derives its project's completion.
type ToggleSubTask struct {
	ProjectID string
	SubTaskID string
}

func (in ToggleSubTask) apply(st *models.State, e *env) error {
	pi := indexOf(st.Projects, in.ProjectID)
	if pi < 0 {
		return nil
	}
	p := &st.Projects[pi]
	si := indexOf(p.SubTasks, in.SubTaskID)
	if si < 0 {
		return nil
	}
	sub := &p.SubTasks[si]
	if !sub.Completed && IsBlocked(*sub, p.SubTasks) {
		return ErrBlocked
	}
	sub.Completed = !sub.Completed
	was := p.Completed
	propagateProject(p)
	if p.Completed && !was {
		e.emit("project.completed", map[string]any{"project_id": p.ID})
	}
	return nil
}

// DeleteSubTask removes a sub-task and re-derives its project's completion.
type DeleteSubTask struct {
	ProjectID string
	SubTaskID string
}

func (in DeleteSubTask) apply(st *models.State, _ *env) error {
	pi := indexOf(st.Projects, in.ProjectID)
	if pi < 0 {
		return nil
	}
	p := &st.Projects[pi]
	if si := indexOf(p.SubTasks, in.SubTaskID); si >= 0 {
		p.SubTasks = removeAt(p.SubTasks, si)
		if len(p.SubTasks) == 0 {
			p.Completed = false
		}
		propagateProject(p)
	}
	return nil
}

// SetSubTaskDependencies replaces a sub-task's dependency list.
type SetSubTaskDependencies struct {
	ProjectID string
	SubTaskID string
	DependsOn []string
}

func (in SetSubTaskDependencies) apply(st *models.State, _ *env) error {
	pi := indexOf(st.Projects, in.ProjectID)
	if pi < 0 {
		return nil
	}
	p := &st.Projects[pi]
	si := indexOf(p.SubTasks, in.SubTaskID)
	if si < 0 {
		return nil
	}
	deps := cleanIDs(in.DependsOn)
	if WouldCycle(in.SubTaskID, deps, p.SubTasks) {
		return ErrDependencyCycle
	}
	p.SubTasks[si].DependsOn = deps
	return nil
}

// SendSubTaskToPlan promotes a sub-task into today's plan.
type SendSubTaskToPlan struct {
	ProjectID string
	SubTaskID string
}

func (in SendSubTaskToPlan) apply(st *models.State, e *env) error {
	pi := indexOf(st.Projects, in.ProjectID)
	if pi < 0 {
		return nil
	}
	p := &st.Projects[pi]
	si := indexOf(p.SubTasks, in.SubTaskID)
	if si < 0 {
		return nil
	}
	sub := &p.SubTasks[si]
	if sub.LinkedTaskID != "" && indexOf(st.Plan.Tasks, sub.LinkedTaskID) >= 0 {
		return nil
	}
	t := newTask(e, sub.Text, models.PriorityNone)
	t.Origin = &models.TaskOrigin{Kind: models.OriginProject, ParentID: p.ID, ChildID: sub.ID}
	st.Plan.Tasks = append(st.Plan.Tasks, t)
	sub.LinkedTaskID = t.ID
	e.emit("task.promoted", map[string]any{"task_id": t.ID, "origin": string(models.OriginProject)})
	return nil
}
