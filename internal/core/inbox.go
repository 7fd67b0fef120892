package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// InboxAction is what a processed inbox item becomes.
type InboxAction string

const (
	InboxToTask    InboxAction = "to_task"
	InboxToGoal    InboxAction = "to_goal"
	InboxToProject InboxAction = "to_project"
	InboxToSubGoal InboxAction = "to_subgoal"
	InboxToSubTask InboxAction = "to_subtask"
)

// ParentKind selects which collection a to_subgoal target lives in.
type ParentKind string

const (
	ParentGoal       ParentKind = "goal"
	ParentWeeklyGoal ParentKind = "weekly_goal"
)

// CaptureInbox drops raw text into the inbox.
type CaptureInbox struct {
	Text string
}

func (in CaptureInbox) apply(st *models.State, e *env) error {
	text, err := cleanText(in.Text)
	if err != nil {
		return err
	}
	captureInbox(st, e, text)
	return nil
}

func captureInbox(st *models.State, e *env, text string) {
	item := models.InboxItem{ID: e.newID(), Text: text, CreatedAt: e.now}
	st.Inbox = append(st.Inbox, item)
	e.emit("inbox.captured", map[string]any{"item_id": item.ID})
}

// DeleteInboxItem discards an inbox item.
type DeleteInboxItem struct {
	ID string
}

func (in DeleteInboxItem) apply(st *models.State, _ *env) error {
	if i := indexOf(st.Inbox, in.ID); i >= 0 {
		st.Inbox = removeAt(st.Inbox, i)
	}
	return nil
}

// ProcessInbox turns an inbox item into another entity and removes the item.
// Either both happen or neither does.
type ProcessInbox struct {
	ItemID          string
	Action          InboxAction
	Category        models.GoalCategory
	Deadline        string
	ReviewFrequency models.ReviewFrequency
	ParentID        string
	ParentKind      ParentKind
}

func (in ProcessInbox) apply(st *models.State, e *env) error {
	i := indexOf(st.Inbox, in.ItemID)
	if i < 0 {
		return nil
	}
	text := st.Inbox[i].Text
	switch in.Action {
	case InboxToTask:
		st.Plan.Tasks = append(st.Plan.Tasks, newTask(e, text, models.PriorityNone))
	case InboxToGoal:
		g, err := newGoal(e, text, in.Category, in.Deadline, in.ReviewFrequency)
		if err != nil {
			return err
		}
		st.Goals = append(st.Goals, g)
	case InboxToProject:
		p, err := newProject(e, text, in.Deadline, in.ReviewFrequency)
		if err != nil {
			return err
		}
		st.Projects = append(st.Projects, p)
	case InboxToSubGoal:
		if err := processToSubGoal(st, e, text, in.ParentID, in.ParentKind); err != nil {
			return err
		}
	case InboxToSubTask:
		pi := indexOf(st.Projects, in.ParentID)
		if pi < 0 || st.Projects[pi].Archived || st.Projects[pi].Completed {
			return ErrNoParent
		}
		p := &st.Projects[pi]
		p.SubTasks = append(p.SubTasks, models.SubTask{ID: e.newID(), Text: text})
		propagateProject(p)
	default:
		return ErrInvalidAction
	}
	st.Inbox = removeAt(st.Inbox, i)
	e.emit("inbox.processed", map[string]any{"item_id": in.ItemID, "action": string(in.Action)})
	return nil
}

func processToSubGoal(st *models.State, e *env, text, parentID string, kind ParentKind) error {
	switch kind {
	case "", ParentGoal:
		gi := indexOf(st.Goals, parentID)
		if gi < 0 || st.Goals[gi].Archived || st.Goals[gi].Completed {
			return ErrNoParent
		}
		g := &st.Goals[gi]
		g.SubGoals = append(g.SubGoals, models.SubGoal{ID: e.newID(), Text: text})
		propagateGoal(g)
	case ParentWeeklyGoal:
		w := findWeeklyGoal(st, parentID)
		if w == nil || w.Completed {
			return ErrNoParent
		}
		w.SubGoals = append(w.SubGoals, models.WeeklySubGoal{ID: e.newID(), Text: text})
		propagateWeeklyGoal(w)
	default:
		return ErrNoParent
	}
	return nil
}
