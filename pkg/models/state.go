package models

import "time"

// StateVersion is the schema version written into persisted documents.
const StateVersion = 1

// DateLayout is the local day format used for every date string.
const DateLayout = "2006-01-02"

// ShutdownStep is a step of the end-of-day shutdown routine.
type ShutdownStep string

const (
	ShutdownReview   ShutdownStep = "review"
	ShutdownReflect  ShutdownStep = "reflect"
	ShutdownPlanNext ShutdownStep = "plan_next"
)

// WeeklyReviewStep is a step of the weekly review.
type WeeklyReviewStep string

const (
	WeeklyReviewGoals       WeeklyReviewStep = "review_goals"
	WeeklyReviewPerformance WeeklyReviewStep = "review_performance"
	WeeklyReviewPlanNext    WeeklyReviewStep = "plan_next_week"
)

// Theme is the display theme toggled from the command palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// PendingRollover holds yesterday's unfinished tasks until the user decides
// which to carry over and which to move to the inbox.
type PendingRollover struct {
	FromDate string `json:"fromDate"`
	Tasks    []Task `json:"tasks"`
}

// State is the whole persisted planner document.
type State struct {
	Version          int                 `json:"version"`
	Plan             Plan                `json:"plan"`
	TomorrowTasks    []Task              `json:"tomorrowTasks"`
	RoutineTasks     []RoutineTask       `json:"routineTasks"`
	Goals            []Goal              `json:"goals"`
	Projects         []Project           `json:"projects"`
	WeeklyPlan       *WeeklyPlan         `json:"weeklyPlan"`
	LastWeekPlan     *WeeklyPlan         `json:"lastWeekPlan"`
	Inbox            []InboxItem         `json:"inbox"`
	UnplannedTasks   []UnplannedTask     `json:"unplannedTasks"`
	Logs             []LogEntry          `json:"logs"`
	IdleLog          []IdleTimeEntry     `json:"idleLog"`
	Reflections      []Reflection        `json:"reflections"`
	Performance      []PerformanceRecord `json:"performance"`
	Streak           Streak              `json:"streak"`
	Achievements     []Achievement       `json:"achievements"`
	ShutdownStep     ShutdownStep        `json:"shutdownStep,omitempty"`
	WeeklyReviewStep WeeklyReviewStep    `json:"weeklyReviewStep,omitempty"`
	PendingRollover  *PendingRollover    `json:"pendingRollover"`
	Theme            Theme               `json:"theme,omitempty"`
}

// NewState returns an empty state whose plan belongs to the given day.
func NewState(today string) State {
	s := State{Version: StateVersion, Plan: Plan{Date: today}, Theme: ThemeDark}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones so that documents
// missing fields load as safe defaults.
func (s *State) Normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	if s.Plan.Tasks == nil {
		s.Plan.Tasks = []Task{}
	}
	if s.TomorrowTasks == nil {
		s.TomorrowTasks = []Task{}
	}
	if s.RoutineTasks == nil {
		s.RoutineTasks = []RoutineTask{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	for i := range s.Goals {
		if s.Goals[i].SubGoals == nil {
			s.Goals[i].SubGoals = []SubGoal{}
		}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	for i := range s.Projects {
		if s.Projects[i].SubTasks == nil {
			s.Projects[i].SubTasks = []SubTask{}
		}
	}
	for _, wp := range []*WeeklyPlan{s.WeeklyPlan, s.LastWeekPlan} {
		if wp == nil {
			continue
		}
		if wp.Goals == nil {
			wp.Goals = []WeeklyGoal{}
		}
		for i := range wp.Goals {
			if wp.Goals[i].SubGoals == nil {
				wp.Goals[i].SubGoals = []WeeklySubGoal{}
			}
		}
	}
	if s.Inbox == nil {
		s.Inbox = []InboxItem{}
	}
	if s.UnplannedTasks == nil {
		s.UnplannedTasks = []UnplannedTask{}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	if s.IdleLog == nil {
		s.IdleLog = []IdleTimeEntry{}
	}
	if s.Reflections == nil {
		s.Reflections = []Reflection{}
	}
	if s.Performance == nil {
		s.Performance = []PerformanceRecord{}
	}
	if s.Achievements == nil {
		s.Achievements = []Achievement{}
	}
	if s.Theme == "" {
		s.Theme = ThemeDark
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Plan = s.Plan.clone()
	c.TomorrowTasks = cloneTasks(s.TomorrowTasks)
	c.RoutineTasks = make([]RoutineTask, len(s.RoutineTasks))
	for i, r := range s.RoutineTasks {
		r.RecurringDays = cloneSlice(r.RecurringDays)
		r.DependsOn = cloneSlice(r.DependsOn)
		c.RoutineTasks[i] = r
	}
	c.Goals = make([]Goal, len(s.Goals))
	for i, g := range s.Goals {
		g.SubGoals = make([]SubGoal, len(s.Goals[i].SubGoals))
		for j, sg := range s.Goals[i].SubGoals {
			sg.DependsOn = cloneSlice(sg.DependsOn)
			g.SubGoals[j] = sg
		}
		c.Goals[i] = g
	}
	c.Projects = make([]Project, len(s.Projects))
	for i, p := range s.Projects {
		p.SubTasks = make([]SubTask, len(s.Projects[i].SubTasks))
		for j, st := range s.Projects[i].SubTasks {
			st.DependsOn = cloneSlice(st.DependsOn)
			p.SubTasks[j] = st
		}
		c.Projects[i] = p
	}
	c.WeeklyPlan = s.WeeklyPlan.clone()
	c.LastWeekPlan = s.LastWeekPlan.clone()
	c.Inbox = cloneSlice(s.Inbox)
	c.UnplannedTasks = cloneSlice(s.UnplannedTasks)
	c.Logs = cloneSlice(s.Logs)
	c.IdleLog = cloneSlice(s.IdleLog)
	c.Reflections = cloneSlice(s.Reflections)
	c.Performance = cloneSlice(s.Performance)
	c.Achievements = cloneSlice(s.Achievements)
	if s.PendingRollover != nil {
		pr := *s.PendingRollover
		pr.Tasks = cloneTasks(s.PendingRollover.Tasks)
		c.PendingRollover = &pr
	}
	return c
}

func (p Plan) clone() Plan {
	c := p
	c.Tasks = cloneTasks(p.Tasks)
	if p.StartedAt != nil {
		t := *p.StartedAt
		c.StartedAt = &t
	}
	return c
}

func (wp *WeeklyPlan) clone() *WeeklyPlan {
	if wp == nil {
		return nil
	}
	c := &WeeklyPlan{WeekStartDate: wp.WeekStartDate, Goals: make([]WeeklyGoal, len(wp.Goals))}
	for i, g := range wp.Goals {
		g.SubGoals = make([]WeeklySubGoal, len(wp.Goals[i].SubGoals))
		for j, sg := range wp.Goals[i].SubGoals {
			sg.DependsOn = cloneSlice(sg.DependsOn)
			g.SubGoals[j] = sg
		}
		c.Goals[i] = g
	}
	return c
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Tags = cloneSlice(t.Tags)
		t.DependsOn = cloneSlice(t.DependsOn)
		if t.Origin != nil {
			o := *t.Origin
			t.Origin = &o
		}
		if t.CompletedAt != nil {
			ts := *t.CompletedAt
			t.CompletedAt = &ts
		}
		out[i] = t
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// FormatDay formats t as a local day string.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
