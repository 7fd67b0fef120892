package models

import "time"

// Priority represents the urgency of a planned task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// TaskType distinguishes ordinary work from review items generated by goals
// and projects that are due for review.
type TaskType string

const (
	TaskTypeTask   TaskType = "task"
	TaskTypeReview TaskType = "review"
)

// OriginKind names the kind of entity a task was promoted from.
type OriginKind string

const (
	OriginGoal       OriginKind = "goal"
	OriginProject    OriginKind = "project"
	OriginWeeklyGoal OriginKind = "weekly_goal"
)

// TaskOrigin points back at the parent (and optionally the child) that
// spawned a planned task. The referenced entities may have been deleted
// since; callers must tolerate dangling origins.
type TaskOrigin struct {
	Kind     OriginKind `json:"kind"`
	ParentID string     `json:"parentId"`
	ChildID  string     `json:"childId,omitempty"`
}

// Task is a single item in today's plan.
type Task struct {
	ID              string      `json:"id"`
	Text            string      `json:"text"`
	Completed       bool        `json:"completed"`
	Priority        Priority    `json:"priority,omitempty"`
	Tags            []string    `json:"tags,omitempty"`
	DependsOn       []string    `json:"dependsOn,omitempty"`
	IsBonus         bool        `json:"isBonus,omitempty"`
	Origin          *TaskOrigin `json:"origin,omitempty"`
	TaskType        TaskType    `json:"taskType,omitempty"`
	EstimateMinutes int         `json:"estimateMinutes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
}

// RoutineTask is a recurring item whose completion flag resets every day.
// An empty RecurringDays means the routine applies to every weekday.
type RoutineTask struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Completed     bool     `json:"completed"`
	GoalID        string   `json:"goalId,omitempty"`
	RecurringDays []int    `json:"recurringDays,omitempty"`
	DependsOn     []string `json:"dependsOn,omitempty"`
}

// ScheduledOn reports whether the routine applies to the given weekday.
func (r RoutineTask) ScheduledOn(day time.Weekday) bool {
	if len(r.RecurringDays) == 0 {
		return true
	}
	for _, d := range r.RecurringDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Plan is the set of tasks planned for a single local day.
type Plan struct {
	Date      string     `json:"date"`
	Tasks     []Task     `json:"tasks"`
	Started   bool       `json:"started,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// InboxItem is a captured idea waiting to be processed into another entity.
type InboxItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnplannedTask records work that was done without being planned.
type UnplannedTask struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Day             string    `json:"day"`
	DurationSeconds int       `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
