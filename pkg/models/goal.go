package models

import "time"

// GoalCategory groups goals by horizon.
type GoalCategory string

const (
	CategoryShortTerm GoalCategory = "Short Term"
	CategoryLongTerm  GoalCategory = "Long Term"
)

// ReviewFrequency controls how often a goal or project should be reviewed.
type ReviewFrequency string

const (
	ReviewNone    ReviewFrequency = "none"
	ReviewDaily   ReviewFrequency = "daily"
	ReviewWeekly  ReviewFrequency = "weekly"
	ReviewMonthly ReviewFrequency = "monthly"
)

// SubGoal is an ordered step of a Goal.
type SubGoal struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Completed    bool     `json:"completed"`
	DependsOn    []string `json:"dependsOn,omitempty"`
	LinkedTaskID string   `json:"linkedTaskId,omitempty"`
}

// Goal is a top-level objective. Once it has sub-goals its completion is
// derived from them.
type Goal struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Category        GoalCategory    `json:"category"`
	Deadline        string          `json:"deadline,omitempty"`
	Archived        bool            `json:"archived,omitempty"`
	ReviewFrequency ReviewFrequency `json:"reviewFrequency,omitempty"`
	LastReviewed    string          `json:"lastReviewed,omitempty"`
	Completed       bool            `json:"completed"`
	SubGoals        []SubGoal       `json:"subGoals"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SubTask is an ordered step of a Project.
type SubTask struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Completed    bool     `json:"completed"`
	DependsOn    []string `json:"dependsOn,omitempty"`
	LinkedTaskID string   `json:"linkedTaskId,omitempty"`
}

// Project is a multi-step piece of work.
type Project struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Deadline        string          `json:"deadline,omitempty"`
	Archived        bool            `json:"archived,omitempty"`
	ReviewFrequency ReviewFrequency `json:"reviewFrequency,omitempty"`
	LastReviewed    string          `json:"lastReviewed,omitempty"`
	Completed       bool            `json:"completed"`
	SubTasks        []SubTask       `json:"subTasks"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// WeeklySubGoal is a step of a WeeklyGoal.
type WeeklySubGoal struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Completed    bool     `json:"completed"`
	DependsOn    []string `json:"dependsOn,omitempty"`
	LinkedTaskID string   `json:"linkedTaskId,omitempty"`
}

// WeeklyGoal is a goal scoped to one calendar week.
type WeeklyGoal struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	SubGoals  []WeeklySubGoal `json:"subGoals"`
}

// WeeklyPlan holds the goals for the week starting on WeekStartDate (a Monday).
type WeeklyPlan struct {
	WeekStartDate string       `json:"weekStartDate"`
	Goals         []WeeklyGoal `json:"goals"`
}
