package models

import "time"

// LogEntry records time spent on a task or routine item. Log entries are
// append-only.
type LogEntry struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"taskId,omitempty"`
	TaskName        string    `json:"taskName"`
	DurationSeconds int       `json:"durationSeconds"`
	Timestamp       time.Time `json:"timestamp"`
	Day             string    `json:"day"`
}

// PerformanceRecord is the score of one day. There is at most one record per
// date.
type PerformanceRecord struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// Streak is the run of consecutive qualifying days.
type Streak struct {
	Current          int    `json:"current"`
	Longest          int    `json:"longest"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
}

// IdleTag classifies logged idle time.
type IdleTag string

const (
	IdleProductive   IdleTag = "Productive"
	IdleUnproductive IdleTag = "Unproductive"
)

// IdleTimeEntry is produced when the user returns from an idle period.
type IdleTimeEntry struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	Tag             IdleTag   `json:"tag"`
	DurationSeconds int       `json:"duration"`
	Timestamp       time.Time `json:"timestamp"`
}

// Reflection is an end-of-day journal entry.
type Reflection struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	WentWell  string `json:"wentWell,omitempty"`
	ToImprove string `json:"toImprove,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AchievementID names an unlockable achievement.
type AchievementID string

const (
	AchievementFirstTask    AchievementID = "first_task"
	AchievementPerfectDay   AchievementID = "perfect_day"
	AchievementOverachiever AchievementID = "overachiever"
	AchievementStreak3      AchievementID = "streak_3"
	AchievementStreak7      AchievementID = "streak_7"
	AchievementGoalComplete AchievementID = "goal_complete"
	AchievementInboxZero    AchievementID = "inbox_zero"
)

// Achievement is an unlocked achievement.
type Achievement struct {
	ID         AchievementID `json:"id"`
	UnlockedAt time.Time     `json:"unlockedAt"`
}
