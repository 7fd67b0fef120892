package observability

import (
	"fmt"
	"time"
)

// Metrics holds planner activity derived from the event log.
type Metrics struct {
	TasksAdded           int            `json:"tasks_added"`
	TasksCompleted       int            `json:"tasks_completed"`
	BonusCompleted       int            `json:"bonus_completed"`
	TasksPromoted        int            `json:"tasks_promoted"`
	PromotionsByOrigin   map[string]int `json:"promotions_by_origin"`
	RoutinesCompleted    int            `json:"routines_completed"`
	GoalsCompleted       int            `json:"goals_completed"`
	ProjectsCompleted    int            `json:"projects_completed"`
	DaysStarted          int            `json:"days_started"`
	DaysShutdown         int            `json:"days_shutdown"`
	Rollovers            int            `json:"rollovers"`
	InboxCaptured        int            `json:"inbox_captured"`
	InboxProcessed       int            `json:"inbox_processed"`
	TimeLoggedSeconds    int            `json:"time_logged_seconds"`
	UnplannedSeconds     int            `json:"unplanned_seconds"`
	IdleSecondsByTag     map[string]int `json:"idle_seconds_by_tag"`
	AchievementsUnlocked []string       `json:"achievements_unlocked,omitempty"`
	EventCount           int            `json:"event_count"`
	OldestEvent          *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent          *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		PromotionsByOrigin: make(map[string]int),
		IdleSecondsByTag:   make(map[string]int),
	}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventTaskAdded:
			m.TasksAdded++
		case EventTaskCompleted:
			m.TasksCompleted++
			if bonus, _ := event.Data["bonus"].(bool); bonus {
				m.BonusCompleted++
			}
		case EventTaskPromoted:
			m.TasksPromoted++
			if origin, ok := event.Data["origin"].(string); ok {
				m.PromotionsByOrigin[origin]++
			}
		case EventRoutineCompleted:
			m.RoutinesCompleted++
		case EventGoalCompleted:
			m.GoalsCompleted++
		case EventProjectCompleted:
			m.ProjectsCompleted++
		case EventDayStarted:
			m.DaysStarted++
		case EventDayShutdown:
			m.DaysShutdown++
		case EventDayRolledOver:
			m.Rollovers++
		case EventInboxCaptured:
			m.InboxCaptured++
		case EventInboxProcessed:
			m.InboxProcessed++
		case EventTimeLogged:
			m.TimeLoggedSeconds += intField(event.Data, "seconds")
		case EventUnplannedAdded:
			m.UnplannedSeconds += intField(event.Data, "seconds")
		case EventIdleLogged:
			if tag, ok := event.Data["tag"].(string); ok {
				m.IdleSecondsByTag[tag] += intField(event.Data, "seconds")
			}
		case EventAchievementUnlocked:
			if id, ok := event.Data["achievement"].(string); ok {
				m.AchievementsUnlocked = append(m.AchievementsUnlocked, id)
			}
		}
	}

	return m, nil
}
