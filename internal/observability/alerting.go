package observability

import (
	"fmt"
	"sort"
	"time"

	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionDeadlineOverdue = "deadline_overdue"
	ConditionDeadlineSoon    = "deadline_approaching"
	ConditionReviewDue       = "review_due"
	ConditionInboxOverflow   = "inbox_overflow"
	ConditionRolloverPending = "rollover_pending"
	ConditionInactive        = "inactive"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
	// EntityKind and EntityID name the goal or project an alert is about.
	// Plan-wide alerts leave them empty.
	EntityKind string `json:"entity_kind,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
}

// AlertEngine evaluates alert conditions against planner state and the
// event log.
type AlertEngine interface {
	Evaluate(st models.State, now time.Time) ([]Alert, error)
}

// alertEngine implements AlertEngine. eventLog may be nil, in which case the
// inactivity check is skipped.
type alertEngine struct {
	eventLog   EventLog
	thresholds models.AlertConfig
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds models.AlertConfig) AlertEngine {
	return &alertEngine{eventLog: eventLog, thresholds: thresholds}
}

// Evaluate checks every condition and returns the triggered alerts ordered
// by severity, then ID.
func (ae *alertEngine) Evaluate(st models.State, now time.Time) ([]Alert, error) {
	today := models.FormatDay(now)

	var alerts []Alert
	alerts = append(alerts, ae.checkDeadlines(st, today, now)...)
	alerts = append(alerts, ae.checkReviews(st, today, now)...)
	alerts = append(alerts, ae.checkInbox(st, now)...)
	alerts = append(alerts, ae.checkRollover(st, now)...)

	inactive, err := ae.checkInactivity(now)
	if err != nil {
		return nil, fmt.Errorf("checking inactivity: %w", err)
	}
	alerts = append(alerts, inactive...)

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := severityRank(alerts[i].Severity), severityRank(alerts[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].ID < alerts[j].ID
	})
	return alerts, nil
}

type deadlined struct {
	kind     string
	id       string
	text     string
	deadline string
}

// checkDeadlines flags active, unfinished goals and projects whose deadline
// has passed or falls within DeadlineDays.
func (ae *alertEngine) checkDeadlines(st models.State, today string, now time.Time) []Alert {
	var items []deadlined
	for _, g := range core.ActiveGoals(st) {
		if !g.Completed {
			items = append(items, deadlined{"goal", g.ID, g.Text, g.Deadline})
		}
	}
	for _, p := range core.ActiveProjects(st) {
		if !p.Completed {
			items = append(items, deadlined{"project", p.ID, p.Text, p.Deadline})
		}
	}

	var alerts []Alert
	for _, it := range items {
		days, ok := core.DaysUntil(it.deadline, today)
		if !ok {
			continue
		}
		switch {
		case days < 0:
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("overdue-%s", it.id),
				Condition:   ConditionDeadlineOverdue,
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("%s %q was due %s (%d days ago)", it.kind, it.text, it.deadline, -days),
				TriggeredAt: now,
				EntityKind:  it.kind,
				EntityID:    it.id,
			})
		case days <= ae.thresholds.DeadlineDays:
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("due-%s", it.id),
				Condition:   ConditionDeadlineSoon,
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("%s %q is due %s (in %d days)", it.kind, it.text, it.deadline, days),
				TriggeredAt: now,
				EntityKind:  it.kind,
				EntityID:    it.id,
			})
		}
	}
	return alerts
}

func (ae *alertEngine) checkReviews(st models.State, today string, now time.Time) []Alert {
	var alerts []Alert
	for _, item := range core.DueForReview(st, today) {
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("review-%s", item.ID),
			Condition:   ConditionReviewDue,
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%s %q is due for review", item.Kind, item.Text),
			TriggeredAt: now,
			EntityKind:  string(item.Kind),
			EntityID:    item.ID,
		})
	}
	return alerts
}

// checkInbox alerts when more than InboxMax items wait to be processed. A
// zero InboxMax disables the check.
func (ae *alertEngine) checkInbox(st models.State, now time.Time) []Alert {
	if ae.thresholds.InboxMax <= 0 || len(st.Inbox) <= ae.thresholds.InboxMax {
		return nil
	}
	return []Alert{{
		ID:          "inbox-overflow",
		Condition:   ConditionInboxOverflow,
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("inbox has %d items, more than %d", len(st.Inbox), ae.thresholds.InboxMax),
		TriggeredAt: now,
	}}
}

func (ae *alertEngine) checkRollover(st models.State, now time.Time) []Alert {
	if st.PendingRollover == nil {
		return nil
	}
	return []Alert{{
		ID:          "rollover-pending",
		Condition:   ConditionRolloverPending,
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("%d unfinished tasks from %s need a decision", len(st.PendingRollover.Tasks), st.PendingRollover.FromDate),
		TriggeredAt: now,
	}}
}

// checkInactivity alerts when no day has been started within InactiveDays.
// An empty log means there is no history to judge.
func (ae *alertEngine) checkInactivity(now time.Time) ([]Alert, error) {
	if ae.eventLog == nil || ae.thresholds.InactiveDays <= 0 {
		return nil, nil
	}
	events, err := ae.eventLog.Read(EventFilter{Type: EventDayStarted, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	last := events[len(events)-1].Time
	threshold := time.Duration(ae.thresholds.InactiveDays) * 24 * time.Hour
	if now.Sub(last) <= threshold {
		return nil, nil
	}
	return []Alert{{
		ID:          "inactive",
		Condition:   ConditionInactive,
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("no day started for more than %d days", ae.thresholds.InactiveDays),
		TriggeredAt: now,
	}}, nil
}

func severityRank(s AlertSeverity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}
