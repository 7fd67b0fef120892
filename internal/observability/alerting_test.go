package observability

import (
	"testing"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

var alertNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

func testThresholds() models.AlertConfig {
	return models.AlertConfig{InboxMax: 2, DeadlineDays: 3, InactiveDays: 2}
}

func conditions(alerts []Alert) map[string]int {
	out := map[string]int{}
	for _, a := range alerts {
		out[a.Condition]++
	}
	return out
}

func TestAlertEngine_QuietState(t *testing.T) {
	st := models.NewState("2024-03-10")
	alerts, err := NewAlertEngine(nil, testThresholds()).Evaluate(st, alertNow)
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %+v", alerts)
	}
}

func TestAlertEngine_Deadlines(t *testing.T) {
	st := models.NewState("2024-03-10")
	st.Goals = []models.Goal{
		{ID: "g-over", Text: "Overdue", Deadline: "2024-03-08", ReviewFrequency: models.ReviewNone},
		{ID: "g-soon", Text: "Soon", Deadline: "2024-03-12", ReviewFrequency: models.ReviewNone},
		{ID: "g-far", Text: "Far", Deadline: "2024-04-30", ReviewFrequency: models.ReviewNone},
		{ID: "g-done", Text: "Done", Deadline: "2024-03-01", Completed: true, ReviewFrequency: models.ReviewNone},
		{ID: "g-arch", Text: "Archived", Deadline: "2024-03-01", Archived: true, ReviewFrequency: models.ReviewNone},
	}
	st.Projects = []models.Project{
		{ID: "p-today", Text: "Today", Deadline: "2024-03-10", ReviewFrequency: models.ReviewNone},
	}

	alerts, err := NewAlertEngine(nil, testThresholds()).Evaluate(st, alertNow)
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	got := conditions(alerts)
	if got[ConditionDeadlineOverdue] != 1 {
		t.Errorf("overdue alerts = %d, want 1", got[ConditionDeadlineOverdue])
	}
	if got[ConditionDeadlineSoon] != 2 {
		t.Errorf("approaching alerts = %d, want 2", got[ConditionDeadlineSoon])
	}
	if alerts[0].Severity != SeverityHigh || alerts[0].ID != "overdue-g-over" {
		t.Errorf("first alert should be the overdue goal, got %+v", alerts[0])
	}
	if alerts[0].EntityKind != "goal" || alerts[0].EntityID != "g-over" {
		t.Errorf("overdue alert entity = %q/%q, want goal/g-over", alerts[0].EntityKind, alerts[0].EntityID)
	}
}

func TestAlertEngine_ReviewsDue(t *testing.T) {
	st := models.NewState("2024-03-10")
	st.Goals = []models.Goal{
		{ID: "g1", Text: "Weekly", ReviewFrequency: models.ReviewWeekly, LastReviewed: "2024-03-01"},
		{ID: "g2", Text: "Fresh", ReviewFrequency: models.ReviewWeekly, LastReviewed: "2024-03-09"},
	}
	alerts, err := NewAlertEngine(nil, testThresholds()).Evaluate(st, alertNow)
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Condition != ConditionReviewDue || alerts[0].ID != "review-g1" {
		t.Errorf("expected one review alert for g1, got %+v", alerts)
	}
	if len(alerts) == 1 && (alerts[0].EntityKind != "goal" || alerts[0].EntityID != "g1") {
		t.Errorf("review alert should name goal g1, got %+v", alerts[0])
	}
}

func TestAlertEngine_InboxAndRollover(t *testing.T) {
	st := models.NewState("2024-03-10")
	st.Inbox = []models.InboxItem{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}, {ID: "3", Text: "c"}}
	st.PendingRollover = &models.PendingRollover{FromDate: "2024-03-09", Tasks: []models.Task{{ID: "t", Text: "x"}}}

	alerts, err := NewAlertEngine(nil, testThresholds()).Evaluate(st, alertNow)
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	got := conditions(alerts)
	if got[ConditionInboxOverflow] != 1 || got[ConditionRolloverPending] != 1 {
		t.Errorf("conditions = %v", got)
	}

	off := testThresholds()
	off.InboxMax = 0
	alerts, _ = NewAlertEngine(nil, off).Evaluate(st, alertNow)
	if conditions(alerts)[ConditionInboxOverflow] != 0 {
		t.Error("inbox_max 0 should disable the inbox alert")
	}
}

func TestAlertEngine_Inactivity(t *testing.T) {
	log := newTestLog(t)
	st := models.NewState("2024-03-10")
	engine := NewAlertEngine(log, testThresholds())

	alerts, err := engine.Evaluate(st, alertNow)
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("empty history should not alert, got %+v", alerts)
	}

	_ = log.Write(Event{Time: alertNow.Add(-5 * 24 * time.Hour), Type: EventDayStarted})
	alerts, _ = engine.Evaluate(st, alertNow)
	if conditions(alerts)[ConditionInactive] != 1 {
		t.Errorf("expected inactivity alert, got %+v", alerts)
	}

	_ = log.Write(Event{Time: alertNow.Add(-time.Hour), Type: EventDayStarted})
	alerts, _ = engine.Evaluate(st, alertNow)
	if conditions(alerts)[ConditionInactive] != 0 {
		t.Errorf("recent start should clear inactivity, got %+v", alerts)
	}
}
