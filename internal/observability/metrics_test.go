package observability

import (
	"testing"
	"time"
)

func TestMetricsCalculator_AggregatesPlannerEvents(t *testing.T) {
	log := newTestLog(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventTaskAdded, Data: map[string]any{"task_id": "a", "bonus": false}},
		{Type: EventTaskAdded, Data: map[string]any{"task_id": "b", "bonus": true}},
		{Type: EventTaskCompleted, Data: map[string]any{"task_id": "a", "bonus": false}},
		{Type: EventTaskCompleted, Data: map[string]any{"task_id": "b", "bonus": true}},
		{Type: EventTaskPromoted, Data: map[string]any{"task_id": "c", "origin": "goal"}},
		{Type: EventTaskPromoted, Data: map[string]any{"task_id": "d", "origin": "project"}},
		{Type: EventTimeLogged, Data: map[string]any{"task_id": "a", "seconds": 120}},
		{Type: EventTimeLogged, Data: map[string]any{"task_id": "a", "seconds": 30}},
		{Type: EventIdleLogged, Data: map[string]any{"tag": "Break", "seconds": 300}},
		{Type: EventIdleLogged, Data: map[string]any{"tag": "Break", "seconds": 60}},
		{Type: EventIdleLogged, Data: map[string]any{"tag": "Meeting", "seconds": 900}},
		{Type: EventDayStarted},
		{Type: EventDayRolledOver},
		{Type: EventDayShutdown},
		{Type: EventInboxCaptured},
		{Type: EventInboxProcessed},
		{Type: EventAchievementUnlocked, Data: map[string]any{"achievement": "first_task"}},
	}
	for i, e := range events {
		e.Time = base.Add(time.Duration(i) * time.Minute)
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(base)
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	if m.TasksAdded != 2 || m.TasksCompleted != 2 || m.BonusCompleted != 1 {
		t.Errorf("task counts = %d/%d/%d, want 2/2/1", m.TasksAdded, m.TasksCompleted, m.BonusCompleted)
	}
	if m.TasksPromoted != 2 || m.PromotionsByOrigin["goal"] != 1 || m.PromotionsByOrigin["project"] != 1 {
		t.Errorf("promotions = %d %v", m.TasksPromoted, m.PromotionsByOrigin)
	}
	if m.TimeLoggedSeconds != 150 {
		t.Errorf("TimeLoggedSeconds = %d, want 150", m.TimeLoggedSeconds)
	}
	if m.IdleSecondsByTag["Break"] != 360 || m.IdleSecondsByTag["Meeting"] != 900 {
		t.Errorf("IdleSecondsByTag = %v", m.IdleSecondsByTag)
	}
	if m.DaysStarted != 1 || m.Rollovers != 1 || m.DaysShutdown != 1 {
		t.Errorf("day counts = %d/%d/%d", m.DaysStarted, m.Rollovers, m.DaysShutdown)
	}
	if m.InboxCaptured != 1 || m.InboxProcessed != 1 {
		t.Errorf("inbox counts = %d/%d", m.InboxCaptured, m.InboxProcessed)
	}
	if len(m.AchievementsUnlocked) != 1 || m.AchievementsUnlocked[0] != "first_task" {
		t.Errorf("AchievementsUnlocked = %v", m.AchievementsUnlocked)
	}
	if m.EventCount != len(events) {
		t.Errorf("EventCount = %d, want %d", m.EventCount, len(events))
	}
	if m.OldestEvent == nil || !m.OldestEvent.Equal(base) {
		t.Errorf("OldestEvent = %v, want %v", m.OldestEvent, base)
	}
}

func TestMetricsCalculator_RespectsSince(t *testing.T) {
	log := newTestLog(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	_ = log.Write(Event{Time: base, Type: EventTaskAdded})
	_ = log.Write(Event{Time: base.Add(48 * time.Hour), Type: EventTaskAdded})

	m, err := NewMetricsCalculator(log).Calculate(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}
	if m.TasksAdded != 1 {
		t.Errorf("TasksAdded = %d, want 1", m.TasksAdded)
	}
}

func TestMetricsCalculator_EmptyLog(t *testing.T) {
	m, err := NewMetricsCalculator(newTestLog(t)).Calculate(time.Time{})
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}
	if m.EventCount != 0 || m.OldestEvent != nil || m.NewestEvent != nil {
		t.Errorf("expected empty metrics, got %+v", m)
	}
}
