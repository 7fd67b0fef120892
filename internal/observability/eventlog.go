package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Event types written by the planner. Types are dotted, the part before the
// dot names the entity.
const (
	EventTaskAdded           = "task.added"
	EventTaskCompleted       = "task.completed"
	EventTaskReopened        = "task.reopened"
	EventTaskDeleted         = "task.deleted"
	EventTaskPromoted        = "task.promoted"
	EventTimeLogged          = "time.logged"
	EventUnplannedAdded      = "unplanned.added"
	EventIdleLogged          = "idle.logged"
	EventDayStarted          = "day.started"
	EventDayRolledOver       = "day.rolled_over"
	EventDayShutdown         = "day.shutdown"
	EventRolloverResolved    = "rollover.resolved"
	EventInboxCaptured       = "inbox.captured"
	EventInboxProcessed      = "inbox.processed"
	EventGoalCompleted       = "goal.completed"
	EventProjectCompleted    = "project.completed"
	EventRoutineCompleted    = "routine.completed"
	EventReflectionAdded     = "reflection.added"
	EventAchievementUnlocked = "achievement.unlocked"
	EventWeekPlanned         = "week.planned"
	EventStateImported       = "state.imported"
)

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"` // INFO, WARN, ERROR
	Type    string         `json:"type"`
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// EventFilter specifies criteria for reading events. Type matches exactly;
// Prefix matches the start of the type, e.g. "task." for all task events.
type EventFilter struct {
	Since  *time.Time
	Until  *time.Time
	Type   string
	Prefix string
	Level  string
	Limit  int
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using an append-only JSONL file.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates a new EventLog backed by a JSONL file at the given path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f}, nil
}

// Write appends a JSON-encoded event followed by a newline. A zero Time is
// stamped with the current time and an empty Level defaults to INFO.
func (l *jsonlEventLog) Write(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.Level == "" {
		event.Level = "INFO"
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing event %s: %w", event.Type, err)
	}
	return nil
}

// Read scans the log and returns the events matching filter, oldest first.
// With a Limit only the newest Limit matches are kept.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // skip malformed lines
		}

		if matchesEventFilter(event, filter) {
			events = append(events, event)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[len(events)-filter.Limit:]
	}
	return events, nil
}

// Close closes the underlying log file.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}

func matchesEventFilter(event Event, filter EventFilter) bool {
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && event.Time.After(*filter.Until) {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Prefix != "" && !strings.HasPrefix(event.Type, filter.Prefix) {
		return false
	}
	if filter.Level != "" && event.Level != filter.Level {
		return false
	}
	return true
}

// intField reads a numeric payload field. Values read back from JSON are
// float64.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
