package core

import (
	"strings"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

type identified interface {
	EntityID() string
}

func indexOf[T identified](items []T, id string) int {
	for i, it := range items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// reorder arranges items in the order given by ids. Unknown IDs are ignored
// and items not named keep their relative order after the named ones.
func reorder[T identified](items []T, ids []string) []T {
	out := make([]T, 0, len(items))
	used := make(map[int]bool, len(ids))
	for _, id := range ids {
		if i := indexOf(items, id); i >= 0 && !used[i] {
			out = append(out, items[i])
			used[i] = true
		}
	}
	for i, it := range items {
		if !used[i] {
			out = append(out, it)
		}
	}
	return out
}

// moveTo moves the item with the given ID to position pos, clamped to the
// bounds of the slice.
func moveTo[T identified](items []T, id string, pos int) []T {
	i := indexOf(items, id)
	if i < 0 {
		return items
	}
	it := items[i]
	rest := removeAt(items, i)
	if pos < 0 {
		pos = 0
	}
	if pos > len(rest) {
		pos = len(rest)
	}
	out := make([]T, 0, len(items))
	out = append(out, rest[:pos]...)
	out = append(out, it)
	return append(out, rest[pos:]...)
}

// cleanText trims input text; an empty result means the submission is
// rejected.
func cleanText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func cleanIDs(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	return t, err == nil
}

func addDays(day string, n int) string {
	t, ok := parseDay(day)
	if !ok {
		return ""
	}
	return models.FormatDay(t.AddDate(0, 0, n))
}

// daysBetween returns the whole number of calendar days from a to b.
func daysBetween(a, b string) int {
	ta, okA := parseDay(a)
	tb, okB := parseDay(b)
	if !okA || !okB {
		return 0
	}
	ta = time.Date(ta.Year(), ta.Month(), ta.Day(), 12, 0, 0, 0, time.UTC)
	tb = time.Date(tb.Year(), tb.Month(), tb.Day(), 12, 0, 0, 0, time.UTC)
	return int(tb.Sub(ta).Hours() / 24)
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day string) string {
	t, ok := parseDay(day)
	if !ok {
		return ""
	}
	offset := (int(t.Weekday()) + 6) % 7
	return models.FormatDay(t.AddDate(0, 0, -offset))
}

func validPriority(p models.Priority) bool {
	switch p {
	case "", models.PriorityHigh, models.PriorityMedium, models.PriorityLow, models.PriorityNone:
		return true
	}
	return false
}

func validReviewFrequency(f models.ReviewFrequency) bool {
	switch f {
	case "", models.ReviewNone, models.ReviewDaily, models.ReviewWeekly, models.ReviewMonthly:
		return true
	}
	return false
}
