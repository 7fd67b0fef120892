package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// ActiveGoals returns the goals that are not archived.
func ActiveGoals(st models.State) []models.Goal {
	var out []models.Goal
	for _, g := range st.Goals {
		if !g.Archived {
			out = append(out, g)
		}
	}
	return out
}

// ArchivedGoals returns the archived goals.
func ArchivedGoals(st models.State) []models.Goal {
	var out []models.Goal
	for _, g := range st.Goals {
		if g.Archived {
			out = append(out, g)
		}
	}
	return out
}

// ActiveProjects returns the projects that are not archived.
func ActiveProjects(st models.State) []models.Project {
	var out []models.Project
	for _, p := range st.Projects {
		if !p.Archived {
			out = append(out, p)
		}
	}
	return out
}

// ReviewDue reports whether something last reviewed on last with the given
// frequency is due for review on today. Never-reviewed items are due as soon
// as they have a frequency.
func ReviewDue(freq models.ReviewFrequency, last, today string) bool {
	if freq == "" || freq == models.ReviewNone {
		return false
	}
	if last == "" {
		return true
	}
	l, ok := parseDay(last)
	if !ok {
		return true
	}
	var next string
	switch freq {
	case models.ReviewDaily:
		next = models.FormatDay(l.AddDate(0, 0, 1))
	case models.ReviewWeekly:
		next = models.FormatDay(l.AddDate(0, 0, 7))
	case models.ReviewMonthly:
		next = models.FormatDay(l.AddDate(0, 1, 0))
	default:
		return false
	}
	return today >= next
}

// ReviewItem is a goal or project due for review.
type ReviewItem struct {
	Kind models.OriginKind
	ID   string
	Text string
}

// DueForReview lists active goals and projects whose review is due today.
func DueForReview(st models.State, today string) []ReviewItem {
	var out []ReviewItem
	for _, g := range ActiveGoals(st) {
		if !g.Completed && ReviewDue(g.ReviewFrequency, g.LastReviewed, today) {
			out = append(out, ReviewItem{Kind: models.OriginGoal, ID: g.ID, Text: g.Text})
		}
	}
	for _, p := range ActiveProjects(st) {
		if !p.Completed && ReviewDue(p.ReviewFrequency, p.LastReviewed, today) {
			out = append(out, ReviewItem{Kind: models.OriginProject, ID: p.ID, Text: p.Text})
		}
	}
	return out
}

// DaysUntil returns the number of days from today to deadline, negative when
// the deadline has passed. ok is false when deadline is unset or invalid.
func DaysUntil(deadline, today string) (days int, ok bool) {
	if deadline == "" {
		return 0, false
	}
	if _, valid := parseDay(deadline); !valid {
		return 0, false
	}
	return daysBetween(today, deadline), true
}

// SecondsLoggedOn sums the time logged on day.
func SecondsLoggedOn(st models.State, day string) int {
	total := 0
	for _, l := range st.Logs {
		if l.Day == day {
			total += l.DurationSeconds
		}
	}
	return total
}

// LogsOn returns the log entries for day.
func LogsOn(st models.State, day string) []models.LogEntry {
	var out []models.LogEntry
	for _, l := range st.Logs {
		if l.Day == day {
			out = append(out, l)
		}
	}
	return out
}

// OriginLabel describes where a promoted task came from. Origins that point
// at deleted entities yield an empty label.
func OriginLabel(st models.State, t models.Task) string {
	o := t.Origin
	if o == nil {
		return ""
	}
	switch o.Kind {
	case models.OriginGoal:
		if i := indexOf(st.Goals, o.ParentID); i >= 0 {
			return "goal: " + st.Goals[i].Text
		}
	case models.OriginProject:
		if i := indexOf(st.Projects, o.ParentID); i >= 0 {
			return "project: " + st.Projects[i].Text
		}
	case models.OriginWeeklyGoal:
		if w := findWeeklyGoal(&st, o.ParentID); w != nil {
			return "week: " + w.Text
		}
	}
	return ""
}

// TaskBlocked reports whether a planned task is blocked.
func TaskBlocked(st models.State, t models.Task) bool {
	return IsBlocked(t, st.Plan.Tasks)
}
