package core

import (
	"strings"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// BeginWeeklyReview opens the weekly review. It needs last week's plan with
// at least one goal to look back on.
type BeginWeeklyReview struct{}

func (BeginWeeklyReview) apply(st *models.State, _ *env) error {
	if !WeeklyReviewAvailable(*st) {
		return ErrReviewUnavailable
	}
	st.WeeklyReviewStep = models.WeeklyReviewGoals
	return nil
}

// WeeklyReviewAvailable reports whether a weekly review can be started.
func WeeklyReviewAvailable(st models.State) bool {
	return st.LastWeekPlan != nil && len(st.LastWeekPlan.Goals) > 0
}

// AdvanceWeeklyReview moves from reviewing goals to reviewing performance,
// and from there to planning next week.
type AdvanceWeeklyReview struct{}

func (AdvanceWeeklyReview) apply(st *models.State, _ *env) error {
	switch st.WeeklyReviewStep {
	case models.WeeklyReviewGoals:
		st.WeeklyReviewStep = models.WeeklyReviewPerformance
	case models.WeeklyReviewPerformance:
		st.WeeklyReviewStep = models.WeeklyReviewPlanNext
	default:
		return ErrWrongStep
	}
	return nil
}

// PlanNextWeek adds the given goals to the current week's plan and ends the
// review. Blank entries are ignored.
type PlanNextWeek struct {
	Goals []string
}

func (in PlanNextWeek) apply(st *models.State, e *env) error {
	if st.WeeklyReviewStep != models.WeeklyReviewPlanNext {
		return ErrWrongStep
	}
	wp := currentWeek(st, e)
	added := 0
	for _, text := range in.Goals {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		wp.Goals = append(wp.Goals, models.WeeklyGoal{ID: e.newID(), Text: text, SubGoals: []models.WeeklySubGoal{}})
		added++
	}
	st.WeeklyReviewStep = ""
	e.emit("week.planned", map[string]any{"week": wp.WeekStartDate, "goals": added})
	return nil
}

// CloseWeeklyReview leaves the weekly review from any step.
type CloseWeeklyReview struct{}

func (CloseWeeklyReview) apply(st *models.State, _ *env) error {
	st.WeeklyReviewStep = ""
	return nil
}

// WeekSummary is what the performance step of the weekly review shows.
type WeekSummary struct {
	WeekStart      string
	GoalsTotal     int
	GoalsCompleted int
	Records        []models.PerformanceRecord
	AverageScore   int
}

// LastWeekSummary summarises last week's plan and daily scores.
func LastWeekSummary(st models.State) WeekSummary {
	if st.LastWeekPlan == nil {
		return WeekSummary{}
	}
	wp := st.LastWeekPlan
	s := WeekSummary{WeekStart: wp.WeekStartDate, GoalsTotal: len(wp.Goals)}
	for _, g := range wp.Goals {
		if g.Completed {
			s.GoalsCompleted++
		}
	}
	s.Records = PerformanceBetween(st, wp.WeekStartDate, addDays(wp.WeekStartDate, 6))
	s.AverageScore = AverageScore(s.Records)
	return s
}
