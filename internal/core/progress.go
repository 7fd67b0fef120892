package core

import (
	"math"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Completable is anything with a completion flag.
type Completable interface {
	IsCompleted() bool
}

// Progress returns the completion percentage of a parent. With children it
// is the share of completed children; without children it mirrors the
// parent's own flag.
func Progress[T Completable](completed bool, children []T) int {
	if len(children) == 0 {
		if completed {
			return 100
		}
		return 0
	}
	done := 0
	for _, c := range children {
		if c.IsCompleted() {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(children)) * 100))
}

// DerivedCompleted reports whether a parent with children counts as
// completed: it has at least one child and every child is completed.
func DerivedCompleted[T Completable](children []T) bool {
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if !c.IsCompleted() {
			return false
		}
	}
	return true
}

// GoalProgress is Progress for a goal.
func GoalProgress(g models.Goal) int { return Progress(g.Completed, g.SubGoals) }

// ProjectProgress is Progress for a project.
func ProjectProgress(p models.Project) int { return Progress(p.Completed, p.SubTasks) }

// WeeklyGoalProgress is Progress for a weekly goal.
func WeeklyGoalProgress(w models.WeeklyGoal) int { return Progress(w.Completed, w.SubGoals) }

// propagateGoal re-derives g.Completed from its sub-goals. A goal without
// sub-goals keeps the flag the user gave it.
func propagateGoal(g *models.Goal) {
	if len(g.SubGoals) > 0 {
		g.Completed = DerivedCompleted(g.SubGoals)
	}
}

func propagateProject(p *models.Project) {
	if len(p.SubTasks) > 0 {
		p.Completed = DerivedCompleted(p.SubTasks)
	}
}

func propagateWeeklyGoal(w *models.WeeklyGoal) {
	if len(w.SubGoals) > 0 {
		w.Completed = DerivedCompleted(w.SubGoals)
	}
}

// rederiveCompletion re-applies propagation to every parent in st. Documents
// loaded from disk or imported never went through the toggle intents, so
// their parent flags cannot be trusted.
func rederiveCompletion(st *models.State) {
	for i := range st.Goals {
		propagateGoal(&st.Goals[i])
	}
	for i := range st.Projects {
		propagateProject(&st.Projects[i])
	}
	for _, wp := range []*models.WeeklyPlan{st.WeeklyPlan, st.LastWeekPlan} {
		if wp == nil {
			continue
		}
		for i := range wp.Goals {
			propagateWeeklyGoal(&wp.Goals[i])
		}
	}
}
