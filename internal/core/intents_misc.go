package core

import (
	"fmt"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// ToggleTheme switches between the dark and light themes.
type ToggleTheme struct{}

func (ToggleTheme) apply(st *models.State, _ *env) error {
	if st.Theme == models.ThemeLight {
		st.Theme = models.ThemeDark
	} else {
		st.Theme = models.ThemeLight
	}
	return nil
}

// LogIdleTime appends an idle period classified by the user.
type LogIdleTime struct {
	Description     string
	Tag             models.IdleTag
	DurationSeconds int
}

func (in LogIdleTime) apply(st *models.State, e *env) error {
	desc, err := cleanText(in.Description)
	if err != nil {
		return err
	}
	if in.Tag != models.IdleProductive && in.Tag != models.IdleUnproductive {
		return ErrInvalidTaskOptions
	}
	if in.DurationSeconds <= 0 {
		return ErrInvalidTaskOptions
	}
	st.IdleLog = append(st.IdleLog, models.IdleTimeEntry{
		ID:              e.newID(),
		Description:     desc,
		Tag:             in.Tag,
		DurationSeconds: in.DurationSeconds,
		Timestamp:       e.now,
	})
	e.emit("idle.logged", map[string]any{"tag": string(in.Tag), "seconds": in.DurationSeconds})
	return nil
}

// ImportMode selects how an imported document combines with current state.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// ImportState loads a previously exported document. The document is
// validated first; an invalid document changes nothing.
type ImportState struct {
	Doc  models.State
	Mode ImportMode
}

func (in ImportState) apply(st *models.State, e *env) error {
	if in.Mode != ImportReplace && in.Mode != ImportMerge {
		return ErrUnknownImportMode
	}
	doc := in.Doc.Clone()
	doc.Normalize()
	if err := ValidateState(doc); err != nil {
		return err
	}
	rederiveCompletion(&doc)
	if in.Mode == ImportReplace {
		*st = doc
		if st.Plan.Date == "" {
			st.Plan.Date = e.today
		}
		if st.Plan.Date != e.today {
			rollover(st, e)
		}
		rotateWeek(st, e)
	} else {
		mergeState(st, doc)
		rederiveCompletion(st)
	}
	e.emit("state.imported", map[string]any{"mode": string(in.Mode)})
	return nil
}

// mergeState adds every entity of doc whose ID is not already present.
// Existing entities win. Today's plan only receives tasks when both
// documents describe the same day.
func mergeState(st *models.State, doc models.State) {
	if doc.Plan.Date == st.Plan.Date {
		st.Plan.Tasks = mergeByID(st.Plan.Tasks, doc.Plan.Tasks)
	}
	st.TomorrowTasks = mergeByID(st.TomorrowTasks, doc.TomorrowTasks)
	st.RoutineTasks = mergeByID(st.RoutineTasks, doc.RoutineTasks)
	st.Goals = mergeByID(st.Goals, doc.Goals)
	st.Projects = mergeByID(st.Projects, doc.Projects)
	if doc.WeeklyPlan != nil {
		if st.WeeklyPlan == nil {
			st.WeeklyPlan = doc.WeeklyPlan
		} else if st.WeeklyPlan.WeekStartDate == doc.WeeklyPlan.WeekStartDate {
			st.WeeklyPlan.Goals = mergeByID(st.WeeklyPlan.Goals, doc.WeeklyPlan.Goals)
		}
	}
	if st.LastWeekPlan == nil {
		st.LastWeekPlan = doc.LastWeekPlan
	}
	st.Inbox = mergeByID(st.Inbox, doc.Inbox)
	st.UnplannedTasks = mergeByID(st.UnplannedTasks, doc.UnplannedTasks)
	st.Logs = mergeByID(st.Logs, doc.Logs)
	st.IdleLog = mergeByID(st.IdleLog, doc.IdleLog)
	st.Reflections = mergeByID(st.Reflections, doc.Reflections)
	for _, r := range doc.Performance {
		if len(PerformanceBetween(*st, r.Date, r.Date)) == 0 {
			upsertPerformance(st, r.Date, r.Score)
		}
	}
	for _, a := range doc.Achievements {
		if !HasAchievement(*st, a.ID) {
			st.Achievements = append(st.Achievements, a)
		}
	}
	if doc.Streak.Longest > st.Streak.Longest {
		st.Streak.Longest = doc.Streak.Longest
	}
}

func mergeByID[T identified](dst, src []T) []T {
	for _, it := range src {
		if indexOf(dst, it.EntityID()) < 0 {
			dst = append(dst, it)
		}
	}
	return dst
}

// ValidateState checks the invariants an imported document must satisfy:
// every entity has an ID and text, every date field parses, field values
// are ones the intents would accept, and no sibling dependencies form a
// cycle.
func ValidateState(st models.State) error {
	if st.Plan.Date != "" && !validDate(st.Plan.Date) {
		return fmt.Errorf("%w: plan date %q", ErrInvalidImport, st.Plan.Date)
	}
	check := func(kind, id, text string) error {
		if id == "" {
			return fmt.Errorf("%w: %s without id", ErrInvalidImport, kind)
		}
		if text == "" {
			return fmt.Errorf("%w: %s %s without text", ErrInvalidImport, kind, id)
		}
		return nil
	}
	for _, list := range [][]models.Task{st.Plan.Tasks, st.TomorrowTasks} {
		for _, t := range list {
			if err := check("task", t.ID, t.Text); err != nil {
				return err
			}
		}
		if err := checkAcyclic("task", list); err != nil {
			return err
		}
	}
	for _, r := range st.RoutineTasks {
		if err := check("routine task", r.ID, r.Text); err != nil {
			return err
		}
		if _, ok := cleanDays(r.RecurringDays); !ok {
			return fmt.Errorf("%w: routine task %s days %v", ErrInvalidImport, r.ID, r.RecurringDays)
		}
	}
	if err := checkAcyclic("routine task", st.RoutineTasks); err != nil {
		return err
	}
	for _, g := range st.Goals {
		if err := check("goal", g.ID, g.Text); err != nil {
			return err
		}
		if !validDate(g.Deadline) {
			return fmt.Errorf("%w: goal %s deadline %q", ErrInvalidImport, g.ID, g.Deadline)
		}
		for _, sg := range g.SubGoals {
			if err := check("sub-goal", sg.ID, sg.Text); err != nil {
				return err
			}
		}
		if err := checkAcyclic("sub-goal", g.SubGoals); err != nil {
			return err
		}
	}
	for _, p := range st.Projects {
		if err := check("project", p.ID, p.Text); err != nil {
			return err
		}
		if !validDate(p.Deadline) {
			return fmt.Errorf("%w: project %s deadline %q", ErrInvalidImport, p.ID, p.Deadline)
		}
		for _, sub := range p.SubTasks {
			if err := check("sub-task", sub.ID, sub.Text); err != nil {
				return err
			}
		}
		if err := checkAcyclic("sub-task", p.SubTasks); err != nil {
			return err
		}
	}
	for _, wp := range []*models.WeeklyPlan{st.WeeklyPlan, st.LastWeekPlan} {
		if wp == nil {
			continue
		}
		if !validDate(wp.WeekStartDate) {
			return fmt.Errorf("%w: week start %q", ErrInvalidImport, wp.WeekStartDate)
		}
		for _, g := range wp.Goals {
			if err := check("weekly goal", g.ID, g.Text); err != nil {
				return err
			}
			for _, sg := range g.SubGoals {
				if err := check("weekly sub-goal", sg.ID, sg.Text); err != nil {
					return err
				}
			}
			if err := checkAcyclic("weekly sub-goal", g.SubGoals); err != nil {
				return err
			}
		}
	}
	for _, it := range st.Inbox {
		if err := check("inbox item", it.ID, it.Text); err != nil {
			return err
		}
	}
	for _, l := range st.Logs {
		if l.DurationSeconds <= 0 {
			return fmt.Errorf("%w: log %s duration %d", ErrInvalidImport, l.ID, l.DurationSeconds)
		}
	}
	for _, it := range st.IdleLog {
		if it.Tag != models.IdleProductive && it.Tag != models.IdleUnproductive {
			return fmt.Errorf("%w: idle entry %s tag %q", ErrInvalidImport, it.ID, it.Tag)
		}
		if it.DurationSeconds <= 0 {
			return fmt.Errorf("%w: idle entry %s duration %d", ErrInvalidImport, it.ID, it.DurationSeconds)
		}
	}
	for _, r := range st.Performance {
		if !validDate(r.Date) || r.Date == "" {
			return fmt.Errorf("%w: performance date %q", ErrInvalidImport, r.Date)
		}
	}
	return nil
}

// checkAcyclic rejects a sibling collection whose dependencies loop.
func checkAcyclic[T Dependent](kind string, items []T) error {
	for _, it := range items {
		if WouldCycle(it.EntityID(), it.Dependencies(), items) {
			return fmt.Errorf("%w: %s %s is part of a dependency cycle", ErrInvalidImport, kind, it.EntityID())
		}
	}
	return nil
}
