package core

import (
	"errors"
	"strings"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// BeginShutdown opens the end-of-day routine at the review step.
type BeginShutdown struct{}

func (BeginShutdown) apply(st *models.State, _ *env) error {
	st.ShutdownStep = models.ShutdownReview
	return nil
}

// ShutdownReview moves the named unfinished tasks to the inbox and advances
// the routine. The reflect step is skipped when today already has a
// reflection.
type ShutdownReview struct {
	MoveToInbox []string
}

func (in ShutdownReview) apply(st *models.State, e *env) error {
	if st.ShutdownStep != models.ShutdownReview {
		return ErrWrongStep
	}
	for _, id := range in.MoveToInbox {
		i := indexOf(st.Plan.Tasks, id)
		if i < 0 || st.Plan.Tasks[i].Completed {
			continue
		}
		t := st.Plan.Tasks[i]
		unlinkPromotedTask(st, t)
		st.Plan.Tasks = removeAt(st.Plan.Tasks, i)
		captureInbox(st, e, t.Text)
	}
	if ReflectionFor(*st, e.today) != nil {
		st.ShutdownStep = models.ShutdownPlanNext
	} else {
		st.ShutdownStep = models.ShutdownReflect
	}
	return nil
}

// ShutdownReflect records today's reflection, unless skipped, and advances
// to planning tomorrow.
type ShutdownReflect struct {
	WentWell  string
	ToImprove string
	Notes     string
	Skip      bool
}

func (in ShutdownReflect) apply(st *models.State, e *env) error {
	if st.ShutdownStep != models.ShutdownReflect {
		return ErrWrongStep
	}
	if !in.Skip {
		if err := (AddReflection{WentWell: in.WentWell, ToImprove: in.ToImprove, Notes: in.Notes}).apply(st, e); err != nil && !errors.Is(err, ErrEmptyText) {
			return err
		}
	}
	st.ShutdownStep = models.ShutdownPlanNext
	return nil
}

// ShutdownPlanNext stages tasks for tomorrow and closes the routine. Blank
// entries are ignored.
type ShutdownPlanNext struct {
	Tasks []string
}

func (in ShutdownPlanNext) apply(st *models.State, e *env) error {
	if st.ShutdownStep != models.ShutdownPlanNext {
		return ErrWrongStep
	}
	staged := 0
	for _, text := range in.Tasks {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		st.TomorrowTasks = append(st.TomorrowTasks, newTask(e, text, models.PriorityNone))
		staged++
	}
	st.ShutdownStep = ""
	e.emit("day.shutdown", map[string]any{"date": st.Plan.Date, "staged": staged})
	return nil
}

// CloseShutdown leaves the routine from any step.
type CloseShutdown struct{}

func (CloseShutdown) apply(st *models.State, _ *env) error {
	st.ShutdownStep = ""
	return nil
}

// AddReflection records today's reflection, replacing an earlier one from
// the same day. At least one field must be non-empty.
type AddReflection struct {
	WentWell  string
	ToImprove string
	Notes     string
}

func (in AddReflection) apply(st *models.State, e *env) error {
	r := models.Reflection{
		WentWell:  strings.TrimSpace(in.WentWell),
		ToImprove: strings.TrimSpace(in.ToImprove),
		Notes:     strings.TrimSpace(in.Notes),
		Date:      e.today,
	}
	if r.WentWell == "" && r.ToImprove == "" && r.Notes == "" {
		return ErrEmptyText
	}
	for i := range st.Reflections {
		if st.Reflections[i].Date == e.today {
			r.ID = st.Reflections[i].ID
			st.Reflections[i] = r
			return nil
		}
	}
	r.ID = e.newID()
	st.Reflections = append(st.Reflections, r)
	e.emit("reflection.added", map[string]any{"date": r.Date})
	return nil
}

// ReflectionFor returns the reflection written on day, or nil.
func ReflectionFor(st models.State, day string) *models.Reflection {
	for i := range st.Reflections {
		if st.Reflections[i].Date == day {
			r := st.Reflections[i]
			return &r
		}
	}
	return nil
}
