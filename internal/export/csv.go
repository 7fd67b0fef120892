package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Table selects which entity type a CSV export contains.
type Table string

const (
	TableTasks    Table = "tasks"
	TableGoals    Table = "goals"
	TableRoutine  Table = "routine"
	TableLogs     Table = "logs"
	TableProjects Table = "projects"
	TableWeekly   Table = "weekly"
	TableInbox    Table = "inbox"
)

// Tables lists every CSV table.
func Tables() []Table {
	return []Table{TableTasks, TableGoals, TableRoutine, TableLogs, TableProjects, TableWeekly, TableInbox}
}

// ParseTable maps a user-supplied name to a Table.
func ParseTable(s string) (Table, error) {
	for _, t := range Tables() {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown csv table %q", s)
}

type csvExporter struct {
	table Table
}

// NewCSV returns an exporter writing one CSV table.
func NewCSV(t Table) Exporter {
	return csvExporter{table: t}
}

// Export writes a header row then one row per entity. Goals, projects and
// weekly goals are flattened to one row per child. Array fields are joined
// with semicolons.
func (e csvExporter) Export(w io.Writer, st models.State) error {
	header, rows, err := e.rows(st)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s csv: %w", e.table, err)
	}
	return nil
}

func (e csvExporter) rows(st models.State) ([]string, [][]string, error) {
	switch e.table {
	case TableTasks:
		return taskRows(st)
	case TableGoals:
		return goalRows(st)
	case TableRoutine:
		return routineRows(st)
	case TableLogs:
		return logRows(st)
	case TableProjects:
		return projectRows(st)
	case TableWeekly:
		return weeklyRows(st)
	case TableInbox:
		return inboxRows(st)
	}
	return nil, nil, fmt.Errorf("unknown csv table %q", e.table)
}

func join(items []string) string { return strings.Join(items, ";") }

func boolStr(b bool) string { return strconv.FormatBool(b) }

func taskRows(st models.State) ([]string, [][]string, error) {
	header := []string{"id", "date", "text", "completed", "priority", "tags", "depends_on", "bonus", "type", "origin"}
	var rows [][]string
	for _, t := range st.Plan.Tasks {
		origin := ""
		if t.Origin != nil {
			origin = string(t.Origin.Kind) + ":" + t.Origin.ParentID
		}
		rows = append(rows, []string{
			t.ID, st.Plan.Date, t.Text, boolStr(t.Completed), string(t.Priority),
			join(t.Tags), join(t.DependsOn), boolStr(t.IsBonus), string(t.TaskType), origin,
		})
	}
	return header, rows, nil
}

func goalRows(st models.State) ([]string, [][]string, error) {
	header := []string{
		"goal_id", "goal", "category", "deadline", "archived", "review_frequency",
		"goal_completed", "progress", "subgoal_id", "subgoal", "subgoal_completed", "subgoal_depends_on",
	}
	var rows [][]string
	for _, g := range st.Goals {
		base := []string{
			g.ID, g.Text, string(g.Category), g.Deadline, boolStr(g.Archived), string(g.ReviewFrequency),
			boolStr(g.Completed), strconv.Itoa(core.GoalProgress(g)),
		}
		if len(g.SubGoals) == 0 {
			rows = append(rows, append(base, "", "", "", ""))
			continue
		}
		for _, sg := range g.SubGoals {
			row := append(append([]string(nil), base...), sg.ID, sg.Text, boolStr(sg.Completed), join(sg.DependsOn))
			rows = append(rows, row)
		}
	}
	return header, rows, nil
}

func routineRows(st models.State) ([]string, [][]string, error) {
	header := []string{"id", "text", "completed", "goal_id", "recurring_days", "depends_on"}
	var rows [][]string
	for _, r := range st.RoutineTasks {
		days := make([]string, len(r.RecurringDays))
		for i, d := range r.RecurringDays {
			days[i] = strconv.Itoa(d)
		}
		rows = append(rows, []string{r.ID, r.Text, boolStr(r.Completed), r.GoalID, join(days), join(r.DependsOn)})
	}
	return header, rows, nil
}

func logRows(st models.State) ([]string, [][]string, error) {
	header := []string{"id", "day", "task_id", "task", "duration_seconds", "timestamp"}
	var rows [][]string
	for _, l := range st.Logs {
		rows = append(rows, []string{
			l.ID, l.Day, l.TaskID, l.TaskName, strconv.Itoa(l.DurationSeconds), l.Timestamp.Format(time.RFC3339),
		})
	}
	return header, rows, nil
}

func projectRows(st models.State) ([]string, [][]string, error) {
	header := []string{
		"project_id", "project", "deadline", "archived", "review_frequency",
		"project_completed", "progress", "subtask_id", "subtask", "subtask_completed", "subtask_depends_on",
	}
	var rows [][]string
	for _, p := range st.Projects {
		base := []string{
			p.ID, p.Text, p.Deadline, boolStr(p.Archived), string(p.ReviewFrequency),
			boolStr(p.Completed), strconv.Itoa(core.ProjectProgress(p)),
		}
		if len(p.SubTasks) == 0 {
			rows = append(rows, append(base, "", "", "", ""))
			continue
		}
		for _, sub := range p.SubTasks {
			row := append(append([]string(nil), base...), sub.ID, sub.Text, boolStr(sub.Completed), join(sub.DependsOn))
			rows = append(rows, row)
		}
	}
	return header, rows, nil
}

func weeklyRows(st models.State) ([]string, [][]string, error) {
	header := []string{"week_start", "goal_id", "goal", "goal_completed", "progress", "subgoal_id", "subgoal", "subgoal_completed"}
	var rows [][]string
	for _, wp := range []*models.WeeklyPlan{st.LastWeekPlan, st.WeeklyPlan} {
		if wp == nil {
			continue
		}
		for _, g := range wp.Goals {
			base := []string{wp.WeekStartDate, g.ID, g.Text, boolStr(g.Completed), strconv.Itoa(core.WeeklyGoalProgress(g))}
			if len(g.SubGoals) == 0 {
				rows = append(rows, append(base, "", "", ""))
				continue
			}
			for _, sg := range g.SubGoals {
				rows = append(rows, append(append([]string(nil), base...), sg.ID, sg.Text, boolStr(sg.Completed)))
			}
		}
	}
	return header, rows, nil
}

func inboxRows(st models.State) ([]string, [][]string, error) {
	header := []string{"id", "text", "created_at"}
	var rows [][]string
	for _, it := range st.Inbox {
		rows = append(rows, []string{it.ID, it.Text, it.CreatedAt.Format(time.RFC3339)})
	}
	return header, rows, nil
}
