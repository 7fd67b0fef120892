package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"check":           check,
	"goalProgress":    core.GoalProgress,
	"projectProgress": core.ProjectProgress,
	"weeklyProgress":  core.WeeklyGoalProgress,
	"score":           core.ScoreDay,
	"duration":        formatDuration,
	"join":            strings.Join,
	"phase":           core.DayStatus,
}).Parse(`# Day {{.Plan.Date}}

Status: {{phase .}} | Score: {{score .}}% | Streak: {{.Streak.Current}} (longest {{.Streak.Longest}})

## Tasks
{{range .Plan.Tasks}}- {{check .Completed}} {{.Text}}{{if .IsBonus}} (bonus){{end}}{{if .Tags}} [{{join .Tags ", "}}]{{end}}
{{else}}_No tasks planned._
{{end}}
## Routine
{{range .RoutineTasks}}- {{check .Completed}} {{.Text}}
{{else}}_No routine items._
{{end}}
## Goals
{{range .Goals}}{{if not .Archived}}### {{.Text}} ({{.Category}}, {{goalProgress .}}%){{if .Deadline}} due {{.Deadline}}{{end}}
{{range .SubGoals}}- {{check .Completed}} {{.Text}}
{{end}}
{{end}}{{end}}
## Projects
{{range .Projects}}{{if not .Archived}}### {{.Text}} ({{projectProgress .}}%){{if .Deadline}} due {{.Deadline}}{{end}}
{{range .SubTasks}}- {{check .Completed}} {{.Text}}
{{end}}
{{end}}{{end}}
{{with .WeeklyPlan}}## Week of {{.WeekStartDate}}
{{range .Goals}}- {{check .Completed}} {{.Text}} ({{weeklyProgress .}}%)
{{end}}
{{end}}## Inbox
{{range .Inbox}}- {{.Text}}
{{else}}_Inbox is empty._
{{end}}
## Time Log
{{range .Logs}}- {{.Day}} {{.TaskName}}: {{duration .DurationSeconds}}
{{end}}
## Reflections
{{range .Reflections}}### {{.Date}}
{{if .WentWell}}- Went well: {{.WentWell}}
{{end}}{{if .ToImprove}}- To improve: {{.ToImprove}}
{{end}}{{if .Notes}}- Notes: {{.Notes}}
{{end}}
{{end}}
## Performance
{{range .Performance}}- {{.Date}}: {{.Score}}%
{{end}}`))

type markdownExporter struct{}

// Export writes a human-readable summary of the day, goals, projects and
// reflections.
func (markdownExporter) Export(w io.Writer, st models.State) error {
	if err := summaryTemplate.Execute(w, st); err != nil {
		return fmt.Errorf("rendering markdown export: %w", err)
	}
	return nil
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
