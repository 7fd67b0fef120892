// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the day planner as tools for AI assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Planner is the subset of the state store the server needs.
type Planner interface {
	Dispatch(in core.Intent) error
	State() models.State
	Now() time.Time
}

// Server wraps the planner and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	planner     Planner
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server. metricsCalc and alertEngine may be nil
// if the event log is unavailable.
func NewServer(planner Planner, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		planner:     planner,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: "dayplan", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio, blocking until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Bonus     bool     `json:"bonus,omitempty"`
	Blocked   bool     `json:"blocked,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	DependsOn []string `json:"depends_on,omitempty"`
	Origin    string   `json:"origin,omitempty"`
}

type listPlanInput struct{}

type listPlanOutput struct {
	Date    string       `json:"date"`
	Status  string       `json:"status"`
	Score   int          `json:"score"`
	Streak  int          `json:"streak"`
	Tasks   []taskOutput `json:"tasks"`
	Count   int          `json:"count"`
	Pending int          `json:"pending_rollover,omitempty"`
}

type addTaskInput struct {
	Text     string   `json:"text" jsonschema:"required,the task text"`
	Bonus    bool     `json:"bonus,omitempty" jsonschema:"mark the task as bonus work that does not count against the day score"`
	Priority string   `json:"priority,omitempty" jsonschema:"task priority (high, medium, low, none)"`
	Tags     []string `json:"tags,omitempty" jsonschema:"free-form tags"`
}

type addTaskOutput struct {
	ID      string `json:"id"`
	Inbox   bool   `json:"inbox"`
	Message string `json:"message"`
}

type toggleTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the id of a task in today's plan"`
}

type toggleTaskOutput struct {
	TaskID    string `json:"task_id"`
	Completed bool   `json:"completed"`
	Score     int    `json:"score"`
}

type captureInboxInput struct {
	Text string `json:"text" jsonschema:"required,the idea or note to capture"`
}

type inboxItemOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type listInboxInput struct{}

type listInboxOutput struct {
	Items []inboxItemOutput `json:"items"`
	Count int               `json:"count"`
}

type startDayInput struct{}

type messageOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
	EntityKind  string `json:"entity_kind,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_plan",
		Description: "List today's plan with completion, blocked state, the day status and the current score.",
	}, s.handleListPlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a task to today's plan. Once the day has started, non-bonus tasks are captured to the inbox instead.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Toggle completion of a task in today's plan. Tasks with unfinished dependencies cannot be completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "capture_inbox",
		Description: "Capture an idea into the inbox for later processing.",
	}, s.handleCaptureInbox)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_inbox",
		Description: "List unprocessed inbox items.",
	}, s.handleListInbox)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "start_day",
		Description: "Start today's plan. Fails while yesterday's unfinished tasks await a rollover decision.",
	}, s.handleStartDay)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get planner activity aggregated from the event log: tasks, promotions, time logged, idle time by tag.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (deadlines, reviews due, inbox overflow, pending rollover, inactivity).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

// refreshed applies any pending day rollover and returns the resulting state.
func (s *Server) refreshed() (models.State, error) {
	if err := s.planner.Dispatch(core.Refresh{}); err != nil {
		return models.State{}, err
	}
	return s.planner.State(), nil
}

func (s *Server) handleListPlan(_ context.Context, _ *gomcp.CallToolRequest, _ listPlanInput) (*gomcp.CallToolResult, listPlanOutput, error) {
	st, err := s.refreshed()
	if err != nil {
		return errorResult(fmt.Sprintf("loading plan: %s", err)), listPlanOutput{}, nil
	}

	out := listPlanOutput{
		Date:   st.Plan.Date,
		Status: string(core.DayStatus(st)),
		Score:  core.ScoreDay(st),
		Streak: st.Streak.Current,
		Tasks:  make([]taskOutput, len(st.Plan.Tasks)),
		Count:  len(st.Plan.Tasks),
	}
	for i, t := range st.Plan.Tasks {
		out.Tasks[i] = taskToOutput(st, t)
	}
	if st.PendingRollover != nil {
		out.Pending = len(st.PendingRollover.Tasks)
	}
	return nil, out, nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, addTaskOutput, error) {
	if input.Text == "" {
		return errorResult("text is required"), addTaskOutput{}, nil
	}

	before := s.planner.State()
	err := s.planner.Dispatch(core.AddTask{
		Text:     input.Text,
		Bonus:    input.Bonus,
		Priority: models.Priority(input.Priority),
		Tags:     input.Tags,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), addTaskOutput{}, nil
	}

	after := s.planner.State()
	if len(after.Inbox) > len(before.Inbox) {
		item := after.Inbox[len(after.Inbox)-1]
		return nil, addTaskOutput{ID: item.ID, Inbox: true, Message: "day already started, captured to inbox"}, nil
	}
	if n := len(after.Plan.Tasks); n > 0 {
		t := after.Plan.Tasks[n-1]
		return nil, addTaskOutput{ID: t.ID, Message: fmt.Sprintf("task %q added to %s", t.Text, after.Plan.Date)}, nil
	}
	return errorResult("task was not added"), addTaskOutput{}, nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input toggleTaskInput) (*gomcp.CallToolResult, toggleTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), toggleTaskOutput{}, nil
	}

	if err := s.planner.Dispatch(core.ToggleTask{ID: input.TaskID}); err != nil {
		if errors.Is(err, core.ErrBlocked) {
			return errorResult(fmt.Sprintf("task %s is blocked by unfinished dependencies", input.TaskID)), toggleTaskOutput{}, nil
		}
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), toggleTaskOutput{}, nil
	}

	st := s.planner.State()
	for _, t := range st.Plan.Tasks {
		if t.ID == input.TaskID {
			return nil, toggleTaskOutput{TaskID: t.ID, Completed: t.Completed, Score: core.ScoreDay(st)}, nil
		}
	}
	return errorResult(fmt.Sprintf("task %s is not in today's plan", input.TaskID)), toggleTaskOutput{}, nil
}

func (s *Server) handleCaptureInbox(_ context.Context, _ *gomcp.CallToolRequest, input captureInboxInput) (*gomcp.CallToolResult, inboxItemOutput, error) {
	if err := s.planner.Dispatch(core.CaptureInbox{Text: input.Text}); err != nil {
		return errorResult(fmt.Sprintf("capturing to inbox: %s", err)), inboxItemOutput{}, nil
	}
	st := s.planner.State()
	item := st.Inbox[len(st.Inbox)-1]
	return nil, inboxToOutput(item), nil
}

func (s *Server) handleListInbox(_ context.Context, _ *gomcp.CallToolRequest, _ listInboxInput) (*gomcp.CallToolResult, listInboxOutput, error) {
	st, err := s.refreshed()
	if err != nil {
		return errorResult(fmt.Sprintf("loading inbox: %s", err)), listInboxOutput{}, nil
	}
	out := listInboxOutput{Items: make([]inboxItemOutput, len(st.Inbox)), Count: len(st.Inbox)}
	for i, it := range st.Inbox {
		out.Items[i] = inboxToOutput(it)
	}
	return nil, out, nil
}

func (s *Server) handleStartDay(_ context.Context, _ *gomcp.CallToolRequest, _ startDayInput) (*gomcp.CallToolResult, messageOutput, error) {
	if err := s.planner.Dispatch(core.StartDay{}); err != nil {
		if errors.Is(err, core.ErrRolloverPending) {
			return errorResult("resolve yesterday's unfinished tasks before starting the day"), messageOutput{}, nil
		}
		return errorResult(fmt.Sprintf("starting day: %s", err)), messageOutput{}, nil
	}
	st := s.planner.State()
	return nil, messageOutput{Message: fmt.Sprintf("day %s started with %d tasks", st.Plan.Date, len(st.Plan.Tasks))}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, observability.Metrics, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log disabled)"), emptyMetrics(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	since, err := ParseSince(sinceStr, s.planner.Now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetrics(), nil
	}

	m, err := s.metricsCalc.Calculate(since)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetrics(), nil
	}
	return nil, *m, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available"), getAlertsOutput{}, nil
	}
	st, err := s.refreshed()
	if err != nil {
		return errorResult(fmt.Sprintf("loading state: %s", err)), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate(st, s.planner.Now())
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{Alerts: make([]alertOutput, len(alerts)), Count: len(alerts)}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
			EntityKind:  a.EntityKind,
			EntityID:    a.EntityID,
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(st models.State, t models.Task) taskOutput {
	return taskOutput{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Bonus:     t.IsBonus,
		Blocked:   core.TaskBlocked(st, t),
		Priority:  string(t.Priority),
		Tags:      t.Tags,
		DependsOn: t.DependsOn,
		Origin:    core.OriginLabel(st, t),
	}
}

func inboxToOutput(it models.InboxItem) inboxItemOutput {
	return inboxItemOutput{ID: it.ID, Text: it.Text, CreatedAt: it.CreatedAt.Format(time.RFC3339)}
}

func emptyMetrics() observability.Metrics {
	return observability.Metrics{
		PromotionsByOrigin: make(map[string]int),
		IdleSecondsByTag:   make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// ParseSince parses a human-friendly window like "7d", "30d" or "24h" into
// the corresponding time before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must not be negative", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
