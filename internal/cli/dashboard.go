package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/export"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Dashboard panels.
type dashPanel int

const (
	panelToday dashPanel = iota
	panelRoutine
	panelGoals
	panelInbox
	panelCount
)

var panelTitles = [panelCount]string{"Today", "Routine", "Goals", "Inbox"}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modePalette
	modeIdle
)

// Messages pushed into the program from store, timer and idle callbacks.
type (
	stateMsg models.State
	timerMsg core.TimerState
	idleMsg  struct {
		state   core.IdleState
		seconds int
	}
)

type dashRow struct {
	id      string
	text    string
	done    bool
	blocked bool
	note    string
}

type dashboardModel struct {
	store   *core.Store
	session *core.Session
	alerter observability.AlertEngine
	now     func() time.Time

	state    models.State
	alerts   []observability.Alert
	timer    core.TimerState
	idle     core.IdleState
	idleSecs int

	panel   dashPanel
	cursor  [panelCount]int
	mode    inputMode
	idleTag models.IdleTag
	input   textinput.Model
	status  string

	width  int
	height int
}

type dashTheme struct {
	accent  lipgloss.Color
	border  lipgloss.Color
	text    lipgloss.Color
	subtle  lipgloss.Color
	done    lipgloss.Color
	blocked lipgloss.Color
	warn    lipgloss.Color
}

var themes = map[models.Theme]dashTheme{
	models.ThemeDark: {
		accent: "62", border: "240", text: "252", subtle: "241",
		done: "46", blocked: "196", warn: "226",
	},
	models.ThemeLight: {
		accent: "25", border: "250", text: "235", subtle: "245",
		done: "28", blocked: "160", warn: "130",
	},
}

func newDashboardModel(store *core.Store, session *core.Session, alerter observability.AlertEngine) dashboardModel {
	ti := textinput.New()
	ti.CharLimit = 200
	m := dashboardModel{
		store:   store,
		session: session,
		alerter: alerter,
		now:     time.Now,
		input:   ti,
	}
	if store != nil {
		m.now = store.Now
		m.state = store.State()
	}
	if session != nil {
		m.timer = session.Timer.State()
		m.idle, m.idleSecs = session.Idle.Status()
	}
	m.refreshAlerts()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = models.State(msg)
		m.clampCursors()
		m.refreshAlerts()
		return m, nil

	case timerMsg:
		m.timer = core.TimerState(msg)
		return m, nil

	case idleMsg:
		m.idle, m.idleSecs = msg.state, msg.seconds
		return m, nil

	case tea.KeyMsg:
		if m.session != nil {
			m.session.Activity(m.now())
		}
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m dashboardModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.idle == core.IdleReviewPending {
		switch msg.String() {
		case "p":
			return m.openInput(modeIdle, "What were you doing? (productive)", models.IdleProductive)
		case "u":
			return m.openInput(modeIdle, "What were you doing? (unproductive)", models.IdleUnproductive)
		case "esc":
			m.report(m.session.Idle.Dismiss(), "Idle time logged as unattended.")
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.panel = (m.panel + 1) % panelCount
	case "shift+tab":
		m.panel = (m.panel - 1 + panelCount) % panelCount
	case "down", "j":
		if m.cursor[m.panel] < len(m.rows(m.panel))-1 {
			m.cursor[m.panel]++
		}
	case "up", "k":
		if m.cursor[m.panel] > 0 {
			m.cursor[m.panel]--
		}
	case " ", "x", "enter":
		m.toggleSelected()
	case "d":
		m.deleteSelected()
	case "a":
		return m.openInput(modeAdd, addPrompt(m.panel), "")
	case ":", "ctrl+p":
		return m.openInput(modePalette, "command (e.g. add-task Write report)", "")
	case "s":
		m.do(core.StartDay{}, "Day started.")
	case "t":
		m.startTimer()
	case "T":
		if m.session != nil && m.timer.Active {
			m.session.StopTimer()
			m.status = "Timer stopped."
		}
	case "L":
		m.do(core.ToggleTheme{}, "")
	case "r":
		m.do(core.Refresh{}, "")
	}
	return m, nil
}

func (m dashboardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		mode, tag := m.mode, m.idleTag
		m.closeInput()
		switch mode {
		case modeAdd:
			m.addItem(text)
		case modePalette:
			m.runPalette(text)
		case modeIdle:
			if text == "" {
				text = "Away"
			}
			m.report(m.session.Idle.Submit(text, tag), "Idle time logged.")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m dashboardModel) openInput(mode inputMode, placeholder string, tag models.IdleTag) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.idleTag = tag
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.status = ""
	return m, m.input.Focus()
}

func (m *dashboardModel) closeInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
}

func addPrompt(p dashPanel) string {
	switch p {
	case panelRoutine:
		return "new routine item (every day)"
	case panelGoals:
		return "new short-term goal"
	case panelInbox:
		return "capture to inbox"
	}
	return "new task"
}

// do dispatches in and reports the outcome in the status line.
func (m *dashboardModel) do(in core.Intent, ok string) {
	if m.store == nil {
		return
	}
	m.report(m.store.Dispatch(in), ok)
	m.state = m.store.State()
	m.clampCursors()
}

func (m *dashboardModel) report(err error, ok string) {
	switch {
	case err == nil:
		m.status = ok
	case errors.Is(err, core.ErrBlocked):
		m.status = "Blocked: finish its dependencies first."
	case errors.Is(err, core.ErrRolloverPending):
		m.status = "Resolve yesterday's tasks first: dayplan day rollover"
	case errors.Is(err, core.ErrHasChildren):
		m.status = "Complete it through its sub-items."
	default:
		m.status = "Error: " + err.Error()
	}
}

func (m *dashboardModel) addItem(text string) {
	if text == "" {
		return
	}
	switch m.panel {
	case panelToday:
		before := len(m.state.Inbox)
		m.do(core.AddTask{Text: text}, "Task added.")
		if len(m.state.Inbox) > before {
			m.status = "Day started: captured to inbox."
		}
	case panelRoutine:
		m.do(core.AddRoutineTask{Text: text}, "Routine item added.")
	case panelGoals:
		m.do(core.AddGoal{Text: text}, "Goal added.")
	case panelInbox:
		m.do(core.CaptureInbox{Text: text}, "Captured.")
	}
}

func (m *dashboardModel) runPalette(line string) {
	name, text, _ := strings.Cut(line, " ")
	c, ok := core.LookupCommand(name)
	if !ok {
		matches := core.SearchCommands(name)
		if len(matches) != 1 {
			m.status = fmt.Sprintf("%d commands match %q", len(matches), name)
			return
		}
		c = matches[0]
	}
	if c.NeedsText && strings.TrimSpace(text) == "" {
		m.status = c.Title + " needs text."
		return
	}
	in, ok := core.CommandIntent(c.ID, text)
	if ok {
		m.do(in, c.Title+": done.")
		return
	}
	path, err := m.exportJSON()
	m.report(err, "Exported to "+path)
}

func (m *dashboardModel) exportJSON() (string, error) {
	dir := BasePath
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("dayplan-%s.json", m.state.Plan.Date))
	f, err := os.Create(path)
	if err != nil {
		return path, err
	}
	defer f.Close()
	exp, err := export.New(export.FormatJSON)
	if err != nil {
		return path, err
	}
	return path, exp.Export(f, m.state)
}

func (m *dashboardModel) selected() (dashRow, bool) {
	rows := m.rows(m.panel)
	i := m.cursor[m.panel]
	if i < 0 || i >= len(rows) {
		return dashRow{}, false
	}
	return rows[i], true
}

func (m *dashboardModel) toggleSelected() {
	r, ok := m.selected()
	if !ok {
		return
	}
	switch m.panel {
	case panelToday:
		m.do(core.ToggleTask{ID: r.id}, "")
	case panelRoutine:
		m.do(core.ToggleRoutineTask{ID: r.id}, "")
	case panelGoals:
		m.do(core.ToggleGoal{ID: r.id}, "")
	case panelInbox:
		m.do(core.ProcessInbox{ItemID: r.id, Action: core.InboxToTask}, "Moved to today's plan.")
	}
}

func (m *dashboardModel) deleteSelected() {
	r, ok := m.selected()
	if !ok {
		return
	}
	switch m.panel {
	case panelToday:
		m.do(core.DeleteTask{ID: r.id}, "Task deleted.")
	case panelRoutine:
		m.do(core.DeleteRoutineTask{ID: r.id}, "Routine item deleted.")
	case panelGoals:
		m.do(core.DeleteGoal{ID: r.id}, "Goal deleted.")
	case panelInbox:
		m.do(core.DeleteInboxItem{ID: r.id}, "Inbox item deleted.")
	}
}

func (m *dashboardModel) startTimer() {
	if m.session == nil || (m.panel != panelToday && m.panel != panelRoutine) {
		return
	}
	r, ok := m.selected()
	if !ok || r.done {
		return
	}
	m.session.StartTimer(r.id, r.text, 0)
	m.status = "Timer started: " + r.text
}

func (m *dashboardModel) clampCursors() {
	for p := dashPanel(0); p < panelCount; p++ {
		n := len(m.rows(p))
		if m.cursor[p] >= n {
			m.cursor[p] = n - 1
		}
		if m.cursor[p] < 0 {
			m.cursor[p] = 0
		}
	}
}

func (m *dashboardModel) refreshAlerts() {
	if m.alerter == nil {
		return
	}
	alerts, err := m.alerter.Evaluate(m.state, m.now())
	if err != nil {
		return
	}
	m.alerts = alerts
}

func (m dashboardModel) rows(p dashPanel) []dashRow {
	st := m.state
	var rows []dashRow
	switch p {
	case panelToday:
		for _, t := range st.Plan.Tasks {
			var notes []string
			if t.IsBonus {
				notes = append(notes, "bonus")
			}
			if label := core.OriginLabel(st, t); label != "" {
				notes = append(notes, label)
			}
			rows = append(rows, dashRow{
				id: t.ID, text: t.Text, done: t.Completed,
				blocked: core.TaskBlocked(st, t), note: strings.Join(notes, ", "),
			})
		}
	case panelRoutine:
		day, err := time.ParseInLocation(models.DateLayout, st.Plan.Date, time.Local)
		for _, r := range st.RoutineTasks {
			if err == nil && !r.ScheduledOn(day.Weekday()) {
				continue
			}
			rows = append(rows, dashRow{
				id: r.ID, text: r.Text, done: r.Completed,
				blocked: core.IsBlocked(r, st.RoutineTasks),
			})
		}
	case panelGoals:
		for _, g := range core.ActiveGoals(st) {
			note := fmt.Sprintf("%d%%", core.GoalProgress(g))
			if g.Deadline != "" {
				note += " due " + g.Deadline
			}
			rows = append(rows, dashRow{id: g.ID, text: g.Text, done: g.Completed, note: note})
		}
	case panelInbox:
		for _, it := range st.Inbox {
			rows = append(rows, dashRow{id: it.ID, text: it.Text})
		}
	}
	return rows
}

func (m dashboardModel) View() string {
	th, ok := themes[m.state.Theme]
	if !ok {
		th = themes[models.ThemeDark]
	}
	title := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("230")).Background(th.accent).Padding(0, 1).
		Render(fmt.Sprintf(" dayplan %s ", m.state.Plan.Date))
	subtle := lipgloss.NewStyle().Foreground(th.subtle)

	threshold := streakThreshold()
	summary := fmt.Sprintf("%s  score %d%%  streak %d  inbox %d",
		core.DayStatus(m.state), core.ScoreDay(m.state),
		core.LiveStreak(m.state, m.state.Plan.Date, threshold), len(m.state.Inbox))

	var b strings.Builder
	b.WriteString(title + "  " + subtle.Render(summary) + "\n")
	if line := m.timerLine(th); line != "" {
		b.WriteString(line + "\n")
	}
	if pr := m.state.PendingRollover; pr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(th.warn).
			Render(fmt.Sprintf("%d unfinished from %s: run dayplan day rollover", len(pr.Tasks), pr.FromDate)) + "\n")
	}
	b.WriteString("\n" + m.renderPanels(th) + "\n")

	if len(m.alerts) > 0 {
		a := m.alerts[0]
		more := ""
		if len(m.alerts) > 1 {
			more = fmt.Sprintf(" (+%d more)", len(m.alerts)-1)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(th.warn).Render("! "+a.Message+more) + "\n")
	}
	if m.mode != modeNormal {
		b.WriteString(m.input.View() + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(subtle.Render(m.helpLine()))
	return b.String()
}

func (m dashboardModel) timerLine(th dashTheme) string {
	switch {
	case m.idle == core.IdleReviewPending:
		return lipgloss.NewStyle().Bold(true).Foreground(th.warn).Render(
			fmt.Sprintf("Away for %s. p: productive  u: unproductive  esc: dismiss", formatSeconds(m.idleSecs)))
	case m.idle == core.IdleTracking:
		return lipgloss.NewStyle().Foreground(th.warn).Render("Idle " + formatSeconds(m.idleSecs))
	case m.timer.Active:
		return lipgloss.NewStyle().Foreground(th.done).Render(
			fmt.Sprintf("Focus: %s  %s left", m.timer.TaskName, formatSeconds(m.timer.RemainingSeconds)))
	}
	return ""
}

func (m dashboardModel) helpLine() string {
	if m.mode != modeNormal {
		return "enter: confirm | esc: cancel"
	}
	return "tab: panel | j/k: move | space: toggle | a: add | d: delete | s: start day | t/T: timer | :: palette | L: theme | q: quit"
}

func (m dashboardModel) renderPanels(th dashTheme) string {
	width := m.width - 2
	if width <= 0 {
		width = 80
	}
	cols := 1
	if width >= 100 {
		cols = 2
	}
	panelWidth := width/cols - 4
	if panelWidth < 20 {
		panelWidth = 20
	}

	rendered := make([]string, panelCount)
	for p := dashPanel(0); p < panelCount; p++ {
		border := th.border
		if p == m.panel {
			border = th.accent
		}
		style := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(panelWidth)
		rendered[p] = style.Render(m.renderPanel(p, th))
	}
	if cols == 1 {
		return lipgloss.JoinVertical(lipgloss.Left, rendered...)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[panelToday], rendered[panelRoutine])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, rendered[panelGoals], rendered[panelInbox])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m dashboardModel) renderPanel(p dashPanel, th dashTheme) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(th.accent)
	text := lipgloss.NewStyle().Foreground(th.text)
	subtle := lipgloss.NewStyle().Foreground(th.subtle)

	rows := m.rows(p)
	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%s (%d)", panelTitles[p], len(rows))) + "\n")
	if len(rows) == 0 {
		b.WriteString(subtle.Render("  nothing here"))
		return b.String()
	}
	for i, r := range rows {
		pointer := "  "
		if p == m.panel && i == m.cursor[p] {
			pointer = "> "
		}
		box := "[ ]"
		style := text
		switch {
		case r.done:
			box = "[x]"
			style = lipgloss.NewStyle().Foreground(th.done)
		case r.blocked:
			box = "[!]"
			style = lipgloss.NewStyle().Foreground(th.blocked)
		}
		if p == panelInbox {
			box = "-"
		}
		line := pointer + style.Render(box+" "+r.text)
		if r.note != "" {
			line += " " + subtle.Render(r.note)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive planner: today, routine, goals and inbox",
	Long: `Launch the interactive planner. It shows today's plan, the routine items
scheduled today, active goals and the inbox, with a focus timer and idle
detection running while it is open.

Navigate panels with Tab, move with j/k, toggle with space, add with a,
open the command palette with ":" and quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}
		cfg := core.DefaultGlobalConfig()
		if Config != nil {
			cfg = Config
		}
		sess := core.NewSession(Store, core.NewTickerScheduler(), *cfg)
		defer sess.Close()

		if err := Store.Dispatch(core.Refresh{}); err != nil {
			return fmt.Errorf("refreshing state: %w", err)
		}
		p := tea.NewProgram(newDashboardModel(Store, sess, AlertEngine), tea.WithAltScreen())

		unsubscribe := Store.Subscribe(func(st models.State) { p.Send(stateMsg(st)) })
		defer unsubscribe()
		sess.Timer.OnChange(func(ts core.TimerState) { p.Send(timerMsg(ts)) })
		sess.Idle.OnChange(func(s core.IdleState, secs int) { p.Send(idleMsg{state: s, seconds: secs}) })
		sess.Run()

		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
