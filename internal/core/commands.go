package core

import (
	"strings"
)

// CommandID identifies a command palette entry.
type CommandID int

const (
	CmdAddTask CommandID = iota
	CmdAddGoal
	CmdAddRoutine
	CmdCaptureInbox
	CmdStartDay
	CmdToggleTheme
	CmdExportJSON
)

// Command is a palette entry. Commands that need text take it from the
// palette's input line.
type Command struct {
	ID        CommandID
	Name      string
	Title     string
	Keywords  []string
	NeedsText bool
}

var commands = []Command{
	{ID: CmdAddTask, Name: "add-task", Title: "Add task", Keywords: []string{"new", "plan", "todo"}, NeedsText: true},
	{ID: CmdAddGoal, Name: "add-goal", Title: "Add goal", Keywords: []string{"new", "objective"}, NeedsText: true},
	{ID: CmdAddRoutine, Name: "add-routine", Title: "Add routine item", Keywords: []string{"new", "habit", "recurring"}, NeedsText: true},
	{ID: CmdCaptureInbox, Name: "capture", Title: "Capture to inbox", Keywords: []string{"idea", "note", "inbox"}, NeedsText: true},
	{ID: CmdStartDay, Name: "start-day", Title: "Start day", Keywords: []string{"begin", "lock"}},
	{ID: CmdToggleTheme, Name: "toggle-theme", Title: "Toggle theme", Keywords: []string{"dark", "light", "appearance"}},
	{ID: CmdExportJSON, Name: "export-json", Title: "Export JSON", Keywords: []string{"backup", "download", "save"}},
}

// Commands returns every palette command in display order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// LookupCommand finds a command by its name.
func LookupCommand(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// SearchCommands returns the commands matching every word of query against
// the title, name and keywords, case-insensitively. An empty query matches
// everything.
func SearchCommands(query string) []Command {
	words := strings.Fields(strings.ToLower(query))
	var out []Command
	for _, c := range commands {
		hay := strings.ToLower(c.Title + " " + c.Name + " " + strings.Join(c.Keywords, " "))
		ok := true
		for _, w := range words {
			if !strings.Contains(hay, w) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// CommandIntent maps a command to the intent it triggers. It returns false
// for commands that are not store actions, such as exports.
func CommandIntent(id CommandID, text string) (Intent, bool) {
	switch id {
	case CmdAddTask:
		return AddTask{Text: text}, true
	case CmdAddGoal:
		return AddGoal{Text: text}, true
	case CmdAddRoutine:
		return AddRoutineTask{Text: text}, true
	case CmdCaptureInbox:
		return CaptureInbox{Text: text}, true
	case CmdStartDay:
		return StartDay{}, true
	case CmdToggleTheme:
		return ToggleTheme{}, true
	case CmdExportJSON:
		return nil, false
	}
	return nil, false
}
