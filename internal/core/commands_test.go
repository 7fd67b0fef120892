package core

import (
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

func TestSearchCommands(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"add-task", "add-goal", "add-routine", "capture", "start-day", "toggle-theme", "export-json"}},
		{"theme", []string{"toggle-theme"}},
		{"DARK", []string{"toggle-theme"}},
		{"add new", []string{"add-task", "add-goal", "add-routine"}},
		{"habit", []string{"add-routine"}},
		{"backup", []string{"export-json"}},
		{"nothing matches this", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := SearchCommands(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchCommands(%q) = %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i, c := range got {
				if c.Name != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, c.Name, tt.want[i])
				}
			}
		})
	}
}

func TestLookupCommand(t *testing.T) {
	c, ok := LookupCommand("capture")
	if !ok || c.ID != CmdCaptureInbox || !c.NeedsText {
		t.Errorf("LookupCommand(capture) = %+v, %v", c, ok)
	}
	if _, ok := LookupCommand("rm-rf"); ok {
		t.Error("unknown command should not be found")
	}
	cmds := Commands()
	cmds[0].Name = "mutated"
	if Commands()[0].Name != "add-task" {
		t.Error("Commands should return a copy")
	}
}

func TestCommandIntent(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	for _, name := range []string{"add-task", "add-goal", "add-routine", "capture", "toggle-theme", "start-day"} {
		c, _ := LookupCommand(name)
		in, ok := CommandIntent(c.ID, "From the palette")
		if !ok {
			t.Fatalf("%s should map to an intent", name)
		}
		mustDispatch(t, s, in)
	}

	st := s.State()
	if len(st.Plan.Tasks) != 1 || len(st.Goals) != 1 || len(st.RoutineTasks) != 1 || len(st.Inbox) != 1 {
		t.Errorf("palette commands did not land: %+v", st)
	}
	if st.Theme != models.ThemeLight || !st.Plan.Started {
		t.Errorf("theme = %s, started = %v", st.Theme, st.Plan.Started)
	}

	if _, ok := CommandIntent(CmdExportJSON, ""); ok {
		t.Error("export is not a store action")
	}
}

func TestAchievements_Catalogue(t *testing.T) {
	seen := map[models.AchievementID]bool{}
	for _, a := range Achievements() {
		if a.Title == "" || a.Description == "" || seen[a.ID] {
			t.Errorf("bad catalogue entry %+v", a)
		}
		seen[a.ID] = true
	}
	if len(seen) != 7 {
		t.Errorf("catalogue has %d entries, want 7", len(seen))
	}
}

func TestAchievements_UnlockOnce(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	id := addTask(t, s, "First")
	mustDispatch(t, s, ToggleTask{ID: id})
	mustDispatch(t, s, ToggleTask{ID: id})
	mustDispatch(t, s, ToggleTask{ID: id})

	count := 0
	for _, a := range s.State().Achievements {
		if a.ID == models.AchievementFirstTask {
			count++
		}
	}
	if count != 1 {
		t.Errorf("first_task unlocked %d times", count)
	}
	if !HasAchievement(s.State(), models.AchievementPerfectDay) {
		t.Error("completing the only task makes a perfect day")
	}
	if HasAchievement(s.State(), models.AchievementOverachiever) {
		t.Error("no bonus task was done")
	}

	bonus := AddTask{Text: "Extra", Bonus: true}
	mustDispatch(t, s, bonus)
	tasks := s.State().Plan.Tasks
	mustDispatch(t, s, ToggleTask{ID: tasks[len(tasks)-1].ID})
	if !HasAchievement(s.State(), models.AchievementOverachiever) {
		t.Error("a perfect day with a bonus task scores over 100")
	}
}

func TestAchievements_InboxZeroNeedsProcessing(t *testing.T) {
	s := newTestStore(t, "2024-01-02")
	mustDispatch(t, s, Refresh{})
	if HasAchievement(s.State(), models.AchievementInboxZero) {
		t.Fatal("an inbox that was always empty does not count")
	}
	mustDispatch(t, s, CaptureInbox{Text: "Idea"})
	mustDispatch(t, s, DeleteInboxItem{ID: s.State().Inbox[0].ID})
	if !HasAchievement(s.State(), models.AchievementInboxZero) {
		t.Error("clearing the inbox should unlock inbox zero")
	}
}
