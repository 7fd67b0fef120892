package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

func sampleState() *models.State {
	created := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	st := models.NewState("2024-01-02")
	st.Plan.Tasks = []models.Task{
		{ID: "t1", Text: "Write report", CreatedAt: created},
		{ID: "t2", Text: "Send report", DependsOn: []string{"t1"}, CreatedAt: created},
	}
	st.Inbox = []models.InboxItem{{ID: "i1", Text: "Call bank", CreatedAt: created}}
	st.Goals = []models.Goal{{ID: "g1", Text: "Run a marathon", Deadline: "2024-06-01", CreatedAt: created}}
	st.Normalize()
	return &st
}

func TestStateStore_LoadMissing(t *testing.T) {
	store := NewStateStore(t.TempDir())

	st, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil state for a fresh directory, got %+v", st)
	}
}

func TestStateStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	if err := store.Save(sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected document at %s: %v", store.Path(), err)
	}
	if _, err := os.Stat(filepath.Join(dir, LockFileName)); err != nil {
		t.Errorf("expected lock file: %v", err)
	}

	// A second store over the same directory sees the saved document.
	got, err := NewStateStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || len(got.Plan.Tasks) != 2 {
		t.Fatalf("expected two plan tasks, got %+v", got)
	}
	if got.Plan.Tasks[1].DependsOn[0] != "t1" {
		t.Errorf("dependency lost: %+v", got.Plan.Tasks[1])
	}
	if got.Inbox[0].Text != "Call bank" || got.Goals[0].Deadline != "2024-06-01" {
		t.Errorf("collections not restored: %+v", got)
	}
}

func TestStateStore_SaveNil(t *testing.T) {
	if err := NewStateStore(t.TempDir()).Save(nil); err == nil {
		t.Fatal("expected error for nil state")
	}
}

func TestStateStore_CorruptFallsBackToBackup(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	first := sampleState()
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}
	second := sampleState()
	second.Inbox = append(second.Inbox, models.InboxItem{ID: "i2", Text: "Second", CreatedAt: time.Now()})
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewStateStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() should fall back to the backup, got %v", err)
	}
	if len(got.Inbox) != 1 {
		t.Errorf("backup should hold the first document, inbox = %+v", got.Inbox)
	}
}

func TestStateStore_CorruptWithoutBackup(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)
	if err := os.WriteFile(store.Path(), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); !errors.Is(err, core.ErrInvalidImport) {
		t.Fatalf("Load() error = %v, want ErrInvalidImport", err)
	}
}

func TestDecodeState(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty object gets defaults", doc: `{}`},
		{name: "array is rejected", doc: `[]`, wantErr: "not a JSON object"},
		{name: "wrong collection type", doc: `{"inbox": "x"}`, wantErr: `"inbox"`},
		{name: "task without text", doc: `{"plan": {"date": "2024-01-02", "tasks": [{"id": "a"}]}}`, wantErr: "without text"},
		{name: "bad plan date", doc: `{"plan": {"date": "02/01/2024"}}`, wantErr: "plan date"},
		{name: "malformed json", doc: `{"plan":`, wantErr: "invalid"},
		{name: "dependency cycle", doc: `{"plan": {"date": "2024-01-02", "tasks": [{"id": "a", "text": "A", "dependsOn": ["b"]}, {"id": "b", "text": "B", "dependsOn": ["a"]}]}}`, wantErr: "cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := DecodeState([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if st.Inbox == nil || st.Plan.Tasks == nil || st.Theme != models.ThemeDark {
					t.Errorf("defaults not applied: %+v", st)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, core.ErrInvalidImport) {
				t.Errorf("error should wrap ErrInvalidImport: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	data, err := EncodeState(sampleState())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := ReadStateFile(path)
	if err != nil {
		t.Fatalf("ReadStateFile() error = %v", err)
	}
	if len(st.Goals) != 1 {
		t.Errorf("goals = %+v", st.Goals)
	}

	if _, err := ReadStateFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestStateStore_SaveKeepsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)
	if err := os.WriteFile(store.Path(), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.Save(sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, CorruptKey))
	if err != nil {
		t.Fatalf("corrupt document should be kept: %v", err)
	}
	if string(data) != "{broken" {
		t.Errorf("corrupt copy = %q", data)
	}
}

func TestStateStore_LoadedParentsFollowChildren(t *testing.T) {
	dir := t.TempDir()
	st := sampleState()
	st.Goals[0].SubGoals = []models.SubGoal{{ID: "s1", Text: "Run 10k", Completed: true}}
	st.Goals[0].Completed = false
	if err := NewStateStore(dir).Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)
	store := core.NewStore(core.StoreOptions{
		Persister: NewStateStore(dir),
		Now:       func() time.Time { return now },
	})
	store.Initialize()

	got := store.State()
	if len(got.Goals) != 1 || !got.Goals[0].Completed {
		t.Errorf("goals = %+v, want g1 completed from its sub-goal", got.Goals)
	}
}
