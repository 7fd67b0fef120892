package core

import (
	"reflect"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

func TestIsBlocked(t *testing.T) {
	siblings := []models.Task{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c", DependsOn: []string{"a"}},
		{ID: "d", DependsOn: []string{"a", "b"}},
		{ID: "e", DependsOn: []string{"gone"}},
		{ID: "f"},
	}
	want := map[string]bool{"a": false, "b": false, "c": false, "d": true, "e": false, "f": false}
	for _, task := range siblings {
		if got := IsBlocked(task, siblings); got != want[task.ID] {
			t.Errorf("IsBlocked(%s) = %v, want %v", task.ID, got, want[task.ID])
		}
	}
	if got := BlockedBy(siblings[3], siblings); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("BlockedBy(d) = %v, want [b]", got)
	}
}

func TestIsBlocked_AppliesToEveryCollection(t *testing.T) {
	subs := []models.SubGoal{{ID: "s1"}, {ID: "s2", DependsOn: []string{"s1"}}}
	if !IsBlocked(subs[1], subs) {
		t.Error("sub-goal should be blocked")
	}
	routine := []models.RoutineTask{{ID: "r1", Completed: true}, {ID: "r2", DependsOn: []string{"r1"}}}
	if IsBlocked(routine[1], routine) {
		t.Error("routine item should not be blocked")
	}
}

func TestWouldCycle(t *testing.T) {
	siblings := []models.SubTask{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"b"}},
	}
	tests := []struct {
		name string
		id   string
		deps []string
		want bool
	}{
		{"no deps", "a", nil, false},
		{"self", "a", []string{"a"}, true},
		{"direct back edge", "a", []string{"b"}, true},
		{"transitive back edge", "a", []string{"c"}, true},
		{"forward edge", "c", []string{"a"}, false},
		{"unknown id", "a", []string{"zzz"}, false},
		{"new entity", "new", []string{"c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCycle(tt.id, tt.deps, siblings); got != tt.want {
				t.Errorf("WouldCycle(%s, %v) = %v, want %v", tt.id, tt.deps, got, tt.want)
			}
		})
	}
}
