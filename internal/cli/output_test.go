package cli

import (
	"strings"
	"testing"
)

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr string
	}{
		{"position", "2", "abd456", ""},
		{"full id", "xyz789", "xyz789", ""},
		{"unique prefix", "abc", "abc123", ""},
		{"ambiguous prefix", "ab", "", "ambiguous"},
		{"position out of range", "4", "", "no task at position 4"},
		{"zero position", "0", "", "no task at position 0"},
		{"no match", "q", "", "no task matches"},
		{"empty", " ", "", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID("task", tt.arg, ids)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("resolveID(%q) error = %v, want containing %q", tt.arg, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveID(%q) unexpected error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("resolveID(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	got, err := parseWeekdays([]string{"mon", "Wednesday", "0", " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 3, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %d, want %d", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"7", "-1", "funday", "mo"} {
		if _, err := parseWeekdays([]string{bad}); err == nil {
			t.Errorf("parseWeekdays(%q) should fail", bad)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"25m", 1500, true},
		{"1h30m", 5400, true},
		{"45", 2700, true},
		{"90s", 90, true},
		{"0m", 0, false},
		{"-5m", 0, false},
		{"soon", 0, false},
	}
	for _, tt := range tests {
		got, err := parseSeconds(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("parseSeconds(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := map[int]string{
		0:    "0s",
		59:   "59s",
		61:   "1m01s",
		3600: "1h00m",
		5430: "1h30m",
	}
	for in, want := range tests {
		if got := formatSeconds(in); got != want {
			t.Errorf("formatSeconds(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50); got != "[#####-----] 50%" {
		t.Errorf("progressBar(50) = %q", got)
	}
	if got := progressBar(100); got != "[##########] 100%" {
		t.Errorf("progressBar(100) = %q", got)
	}
}

func TestParseCategoryAndIdleTag(t *testing.T) {
	if c, err := parseCategory("long-term"); err != nil || c != "Long Term" {
		t.Errorf("parseCategory(long-term) = %q, %v", c, err)
	}
	if _, err := parseCategory("medium"); err == nil {
		t.Error("parseCategory(medium) should fail")
	}
	if tag, err := parseIdleTag("U"); err != nil || tag != "Unproductive" {
		t.Errorf("parseIdleTag(U) = %q, %v", tag, err)
	}
	if _, err := parseIdleTag("meh"); err == nil {
		t.Error("parseIdleTag(meh) should fail")
	}
}
