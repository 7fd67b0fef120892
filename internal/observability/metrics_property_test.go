package observability

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// For any sequence of time.logged and idle.logged events, the calculated
// totals equal the sum of the logged seconds.
func TestMetricsTotalsMatchLoggedSeconds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir := t.TempDir()
		el, err := NewJSONLEventLog(filepath.Join(dir, fmt.Sprintf("events-%d.jsonl", time.Now().UnixNano())))
		if err != nil {
			t.Fatalf("creating event log: %v", err)
		}
		defer el.Close()

		base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		tags := []string{"Break", "Meeting", "Unproductive", "Other"}
		n := rapid.IntRange(1, 25).Draw(rt, "n")

		wantLogged := 0
		wantIdle := map[string]int{}
		for i := 0; i < n; i++ {
			secs := rapid.IntRange(1, 7200).Draw(rt, fmt.Sprintf("secs_%d", i))
			ev := Event{Time: base.Add(time.Duration(i) * time.Minute)}
			if rapid.Bool().Draw(rt, fmt.Sprintf("idle_%d", i)) {
				tag := rapid.SampledFrom(tags).Draw(rt, fmt.Sprintf("tag_%d", i))
				ev.Type = EventIdleLogged
				ev.Data = map[string]any{"tag": tag, "seconds": secs}
				wantIdle[tag] += secs
			} else {
				ev.Type = EventTimeLogged
				ev.Data = map[string]any{"task_id": "t", "seconds": secs}
				wantLogged += secs
			}
			if err := el.Write(ev); err != nil {
				t.Fatalf("writing event: %v", err)
			}
		}

		m, err := NewMetricsCalculator(el).Calculate(base)
		if err != nil {
			t.Fatalf("calculating metrics: %v", err)
		}
		if m.TimeLoggedSeconds != wantLogged {
			rt.Errorf("TimeLoggedSeconds = %d, want %d", m.TimeLoggedSeconds, wantLogged)
		}
		for tag, want := range wantIdle {
			if m.IdleSecondsByTag[tag] != want {
				rt.Errorf("IdleSecondsByTag[%s] = %d, want %d", tag, m.IdleSecondsByTag[tag], want)
			}
		}
		if m.EventCount != n {
			rt.Errorf("EventCount = %d, want %d", m.EventCount, n)
		}
	})
}
