package core

import (
	"math"
	"sort"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// DayTally counts the work of one plan day. Eligible items are non-bonus
// plan tasks plus the routine items scheduled on the plan's weekday.
// Completed counts every completed plan task, bonus tasks included, so a
// day can score above 100.
type DayTally struct {
	Eligible     int
	EligibleDone int
	Completed    int
	Bonus        int
}

// Perfect reports whether every eligible item was completed.
func (t DayTally) Perfect() bool {
	return t.Eligible > 0 && t.EligibleDone == t.Eligible
}

// Score converts the tally to a percentage. A day with nothing eligible
// scores 100 if anything was completed and 0 otherwise.
func (t DayTally) Score() int {
	if t.Eligible == 0 {
		if t.Completed > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(t.Completed) / float64(t.Eligible) * 100))
}

// TallyDay counts today's plan and the routine items scheduled for its date.
func TallyDay(st models.State) DayTally {
	var t DayTally
	for _, task := range st.Plan.Tasks {
		if task.IsBonus {
			t.Bonus++
		} else {
			t.Eligible++
		}
		if task.Completed {
			t.Completed++
			if !task.IsBonus {
				t.EligibleDone++
			}
		}
	}
	if day, ok := parseDay(st.Plan.Date); ok {
		for _, r := range st.RoutineTasks {
			if !r.ScheduledOn(day.Weekday()) {
				continue
			}
			t.Eligible++
			if r.Completed {
				t.Completed++
				t.EligibleDone++
			}
		}
	}
	return t
}

// ScoreDay returns the performance score of the state's plan day.
func ScoreDay(st models.State) int {
	return TallyDay(st).Score()
}

// upsertPerformance records score for date, replacing any existing record
// for the same date. Records stay sorted by date.
func upsertPerformance(st *models.State, date string, score int) {
	for i := range st.Performance {
		if st.Performance[i].Date == date {
			st.Performance[i].Score = score
			return
		}
	}
	st.Performance = append(st.Performance, models.PerformanceRecord{Date: date, Score: score})
	sort.SliceStable(st.Performance, func(i, j int) bool {
		return st.Performance[i].Date < st.Performance[j].Date
	})
}

// PerformanceBetween returns the records with from <= date <= to.
func PerformanceBetween(st models.State, from, to string) []models.PerformanceRecord {
	var out []models.PerformanceRecord
	for _, r := range st.Performance {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out
}

// AverageScore returns the rounded mean score of records, or 0 when empty.
func AverageScore(records []models.PerformanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(records))))
}
