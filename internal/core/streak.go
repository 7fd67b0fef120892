package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AdvanceStreak folds the score of date into s. A day qualifies when its
// score exceeds threshold. A qualifying day directly after LastActivityDate
// extends the run; any other qualifying day starts a new run of one. A
// non-qualifying day ends the run. Longest never decreases.
func AdvanceStreak(s models.Streak, date string, score, threshold int) models.Streak {
	if score > threshold {
		switch {
		case s.LastActivityDate == date:
			if s.Current == 0 {
				s.Current = 1
			}
		case s.LastActivityDate != "" && daysBetween(s.LastActivityDate, date) == 1:
			s.Current++
		default:
			s.Current = 1
		}
		s.LastActivityDate = date
	} else {
		s.Current = 0
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}

// LiveStreak is the streak as it stands today: the recorded run if it is
// still unbroken, plus one if today's plan already qualifies.
func LiveStreak(st models.State, today string, threshold int) int {
	current := 0
	last := st.Streak.LastActivityDate
	if last != "" {
		if gap := daysBetween(last, today); gap == 0 || gap == 1 {
			current = st.Streak.Current
		}
	}
	if st.Plan.Date == today && last != today && ScoreDay(st) > threshold {
		current++
	}
	return current
}
