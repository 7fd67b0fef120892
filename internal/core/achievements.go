package core

import (
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// AchievementInfo describes an achievement for display.
type AchievementInfo struct {
	ID          models.AchievementID
	Title       string
	Description string
}

// Achievements lists every achievement in display order.
func Achievements() []AchievementInfo {
	return []AchievementInfo{
		{models.AchievementFirstTask, "First Step", "Complete your first task"},
		{models.AchievementPerfectDay, "Perfect Day", "Complete every planned task and routine in a day"},
		{models.AchievementOverachiever, "Overachiever", "Score above 100% with bonus tasks"},
		{models.AchievementStreak3, "On a Roll", "Reach a 3 day streak"},
		{models.AchievementStreak7, "Unstoppable", "Reach a 7 day streak"},
		{models.AchievementGoalComplete, "Goal Getter", "Complete a goal"},
		{models.AchievementInboxZero, "Inbox Zero", "Process every item in the inbox"},
	}
}

// HasAchievement reports whether id has been unlocked.
func HasAchievement(st models.State, id models.AchievementID) bool {
	for _, a := range st.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

func unlock(st *models.State, e *env, id models.AchievementID) {
	if HasAchievement(*st, id) {
		return
	}
	st.Achievements = append(st.Achievements, models.Achievement{ID: id, UnlockedAt: e.now})
	e.emit("achievement.unlocked", map[string]any{"achievement": string(id)})
}

// checkAchievements runs after every applied intent.
func checkAchievements(st *models.State, e *env) {
	checkDayAchievements(st, e)
	checkStreakAchievements(st, e)
	for _, g := range st.Goals {
		if g.Completed {
			unlock(st, e, models.AchievementGoalComplete)
			break
		}
	}
	if e.inboxBefore > 0 && len(st.Inbox) == 0 {
		unlock(st, e, models.AchievementInboxZero)
	}
}

// checkDayAchievements evaluates the conditions that depend on the current
// plan. Rollover calls it before the plan is reset.
func checkDayAchievements(st *models.State, e *env) {
	tally := TallyDay(*st)
	if tally.Completed > 0 {
		unlock(st, e, models.AchievementFirstTask)
	}
	if tally.Perfect() {
		unlock(st, e, models.AchievementPerfectDay)
		if tally.Score() > 100 {
			unlock(st, e, models.AchievementOverachiever)
		}
	}
}

func checkStreakAchievements(st *models.State, e *env) {
	if st.Streak.Current >= 3 {
		unlock(st, e, models.AchievementStreak3)
	}
	if st.Streak.Current >= 7 {
		unlock(st, e, models.AchievementStreak7)
	}
}
