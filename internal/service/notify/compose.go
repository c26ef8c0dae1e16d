package notify

import (
	"fmt"
	"strconv"
)

// FormatGoal renders a numeric goal as its shortest exact decimal string
// (2000 not 2000.0, 150.5 stays 150.5). Composed bodies embed goals with
// this formatter, and tests assert substring containment against it.
func FormatGoal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ComposeDailyReminder renders the plain-text daily reminder body.
// Pure function: the display name and both goal strings appear verbatim in
// the output. Callers default absent goals before composition.
func ComposeDailyReminder(name string, calorieGoal, proteinGoal float64) string {
	return fmt.Sprintf(`Good Morning, %s!

Your Daily Goals:
- Calorie Goal: %s calories
- Protein Goal: %sg protein

Quick Reminders:
- Log your meals throughout the day
- Stay hydrated - drink plenty of water
- Get some physical activity in
- Check your progress in the app

Small consistent actions lead to big results. You've got this!

This is your daily fitness reminder from Fitness Tracker App.
`, name, FormatGoal(calorieGoal), FormatGoal(proteinGoal))
}

// ComposeAchievement renders the plain-text achievement notification body.
func ComposeAchievement(name, achievementName, achievementDescription string) string {
	return fmt.Sprintf("Congratulations %s! You've earned the '%s' achievement: %s",
		name, achievementName, achievementDescription)
}

// AchievementSubject builds the subject line for an achievement notice.
func AchievementSubject(achievementName string) string {
	return subjectAchievementPrefix + achievementName + "!"
}
