package domain

import "time"

// PlaceholderEmail is the sample address seeded by early versions of the
// web app; recipients carrying it are never eligible for notifications.
const PlaceholderEmail = "user@example.com"

// Recipient is a read-only snapshot of a user eligible to receive
// notifications, joined with their email preferences. It is fetched per
// batch run and never mutated by this subsystem.
type Recipient struct {
	ID          int64
	Name        string
	Email       string
	CalorieGoal *float64
	ProteinGoal *float64
	CreatedAt   time.Time

	// Preference flags default to enabled when no preference row exists.
	DailyRemindersEnabled bool
	AchievementsEnabled   bool
	ReminderTime          string
}

// WantsType reports whether the recipient has the given notification type
// enabled. Unknown types default to enabled, matching the store's
// default-enabled policy for absent preference rows.
func (r Recipient) WantsType(t NotificationType) bool {
	switch t {
	case TypeDailyReminder:
		return r.DailyRemindersEnabled
	case TypeAchievement:
		return r.AchievementsEnabled
	}
	return true
}
