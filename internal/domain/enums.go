package domain

// NotificationType identifies the category of an outbound email.
// The set mirrors the CHECK constraint on email_logs.email_type; only
// TypeDailyReminder and TypeAchievement currently have send paths, the
// remaining values are accepted as valid log types.
type NotificationType string

const (
	TypeDailyReminder NotificationType = "daily_reminder"
	TypeAchievement   NotificationType = "achievement_notification"
	TypeWelcome       NotificationType = "welcome"
	TypePasswordReset NotificationType = "password_reset"
	TypeCustom        NotificationType = "custom"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case TypeDailyReminder, TypeAchievement, TypeWelcome, TypePasswordReset, TypeCustom:
		return true
	}
	return false
}

// SendStatus is the delivery state recorded for a send attempt.
type SendStatus string

const (
	StatusSent    SendStatus = "sent"
	StatusFailed  SendStatus = "failed"
	StatusPending SendStatus = "pending"
	StatusBounced SendStatus = "bounced"
)

func (s SendStatus) String() string { return string(s) }

func (s SendStatus) IsValid() bool {
	switch s {
	case StatusSent, StatusFailed, StatusPending, StatusBounced:
		return true
	}
	return false
}

// Countable reports whether the status maps to a daily-statistics counter
// incremented by the notification pipeline. Only sent/failed are counted;
// delivered/bounced counters exist in the schema but are fed by delivery
// callbacks this subsystem does not own.
func (s SendStatus) Countable() bool {
	return s == StatusSent || s == StatusFailed
}
