package domain

import "time"

// EmailLogRecord is one row of the append-only email_logs audit table.
// Records are immutable once written except Status and ErrorMessage,
// which may be updated if a retry occurs.
type EmailLogRecord struct {
	ID             int64
	UserID         *int64
	RecipientEmail string
	SenderEmail    string
	Type           NotificationType
	Subject        string
	Body           string
	HTMLBody       *string
	Status         SendStatus
	MessageID      *string
	ErrorMessage   *string
	SentAt         time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DailyStat is one row of email_statistics: per-day, per-type counters,
// uniquely keyed by (Date, Type) and incremented via idempotent upsert.
type DailyStat struct {
	Date           time.Time
	Type           NotificationType
	TotalSent      int
	TotalDelivered int
	TotalFailed    int
	TotalBounced   int
	UpdatedAt      time.Time
}
