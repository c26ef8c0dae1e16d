// Package notify implements the notification pipeline: recipient
// selection, message composition, transport delivery, audit logging and
// statistics aggregation, orchestrated per batch.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/fittrack-notifier/internal/config"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// Subjects for the two supported notification types.
const (
	SubjectDailyReminder     = "Daily Fitness Reminder - Don't Forget Your Goals!"
	subjectAchievementPrefix = "Achievement Unlocked: "
)

// fallbackName replaces an empty display name before composition.
const fallbackName = "Fitness Enthusiast"

type recipientStore interface {
	ListEligible(ctx context.Context, typ domain.NotificationType) ([]domain.Recipient, error)
	Ping(ctx context.Context) error
}

type logStore interface {
	Create(ctx context.Context, rec domain.EmailLogRecord) (int64, error)
}

type statStore interface {
	Increment(ctx context.Context, day time.Time, typ domain.NotificationType, status domain.SendStatus) error
}

type transport interface {
	Send(ctx context.Context, msg domain.OutboundMessage) domain.SendOutcome
	Ping(ctx context.Context) (string, error)
}

// Service provides notification pipeline operations.
type Service struct {
	recipients recipientStore
	logs       logStore
	stats      statStore
	transport  transport

	cfg    config.NotifyConfig
	sender string // sender address recorded in audit rows
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new notification service. senderEmail is the
// transport account address, recorded on every audit record.
func NewService(
	log *slog.Logger,
	cfg config.NotifyConfig,
	senderEmail string,
	recipients recipientStore,
	logs logStore,
	stats statStore,
	transport transport,
) *Service {
	return &Service{
		recipients: recipients,
		logs:       logs,
		stats:      stats,
		transport:  transport,
		cfg:        cfg,
		sender:     senderEmail,
		log:        log.With("service", "notify"),
		now:        time.Now,
	}
}

// valueOrDefault applies the configured goal default when the stored goal
// is absent. Composition itself never defaults.
func valueOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// displayName applies the fallback for recipients without a name.
func displayName(name string) string {
	if name == "" {
		return fallbackName
	}
	return name
}
