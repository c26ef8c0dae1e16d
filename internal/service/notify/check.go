package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// storeCheckSampleSize caps the recipient sample returned by CheckStore.
const storeCheckSampleSize = 3

// CheckTransport verifies SMTP reachability without sending a message.
func (s *Service) CheckTransport(ctx context.Context) TransportCheck {
	method, err := s.transport.Ping(ctx)
	if err != nil {
		s.log.Error("transport check failed", slog.String("error", err.Error()))
		return TransportCheck{Success: false, Error: err.Error()}
	}

	return TransportCheck{
		Success: true,
		Message: fmt.Sprintf("SMTP connection successful via %s", method),
		Method:  method,
	}
}

// CheckStore verifies store reachability and reports the eligible-recipient
// count for daily reminders, with a small sample for verification.
func (s *Service) CheckStore(ctx context.Context) StoreCheck {
	if err := s.recipients.Ping(ctx); err != nil {
		s.log.Error("store check failed", slog.String("error", err.Error()))
		return StoreCheck{Success: false, Error: err.Error()}
	}

	recipients, err := s.recipients.ListEligible(ctx, domain.TypeDailyReminder)
	if err != nil {
		s.log.Error("store check: list recipients", slog.String("error", err.Error()))
		return StoreCheck{Success: false, Error: err.Error()}
	}

	sample := make([]RecipientSummary, 0, storeCheckSampleSize)
	for i, rec := range recipients {
		if i == storeCheckSampleSize {
			break
		}
		sample = append(sample, RecipientSummary{
			UserID:      rec.ID,
			Name:        rec.Name,
			Email:       rec.Email,
			CalorieGoal: rec.CalorieGoal,
			ProteinGoal: rec.ProteinGoal,
		})
	}

	return StoreCheck{
		Success:    true,
		Message:    fmt.Sprintf("store connection successful - found %d eligible recipients", len(recipients)),
		UsersFound: len(recipients),
		Sample:     sample,
	}
}
