package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// SendDailyReminders runs one full batch: select eligible recipients, then
// for each one compose, send, log and count. It never returns an error —
// shared-infrastructure failures surface in the result fields, and a
// failure for one recipient never aborts the batch. Each recipient's
// audit record and statistics commit independently.
func (s *Service) SendDailyReminders(ctx context.Context) BatchResult {
	runID := uuid.New()
	log := s.log.With(slog.String("run_id", runID.String()))

	log.Info("starting daily reminder batch")

	recipients, err := s.recipients.ListEligible(ctx, domain.TypeDailyReminder)
	if err != nil {
		// Store unreachable degrades to "nothing to send".
		log.Error("list eligible recipients", slog.String("error", err.Error()))
		recipients = nil
	}

	// The selector filters on preference flags; re-check the snapshot so a
	// store returning extra rows can never mail an opted-out user.
	eligible := make([]domain.Recipient, 0, len(recipients))
	for _, rec := range recipients {
		if !rec.WantsType(domain.TypeDailyReminder) {
			log.Warn("recipient opted out, skipping", slog.Int64("user_id", rec.ID))
			continue
		}
		eligible = append(eligible, rec)
	}
	recipients = eligible

	if len(recipients) == 0 {
		result := BatchResult{
			RunID:   runID,
			Success: false,
			Message: "no eligible recipients with email addresses found",
			Results: []RecipientResult{},
		}
		if err != nil {
			result.Error = err.Error()
		}
		log.Warn("batch finished without work", slog.String("message", result.Message))
		return result
	}

	result := BatchResult{
		RunID:           runID,
		Success:         true,
		TotalRecipients: len(recipients),
		Results:         make([]RecipientResult, 0, len(recipients)),
	}

	for _, rec := range recipients {
		rr := s.sendReminderTo(ctx, rec)
		if rr.Success {
			result.SentCount++
		} else {
			result.FailedCount++
		}
		result.Results = append(result.Results, rr)
	}

	result.Message = fmt.Sprintf("daily reminders processed: %d sent, %d failed",
		result.SentCount, result.FailedCount)

	log.Info("daily reminder batch completed",
		slog.Int("total", result.TotalRecipients),
		slog.Int("sent", result.SentCount),
		slog.Int("failed", result.FailedCount),
	)

	return result
}

// sendReminderTo runs the per-recipient pipeline: default goals, compose,
// send, record. Logging or counting failures are recorded locally and
// never propagate.
func (s *Service) sendReminderTo(ctx context.Context, rec domain.Recipient) RecipientResult {
	calorie := valueOrDefault(rec.CalorieGoal, s.cfg.DefaultCalorieGoal)
	protein := valueOrDefault(rec.ProteinGoal, s.cfg.DefaultProteinGoal)

	msg := domain.OutboundMessage{
		RecipientEmail: rec.Email,
		RecipientName:  displayName(rec.Name),
		Type:           domain.TypeDailyReminder,
		Subject:        SubjectDailyReminder,
		Body:           ComposeDailyReminder(displayName(rec.Name), calorie, protein),
	}

	outcome := s.transport.Send(ctx, msg)
	logID := s.record(ctx, &rec.ID, msg, outcome)

	rr := RecipientResult{
		UserID:    rec.ID,
		Email:     rec.Email,
		Success:   outcome.Success,
		MessageID: outcome.MessageID,
		LogID:     logID,
	}
	if !outcome.Success {
		rr.Error = outcome.ErrorDetail
	}
	return rr
}

// record persists the audit record and bumps the daily counter for one
// attempt. Persistence failure is logged locally and yields a nil log id;
// it must never abort the batch.
func (s *Service) record(ctx context.Context, userID *int64, msg domain.OutboundMessage, outcome domain.SendOutcome) *int64 {
	logRec := domain.EmailLogRecord{
		UserID:         userID,
		RecipientEmail: msg.RecipientEmail,
		SenderEmail:    s.sender,
		Type:           msg.Type,
		Subject:        msg.Subject,
		Body:           msg.Body,
		Status:         outcome.Status(),
	}
	if outcome.MessageID != "" {
		logRec.MessageID = &outcome.MessageID
	}
	if outcome.ErrorDetail != "" {
		logRec.ErrorMessage = &outcome.ErrorDetail
	}

	var logID *int64
	if id, err := s.logs.Create(ctx, logRec); err != nil {
		s.log.Error("audit log skipped",
			slog.String("recipient", msg.RecipientEmail),
			slog.String("type", msg.Type.String()),
			slog.String("error", err.Error()),
		)
	} else {
		logID = &id
	}

	if err := s.stats.Increment(ctx, s.now(), msg.Type, outcome.Status()); err != nil {
		s.log.Error("statistics update skipped",
			slog.String("type", msg.Type.String()),
			slog.String("status", outcome.Status().String()),
			slog.String("error", err.Error()),
		)
	}

	return logID
}
