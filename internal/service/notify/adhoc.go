package notify

import (
	"context"
	"fmt"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

type adhocMessage struct {
	email   string
	name    string
	typ     domain.NotificationType
	subject string
	body    string
	success string
}

// SendReminder sends one daily reminder to an explicit address, bypassing
// the selector. Non-positive goals fall back to the configured defaults.
func (s *Service) SendReminder(ctx context.Context, email, name string, calorieGoal, proteinGoal float64) SendResult {
	if calorieGoal <= 0 {
		calorieGoal = s.cfg.DefaultCalorieGoal
	}
	if proteinGoal <= 0 {
		proteinGoal = s.cfg.DefaultProteinGoal
	}

	name = displayName(name)
	return s.sendAdhoc(ctx, adhocMessage{
		email:   email,
		name:    name,
		typ:     domain.TypeDailyReminder,
		subject: SubjectDailyReminder,
		body:    ComposeDailyReminder(name, calorieGoal, proteinGoal),
		success: fmt.Sprintf("daily reminder sent to %s", name),
	})
}

// SendAchievement sends one achievement notification to an explicit
// address, bypassing the selector.
func (s *Service) SendAchievement(ctx context.Context, email, name, achievementName, achievementDescription string) SendResult {
	if achievementDescription == "" {
		achievementDescription = "Great job on your fitness journey!"
	}

	name = displayName(name)
	return s.sendAdhoc(ctx, adhocMessage{
		email:   email,
		name:    name,
		typ:     domain.TypeAchievement,
		subject: AchievementSubject(achievementName),
		body:    ComposeAchievement(name, achievementName, achievementDescription),
		success: fmt.Sprintf("achievement notification sent to %s", name),
	})
}

// sendAdhoc delivers a single message and records it. Ad-hoc sends have no
// user id; the audit record keeps it NULL.
func (s *Service) sendAdhoc(ctx context.Context, am adhocMessage) SendResult {
	msg := domain.OutboundMessage{
		RecipientEmail: am.email,
		RecipientName:  am.name,
		Type:           am.typ,
		Subject:        am.subject,
		Body:           am.body,
	}

	outcome := s.transport.Send(ctx, msg)
	logID := s.record(ctx, nil, msg, outcome)

	result := SendResult{
		Success:   outcome.Success,
		Recipient: am.email,
		Type:      am.typ,
		Method:    outcome.Method,
		MessageID: outcome.MessageID,
		LogID:     logID,
	}
	if outcome.Success {
		result.Message = am.success
	} else {
		result.Error = outcome.ErrorDetail
	}
	return result
}
