// Package recipient implements the eligible-recipient selector backed by
// PostgreSQL. The subsystem does not own the users table; it only reads
// snapshots of it joined with email preferences.
package recipient

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// Repo provides read access to users and their email preferences.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new recipient repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// builder is the shared squirrel builder with PostgreSQL placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// preferenceColumn maps a notification type to the preference flag that
// gates it. Types without a flag are not selectable in bulk.
func preferenceColumn(t domain.NotificationType) (string, error) {
	switch t {
	case domain.TypeDailyReminder:
		return "ep.daily_reminders_enabled", nil
	case domain.TypeAchievement:
		return "ep.achievement_notifications_enabled", nil
	}
	return "", fmt.Errorf("recipient: no preference flag for type %q: %w", t, domain.ErrValidation)
}

// ListEligible returns recipients eligible for the given notification type,
// most recently created first. Eligibility: a real email address (non-null,
// non-empty, not the seeded placeholder) and the type's preference flag not
// explicitly disabled — absent preference rows default to enabled.
func (r *Repo) ListEligible(ctx context.Context, typ domain.NotificationType) ([]domain.Recipient, error) {
	flagCol, err := preferenceColumn(typ)
	if err != nil {
		return nil, err
	}

	query := builder.
		Select(
			"u.user_id",
			"u.name",
			"u.email",
			"u.calorie_goal",
			"u.protein_goal",
			"u.created_at",
			"COALESCE(ep.daily_reminders_enabled, true)",
			"COALESCE(ep.achievement_notifications_enabled, true)",
			"COALESCE(ep.reminder_time, '09:00:00'::time)::text",
		).
		From("users u").
		LeftJoin("email_preferences ep ON ep.user_id = u.user_id").
		Where("u.email IS NOT NULL").
		Where(squirrel.NotEq{"u.email": ""}).
		Where(squirrel.NotEq{"u.email": domain.PlaceholderEmail}).
		Where("COALESCE(" + flagCol + ", true)").
		OrderBy("u.created_at DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("recipient: build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "recipient")
	}
	defer rows.Close()

	var recipients []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Email,
			&rec.CalorieGoal,
			&rec.ProteinGoal,
			&rec.CreatedAt,
			&rec.DailyRemindersEnabled,
			&rec.AchievementsEnabled,
			&rec.ReminderTime,
		)
		if err != nil {
			return nil, fmt.Errorf("recipient: scan row: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "recipient")
	}

	return recipients, nil
}

// Ping verifies store reachability for the test_db diagnostic.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return postgres.MapError(err, "recipient ping")
	}
	return nil
}
