// Package emaillog implements the append-only email audit log backed by
// PostgreSQL. Records are never deleted by this subsystem; only status and
// error_message may change after insert.
package emaillog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// Repo provides email log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new email log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Create inserts one audit record and returns the assigned log id.
func (r *Repo) Create(ctx context.Context, rec domain.EmailLogRecord) (int64, error) {
	if !rec.Type.IsValid() {
		return 0, fmt.Errorf("emaillog: type %q: %w", rec.Type, domain.ErrValidation)
	}
	if !rec.Status.IsValid() {
		return 0, fmt.Errorf("emaillog: status %q: %w", rec.Status, domain.ErrValidation)
	}

	query := builder.
		Insert("email_logs").
		Columns(
			"user_id",
			"recipient_email",
			"sender_email",
			"email_type",
			"subject",
			"message_content",
			"html_content",
			"status",
			"message_id",
			"error_message",
		).
		Values(
			rec.UserID,
			rec.RecipientEmail,
			rec.SenderEmail,
			string(rec.Type),
			rec.Subject,
			rec.Body,
			rec.HTMLBody,
			string(rec.Status),
			rec.MessageID,
			rec.ErrorMessage,
		).
		Suffix("RETURNING email_log_id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("emaillog: build insert: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "email_log")
	}

	return id, nil
}

// UpdateStatus updates the status and error message of an existing record.
// Status and error_message are the only mutable fields; used when a retry
// changes a previously failed attempt's outcome.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status domain.SendStatus, errorMessage *string) error {
	if !status.IsValid() {
		return fmt.Errorf("emaillog: status %q: %w", status, domain.ErrValidation)
	}

	query := builder.
		Update("email_logs").
		Set("status", string(status)).
		Set("error_message", errorMessage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"email_log_id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("emaillog: build update: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "email_log")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("email_log %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// GetByID returns one audit record; used by diagnostics and tests.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.EmailLogRecord, error) {
	query := builder.
		Select(
			"email_log_id",
			"user_id",
			"recipient_email",
			"sender_email",
			"email_type",
			"subject",
			"message_content",
			"html_content",
			"status",
			"message_id",
			"error_message",
			"sent_at",
			"created_at",
			"updated_at",
		).
		From("email_logs").
		Where(squirrel.Eq{"email_log_id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return domain.EmailLogRecord{}, fmt.Errorf("emaillog: build select: %w", err)
	}

	var rec domain.EmailLogRecord
	var typ, status string
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.RecipientEmail,
		&rec.SenderEmail,
		&typ,
		&rec.Subject,
		&rec.Body,
		&rec.HTMLBody,
		&status,
		&rec.MessageID,
		&rec.ErrorMessage,
		&rec.SentAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return domain.EmailLogRecord{}, postgres.MapError(err, "email_log")
	}

	rec.Type = domain.NotificationType(typ)
	rec.Status = domain.SendStatus(status)
	return rec, nil
}

// CountByTypeAndStatus returns the number of log rows matching type and
// status; used by tests and the test_db diagnostic.
func (r *Repo) CountByTypeAndStatus(ctx context.Context, typ domain.NotificationType, status domain.SendStatus) (int, error) {
	query := builder.
		Select("COUNT(*)").
		From("email_logs").
		Where(squirrel.Eq{"email_type": string(typ), "status": string(status)})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("emaillog: build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "email_log")
	}

	return n, nil
}
