// Package emailstat implements per-day, per-type send counters backed by
// PostgreSQL. Counters are incremented through an idempotent upsert that
// relies on the database's atomic increment-on-conflict semantics, so
// concurrent batch runs on the same day never lose updates.
package emailstat

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// Repo provides email statistics persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new email statistics repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// counterColumn maps a countable status to its statistics column.
func counterColumn(status domain.SendStatus) (string, error) {
	switch status {
	case domain.StatusSent:
		return "total_sent", nil
	case domain.StatusFailed:
		return "total_failed", nil
	}
	return "", fmt.Errorf("emailstat: status %q is not countable: %w", status, domain.ErrValidation)
}

// Increment bumps the (day, type) counter for the given status by one,
// inserting the row if it does not exist. Exactly one row per (date, type)
// is maintained by the UNIQUE constraint the upsert conflicts on.
func (r *Repo) Increment(ctx context.Context, day time.Time, typ domain.NotificationType, status domain.SendStatus) error {
	if !typ.IsValid() {
		return fmt.Errorf("emailstat: type %q: %w", typ, domain.ErrValidation)
	}
	col, err := counterColumn(status)
	if err != nil {
		return err
	}

	query := builder.
		Insert("email_statistics").
		Columns("date", "email_type", col).
		Values(day.Format("2006-01-02"), string(typ), 1).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (date, email_type) DO UPDATE SET %s = email_statistics.%s + 1, updated_at = NOW()",
			col, col,
		))

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("emailstat: build upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "email_statistics")
	}

	return nil
}

// GetByDate returns the statistics row for (day, type).
func (r *Repo) GetByDate(ctx context.Context, day time.Time, typ domain.NotificationType) (domain.DailyStat, error) {
	query := builder.
		Select("date", "email_type", "total_sent", "total_delivered", "total_failed", "total_bounced", "updated_at").
		From("email_statistics").
		Where(squirrel.Eq{
			"date":       day.Format("2006-01-02"),
			"email_type": string(typ),
		})

	sql, args, err := query.ToSql()
	if err != nil {
		return domain.DailyStat{}, fmt.Errorf("emailstat: build select: %w", err)
	}

	var stat domain.DailyStat
	var typStr string
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(
		&stat.Date,
		&typStr,
		&stat.TotalSent,
		&stat.TotalDelivered,
		&stat.TotalFailed,
		&stat.TotalBounced,
		&stat.UpdatedAt,
	)
	if err != nil {
		return domain.DailyStat{}, postgres.MapError(err, "email_statistics")
	}

	stat.Type = domain.NotificationType(typStr)
	return stat, nil
}
