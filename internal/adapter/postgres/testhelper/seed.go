package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedOption mutates a recipient before it is inserted.
type SeedOption func(*seedParams)

type seedParams struct {
	name        string
	email       *string
	calorieGoal *float64
	proteinGoal *float64
	createdAt   time.Time
}

// WithName overrides the generated display name.
func WithName(name string) SeedOption {
	return func(p *seedParams) { p.name = name }
}

// WithEmail overrides the generated email address. Pass nil for a NULL email.
func WithEmail(email *string) SeedOption {
	return func(p *seedParams) { p.email = email }
}

// WithGoals sets both numeric goals. Pass nil for NULL goals.
func WithGoals(calorie, protein *float64) SeedOption {
	return func(p *seedParams) {
		p.calorieGoal = calorie
		p.proteinGoal = protein
	}
}

// WithCreatedAt overrides the creation timestamp (selector ordering tests).
func WithCreatedAt(ts time.Time) SeedOption {
	return func(p *seedParams) { p.createdAt = ts }
}

// Float64Ptr is a convenience for goal literals in tests.
func Float64Ptr(v float64) *float64 { return &v }

// StringPtr is a convenience for email literals in tests.
func StringPtr(s string) *string { return &s }

// SeedUser inserts a user row with sensible defaults and returns its
// snapshot as a domain.Recipient (preferences defaulted to enabled).
func SeedUser(t *testing.T, pool *pgxpool.Pool, opts ...SeedOption) domain.Recipient {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	email := "user-" + suffix + "@example.org"
	p := seedParams{
		name:        "Test User " + suffix,
		email:       &email,
		calorieGoal: Float64Ptr(2000),
		proteinGoal: Float64Ptr(150),
		createdAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, opt := range opts {
		opt(&p)
	}

	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO users (name, height, weight, email, calorie_goal, protein_goal, created_at)
		 VALUES ($1, 170, 70, $2, $3, $4, $5)
		 RETURNING user_id`,
		p.name, p.email, p.calorieGoal, p.proteinGoal, p.createdAt,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	rec := domain.Recipient{
		ID:                    id,
		Name:                  p.name,
		CalorieGoal:           p.calorieGoal,
		ProteinGoal:           p.proteinGoal,
		CreatedAt:             p.createdAt,
		DailyRemindersEnabled: true,
		AchievementsEnabled:   true,
		ReminderTime:          "09:00:00",
	}
	if p.email != nil {
		rec.Email = *p.email
	}
	return rec
}

// SeedPreferences inserts an email_preferences row for the given user.
func SeedPreferences(t *testing.T, pool *pgxpool.Pool, userID int64, dailyEnabled, achievementsEnabled bool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO email_preferences (user_id, daily_reminders_enabled, achievement_notifications_enabled)
		 VALUES ($1, $2, $3)`,
		userID, dailyEnabled, achievementsEnabled,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPreferences insert: %v", err)
	}
}
