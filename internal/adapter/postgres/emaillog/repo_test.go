package emaillog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emaillog"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*emaillog.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return emaillog.New(pool), pool
}

// buildRecord creates a sent-status record addressed to the given user.
func buildRecord(userID *int64, email string) domain.EmailLogRecord {
	return domain.EmailLogRecord{
		UserID:         userID,
		RecipientEmail: email,
		SenderEmail:    "noreply@fittrack.test",
		Type:           domain.TypeDailyReminder,
		Subject:        "Daily Fitness Reminder - Don't Forget Your Goals!",
		Body:           "Good Morning!",
		Status:         domain.StatusSent,
	}
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool)

	input := buildRecord(&user.ID, user.Email)
	messageID := "starttls-1700000000-alice"
	input.MessageID = &messageID

	id, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero log id")
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.UserID == nil || *got.UserID != user.ID {
		t.Errorf("UserID mismatch: got %v, want %d", got.UserID, user.ID)
	}
	if got.RecipientEmail != user.Email {
		t.Errorf("RecipientEmail mismatch: got %q, want %q", got.RecipientEmail, user.Email)
	}
	if got.Type != domain.TypeDailyReminder {
		t.Errorf("Type mismatch: got %s", got.Type)
	}
	if got.Status != domain.StatusSent {
		t.Errorf("Status mismatch: got %s", got.Status)
	}
	if got.MessageID == nil || *got.MessageID != messageID {
		t.Errorf("MessageID mismatch: got %v", got.MessageID)
	}
	if got.ErrorMessage != nil {
		t.Errorf("ErrorMessage should be nil on a sent record, got %q", *got.ErrorMessage)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
}

func TestRepo_Create_AdhocWithoutUser(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, buildRecord(nil, "adhoc@example.org"))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.UserID != nil {
		t.Errorf("UserID should be nil for ad-hoc sends, got %v", *got.UserID)
	}
}

func TestRepo_Create_FailedWithError(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool)

	input := buildRecord(&user.ID, user.Email)
	input.Status = domain.StatusFailed
	detail := "STARTTLS: dial timeout, SSL: 535 auth failed"
	input.ErrorMessage = &detail

	id, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Status != domain.StatusFailed {
		t.Errorf("Status mismatch: got %s", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != detail {
		t.Errorf("ErrorMessage mismatch: got %v", got.ErrorMessage)
	}
	if got.MessageID != nil {
		t.Errorf("MessageID should be nil on a failed record, got %q", *got.MessageID)
	}
}

func TestRepo_Create_InvalidType(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	input := buildRecord(nil, "adhoc@example.org")
	input.Type = domain.NotificationType("newsletter")

	if _, err := repo.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown type, got %v", err)
	}
}

func TestRepo_Create_InvalidStatus(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	input := buildRecord(nil, "adhoc@example.org")
	input.Status = domain.SendStatus("queued")

	if _, err := repo.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestRepo_UpdateStatus(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildRecord(nil, "retry@example.org")
	input.Status = domain.StatusFailed
	detail := "STARTTLS: refused, SSL: refused"
	input.ErrorMessage = &detail

	id, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if err := repo.UpdateStatus(ctx, id, domain.StatusSent, nil); err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Status != domain.StatusSent {
		t.Errorf("Status mismatch after update: got %s", got.Status)
	}
	if got.ErrorMessage != nil {
		t.Errorf("ErrorMessage should be cleared, got %q", *got.ErrorMessage)
	}
}

func TestRepo_UpdateStatus_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.UpdateStatus(context.Background(), 999999999, domain.StatusSent, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), 999999999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_CountByTypeAndStatus(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	// Bounced welcome records come only from this test; the shared DB never
	// seeds them elsewhere, so the delta is exact.
	before, err := repo.CountByTypeAndStatus(ctx, domain.TypeWelcome, domain.StatusBounced)
	if err != nil {
		t.Fatalf("CountByTypeAndStatus: unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		input := buildRecord(nil, "count@example.org")
		input.Type = domain.TypeWelcome
		input.Status = domain.StatusBounced
		if _, err := repo.Create(ctx, input); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
	}

	after, err := repo.CountByTypeAndStatus(ctx, domain.TypeWelcome, domain.StatusBounced)
	if err != nil {
		t.Fatalf("CountByTypeAndStatus: unexpected error: %v", err)
	}
	if after-before != 3 {
		t.Errorf("count delta = %d, want 3", after-before)
	}
}
