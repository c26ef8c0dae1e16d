package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emaillog"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// logExists checks whether an email_logs row with the given id exists.
func logExists(t *testing.T, pool *pgxpool.Pool, id int64) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM email_logs WHERE email_log_id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("logExists query: %v", err)
	}
	return exists
}

func testLogRecord(email string) domain.EmailLogRecord {
	return domain.EmailLogRecord{
		RecipientEmail: email,
		SenderEmail:    "noreply@fittrack.test",
		Type:           domain.TypeCustom,
		Subject:        "tx test",
		Body:           "tx test body",
		Status:         domain.StatusPending,
	}
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	repo := emaillog.New(pool)

	var id int64
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		id, err = repo.Create(ctx, testLogRecord("tx-commit@example.org"))
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !logExists(t, pool, id) {
		t.Fatal("expected log row to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	repo := emaillog.New(pool)

	sentinel := errors.New("business logic error")

	var id int64
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		var createErr error
		id, createErr = repo.Create(ctx, testLogRecord("tx-rollback@example.org"))
		if createErr != nil {
			t.Fatalf("insert inside tx failed: %v", createErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if logExists(t, pool, id) {
		t.Fatal("expected log row NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	repo := emaillog.New(pool)

	var id int64

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		if logExists(t, pool, id) {
			t.Fatal("expected log row NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		id, err = repo.Create(ctx, testLogRecord("tx-panic@example.org"))
		if err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	repo := emaillog.New(pool)

	// The insert must be visible through the tx-bound querier before commit,
	// but not through the bare pool.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		id, err := repo.Create(ctx, testLogRecord("tx-visibility@example.org"))
		if err != nil {
			return err
		}

		if _, err := repo.GetByID(ctx, id); err != nil {
			t.Errorf("row not visible inside its own transaction: %v", err)
		}
		if logExists(t, pool, id) {
			t.Error("uncommitted row visible outside the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
}
