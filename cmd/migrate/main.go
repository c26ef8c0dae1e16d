// Command migrate applies the SQL migrations with goose.
//
// Usage:
//
//	migrate up       apply all pending migrations
//	migrate down     roll back the most recent migration
//	migrate status   print the migration state
//
// Flags:
//
//	--dir  migrations directory (default "migrations")
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/fittrack-notifier/internal/app"
	"github.com/heartmarshall/fittrack-notifier/internal/config"
)

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: migrate [--dir <path>] up|down|status")
		os.Exit(1)
	}
	command := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	logger.Info("starting migrate",
		slog.String("version", app.BuildVersion()),
		slog.String("command", command),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(*dir))
	if err != nil {
		logger.Error("create migration provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(ctx, provider, logger, command); err != nil {
		logger.Error("migration failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

func run(ctx context.Context, provider *goose.Provider, logger *slog.Logger, command string) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			logger.Info("applied migration",
				slog.Int64("version", r.Source.Version),
				slog.String("path", r.Source.Path),
			)
		}
		logger.Info("migrations up to date", slog.Int("applied", len(results)))
		return nil

	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		logger.Info("rolled back migration",
			slog.Int64("version", result.Source.Version),
			slog.String("path", result.Source.Path),
		)
		return nil

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			state := "pending"
			if st.State == goose.StateApplied {
				state = "applied"
			}
			fmt.Printf("%-8s %5d  %s\n", state, st.Source.Version, st.Source.Path)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
