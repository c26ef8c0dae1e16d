// Command notifier runs the email notification pipeline from the command
// line. Results are printed as JSON on stdout; diagnostics go to the
// structured log on stderr.
//
// Usage:
//
//	notifier test                                                  check SMTP connectivity
//	notifier test_db                                               check store connectivity
//	notifier send_daily_reminders                                  run one reminder batch
//	notifier send_reminder <email> [name] [calories] [protein]     send one reminder
//	notifier send_achievement <email> <name> <title> [description] send one achievement notice
//
// Exit codes: 0 = success, 1 = error or failed operation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emaillog"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emailstat"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/recipient"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/smtp"
	"github.com/heartmarshall/fittrack-notifier/internal/app"
	"github.com/heartmarshall/fittrack-notifier/internal/config"
	"github.com/heartmarshall/fittrack-notifier/internal/service/notify"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	logger.Info("starting notifier",
		slog.String("version", app.BuildVersion()),
		slog.String("command", command),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := notify.NewService(
		logger,
		cfg.Notify,
		cfg.SMTP.Username,
		recipient.New(pool),
		emaillog.New(pool),
		emailstat.New(pool),
		smtp.New(cfg.SMTP, logger),
	)

	ok, err := run(ctx, svc, command, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *notify.Service, command string, args []string) (bool, error) {
	switch command {
	case "test":
		check := svc.CheckTransport(ctx)
		return check.Success, printJSON(check)

	case "test_db":
		check := svc.CheckStore(ctx)
		return check.Success, printJSON(check)

	case "send_daily_reminders":
		result := svc.SendDailyReminders(ctx)
		return result.Success, printJSON(result)

	case "send_reminder":
		if len(args) < 1 {
			return false, fmt.Errorf("send_reminder requires an email address")
		}
		email := args[0]
		name := argAt(args, 1)
		calories, err := goalArg(args, 2, "calories")
		if err != nil {
			return false, err
		}
		protein, err := goalArg(args, 3, "protein")
		if err != nil {
			return false, err
		}
		result := svc.SendReminder(ctx, email, name, calories, protein)
		return result.Success, printJSON(result)

	case "send_achievement":
		if len(args) < 3 {
			return false, fmt.Errorf("send_achievement requires <email> <name> <title>")
		}
		result := svc.SendAchievement(ctx, args[0], args[1], args[2], argAt(args, 3))
		return result.Success, printJSON(result)

	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// goalArg parses an optional numeric goal argument. Absent arguments
// return 0, which the service replaces with the configured default.
func goalArg(args []string, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, nil
	}
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, args[i])
	}
	return v, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: notifier <command> [args]

commands:
  test                                                  check SMTP connectivity
  test_db                                               check store connectivity
  send_daily_reminders                                  run one reminder batch
  send_reminder <email> [name] [calories] [protein]     send one reminder
  send_achievement <email> <name> <title> [description] send one achievement notice`)
}
