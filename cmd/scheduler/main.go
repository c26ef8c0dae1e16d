// Command scheduler runs the daily reminder batch on a timetable.
//
// Usage:
//
//	scheduler start                     run the daily schedule until interrupted
//	scheduler trigger                   run one batch now and exit
//	scheduler test <minutes>            run one batch N minutes from now
//	scheduler schedule <hour> <minute>  run one batch at the next HH:MM
//	scheduler status                    print the scheduler state as JSON
//	scheduler stop                      alias for status on a non-running process
//
// start, test and schedule block until SIGINT/SIGTERM.
// Exit codes: 0 = success, 1 = error or failed operation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emaillog"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/emailstat"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/postgres/recipient"
	"github.com/heartmarshall/fittrack-notifier/internal/adapter/smtp"
	"github.com/heartmarshall/fittrack-notifier/internal/app"
	"github.com/heartmarshall/fittrack-notifier/internal/config"
	"github.com/heartmarshall/fittrack-notifier/internal/service/notify"
	"github.com/heartmarshall/fittrack-notifier/internal/service/schedule"
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

	logger.Info("starting scheduler",
		slog.String("version", app.BuildVersion()),
		slog.String("command", command),
	)

	ctx, cancel := context.WithCancel(context.Background())
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
	sched := schedule.New(logger, cfg.Scheduler, svc)

	ok, block, err := run(ctx, sched, command, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
	if block {
		waitForSignal(logger)
		sched.Stop()
	}
}

// run dispatches the command. The second return reports whether the
// process should stay alive waiting for scheduled work.
func run(ctx context.Context, sched *schedule.Scheduler, command string, args []string) (bool, bool, error) {
	switch command {
	case "start":
		res := sched.Start()
		return res.Success, res.Success, printJSON(res)

	case "trigger":
		result := sched.Trigger(ctx)
		return result.Success, false, printJSON(result)

	case "test":
		if len(args) < 1 {
			return false, false, fmt.Errorf("test requires <minutes>")
		}
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return false, false, fmt.Errorf("invalid minutes value %q", args[0])
		}
		res := sched.ScheduleTestIn(minutes)
		return res.Success, res.Success, printJSON(res)

	case "schedule":
		if len(args) < 2 {
			return false, false, fmt.Errorf("schedule requires <hour> <minute>")
		}
		hour, err := strconv.Atoi(args[0])
		if err != nil {
			return false, false, fmt.Errorf("invalid hour value %q", args[0])
		}
		minute, err := strconv.Atoi(args[1])
		if err != nil {
			return false, false, fmt.Errorf("invalid minute value %q", args[1])
		}
		res := sched.ScheduleAt(hour, minute)
		return res.Success, res.Success, printJSON(res)

	case "status":
		return true, false, printJSON(sched.Status())

	case "stop":
		res := sched.Stop()
		return true, false, printJSON(res)

	default:
		return false, false, fmt.Errorf("unknown command %q", command)
	}
}

func waitForSignal(logger *slog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutting down", slog.String("signal", sig.String()))
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
	fmt.Fprintln(os.Stderr, `usage: scheduler <command> [args]

commands:
  start                     run the daily schedule until interrupted
  trigger                   run one batch now and exit
  test <minutes>            run one batch N minutes from now
  schedule <hour> <minute>  run one batch at the next HH:MM
  status                    print the scheduler state as JSON
  stop                      report stop on this process`)
}
