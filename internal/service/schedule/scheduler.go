// Package schedule runs the daily reminder batch on a cron timetable and
// supports one-shot runs for verification.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/fittrack-notifier/internal/config"
	"github.com/heartmarshall/fittrack-notifier/internal/service/notify"
)

type batchRunner interface {
	SendDailyReminders(ctx context.Context) notify.BatchResult
}

// OpResult reports the outcome of a lifecycle operation.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running      bool       `json:"running"`
	Schedule     string     `json:"schedule,omitempty"`
	Timezone     string     `json:"timezone"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	SkippedRuns  int        `json:"skipped_runs"`
	PendingShots int        `json:"pending_one_shots"`
}

// Scheduler fires the daily reminder batch at the configured time.
// Overlap policy: if a batch is still in flight when the next trigger
// fires, the new run is skipped and counted, never queued.
type Scheduler struct {
	mu sync.Mutex

	log    *slog.Logger
	cfg    config.SchedulerConfig
	runner batchRunner
	loc    *time.Location

	c       *cron.Cron
	entryID cron.EntryID

	// one-shot timers keyed by creation order
	tmu      sync.Mutex
	timers   map[int]*time.Timer
	timerSeq int

	// batchMu guards batch execution; TryLock implements skip-if-running.
	batchMu sync.Mutex
	skipped int
	smu     sync.Mutex
}

// New creates a stopped scheduler. An unknown timezone falls back to
// time.Local with a warning.
func New(log *slog.Logger, cfg config.SchedulerConfig, runner batchRunner) *Scheduler {
	return &Scheduler{
		log:    log.With("service", "schedule"),
		cfg:    cfg,
		runner: runner,
		loc:    loadLocation(log, cfg.Timezone),
		timers: map[int]*time.Timer{},
	}
}

func loadLocation(log *slog.Logger, tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" || tz == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn("invalid timezone, falling back to Local", slog.String("tz", tz), slog.String("error", err.Error()))
		return time.Local
	}
	return loc
}

// spec is the cron line for the configured daily trigger.
func (s *Scheduler) spec() string {
	return fmt.Sprintf("%d %d * * *", s.cfg.Minute, s.cfg.Hour)
}

// Start registers the daily entry and starts the cron loop. Calling Start
// on a running scheduler is a no-op reported in the result.
func (s *Scheduler) Start() OpResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return OpResult{Success: false, Message: "scheduler is already running"}
	}

	c := cron.New(cron.WithLocation(s.loc))
	id, err := c.AddFunc(s.spec(), s.runBatch)
	if err != nil {
		return OpResult{Success: false, Message: fmt.Sprintf("register daily entry: %v", err)}
	}
	c.Start()

	s.c = c
	s.entryID = id

	msg := fmt.Sprintf("daily reminders scheduled for %02d:%02d %s",
		s.cfg.Hour, s.cfg.Minute, s.loc.String())
	s.log.Info("scheduler started",
		slog.String("spec", s.spec()),
		slog.String("tz", s.loc.String()),
	)
	return OpResult{Success: true, Message: msg}
}

// Stop halts the cron loop, waits for an in-flight batch to finish and
// cancels pending one-shots. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() OpResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		return OpResult{Success: false, Message: "scheduler is not running"}
	}

	<-s.c.Stop().Done()
	s.c = nil

	s.tmu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.tmu.Unlock()

	s.log.Info("scheduler stopped")
	return OpResult{Success: true, Message: "scheduler stopped"}
}

// Status reports the current state without mutating it.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.smu.Lock()
	skipped := s.skipped
	s.smu.Unlock()

	s.tmu.Lock()
	pending := len(s.timers)
	s.tmu.Unlock()

	st := Status{
		Timezone:     s.loc.String(),
		SkippedRuns:  skipped,
		PendingShots: pending,
	}
	if s.c != nil {
		st.Running = true
		st.Schedule = s.spec()
		next := s.c.Entry(s.entryID).Next
		if !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}

// Trigger runs one batch immediately, whether or not the cron loop is
// running. It shares the overlap guard with scheduled runs and blocks
// until the batch completes.
func (s *Scheduler) Trigger(ctx context.Context) notify.BatchResult {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	s.log.Info("manual batch triggered")
	return s.runner.SendDailyReminders(ctx)
}

// ScheduleTestIn arms a one-shot batch the given number of minutes from
// now. The shot is cancelled by Stop.
func (s *Scheduler) ScheduleTestIn(minutes int) OpResult {
	if minutes <= 0 {
		return OpResult{Success: false, Message: "minutes must be positive"}
	}

	at := time.Now().In(s.loc).Add(time.Duration(minutes) * time.Minute)
	s.armOneShot(time.Duration(minutes) * time.Minute)

	return OpResult{
		Success: true,
		Message: fmt.Sprintf("test batch scheduled for %s", at.Format("15:04:05")),
	}
}

// ScheduleAt arms a one-shot batch at the next occurrence of HH:MM in the
// scheduler timezone. The shot is cancelled by Stop.
func (s *Scheduler) ScheduleAt(hour, minute int) OpResult {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return OpResult{Success: false, Message: fmt.Sprintf("invalid time %02d:%02d", hour, minute)}
	}

	now := time.Now().In(s.loc)
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.loc)
	if !at.After(now) {
		at = at.Add(24 * time.Hour)
	}
	s.armOneShot(at.Sub(now))

	return OpResult{
		Success: true,
		Message: fmt.Sprintf("one-time batch scheduled for %s", at.Format("2006-01-02 15:04")),
	}
}

func (s *Scheduler) armOneShot(in time.Duration) {
	s.tmu.Lock()
	defer s.tmu.Unlock()

	s.timerSeq++
	id := s.timerSeq
	s.timers[id] = time.AfterFunc(in, func() {
		s.tmu.Lock()
		delete(s.timers, id)
		s.tmu.Unlock()
		s.runBatch()
	})
}

// runBatch is the cron/one-shot entry point. A trigger that fires while
// the previous batch is still running is skipped, not queued.
func (s *Scheduler) runBatch() {
	if !s.batchMu.TryLock() {
		s.smu.Lock()
		s.skipped++
		skipped := s.skipped
		s.smu.Unlock()

		s.log.Warn("previous batch still running, skipping", slog.Int("skipped_total", skipped))
		return
	}
	defer s.batchMu.Unlock()

	result := s.runner.SendDailyReminders(context.Background())
	s.log.Info("scheduled batch finished",
		slog.Bool("success", result.Success),
		slog.Int("sent", result.SentCount),
		slog.Int("failed", result.FailedCount),
	)
}
