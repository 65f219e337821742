// Package app wires cmd/chimedemo's components together: configuration,
// logging, the job coordinator, its optional outcome recorder, the
// read-only inspection API, and an optional Telegram announce hook.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"

	"github.com/boreiy/chime-go/chimelog"
	"github.com/boreiy/chime-go/coordinator"
	"github.com/boreiy/chime-go/cron"
	"github.com/boreiy/chime-go/internal/config"
	"github.com/boreiy/chime-go/internal/httpapi"
	"github.com/boreiy/chime-go/internal/notify"
	"github.com/boreiy/chime-go/internal/platform/logger"
	"github.com/boreiy/chime-go/timeseq"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New loads configuration and builds the logger.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "chimedemo",
	})
	return &App{cfg: cfg, log: log}, nil
}

// Run starts the coordinator and HTTP inspection API, and blocks until
// SIGINT/SIGTERM.
func (a *App) Run() error {
	a.log.Info("starting")
	defer logger.Close(a.log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder chimelog.Recorder
	switch a.cfg.ChimeLog.Driver {
	case "postgres":
		rec, err := chimelog.NewPostgresRecorder(ctx, a.cfg.ChimeLog.DSN)
		if err != nil {
			return fmt.Errorf("chimelog postgres: %w", err)
		}
		recorder = rec
	case "sqlite":
		rec, err := chimelog.NewSQLiteRecorder(ctx, a.cfg.ChimeLog.DSN)
		if err != nil {
			return fmt.Errorf("chimelog sqlite: %w", err)
		}
		recorder = rec
	}
	if recorder != nil {
		defer recorder.Close(context.Background())
	}

	var announce notify.AnnounceFunc
	if a.cfg.Telegram.Token != "" && a.cfg.Telegram.ChatID != "" {
		b, err := bot.New(a.cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		var chatID int64
		if _, err := fmt.Sscanf(a.cfg.Telegram.ChatID, "%d", &chatID); err != nil {
			return fmt.Errorf("telegram chat id %q: %w", a.cfg.Telegram.ChatID, err)
		}
		announce = notify.Telegram(b, chatID)
	}

	coord := coordinator.New(coordinator.Options{
		Logger: a.log,
		OnJobFinished: func(id string) {
			a.log.Info("job finished", "job_id", id)
			if announce != nil {
				_ = announce(id, "finished")
			}
		},
		OnJobAborted: func(id string) {
			a.log.Info("job aborted", "job_id", id)
		},
	})
	defer coord.Close()

	if err := coord.Schedule(a.demoJobs(recorder)); err != nil {
		return fmt.Errorf("schedule demo jobs: %w", err)
	}

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: httpapi.NewRouter(coord)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("http server", "err", err)
		}
	}()

	<-ctx.Done()
	a.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// demoJobs builds the static set of illustrative jobs cmd/chimedemo always
// runs. There is no persistence of jobs added at runtime, by design: a
// restart re-submits exactly this set, matching the library's in-process
// only scope.
func (a *App) demoJobs(recorder chimelog.Recorder) map[string]coordinator.Job {
	heartbeat := func(ctx context.Context, t timeseq.Time) error {
		a.log.Info("heartbeat", "at", t.Time())
		return nil
	}

	dailyReport := func(ctx context.Context, t timeseq.Time) error {
		a.log.Info("daily report", "at", t.Time())
		return nil
	}

	if recorder != nil {
		heartbeat = chimelog.Wrap("heartbeat", recorder, chimelog.WrapOptions{Logger: a.log}, heartbeat)
		dailyReport = chimelog.Wrap("daily-report", recorder, chimelog.WrapOptions{Logger: a.log}, dailyReport)
	}

	return map[string]coordinator.Job{
		"heartbeat": {
			Times:    func() timeseq.Sequence { return timeseq.Periodic(time.Now().Add(time.Minute), time.Minute) },
			Callback: heartbeat,
		},
		"daily-report": {
			Times: func() timeseq.Sequence {
				sched, err := cron.Parse("0 9 * * ?")
				if err != nil {
					panic(err) // a fixed, compile-time-known expression
				}
				return sched.Times(time.Local, time.Now())
			},
			Callback: dailyReport,
		},
	}
}
