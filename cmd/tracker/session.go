package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-tracker/internal/app"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session is an open ledger for the duration of one command.
type session struct {
	app       *app.App
	kv        *storage.SQLiteKV
	scheduler *app.QueueScheduler
	notifier  app.Notifier
	// opened is the ledger version after loading.
	opened uint64
}

// openApp opens the ledger database and loads the application state, printing
// notifications to the command's output. Close the session when done: it
// runs any deferred actions, such as the monthly summary, first.
func openApp(cmd *cobra.Command) (*session, error) {
	scheduler := app.NewQueueScheduler()
	notifier := cli.NewNotifier(cmd.OutOrStdout(), viper.GetBool("quiet"))
	a, kv, err := openWith(cmd.Context(), dbPath(), notifier, scheduler)
	if err != nil {
		return nil, err
	}
	return &session{app: a, kv: kv, scheduler: scheduler, notifier: notifier, opened: a.Store().Version()}, nil
}

// openWith opens the database at path and an App over it. Unreadable
// records are reset and reported by the App; any other load failure closes
// the database and is returned so a later save cannot overwrite data that
// was never read.
func openWith(ctx context.Context, path string, notifier app.Notifier, scheduler app.Scheduler) (*app.App, *storage.SQLiteKV, error) {
	kv, err := storage.NewSQLiteKV(path)
	if err != nil {
		return nil, nil, common.NewUserError("Could not open the ledger database", err)
	}
	if err := kv.Migrate(ctx); err != nil {
		closeKV(kv)
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	opts := app.Options{
		KV:        kv,
		Notifier:  notifier,
		Scheduler: scheduler,
	}
	if cfg != nil {
		opts.SummaryDelay = cfg.SummaryDelay
	}
	a := app.New(opts)
	if err := a.Open(ctx); err != nil {
		if !errors.Is(err, common.ErrSerialization) {
			closeKV(kv)
			return nil, nil, fmt.Errorf("failed to load ledger: %w", err)
		}
		common.LogError(err, "Reset unreadable records", common.Fields{"path": path})
	}
	return a, kv, nil
}

func dbPath() string {
	if cfg != nil {
		return cfg.DatabasePath
	}
	return config.ExpandPath(viper.GetString(config.KeyDatabasePath))
}

// Close runs pending deferred actions and closes the database. With
// auto-save off, changes are written only when --save is given.
func (s *session) Close(ctx context.Context) error {
	drainErr := s.scheduler.Drain(ctx)
	if errors.Is(drainErr, context.Canceled) {
		drainErr = nil
	}

	var saveErr error
	if !s.app.Settings().AutoSave && s.app.Store().Version() != s.opened {
		if viper.GetBool("save") {
			saveErr = s.app.Save(ctx)
		} else {
			s.notifier.Notify(app.LevelWarning, "Auto-save is off: changes were not saved (pass --save to keep them)")
		}
	}
	return errors.Join(drainErr, saveErr, s.kv.Close())
}

// settled marks the current ledger state as already handled, so Close does
// not report it as unsaved.
func (s *session) settled() {
	s.opened = s.app.Store().Version()
}

func closeKV(kv *storage.SQLiteKV) {
	if err := kv.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// finish closes s and folds a close failure into err.
func (s *session) finish(ctx context.Context, err *error) {
	if closeErr := s.Close(ctx); closeErr != nil && *err == nil {
		*err = closeErr
	}
}
