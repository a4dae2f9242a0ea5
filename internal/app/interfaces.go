package app

import (
	"context"
	"time"
)

// Level is the severity of a user-visible message.
type Level string

// Message levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows messages to the user.
type Notifier interface {
	Notify(level Level, msg string)
}

// Scheduler runs fn on the application's event loop after delay.
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// KV is the persistence the application needs beyond the ledger itself.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes all values or none.
	PutMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}
