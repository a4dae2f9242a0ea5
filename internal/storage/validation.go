// Package storage persists ledger records in a SQLite key-value table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// maxKeyLength bounds record keys; keys are short dotted names.
const maxKeyLength = 128

// Validation errors.
var (
	ErrNilContext = errors.New("context cannot be nil")
	ErrEmptyPath  = errors.New("database path cannot be empty")
	ErrInvalidKey = errors.New("invalid record key")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	return nil
}

// validateKey rejects empty keys, keys with whitespace, and overlong keys.
func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > maxKeyLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	case strings.IndexFunc(key, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidKey, key)
	}
	return nil
}
