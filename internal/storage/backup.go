package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup errors.
var (
	ErrBackupExists     = errors.New("backup file already exists")
	ErrInvalidBackupDst = errors.New("invalid backup destination")
)

// BackupInfo describes a completed backup.
type BackupInfo struct {
	CreatedAt time.Time
	Path      string
	Size      int64
	Records   int
}

// Backup writes a consistent copy of the database to dest using
// VACUUM INTO. dest must be an absolute path that does not exist yet.
func (s *SQLiteKV) Backup(ctx context.Context, dest string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBackupPath(dest); err != nil {
		return nil, err
	}
	if _, err := os.Stat(dest); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	if s.dbPath != ":memory:" {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return nil, fmt.Errorf("failed to checkpoint WAL: %w", err)
		}
	}

	var records int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&records); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	// #nosec G201 - dest is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", dest)); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	stat, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		CreatedAt: s.now().UTC(),
		Path:      dest,
		Size:      stat.Size(),
		Records:   records,
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO backups (path, size, records, created_at) VALUES (?, ?, ?, ?)`,
		info.Path, info.Size, info.Records, info.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to record backup: %w", err)
	}

	return info, nil
}

// Backups lists recorded backups, newest first.
func (s *SQLiteKV) Backups(ctx context.Context) ([]BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, size, records, created_at FROM backups ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var backups []BackupInfo
	for rows.Next() {
		var b BackupInfo
		if err := rows.Scan(&b.Path, &b.Size, &b.Records, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// DefaultBackupPath returns a timestamped backup path next to the database.
func (s *SQLiteKV) DefaultBackupPath() string {
	name := fmt.Sprintf("ledger-%s.db", s.now().Format("2006-01-02-150405"))
	if s.dbPath == ":memory:" {
		return filepath.Join(os.TempDir(), name)
	}
	return filepath.Join(filepath.Dir(s.dbPath), "backups", name)
}

func validateBackupPath(dest string) error {
	if !filepath.IsAbs(dest) || strings.Contains(dest, "..") {
		return fmt.Errorf("%w: must be an absolute path", ErrInvalidBackupDst)
	}
	if strings.ContainsAny(dest, `'";`) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidBackupDst)
	}
	return nil
}
