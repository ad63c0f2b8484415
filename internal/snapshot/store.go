package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store keeps snapshots in a single SQLite table as JSON payloads keyed by name.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		path = "snapshots.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		solute TEXT NOT NULL,
		shaker_count INTEGER NOT NULL,
		precipitate_count INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save writes st under st.Name, replacing any snapshot with that name.
func (s *Store) Save(ctx context.Context, st *State) error {
	if st.Name == "" {
		return errors.New("snapshot: name is required")
	}
	if st.SavedAt.IsZero() {
		st.SavedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots (name, saved_at, solute, shaker_count, precipitate_count, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			saved_at = excluded.saved_at,
			solute = excluded.solute,
			shaker_count = excluded.shaker_count,
			precipitate_count = excluded.precipitate_count,
			payload = excluded.payload`,
		st.Name, st.SavedAt.Format(time.RFC3339Nano), st.Solute, len(st.Shaker), len(st.Precipitate), payload)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", st.Name, err)
	}
	logrus.Debugf("saved snapshot %s (%d shaker, %d precipitate particles)", st.Name, len(st.Shaker), len(st.Precipitate))
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (*State, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	var st State
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	logrus.Debugf("loaded snapshot %s", name)
	return &st, nil
}

// List returns stored snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at, solute, shaker_count, precipitate_count
		FROM snapshots ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			savedAt string
		)
		if err := rows.Scan(&sum.Name, &savedAt, &sum.Solute, &sum.Shaker, &sum.Precipitate); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if sum.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, fmt.Errorf("parse saved_at for %s: %w", sum.Name, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
