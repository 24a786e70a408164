package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

// Store implements store.Store on a single SQLite file.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path with WAL and foreign keys
// enabled, and creates any missing table. Existing tables are left as they are.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// initSchema creates tables if they don't exist.
// Link tables are plain (parent, group) pairs; uniqueness is kept by the callers.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS abbrs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	descr TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	disabled INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_abbrs_name ON abbrs(name);

CREATE TABLE IF NOT EXISTS "groups" (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	disabled INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS abbr_group (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	abbr_id INTEGER NOT NULL,
	group_id INTEGER NOT NULL,
	FOREIGN KEY(abbr_id) REFERENCES abbrs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_abbr_group_abbr ON abbr_group(abbr_id);
CREATE INDEX IF NOT EXISTS idx_abbr_group_group ON abbr_group(group_id);

CREATE TABLE IF NOT EXISTS not_an_abbrs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	disabled INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_not_an_abbrs_name ON not_an_abbrs(name);

CREATE TABLE IF NOT EXISTS not_an_abbr_group (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	not_an_abbr_id INTEGER NOT NULL,
	group_id INTEGER NOT NULL,
	FOREIGN KEY(not_an_abbr_id) REFERENCES not_an_abbrs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_not_an_abbr_group_parent ON not_an_abbr_group(not_an_abbr_id);
CREATE INDEX IF NOT EXISTS idx_not_an_abbr_group_group ON not_an_abbr_group(group_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// replaceLinks rewrites the link rows of one parent inside tx.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, parentCol string, parentID int64, groupIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+parentCol+`=?`, parentID); err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (`+parentCol+`, group_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, gid := range groupIDs {
		if _, err := stmt.ExecContext(ctx, parentID, gid); err != nil {
			return err
		}
	}
	return nil
}

// loadLinks returns parent id -> group ids for a whole link table, in insertion order.
func loadLinks(ctx context.Context, q querier, table, parentCol string) (map[int64][]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+parentCol+`, group_id FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[int64][]int64)
	for rows.Next() {
		var parent, group int64
		if err := rows.Scan(&parent, &group); err != nil {
			return nil, err
		}
		links[parent] = append(links[parent], group)
	}
	return links, rows.Err()
}

// linksOf returns the group ids of a single parent.
func linksOf(ctx context.Context, q querier, table, parentCol string, parentID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT group_id FROM `+table+` WHERE `+parentCol+`=? ORDER BY id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// withTx runs fn in a transaction and commits when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
