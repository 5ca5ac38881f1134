package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

const sqliteSchema = `CREATE TABLE auction_players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	country TEXT NOT NULL,
	role TEXT NOT NULL,
	batting_style TEXT,
	bowling_style TEXT,
	base_price INTEGER NOT NULL,
	is_overseas INTEGER NOT NULL,
	previous_team TEXT,
	category TEXT NOT NULL,
	set_code TEXT NOT NULL,
	age INTEGER NOT NULL,
	is_capped INTEGER NOT NULL,
	position INTEGER NOT NULL
)`

const sqliteInsert = `INSERT INTO auction_players
	(id, name, country, role, batting_style, bowling_style, base_price, is_overseas,
	 previous_team, category, set_code, age, is_capped, position)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteMirror rewrites a local SQLite table with the full roster on every save.
type SQLiteMirror struct {
	path string
}

// NewSQLiteMirror targets the database file at path.
func NewSQLiteMirror(path string) *SQLiteMirror {
	return &SQLiteMirror{path: path}
}

// Name identifies the mirror in logs.
func (m *SQLiteMirror) Name() string {
	return "sqlite"
}

// SavePlayers replaces the auction_players table inside one transaction.
func (m *SQLiteMirror) SavePlayers(ctx context.Context, items []players.Player) error {
	if m == nil || m.path == "" {
		return fmt.Errorf("sqlite mirror not configured")
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", m.path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS auction_players`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range items {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Country, p.Role,
			nullString(p.BattingStyle), nullString(p.BowlingStyle),
			p.BasePrice, boolInt(p.IsOverseas),
			nullString(p.PreviousTeam), p.Category, p.Set, p.Age, boolInt(p.IsCapped), i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite tx: %w", err)
	}
	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
