package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS auction_players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	country TEXT NOT NULL,
	role TEXT NOT NULL,
	batting_style TEXT,
	bowling_style TEXT,
	base_price BIGINT NOT NULL,
	is_overseas BOOLEAN NOT NULL,
	previous_team TEXT,
	category TEXT NOT NULL,
	set_code TEXT NOT NULL,
	age INTEGER NOT NULL,
	is_capped BOOLEAN NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const postgresUpsert = `INSERT INTO auction_players
	(id, name, country, role, batting_style, bowling_style, base_price, is_overseas,
	 previous_team, category, set_code, age, is_capped)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		country = EXCLUDED.country,
		role = EXCLUDED.role,
		batting_style = EXCLUDED.batting_style,
		bowling_style = EXCLUDED.bowling_style,
		base_price = EXCLUDED.base_price,
		is_overseas = EXCLUDED.is_overseas,
		previous_team = EXCLUDED.previous_team,
		category = EXCLUDED.category,
		set_code = EXCLUDED.set_code,
		age = EXCLUDED.age,
		is_capped = EXCLUDED.is_capped,
		updated_at = now()`

// PostgresMirror upserts the roster into a Postgres table keyed by player id.
type PostgresMirror struct {
	pool *pgxpool.Pool
}

// NewPostgresMirror connects and pings the database.
func NewPostgresMirror(ctx context.Context, databaseURL string) (*PostgresMirror, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresMirror{pool: pool}, nil
}

// Name identifies the mirror in logs.
func (m *PostgresMirror) Name() string {
	return "postgres"
}

// Close closes the connection pool.
func (m *PostgresMirror) Close() {
	if m != nil && m.pool != nil {
		m.pool.Close()
	}
}

// SavePlayers ensures the table exists and upserts every player in one batch.
func (m *PostgresMirror) SavePlayers(ctx context.Context, items []players.Player) error {
	if m == nil || m.pool == nil {
		return fmt.Errorf("postgres mirror not configured")
	}
	if _, err := m.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range items {
		batch.Queue(postgresUpsert,
			p.ID, p.Name, p.Country, p.Role,
			p.BattingStyle, p.BowlingStyle, p.BasePrice, p.IsOverseas,
			p.PreviousTeam, p.Category, p.Set, p.Age, p.IsCapped,
		)
	}

	br := m.pool.SendBatch(ctx, batch)
	for _, p := range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert %s: %w", p.ID, err)
		}
	}
	return br.Close()
}
