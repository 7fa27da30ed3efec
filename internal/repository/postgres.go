package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/high-society/auction-server-go/internal/config"
	"github.com/high-society/auction-server-go/internal/game"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB connects to Postgres and verifies the connection.
func NewDB(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.Info("database connection pool initialized",
			zap.Int32("max_conns", poolCfg.MaxConns),
		)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

const gameStateSchema = `
CREATE TABLE IF NOT EXISTS game_states (
	room_id    TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists serialized game states in a single upsert table.
type PostgresStore struct {
	db *DB
}

var _ game.Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store backed by the given database.
func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, gameStateSchema); err != nil {
		return fmt.Errorf("failed to create game_states table: %w", err)
	}
	return nil
}

// Save upserts the serialized state for a room.
func (s *PostgresStore) Save(ctx context.Context, roomID string, data []byte) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO game_states (room_id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (room_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		roomID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// Load fetches the serialized state for a room.
func (s *PostgresStore) Load(ctx context.Context, roomID string) ([]byte, error) {
	var data []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT data FROM game_states WHERE room_id = $1`, roomID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	return data, nil
}

// Delete removes a room's state. Deleting a missing room is not an error.
func (s *PostgresStore) Delete(ctx context.Context, roomID string) error {
	if _, err := s.db.Pool.Exec(ctx,
		`DELETE FROM game_states WHERE room_id = $1`, roomID,
	); err != nil {
		return fmt.Errorf("failed to delete game state: %w", err)
	}
	return nil
}
