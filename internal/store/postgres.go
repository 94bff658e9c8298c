package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранит каждую коллекцию одной jsonb строкой в таблице kv_collections.
// Таблица создаётся миграциями goose (internal/app/migrations).
type PostgresStore struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewPostgresStore создаёт хранилище поверх пула соединений
func NewPostgresStore(pool *pgxpool.Pool, prefix string) *PostgresStore {
	return &PostgresStore{pool: pool, prefix: prefix}
}

// Get получает документ коллекции
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM kv_collections
		WHERE key = $1
	`

	var value []byte
	err := s.pool.QueryRow(ctx, query, s.prefix+key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, unavailable("get", key, err)
	}

	return value, nil
}

// Set перезаписывает документ коллекции целиком
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_collections (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, s.prefix+key, value)
	if err != nil {
		return unavailable("set", key, err)
	}

	return nil
}

// Ping проверяет доступность базы
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
