package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tanqtrail-arch/Absence/internal/config"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

// Storage хранилище коллекций вместе с функцией освобождения ресурсов
type Storage struct {
	Store store.Store
	close func()
}

// Close освобождает пул или клиент бэкенда
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage подключает бэкенд, выбранный в STORE_BACKEND
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreRedis:
		return openRedis(ctx, cfg, logger)
	default:
		logger.Warn("Using in-memory store, data is lost on restart")
		return &Storage{Store: store.NewMemoryStore()}, nil
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pg := store.NewPostgresStore(pool, cfg.StorePrefix)
	if err := pg.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to PostgreSQL store")
	return &Storage{Store: pg, close: pool.Close}, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	rs := store.NewRedisStore(client, cfg.StorePrefix)
	if err := rs.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Connected to Redis store", zap.String("addr", cfg.RedisAddr))
	return &Storage{Store: rs, close: func() { _ = client.Close() }}, nil
}
