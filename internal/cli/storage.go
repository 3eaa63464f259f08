package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/adapter/storage"
	"github.com/rl1809/bata-cart/internal/config"
	"github.com/rl1809/bata-cart/internal/port"
)

// openStorage connects the configured backend. The returned close func
// releases its connections.
func openStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (port.LocalStorage, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage, carts are lost on restart")
		return storage.NewMemoryAdapter(), func() error { return nil }, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisAdapter(rdb, cfg.RedisTTL), rdb.Close, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to mysql")
		return adapter, db.Close, nil

	case config.BackendSQLite:
		adapter, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("opened sqlite", zap.String("path", cfg.SQLitePath))
		return adapter, adapter.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
