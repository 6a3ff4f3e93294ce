// Package bootstrap opens the storage backend named in the configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"leetracker/internal/config"
	"leetracker/internal/repositories"
	mongorepo "leetracker/internal/repositories/mongo"
	redisrepo "leetracker/internal/repositories/redis"
	"leetracker/internal/repositories/relational"
	"leetracker/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Closer releases whatever connection backs a store.Backend.
type Closer func(ctx context.Context) error

func noopCloser(context.Context) error { return nil }

// swapped out in tests
var (
	gormOpen = func(dialector gorm.Dialector) (*gorm.DB, error) {
		return gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	}
	runMigrate       = relational.Migrate
	dbConnectTimeout = 15 * time.Second
	retryInterval    = 500 * time.Millisecond
)

// OpenBackend connects to the configured backend. The returned Closer must
// be called on shutdown.
func OpenBackend(ctx context.Context, storage config.StorageConfig, logger *zap.Logger) (store.Backend, Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return repositories.NewMemoryRepository(), noopCloser, nil

	case config.BackendSQLite, config.BackendPostgres:
		dialector, err := dialectorFor(storage)
		if err != nil {
			return nil, nil, err
		}
		db, err := connectWithRetry(dialector, dbConnectTimeout, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrate(db); err != nil {
			closeGorm(db)
			return nil, nil, fmt.Errorf("migrate %s schema: %w", storage.Backend, err)
		}
		logger.Info("relational storage ready", zap.String("dialect", dialector.Name()))
		return relational.NewRepository(db), func(context.Context) error { return closeGorm(db) }, nil

	case config.BackendMongo:
		client, err := mongorepo.NewClient(ctx, storage.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo, err := mongorepo.NewStateRepo(client, storage.MongoDB, storage.MongoCollection)
		if err != nil {
			client.Disconnect(ctx)
			return nil, nil, err
		}
		logger.Info("mongo storage ready",
			zap.String("db", storage.MongoDB),
			zap.String("collection", storage.MongoCollection))
		return repo, client.Disconnect, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     storage.RedisAddr,
			Password: storage.RedisPassword,
			DB:       storage.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis at %s: %w", storage.RedisAddr, err)
		}
		logger.Info("redis storage ready", zap.String("addr", storage.RedisAddr))
		return redisrepo.NewRepository(rdb, storage.RedisKeyPrefix), func(context.Context) error { return rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage backend %q", storage.Backend)
}

func dialectorFor(storage config.StorageConfig) (gorm.Dialector, error) {
	switch storage.Backend {
	case config.BackendSQLite:
		return sqlite.Open(storage.SQLitePath), nil
	case config.BackendPostgres:
		return postgres.Open(storage.Postgres.DSN()), nil
	}
	return nil, fmt.Errorf("backend %q is not relational", storage.Backend)
}

// connectWithRetry keeps opening and pinging until the database answers or
// the timeout runs out.
func connectWithRetry(dialector gorm.Dialector, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for attempt := 1; ; attempt++ {
		db, err := gormOpen(dialector)
		if err == nil {
			if err = pingGorm(db); err == nil {
				return db, nil
			}
			closeGorm(db)
		}
		lastErr = err
		if time.Now().Add(retryInterval).After(deadline) {
			break
		}
		logger.Warn("database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("connect database within %s: %w", timeout, lastErr)
}

func pingGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
