package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// Options selects and configures a slot driver.
type Options struct {
	Driver        string
	Prefix        string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	PostgresDSN   string
}

// Backend is a Store that owns connections which must be released on shutdown.
type Backend interface {
	Store
	io.Closer
}

// Open connects the configured driver and prepares its schema.
func Open(ctx context.Context, opts Options, log *zap.Logger) (Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("driver", opts.Driver))

	switch opts.Driver {
	case DriverMemory, "":
		log.Info("using in-memory slot store")
		return NewMemoryStore(), nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", opts.RedisAddr))
		return NewRedisStore(client, opts.Prefix, opts.TTL), nil

	case DriverMongo:
		db, err := ConnectMongoDB(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s := NewMongoStore(db)
		if err := s.CreateIndexes(ctx, opts.TTL); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", opts.MongoDatabase))
		return s, nil

	case DriverSQLite, DriverPostgres:
		dsn := opts.PostgresDSN
		if opts.Driver == DriverSQLite {
			dsn = opts.SQLitePath
		}
		s, err := NewSQLStore(opts.Driver, dsn)
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("sql slot store ready")
		return s, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
