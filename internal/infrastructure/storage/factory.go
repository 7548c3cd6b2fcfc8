package storage

import (
	"context"
	"fmt"

	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLOpener opens a gorm connection for the sqlite or postgres driver
type SQLOpener func(driver string) (*gorm.DB, error)

// Factory creates the record store selected by store.driver
type Factory struct {
	cfg       *config.Config
	logger    *zap.Logger
	openSQL   SQLOpener
	s3Options []S3Option
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithSQLOpener sets how SQL drivers obtain their gorm connection
func WithSQLOpener(open SQLOpener) FactoryOption {
	return func(f *Factory) {
		f.openSQL = open
	}
}

// WithS3Options passes options through to NewS3Store
func WithS3Options(opts ...S3Option) FactoryOption {
	return func(f *Factory) {
		f.s3Options = append(f.s3Options, opts...)
	}
}

// NewFactory creates a new factory
func NewFactory(cfg *config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create opens the configured backend. When the backend is unreachable and
// store.fallback_to_memory is set, a MemoryStore is returned instead.
func (f *Factory) Create(ctx context.Context) (shared.RecordStore, string, error) {
	driver := f.cfg.Store.Driver
	store, err := f.open(ctx, driver)
	if err == nil {
		f.logger.Info("Record store ready", zap.String("driver", driver))
		return store, driver, nil
	}

	if !f.cfg.Store.FallbackToMemory || driver == config.DriverMemory {
		return nil, "", fmt.Errorf("record store %s unavailable: %w", driver, err)
	}

	f.logger.Warn("Record store unavailable, falling back to in-memory store. "+
		"Data will not survive a restart.",
		zap.String("driver", driver),
		zap.Error(err),
	)
	return NewMemoryStore(), config.DriverMemory, nil
}

func (f *Factory) open(ctx context.Context, driver string) (shared.RecordStore, error) {
	switch driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverRedis:
		return NewRedisStore(f.cfg.Redis, f.cfg.Store.KeyPrefix)
	case config.DriverSQLite, config.DriverPostgres:
		if f.openSQL == nil {
			return nil, fmt.Errorf("no SQL opener configured for driver %s", driver)
		}
		db, err := f.openSQL(driver)
		if err != nil {
			return nil, err
		}
		store := NewSQLStore(db, f.cfg.Store.KeyPrefix)
		if f.cfg.Store.AutoMigrate {
			if err := store.AutoMigrate(); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil
	case config.DriverS3:
		opts := append([]S3Option{WithS3Logger(f.logger)}, f.s3Options...)
		store, err := NewS3Store(f.cfg.S3, f.cfg.Store.KeyPrefix, opts...)
		if err != nil {
			return nil, err
		}
		if f.cfg.S3.CreateBucket {
			err = store.EnsureBucket(ctx)
		} else {
			err = store.Ping(ctx)
		}
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}
