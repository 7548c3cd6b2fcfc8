package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func factoryConfig(driver string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Driver: driver, KeyPrefix: "nexus", AutoMigrate: true},
		Redis: config.RedisConfig{Host: "127.0.0.1", Port: 1},
		S3:    testS3Config(),
	}
}

func TestFactory_Memory(t *testing.T) {
	store, driver, err := NewFactory(factoryConfig(config.DriverMemory)).Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, driver)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestFactory_SQLite(t *testing.T) {
	opener := func(driver string) (*gorm.DB, error) {
		assert.Equal(t, config.DriverSQLite, driver)
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
		if err != nil {
			return nil, err
		}
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	store, driver, err := NewFactory(factoryConfig(config.DriverSQLite), WithSQLOpener(opener)).Create(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	assert.Equal(t, config.DriverSQLite, driver)

	require.NoError(t, store.Put(context.Background(), "k", []byte("v")))
}

func TestFactory_SQLWithoutOpener(t *testing.T) {
	_, _, err := NewFactory(factoryConfig(config.DriverPostgres)).Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL opener")
}

func TestFactory_S3CreatesBucket(t *testing.T) {
	cfg := factoryConfig(config.DriverS3)
	cfg.S3.CreateBucket = true
	fake := newFakeS3(false)

	store, driver, err := NewFactory(cfg, WithS3Options(WithHTTPClient(&http.Client{Transport: fake}))).Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DriverS3, driver)
	assert.IsType(t, &S3Store{}, store)
	assert.True(t, fake.bucket)
}

func TestFactory_FallbackToMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := factoryConfig(config.DriverRedis)
	cfg.Store.FallbackToMemory = true

	store, driver, err := NewFactory(cfg, WithLogger(zap.New(core))).Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, driver)
	assert.IsType(t, &MemoryStore{}, store)

	entries := logs.FilterMessageSnippet("falling back to in-memory").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "redis", entries[0].ContextMap()["driver"])
}

func TestFactory_NoFallback(t *testing.T) {
	opener := func(string) (*gorm.DB, error) { return nil, errors.New("dial tcp: refused") }

	_, _, err := NewFactory(factoryConfig(config.DriverPostgres), WithSQLOpener(opener)).Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record store postgres unavailable")
}

func TestFactory_UnknownDriver(t *testing.T) {
	cfg := factoryConfig("etcd")
	cfg.Store.FallbackToMemory = true

	// unknown drivers still fall back; config validation rejects them earlier
	_, driver, err := NewFactory(cfg).Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, driver)
}
