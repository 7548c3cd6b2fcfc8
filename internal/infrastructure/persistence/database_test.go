package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock
}

func TestNewDatabase_SQLiteMemory(t *testing.T) {
	db, err := NewDatabase(config.DriverSQLite, config.DatabaseConfig{
		SQLitePath:   ":memory:",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
	assert.NoError(t, db.Ping())
}

func TestNewDatabase_WithTracing(t *testing.T) {
	db, err := NewDatabase(config.DriverSQLite, config.DatabaseConfig{SQLitePath: ":memory:"}, WithTracing(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NotNil(t, db.DB.Config.Plugins["otelgorm"])
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase("mysql", config.DatabaseConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported SQL driver")
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed ping", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(assert.AnError)

		assert.ErrorIs(t, db.Ping(), assert.AnError)
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, _ := newMockDatabase(t)

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}
