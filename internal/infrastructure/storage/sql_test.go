package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	// every pooled connection to :memory: would otherwise see its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	store := NewSQLStore(openSQLiteDB(t), "")
	require.NoError(t, store.AutoMigrate())
	return store
}

func newMockSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = mockDB.Close() })
	return NewSQLStore(db, ""), mock
}

func TestSQLStore_Contract(t *testing.T) {
	runRecordStoreContract(t, func(t *testing.T) shared.RecordStore {
		return newSQLiteStore(t)
	})
}

func TestSQLStore_AutoMigrateIsIdempotent(t *testing.T) {
	store := newSQLiteStore(t)
	assert.NoError(t, store.AutoMigrate())
}

func TestSQLStore_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	db := openSQLiteDB(t)
	first := NewSQLStore(db, "shop-a")
	second := NewSQLStore(db, "shop-b")
	require.NoError(t, first.AutoMigrate())

	require.NoError(t, first.Put(ctx, "product:1", []byte(`{"name":"a"}`)))
	require.NoError(t, second.Put(ctx, "product:1", []byte(`{"name":"b"}`)))

	value, err := first.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a"}`, string(value))
	value, err = second.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(value))

	var keys []string
	require.NoError(t, db.Model(&Record{}).Order("key").Pluck("key", &keys).Error)
	assert.Equal(t, []string{"shop-a:product:1", "shop-b:product:1"}, keys)

	existed, err := first.Delete(ctx, "product:1")
	require.NoError(t, err)
	assert.True(t, existed)
	_, err = second.Get(ctx, "product:1")
	assert.NoError(t, err)
}

func TestSQLStore_PrefixedQueryArgs(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{SkipDefaultTransaction: true, Logger: logger.Discard})
	require.NoError(t, err)
	store := NewSQLStore(db, "nexus")

	mock.ExpectExec(`DELETE FROM "records"`).WithArgs("nexus:sale:1").WillReturnResult(sqlmock.NewResult(0, 1))

	existed, err := store.Delete(context.Background(), "sale:1")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_MissingRowMapsToNotFound(t *testing.T) {
	store, mock := newMockSQLStore(t)

	mock.ExpectQuery(`SELECT \* FROM "records"`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	_, err := store.Get(context.Background(), "product:nope")
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_QueryErrorIsWrapped(t *testing.T) {
	store, mock := newMockSQLStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT \* FROM "records"`).WillReturnError(boom)

	_, err := store.Get(context.Background(), "product:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, shared.ErrRecordNotFound)
	assert.Contains(t, err.Error(), "product:1")
}

func TestSQLStore_DeleteUsesRowsAffected(t *testing.T) {
	store, mock := newMockSQLStore(t)

	mock.ExpectExec(`DELETE FROM "records"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "records"`).WillReturnResult(sqlmock.NewResult(0, 0))

	existed, err := store.Delete(context.Background(), "sale:1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(context.Background(), "sale:1")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_DeleteError(t *testing.T) {
	store, mock := newMockSQLStore(t)

	mock.ExpectExec(`DELETE FROM "records"`).WillReturnError(errors.New("read-only transaction"))

	_, err := store.Delete(context.Background(), "sale:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete record sale:1")
}
