package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexus/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the row layout of the records table
type Record struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "records"
}

// SQLStore keeps records in a single key/value table through gorm. It works
// with any gorm dialect; sqlite and postgres are wired by the factory.
// Stored keys carry the prefix so several deployments can share one table.
type SQLStore struct {
	db        *gorm.DB
	keyPrefix string
}

// NewSQLStore wraps an open gorm connection. A non-empty keyPrefix is
// joined to every key with ":", as RedisStore does.
func NewSQLStore(db *gorm.DB, keyPrefix string) *SQLStore {
	if keyPrefix != "" {
		keyPrefix += ":"
	}
	return &SQLStore{db: db, keyPrefix: keyPrefix}
}

// AutoMigrate creates the records table when it does not exist
func (s *SQLStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate records table: %w", err)
	}
	return nil
}

// Get implements shared.RecordStore
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("key = ?", s.keyPrefix+key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return rec.Value, nil
}

// Put implements shared.RecordStore as an upsert on key
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: s.keyPrefix + key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

// Delete implements shared.RecordStore
func (s *SQLStore) Delete(ctx context.Context, key string) (bool, error) {
	result := s.db.WithContext(ctx).Where("key = ?", s.keyPrefix+key).Delete(&Record{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete record %s: %w", key, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Ping implements shared.RecordStore
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ shared.RecordStore = (*SQLStore)(nil)
