package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// record is the single table backing the Postgres store: one jsonb blob per
// key.
type record struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Blob      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "records" }

// PostgresStore keeps records in a Postgres table via GORM. This is the
// "remote" half of the dual persistence model.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgres connects, configures the pool and migrates the records table.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("records migration failed: %w", err)
	}

	slog.Info("database connected", "driver", "postgres")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Blob), true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, blob []byte) error {
	rec := record{Key: key, Blob: datatypes.JSON(blob), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&rec).Error
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&record{}, "key = ?", key).Error
}

func (s *PostgresStore) Keys(ctx context.Context) ([]Record, error) {
	var recs []record
	if err := s.db.WithContext(ctx).Order("key").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, Record{Key: r.Key, Blob: []byte(r.Blob)})
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
