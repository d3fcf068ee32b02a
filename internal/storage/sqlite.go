package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Record is the gorm model behind GormStore.
type Record struct {
	Name      string `gorm:"primaryKey;type:varchar(255)"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// GormStore keeps records in a sqlite file through gorm.
type GormStore struct {
	db *gorm.DB
}

func OpenSQLite(ctx context.Context, path string) (*GormStore, error) {
	if path == "" {
		path = "greenmart.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreatingTableFailed, err)
	}

	return &GormStore{db: db}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := g.db.WithContext(ctx).First(&rec, "name = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (g *GormStore) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{Name: key, Value: string(value)}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
