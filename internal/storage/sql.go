package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
	"github.com/sol1corejz/greenmart/internal/logger"
	"go.uber.org/zap"
	"time"
)

// SQLStore keeps records in a postgres table through database/sql.
// The driver is either "pgx" or "postgres" (lib/pq).
type SQLStore struct {
	DB *sql.DB
}

func OpenSQL(ctx context.Context, driver, databaseURI string) (*SQLStore, error) {
	if databaseURI == "" {
		return nil, ErrConnectionFailed
	}

	db, err := sql.Open(driver, databaseURI)
	if err != nil {
		logger.Log.Error("Error opening database connection", zap.Error(err))
		return nil, ErrConnectionFailed
	}

	if err := db.PingContext(ctx); err != nil {
		logger.Log.Error("Error pinging database", zap.String("driver", driver), zap.Error(err))
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_records (
			name VARCHAR(255) PRIMARY KEY NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`); err != nil {
		logger.Log.Error("Error creating table", zap.Error(err))
		db.Close()
		return nil, ErrCreatingTableFailed
	}

	return &SQLStore{DB: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM kv_records WHERE name = $1;
	`, key).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv_records (name, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
	`, key, string(value), time.Now().UTC())

	if err != nil {
		logger.Log.Error("Error writing record", zap.String("name", key), zap.Error(err))
		return err
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}
