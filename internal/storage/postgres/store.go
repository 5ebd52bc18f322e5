// Package postgres implements the forum storage contract on PostgreSQL
// through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements storage.Storage on PostgreSQL.
type Store struct {
	db           *gorm.DB
	notifyPolicy storage.EffectPolicy
}

// Options configures a Store.
type Options struct {
	// LogLevel sets gorm's SQL log level. Zero value keeps gorm's default.
	LogLevel logger.LogLevel
	// NotificationPolicy decides whether a failed notification side effect
	// fails the operation that triggered it. Defaults to best-effort.
	NotificationPolicy storage.EffectPolicy
}

// New connects to the database, migrates the schema and returns the store.
func New(dsn string, opts Options) (*Store, error) {
	cfg := &gorm.Config{}
	if opts.LogLevel != 0 {
		cfg.Logger = logger.Default.LogMode(opts.LogLevel)
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Forum{},
		&domain.Topic{},
		&domain.Post{},
		&domain.Message{},
		&domain.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, notifyPolicy: opts.NotificationPolicy}, nil
}

// Ping probes the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close tears down the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// uniqueViolation maps a Postgres 23505 error onto the field whose
// constraint was violated, or returns nil for any other error.
func uniqueViolation(err error) *storage.ConflictError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return &storage.ConflictError{Field: "email"}
	}
	return &storage.ConflictError{Field: "username"}
}
