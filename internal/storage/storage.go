package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/shared/postgresql"
)

// Storage handles all PostgreSQL operations for jobs, swipes, users and transactions
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStorage creates a new Storage instance
func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
		now:    time.Now,
	}
}

type JobFilter struct {
	Category string
	Limit    int
}

type TransactionFilter struct {
	Limit  int
	Cursor *TransactionCursor
}

type TransactionCursor struct {
	CreatedAt time.Time
	PaymentID string
}

// storageErr wraps a driver error so callers can classify it with errors.Is
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", domain.ErrStorage, op, err)
}

// HealthCheck verifies the database is reachable
func (s *Storage) HealthCheck(ctx context.Context) error {
	var result int
	if err := s.db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return storageErr("ping database", err)
	}
	return nil
}
