package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is the part of *sql.DB and *sql.Tx the repositories use, so the same
// repository code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(db),
		Customers: NewCustomerRepository(db),
		RentOuts:  NewRentOutRepository(db),
	}
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	logger.EnterMethod("Store.WithinTx")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("Store.WithinTx", err)
		return translateError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		logger.Debug("Transaction rolled back", "error", err)
		return translateError(err)
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("Store.WithinTx", err)
		return translateError(fmt.Errorf("commit transaction: %w", err))
	}

	logger.ExitMethod("Store.WithinTx")
	return nil
}

var _ repository.Transactor = (*Store)(nil)

// Postgres error codes that mean a concurrent writer won.
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
	codeLockNotAvailable     pq.ErrorCode = "55P03"
)

// translateError maps lock and serialization failures onto
// domain.ErrConcurrencyConflict and leaves every other error untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pqErr.Message)
		}
	}
	return err
}

// notFound turns sql.ErrNoRows into a domain not-found error.
func notFound(err error, entity string, id int32) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError(entity, id)
	}
	return err
}

func offset(page, pageSize int32) int32 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
