package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// TxManager implements domain.TxManager on top of database/sql transactions
type TxManager struct {
	db          *DB
	lockTimeout time.Duration
}

// NewTxManager creates a transaction manager. A positive lockTimeout bounds
// how long any statement in the transaction may wait for a row lock.
func NewTxManager(db *DB, lockTimeout time.Duration) *TxManager {
	return &TxManager{db: db, lockTimeout: lockTimeout}
}

// WithinTransaction runs fn in a transaction, committing only if fn succeeds
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	dbTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if m.lockTimeout > 0 {
		// SET does not take bind parameters; the value is an integer we format ourselves.
		query := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := dbTx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	if err := fn(ctx, NewRepositories(dbTx)); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
