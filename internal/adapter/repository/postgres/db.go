package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=howmuchah sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Querier is satisfied by both *sql.DB and *sql.Tx, so every repository can
// run either on the pool or inside a settlement transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// NewRepositories binds every repository to q
func NewRepositories(q Querier) domain.Repositories {
	return domain.Repositories{
		Groups:      NewGroupRepository(q),
		Splits:      NewExpenseSplitRepository(q),
		Expenses:    NewExpenseRepository(q),
		Settlements: NewSettlementRepository(q),
		Users:       NewUserRepository(q),
	}
}
