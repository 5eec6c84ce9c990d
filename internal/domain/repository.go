package domain

import (
	"context"

	"github.com/google/uuid"
)

// GroupRepository defines the interface for group lookups and locking
type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	// LockByID loads the group and holds an exclusive row lock on it until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*Group, error)
	// IsMember reports whether the user has a membership row or owns the group.
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

// ExpenseSplitRepository defines the interface for expense split persistence
type ExpenseSplitRepository interface {
	FindUnsettledByGroupID(ctx context.Context, groupID uuid.UUID) ([]ExpenseSplit, error)
	MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// SettlementRepository defines the interface for settlement persistence
type SettlementRepository interface {
	CreateGroup(ctx context.Context, group *SettlementGroup) error
	CreateTransactions(ctx context.Context, transactions []SettlementTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*SettlementGroup, error)
	// ListByGroupID returns the group's settlements, newest first.
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]SettlementSummary, error)
}

// UserRepository defines the interface for user lookups
type UserRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]UserSummary, error)
}

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Groups      GroupRepository
	Splits      ExpenseSplitRepository
	Expenses    ExpenseRepository
	Settlements SettlementRepository
	Users       UserRepository
}

// TxManager runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// SettlementCache stores settlement views by id. Views never change once
// committed, so entries only expire.
type SettlementCache interface {
	Get(ctx context.Context, id uuid.UUID) (*SettlementView, bool, error)
	Set(ctx context.Context, view *SettlementView) error
}

// SettlementPublisher announces committed settlements to other services.
type SettlementPublisher interface {
	PublishSettlementCompleted(ctx context.Context, event SettlementCompleted) error
}
