package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// expenseSplitRepository implements domain.ExpenseSplitRepository
type expenseSplitRepository struct {
	db Querier
}

// NewExpenseSplitRepository creates a new expense split repository
func NewExpenseSplitRepository(db Querier) domain.ExpenseSplitRepository {
	return &expenseSplitRepository{db: db}
}

// FindUnsettledByGroupID returns every unsettled split of the group joined
// with its expense's payer and currency
func (r *expenseSplitRepository) FindUnsettledByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.ExpenseSplit, error) {
	query := `
		SELECT es.expense_id, e.currency, e.paid_by_user_id, es.user_id, es.amount_owed
		FROM expense_splits es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.group_id = $1 AND es.is_settled = false
		ORDER BY e.created_at, es.expense_id, es.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled splits: %w", err)
	}
	defer rows.Close()

	var splits []domain.ExpenseSplit
	for rows.Next() {
		var split domain.ExpenseSplit
		var amountStr string

		if err := rows.Scan(&split.ExpenseID, &split.Currency, &split.PayerID, &split.DebtorID, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}

		split.AmountOwed, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount owed: %w", err)
		}

		splits = append(splits, split)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense splits: %w", err)
	}

	return splits, nil
}

// MarkAllSettledByGroupID flags every unsettled split of the group as settled
func (r *expenseSplitRepository) MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error) {
	query := `
		UPDATE expense_splits es
		SET is_settled = true
		FROM expenses e
		WHERE es.expense_id = e.id AND e.group_id = $1 AND es.is_settled = false
	`

	result, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark splits settled: %w", err)
	}
	return result.RowsAffected()
}

// expenseRepository implements domain.ExpenseRepository
type expenseRepository struct {
	db Querier
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db Querier) domain.ExpenseRepository {
	return &expenseRepository{db: db}
}

// MarkAllSettledByGroupID flags every unsettled expense of the group as settled
func (r *expenseRepository) MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error) {
	query := `
		UPDATE expenses
		SET is_settled = true, updated_at = NOW()
		WHERE group_id = $1 AND is_settled = false
	`

	result, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expenses settled: %w", err)
	}
	return result.RowsAffected()
}
