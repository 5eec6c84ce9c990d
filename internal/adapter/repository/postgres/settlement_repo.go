package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// settlementRepository implements domain.SettlementRepository
type settlementRepository struct {
	db Querier
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db Querier) domain.SettlementRepository {
	return &settlementRepository{db: db}
}

// CreateGroup inserts the settlement event header. Its transactions are
// written separately by CreateTransactions.
func (r *settlementRepository) CreateGroup(ctx context.Context, group *domain.SettlementGroup) error {
	query := `
		INSERT INTO settlement_groups (id, group_id, settled_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, group.ID, group.GroupID, group.SettledAt); err != nil {
		if hasCode(err, codeUniqueViolation) {
			return fmt.Errorf("settlement %s already exists: %w", group.ID, err)
		}
		return fmt.Errorf("failed to insert settlement group: %w", err)
	}
	return nil
}

// CreateTransactions inserts the settlement transactions in order
func (r *settlementRepository) CreateTransactions(ctx context.Context, transactions []domain.SettlementTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	stmt, err := r.db.PrepareContext(ctx, `
		INSERT INTO settlements (id, settlement_group_id, group_id, payer_user_id, payee_user_id, amount, currency, position)
		SELECT $1::uuid, sg.id, sg.group_id, $3::uuid, $4::uuid, $5::numeric, $6::varchar, $7::integer
		FROM settlement_groups sg
		WHERE sg.id = $2::uuid
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare settlement insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range transactions {
		result, err := stmt.ExecContext(ctx,
			tx.ID,
			tx.SettlementGroupID,
			tx.PayerID,
			tx.PayeeID,
			tx.Amount.String(),
			tx.Currency,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement transaction: %w", err)
		}
		if err := requireInserted(result, tx.SettlementGroupID); err != nil {
			return err
		}
	}

	return nil
}

// requireInserted fails when the INSERT ... SELECT found no settlement event
// to attach the row to. The event is written earlier in the same transaction,
// so this is a write-path failure, never a missing resource.
func requireInserted(result sql.Result, settlementGroupID uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read inserted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to insert settlement transaction: settlement %s not visible in transaction", settlementGroupID)
	}
	return nil
}

// GetByID retrieves a settlement event with its transactions
func (r *settlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SettlementGroup, error) {
	query := `
		SELECT id, group_id, settled_at
		FROM settlement_groups
		WHERE id = $1
	`

	var group domain.SettlementGroup
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.GroupID, &group.SettledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSettlementNotFound, id)
		}
		return nil, fmt.Errorf("failed to get settlement group: %w", err)
	}
	group.SettledAt = group.SettledAt.UTC()

	txQuery := `
		SELECT id, settlement_group_id, payer_user_id, payee_user_id, amount, currency
		FROM settlements
		WHERE settlement_group_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, txQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx domain.SettlementTransaction
		var amountStr string

		if err := rows.Scan(&tx.ID, &tx.SettlementGroupID, &tx.PayerID, &tx.PayeeID, &amountStr, &tx.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan settlement transaction: %w", err)
		}

		tx.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settlement amount: %w", err)
		}

		group.Transactions = append(group.Transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement transactions: %w", err)
	}

	return &group, nil
}

// ListByGroupID returns the group's settlements, newest first
func (r *settlementRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.SettlementSummary, error) {
	query := `
		SELECT sg.id, sg.settled_at, COUNT(s.id)
		FROM settlement_groups sg
		LEFT JOIN settlements s ON s.settlement_group_id = sg.id
		WHERE sg.group_id = $1
		GROUP BY sg.id, sg.settled_at
		ORDER BY sg.settled_at DESC, sg.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement history: %w", err)
	}
	defer rows.Close()

	summaries := []domain.SettlementSummary{}
	for rows.Next() {
		var summary domain.SettlementSummary
		if err := rows.Scan(&summary.ID, &summary.SettledAt, &summary.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan settlement summary: %w", err)
		}
		summary.SettledAt = summary.SettledAt.UTC()
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement history: %w", err)
	}

	return summaries, nil
}
