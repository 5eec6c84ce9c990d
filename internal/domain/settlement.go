package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseSplit is one debtor's share of one expense, joined with the
// expense's payer and currency. The settlement engine only reads these.
type ExpenseSplit struct {
	ExpenseID  uuid.UUID
	Currency   string
	PayerID    uuid.UUID
	DebtorID   uuid.UUID
	AmountOwed decimal.Decimal
}

// Balances maps a user to their net position in a single currency.
// Positive means the user is owed money, negative means they owe.
type Balances map[uuid.UUID]decimal.Decimal

// Sum returns the total of all balances. A consistent ledger sums to zero.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// SettlementTransaction is a single "payer pays payee" instruction produced
// by a settlement.
type SettlementTransaction struct {
	ID                uuid.UUID
	SettlementGroupID uuid.UUID
	PayerID           uuid.UUID
	PayeeID           uuid.UUID
	Amount            decimal.Decimal
	Currency          string
}

// Validate checks the transaction is a positive payment between two
// different users in a known currency.
func (t *SettlementTransaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("settlement amount must be positive, got %s", t.Amount.String())
	}
	if t.PayerID == t.PayeeID {
		return errors.New("payer and payee must be different users")
	}
	if t.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// SettlementGroup is the immutable record of one settle action on a group.
// It may hold zero transactions when every balance cancelled out.
type SettlementGroup struct {
	ID           uuid.UUID
	GroupID      uuid.UUID
	SettledAt    time.Time
	Transactions []SettlementTransaction
}

// Validate ensures every transaction belongs to this settlement and is well formed.
func (g *SettlementGroup) Validate() error {
	if g.GroupID == uuid.Nil {
		return errors.New("settlement must reference a group")
	}
	for i := range g.Transactions {
		tx := &g.Transactions[i]
		if tx.SettlementGroupID != g.ID {
			return fmt.Errorf("transaction %s belongs to settlement %s, not %s", tx.ID, tx.SettlementGroupID, g.ID)
		}
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

// Currencies returns the distinct currencies used by the transactions, in
// first-seen order.
func (g *SettlementGroup) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range g.Transactions {
		if !seen[tx.Currency] {
			seen[tx.Currency] = true
			out = append(out, tx.Currency)
		}
	}
	return out
}

// SettlementSummary is the history projection of a SettlementGroup.
type SettlementSummary struct {
	ID               uuid.UUID
	SettledAt        time.Time
	TransactionCount int
}

// TransactionView is a settlement transaction with the parties resolved.
type TransactionView struct {
	ID       uuid.UUID       `json:"id"`
	Payer    UserSummary     `json:"payer"`
	Payee    UserSummary     `json:"payee"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// SettlementView is what callers get back from executing or inspecting a settlement.
type SettlementView struct {
	ID           uuid.UUID         `json:"id"`
	GroupID      uuid.UUID         `json:"group_id"`
	SettledAt    time.Time         `json:"settled_at"`
	Transactions []TransactionView `json:"transactions"`
}

// CurrencyPreview holds the current net balances of one currency and the
// transactions a settlement would emit for them.
type CurrencyPreview struct {
	Currency     string
	Balances     Balances
	Transactions []SettlementTransaction
}

// SettlementPreview is a read-only dry run of a settlement.
type SettlementPreview struct {
	GroupID    uuid.UUID
	Currencies []CurrencyPreview
}
