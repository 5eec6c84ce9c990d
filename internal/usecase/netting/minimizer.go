package netting

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

var (
	// Threshold is the smallest balance worth paying. Anything below half a
	// cent is treated as settled.
	Threshold = decimal.RequireFromString("0.005")

	// sumTolerance bounds how far a currency's balances may drift from zero
	// before the ledger is considered broken.
	sumTolerance = decimal.RequireFromString("0.01")
)

type party struct {
	userID uuid.UUID
	amount decimal.Decimal
}

// MinimizeTransactions turns one currency's net balances into payments using
// the greedy largest-creditor / largest-debtor sweep.
// Logic:
//  1. Drop balances whose magnitude is below Threshold
//  2. Split into creditors and debtors (by magnitude), both sorted descending
//  3. Pay min(creditor, debtor) rounded half-up to cents, then subtract from both
//  4. Move past whichever side has dropped below Threshold
//
// The result has at most creditors+debtors-1 transactions. Rounding residue of
// at most half a cent per transaction is accepted and not corrected.
//
// Safety: returns domain.ErrUnbalancedLedger instead of transactions when the
// balances do not net to zero.
func MinimizeTransactions(balances domain.Balances, currency string, settlementGroupID uuid.UUID) ([]domain.SettlementTransaction, error) {
	if sum := balances.Sum(); sum.Abs().GreaterThan(sumTolerance) {
		return nil, fmt.Errorf("%w: %s balances sum to %s", domain.ErrUnbalancedLedger, currency, sum.String())
	}

	var creditors, debtors []party
	for userID, balance := range balances {
		switch {
		case balance.GreaterThanOrEqual(Threshold):
			creditors = append(creditors, party{userID: userID, amount: balance})
		case balance.Neg().GreaterThanOrEqual(Threshold):
			debtors = append(debtors, party{userID: userID, amount: balance.Neg()})
		}
	}
	sortDescending(creditors)
	sortDescending(debtors)

	var transactions []domain.SettlementTransaction
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.amount, debtor.amount).Round(2)

		transactions = append(transactions, domain.SettlementTransaction{
			ID:                uuid.New(),
			SettlementGroupID: settlementGroupID,
			PayerID:           debtor.userID,
			PayeeID:           creditor.userID,
			Amount:            amount,
			Currency:          currency,
		})

		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Sub(amount)

		// Signed comparison: rounding up can push a side slightly negative,
		// which must count as settled.
		if creditor.amount.LessThan(Threshold) {
			i++
		}
		if debtor.amount.LessThan(Threshold) {
			j++
		}
	}

	residual := decimal.Zero
	for _, c := range creditors[i:] {
		residual = residual.Add(c.amount)
	}
	for _, d := range debtors[j:] {
		residual = residual.Add(d.amount)
	}
	bound := Threshold.Mul(decimal.NewFromInt(int64(len(creditors) + len(debtors) + len(transactions))))
	if residual.GreaterThan(bound) {
		return nil, fmt.Errorf("%w: %s left %s unsettled", domain.ErrUnbalancedLedger, currency, residual.String())
	}

	return transactions, nil
}

// sortDescending orders parties by amount, largest first, breaking ties by
// user ID so the output is stable across runs.
func sortDescending(parties []party) {
	sort.Slice(parties, func(a, b int) bool {
		if cmp := parties[a].amount.Cmp(parties[b].amount); cmp != 0 {
			return cmp > 0
		}
		return bytes.Compare(parties[a].userID[:], parties[b].userID[:]) < 0
	})
}
