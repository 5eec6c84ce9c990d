package netting

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// AggregateBalances folds the splits of a single currency into net balances.
// Logic:
//  1. Group splits by expense ID
//  2. Debit every debtor by the amount they owe
//  3. Credit the payer with the SUM of the splits, not the expense's nominal total
//
// Crediting the split sum keeps the balances summing to exactly zero when a
// total does not divide evenly (100 split three ways is 3 x 33.33, so the
// payer is credited 99.99 and the lost cent is never chased).
func AggregateBalances(splits []domain.ExpenseSplit) domain.Balances {
	balances := make(domain.Balances)
	if len(splits) == 0 {
		return balances
	}

	var order []uuid.UUID
	byExpense := make(map[uuid.UUID][]domain.ExpenseSplit)
	for _, split := range splits {
		if _, ok := byExpense[split.ExpenseID]; !ok {
			order = append(order, split.ExpenseID)
		}
		byExpense[split.ExpenseID] = append(byExpense[split.ExpenseID], split)
	}

	for _, expenseID := range order {
		expenseSplits := byExpense[expenseID]
		payerID := expenseSplits[0].PayerID

		total := decimal.Zero
		for _, split := range expenseSplits {
			balances[split.DebtorID] = balances[split.DebtorID].Sub(split.AmountOwed)
			total = total.Add(split.AmountOwed)
		}

		balances[payerID] = balances[payerID].Add(total)
	}

	return balances
}

// PartitionByCurrency groups splits by their expense currency. Balances are
// never netted across currencies.
func PartitionByCurrency(splits []domain.ExpenseSplit) map[string][]domain.ExpenseSplit {
	partitions := make(map[string][]domain.ExpenseSplit)
	for _, split := range splits {
		partitions[split.Currency] = append(partitions[split.Currency], split)
	}
	return partitions
}

// SortedCurrencies returns the currency codes of a partition in ascending order.
func SortedCurrencies(partitions map[string][]domain.ExpenseSplit) []string {
	currencies := make([]string, 0, len(partitions))
	for currency := range partitions {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	return currencies
}

// PlanByCurrency runs aggregation and minimization for every currency present
// in splits, in sorted currency order. All transactions carry settlementGroupID.
func PlanByCurrency(splits []domain.ExpenseSplit, settlementGroupID uuid.UUID) ([]domain.CurrencyPreview, error) {
	partitions := PartitionByCurrency(splits)

	plans := make([]domain.CurrencyPreview, 0, len(partitions))
	for _, currency := range SortedCurrencies(partitions) {
		balances := AggregateBalances(partitions[currency])

		transactions, err := MinimizeTransactions(balances, currency, settlementGroupID)
		if err != nil {
			return nil, err
		}

		plans = append(plans, domain.CurrencyPreview{
			Currency:     currency,
			Balances:     balances,
			Transactions: transactions,
		})
	}

	return plans, nil
}

// Flatten concatenates the transactions of every currency plan.
func Flatten(plans []domain.CurrencyPreview) []domain.SettlementTransaction {
	var out []domain.SettlementTransaction
	for _, plan := range plans {
		out = append(out, plan.Transactions...)
	}
	return out
}
