package netting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	carol = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	dave  = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func split(expenseID, payer, debtor uuid.UUID, amount, currency string) domain.ExpenseSplit {
	return domain.ExpenseSplit{
		ExpenseID:  expenseID,
		Currency:   currency,
		PayerID:    payer,
		DebtorID:   debtor,
		AmountOwed: dec(amount),
	}
}

func TestAggregateBalances_PhantomPenny(t *testing.T) {
	// Alice pays 100.00 split three ways. The splits only add up to 99.99,
	// and Alice must be credited with what the others actually owe.
	dinner := uuid.New()
	splits := []domain.ExpenseSplit{
		split(dinner, alice, alice, "33.33", "SGD"),
		split(dinner, alice, bob, "33.33", "SGD"),
		split(dinner, alice, carol, "33.33", "SGD"),
	}

	balances := AggregateBalances(splits)

	assert.True(t, balances[alice].Equal(dec("66.66")), "Alice should be owed 66.66, got %s", balances[alice])
	assert.True(t, balances[bob].Equal(dec("-33.33")))
	assert.True(t, balances[carol].Equal(dec("-33.33")))
	assert.True(t, balances.Sum().IsZero(), "balances must sum to zero")
}

func TestAggregateBalances_CyclicDebtCancels(t *testing.T) {
	splits := []domain.ExpenseSplit{
		split(uuid.New(), alice, bob, "10.00", "SGD"),
		split(uuid.New(), bob, carol, "10.00", "SGD"),
		split(uuid.New(), carol, alice, "10.00", "SGD"),
	}

	balances := AggregateBalances(splits)

	for _, user := range []uuid.UUID{alice, bob, carol} {
		assert.True(t, balances[user].IsZero(), "balance of %s should be zero", user)
	}
}

func TestAggregateBalances_GroupsByExpenseIDValue(t *testing.T) {
	// Two split rows that only share the expense ID by value must still be
	// credited to the payer as a single expense.
	expenseID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sameIDAgain := uuid.MustParse(expenseID.String())

	splits := []domain.ExpenseSplit{
		split(expenseID, alice, bob, "12.50", "SGD"),
		split(sameIDAgain, alice, carol, "7.50", "SGD"),
	}

	balances := AggregateBalances(splits)

	assert.True(t, balances[alice].Equal(dec("20.00")))
	assert.True(t, balances[bob].Equal(dec("-12.50")))
	assert.True(t, balances[carol].Equal(dec("-7.50")))
}

func TestAggregateBalances_PayerAlsoDebtorElsewhere(t *testing.T) {
	splits := []domain.ExpenseSplit{
		split(uuid.New(), alice, bob, "30.00", "SGD"),
		split(uuid.New(), bob, alice, "10.00", "SGD"),
	}

	balances := AggregateBalances(splits)

	assert.True(t, balances[alice].Equal(dec("20.00")))
	assert.True(t, balances[bob].Equal(dec("-20.00")))
}

func TestAggregateBalances_Empty(t *testing.T) {
	balances := AggregateBalances(nil)
	require.NotNil(t, balances)
	assert.Empty(t, balances)
}

func TestPartitionByCurrency(t *testing.T) {
	splits := []domain.ExpenseSplit{
		split(uuid.New(), alice, bob, "1.00", "USD"),
		split(uuid.New(), alice, bob, "2.00", "SGD"),
		split(uuid.New(), bob, alice, "3.00", "USD"),
	}

	partitions := PartitionByCurrency(splits)

	require.Len(t, partitions, 2)
	assert.Len(t, partitions["USD"], 2)
	assert.Len(t, partitions["SGD"], 1)
	assert.Equal(t, []string{"SGD", "USD"}, SortedCurrencies(partitions))
}

func TestPlanByCurrency_CurrenciesStayIsolated(t *testing.T) {
	// Alice is owed 30 SGD by Bob, Bob is owed 30 USD by Alice.
	// Nothing may be netted across currencies.
	settlementID := uuid.New()
	splits := []domain.ExpenseSplit{
		split(uuid.New(), alice, bob, "30.00", "SGD"),
		split(uuid.New(), bob, alice, "30.00", "USD"),
	}

	plans, err := PlanByCurrency(splits, settlementID)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, "SGD", plans[0].Currency)
	require.Len(t, plans[0].Transactions, 1)
	sgd := plans[0].Transactions[0]
	assert.Equal(t, bob, sgd.PayerID)
	assert.Equal(t, alice, sgd.PayeeID)
	assert.True(t, sgd.Amount.Equal(dec("30.00")))
	assert.Equal(t, "SGD", sgd.Currency)

	assert.Equal(t, "USD", plans[1].Currency)
	require.Len(t, plans[1].Transactions, 1)
	usd := plans[1].Transactions[0]
	assert.Equal(t, alice, usd.PayerID)
	assert.Equal(t, bob, usd.PayeeID)
	assert.Equal(t, "USD", usd.Currency)

	all := Flatten(plans)
	assert.Len(t, all, 2)
	for _, tx := range all {
		assert.Equal(t, settlementID, tx.SettlementGroupID)
	}
}

func TestPlanByCurrency_NoSplits(t *testing.T) {
	plans, err := PlanByCurrency(nil, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.Empty(t, Flatten(plans))
}
