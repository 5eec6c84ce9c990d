package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementTransaction_Validate(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	tests := []struct {
		name    string
		tx      SettlementTransaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "Positive payment between two users should pass",
			tx: SettlementTransaction{
				ID:       uuid.New(),
				PayerID:  alice,
				PayeeID:  bob,
				Amount:   decimal.RequireFromString("12.50"),
				Currency: "SGD",
			},
			wantErr: false,
		},
		{
			name: "Zero amount should fail",
			tx: SettlementTransaction{
				PayerID:  alice,
				PayeeID:  bob,
				Amount:   decimal.Zero,
				Currency: "SGD",
			},
			wantErr: true,
			errMsg:  "settlement amount must be positive",
		},
		{
			name: "Negative amount should fail",
			tx: SettlementTransaction{
				PayerID:  alice,
				PayeeID:  bob,
				Amount:   decimal.NewFromInt(-5),
				Currency: "SGD",
			},
			wantErr: true,
			errMsg:  "settlement amount must be positive",
		},
		{
			name: "Paying yourself should fail",
			tx: SettlementTransaction{
				PayerID:  alice,
				PayeeID:  alice,
				Amount:   decimal.NewFromInt(5),
				Currency: "SGD",
			},
			wantErr: true,
			errMsg:  "payer and payee must be different users",
		},
		{
			name: "Missing currency should fail",
			tx: SettlementTransaction{
				PayerID: alice,
				PayeeID: bob,
				Amount:  decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  "currency is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettlementGroup_Validate(t *testing.T) {
	groupID := uuid.New()
	settlementID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	valid := SettlementTransaction{
		ID:                uuid.New(),
		SettlementGroupID: settlementID,
		PayerID:           alice,
		PayeeID:           bob,
		Amount:            decimal.NewFromInt(10),
		Currency:          "SGD",
	}

	t.Run("Empty settlement is valid", func(t *testing.T) {
		g := SettlementGroup{ID: settlementID, GroupID: groupID, SettledAt: time.Now()}
		assert.NoError(t, g.Validate())
	})

	t.Run("Settlement with own transactions is valid", func(t *testing.T) {
		g := SettlementGroup{ID: settlementID, GroupID: groupID, Transactions: []SettlementTransaction{valid}}
		assert.NoError(t, g.Validate())
	})

	t.Run("Transaction from another settlement is rejected", func(t *testing.T) {
		foreign := valid
		foreign.SettlementGroupID = uuid.New()
		g := SettlementGroup{ID: settlementID, GroupID: groupID, Transactions: []SettlementTransaction{foreign}}
		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "belongs to settlement")
	})

	t.Run("Invalid transaction is reported", func(t *testing.T) {
		bad := valid
		bad.Amount = decimal.Zero
		g := SettlementGroup{ID: settlementID, GroupID: groupID, Transactions: []SettlementTransaction{bad}}
		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settlement amount must be positive")
	})

	t.Run("Missing group is rejected", func(t *testing.T) {
		g := SettlementGroup{ID: settlementID}
		assert.Error(t, g.Validate())
	})
}

func TestSettlementGroup_Currencies(t *testing.T) {
	g := SettlementGroup{
		Transactions: []SettlementTransaction{
			{Currency: "USD"},
			{Currency: "SGD"},
			{Currency: "USD"},
		},
	}
	assert.Equal(t, []string{"USD", "SGD"}, g.Currencies())
	assert.Empty(t, (&SettlementGroup{}).Currencies())
}

func TestBalances_Sum(t *testing.T) {
	b := Balances{
		uuid.New(): decimal.RequireFromString("66.66"),
		uuid.New(): decimal.RequireFromString("-33.33"),
		uuid.New(): decimal.RequireFromString("-33.33"),
	}
	assert.True(t, b.Sum().IsZero())
	assert.True(t, Balances{}.Sum().IsZero())
}

func TestNewSettlementCompleted(t *testing.T) {
	requester := uuid.New()
	g := &SettlementGroup{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		SettledAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Transactions: []SettlementTransaction{
			{Currency: "SGD"},
			{Currency: "SGD"},
			{Currency: "MYR"},
		},
	}

	event := NewSettlementCompleted(requester, g)

	assert.Equal(t, g.ID, event.SettlementID)
	assert.Equal(t, g.GroupID, event.GroupID)
	assert.Equal(t, requester, event.RequesterID)
	assert.Equal(t, g.SettledAt, event.SettledAt)
	assert.Equal(t, 3, event.TransactionCount)
	assert.Equal(t, []string{"SGD", "MYR"}, event.Currencies)
}
