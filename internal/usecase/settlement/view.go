package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// buildView resolves the payer and payee of every transaction into user
// summaries. Users that can no longer be found keep their ID only.
func buildView(ctx context.Context, users domain.UserRepository, event *domain.SettlementGroup) (*domain.SettlementView, error) {
	view := &domain.SettlementView{
		ID:           event.ID,
		GroupID:      event.GroupID,
		SettledAt:    event.SettledAt,
		Transactions: make([]domain.TransactionView, 0, len(event.Transactions)),
	}
	if len(event.Transactions) == 0 {
		return view, nil
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, tx := range event.Transactions {
		for _, id := range []uuid.UUID{tx.PayerID, tx.PayeeID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	summaries, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.UserSummary, len(summaries))
	for _, u := range summaries {
		byID[u.ID] = u
	}
	lookup := func(id uuid.UUID) domain.UserSummary {
		if u, ok := byID[id]; ok {
			return u
		}
		return domain.UserSummary{ID: id}
	}

	for _, tx := range event.Transactions {
		view.Transactions = append(view.Transactions, domain.TransactionView{
			ID:       tx.ID,
			Payer:    lookup(tx.PayerID),
			Payee:    lookup(tx.PayeeID),
			Amount:   tx.Amount,
			Currency: tx.Currency,
		})
	}
	return view, nil
}
