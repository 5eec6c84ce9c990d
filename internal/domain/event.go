package domain

import (
	"time"

	"github.com/google/uuid"
)

// SettlementCompleted is emitted after a settlement has been committed.
type SettlementCompleted struct {
	SettlementID     uuid.UUID
	GroupID          uuid.UUID
	RequesterID      uuid.UUID
	SettledAt        time.Time
	TransactionCount int
	Currencies       []string
}

// NewSettlementCompleted builds the event for a committed settlement.
func NewSettlementCompleted(requesterID uuid.UUID, group *SettlementGroup) SettlementCompleted {
	return SettlementCompleted{
		SettlementID:     group.ID,
		GroupID:          group.GroupID,
		RequesterID:      requesterID,
		SettledAt:        group.SettledAt,
		TransactionCount: len(group.Transactions),
		Currencies:       group.Currencies(),
	}
}
