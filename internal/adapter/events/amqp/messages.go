package amqp

import (
	"encoding/json"
	"time"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// RoutingKeySettlementCompleted is the routing key of settlement.completed events
const RoutingKeySettlementCompleted = "settlement.completed"

// SettlementCompletedMessage announces a committed settlement. Consumers
// fetch the details by ID.
type SettlementCompletedMessage struct {
	SettlementID     string    `json:"settlement_id"`
	GroupID          string    `json:"group_id"`
	RequesterID      string    `json:"requester_id"`
	SettledAt        time.Time `json:"settled_at"`
	TransactionCount int       `json:"transaction_count"`
	Currencies       []string  `json:"currencies"`
}

// NewSettlementCompletedMessage builds the wire message for an event
func NewSettlementCompletedMessage(event domain.SettlementCompleted) *SettlementCompletedMessage {
	currencies := event.Currencies
	if currencies == nil {
		currencies = []string{}
	}
	return &SettlementCompletedMessage{
		SettlementID:     event.SettlementID.String(),
		GroupID:          event.GroupID.String(),
		RequesterID:      event.RequesterID.String(),
		SettledAt:        event.SettledAt,
		TransactionCount: event.TransactionCount,
		Currencies:       currencies,
	}
}

// ToJSON converts the message to JSON bytes
func (m *SettlementCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SettlementCompletedMessageFromJSON creates a message from JSON bytes
func SettlementCompletedMessageFromJSON(data []byte) (*SettlementCompletedMessage, error) {
	var msg SettlementCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
