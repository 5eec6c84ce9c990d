package grpc

import (
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp carries a protobuf timestamp as an RFC 3339 string on the JSON wire.
type Timestamp struct {
	*timestamppb.Timestamp
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Timestamp: timestamppb.New(t)}
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.Timestamp == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.Timestamp)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	ts := new(timestamppb.Timestamp)
	if err := protojson.Unmarshal(data, ts); err != nil {
		return err
	}
	t.Timestamp = ts
	return nil
}

type ExecuteSettlementRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementHistoryRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementDetailRequest struct {
	SettlementID string `json:"settlement_id"`
}

type PreviewSettlementRequest struct {
	GroupID string `json:"group_id"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SettlementTransaction is one payment. Amounts are decimal strings with two
// fraction digits.
type SettlementTransaction struct {
	ID       string       `json:"id,omitempty"`
	Payer    *UserSummary `json:"payer"`
	Payee    *UserSummary `json:"payee"`
	Amount   string       `json:"amount"`
	Currency string       `json:"currency"`
}

type Settlement struct {
	ID           string                   `json:"id"`
	GroupID      string                   `json:"group_id"`
	SettledAt    *Timestamp               `json:"settled_at"`
	Transactions []*SettlementTransaction `json:"transactions"`
}

type SettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type SettlementSummary struct {
	ID               string     `json:"id"`
	SettledAt        *Timestamp `json:"settled_at"`
	TransactionCount int32      `json:"transaction_count"`
}

type GetSettlementHistoryResponse struct {
	Settlements []*SettlementSummary `json:"settlements"`
}

type MemberBalance struct {
	UserID     string `json:"user_id"`
	NetBalance string `json:"net_balance"`
}

type CurrencyPreview struct {
	Currency     string                   `json:"currency"`
	Balances     []*MemberBalance         `json:"balances"`
	Transactions []*SettlementTransaction `json:"transactions"`
}

type PreviewSettlementResponse struct {
	GroupID    string             `json:"group_id"`
	Currencies []*CurrencyPreview `json:"currencies"`
}
