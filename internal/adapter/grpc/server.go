package grpc

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// Settler is the settlement use case as seen by the transport
type Settler interface {
	ExecuteSettlement(ctx context.Context, requesterID, groupID uuid.UUID) (*domain.SettlementView, error)
	GetSettlementHistory(ctx context.Context, requesterID, groupID uuid.UUID) ([]domain.SettlementSummary, error)
	GetSettlementDetail(ctx context.Context, requesterID, settlementID uuid.UUID) (*domain.SettlementView, error)
	PreviewSettlement(ctx context.Context, requesterID, groupID uuid.UUID) (*domain.SettlementPreview, error)
}

// Server implements the SettlementService gRPC server
type Server struct {
	SettlementService Settler
}

// NewServer creates a new gRPC server instance
func NewServer(settlementService Settler) *Server {
	return &Server{SettlementService: settlementService}
}

// ExecuteSettlement handles the ExecuteSettlement RPC
func (s *Server) ExecuteSettlement(ctx context.Context, req *ExecuteSettlementRequest) (*SettlementResponse, error) {
	requesterID, err := requireRequester(ctx)
	if err != nil {
		return nil, err
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid group_id format: %v", err)
	}

	view, err := s.SettlementService.ExecuteSettlement(ctx, requesterID, groupID)
	if err != nil {
		return nil, mapError(err)
	}

	return &SettlementResponse{Settlement: settlementToProto(view)}, nil
}

// GetSettlementHistory handles the GetSettlementHistory RPC
func (s *Server) GetSettlementHistory(ctx context.Context, req *GetSettlementHistoryRequest) (*GetSettlementHistoryResponse, error) {
	requesterID, err := requireRequester(ctx)
	if err != nil {
		return nil, err
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid group_id format: %v", err)
	}

	history, err := s.SettlementService.GetSettlementHistory(ctx, requesterID, groupID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetSettlementHistoryResponse{Settlements: make([]*SettlementSummary, 0, len(history))}
	for _, summary := range history {
		resp.Settlements = append(resp.Settlements, &SettlementSummary{
			ID:               summary.ID.String(),
			SettledAt:        NewTimestamp(summary.SettledAt),
			TransactionCount: int32(summary.TransactionCount),
		})
	}
	return resp, nil
}

// GetSettlementDetail handles the GetSettlementDetail RPC
func (s *Server) GetSettlementDetail(ctx context.Context, req *GetSettlementDetailRequest) (*SettlementResponse, error) {
	requesterID, err := requireRequester(ctx)
	if err != nil {
		return nil, err
	}

	settlementID, err := uuid.Parse(req.SettlementID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid settlement_id format: %v", err)
	}

	view, err := s.SettlementService.GetSettlementDetail(ctx, requesterID, settlementID)
	if err != nil {
		return nil, mapError(err)
	}

	return &SettlementResponse{Settlement: settlementToProto(view)}, nil
}

// PreviewSettlement handles the PreviewSettlement RPC
func (s *Server) PreviewSettlement(ctx context.Context, req *PreviewSettlementRequest) (*PreviewSettlementResponse, error) {
	requesterID, err := requireRequester(ctx)
	if err != nil {
		return nil, err
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid group_id format: %v", err)
	}

	preview, err := s.SettlementService.PreviewSettlement(ctx, requesterID, groupID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &PreviewSettlementResponse{
		GroupID:    preview.GroupID.String(),
		Currencies: make([]*CurrencyPreview, 0, len(preview.Currencies)),
	}
	for _, cp := range preview.Currencies {
		resp.Currencies = append(resp.Currencies, currencyPreviewToProto(cp))
	}
	return resp, nil
}

func requireRequester(ctx context.Context) (uuid.UUID, error) {
	requesterID, ok := RequesterFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing requester identity")
	}
	return requesterID, nil
}

func userToProto(u domain.UserSummary) *UserSummary {
	return &UserSummary{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

func settlementToProto(view *domain.SettlementView) *Settlement {
	out := &Settlement{
		ID:           view.ID.String(),
		GroupID:      view.GroupID.String(),
		SettledAt:    NewTimestamp(view.SettledAt),
		Transactions: make([]*SettlementTransaction, 0, len(view.Transactions)),
	}
	for _, tx := range view.Transactions {
		out.Transactions = append(out.Transactions, &SettlementTransaction{
			ID:       tx.ID.String(),
			Payer:    userToProto(tx.Payer),
			Payee:    userToProto(tx.Payee),
			Amount:   tx.Amount.StringFixed(2),
			Currency: tx.Currency,
		})
	}
	return out
}

func currencyPreviewToProto(cp domain.CurrencyPreview) *CurrencyPreview {
	out := &CurrencyPreview{
		Currency:     cp.Currency,
		Balances:     make([]*MemberBalance, 0, len(cp.Balances)),
		Transactions: make([]*SettlementTransaction, 0, len(cp.Transactions)),
	}
	for userID, balance := range cp.Balances {
		out.Balances = append(out.Balances, &MemberBalance{UserID: userID.String(), NetBalance: balance.StringFixed(2)})
	}
	sort.Slice(out.Balances, func(i, j int) bool { return out.Balances[i].UserID < out.Balances[j].UserID })

	for _, tx := range cp.Transactions {
		out.Transactions = append(out.Transactions, &SettlementTransaction{
			Payer:    &UserSummary{ID: tx.PayerID.String()},
			Payee:    &UserSummary{ID: tx.PayeeID.String()},
			Amount:   tx.Amount.StringFixed(2),
			Currency: tx.Currency,
		})
	}
	return out
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrGroupNotFound), errors.Is(err, domain.ErrSettlementNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotGroupMember):
		return status.Errorf(codes.PermissionDenied, "%s", errorMsg)
	case errors.Is(err, domain.ErrNothingToSettle):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrLockTimeout):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	}

	// Request parsing errors are returned by the handlers themselves, so
	// anything else here is a server-side failure
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
