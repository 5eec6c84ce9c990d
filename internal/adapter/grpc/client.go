package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// SettlementClient calls the settlement service using the JSON codec.
type SettlementClient struct {
	cc grpc.ClientConnInterface
}

// NewSettlementClient creates a client on an existing connection.
func NewSettlementClient(cc grpc.ClientConnInterface) *SettlementClient {
	return &SettlementClient{cc: cc}
}

// WithBearerToken attaches token as the authorization metadata of outgoing calls.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (c *SettlementClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *SettlementClient) ExecuteSettlement(ctx context.Context, in *ExecuteSettlementRequest, opts ...grpc.CallOption) (*SettlementResponse, error) {
	out := new(SettlementResponse)
	if err := c.invoke(ctx, "ExecuteSettlement", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SettlementClient) GetSettlementHistory(ctx context.Context, in *GetSettlementHistoryRequest, opts ...grpc.CallOption) (*GetSettlementHistoryResponse, error) {
	out := new(GetSettlementHistoryResponse)
	if err := c.invoke(ctx, "GetSettlementHistory", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SettlementClient) GetSettlementDetail(ctx context.Context, in *GetSettlementDetailRequest, opts ...grpc.CallOption) (*SettlementResponse, error) {
	out := new(SettlementResponse)
	if err := c.invoke(ctx, "GetSettlementDetail", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SettlementClient) PreviewSettlement(ctx context.Context, in *PreviewSettlementRequest, opts ...grpc.CallOption) (*PreviewSettlementResponse, error) {
	out := new(PreviewSettlementResponse)
	if err := c.invoke(ctx, "PreviewSettlement", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
