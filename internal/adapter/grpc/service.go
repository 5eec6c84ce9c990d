package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "howmuchah.settlement.v1.SettlementService"

// SettlementServiceServer is the server API for the settlement service.
type SettlementServiceServer interface {
	ExecuteSettlement(context.Context, *ExecuteSettlementRequest) (*SettlementResponse, error)
	GetSettlementHistory(context.Context, *GetSettlementHistoryRequest) (*GetSettlementHistoryResponse, error)
	GetSettlementDetail(context.Context, *GetSettlementDetailRequest) (*SettlementResponse, error)
	PreviewSettlement(context.Context, *PreviewSettlementRequest) (*PreviewSettlementResponse, error)
}

// RegisterSettlementServiceServer registers srv on s.
func RegisterSettlementServiceServer(s grpc.ServiceRegistrar, srv SettlementServiceServer) {
	s.RegisterService(&settlementServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var settlementServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SettlementServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExecuteSettlement", Handler: executeSettlementHandler},
		{MethodName: "GetSettlementHistory", Handler: getSettlementHistoryHandler},
		{MethodName: "GetSettlementDetail", Handler: getSettlementDetailHandler},
		{MethodName: "PreviewSettlement", Handler: previewSettlementHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// unaryHandler decodes a request of type Req and dispatches it through the
// interceptor chain to call.
func unaryHandler[Req any, Resp any](method string, call func(SettlementServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SettlementServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SettlementServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	executeSettlementHandler = unaryHandler("ExecuteSettlement",
		func(s SettlementServiceServer, ctx context.Context, in *ExecuteSettlementRequest) (*SettlementResponse, error) {
			return s.ExecuteSettlement(ctx, in)
		})
	getSettlementHistoryHandler = unaryHandler("GetSettlementHistory",
		func(s SettlementServiceServer, ctx context.Context, in *GetSettlementHistoryRequest) (*GetSettlementHistoryResponse, error) {
			return s.GetSettlementHistory(ctx, in)
		})
	getSettlementDetailHandler = unaryHandler("GetSettlementDetail",
		func(s SettlementServiceServer, ctx context.Context, in *GetSettlementDetailRequest) (*SettlementResponse, error) {
			return s.GetSettlementDetail(ctx, in)
		})
	previewSettlementHandler = unaryHandler("PreviewSettlement",
		func(s SettlementServiceServer, ctx context.Context, in *PreviewSettlementRequest) (*PreviewSettlementResponse, error) {
			return s.PreviewSettlement(ctx, in)
		})
)
