package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/auth"
)

type contextKey string

const requesterKey contextKey = "requester_id"

// PublicMethodPrefixes are served without authentication.
var PublicMethodPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.v1.ServerReflection/",
	"/grpc.reflection.v1alpha.ServerReflection/",
}

// WithRequester returns ctx carrying the authenticated user ID
func WithRequester(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, requesterKey, userID)
}

// RequesterFromContext returns the authenticated user ID, if any
func RequesterFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requesterKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// AuthInterceptor returns a gRPC unary server interceptor that validates the
// bearer token from the "authorization" metadata and stores the caller's user
// ID in the context. Methods matching publicPrefixes skip the check.
func AuthInterceptor(tokens *auth.TokenManager, publicPrefixes ...string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(info.FullMethod, prefix) {
				return handler(ctx, req)
			}
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		tokenString, ok := strings.CutPrefix(authHeaders[0], "Bearer ")
		if !ok || tokenString == "" {
			return nil, status.Error(codes.Unauthenticated, "authorization header must be a bearer token")
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		userID, err := claims.UserID()
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token subject")
		}

		return handler(WithRequester(ctx, userID), req)
	}
}

// LoggingInterceptor logs every RPC with its status code and duration.
// Client-side failures log at warn, server-side failures at error.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{
			"method", info.FullMethod,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "RPC ok", attrs...)
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unimplemented:
			logger.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
		default:
			logger.WarnContext(ctx, "RPC error", append(attrs, "error", status.Convert(err).Message())...)
		}

		return resp, err
	}
}
