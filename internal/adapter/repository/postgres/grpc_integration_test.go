//go:build integration

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/grpc"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/auth"
)

// dialService serves the settlement service backed by the test database
func dialService(t *testing.T) (*grpcadapter.SettlementClient, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("integration-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	grpcServer, _ := grpcadapter.NewGRPCServer(grpcadapter.NewServer(newService()), tokens, logger)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return grpcadapter.NewSettlementClient(conn), tokens
}

func asUser(t *testing.T, tokens *auth.TokenManager, userID uuid.UUID) context.Context {
	t.Helper()
	token, err := tokens.Generate(userID, "")
	require.NoError(t, err)
	return grpcadapter.WithBearerToken(context.Background(), token)
}

func TestSettlement_OverGRPC(t *testing.T) {
	f := seedGroup(t, context.Background())
	client, tokens := dialService(t)

	preview, err := client.PreviewSettlement(asUser(t, tokens, f.bob), &grpcadapter.PreviewSettlementRequest{GroupID: f.groupID.String()})
	require.NoError(t, err)
	require.Len(t, preview.Currencies, 1)
	assert.Len(t, preview.Currencies[0].Transactions, 2)

	resp, err := client.ExecuteSettlement(asUser(t, tokens, f.bob), &grpcadapter.ExecuteSettlementRequest{GroupID: f.groupID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Settlement.Transactions, 2)
	for _, tx := range resp.Settlement.Transactions {
		assert.Equal(t, "33.33", tx.Amount)
		assert.Equal(t, "Alice", tx.Payee.Name)
	}

	history, err := client.GetSettlementHistory(asUser(t, tokens, f.carol), &grpcadapter.GetSettlementHistoryRequest{GroupID: f.groupID.String()})
	require.NoError(t, err)
	require.Len(t, history.Settlements, 1)
	assert.Equal(t, resp.Settlement.ID, history.Settlements[0].ID)

	_, err = client.ExecuteSettlement(asUser(t, tokens, f.alice), &grpcadapter.ExecuteSettlementRequest{GroupID: f.groupID.String()})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.GetSettlementDetail(asUser(t, tokens, uuid.New()), &grpcadapter.GetSettlementDetailRequest{SettlementID: resp.Settlement.ID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
