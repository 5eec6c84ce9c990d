// Package commands implements the howmuchah command line client.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcadapter "github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/grpc"
)

var (
	addr    string
	token   string
	timeout time.Duration
)

func Execute() error {
	root := &cobra.Command{
		Use:          "howmuchah",
		Short:        "Settle shared expenses of a HowMuchAh group",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&addr, "addr", envOr("HOWMUCHAH_ADDR", "localhost:8080"), "settlement service address")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("HOWMUCHAH_TOKEN"), "bearer token (default $HOWMUCHAH_TOKEN)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-call timeout")

	root.AddCommand(settleCmd(), historyCmd(), detailCmd(), previewCmd(), tokenCmd())
	return root.Execute()
}

// withClient dials the service and calls fn with an authenticated context
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *grpcadapter.SettlementClient) error) error {
	if token == "" {
		return fmt.Errorf("no token: pass --token or set HOWMUCHAH_TOKEN")
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return fn(grpcadapter.WithBearerToken(ctx, token), grpcadapter.NewSettlementClient(conn))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
