package commands

import (
	"context"

	"github.com/spf13/cobra"

	grpcadapter "github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/grpc"
)

func settleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <group-id>",
		Short: "Settle every unsettled expense of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.SettlementClient) error {
				resp, err := client.ExecuteSettlement(ctx, &grpcadapter.ExecuteSettlementRequest{GroupID: args[0]})
				if err != nil {
					return err
				}
				return printSettlement(cmd.OutOrStdout(), resp.Settlement)
			})
		},
	}
}

func detailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <settlement-id>",
		Short: "Show the transactions of a past settlement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.SettlementClient) error {
				resp, err := client.GetSettlementDetail(ctx, &grpcadapter.GetSettlementDetailRequest{SettlementID: args[0]})
				if err != nil {
					return err
				}
				return printSettlement(cmd.OutOrStdout(), resp.Settlement)
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <group-id>",
		Short: "List past settlements of a group, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.SettlementClient) error {
				resp, err := client.GetSettlementHistory(ctx, &grpcadapter.GetSettlementHistoryRequest{GroupID: args[0]})
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), resp.Settlements)
			})
		},
	}
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <group-id>",
		Short: "Show balances and the payments a settlement would create, without settling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.SettlementClient) error {
				resp, err := client.PreviewSettlement(ctx, &grpcadapter.PreviewSettlementRequest{GroupID: args[0]})
				if err != nil {
					return err
				}
				return printPreview(cmd.OutOrStdout(), resp)
			})
		},
	}
}
