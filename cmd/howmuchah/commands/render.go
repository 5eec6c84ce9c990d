package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	grpcadapter "github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/grpc"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTime(ts *grpcadapter.Timestamp) string {
	if ts == nil || ts.Timestamp == nil {
		return "-"
	}
	return ts.AsTime().Local().Format(time.RFC3339)
}

func displayName(u *grpcadapter.UserSummary) string {
	switch {
	case u == nil:
		return "?"
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

func printSettlement(w io.Writer, s *grpcadapter.Settlement) error {
	if s == nil {
		return fmt.Errorf("empty settlement in response")
	}

	fmt.Fprintf(w, "Settlement %s\nGroup      %s\nSettled at %s\n\n", s.ID, s.GroupID, formatTime(s.SettledAt))
	if len(s.Transactions) == 0 {
		fmt.Fprintln(w, "Nothing to pay: all balances cancelled out.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PAYER\tPAYEE\tAMOUNT\tCURRENCY")
	for _, tx := range s.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", displayName(tx.Payer), displayName(tx.Payee), tx.Amount, tx.Currency)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, summaries []*grpcadapter.SettlementSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No settlements yet.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSETTLED AT\tTRANSACTIONS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, formatTime(s.SettledAt), s.TransactionCount)
	}
	return tw.Flush()
}

func printPreview(w io.Writer, preview *grpcadapter.PreviewSettlementResponse) error {
	if len(preview.Currencies) == 0 {
		fmt.Fprintln(w, "No unsettled expenses.")
		return nil
	}

	for i, cp := range preview.Currencies {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s]\n", cp.Currency)

		tw := newTable(w)
		fmt.Fprintln(tw, "MEMBER\tNET BALANCE")
		for _, b := range cp.Balances {
			fmt.Fprintf(tw, "%s\t%s\n", b.UserID, b.NetBalance)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(cp.Transactions) == 0 {
			fmt.Fprintln(w, "No payments needed.")
			continue
		}
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "PAYER\tPAYEE\tAMOUNT")
		for _, tx := range cp.Transactions {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", displayName(tx.Payer), displayName(tx.Payee), tx.Amount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
