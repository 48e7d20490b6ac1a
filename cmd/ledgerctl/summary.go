package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/repository"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the totals of a snapshot document",
	Example: `  ledgerctl summary --snapshot state.json
  ledgerctl summary --snapshot state.json --at 2026-03-31`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().String("snapshot", "", "Snapshot document to read (required)")
	summaryCmd.Flags().String("at", "", "Date used for overdue alerts (format: YYYY-MM-DD, default: today)")
	_ = summaryCmd.MarkFlagRequired("snapshot")
}

func runSummary(cmd *cobra.Command, args []string) error {
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	atStr, _ := cmd.Flags().GetString("at")

	at := time.Now()
	if atStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", atStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at date. Use YYYY-MM-DD: %w", err)
		}
		at = parsed
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := repository.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), snap, at)
}

func writeSummary(out io.Writer, snap repository.Snapshot, at time.Time) error {
	s := snap.State
	tx := ledger.Summarize(s.Transactions)
	dealers := ledger.DealerTotals(s.Dealers)

	lowStock, overLimit := 0, 0
	for _, it := range s.Stock {
		if it.IsLow() {
			lowStock++
		}
	}
	for _, c := range s.Customers {
		if ledger.IsOverLimit(c) {
			overLimit++
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Shop\t%s\n", s.Shop.Name)
	fmt.Fprintf(w, "Version\t%d\n", snap.Version)
	fmt.Fprintf(w, "Invoices\t%d\n", len(s.Invoices))
	fmt.Fprintf(w, "Quotations\t%d\n", len(s.Quotations))
	fmt.Fprintf(w, "Customers\t%d (%d over limit)\n", len(s.Customers), overLimit)
	fmt.Fprintf(w, "Stock items\t%d (%d low)\n", len(s.Stock), lowStock)
	fmt.Fprintf(w, "Cash received\t%s (%d)\n", tx.CashTotal.StringFixed(2), tx.CashCount)
	fmt.Fprintf(w, "Online received\t%s (%d)\n", tx.OnlineTotal.StringFixed(2), tx.OnlineCount)
	fmt.Fprintf(w, "Dealers billed\t%s\n", dealers.Billed.StringFixed(2))
	fmt.Fprintf(w, "Dealers paid\t%s\n", dealers.Paid.StringFixed(2))
	fmt.Fprintf(w, "Dealers to pay\t%s\n", dealers.ToPay.StringFixed(2))
	fmt.Fprintf(w, "Alerts\t%d\n", len(ledger.Alerts(s, at)))
	return w.Flush()
}
