package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vaultbook/vaultbook/internal/bank"
	"github.com/vaultbook/vaultbook/internal/model"
	"github.com/vaultbook/vaultbook/internal/report"
)

func newBalanceSheetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance-sheet",
		Short: "Show account balances grouped by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(b *bank.Bank) error {
				return printBalanceSheet(cmd.OutOrStdout(), report.GenerateBalanceSheet(b.Accounts))
			})
		},
	}
}

func newTrialBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "Show every balance in its debit or credit column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(b *bank.Bank) error {
				return printTrialBalance(cmd.OutOrStdout(), report.GenerateTrialBalance(b.Accounts))
			})
		},
	}
}

func newKPIsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Show profit and liquidity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(b *bank.Bank) error {
				k := report.ComputeKPIs(b.Accounts)
				fmt.Fprintf(cmd.OutOrStdout(), "Profit:    %s\nLiquidity: %s\n", model.FormatUSD(k.Profit), model.FormatUSD(k.Liquidity))
				return nil
			})
		},
	}
}

func printBalanceSheet(out io.Writer, sheet report.BalanceSheet) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range sheet.Sections {
		fmt.Fprintf(tw, "%s\t\t\n", title(string(s.Type)))
		for _, l := range s.Accounts {
			fmt.Fprintf(tw, "  %s\t%s\t\n", l.Name, model.FormatUSD(l.Balance))
		}
		fmt.Fprintf(tw, "  Total\t%s\t\n", model.FormatUSD(s.Total))
	}
	fmt.Fprintf(tw, "Net income\t%s\t\n", model.FormatUSD(sheet.NetIncome))
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, balancedLine(sheet.IsBalanced, sheet.Difference.StringFixed(2)))
	return nil
}

func printTrialBalance(out io.Writer, tb report.TrialBalance) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Account\tDebit\tCredit\t")
	for _, r := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.Account, column(r.Debit.IsZero(), model.FormatUSD(r.Debit)), column(r.Credit.IsZero(), model.FormatUSD(r.Credit)))
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t\n", model.FormatUSD(tb.TotalDebit), model.FormatUSD(tb.TotalCredit))
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, balancedLine(tb.Balanced, tb.TotalDebit.Sub(tb.TotalCredit).StringFixed(2)))
	return nil
}

func column(empty bool, s string) string {
	if empty {
		return ""
	}
	return s
}

func balancedLine(ok bool, difference string) string {
	if ok {
		return "Balanced"
	}
	return "OUT OF BALANCE by " + difference
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
