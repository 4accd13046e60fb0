package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vaultbook/vaultbook/internal/bank"
	"github.com/vaultbook/vaultbook/internal/journal"
	"github.com/vaultbook/vaultbook/internal/model"
	"github.com/vaultbook/vaultbook/internal/txn"
)

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// parsePostingFlags turns "account=amount" values into posting inputs.
func parsePostingFlags(values []string, d model.Direction) ([]journal.PostingInput, error) {
	inputs := make([]journal.PostingInput, 0, len(values))
	for _, v := range values {
		accountID, amount, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("posting %q: want account=amount", v)
		}
		amt, err := parseAmount(amount)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, journal.PostingInput{AccountID: accountID, Amount: amt, Type: d})
	}
	return inputs, nil
}

func newPostCommand(a *app) *cobra.Command {
	var description string
	var debits, credits []string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a journal entry",
		Example: "  vaultbook post --desc \"Owner investment\" --debit cash=500 --credit capital=500\n" +
			"  vaultbook post --debit interest_expense=12 --credit cash=12",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := parsePostingFlags(debits, model.Debit)
			if err != nil {
				return err
			}
			cr, err := parsePostingFlags(credits, model.Credit)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(b *bank.Bank) error {
				e, err := b.Ledger.Post(journal.EntryParams{
					Description: description,
					Postings:    append(dr, cr...),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted entry %s (%s)\n", e.ID(), model.FormatUSD(e.Total()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "entry description")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit posting as account=amount (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit posting as account=amount (repeatable)")

	return cmd
}

// createFunc builds a transaction from positional arguments.
type createFunc func(tm *txn.Manager, args []string, amount decimal.Decimal, description string) (*txn.Transaction, error)

// newTransactionCommand builds a command that creates a transaction and,
// unless --pending is set, posts it immediately.
func newTransactionCommand(a *app, use, short string, nargs int, create createFunc) *cobra.Command {
	var description string
	var pending bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[len(args)-1])
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(b *bank.Bank) error {
				t, err := create(b.Transactions, args[:len(args)-1], amount, description)
				if err != nil {
					return err
				}
				if pending {
					fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s), not posted\n", t.ID, t.Description, t.FormattedTotal())
					return nil
				}
				if err := b.Transactions.Post(t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %s %s (%s)\n", t.ID, t.Description, t.FormattedTotal())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "transaction description")
	cmd.Flags().BoolVar(&pending, "pending", false, "create the transaction without posting it")

	return cmd
}

func newDepositCommand(a *app) *cobra.Command {
	return newTransactionCommand(a, "deposit <account> <amount>", "Move vault cash into an account", 2,
		func(tm *txn.Manager, args []string, amount decimal.Decimal, desc string) (*txn.Transaction, error) {
			return tm.CreateDeposit(args[0], amount, desc)
		})
}

func newWithdrawCommand(a *app) *cobra.Command {
	return newTransactionCommand(a, "withdraw <account> <amount>", "Move money from an account back to vault cash", 2,
		func(tm *txn.Manager, args []string, amount decimal.Decimal, desc string) (*txn.Transaction, error) {
			return tm.CreateWithdrawal(args[0], amount, desc)
		})
}

func newTransferCommand(a *app) *cobra.Command {
	return newTransactionCommand(a, "transfer <from> <to> <amount>", "Move money between two accounts", 3,
		func(tm *txn.Manager, args []string, amount decimal.Decimal, desc string) (*txn.Transaction, error) {
			return tm.CreateTransfer(args[0], args[1], amount, desc)
		})
}

func newLoanCommand(a *app) *cobra.Command {
	return newTransactionCommand(a, "loan <account> <amount>", "Fund an account from loans payable", 2,
		func(tm *txn.Manager, args []string, amount decimal.Decimal, desc string) (*txn.Transaction, error) {
			return tm.CreateLoan(args[0], amount, desc)
		})
}

func newUnpostCommand(a *app) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "unpost <transaction-id>",
		Short: "Reverse a posted transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd.Context(), func(b *bank.Bank) error {
				if err := b.Transactions.UnpostByID(args[0]); err != nil {
					return err
				}
				if remove {
					if err := b.Transactions.Delete(args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reversed %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "delete the transaction after reversing it")

	return cmd
}

func newTransactionsCommand(a *app) *cobra.Command {
	var accountID string
	var postAll bool

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions, or post every pending one with --post-all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if postAll {
				return a.mutate(cmd.Context(), func(b *bank.Bank) error {
					failed := 0
					for _, r := range b.Transactions.PostAllUnposted() {
						if r.OK() {
							fmt.Fprintf(out, "posted %s\n", r.Transaction.ID)
							continue
						}
						failed++
						fmt.Fprintf(out, "failed %s: %v\n", r.Transaction.ID, r.Err)
					}
					if failed > 0 {
						fmt.Fprintf(out, "%d transaction(s) left pending\n", failed)
					}
					return nil
				})
			}
			return a.view(cmd.Context(), func(b *bank.Bank) error {
				list := b.Transactions.All()
				if accountID != "" {
					list = b.Transactions.ByAccount(accountID)
				}
				return printTransactions(out, list, b.Transactions.Summary())
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "only transactions touching this account")
	cmd.Flags().BoolVar(&postAll, "post-all", false, "post every pending transaction")

	return cmd
}

func printTransactions(out io.Writer, list []*txn.Transaction, s txn.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tDescription\tAmount\tStatus")
	for _, t := range list {
		status := "pending"
		if t.IsPosted() {
			status = "posted"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Timestamp.Format("2006-01-02"), t.Description, t.FormattedTotal(), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d transactions (%d posted, %d pending), volume %s\n", s.Total, s.Posted, s.Unposted, s.FormattedVolume)
	return nil
}
