package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultbook/vaultbook/internal/bank"
	"github.com/vaultbook/vaultbook/internal/model"
)

func newAccrueCommand(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "Accrue daily interest on the accounts listed in the config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			out := cmd.OutOrStdout()
			return a.mutate(cmd.Context(), func(b *bank.Bank) error {
				if err := b.RegisterInterest(a.cfg.Interest.Accounts); err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				posted := 0
				for day := 0; day < days; day++ {
					entries, err := b.Interest.AccrueDaily()
					if err != nil {
						return err
					}
					for _, e := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp().Format(time.DateOnly), e.Description(), model.FormatUSD(e.Total()))
					}
					posted += len(entries)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "%d interest entries posted\n", posted)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 1, "number of days to accrue")

	return cmd
}
