package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultbook/vaultbook/internal/store"
)

func newBackupsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List saved state backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			backups, err := st.Backups(cmd.Context(), store.DefaultKey)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Index\tSaved\tType\tBytes")
			for i, b := range backups {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i, b.CreatedAt.Format(time.RFC3339), b.Type, len(b.Data))
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newRestoreBackupCommand(a))
	return cmd
}

func newRestoreBackupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <index>",
		Short: "Make a backup the current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing backup index %q: %w", args[0], err)
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.RestoreBackup(cmd.Context(), store.DefaultKey, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup %d\n", index)
			return nil
		},
	}
}
