package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/bank"
	"github.com/vaultbook/vaultbook/internal/config"
	"github.com/vaultbook/vaultbook/internal/store"
)

// ChartFileName is the chart of accounts init writes next to the config.
const ChartFileName = "chart-of-accounts.csv"

func newInitCommand(a *app) *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bank with a config, chart of accounts and state database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return a.runInit(cmd.Context(), cmd.OutOrStdout(), absDir, chartPath)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "seed accounts from this chart-of-accounts CSV instead of the default chart")

	return cmd
}

func readChart(path string) ([]accounts.ChartAccount, error) {
	if path == "" {
		return accounts.DefaultChart(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}
	defer f.Close()
	return accounts.ReadChart(f)
}

func writeChart(path string, chart []accounts.ChartAccount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	if err := accounts.WriteChart(f, chart); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) runInit(ctx context.Context, out io.Writer, dir, chartPath string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	chart, err := readChart(chartPath)
	if err != nil {
		return err
	}
	b, err := bank.NewFromChart(chart, a.params)
	if err != nil {
		return fmt.Errorf("seeding accounts: %w", err)
	}

	// Write vaultbook.yaml. The database path is stored relative to it.
	cfg := *a.cfg
	cfg.Storage.Path = filepath.Base(a.cfg.Storage.Path)
	configPath := filepath.Join(dir, config.FileName)
	if fileExists(configPath) {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := config.Save(configPath, &cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	if err := writeChart(filepath.Join(dir, ChartFileName), chart); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write the opening state.
	st, err := store.Open(filepath.Join(dir, cfg.Storage.Path), cfg.Storage.MaxBackups)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer st.Close()
	switch _, err := st.Load(ctx, store.DefaultKey); {
	case err == nil:
		return fmt.Errorf("state database %s already holds a bank", st.Path())
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	if err := b.Save(ctx, st); err != nil {
		return fmt.Errorf("saving opening state: %w", err)
	}

	fmt.Fprintf(out, "Initialized vaultbook at %s (%d accounts)\n", dir, len(chart))
	if sheet := b.Accounts.ValidateBalanceSheet(); !sheet.IsBalanced {
		fmt.Fprintf(out, "warning: opening balances are out of balance by %s\n", sheet.Difference.StringFixed(2))
	}
	return nil
}
