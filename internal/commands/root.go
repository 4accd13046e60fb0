package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/bank"
	"github.com/vaultbook/vaultbook/internal/buildinfo"
	"github.com/vaultbook/vaultbook/internal/config"
	"github.com/vaultbook/vaultbook/internal/logging"
	"github.com/vaultbook/vaultbook/internal/store"
)

// app carries the settings resolved before a subcommand runs.
type app struct {
	configPath string
	envFile    string
	dbPath     string

	cfg    *config.Config
	params bank.Params
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "vaultbook",
		Short:   "Double-entry books for a simulated bank",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "config file")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file with VAULTBOOK_* overrides (default .env if present)")
	flags.StringVar(&a.dbPath, "db", "", "state database (overrides storage.path)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newBalanceSheetCommand(a),
		newTrialBalanceCommand(a),
		newKPIsCommand(a),
		newPostCommand(a),
		newDepositCommand(a),
		newWithdrawCommand(a),
		newTransferCommand(a),
		newLoanCommand(a),
		newUnpostCommand(a),
		newTransactionsCommand(a),
		newAccrueCommand(a),
		newBackupsCommand(a),
	)

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return err
	default:
		if !filepath.IsAbs(cfg.Storage.Path) {
			cfg.Storage.Path = filepath.Join(filepath.Dir(a.configPath), cfg.Storage.Path)
		}
	}
	if err := config.ApplyEnv(cfg, a.envFile); err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Storage.Path = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tol, err := cfg.Tolerance()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.params = bank.Params{Tolerance: tol, Logger: logger}
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.Storage.Path, a.cfg.Storage.MaxBackups)
	if err != nil {
		return nil, fmt.Errorf("opening state database %s: %w", a.cfg.Storage.Path, err)
	}
	return st, nil
}

// view loads the bank and runs fn without saving.
func (a *app) view(ctx context.Context, fn func(*bank.Bank) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := bank.Load(ctx, st, a.params)
	if err != nil {
		return err
	}
	return fn(b)
}

// mutate loads the bank, runs fn and saves the result. Nothing is saved
// when fn fails.
func (a *app) mutate(ctx context.Context, fn func(*bank.Bank) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := bank.Load(ctx, st, a.params)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return b.Save(ctx, st)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
