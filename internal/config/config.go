package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vaultbook/vaultbook/internal/model"
)

// FileName is the config file vaultbook looks for in the working directory.
const FileName = "vaultbook.yaml"

// Environment overrides.
const (
	EnvDBPath    = "VAULTBOOK_DB_PATH"
	EnvLogLevel  = "VAULTBOOK_LOG_LEVEL"
	EnvTolerance = "VAULTBOOK_TOLERANCE"
)

// Config represents the top-level vaultbook.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Interest InterestConfig `yaml:"interest"`
}

// LedgerConfig controls the balance checks.
type LedgerConfig struct {
	Tolerance string `yaml:"tolerance" validate:"omitempty,numeric"` // e.g. "0.01"
}

// StorageConfig locates the state database.
type StorageConfig struct {
	Path       string `yaml:"path" validate:"required"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0,max=100"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// InterestConfig lists the accounts that accrue daily interest.
type InterestConfig struct {
	Accounts []InterestAccount `yaml:"accounts,omitempty" validate:"dive"`
}

// InterestAccount is an account and its annual rate.
type InterestAccount struct {
	AccountID string `yaml:"account_id" validate:"required"`
	Rate      string `yaml:"rate" validate:"required,numeric"` // annual, e.g. "0.02"
}

// Load reads a vaultbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new bank.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Tolerance: model.DefaultTolerance.String(),
		},
		Storage: StorageConfig{
			Path:       "vaultbook.db",
			MaxBackups: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
		Interest: InterestConfig{
			Accounts: []InterestAccount{
				{AccountID: "savings_liability", Rate: "0.02"},
			},
		},
	}
}

// ApplyEnv loads envFile (or .env in the working directory when empty and
// present) and applies the VAULTBOOK_* overrides to cfg.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvTolerance); v != "" {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTolerance, err)
		}
		cfg.Ledger.Tolerance = v
	}
	return nil
}

// Validate checks the struct tags and the values they cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	tol, err := c.Tolerance()
	if err != nil {
		return err
	}
	if tol.IsNegative() {
		return fmt.Errorf("invalid config: ledger.tolerance must not be negative, got %s", tol)
	}
	for _, a := range c.Interest.Accounts {
		rate, err := decimal.NewFromString(a.Rate)
		if err != nil {
			return fmt.Errorf("invalid config: interest rate for %s: %w", a.AccountID, err)
		}
		if rate.IsNegative() {
			return fmt.Errorf("invalid config: interest rate for %s must not be negative", a.AccountID)
		}
	}
	return nil
}

// Tolerance returns ledger.tolerance, or model.DefaultTolerance when unset.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	if c.Ledger.Tolerance == "" {
		return model.DefaultTolerance, nil
	}
	tol, err := decimal.NewFromString(c.Ledger.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing ledger.tolerance: %w", err)
	}
	return tol, nil
}
