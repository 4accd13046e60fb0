package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/var/lib/vaultbook/state.db"
	cfg.Interest.Accounts = append(cfg.Interest.Accounts, InterestAccount{AccountID: "checking_liability", Rate: "0.001"})

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.01", cfg.Ledger.Tolerance)
	assert.Equal(t, "vaultbook.db", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Storage.MaxBackups)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	require.Len(t, cfg.Interest.Accounts, 1)
	assert.Equal(t, "savings_liability", cfg.Interest.Accounts[0].AccountID)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nledger:\n  tolerance: 0.005\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.005", cfg.Ledger.Tolerance)
	assert.Equal(t, "vaultbook.db", cfg.Storage.Path)

	tol, err := cfg.Tolerance()
	require.NoError(t, err)
	assert.Equal(t, "0.005", tol.String())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "max_backups: 5")
	assert.Contains(t, contents, "level: info")
	assert.Contains(t, contents, "account_id: savings_liability")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		tagErr bool
	}{
		{"missing db path", func(c *Config) { c.Storage.Path = "" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"backups out of range", func(c *Config) { c.Storage.MaxBackups = -1 }, true},
		{"non-numeric tolerance", func(c *Config) { c.Ledger.Tolerance = "a cent" }, true},
		{"interest without account", func(c *Config) { c.Interest.Accounts[0].AccountID = "" }, true},
		{"negative tolerance", func(c *Config) { c.Ledger.Tolerance = "-0.01" }, false},
		{"negative rate", func(c *Config) { c.Interest.Accounts[0].Rate = "-0.02" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var verrs validator.ValidationErrors
			assert.Equal(t, tt.tagErr, errors.As(err, &verrs))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VAULTBOOK_LOG_LEVEL=warn\n"), 0o644))
	t.Setenv(EnvDBPath, "/tmp/override.db")
	t.Setenv(EnvTolerance, "0.02")
	// godotenv does not overwrite variables that are already set, so
	// register the key for cleanup before the file sets it.
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, envFile))
	assert.Equal(t, "/tmp/override.db", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "0.02", cfg.Ledger.Tolerance)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_Errors(t *testing.T) {
	err := ApplyEnv(Default(), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv(EnvTolerance, "lots")
	err = ApplyEnv(Default(), "")
	assert.ErrorContains(t, err, EnvTolerance)
}
