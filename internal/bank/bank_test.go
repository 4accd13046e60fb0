package bank

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/config"
	"github.com/vaultbook/vaultbook/internal/journal"
	"github.com/vaultbook/vaultbook/internal/model"
	"github.com/vaultbook/vaultbook/internal/report"
	"github.com/vaultbook/vaultbook/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// busyBank posts one journal entry, one posted deposit, one pending
// transfer and a day of interest.
func busyBank(t *testing.T) *Bank {
	t.Helper()
	b := New(Params{})
	_, err := b.Ledger.Post(journal.EntryParams{
		Description: "owner investment",
		Postings: []journal.PostingInput{
			{AccountID: "cash", Amount: dec("500"), Type: model.Debit},
			{AccountID: "capital", Amount: dec("500"), Type: model.Credit},
		},
	})
	require.NoError(t, err)

	dep, err := b.Transactions.CreateDeposit("checking", dec("500"), "Test")
	require.NoError(t, err)
	require.NoError(t, b.Transactions.Post(dep))
	_, err = b.Transactions.CreateTransfer("savings", "checking", dec("25"), "")
	require.NoError(t, err)

	require.NoError(t, b.RegisterInterest([]config.InterestAccount{{AccountID: "savings_liability", Rate: "0.0365"}}))
	_, err = b.Interest.AccrueDaily()
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := New(Params{})
	assert.Len(t, b.Accounts.All(), 13)
	assert.True(t, b.Accounts.ValidateBalanceSheet().IsBalanced)
	assert.Same(t, b.Accounts, b.Ledger.Accounts())
}

func TestNewFromChart(t *testing.T) {
	b, err := NewFromChart([]accounts.ChartAccount{
		{ID: "cash", Name: "Cash", Type: model.AccountTypeAsset, OpeningBalance: dec("100")},
		{ID: "capital", Name: "Capital", Type: model.AccountTypeEquity, OpeningBalance: dec("100")},
	}, Params{})
	require.NoError(t, err)
	assert.Len(t, b.Accounts.All(), 2)

	_, err = NewFromChart([]accounts.ChartAccount{{ID: "x", Name: "X", Type: "bogus"}}, Params{})
	assert.ErrorIs(t, err, model.ErrInvalidAccountType)
}

func TestStateShape(t *testing.T) {
	data, err := busyBank(t).Encode()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"accounts", "ledger", "transactions", "timestamp", "version"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `"1.0.0"`, string(raw["version"]))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := busyBank(t)
	data, err := b.Encode()
	require.NoError(t, err)

	got, err := Decode(data, Params{})
	require.NoError(t, err)

	for _, a := range b.Accounts.All() {
		assert.True(t, a.Balance().Equal(got.Accounts.Balance(a.ID)), a.ID)
	}
	assert.Len(t, got.Ledger.Entries(), 2)
	assert.Len(t, got.Transactions.All(), 2)
	assert.Len(t, got.Transactions.Posted(), 1)
	want, have := report.GenerateTrialBalance(b.Accounts), report.GenerateTrialBalance(got.Accounts)
	assert.True(t, want.TotalDebit.Equal(have.TotalDebit))
	assert.True(t, have.Balanced)

	// Restored services keep working against the restored accounts.
	pending := got.Transactions.Unposted()
	require.Len(t, pending, 1)
	require.NoError(t, got.Transactions.Post(pending[0]))
	assert.True(t, got.Accounts.ValidateBalanceSheet().IsBalanced)
}

func TestRestore_RejectsUnknownVersion(t *testing.T) {
	s := New(Params{}).Snapshot()
	s.Version = "2.0.0"
	_, err := Restore(s, Params{})
	assert.ErrorContains(t, err, "2.0.0")
}

func TestRestore_KeepsTolerance(t *testing.T) {
	data, err := New(Params{}).Encode()
	require.NoError(t, err)
	got, err := Decode(data, Params{Tolerance: dec("0.5")})
	require.NoError(t, err)
	assert.True(t, got.Accounts.Tolerance().Equal(dec("0.5")))
}

func TestRegisterInterest_BadRate(t *testing.T) {
	b := New(Params{})
	err := b.RegisterInterest([]config.InterestAccount{{AccountID: "savings_liability", Rate: "two percent"}})
	assert.ErrorContains(t, err, "savings_liability")
	err = b.RegisterInterest([]config.InterestAccount{{AccountID: "savings_liability", Rate: "-1"}})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "vaultbook.db"), 0)
	require.NoError(t, err)
	defer st.Close()

	fresh, err := Load(ctx, st, Params{})
	require.NoError(t, err)
	assert.True(t, fresh.Accounts.Balance("cash").Equal(dec("10000")))

	b := busyBank(t)
	require.NoError(t, b.Save(ctx, st))

	got, err := Load(ctx, st, Params{})
	require.NoError(t, err)
	assert.True(t, got.Accounts.Balance("checking").Equal(b.Accounts.Balance("checking")))
	assert.Len(t, got.Ledger.Entries(), 2)

	backups, err := st.Backups(ctx, store.DefaultKey)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
