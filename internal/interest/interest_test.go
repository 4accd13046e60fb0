package interest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/journal"
	"github.com/vaultbook/vaultbook/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func smallBank(t *testing.T) *accounts.Manager {
	t.Helper()
	m, err := accounts.NewManagerFromChart([]accounts.ChartAccount{
		{ID: "cash", Name: "Cash", Type: model.AccountTypeAsset, OpeningBalance: dec("1000")},
		{ID: "capital", Name: "Capital", Type: model.AccountTypeEquity},
		{ID: "savings", Name: "Savings Deposits", Type: model.AccountTypeLiability, OpeningBalance: dec("1000")},
		{ID: "interest_expense", Name: "Interest Expense", Type: model.AccountTypeExpense},
	})
	require.NoError(t, err)
	return m
}

func TestDailyInterest(t *testing.T) {
	tests := []struct {
		balance, rate, want string
	}{
		{"1000", "0.365", "1"},
		{"100000", "0.02", "5.48"},
		{"10", "0.01", "0"},
		{"-500", "0.05", "-0.07"},
	}
	for _, tt := range tests {
		got := DailyInterest(dec(tt.balance), dec(tt.rate))
		assert.True(t, got.Equal(dec(tt.want)), "%s @ %s: got %s", tt.balance, tt.rate, got)
	}
}

func TestAccrueDaily(t *testing.T) {
	m := smallBank(t)
	l := journal.NewLedger(m, nil)
	s := NewService(l, nil)
	require.NoError(t, s.Register("savings", dec("0.365")))

	entries, err := s.AccrueDaily()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Interest accrual for savings", entries[0].Description())

	assert.True(t, m.Balance("savings").Equal(dec("1001")))
	assert.True(t, m.Balance("interest_expense").Equal(dec("1")))
	assert.Len(t, l.Entries(), 1)
	assert.True(t, m.ValidateBalanceSheet().IsBalanced)
}

func TestAccrueDaily_Skips(t *testing.T) {
	m := smallBank(t)
	l := journal.NewLedger(m, nil)
	s := NewService(l, nil)
	require.NoError(t, s.Register("ghost", dec("0.05")))
	require.NoError(t, s.Register("capital", dec("0.05")))
	require.NoError(t, s.Register("savings", dec("0")))

	entries, err := s.AccrueDaily()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, l.Entries())
}

func TestAccrueDaily_MissingExpenseAccount(t *testing.T) {
	m, err := accounts.NewManagerFromChart([]accounts.ChartAccount{
		{ID: "savings", Name: "Savings", Type: model.AccountTypeLiability, OpeningBalance: dec("1000")},
		{ID: "cash", Name: "Cash", Type: model.AccountTypeAsset, OpeningBalance: dec("1000")},
	})
	require.NoError(t, err)
	s := NewService(journal.NewLedger(m, nil), nil)
	require.NoError(t, s.Register("savings", dec("0.365")))

	_, err = s.AccrueDaily()
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.True(t, m.Balance("savings").Equal(dec("1000")))
}

func TestRegister(t *testing.T) {
	s := NewService(journal.NewLedger(accounts.NewManager(), nil), nil)
	require.NoError(t, s.Register("savings_liability", dec("0.01")))
	require.NoError(t, s.Register("checking_liability", dec("0.005")))
	require.NoError(t, s.Register("savings_liability", dec("0.02")))

	got := s.Registered()
	require.Len(t, got, 2)
	assert.Equal(t, "savings_liability", got[0].AccountID)
	assert.True(t, got[0].Rate.Equal(dec("0.02")))

	assert.ErrorIs(t, s.Register("", dec("0.01")), model.ErrInvalidEntry)
	assert.ErrorIs(t, s.Register("savings", dec("-0.01")), model.ErrInvalidAmount)
}

func TestAccrueDaily_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewService(journal.NewLedger(accounts.NewManager(), nil), zap.New(core))
	require.NoError(t, s.Register("savings_liability", dec("0.0365")))

	_, err := s.AccrueDaily()
	require.NoError(t, err)

	accrued := logs.FilterMessage("interest accrued").All()
	require.Len(t, accrued, 1)
	assert.Equal(t, "savings_liability", accrued[0].ContextMap()["account_id"])
	assert.Equal(t, "10.00", accrued[0].ContextMap()["amount"])
}
