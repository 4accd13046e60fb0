package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalSide(t *testing.T) {
	tests := []struct {
		typ  AccountType
		want Direction
	}{
		{AccountTypeAsset, Debit},
		{AccountTypeExpense, Debit},
		{AccountTypeLiability, Credit},
		{AccountTypeEquity, Credit},
		{AccountTypeRevenue, Credit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.NormalSide(), "NormalSide(%s)", tt.typ)
		assert.Equal(t, 1, tt.typ.Sign(tt.want))
		assert.Equal(t, -1, tt.typ.Sign(tt.want.Opposite()))
	}
	assert.Len(t, AccountTypes, len(normalSide), "every type has a sign rule")
}

func TestParseAccountType(t *testing.T) {
	for _, at := range AccountTypes {
		got, err := ParseAccountType(string(at))
		require.NoError(t, err)
		assert.Equal(t, at, got)
	}

	_, err := ParseAccountType("contra")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestNewPosting(t *testing.T) {
	p, err := NewPosting("cash", dec("50"), Debit)
	require.NoError(t, err)
	assert.Equal(t, "cash", p.AccountID())
	assert.True(t, p.Amount().Equal(dec("50")))
	assert.True(t, p.IsDebit())

	inv := p.Inverse()
	assert.Equal(t, Credit, inv.Direction())
	assert.True(t, inv.Amount().Equal(p.Amount()))
}

func TestNewPosting_Errors(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		amount    string
		dir       Direction
		want      error
	}{
		{"missing account", "", "10", Debit, ErrInvalidEntry},
		{"zero amount", "cash", "0", Debit, ErrInvalidAmount},
		{"negative amount", "cash", "-5", Credit, ErrInvalidAmount},
		{"bad direction", "cash", "10", Direction("sideways"), ErrInvalidEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPosting(tt.accountID, dec(tt.amount), tt.dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostingJSON(t *testing.T) {
	p := MustPosting("capital", dec("500.25"), Credit)
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accountId":"capital","amount":"500.25","type":"credit"}`, string(data))

	var got Posting
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p.String(), got.String())

	err = json.Unmarshal([]byte(`{"accountId":"cash","amount":0,"type":"debit"}`), &got)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTotals(t *testing.T) {
	debits, credits := Totals([]Posting{
		MustPosting("cash", dec("60"), Debit),
		MustPosting("savings", dec("40"), Debit),
		MustPosting("capital", dec("100"), Credit),
	})
	assert.True(t, debits.Equal(dec("100")))
	assert.True(t, credits.Equal(dec("100")))
}

func TestBalanced(t *testing.T) {
	tol := dec("0.01")
	assert.True(t, Balanced(dec("100"), dec("100"), tol))
	assert.True(t, Balanced(dec("100.009"), dec("100"), tol))
	assert.False(t, Balanced(dec("100.01"), dec("100"), tol))
	assert.False(t, Balanced(dec("100.0001"), dec("100"), decimal.Zero))
}

func TestErrorFormatting(t *testing.T) {
	err := NotFound("ghost")
	assert.True(t, errors.Is(err, ErrAccountNotFound))
	assert.Equal(t, "account not found: account ghost not found", err.Error())
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"10500", "$10,500.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-0.5", "-$0.50"},
		{"-0.001", "$0.00"},
		{"999.995", "$1,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(dec(tt.in)), "FormatUSD(%s)", tt.in)
	}
}
