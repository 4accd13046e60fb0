package accounts

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbook/vaultbook/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDebitCreditSignRule(t *testing.T) {
	amounts := []string{"0.01", "1", "500", "12345.67"}
	for _, typ := range model.AccountTypes {
		debitNormal := typ == model.AccountTypeAsset || typ == model.AccountTypeExpense
		for _, amt := range amounts {
			x := dec(amt)

			acct, err := NewAccount("a", "A", typ, dec("1000"))
			require.NoError(t, err)
			got, err := acct.Debit(x)
			require.NoError(t, err)
			if debitNormal {
				assert.True(t, got.Equal(dec("1000").Add(x)), "%s debit %s", typ, amt)
			} else {
				assert.True(t, got.Equal(dec("1000").Sub(x)), "%s debit %s", typ, amt)
			}

			acct, err = NewAccount("a", "A", typ, dec("1000"))
			require.NoError(t, err)
			got, err = acct.Credit(x)
			require.NoError(t, err)
			if debitNormal {
				assert.True(t, got.Equal(dec("1000").Sub(x)), "%s credit %s", typ, amt)
			} else {
				assert.True(t, got.Equal(dec("1000").Add(x)), "%s credit %s", typ, amt)
			}
			assert.True(t, acct.Balance().Equal(got))
		}
	}
}

func TestDebitCredit_InvalidAmount(t *testing.T) {
	acct, err := NewAccount("cash", "Cash", model.AccountTypeAsset, dec("100"))
	require.NoError(t, err)

	for _, amt := range []string{"0", "-1"} {
		_, err := acct.Debit(dec(amt))
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
		_, err = acct.Credit(dec(amt))
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	}
	assert.True(t, acct.Balance().Equal(dec("100")), "failed postings must not move the balance")
}

func TestNewAccount_Validation(t *testing.T) {
	_, err := NewAccount("x", "X", model.AccountType("contra"), decimal.Zero)
	assert.ErrorIs(t, err, model.ErrInvalidAccountType)

	_, err = NewAccount("", "X", model.AccountTypeAsset, decimal.Zero)
	assert.ErrorIs(t, err, model.ErrInvalidEntry)
}

func TestAccountNumber(t *testing.T) {
	acct, err := NewAccount("loans", "Loans", model.AccountTypeLiability, decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, acct.AccountNumber, 7)
	assert.Equal(t, "2", acct.AccountNumber[:1])
	assert.True(t, acct.Active)
}

func TestDeactivateDoesNotGatePostings(t *testing.T) {
	acct, err := NewAccount("cash", "Cash", model.AccountTypeAsset, dec("100"))
	require.NoError(t, err)
	acct.Deactivate()
	assert.False(t, acct.Active)

	_, err = acct.Debit(dec("5"))
	require.NoError(t, err)
	assert.True(t, acct.Balance().Equal(dec("105")))
}

func TestFormattedBalance(t *testing.T) {
	acct, err := NewAccount("cash", "Cash", model.AccountTypeAsset, dec("10500"))
	require.NoError(t, err)
	assert.Equal(t, "$10,500.00", acct.FormattedBalance())
}
