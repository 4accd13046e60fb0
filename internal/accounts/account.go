package accounts

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/model"
)

// Account is a named ledger account with a running balance. The balance
// only moves through Debit and Credit, which apply the sign rule of Type.
type Account struct {
	ID            string
	Name          string
	Type          model.AccountType
	Description   string
	AccountNumber string
	Active        bool
	CreatedAt     time.Time

	balance decimal.Decimal
}

// NewAccount returns an active account with an opening balance.
func NewAccount(id, name string, typ model.AccountType, opening decimal.Decimal) (*Account, error) {
	if id == "" {
		return nil, &model.Error{Kind: model.ErrInvalidEntry, Detail: "account id is required"}
	}
	if !typ.Valid() {
		return nil, &model.Error{
			Kind:       model.ErrInvalidAccountType,
			AccountIDs: []string{id},
			Detail:     fmt.Sprintf("unknown account type %q for %s", typ, id),
		}
	}
	now := time.Now().UTC()
	return &Account{
		ID:            id,
		Name:          name,
		Type:          typ,
		AccountNumber: accountNumber(typ, now),
		Active:        true,
		CreatedAt:     now,
		balance:       opening,
	}, nil
}

// accountNumber is the type prefix digit followed by the last six digits of
// the creation time in milliseconds.
func accountNumber(typ model.AccountType, at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return typ.Prefix() + ms
}

// Debit applies a debit of amount and returns the new balance.
func (a *Account) Debit(amount decimal.Decimal) (decimal.Decimal, error) {
	return a.apply(model.Debit, amount)
}

// Credit applies a credit of amount and returns the new balance.
func (a *Account) Credit(amount decimal.Decimal) (decimal.Decimal, error) {
	return a.apply(model.Credit, amount)
}

func (a *Account) apply(d model.Direction, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, &model.Error{
			Kind:       model.ErrInvalidAmount,
			AccountIDs: []string{a.ID},
			Amounts:    []decimal.Decimal{amount},
			Detail:     fmt.Sprintf("%s amount must be positive, got %s", d, amount),
		}
	}
	if a.Type.Sign(d) > 0 {
		a.balance = a.balance.Add(amount)
	} else {
		a.balance = a.balance.Sub(amount)
	}
	return a.balance, nil
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// FormattedBalance returns the balance as US currency.
func (a *Account) FormattedBalance() string {
	return model.FormatUSD(a.balance)
}

// Deactivate marks the account inactive. Inactive accounts still accept
// postings; the flag is informational.
func (a *Account) Deactivate() {
	a.Active = false
}
