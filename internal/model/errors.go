package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Failure kinds. Match with errors.Is.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidEntry        = errors.New("invalid entry")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrAccountNotFound     = errors.New("account not found")
	ErrLedgerImbalance     = errors.New("ledger out of balance")
	ErrAlreadyPosted       = errors.New("transaction already posted")
	ErrNotPosted           = errors.New("transaction not posted")
	ErrIllegalDelete       = errors.New("cannot delete posted transaction")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Error carries a failure kind plus the ids and amounts that explain it.
type Error struct {
	Kind       error
	AccountIDs []string
	Amounts    []decimal.Decimal
	Detail     string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.AccountIDs) > 0 && !strings.Contains(e.Detail, e.AccountIDs[0]) {
		fmt.Fprintf(&b, " [accounts: %s]", strings.Join(e.AccountIDs, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound returns an ErrAccountNotFound error for ids.
func NotFound(ids ...string) *Error {
	return &Error{
		Kind:       ErrAccountNotFound,
		AccountIDs: ids,
		Detail:     fmt.Sprintf("account %s not found", strings.Join(ids, ", ")),
	}
}
