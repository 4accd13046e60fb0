package model

import "fmt"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in balance-sheet order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// normalSide is the direction that increases an account of each type.
var normalSide = map[AccountType]Direction{
	AccountTypeAsset:     Debit,
	AccountTypeExpense:   Debit,
	AccountTypeLiability: Credit,
	AccountTypeEquity:    Credit,
	AccountTypeRevenue:   Credit,
}

// ParseAccountType validates s against the known account types.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if !t.Valid() {
		return "", &Error{Kind: ErrInvalidAccountType, Detail: fmt.Sprintf("unknown account type %q", s)}
	}
	return t, nil
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	_, ok := normalSide[t]
	return ok
}

// NormalSide returns the direction that increases the balance of t.
// It panics for an invalid type; callers validate at the boundary.
func (t AccountType) NormalSide() Direction {
	d, ok := normalSide[t]
	if !ok {
		panic("model: invalid account type " + string(t))
	}
	return d
}

// Sign returns +1 when a posting in direction d increases an account of
// type t, and -1 when it decreases it.
func (t AccountType) Sign(d Direction) int {
	if t.NormalSide() == d {
		return 1
	}
	return -1
}

// Prefix is the leading account-number digit for t.
func (t AccountType) Prefix() string {
	switch t {
	case AccountTypeAsset:
		return "1"
	case AccountTypeLiability:
		return "2"
	case AccountTypeEquity:
		return "3"
	case AccountTypeRevenue:
		return "4"
	case AccountTypeExpense:
		return "5"
	}
	return "0"
}
