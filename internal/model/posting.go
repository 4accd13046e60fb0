package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction is the side of a posting.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Valid reports whether d is debit or credit.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// Opposite returns the direction that undoes d.
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// Posting is one leg of a balanced entry: one account, one direction, one
// positive amount. The zero value is not a valid posting; use NewPosting.
type Posting struct {
	accountID string
	amount    decimal.Decimal
	direction Direction
}

// NewPosting validates and returns a posting.
func NewPosting(accountID string, amount decimal.Decimal, direction Direction) (Posting, error) {
	if accountID == "" {
		return Posting{}, &Error{Kind: ErrInvalidEntry, Detail: "posting account id is required"}
	}
	if !amount.IsPositive() {
		return Posting{}, &Error{
			Kind:       ErrInvalidAmount,
			AccountIDs: []string{accountID},
			Amounts:    []decimal.Decimal{amount},
			Detail:     fmt.Sprintf("posting amount must be positive, got %s", amount),
		}
	}
	if !direction.Valid() {
		return Posting{}, &Error{
			Kind:       ErrInvalidEntry,
			AccountIDs: []string{accountID},
			Detail:     fmt.Sprintf("posting type must be debit or credit, got %q", direction),
		}
	}
	return Posting{accountID: accountID, amount: amount, direction: direction}, nil
}

// MustPosting is NewPosting for literals known to be valid.
func MustPosting(accountID string, amount decimal.Decimal, direction Direction) Posting {
	p, err := NewPosting(accountID, amount, direction)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Posting) AccountID() string       { return p.accountID }
func (p Posting) Amount() decimal.Decimal { return p.amount }
func (p Posting) Direction() Direction    { return p.direction }
func (p Posting) IsDebit() bool           { return p.direction == Debit }

// Inverse returns the posting that undoes p.
func (p Posting) Inverse() Posting {
	return Posting{accountID: p.accountID, amount: p.amount, direction: p.direction.Opposite()}
}

func (p Posting) String() string {
	return fmt.Sprintf("%s %s %s", p.direction, p.accountID, p.amount.StringFixed(2))
}

type postingJSON struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      Direction       `json:"type"`
}

// MarshalJSON encodes the posting as {accountId, amount, type}.
func (p Posting) MarshalJSON() ([]byte, error) {
	return json.Marshal(postingJSON{AccountID: p.accountID, Amount: p.amount, Type: p.direction})
}

// UnmarshalJSON decodes and re-validates a posting.
func (p *Posting) UnmarshalJSON(data []byte) error {
	var raw postingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding posting: %w", err)
	}
	v, err := NewPosting(raw.AccountID, raw.Amount, raw.Type)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Totals sums the debit and credit sides of postings.
func Totals(postings []Posting) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, p := range postings {
		if p.IsDebit() {
			debits = debits.Add(p.amount)
		} else {
			credits = credits.Add(p.amount)
		}
	}
	return debits, credits
}
