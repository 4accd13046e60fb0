package txn

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/model"
)

// MinLines is the smallest number of lines a transaction may carry.
const MinLines = 2

// Line is one row of a transaction. Exactly one of Debit and Credit is
// positive; the other is zero.
type Line struct {
	AccountID string          `json:"accountId"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// DebitLine returns a debit line.
func DebitLine(accountID string, amount decimal.Decimal) Line {
	return Line{AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

// CreditLine returns a credit line.
func CreditLine(accountID string, amount decimal.Decimal) Line {
	return Line{AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}

func (l Line) validate() error {
	if l.AccountID == "" {
		return &model.Error{Kind: model.ErrInvalidEntry, Detail: "line account id is required"}
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return &model.Error{
			Kind:       model.ErrInvalidAmount,
			AccountIDs: []string{l.AccountID},
			Amounts:    []decimal.Decimal{l.Debit, l.Credit},
			Detail:     "debit and credit amounts must be non-negative",
		}
	}
	hasDebit, hasCredit := l.Debit.IsPositive(), l.Credit.IsPositive()
	if hasDebit == hasCredit {
		return &model.Error{
			Kind:       model.ErrInvalidEntry,
			AccountIDs: []string{l.AccountID},
			Amounts:    []decimal.Decimal{l.Debit, l.Credit},
			Detail:     fmt.Sprintf("line for %s must have exactly one of debit or credit", l.AccountID),
		}
	}
	return nil
}

func (l Line) posting() (model.Posting, error) {
	if l.Debit.IsPositive() {
		return model.NewPosting(l.AccountID, l.Debit, model.Debit)
	}
	return model.NewPosting(l.AccountID, l.Credit, model.Credit)
}

// Transaction is a balanced group of lines that can be posted to and
// reversed from the accounts of a Manager.
type Transaction struct {
	ID          string
	Description string
	Timestamp   time.Time

	lines  []Line
	posted bool
}

// New validates lines and returns an unposted transaction. A zero
// timestamp means now; a zero tolerance means model.DefaultTolerance.
func New(txnID, description string, lines []Line, at time.Time, tol decimal.Decimal) (*Transaction, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	t := &Transaction{
		ID:          txnID,
		Description: description,
		Timestamp:   at,
		lines:       append([]Line(nil), lines...),
	}
	if err := t.Validate(tol); err != nil {
		return nil, err
	}
	return t, nil
}

// Lines returns a copy of the transaction's lines.
func (t *Transaction) Lines() []Line {
	return append([]Line(nil), t.lines...)
}

// IsPosted reports whether the transaction is currently applied.
func (t *Transaction) IsPosted() bool {
	return t.posted
}

// AddLine appends a line to an unposted transaction. The transaction is
// left unchanged if the result does not validate.
func (t *Transaction) AddLine(l Line, tol decimal.Decimal) error {
	if t.posted {
		return &model.Error{Kind: model.ErrAlreadyPosted, Detail: fmt.Sprintf("transaction %s is posted", t.ID)}
	}
	t.lines = append(t.lines, l)
	if err := t.Validate(tol); err != nil {
		t.lines = t.lines[:len(t.lines)-1]
		return err
	}
	return nil
}

// Validate checks every line and that total debits equal total credits
// within tol.
func (t *Transaction) Validate(tol decimal.Decimal) error {
	if tol.IsZero() {
		tol = model.DefaultTolerance
	}
	for _, l := range t.lines {
		if err := l.validate(); err != nil {
			return err
		}
	}
	if len(t.lines) < MinLines {
		return &model.Error{
			Kind:   model.ErrInvalidEntry,
			Detail: fmt.Sprintf("transaction must have at least %d entries, got %d", MinLines, len(t.lines)),
		}
	}
	debits, credits := t.totals()
	if !model.Balanced(debits, credits, tol) {
		return &model.Error{
			Kind:    model.ErrInvalidEntry,
			Amounts: []decimal.Decimal{debits, credits},
			Detail:  fmt.Sprintf("transaction does not balance: debits %s, credits %s", debits, credits),
		}
	}
	return nil
}

func (t *Transaction) totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range t.lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// Postings converts the lines into postings in order.
func (t *Transaction) Postings() ([]model.Posting, error) {
	postings := make([]model.Posting, len(t.lines))
	for i, l := range t.lines {
		p, err := l.posting()
		if err != nil {
			return nil, err
		}
		postings[i] = p
	}
	return postings, nil
}

// Post applies the transaction to m as one unit.
func (t *Transaction) Post(m *accounts.Manager) error {
	if t.posted {
		return &model.Error{Kind: model.ErrAlreadyPosted, Detail: fmt.Sprintf("transaction %s has already been posted", t.ID)}
	}
	if err := t.Validate(m.Tolerance()); err != nil {
		return err
	}
	postings, err := t.Postings()
	if err != nil {
		return err
	}
	if err := m.Apply(postings); err != nil {
		return fmt.Errorf("posting transaction %s: %w", t.ID, err)
	}
	t.posted = true
	return nil
}

// Unpost reverses a posted transaction: each debit line is credited back
// and each credit line debited back.
func (t *Transaction) Unpost(m *accounts.Manager) error {
	if !t.posted {
		return &model.Error{Kind: model.ErrNotPosted, Detail: fmt.Sprintf("transaction %s has not been posted", t.ID)}
	}
	postings, err := t.Postings()
	if err != nil {
		return err
	}
	reversal := make([]model.Posting, len(postings))
	for i, p := range postings {
		reversal[i] = p.Inverse()
	}
	if err := m.Apply(reversal); err != nil {
		return fmt.Errorf("reversing transaction %s: %w", t.ID, err)
	}
	t.posted = false
	return nil
}

// Total is the sum of the debit lines.
func (t *Transaction) Total() decimal.Decimal {
	debits, _ := t.totals()
	return debits
}

// FormattedTotal returns Total as US currency.
func (t *Transaction) FormattedTotal() string {
	return model.FormatUSD(t.Total())
}

// Touches reports whether any line references accountID.
func (t *Transaction) Touches(accountID string) bool {
	for _, l := range t.lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}
