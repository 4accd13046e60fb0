package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/id"
	"github.com/vaultbook/vaultbook/internal/model"
)

// MinPostings is the smallest number of postings an entry may carry.
const MinPostings = 2

// Entry is a validated, balanced group of postings. It has no setters; an
// unbalanced or undersized Entry cannot be constructed.
type Entry struct {
	id          string
	description string
	postings    []model.Posting
	timestamp   time.Time
}

// PostingInput is the raw form of a posting before validation.
type PostingInput struct {
	AccountID string
	Amount    decimal.Decimal
	Type      model.Direction
}

// EntryParams holds the inputs for NewEntry. ID and Timestamp are
// generated when empty. A zero Tolerance means model.DefaultTolerance.
type EntryParams struct {
	ID          string
	Description string
	Postings    []PostingInput
	Timestamp   time.Time
	Tolerance   decimal.Decimal
}

// NewEntry coerces the inputs into postings and validates the result.
func NewEntry(p EntryParams) (Entry, error) {
	postings := make([]model.Posting, 0, len(p.Postings))
	for i, in := range p.Postings {
		posting, err := model.NewPosting(in.AccountID, in.Amount, in.Type)
		if err != nil {
			return Entry{}, fmt.Errorf("posting %d: %w", i, err)
		}
		postings = append(postings, posting)
	}
	return newEntry(p.ID, p.Description, postings, p.Timestamp, p.Tolerance)
}

// NewEntryFromPostings builds an entry from already-validated postings.
func NewEntryFromPostings(entryID, description string, postings []model.Posting, tol decimal.Decimal) (Entry, error) {
	return newEntry(entryID, description, postings, time.Time{}, tol)
}

func newEntry(entryID, description string, postings []model.Posting, at time.Time, tol decimal.Decimal) (Entry, error) {
	if entryID == "" {
		entryID = id.NewEntryID()
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	e := Entry{
		id:          entryID,
		description: description,
		postings:    append([]model.Posting(nil), postings...),
		timestamp:   at,
	}
	if err := e.Validate(tol); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the posting count and that debits equal credits within tol.
func (e Entry) Validate(tol decimal.Decimal) error {
	if tol.IsZero() {
		tol = model.DefaultTolerance
	}
	if len(e.postings) < MinPostings {
		return &model.Error{
			Kind:   model.ErrInvalidEntry,
			Detail: fmt.Sprintf("journal entry must have at least %d postings, got %d", MinPostings, len(e.postings)),
		}
	}
	debits, credits := model.Totals(e.postings)
	if !model.Balanced(debits, credits, tol) {
		return &model.Error{
			Kind:       model.ErrInvalidEntry,
			AccountIDs: accountIDs(e.postings),
			Amounts:    []decimal.Decimal{debits, credits},
			Detail:     fmt.Sprintf("journal entry is not balanced: debits %s, credits %s", debits, credits),
		}
	}
	return nil
}

func (e Entry) ID() string           { return e.id }
func (e Entry) Description() string  { return e.description }
func (e Entry) Timestamp() time.Time { return e.timestamp }

// Postings returns a copy of the entry's postings in order.
func (e Entry) Postings() []model.Posting {
	return append([]model.Posting(nil), e.postings...)
}

// Total is the debit side of the entry.
func (e Entry) Total() decimal.Decimal {
	debits, _ := model.Totals(e.postings)
	return debits
}

func accountIDs(postings []model.Posting) []string {
	ids := make([]string, len(postings))
	for i, p := range postings {
		ids[i] = p.AccountID()
	}
	return ids
}
