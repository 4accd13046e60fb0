package journal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/model"
)

// Ledger applies journal entries to the accounts of a Manager and keeps the
// accepted entries in an append-only history.
type Ledger struct {
	accounts *accounts.Manager
	entries  []Entry
	posted   map[string]bool
	logger   *zap.Logger
}

// NewLedger returns an empty ledger over m. A nil logger discards output.
func NewLedger(m *accounts.Manager, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accounts: m,
		posted:   make(map[string]bool),
		logger:   logger,
	}
}

// Post builds an entry from params using the manager's tolerance and posts it.
func (l *Ledger) Post(params EntryParams) (Entry, error) {
	if params.Tolerance.IsZero() {
		params.Tolerance = l.accounts.Tolerance()
	}
	e, err := NewEntry(params)
	if err != nil {
		l.logger.Warn("journal entry rejected", zap.String("description", params.Description), zap.Error(err))
		return Entry{}, err
	}
	return l.PostEntry(e)
}

// PostEntry applies every posting of e as one unit and appends e to the
// history. Unknown accounts fail before any balance moves; a posting that
// leaves the balance sheet out of tolerance is rolled back. Either way the
// account set is unchanged and e is not recorded.
func (l *Ledger) PostEntry(e Entry) (Entry, error) {
	if err := e.Validate(l.accounts.Tolerance()); err != nil {
		l.logger.Warn("journal entry rejected", zap.String("entry_id", e.id), zap.Error(err))
		return Entry{}, err
	}
	if l.posted[e.id] {
		return Entry{}, &model.Error{Kind: model.ErrInvalidEntry, Detail: fmt.Sprintf("journal entry %s already posted", e.id)}
	}

	if err := l.accounts.Apply(e.postings); err != nil {
		l.logger.Warn("journal entry rejected",
			zap.String("entry_id", e.id),
			zap.Strings("account_ids", accountIDs(e.postings)),
			zap.Error(err),
		)
		return Entry{}, fmt.Errorf("posting entry %s: %w", e.id, err)
	}

	l.entries = append(l.entries, e)
	l.posted[e.id] = true
	l.logger.Info("journal entry posted",
		zap.String("entry_id", e.id),
		zap.String("description", e.description),
		zap.Int("postings", len(e.postings)),
		zap.String("amount", e.Total().StringFixed(2)),
	)
	return e, nil
}

// Entries returns the accepted entries in posting order.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Accounts returns the manager the ledger posts against.
func (l *Ledger) Accounts() *accounts.Manager {
	return l.accounts
}

// ByAccount returns the accepted entries that touch accountID.
func (l *Ledger) ByAccount(accountID string) []Entry {
	var result []Entry
	for _, e := range l.entries {
		for _, p := range e.postings {
			if p.AccountID() == accountID {
				result = append(result, e)
				break
			}
		}
	}
	return result
}
