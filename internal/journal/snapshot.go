package journal

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/model"
)

// EntrySnapshot is the plain-data form of an Entry.
type EntrySnapshot struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Postings    []model.Posting `json:"postings"`
	Timestamp   time.Time       `json:"timestamp"`
}

// LedgerSnapshot is the plain-data form of a Ledger's history.
type LedgerSnapshot struct {
	Entries []EntrySnapshot `json:"entries"`
}

// Snapshot returns the plain-data form of e.
func (e Entry) Snapshot() EntrySnapshot {
	return EntrySnapshot{
		ID:          e.id,
		Description: e.description,
		Postings:    e.Postings(),
		Timestamp:   e.timestamp,
	}
}

// Snapshot returns the plain-data form of the ledger history.
func (l *Ledger) Snapshot() LedgerSnapshot {
	entries := make([]EntrySnapshot, len(l.entries))
	for i, e := range l.entries {
		entries[i] = e.Snapshot()
	}
	return LedgerSnapshot{Entries: entries}
}

// RestoreLedger rebuilds a ledger history over m. Entries are re-validated
// but not re-applied: the account balances in m already reflect them.
func RestoreLedger(s LedgerSnapshot, m *accounts.Manager, logger *zap.Logger) (*Ledger, error) {
	l := NewLedger(m, logger)
	for i, es := range s.Entries {
		e, err := newEntry(es.ID, es.Description, es.Postings, es.Timestamp, m.Tolerance())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if l.posted[e.id] {
			return nil, fmt.Errorf("entry %d: duplicate id %s", i, e.id)
		}
		l.entries = append(l.entries, e)
		l.posted[e.id] = true
	}
	return l, nil
}
