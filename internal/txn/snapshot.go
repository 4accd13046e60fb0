package txn

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/id"
)

// TransactionSnapshot is the plain-data form of a Transaction.
type TransactionSnapshot struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Entries     []Line    `json:"entries"`
	Timestamp   time.Time `json:"timestamp"`
	IsPosted    bool      `json:"isPosted"`
}

// ManagerSnapshot is the plain-data form of a Manager.
type ManagerSnapshot struct {
	Transactions      []TransactionSnapshot `json:"transactions"`
	NextTransactionID int                   `json:"nextTransactionId"`
	LastUpdated       time.Time             `json:"lastUpdated"`
}

// Snapshot returns the plain-data form of t.
func (t *Transaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		ID:          t.ID,
		Description: t.Description,
		Entries:     t.Lines(),
		Timestamp:   t.Timestamp,
		IsPosted:    t.posted,
	}
}

// Snapshot returns the plain-data form of tm.
func (tm *Manager) Snapshot() ManagerSnapshot {
	txns := make([]TransactionSnapshot, len(tm.transactions))
	for i, t := range tm.transactions {
		txns[i] = t.Snapshot()
	}
	return ManagerSnapshot{
		Transactions:      txns,
		NextTransactionID: tm.nextID,
		LastUpdated:       tm.now(),
	}
}

// RestoreManager rebuilds a Manager over m. Transactions are re-validated
// and keep their posted flag; balances in m are not touched. A missing
// nextTransactionId is derived from the highest restored sequence.
func RestoreManager(s ManagerSnapshot, m *accounts.Manager, logger *zap.Logger) (*Manager, error) {
	tm := NewManager(m, logger)

	maxSeq := 0
	seen := make(map[string]bool, len(s.Transactions))
	for i, ts := range s.Transactions {
		if ts.ID == "" {
			return nil, fmt.Errorf("transaction %d: id is required", i)
		}
		if seen[ts.ID] {
			return nil, fmt.Errorf("transaction %d: duplicate id %s", i, ts.ID)
		}
		seen[ts.ID] = true

		t, err := New(ts.ID, ts.Description, ts.Entries, ts.Timestamp, m.Tolerance())
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", ts.ID, err)
		}
		t.posted = ts.IsPosted
		tm.transactions = append(tm.transactions, t)

		if seq, err := id.ParseTransactionID(ts.ID); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}

	tm.nextID = s.NextTransactionID
	if tm.nextID < 1 {
		tm.nextID = maxSeq + 1
	}
	return tm, nil
}
