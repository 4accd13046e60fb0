// Package bank wires the ledger core together and moves its whole state
// to and from the store.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/config"
	"github.com/vaultbook/vaultbook/internal/interest"
	"github.com/vaultbook/vaultbook/internal/journal"
	"github.com/vaultbook/vaultbook/internal/store"
	"github.com/vaultbook/vaultbook/internal/txn"
)

// StateVersion is written into every saved state.
const StateVersion = "1.0.0"

// State is the serialized form of a Bank.
type State struct {
	Accounts     accounts.ManagerSnapshot `json:"accounts"`
	Ledger       journal.LedgerSnapshot   `json:"ledger"`
	Transactions txn.ManagerSnapshot      `json:"transactions"`
	Timestamp    time.Time                `json:"timestamp"`
	Version      string                   `json:"version"`
}

// Params holds the settings a Bank is built with. A zero Tolerance means
// model.DefaultTolerance; a nil Logger discards output.
type Params struct {
	Tolerance decimal.Decimal
	Logger    *zap.Logger
}

func (p Params) accountOptions() []accounts.Option {
	if p.Tolerance.IsZero() {
		return nil
	}
	return []accounts.Option{accounts.WithTolerance(p.Tolerance)}
}

func (p Params) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Bank is the set of collaborating ledger services over one account set.
type Bank struct {
	Accounts     *accounts.Manager
	Ledger       *journal.Ledger
	Transactions *txn.Manager
	Interest     *interest.Service

	logger *zap.Logger
}

// New returns a Bank seeded with the default chart of accounts.
func New(p Params) *Bank {
	return assemble(accounts.NewManager(p.accountOptions()...), nil, nil, p.logger())
}

// NewFromChart returns a Bank seeded with chart.
func NewFromChart(chart []accounts.ChartAccount, p Params) (*Bank, error) {
	m, err := accounts.NewManagerFromChart(chart, p.accountOptions()...)
	if err != nil {
		return nil, err
	}
	return assemble(m, nil, nil, p.logger()), nil
}

func assemble(m *accounts.Manager, l *journal.Ledger, tm *txn.Manager, logger *zap.Logger) *Bank {
	if l == nil {
		l = journal.NewLedger(m, logger.Named("ledger"))
	}
	if tm == nil {
		tm = txn.NewManager(m, logger.Named("transactions"))
	}
	return &Bank{
		Accounts:     m,
		Ledger:       l,
		Transactions: tm,
		Interest:     interest.NewService(l, logger.Named("interest")),
		logger:       logger,
	}
}

// RegisterInterest registers each configured interest account.
func (b *Bank) RegisterInterest(accts []config.InterestAccount) error {
	for _, a := range accts {
		rate, err := decimal.NewFromString(a.Rate)
		if err != nil {
			return fmt.Errorf("interest rate for %s: %w", a.AccountID, err)
		}
		if err := b.Interest.Register(a.AccountID, rate); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the plain-data form of the whole bank.
func (b *Bank) Snapshot() State {
	return State{
		Accounts:     b.Accounts.Snapshot(),
		Ledger:       b.Ledger.Snapshot(),
		Transactions: b.Transactions.Snapshot(),
		Timestamp:    time.Now().UTC(),
		Version:      StateVersion,
	}
}

// Restore rebuilds a Bank from s. Balances come from the account
// snapshot; ledger entries and transactions are re-validated, not
// re-applied. Interest registrations are not part of the state.
func Restore(s State, p Params) (*Bank, error) {
	if s.Version != "" && s.Version != StateVersion {
		return nil, fmt.Errorf("unsupported state version %q", s.Version)
	}
	logger := p.logger()
	m, err := accounts.RestoreManager(s.Accounts, p.accountOptions()...)
	if err != nil {
		return nil, fmt.Errorf("restoring accounts: %w", err)
	}
	l, err := journal.RestoreLedger(s.Ledger, m, logger.Named("ledger"))
	if err != nil {
		return nil, fmt.Errorf("restoring ledger: %w", err)
	}
	tm, err := txn.RestoreManager(s.Transactions, m, logger.Named("transactions"))
	if err != nil {
		return nil, fmt.Errorf("restoring transactions: %w", err)
	}
	return assemble(m, l, tm, logger), nil
}

// Encode serializes the bank state as JSON.
func (b *Bank) Encode() ([]byte, error) {
	data, err := json.Marshal(b.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding bank state: %w", err)
	}
	return data, nil
}

// Decode restores a Bank from JSON produced by Encode.
func Decode(data []byte, p Params) (*Bank, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding bank state: %w", err)
	}
	return Restore(s, p)
}

// Save writes the bank state to st after a mutation.
func (b *Bank) Save(ctx context.Context, st *store.Store) error {
	data, err := b.Encode()
	if err != nil {
		return err
	}
	if err := st.Save(ctx, store.DefaultKey, data); err != nil {
		return err
	}
	b.logger.Debug("bank state saved", zap.Int("bytes", len(data)))
	return nil
}

// Load restores the bank saved in st, or a fresh Bank when nothing has
// been saved yet.
func Load(ctx context.Context, st *store.Store, p Params) (*Bank, error) {
	data, err := st.Load(ctx, store.DefaultKey)
	if errors.Is(err, store.ErrNotFound) {
		p.logger().Info("no saved state, starting from the default chart")
		return New(p), nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data, p)
}
