package txn

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/id"
	"github.com/vaultbook/vaultbook/internal/model"
)

// Manager keeps the bank's transactions and posts them against an
// accounts.Manager.
type Manager struct {
	accounts     *accounts.Manager
	transactions []*Transaction
	nextID       int
	logger       *zap.Logger
	now          func() time.Time
}

// NewManager returns an empty Manager. A nil logger discards output.
func NewManager(m *accounts.Manager, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		accounts: m,
		nextID:   1,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Result reports the outcome of one transaction in a batch operation.
type Result struct {
	Transaction *Transaction
	Err         error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Summary aggregates the transactions a Manager holds.
type Summary struct {
	Total           int
	Posted          int
	Unposted        int
	Volume          decimal.Decimal
	FormattedVolume string
}

func (tm *Manager) generateID() string {
	txnID := id.FormatTransactionID(tm.now(), tm.nextID)
	tm.nextID++
	return txnID
}

// Create validates lines and stores a new unposted transaction.
func (tm *Manager) Create(description string, lines []Line) (*Transaction, error) {
	t, err := New(tm.generateID(), description, lines, tm.now(), tm.accounts.Tolerance())
	if err != nil {
		return nil, err
	}
	tm.transactions = append(tm.transactions, t)
	tm.logger.Debug("transaction created", zap.String("transaction_id", t.ID), zap.String("amount", t.Total().StringFixed(2)))
	return t, nil
}

func orDefault(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}

// CreateDeposit moves amount from vault cash into accountID: debit
// accountID, credit cash.
func (tm *Manager) CreateDeposit(accountID string, amount decimal.Decimal, description string) (*Transaction, error) {
	return tm.Create(orDefault(description, "Deposit"), []Line{
		DebitLine(accountID, amount),
		CreditLine(accounts.CashID, amount),
	})
}

// CreateWithdrawal moves amount from accountID back to vault cash: credit
// accountID, debit cash.
func (tm *Manager) CreateWithdrawal(accountID string, amount decimal.Decimal, description string) (*Transaction, error) {
	return tm.Create(orDefault(description, "Withdrawal"), []Line{
		CreditLine(accountID, amount),
		DebitLine(accounts.CashID, amount),
	})
}

// CreateTransfer credits from and debits to.
func (tm *Manager) CreateTransfer(from, to string, amount decimal.Decimal, description string) (*Transaction, error) {
	return tm.Create(orDefault(description, "Transfer"), []Line{
		CreditLine(from, amount),
		DebitLine(to, amount),
	})
}

// CreateLoan debits accountID and credits loans payable.
func (tm *Manager) CreateLoan(accountID string, amount decimal.Decimal, description string) (*Transaction, error) {
	return tm.Create(orDefault(description, "Loan"), []Line{
		DebitLine(accountID, amount),
		CreditLine(accounts.LoansPayableID, amount),
	})
}

// CreateInterest records interest against accountID. Income interest
// credits accountID and debits interest income; expense interest debits
// accountID and credits interest expense.
func (tm *Manager) CreateInterest(accountID string, amount decimal.Decimal, income bool, description string) (*Transaction, error) {
	description = orDefault(description, "Interest")
	if income {
		return tm.Create(description, []Line{
			CreditLine(accountID, amount),
			DebitLine(accounts.InterestIncomeID, amount),
		})
	}
	return tm.Create(description, []Line{
		DebitLine(accountID, amount),
		CreditLine(accounts.InterestExpenseID, amount),
	})
}

// Get returns a transaction by id.
func (tm *Manager) Get(txnID string) (*Transaction, bool) {
	for _, t := range tm.transactions {
		if t.ID == txnID {
			return t, true
		}
	}
	return nil, false
}

func (tm *Manager) find(txnID string) (*Transaction, error) {
	t, ok := tm.Get(txnID)
	if !ok {
		return nil, &model.Error{Kind: model.ErrTransactionNotFound, Detail: fmt.Sprintf("transaction %s not found", txnID)}
	}
	return t, nil
}

// All returns every transaction in creation order.
func (tm *Manager) All() []*Transaction {
	return append([]*Transaction(nil), tm.transactions...)
}

func (tm *Manager) filter(keep func(*Transaction) bool) []*Transaction {
	var result []*Transaction
	for _, t := range tm.transactions {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// ByAccount returns the transactions with a line against accountID.
func (tm *Manager) ByAccount(accountID string) []*Transaction {
	return tm.filter(func(t *Transaction) bool { return t.Touches(accountID) })
}

// ByDateRange returns the transactions timestamped within [start, end].
func (tm *Manager) ByDateRange(start, end time.Time) []*Transaction {
	return tm.filter(func(t *Transaction) bool {
		return !t.Timestamp.Before(start) && !t.Timestamp.After(end)
	})
}

// Posted returns the transactions currently applied.
func (tm *Manager) Posted() []*Transaction {
	return tm.filter(func(t *Transaction) bool { return t.posted })
}

// Unposted returns the transactions not currently applied.
func (tm *Manager) Unposted() []*Transaction {
	return tm.filter(func(t *Transaction) bool { return !t.posted })
}

// Post applies t to the accounts.
func (tm *Manager) Post(t *Transaction) error {
	if err := t.Post(tm.accounts); err != nil {
		tm.logger.Warn("transaction post failed", zap.String("transaction_id", t.ID), zap.Error(err))
		return err
	}
	tm.logger.Info("transaction posted", zap.String("transaction_id", t.ID), zap.String("amount", t.Total().StringFixed(2)))
	return nil
}

// Unpost reverses t.
func (tm *Manager) Unpost(t *Transaction) error {
	if err := t.Unpost(tm.accounts); err != nil {
		tm.logger.Warn("transaction unpost failed", zap.String("transaction_id", t.ID), zap.Error(err))
		return err
	}
	tm.logger.Info("transaction unposted", zap.String("transaction_id", t.ID))
	return nil
}

// PostByID posts the stored transaction txnID.
func (tm *Manager) PostByID(txnID string) error {
	t, err := tm.find(txnID)
	if err != nil {
		return err
	}
	return tm.Post(t)
}

// UnpostByID reverses the stored transaction txnID.
func (tm *Manager) UnpostByID(txnID string) error {
	t, err := tm.find(txnID)
	if err != nil {
		return err
	}
	return tm.Unpost(t)
}

// Delete removes an unposted transaction.
func (tm *Manager) Delete(txnID string) error {
	for i, t := range tm.transactions {
		if t.ID != txnID {
			continue
		}
		if t.posted {
			return &model.Error{Kind: model.ErrIllegalDelete, Detail: fmt.Sprintf("transaction %s is posted; unpost it first", txnID)}
		}
		tm.transactions = append(tm.transactions[:i], tm.transactions[i+1:]...)
		return nil
	}
	return &model.Error{Kind: model.ErrTransactionNotFound, Detail: fmt.Sprintf("transaction %s not found", txnID)}
}

// PostAllUnposted posts every unposted transaction in creation order. A
// failure is recorded in its Result and does not stop the batch.
func (tm *Manager) PostAllUnposted() []Result {
	unposted := tm.Unposted()
	results := make([]Result, 0, len(unposted))
	for _, t := range unposted {
		results = append(results, Result{Transaction: t, Err: tm.Post(t)})
	}
	return results
}

// ValidateAll validates every stored transaction.
func (tm *Manager) ValidateAll() []Result {
	results := make([]Result, 0, len(tm.transactions))
	for _, t := range tm.transactions {
		results = append(results, Result{Transaction: t, Err: t.Validate(tm.accounts.Tolerance())})
	}
	return results
}

// Summary counts transactions and sums their volume.
func (tm *Manager) Summary() Summary {
	volume := decimal.Zero
	posted := 0
	for _, t := range tm.transactions {
		volume = volume.Add(t.Total())
		if t.posted {
			posted++
		}
	}
	return Summary{
		Total:           len(tm.transactions),
		Posted:          posted,
		Unposted:        len(tm.transactions) - posted,
		Volume:          volume,
		FormattedVolume: model.FormatUSD(volume),
	}
}
