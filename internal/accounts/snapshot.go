package accounts

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/model"
)

// AccountSnapshot is the plain-data form of an Account.
type AccountSnapshot struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Type          model.AccountType `json:"type"`
	Description   string            `json:"description,omitempty"`
	Balance       decimal.Decimal   `json:"balance"`
	AccountNumber string            `json:"accountNumber"`
	CreatedAt     time.Time         `json:"createdAt"`
	IsActive      bool              `json:"isActive"`
}

// ManagerSnapshot is the plain-data form of a Manager, keyed by account id.
type ManagerSnapshot struct {
	Accounts    map[string]AccountSnapshot `json:"accounts"`
	LastUpdated time.Time                  `json:"lastUpdated"`
}

// Snapshot returns the plain-data form of a.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:            a.ID,
		Name:          a.Name,
		Type:          a.Type,
		Description:   a.Description,
		Balance:       a.balance,
		AccountNumber: a.AccountNumber,
		CreatedAt:     a.CreatedAt,
		IsActive:      a.Active,
	}
}

// AccountFromSnapshot rebuilds an Account. The type is re-validated.
func AccountFromSnapshot(s AccountSnapshot) (*Account, error) {
	typ, err := model.ParseAccountType(string(s.Type))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", s.ID, err)
	}
	acct, err := NewAccount(s.ID, s.Name, typ, s.Balance)
	if err != nil {
		return nil, err
	}
	acct.Description = s.Description
	acct.Active = s.IsActive
	if s.AccountNumber != "" {
		acct.AccountNumber = s.AccountNumber
	}
	if !s.CreatedAt.IsZero() {
		acct.CreatedAt = s.CreatedAt
	}
	return acct, nil
}

// Snapshot returns the plain-data form of m.
func (m *Manager) Snapshot() ManagerSnapshot {
	accts := make(map[string]AccountSnapshot, len(m.accounts))
	for key, a := range m.accounts {
		accts[key] = a.Snapshot()
	}
	return ManagerSnapshot{Accounts: accts, LastUpdated: time.Now().UTC()}
}

// RestoreManager rebuilds a Manager from a snapshot. Accounts are
// registered oldest first, ties broken by id.
func RestoreManager(s ManagerSnapshot, opts ...Option) (*Manager, error) {
	m, err := NewManagerFromChart(nil, opts...)
	if err != nil {
		return nil, err
	}

	restored := make([]*Account, 0, len(s.Accounts))
	for key, as := range s.Accounts {
		if as.ID == "" {
			as.ID = key
		}
		if as.ID != key {
			return nil, fmt.Errorf("account snapshot keyed %q has id %q", key, as.ID)
		}
		acct, err := AccountFromSnapshot(as)
		if err != nil {
			return nil, err
		}
		restored = append(restored, acct)
	}

	sort.Slice(restored, func(i, j int) bool {
		if !restored[i].CreatedAt.Equal(restored[j].CreatedAt) {
			return restored[i].CreatedAt.Before(restored[j].CreatedAt)
		}
		return restored[i].ID < restored[j].ID
	})
	for _, acct := range restored {
		if err := m.Add(acct); err != nil {
			return nil, err
		}
	}
	return m, nil
}
