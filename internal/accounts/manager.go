package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/id"
	"github.com/vaultbook/vaultbook/internal/model"
)

// BalanceSheet is the result of checking Assets - Liabilities = Equity + Net Income.
type BalanceSheet struct {
	IsBalanced       bool
	Assets           decimal.Decimal
	Liabilities      decimal.Decimal
	Equity           decimal.Decimal
	NetIncome        decimal.Decimal
	CalculatedEquity decimal.Decimal // assets - liabilities
	ActualEquity     decimal.Decimal // equity + net income
	Difference       decimal.Decimal // calculated - actual
}

// Validator computes the balance-sheet check for a Manager.
type Validator func(m *Manager) BalanceSheet

// Manager owns the set of accounts. Every other component reaches accounts
// through it.
type Manager struct {
	accounts  map[string]*Account
	order     []string
	tolerance decimal.Decimal
	validator Validator
}

// Option configures a Manager.
type Option func(*Manager)

// WithTolerance sets the tolerance used by the balance-sheet check.
func WithTolerance(tol decimal.Decimal) Option {
	return func(m *Manager) { m.tolerance = tol }
}

// WithValidator replaces the balance-sheet check run after Apply.
func WithValidator(v Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// NewManager returns a Manager seeded with DefaultChart.
func NewManager(opts ...Option) *Manager {
	m, err := NewManagerFromChart(DefaultChart(), opts...)
	if err != nil {
		panic(fmt.Sprintf("accounts: default chart: %v", err))
	}
	return m
}

// NewManagerFromChart returns a Manager seeded with chart. A nil chart
// yields an empty Manager.
func NewManagerFromChart(chart []ChartAccount, opts ...Option) (*Manager, error) {
	m := &Manager{
		accounts:  make(map[string]*Account, len(chart)),
		tolerance: model.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, row := range chart {
		acct, err := NewAccount(row.ID, row.Name, row.Type, row.OpeningBalance)
		if err != nil {
			return nil, fmt.Errorf("seeding chart: %w", err)
		}
		acct.Description = row.Description
		if err := m.Add(acct); err != nil {
			return nil, fmt.Errorf("seeding chart: %w", err)
		}
	}
	return m, nil
}

// Tolerance returns the balance tolerance in effect.
func (m *Manager) Tolerance() decimal.Decimal {
	return m.tolerance
}

// Add registers an existing account. The id must be unused.
func (m *Manager) Add(acct *Account) error {
	if _, ok := m.accounts[acct.ID]; ok {
		return fmt.Errorf("account %s already exists", acct.ID)
	}
	m.accounts[acct.ID] = acct
	m.order = append(m.order, acct.ID)
	return nil
}

// CreateAccount creates an account with an id derived from name. A name
// already in use gets a numeric suffix: "Petty Cash" -> petty_cash_1.
func (m *Manager) CreateAccount(name string, typ model.AccountType, opening decimal.Decimal) (*Account, error) {
	if !typ.Valid() {
		return nil, &model.Error{Kind: model.ErrInvalidAccountType, Detail: fmt.Sprintf("unknown account type %q", typ)}
	}
	base := id.Slug(name)
	if base == "" {
		return nil, &model.Error{Kind: model.ErrInvalidEntry, Detail: fmt.Sprintf("account name %q yields an empty id", name)}
	}
	acct, err := NewAccount(id.Unique(base, m.Exists), name, typ, opening)
	if err != nil {
		return nil, err
	}
	if err := m.Add(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Get returns an account by id.
func (m *Manager) Get(accountID string) (*Account, bool) {
	a, ok := m.accounts[accountID]
	return a, ok
}

// Exists reports whether an account id exists.
func (m *Manager) Exists(accountID string) bool {
	_, ok := m.accounts[accountID]
	return ok
}

// All returns all accounts in creation order.
func (m *Manager) All() []*Account {
	result := make([]*Account, 0, len(m.order))
	for _, key := range m.order {
		result = append(result, m.accounts[key])
	}
	return result
}

// ByType returns all accounts of the given type in creation order.
func (m *Manager) ByType(accountType model.AccountType) []*Account {
	var result []*Account
	for _, key := range m.order {
		if a := m.accounts[key]; a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Balance returns the balance of accountID, or zero if it does not exist.
func (m *Manager) Balance(accountID string) decimal.Decimal {
	if a, ok := m.accounts[accountID]; ok {
		return a.Balance()
	}
	return decimal.Zero
}

// Total sums the balances of every account of the given type.
func (m *Manager) Total(accountType model.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range m.ByType(accountType) {
		total = total.Add(a.Balance())
	}
	return total
}

func (m *Manager) TotalAssets() decimal.Decimal      { return m.Total(model.AccountTypeAsset) }
func (m *Manager) TotalLiabilities() decimal.Decimal { return m.Total(model.AccountTypeLiability) }
func (m *Manager) TotalEquity() decimal.Decimal      { return m.Total(model.AccountTypeEquity) }
func (m *Manager) TotalRevenue() decimal.Decimal     { return m.Total(model.AccountTypeRevenue) }
func (m *Manager) TotalExpenses() decimal.Decimal    { return m.Total(model.AccountTypeExpense) }

// NetIncome is revenue minus expenses.
func (m *Manager) NetIncome() decimal.Decimal {
	return m.TotalRevenue().Sub(m.TotalExpenses())
}

// ValidateBalanceSheet checks Assets - Liabilities against Equity + Net Income.
func (m *Manager) ValidateBalanceSheet() BalanceSheet {
	if m.validator != nil {
		return m.validator(m)
	}
	return m.balanceSheet()
}

func (m *Manager) balanceSheet() BalanceSheet {
	assets := m.TotalAssets()
	liabilities := m.TotalLiabilities()
	equity := m.TotalEquity()
	netIncome := m.NetIncome()

	calculated := assets.Sub(liabilities)
	actual := equity.Add(netIncome)

	return BalanceSheet{
		IsBalanced:       model.Balanced(calculated, actual, m.tolerance),
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		NetIncome:        netIncome,
		CalculatedEquity: calculated,
		ActualEquity:     actual,
		Difference:       calculated.Sub(actual),
	}
}

// Apply posts every posting to its account as one unit. All account ids
// are resolved before any balance moves. If the balance sheet does not
// hold afterwards, every applied posting is inverted in reverse order and
// an ErrLedgerImbalance error is returned.
func (m *Manager) Apply(postings []model.Posting) error {
	resolved := make([]*Account, len(postings))
	var missing []string
	for i, p := range postings {
		a, ok := m.accounts[p.AccountID()]
		if !ok {
			missing = append(missing, p.AccountID())
			continue
		}
		resolved[i] = a
	}
	if len(missing) > 0 {
		return model.NotFound(missing...)
	}

	for i, p := range postings {
		if _, err := resolved[i].apply(p.Direction(), p.Amount()); err != nil {
			m.revert(postings[:i], resolved[:i])
			return err
		}
	}

	sheet := m.ValidateBalanceSheet()
	if !sheet.IsBalanced {
		m.revert(postings, resolved)
		ids := make([]string, len(postings))
		for i, p := range postings {
			ids[i] = p.AccountID()
		}
		return &model.Error{
			Kind:       model.ErrLedgerImbalance,
			AccountIDs: ids,
			Amounts:    []decimal.Decimal{sheet.Difference},
			Detail:     fmt.Sprintf("balance sheet off by %s after posting", sheet.Difference.String()),
		}
	}
	return nil
}

func (m *Manager) revert(postings []model.Posting, resolved []*Account) {
	for i := len(postings) - 1; i >= 0; i-- {
		inv := postings[i].Inverse()
		// Inverting a valid posting cannot fail: the amount is positive.
		_, _ = resolved[i].apply(inv.Direction(), inv.Amount())
	}
}
