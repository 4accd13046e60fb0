// Package report derives read-only views from the state of an
// accounts.Manager. Nothing here mutates balances.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/model"
)

// TrialBalanceRow is one account in its natural column. The other column
// is zero.
type TrialBalanceRow struct {
	AccountID string            `json:"accountId"`
	Account   string            `json:"account"`
	Type      model.AccountType `json:"type"`
	Debit     decimal.Decimal   `json:"debit"`
	Credit    decimal.Decimal   `json:"credit"`
}

// TrialBalance lists every account balance and the column totals.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// GenerateTrialBalance places each balance in the debit column for
// debit-normal types and in the credit column otherwise.
func GenerateTrialBalance(m *accounts.Manager) TrialBalance {
	tb := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range m.All() {
		row := TrialBalanceRow{
			AccountID: a.ID,
			Account:   a.Name,
			Type:      a.Type,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}
		if a.Type.NormalSide() == model.Debit {
			row.Debit = a.Balance()
			tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		} else {
			row.Credit = a.Balance()
			tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		}
		tb.Rows = append(tb.Rows, row)
	}
	tb.Balanced = model.Balanced(tb.TotalDebit, tb.TotalCredit, m.Tolerance())
	return tb
}

// Line is one account on the balance sheet.
type Line struct {
	AccountID string          `json:"accountId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// Section groups the accounts of one type.
type Section struct {
	Type     model.AccountType `json:"type"`
	Accounts []Line            `json:"accounts"`
	Total    decimal.Decimal   `json:"total"`
}

// BalanceSheet is the grouped display form of the accounts.
type BalanceSheet struct {
	Sections   []Section       `json:"sections"`
	NetIncome  decimal.Decimal `json:"netIncome"`
	IsBalanced bool            `json:"isBalanced"`
	Difference decimal.Decimal `json:"difference"`
}

// Section returns the section for t.
func (b BalanceSheet) Section(t model.AccountType) (Section, bool) {
	for _, s := range b.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// GenerateBalanceSheet groups accounts by type in model.AccountTypes
// order. Every type gets a section, empty or not.
func GenerateBalanceSheet(m *accounts.Manager) BalanceSheet {
	check := m.ValidateBalanceSheet()
	sheet := BalanceSheet{
		NetIncome:  m.NetIncome(),
		IsBalanced: check.IsBalanced,
		Difference: check.Difference,
	}
	for _, t := range model.AccountTypes {
		s := Section{Type: t, Total: m.Total(t)}
		for _, a := range m.ByType(t) {
			s.Accounts = append(s.Accounts, Line{AccountID: a.ID, Name: a.Name, Balance: a.Balance()})
		}
		sheet.Sections = append(sheet.Sections, s)
	}
	return sheet
}

// KPIs are the headline figures shown to the player.
type KPIs struct {
	Profit    decimal.Decimal `json:"profit"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

// ComputeKPIs returns profit (net income) and liquidity (assets minus
// liabilities).
func ComputeKPIs(m *accounts.Manager) KPIs {
	return KPIs{
		Profit:    m.NetIncome(),
		Liquidity: m.TotalAssets().Sub(m.TotalLiabilities()),
	}
}
