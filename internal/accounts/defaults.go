package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/model"
)

// Well-known account ids the transaction factories post against.
const (
	CashID            = "cash"
	LoansPayableID    = "loans_payable"
	InterestIncomeID  = "interest_income"
	InterestExpenseID = "interest_expense"
)

// ChartAccount is one row of a chart of accounts: an account to seed a
// Manager with and its opening balance.
type ChartAccount struct {
	ID             string
	Name           string
	Type           model.AccountType
	OpeningBalance decimal.Decimal
	Description    string
}

// DefaultChart returns the bank's opening chart of accounts. Assets equal
// liabilities plus equity, so the balance sheet starts balanced.
func DefaultChart() []ChartAccount {
	return []ChartAccount{
		{ID: CashID, Name: "Cash", Type: model.AccountTypeAsset, OpeningBalance: decimal.NewFromInt(10000), Description: "Vault cash"},
		{ID: "checking", Name: "Checking Accounts", Type: model.AccountTypeAsset, OpeningBalance: decimal.NewFromInt(50000)},
		{ID: "savings", Name: "Savings Accounts", Type: model.AccountTypeAsset, OpeningBalance: decimal.NewFromInt(100000)},
		{ID: "loans_receivable", Name: "Loans Receivable", Type: model.AccountTypeAsset, OpeningBalance: decimal.NewFromInt(290000)},

		{ID: "checking_liability", Name: "Checking Deposits", Type: model.AccountTypeLiability, OpeningBalance: decimal.NewFromInt(50000), Description: "Customer checking balances owed"},
		{ID: "savings_liability", Name: "Savings Deposits", Type: model.AccountTypeLiability, OpeningBalance: decimal.NewFromInt(100000), Description: "Customer savings balances owed"},
		{ID: LoansPayableID, Name: "Loans Payable", Type: model.AccountTypeLiability, OpeningBalance: decimal.NewFromInt(150000)},

		{ID: "capital", Name: "Capital", Type: model.AccountTypeEquity, OpeningBalance: decimal.NewFromInt(100000)},
		{ID: "retained_earnings", Name: "Retained Earnings", Type: model.AccountTypeEquity, OpeningBalance: decimal.NewFromInt(50000)},

		{ID: InterestIncomeID, Name: "Interest Income", Type: model.AccountTypeRevenue},
		{ID: "fee_income", Name: "Fee Income", Type: model.AccountTypeRevenue},

		{ID: InterestExpenseID, Name: "Interest Expense", Type: model.AccountTypeExpense},
		{ID: "operating_expense", Name: "Operating Expenses", Type: model.AccountTypeExpense},
	}
}
