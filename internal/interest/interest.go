// Package interest accrues daily interest on registered deposit accounts
// and posts it through the journal.
package interest

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vaultbook/vaultbook/internal/accounts"
	"github.com/vaultbook/vaultbook/internal/journal"
	"github.com/vaultbook/vaultbook/internal/model"
)

// DaysPerYear converts an annual rate to a daily one.
const DaysPerYear = 365

// Registration pairs an account with its annual interest rate.
type Registration struct {
	AccountID string
	Rate      decimal.Decimal
}

// Service accrues interest for its registered accounts.
type Service struct {
	ledger     *journal.Ledger
	registered []Registration
	logger     *zap.Logger
}

// NewService returns a Service posting through l. A nil logger discards
// output.
func NewService(l *journal.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: l, logger: logger}
}

// Register sets the annual rate for accountID. Registering an account
// again replaces its rate.
func (s *Service) Register(accountID string, rate decimal.Decimal) error {
	if accountID == "" {
		return &model.Error{Kind: model.ErrInvalidEntry, Detail: "interest account id is required"}
	}
	if rate.IsNegative() {
		return &model.Error{
			Kind:       model.ErrInvalidAmount,
			AccountIDs: []string{accountID},
			Amounts:    []decimal.Decimal{rate},
			Detail:     fmt.Sprintf("interest rate must not be negative, got %s", rate),
		}
	}
	for i, r := range s.registered {
		if r.AccountID == accountID {
			s.registered[i].Rate = rate
			return nil
		}
	}
	s.registered = append(s.registered, Registration{AccountID: accountID, Rate: rate})
	return nil
}

// Registered returns the registrations in the order they were added.
func (s *Service) Registered() []Registration {
	return append([]Registration(nil), s.registered...)
}

// DailyInterest is balance * rate / 365, rounded to cents.
func DailyInterest(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate).Div(decimal.NewFromInt(DaysPerYear)).Round(2)
}

// AccrueDaily posts one day of interest for every registered account:
// credit the account, debit interest expense. Accounts that no longer
// exist or whose interest is not positive are skipped. Accrual stops at
// the first entry the ledger rejects; entries posted before it stand.
func (s *Service) AccrueDaily() ([]journal.Entry, error) {
	m := s.ledger.Accounts()
	var posted []journal.Entry
	for _, r := range s.registered {
		acct, ok := m.Get(r.AccountID)
		if !ok {
			s.logger.Debug("interest account missing", zap.String("account_id", r.AccountID))
			continue
		}
		amount := DailyInterest(acct.Balance(), r.Rate)
		if !amount.IsPositive() {
			continue
		}
		e, err := s.ledger.Post(journal.EntryParams{
			Description: "Interest accrual for " + r.AccountID,
			Postings: []journal.PostingInput{
				{AccountID: r.AccountID, Amount: amount, Type: model.Credit},
				{AccountID: accounts.InterestExpenseID, Amount: amount, Type: model.Debit},
			},
		})
		if err != nil {
			return posted, fmt.Errorf("accruing interest for %s: %w", r.AccountID, err)
		}
		s.logger.Info("interest accrued",
			zap.String("account_id", r.AccountID),
			zap.String("amount", amount.StringFixed(2)),
		)
		posted = append(posted, e)
	}
	return posted, nil
}
