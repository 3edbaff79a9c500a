package service

import (
	"bank-ledger-api/model"
	"context"

	"github.com/shopspring/decimal"
)

// BalanceService exposes read-only views over the owner's accounts.
type BalanceService struct {
	accounts *AccountService
}

func NewBalanceService(accounts *AccountService) *BalanceService {
	return &BalanceService{accounts: accounts}
}

func (s *BalanceService) GetBalance(ctx context.Context, accountID int64, ownerID string) (decimal.Decimal, error) {
	account, err := s.accounts.GetAccount(ctx, accountID, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.CurrentBalance, nil
}

func (s *BalanceService) GetSummary(ctx context.Context, ownerID string) ([]model.AccountSummary, error) {
	accounts, err := s.accounts.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := make([]model.AccountSummary, 0, len(accounts))
	for _, acc := range accounts {
		summary = append(summary, model.AccountSummary{
			DisplayName:    acc.DisplayName,
			CurrentBalance: acc.CurrentBalance,
		})
	}
	return summary, nil
}
