package uow

import (
	"context"
	"errors"

	"credit-backoffice/internal/domain/account"
	"credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"
)

// ErrConcurrentModification: an optimistic version check failed; the
// whole unit rolled back and the caller may retry.
var ErrConcurrentModification = errors.New("concurrent modification, retry")

type Repos struct {
	Investments  investment.Repository
	Financings   financing.Repository
	Installments financing.InstallmentRepository
	Accounts     account.Repository
	Transactions account.TransactionRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the financing row first, then pass it in
	WithinFinancingTx(ctx context.Context, financingID string, fn func(r Repos, f *financing.Financing) error) error
}
