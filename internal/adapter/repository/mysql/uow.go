package mysql

import (
	"context"

	finDomain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Investments:  &InvestmentRepository{db: tx},
		Financings:   &FinancingRepository{db: tx},
		Installments: &InstallmentRepository{db: tx},
		Accounts:     &AccountRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinFinancingTx(ctx context.Context, financingID string, fn func(r uow.Repos, f *finDomain.Financing) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the financing row up-front to prevent races
		f, err := r.Financings.GetByFinancingIDForUpdate(ctx, financingID)
		if err != nil {
			return err
		}
		return fn(r, f)
	})
}
