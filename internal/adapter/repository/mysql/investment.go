package mysql

import (
	"context"
	"errors"

	invDomain "credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository { return &InvestmentRepository{db: db} }

func (r *InvestmentRepository) Create(ctx context.Context, inv *invDomain.Investment) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvestmentRepository) GetByInvestmentID(ctx context.Context, investmentID string) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).First(&out)
	return &out, notFound(res.Error, invDomain.ErrNotFound)
}

func (r *InvestmentRepository) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("investment_id = ?", investmentID).
		First(&out)
	return &out, notFound(res.Error, invDomain.ErrNotFound)
}

func (r *InvestmentRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, notFound(res.Error, invDomain.ErrNotFound)
}

// Save writes all columns guarded by the optimistic version token. A
// stale version means another operator won the race; the caller's tx
// rolls back and surfaces ErrConcurrentModification.
func (r *InvestmentRepository) Save(ctx context.Context, inv *invDomain.Investment) error {
	prev := inv.Version
	inv.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&invDomain.Investment{}).
		Where("id = ? AND version = ?", inv.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(inv)
	if res.Error != nil {
		inv.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		inv.Version = prev
		return uow.ErrConcurrentModification
	}
	return nil
}

// notFound translates gorm's sentinel into the domain's.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
