package mysql

import (
	"context"

	finDomain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FinancingRepository struct{ db *gorm.DB }

func NewFinancingRepository(db *gorm.DB) *FinancingRepository { return &FinancingRepository{db: db} }

func (r *FinancingRepository) Create(ctx context.Context, f *finDomain.Financing) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FinancingRepository) GetByFinancingID(ctx context.Context, financingID string) (*finDomain.Financing, error) {
	var out finDomain.Financing
	res := r.db.WithContext(ctx).Where("financing_id = ?", financingID).First(&out)
	return &out, notFound(res.Error, finDomain.ErrNotFound)
}

func (r *FinancingRepository) GetByFinancingIDForUpdate(ctx context.Context, financingID string) (*finDomain.Financing, error) {
	var out finDomain.Financing
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("financing_id = ?", financingID).
		First(&out)
	return &out, notFound(res.Error, finDomain.ErrNotFound)
}

func (r *FinancingRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*finDomain.Financing, error) {
	var out finDomain.Financing
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, notFound(res.Error, finDomain.ErrNotFound)
}

func (r *FinancingRepository) CountActiveByInvestmentID(ctx context.Context, investmentID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&finDomain.Financing{}).
		Where("investment_id = ? AND status = ?", investmentID, finDomain.StatusActive).
		Count(&n).Error
	return n, err
}

func (r *FinancingRepository) Save(ctx context.Context, f *finDomain.Financing) error {
	prev := f.Version
	f.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&finDomain.Financing{}).
		Where("id = ? AND version = ?", f.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(f)
	if res.Error != nil {
		f.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		f.Version = prev
		return uow.ErrConcurrentModification
	}
	return nil
}
