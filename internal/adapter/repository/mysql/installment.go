package mysql

import (
	"context"
	"time"

	finDomain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, items []*finDomain.Installment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *InstallmentRepository) GetByInstallmentID(ctx context.Context, installmentID string) (*finDomain.Installment, error) {
	var out finDomain.Installment
	res := r.db.WithContext(ctx).Where("installment_id = ?", installmentID).First(&out)
	return &out, notFound(res.Error, finDomain.ErrInstallmentNotFound)
}

func (r *InstallmentRepository) GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*finDomain.Installment, error) {
	var out finDomain.Installment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("installment_id = ?", installmentID).
		First(&out)
	return &out, notFound(res.Error, finDomain.ErrInstallmentNotFound)
}

func (r *InstallmentRepository) ListByFinancingID(ctx context.Context, financingID uint64) ([]*finDomain.Installment, error) {
	var out []*finDomain.Installment
	err := r.db.WithContext(ctx).
		Where("financing_id = ?", financingID).
		Order("number ASC").
		Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) ListOutstandingByFinancingID(ctx context.Context, financingID uint64) ([]*finDomain.Installment, error) {
	var out []*finDomain.Installment
	err := r.db.WithContext(ctx).
		Where("financing_id = ? AND status NOT IN ?", financingID,
			[]finDomain.InstallmentStatus{finDomain.InstallmentPaid, finDomain.InstallmentDropped}).
		Order("number ASC").
		Find(&out).Error
	return out, err
}

// MarkOverdue is driven by the external rollover job.
func (r *InstallmentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&finDomain.Installment{}).
		Where("status = ? AND due_date < ?", finDomain.InstallmentPending, now).
		Update("status", finDomain.InstallmentOverdue)
	return res.RowsAffected, res.Error
}

func (r *InstallmentRepository) Save(ctx context.Context, i *finDomain.Installment) error {
	prev := i.Version
	i.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&finDomain.Installment{}).
		Where("id = ? AND version = ?", i.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(i)
	if res.Error != nil {
		i.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		i.Version = prev
		return uow.ErrConcurrentModification
	}
	return nil
}
