package financing

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f *Financing) error
	GetByFinancingID(ctx context.Context, financingID string) (*Financing, error)
	GetByFinancingIDForUpdate(ctx context.Context, financingID string) (*Financing, error)
	// GetByIDForUpdate locks by numeric PK (used when following the
	// installment → financing FK inside a tx).
	GetByIDForUpdate(ctx context.Context, id uint64) (*Financing, error)
	// CountActiveByInvestmentID counts ACTIVE financings drawing
	// against the given investment (numeric PK).
	CountActiveByInvestmentID(ctx context.Context, investmentID uint64) (int64, error)
	// Save persists with an optimistic version check.
	Save(ctx context.Context, f *Financing) error
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, items []*Installment) error
	GetByInstallmentID(ctx context.Context, installmentID string) (*Installment, error)
	GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*Installment, error)
	// ListByFinancingID returns all installments ordered by number.
	ListByFinancingID(ctx context.Context, financingID uint64) ([]*Installment, error)
	// ListOutstandingByFinancingID returns installments not yet PAID or
	// DROPPED, ordered by number.
	ListOutstandingByFinancingID(ctx context.Context, financingID uint64) ([]*Installment, error)
	// MarkOverdue flips PENDING installments whose due date has passed
	// to OVERDUE. Called by the external rollover job, not the engine.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	Save(ctx context.Context, i *Installment) error
}
