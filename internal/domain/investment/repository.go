package investment

import "context"

type Repository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByInvestmentID(ctx context.Context, investmentID string) (*Investment, error)
	// GetByInvestmentIDForUpdate locks the row for the current tx.
	GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*Investment, error)
	// GetByIDForUpdate locks by numeric PK (used when following the
	// financing → investment FK inside a tx).
	GetByIDForUpdate(ctx context.Context, id uint64) (*Investment, error)
	// Save persists with an optimistic version check; a stale version
	// surfaces uow.ErrConcurrentModification.
	Save(ctx context.Context, inv *Investment) error
}
