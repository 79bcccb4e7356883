package financing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("financing not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrNotActive           = errors.New("financing is not active")

	// ErrAlreadyPaid: the installment is already settled (PAID, or
	// DROPPED through liquidation) and cannot transition again.
	ErrAlreadyPaid = errors.New("installment already settled")

	ErrNoPenaltyToWaive = errors.New("installment has no penalty to waive")

	// ErrNothingToLiquidate: remaining is already zero; liquidating a
	// fully paid financing would mask a scheduling bug, so it fails.
	ErrNothingToLiquidate = errors.New("financing has no outstanding balance to liquidate")
)

// InsufficientCollateralError: collateral value cannot cover remaining
// debt plus penalty; liquidation is rejected with the shortfall.
type InsufficientCollateralError struct {
	CollateralValue decimal.Decimal
	TotalDue        decimal.Decimal
}

func (e *InsufficientCollateralError) Error() string {
	return fmt.Sprintf("insufficient collateral: value %s cannot cover total due %s (shortfall %s)",
		e.CollateralValue, e.TotalDue, e.TotalDue.Sub(e.CollateralValue))
}
