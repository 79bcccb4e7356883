package installment

import (
	"time"

	"credit-backoffice/internal/domain/financing"

	"github.com/shopspring/decimal"
)

// Per-installment state machine:
//
//	PENDING → {PAID, OVERDUE, DROPPED}
//	OVERDUE → {PAID, DROPPED, PENDING (due-date extension only)}
//
// PAID and DROPPED are terminal. Transitions mutate the entity in
// place; persistence and financing-level bookkeeping belong to the
// lifecycle engine.

// Pay settles the installment. Requires PENDING or OVERDUE.
func Pay(ins *financing.Installment, now time.Time) error {
	if ins.Settled() {
		return financing.ErrAlreadyPaid
	}
	ins.Status = financing.InstallmentPaid
	paidAt := now.UTC()
	ins.PaidAt = &paidAt
	return nil
}

// WaivePenalty zeroes the penalty and recomputes total_due. Returns the
// waived amount so the caller can reduce the financing's remaining.
// Does not change status.
func WaivePenalty(ins *financing.Installment) (decimal.Decimal, error) {
	if !ins.PenaltyAmount.IsPositive() {
		return decimal.Zero, financing.ErrNoPenaltyToWaive
	}
	waived := ins.PenaltyAmount
	ins.PenaltyAmount = decimal.Zero
	ins.TotalDue = ins.Amount
	return waived, nil
}

// ExtendDueDate moves the due date and forces the status back to
// PENDING, clearing OVERDUE. Settled installments cannot be extended.
func ExtendDueDate(ins *financing.Installment, newDate time.Time) error {
	if ins.Settled() {
		return financing.ErrAlreadyPaid
	}
	ins.DueDate = newDate.UTC()
	ins.Status = financing.InstallmentPending
	return nil
}
