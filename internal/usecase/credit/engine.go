package credit

import (
	"credit-backoffice/internal/domain/investment"
	"credit-backoffice/pkg/money"

	"github.com/shopspring/decimal"
)

// The credit engine keeps credit_limit/credit_used consistent with
// collateral value and outstanding draws. Functions mutate the entity
// in place; callers run them inside a unit of work with the investment
// row locked.

// ComputeLimit derives the credit limit from the collateral value and
// the configured financing percentage, rounded half-up at 2dp.
func ComputeLimit(currentValue, financingPct decimal.Decimal) decimal.Decimal {
	return money.Percent(currentValue, financingPct)
}

// AdjustValue recomputes the credit limit for a new collateral value.
// Fails when the new limit would leave existing draws over-limit; this
// is a hard precondition, never auto-corrected.
func AdjustValue(inv *investment.Investment, newValue, financingPct decimal.Decimal) error {
	newLimit := ComputeLimit(newValue, financingPct)
	if newLimit.LessThan(inv.CreditUsed) {
		return &investment.CreditViolationError{
			NewCreditLimit: newLimit,
			CreditUsed:     inv.CreditUsed,
		}
	}
	inv.CurrentValue = money.Round(newValue)
	inv.CreditLimit = newLimit
	return nil
}

// Reserve draws amount against the credit limit.
func Reserve(inv *investment.Investment, amount decimal.Decimal) error {
	used := inv.CreditUsed.Add(amount)
	if used.GreaterThan(inv.CreditLimit) {
		return &investment.InsufficientCreditError{
			CreditLimit: inv.CreditLimit,
			CreditUsed:  inv.CreditUsed,
			Requested:   amount,
		}
	}
	inv.CreditUsed = used
	return nil
}

// Release returns amount to the available credit, clamped at zero.
func Release(inv *investment.Investment, amount decimal.Decimal) {
	inv.CreditUsed = money.ClampZero(inv.CreditUsed.Sub(amount))
}
