package investment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("investment not found")
	ErrNotActive = errors.New("investment is not active")
)

// CreditViolationError: a value adjustment would push the derived
// credit limit below what is already drawn.
type CreditViolationError struct {
	NewCreditLimit decimal.Decimal
	CreditUsed     decimal.Decimal
}

func (e *CreditViolationError) Error() string {
	return fmt.Sprintf("credit violation: new credit limit %s is below credit used %s",
		e.NewCreditLimit, e.CreditUsed)
}

// InsufficientCreditError: a draw would exceed the credit limit.
type InsufficientCreditError struct {
	CreditLimit decimal.Decimal
	CreditUsed  decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("insufficient credit: limit %s, used %s, requested %s (available %s)",
		e.CreditLimit, e.CreditUsed, e.Requested, e.CreditLimit.Sub(e.CreditUsed))
}

// ActiveFinancingsExistError: voluntary liquidation attempted while
// financings still draw against the collateral.
type ActiveFinancingsExistError struct {
	Count int64
}

func (e *ActiveFinancingsExistError) Error() string {
	return fmt.Sprintf("investment has %d active financing(s) attached", e.Count)
}
