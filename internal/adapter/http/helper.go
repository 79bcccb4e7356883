package http

import (
	"errors"
	"net/http"

	accDomain "credit-backoffice/internal/domain/account"
	finDomain "credit-backoffice/internal/domain/financing"
	invDomain "credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/uow"

	"github.com/labstack/echo/v4"
)

// writeDomainError maps usecase errors onto the HTTP surface:
// 404 unknown entity, 409 lost optimistic-lock race, 422 precondition
// failed, 500 everything else.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, invDomain.ErrNotFound),
		errors.Is(err, finDomain.ErrNotFound),
		errors.Is(err, finDomain.ErrInstallmentNotFound),
		errors.Is(err, accDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, uow.ErrConcurrentModification):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "concurrent modification, retry the request"})

	case errors.Is(err, invDomain.ErrNotActive),
		errors.Is(err, finDomain.ErrNotActive),
		errors.Is(err, finDomain.ErrAlreadyPaid),
		errors.Is(err, finDomain.ErrNoPenaltyToWaive),
		errors.Is(err, finDomain.ErrNothingToLiquidate),
		isPreconditionError(err):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func isPreconditionError(err error) bool {
	var (
		creditViolation      *invDomain.CreditViolationError
		insufficientCredit   *invDomain.InsufficientCreditError
		activeFinancings     *invDomain.ActiveFinancingsExistError
		insufficientCollater *finDomain.InsufficientCollateralError
	)
	return errors.As(err, &creditViolation) ||
		errors.As(err, &insufficientCredit) ||
		errors.As(err, &activeFinancings) ||
		errors.As(err, &insufficientCollater)
}
