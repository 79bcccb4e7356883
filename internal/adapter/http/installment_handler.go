package http

import (
	"net/http"
	"time"

	"credit-backoffice/internal/usecase/financing"

	"github.com/labstack/echo/v4"
)

type InstallmentHandler struct{ uc *financing.Usecase }

func NewInstallmentHandler(uc *financing.Usecase) *InstallmentHandler {
	return &InstallmentHandler{uc: uc}
}

type payInstallmentReq struct {
	actorReq
}

func (h *InstallmentHandler) Pay(c echo.Context) error {
	installmentID := c.Param("installment_id")
	if !validID(installmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid installment_id path param"})
	}
	var req payInstallmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.PayInstallment(c.Request().Context(), financing.PayInstallmentInput{
		InstallmentID: installmentID,
		Actor:         req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type waivePenaltyReq struct {
	actorReq
}

func (h *InstallmentHandler) WaivePenalty(c echo.Context) error {
	installmentID := c.Param("installment_id")
	if !validID(installmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid installment_id path param"})
	}
	var req waivePenaltyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.WaiveInstallmentPenalty(c.Request().Context(), financing.WaivePenaltyInput{
		InstallmentID: installmentID,
		Actor:         req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type extendDueDateReq struct {
	NewDueDate string `json:"new_due_date" validate:"required,datetime=2006-01-02"`
	actorReq
}

func (h *InstallmentHandler) ExtendDueDate(c echo.Context) error {
	installmentID := c.Param("installment_id")
	if !validID(installmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid installment_id path param"})
	}
	var req extendDueDateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	newDue, _ := time.Parse("2006-01-02", req.NewDueDate)
	res, err := h.uc.ExtendInstallmentDueDate(c.Request().Context(), financing.ExtendDueDateInput{
		InstallmentID: installmentID,
		NewDueDate:    newDue,
		Actor:         req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
