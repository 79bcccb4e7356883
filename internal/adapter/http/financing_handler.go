package http

import (
	"net/http"
	"time"

	"credit-backoffice/internal/usecase/financing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type FinancingHandler struct{ uc *financing.Usecase }

func NewFinancingHandler(uc *financing.Usecase) *FinancingHandler {
	return &FinancingHandler{uc: uc}
}

type createFinancingReq struct {
	InvestmentID     string          `json:"investment_id"     validate:"required,uuid4"`
	Amount           decimal.Decimal `json:"amount"            validate:"required,dec2,dpos"`
	InstallmentCount int             `json:"installment_count" validate:"required,gte=1,lte=120"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	FirstDueDate string `json:"first_due_date"    validate:"required,datetime=2006-01-02"`
	actorReq
}

func (h *FinancingHandler) CreateFinancing(c echo.Context) error {
	var req createFinancingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	firstDue, _ := time.Parse("2006-01-02", req.FirstDueDate)
	dto, err := h.uc.CreateFinancing(c.Request().Context(), financing.CreateFinancingInput{
		InvestmentID:     req.InvestmentID,
		Amount:           req.Amount,
		InstallmentCount: req.InstallmentCount,
		FirstDueDate:     firstDue,
		Actor:            req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FinancingHandler) GetFinancing(c echo.Context) error {
	financingID := c.Param("financing_id")
	if !validID(financingID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid financing_id path param"})
	}
	dto, err := h.uc.GetFinancing(c.Request().Context(), financingID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type liquidateFinancingReq struct {
	actorReq
}

func (h *FinancingHandler) Liquidate(c echo.Context) error {
	financingID := c.Param("financing_id")
	if !validID(financingID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid financing_id path param"})
	}
	var req liquidateFinancingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	summary, err := h.uc.ForceLiquidate(c.Request().Context(), financing.LiquidateFinancingInput{
		FinancingID: financingID,
		Actor:       req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
