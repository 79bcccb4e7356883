package http

import (
	"net/http"

	"credit-backoffice/internal/usecase/financing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type InvestmentHandler struct{ uc *financing.Usecase }

func NewInvestmentHandler(uc *financing.Usecase) *InvestmentHandler {
	return &InvestmentHandler{uc: uc}
}

type createInvestmentReq struct {
	UserID    string          `json:"user_id"   validate:"required,uuid4"`
	Principal decimal.Decimal `json:"principal" validate:"required,dec2,dpos"`
	actorReq
}

func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	var req createInvestmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.CreateInvestment(c.Request().Context(), financing.CreateInvestmentInput{
		UserID:    req.UserID,
		Principal: req.Principal,
		Actor:     req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InvestmentHandler) GetInvestment(c echo.Context) error {
	investmentID := c.Param("investment_id")
	if !validID(investmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid investment_id path param"})
	}
	dto, err := h.uc.GetInvestment(c.Request().Context(), investmentID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type adjustValueReq struct {
	NewValue decimal.Decimal `json:"new_value" validate:"required,dec2,dpos"`
	actorReq
}

func (h *InvestmentHandler) AdjustValue(c echo.Context) error {
	investmentID := c.Param("investment_id")
	if !validID(investmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid investment_id path param"})
	}
	var req adjustValueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.AdjustInvestmentValue(c.Request().Context(), financing.AdjustValueInput{
		InvestmentID: investmentID,
		NewValue:     req.NewValue,
		Actor:        req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type liquidateInvestmentReq struct {
	actorReq
}

func (h *InvestmentHandler) Liquidate(c echo.Context) error {
	investmentID := c.Param("investment_id")
	if !validID(investmentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid investment_id path param"})
	}
	var req liquidateInvestmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.ForceLiquidateInvestment(c.Request().Context(), financing.LiquidateInvestmentInput{
		InvestmentID: investmentID,
		Actor:        req.toActor(),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
