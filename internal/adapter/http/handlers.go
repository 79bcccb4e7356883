package http

import (
	"net/http"
	"time"

	"credit-backoffice/internal/usecase/financing"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "credit-backoffice",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// actorReq is shared by every mutating request: who did it and why.
type actorReq struct {
	OperatorID   string `json:"operator_id"   validate:"required,hex32"`
	OperatorName string `json:"operator_name" validate:"required"`
	Reason       string `json:"reason"        validate:"required"`
}

func (a actorReq) toActor() financing.Actor {
	return financing.Actor{
		OperatorID:   a.OperatorID,
		OperatorName: a.OperatorName,
		Reason:       a.Reason,
	}
}
