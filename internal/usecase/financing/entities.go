package financing

import (
	"time"

	domain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"

	"github.com/shopspring/decimal"
)

// Actor identifies the operator behind a mutating call. Reason is
// required (enforced at the HTTP boundary) and persisted into the
// audit record.
type Actor struct {
	OperatorID   string
	OperatorName string
	Reason       string
}

type CreateInvestmentInput struct {
	UserID    string
	Principal decimal.Decimal
	Actor     Actor
}

type AdjustValueInput struct {
	InvestmentID string
	NewValue     decimal.Decimal
	Actor        Actor
}

type CreateFinancingInput struct {
	InvestmentID     string
	Amount           decimal.Decimal
	InstallmentCount int
	FirstDueDate     time.Time
	Actor            Actor
}

type PayInstallmentInput struct {
	InstallmentID string
	Actor         Actor
}

type WaivePenaltyInput struct {
	InstallmentID string
	Actor         Actor
}

type ExtendDueDateInput struct {
	InstallmentID string
	NewDueDate    time.Time
	Actor         Actor
}

type LiquidateFinancingInput struct {
	FinancingID string
	Actor       Actor
}

type LiquidateInvestmentInput struct {
	InvestmentID string
	Actor        Actor
}

type InvestmentDTO struct {
	InvestmentID string          `json:"investment_id"`
	UserID       string          `json:"user_id"`
	Principal    decimal.Decimal `json:"principal"`
	CurrentValue decimal.Decimal `json:"current_value"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CreditUsed   decimal.Decimal `json:"credit_used"`
	Status       string          `json:"status"`
	LiquidatedAt *time.Time      `json:"liquidated_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type InstallmentDTO struct {
	InstallmentID string          `json:"installment_id"`
	Number        int             `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	TotalDue      decimal.Decimal `json:"total_due"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type FinancingDTO struct {
	FinancingID       string           `json:"financing_id"`
	UserID            string           `json:"user_id"`
	Amount            decimal.Decimal  `json:"amount"`
	InstallmentCount  int              `json:"installment_count"`
	InstallmentAmount decimal.Decimal  `json:"installment_amount"`
	Remaining         decimal.Decimal  `json:"remaining"`
	PenaltyAmount     decimal.Decimal  `json:"penalty_amount"`
	NextDueDate       *time.Time       `json:"next_due_date,omitempty"`
	Status            string           `json:"status"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	Installments      []InstallmentDTO `json:"installments,omitempty"`
}

// PaymentResult carries the updated snapshots of a manual payment.
type PaymentResult struct {
	Installment InstallmentDTO `json:"installment"`
	Financing   FinancingDTO   `json:"financing"`
}

// LiquidationSummary is returned by forced liquidation.
type LiquidationSummary struct {
	DebtPaid       decimal.Decimal `json:"debtPaid"`
	PenaltyCharged decimal.Decimal `json:"penaltyCharged"`
	TotalDeducted  decimal.Decimal `json:"totalDeducted"`
	ReturnedToUser decimal.Decimal `json:"returnedToUser"`
}

func toInvestmentDTO(inv *investment.Investment) *InvestmentDTO {
	return &InvestmentDTO{
		InvestmentID: inv.InvestmentID,
		UserID:       inv.UserID,
		Principal:    inv.Principal,
		CurrentValue: inv.CurrentValue,
		CreditLimit:  inv.CreditLimit,
		CreditUsed:   inv.CreditUsed,
		Status:       string(inv.Status),
		LiquidatedAt: inv.LiquidatedAt,
		CreatedAt:    inv.CreatedAt,
	}
}

func toInstallmentDTO(ins *domain.Installment) InstallmentDTO {
	return InstallmentDTO{
		InstallmentID: ins.InstallmentID,
		Number:        ins.Number,
		Amount:        ins.Amount,
		PenaltyAmount: ins.PenaltyAmount,
		TotalDue:      ins.TotalDue,
		DueDate:       ins.DueDate,
		Status:        string(ins.Status),
		PaidAt:        ins.PaidAt,
	}
}

func toFinancingDTO(f *domain.Financing, installments []*domain.Installment) *FinancingDTO {
	dto := &FinancingDTO{
		FinancingID:       f.FinancingID,
		UserID:            f.UserID,
		Amount:            f.Amount,
		InstallmentCount:  f.InstallmentCount,
		InstallmentAmount: f.InstallmentAmount,
		Remaining:         f.Remaining,
		PenaltyAmount:     f.PenaltyAmount,
		NextDueDate:       f.NextDueDate,
		Status:            string(f.Status),
		CompletedAt:       f.CompletedAt,
		CreatedAt:         f.CreatedAt,
	}
	for _, ins := range installments {
		dto.Installments = append(dto.Installments, toInstallmentDTO(ins))
	}
	return dto
}
