package financing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"credit-backoffice/internal/domain/audit"
	domain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/rates"
	"credit-backoffice/internal/domain/uow"
	"credit-backoffice/internal/usecase/credit"
	"credit-backoffice/pkg/id"
	"credit-backoffice/pkg/money"

	"github.com/shopspring/decimal"
)

// Usecase orchestrates the multi-entity transitions of the financing
// lifecycle. Every mutation runs as one unit of work with the target
// rows locked; reads run outside transactions.
type Usecase struct {
	investments  investment.Repository
	financings   domain.Repository
	installments domain.InstallmentRepository
	uow          uow.UnitOfWork
	rates        rates.Provider
	audit        audit.Emitter
}

func NewUsecase(
	investments investment.Repository,
	financings domain.Repository,
	installments domain.InstallmentRepository,
	tx uow.UnitOfWork,
	rp rates.Provider,
	em audit.Emitter,
) *Usecase {
	return &Usecase{
		investments:  investments,
		financings:   financings,
		installments: installments,
		uow:          tx,
		rates:        rp,
		audit:        em,
	}
}

// CreateInvestment funds a new collateral account. The credit limit is
// derived from the configured financing percentage at creation time.
func (u *Usecase) CreateInvestment(ctx context.Context, in CreateInvestmentInput) (*InvestmentDTO, error) {
	if in.UserID == "" || !in.Principal.IsPositive() {
		return nil, errors.New("invalid input: user id and positive principal required")
	}
	pct, err := u.rates.Get(ctx, rates.KeyFinancingPercentage)
	if err != nil {
		return nil, err
	}

	value := money.Round(in.Principal)
	inv := &investment.Investment{
		InvestmentID: id.NewUUID(),
		UserID:       in.UserID,
		Principal:    value,
		CurrentValue: value,
		CreditLimit:  credit.ComputeLimit(value, pct),
		CreditUsed:   decimal.Zero,
		Status:       investment.StatusActive,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Investments.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	u.emit(ctx, "investment.create", "investment", inv.InvestmentID, in.Actor, nil, inv)
	return toInvestmentDTO(inv), nil
}

// AdjustInvestmentValue applies a collateral revaluation through the
// credit engine. Rejected with CreditViolation when the new limit would
// fall below what is already drawn.
func (u *Usecase) AdjustInvestmentValue(ctx context.Context, in AdjustValueInput) (*InvestmentDTO, error) {
	if !in.NewValue.IsPositive() {
		return nil, errors.New("invalid input: new value must be positive")
	}
	pct, err := u.rates.Get(ctx, rates.KeyFinancingPercentage)
	if err != nil {
		return nil, err
	}

	var (
		inv    *investment.Investment
		before json.RawMessage
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		inv, err = r.Investments.GetByInvestmentIDForUpdate(ctx, in.InvestmentID)
		if err != nil {
			return err
		}
		if inv.Status != investment.StatusActive {
			return investment.ErrNotActive
		}
		before = audit.Snapshot(inv)
		if err := credit.AdjustValue(inv, in.NewValue, pct); err != nil {
			return err
		}
		return r.Investments.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	u.emitRaw(ctx, "investment.adjust_value", "investment", inv.InvestmentID, in.Actor, before, audit.Snapshot(inv))
	return toInvestmentDTO(inv), nil
}

// CreateFinancing draws a new loan against an investment's credit
// limit and generates its PENDING installment schedule.
func (u *Usecase) CreateFinancing(ctx context.Context, in CreateFinancingInput) (*FinancingDTO, error) {
	if !in.Amount.IsPositive() || in.InstallmentCount < 1 || in.FirstDueDate.IsZero() {
		return nil, errors.New("invalid input: positive amount, installment count >= 1 and first due date required")
	}

	amount := money.Round(in.Amount)
	var (
		fin      *domain.Financing
		schedule []*domain.Installment
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := r.Investments.GetByInvestmentIDForUpdate(ctx, in.InvestmentID)
		if err != nil {
			return err
		}
		if inv.Status != investment.StatusActive {
			return investment.ErrNotActive
		}
		if err := credit.Reserve(inv, amount); err != nil {
			return err
		}

		first := in.FirstDueDate.UTC()
		per := money.Round(amount.Div(decimal.NewFromInt(int64(in.InstallmentCount))))
		fin = &domain.Financing{
			FinancingID:       id.NewUUID(),
			UserID:            inv.UserID,
			InvestmentID:      inv.ID,
			Amount:            amount,
			InstallmentCount:  in.InstallmentCount,
			InstallmentAmount: per,
			Remaining:         amount,
			PenaltyAmount:     decimal.Zero,
			NextDueDate:       &first,
			Status:            domain.StatusActive,
		}
		if err := r.Financings.Create(ctx, fin); err != nil {
			return err
		}

		schedule = buildSchedule(fin, amount, per, in.InstallmentCount, first)
		if err := r.Installments.CreateBatch(ctx, schedule); err != nil {
			return err
		}
		return r.Investments.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	u.emit(ctx, "financing.create", "financing", fin.FinancingID, in.Actor, nil, fin)
	return toFinancingDTO(fin, schedule), nil
}

// buildSchedule amortizes amount over count equal installments, rounded
// half-up at 2dp; the last installment absorbs the remainder so the
// schedule sums exactly to amount. Cadence is monthly from first.
func buildSchedule(fin *domain.Financing, amount, per decimal.Decimal, count int, first time.Time) []*domain.Installment {
	out := make([]*domain.Installment, 0, count)
	for i := 0; i < count; i++ {
		ins := per
		if i == count-1 {
			ins = amount.Sub(per.Mul(decimal.NewFromInt(int64(count - 1))))
		}
		out = append(out, &domain.Installment{
			InstallmentID: id.NewUUID(),
			FinancingID:   fin.ID,
			Number:        i + 1,
			Amount:        ins,
			PenaltyAmount: decimal.Zero,
			TotalDue:      ins,
			DueDate:       first.AddDate(0, i, 0),
			Status:        domain.InstallmentPending,
		})
	}
	return out
}

// GetFinancing returns the financing with its full schedule. Read-only;
// runs outside any transaction.
func (u *Usecase) GetFinancing(ctx context.Context, financingID string) (*FinancingDTO, error) {
	fin, err := u.financings.GetByFinancingID(ctx, financingID)
	if err != nil {
		return nil, err
	}
	installments, err := u.installments.ListByFinancingID(ctx, fin.ID)
	if err != nil {
		return nil, err
	}
	return toFinancingDTO(fin, installments), nil
}

// GetInvestment returns the collateral account snapshot.
func (u *Usecase) GetInvestment(ctx context.Context, investmentID string) (*InvestmentDTO, error) {
	inv, err := u.investments.GetByInvestmentID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	return toInvestmentDTO(inv), nil
}

// earliestOutstanding returns the minimum due date among unsettled
// installments, or nil when none remain.
func earliestOutstanding(list []*domain.Installment) *time.Time {
	var min *time.Time
	for _, ins := range list {
		d := ins.DueDate
		if min == nil || d.Before(*min) {
			min = &d
		}
	}
	return min
}

func metadataJSON(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (u *Usecase) emit(ctx context.Context, op, kind, entityID string, act Actor, before, after any) {
	u.emitRaw(ctx, op, kind, entityID, act, audit.Snapshot(before), audit.Snapshot(after))
}

func (u *Usecase) emitRaw(ctx context.Context, op, kind, entityID string, act Actor, before, after json.RawMessage) {
	u.audit.Emit(ctx, audit.Record{
		Operation:    op,
		EntityKind:   kind,
		EntityID:     entityID,
		OperatorID:   act.OperatorID,
		OperatorName: act.OperatorName,
		Reason:       act.Reason,
		Before:       before,
		After:        after,
		At:           time.Now().UTC(),
	})
}
