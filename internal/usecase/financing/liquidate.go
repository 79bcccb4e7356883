package financing

import (
	"context"
	"encoding/json"
	"time"

	"credit-backoffice/internal/domain/account"
	"credit-backoffice/internal/domain/audit"
	domain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/rates"
	"credit-backoffice/internal/domain/uow"
	"credit-backoffice/pkg/id"
	"credit-backoffice/pkg/money"

	"github.com/shopspring/decimal"
)

// ForceLiquidate closes an active financing against its collateral:
// remaining debt plus penalty is deducted from the investment's value,
// every unsettled installment is DROPPED, and any surplus is credited
// back to the user. Terminal and irreversible.
func (u *Usecase) ForceLiquidate(ctx context.Context, in LiquidateFinancingInput) (*LiquidationSummary, error) {
	penaltyRate, err := u.rates.Get(ctx, rates.KeyPenaltyRate)
	if err != nil {
		return nil, err
	}

	var (
		summary   *LiquidationSummary
		finDone   *domain.Financing
		invDone   *investment.Investment
		beforeAll json.RawMessage
	)
	err = u.uow.WithinFinancingTx(ctx, in.FinancingID, func(r uow.Repos, fin *domain.Financing) error {
		if fin.Status != domain.StatusActive {
			return domain.ErrNotActive
		}
		// fully paid but not yet marked COMPLETED is a stale-read
		// race; fail instead of masking it
		if fin.Remaining.IsZero() {
			return domain.ErrNothingToLiquidate
		}
		inv, err := r.Investments.GetByIDForUpdate(ctx, fin.InvestmentID)
		if err != nil {
			return err
		}

		penalty := money.Percent(fin.Remaining, penaltyRate)
		totalDue := fin.Remaining.Add(penalty)
		if inv.CurrentValue.LessThan(totalDue) {
			return &domain.InsufficientCollateralError{
				CollateralValue: inv.CurrentValue,
				TotalDue:        totalDue,
			}
		}
		beforeAll = audit.Snapshot(map[string]any{"financing": fin, "investment": inv})

		outstanding, err := r.Installments.ListOutstandingByFinancingID(ctx, fin.ID)
		if err != nil {
			return err
		}
		for _, ins := range outstanding {
			ins.Status = domain.InstallmentDropped
			if err := r.Installments.Save(ctx, ins); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		debtPaid := fin.Remaining
		fin.Status = domain.StatusLiquidated
		fin.PenaltyAmount = penalty
		fin.Remaining = decimal.Zero
		fin.NextDueDate = nil
		fin.CompletedAt = &now
		if err := r.Financings.Save(ctx, fin); err != nil {
			return err
		}

		valueBefore := inv.CurrentValue
		inv.Status = investment.StatusLiquidatedByPenalty
		inv.CurrentValue = decimal.Zero
		inv.CreditLimit = decimal.Zero
		inv.CreditUsed = decimal.Zero
		inv.LiquidatedAt = &now
		if err := r.Investments.Save(ctx, inv); err != nil {
			return err
		}

		surplus := valueBefore.Sub(totalDue)
		if surplus.IsPositive() {
			if err := r.Accounts.Credit(ctx, fin.UserID, surplus); err != nil {
				return err
			}
			if err := r.Transactions.Append(ctx, &account.Transaction{
				TransactionID: id.NewUUID(),
				UserID:        fin.UserID,
				Type:          account.TypeLiquidationSurplus,
				Amount:        surplus,
				Metadata: metadataJSON(map[string]any{
					"financing_id":  fin.FinancingID,
					"investment_id": inv.InvestmentID,
				}),
			}); err != nil {
				return err
			}
		}
		if err := r.Transactions.Append(ctx, &account.Transaction{
			TransactionID: id.NewUUID(),
			UserID:        fin.UserID,
			Type:          account.TypeLiquidationPenalty,
			Amount:        penalty,
			Metadata: metadataJSON(map[string]any{
				"financing_id":  fin.FinancingID,
				"investment_id": inv.InvestmentID,
				"debt_paid":     debtPaid,
				"total_due":     totalDue,
			}),
		}); err != nil {
			return err
		}

		finDone, invDone = fin, inv
		summary = &LiquidationSummary{
			DebtPaid:       debtPaid,
			PenaltyCharged: penalty,
			TotalDeducted:  totalDue,
			ReturnedToUser: money.ClampZero(surplus),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	afterAll := audit.Snapshot(map[string]any{"financing": finDone, "investment": invDone})
	u.emitRaw(ctx, "financing.force_liquidate", "financing", finDone.FinancingID, in.Actor, beforeAll, afterAll)
	return summary, nil
}

// ForceLiquidateInvestment voluntarily closes a collateral account with
// no active financings attached, crediting its value to the user.
func (u *Usecase) ForceLiquidateInvestment(ctx context.Context, in LiquidateInvestmentInput) (*InvestmentDTO, error) {
	var (
		inv    *investment.Investment
		before json.RawMessage
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		inv, err = r.Investments.GetByInvestmentIDForUpdate(ctx, in.InvestmentID)
		if err != nil {
			return err
		}
		if inv.Status != investment.StatusActive {
			return investment.ErrNotActive
		}
		count, err := r.Financings.CountActiveByInvestmentID(ctx, inv.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return &investment.ActiveFinancingsExistError{Count: count}
		}
		before = audit.Snapshot(inv)

		value := inv.CurrentValue
		if err := r.Accounts.Credit(ctx, inv.UserID, value); err != nil {
			return err
		}
		if err := r.Transactions.Append(ctx, &account.Transaction{
			TransactionID: id.NewUUID(),
			UserID:        inv.UserID,
			Type:          account.TypeInvestmentLiquidation,
			Amount:        value,
			Metadata:      metadataJSON(map[string]any{"investment_id": inv.InvestmentID}),
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		inv.Status = investment.StatusLiquidated
		inv.CurrentValue = decimal.Zero
		inv.CreditLimit = decimal.Zero
		inv.LiquidatedAt = &now
		return r.Investments.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	u.emitRaw(ctx, "investment.force_liquidate", "investment", inv.InvestmentID, in.Actor, before, audit.Snapshot(inv))
	return toInvestmentDTO(inv), nil
}
