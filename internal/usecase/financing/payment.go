package financing

import (
	"context"
	"encoding/json"
	"time"

	"credit-backoffice/internal/domain/account"
	"credit-backoffice/internal/domain/audit"
	domain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/uow"
	"credit-backoffice/internal/usecase/credit"
	installmentEngine "credit-backoffice/internal/usecase/installment"
	"credit-backoffice/pkg/id"
	"credit-backoffice/pkg/money"
)

// PayInstallment settles one installment manually. The installment
// update, financing update, possible credit release and transaction-log
// write commit as one unit; a conflict or fault midway leaves no
// partial state.
func (u *Usecase) PayInstallment(ctx context.Context, in PayInstallmentInput) (*PaymentResult, error) {
	var (
		ins          *domain.Installment
		fin          *domain.Financing
		beforeFin    json.RawMessage
		beforeIns    json.RawMessage
		installments []*domain.Installment
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		ins, err = r.Installments.GetByInstallmentIDForUpdate(ctx, in.InstallmentID)
		if err != nil {
			return err
		}
		fin, err = r.Financings.GetByIDForUpdate(ctx, ins.FinancingID)
		if err != nil {
			return err
		}
		if fin.Status != domain.StatusActive {
			return domain.ErrNotActive
		}
		beforeIns = audit.Snapshot(ins)
		beforeFin = audit.Snapshot(fin)

		now := time.Now().UTC()
		if err := installmentEngine.Pay(ins, now); err != nil {
			return err
		}
		if err := r.Installments.Save(ctx, ins); err != nil {
			return err
		}

		fin.Remaining = money.ClampZero(fin.Remaining.Sub(ins.TotalDue))

		outstanding, err := r.Installments.ListOutstandingByFinancingID(ctx, fin.ID)
		if err != nil {
			return err
		}
		if next := earliestOutstanding(outstanding); next != nil {
			fin.NextDueDate = next
		} else {
			fin.NextDueDate = nil
			fin.Status = domain.StatusCompleted
			fin.CompletedAt = &now

			inv, err := r.Investments.GetByIDForUpdate(ctx, fin.InvestmentID)
			if err != nil {
				return err
			}
			credit.Release(inv, fin.Amount)
			if err := r.Investments.Save(ctx, inv); err != nil {
				return err
			}
		}

		if err := r.Transactions.Append(ctx, &account.Transaction{
			TransactionID: id.NewUUID(),
			UserID:        fin.UserID,
			Type:          account.TypeInstallmentPayment,
			Amount:        ins.TotalDue,
			Metadata: metadataJSON(map[string]any{
				"financing_id":   fin.FinancingID,
				"installment_id": ins.InstallmentID,
				"number":         ins.Number,
			}),
		}); err != nil {
			return err
		}

		if err := r.Financings.Save(ctx, fin); err != nil {
			return err
		}
		installments, err = r.Installments.ListByFinancingID(ctx, fin.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.emitRaw(ctx, "installment.pay", "installment", ins.InstallmentID, in.Actor, beforeIns, audit.Snapshot(ins))
	u.emitRaw(ctx, "financing.recompute", "financing", fin.FinancingID, in.Actor, beforeFin, audit.Snapshot(fin))
	return &PaymentResult{
		Installment: toInstallmentDTO(ins),
		Financing:   *toFinancingDTO(fin, installments),
	}, nil
}

// WaiveInstallmentPenalty zeroes an installment's penalty. The waived
// amount leaves the financing's remaining so the outstanding-sum
// invariant holds.
func (u *Usecase) WaiveInstallmentPenalty(ctx context.Context, in WaivePenaltyInput) (*PaymentResult, error) {
	var (
		ins       *domain.Installment
		fin       *domain.Financing
		beforeIns json.RawMessage
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		ins, err = r.Installments.GetByInstallmentIDForUpdate(ctx, in.InstallmentID)
		if err != nil {
			return err
		}
		fin, err = r.Financings.GetByIDForUpdate(ctx, ins.FinancingID)
		if err != nil {
			return err
		}
		beforeIns = audit.Snapshot(ins)

		wasOutstanding := !ins.Settled()
		waived, err := installmentEngine.WaivePenalty(ins)
		if err != nil {
			return err
		}
		if err := r.Installments.Save(ctx, ins); err != nil {
			return err
		}
		// remaining only tracks unsettled installments
		if wasOutstanding {
			fin.Remaining = money.ClampZero(fin.Remaining.Sub(waived))
			if err := r.Financings.Save(ctx, fin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.emitRaw(ctx, "installment.waive_penalty", "installment", ins.InstallmentID, in.Actor, beforeIns, audit.Snapshot(ins))
	return &PaymentResult{
		Installment: toInstallmentDTO(ins),
		Financing:   *toFinancingDTO(fin, nil),
	}, nil
}

// ExtendInstallmentDueDate moves an installment's due date, clearing
// OVERDUE, and propagates the earliest outstanding due date to the
// parent financing.
func (u *Usecase) ExtendInstallmentDueDate(ctx context.Context, in ExtendDueDateInput) (*PaymentResult, error) {
	var (
		ins       *domain.Installment
		fin       *domain.Financing
		beforeIns json.RawMessage
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		ins, err = r.Installments.GetByInstallmentIDForUpdate(ctx, in.InstallmentID)
		if err != nil {
			return err
		}
		fin, err = r.Financings.GetByIDForUpdate(ctx, ins.FinancingID)
		if err != nil {
			return err
		}
		beforeIns = audit.Snapshot(ins)

		if err := installmentEngine.ExtendDueDate(ins, in.NewDueDate); err != nil {
			return err
		}
		if err := r.Installments.Save(ctx, ins); err != nil {
			return err
		}

		outstanding, err := r.Installments.ListOutstandingByFinancingID(ctx, fin.ID)
		if err != nil {
			return err
		}
		fin.NextDueDate = earliestOutstanding(outstanding)
		return r.Financings.Save(ctx, fin)
	})
	if err != nil {
		return nil, err
	}

	u.emitRaw(ctx, "installment.extend_due_date", "installment", ins.InstallmentID, in.Actor, beforeIns, audit.Snapshot(ins))
	return &PaymentResult{
		Installment: toInstallmentDTO(ins),
		Financing:   *toFinancingDTO(fin, nil),
	}, nil
}
