package installment

import (
	"errors"
	"testing"
	"time"

	"credit-backoffice/internal/domain/financing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func pending(amount, penalty string) *financing.Installment {
	return &financing.Installment{
		Number:        1,
		Amount:        dec(amount),
		PenaltyAmount: dec(penalty),
		TotalDue:      dec(amount).Add(dec(penalty)),
		DueDate:       time.Now().UTC().AddDate(0, 1, 0),
		Status:        financing.InstallmentPending,
	}
}

func TestPay_FromPendingAndOverdue(t *testing.T) {
	now := time.Now().UTC()
	for _, st := range []financing.InstallmentStatus{financing.InstallmentPending, financing.InstallmentOverdue} {
		ins := pending("1000", "0")
		ins.Status = st
		if err := Pay(ins, now); err != nil {
			t.Fatalf("Pay from %s: %v", st, err)
		}
		if ins.Status != financing.InstallmentPaid || ins.PaidAt == nil {
			t.Fatalf("after Pay: %+v", ins)
		}
	}
}

func TestPay_TerminalStatesRejected(t *testing.T) {
	for _, st := range []financing.InstallmentStatus{financing.InstallmentPaid, financing.InstallmentDropped} {
		ins := pending("1000", "0")
		ins.Status = st
		if err := Pay(ins, time.Now()); !errors.Is(err, financing.ErrAlreadyPaid) {
			t.Fatalf("Pay from %s: err = %v, want ErrAlreadyPaid", st, err)
		}
	}
}

func TestWaivePenalty(t *testing.T) {
	ins := pending("1000", "35.50")
	waived, err := WaivePenalty(ins)
	if err != nil {
		t.Fatalf("WaivePenalty: %v", err)
	}
	if !waived.Equal(dec("35.50")) {
		t.Fatalf("waived = %s", waived)
	}
	if !ins.PenaltyAmount.IsZero() || !ins.TotalDue.Equal(dec("1000")) {
		t.Fatalf("after waive: penalty=%s total_due=%s", ins.PenaltyAmount, ins.TotalDue)
	}
	if ins.Status != financing.InstallmentPending {
		t.Fatalf("status changed by waive: %s", ins.Status)
	}
}

func TestWaivePenalty_NothingToWaive(t *testing.T) {
	ins := pending("1000", "0")
	if _, err := WaivePenalty(ins); !errors.Is(err, financing.ErrNoPenaltyToWaive) {
		t.Fatalf("err = %v, want ErrNoPenaltyToWaive", err)
	}
}

func TestExtendDueDate_ClearsOverdue(t *testing.T) {
	ins := pending("1000", "0")
	ins.Status = financing.InstallmentOverdue
	newDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if err := ExtendDueDate(ins, newDate); err != nil {
		t.Fatalf("ExtendDueDate: %v", err)
	}
	if !ins.DueDate.Equal(newDate) || ins.Status != financing.InstallmentPending {
		t.Fatalf("after extend: %+v", ins)
	}
}

func TestExtendDueDate_SettledRejected(t *testing.T) {
	for _, st := range []financing.InstallmentStatus{financing.InstallmentPaid, financing.InstallmentDropped} {
		ins := pending("1000", "0")
		ins.Status = st
		if err := ExtendDueDate(ins, time.Now()); !errors.Is(err, financing.ErrAlreadyPaid) {
			t.Fatalf("extend from %s: err = %v, want ErrAlreadyPaid", st, err)
		}
	}
}
