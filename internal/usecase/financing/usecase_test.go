package financing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/rates"
	"credit-backoffice/internal/domain/uow"
	"credit-backoffice/internal/testutil/ledgertest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testActor() Actor {
	return Actor{
		OperatorID:   strings.Repeat("a", 32),
		OperatorName: "Backoffice Operator",
		Reason:       "unit test",
	}
}

func testRates() rates.Static {
	return rates.Static{
		rates.KeyPenaltyRate:         dec("3"),
		rates.KeyFinancingPercentage: dec("15"),
	}
}

func newEngine(t *testing.T) (*Usecase, *ledgertest.Ledger, *ledgertest.AuditRecorder) {
	t.Helper()
	led := ledgertest.New()
	rec := &ledgertest.AuditRecorder{}
	r := led.Repos()
	return NewUsecase(r.Investments, r.Financings, r.Installments, led, testRates(), rec), led, rec
}

// requireRemainingInvariant: while ACTIVE, remaining equals the sum of
// total_due over installments that are neither PAID nor DROPPED.
func requireRemainingInvariant(t *testing.T, led *ledgertest.Ledger, finID uint64) {
	t.Helper()
	f := led.Financing(finID)
	if f.Status != domain.StatusActive {
		return
	}
	sum := decimal.Zero
	for _, ins := range led.InstallmentsOf(finID) {
		if !ins.Settled() {
			sum = sum.Add(ins.TotalDue)
		}
	}
	require.True(t, f.Remaining.Equal(sum),
		"remaining %s != outstanding sum %s", f.Remaining, sum)
}

func seedActiveInvestment(led *ledgertest.Ledger, value, limit, used string) *investment.Investment {
	inv := &investment.Investment{
		InvestmentID: "11111111-1111-4111-8111-111111111111",
		UserID:       "99999999-9999-4999-8999-999999999999",
		Principal:    dec(value),
		CurrentValue: dec(value),
		CreditLimit:  dec(limit),
		CreditUsed:   dec(used),
		Status:       investment.StatusActive,
	}
	led.SeedInvestment(inv)
	return inv
}

func firstDue() time.Time {
	return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
}

func TestCreateFinancing_ReservesCreditAndBuildsSchedule(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")

	dto, err := uc.CreateFinancing(context.Background(), CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("10000"),
		InstallmentCount: 3,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusActive), dto.Status)
	require.True(t, dto.Remaining.Equal(dec("10000")))
	require.Len(t, dto.Installments, 3)

	// equal 3333.33 + last absorbs the remainder
	require.True(t, dto.Installments[0].Amount.Equal(dec("3333.33")))
	require.True(t, dto.Installments[1].Amount.Equal(dec("3333.33")))
	require.True(t, dto.Installments[2].Amount.Equal(dec("3333.34")))
	require.NotNil(t, dto.NextDueDate)
	require.True(t, dto.NextDueDate.Equal(firstDue()))
	require.Equal(t, firstDue().AddDate(0, 2, 0), dto.Installments[2].DueDate)

	got := led.Investment(inv.ID)
	require.True(t, got.CreditUsed.Equal(dec("10000")))
	require.False(t, got.CreditUsed.GreaterThan(got.CreditLimit))
}

func TestCreateFinancing_InsufficientCredit(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "10000")

	_, err := uc.CreateFinancing(context.Background(), CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("6000"),
		InstallmentCount: 2,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	var ic *investment.InsufficientCreditError
	require.ErrorAs(t, err, &ic)
	require.True(t, ic.Requested.Equal(dec("6000")))

	// nothing reserved, nothing created
	require.True(t, led.Investment(inv.ID).CreditUsed.Equal(dec("10000")))
}

func TestCreateFinancing_InvestmentNotActive(t *testing.T) {
	uc, led, _ := newEngine(t)
	liq := &investment.Investment{
		InvestmentID: "22222222-2222-4222-8222-222222222222",
		UserID:       "99999999-9999-4999-8999-999999999999",
		CurrentValue: dec("100000"),
		CreditLimit:  dec("15000"),
		CreditUsed:   dec("0"),
		Status:       investment.StatusLiquidated,
	}
	led.SeedInvestment(liq)

	_, err := uc.CreateFinancing(context.Background(), CreateFinancingInput{
		InvestmentID:     liq.InvestmentID,
		Amount:           dec("1000"),
		InstallmentCount: 1,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.ErrorIs(t, err, investment.ErrNotActive)
}

func TestPayInstallments_CompletesFinancingAndReleasesCreditOnce(t *testing.T) {
	uc, led, rec := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("3000"),
		InstallmentCount: 3,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)
	require.True(t, led.Investment(inv.ID).CreditUsed.Equal(dec("3000")))

	fin, err := led.Repos().Financings.GetByFinancingID(ctx, dto.FinancingID)
	require.NoError(t, err)

	for i, insDTO := range dto.Installments {
		res, err := uc.PayInstallment(ctx, PayInstallmentInput{
			InstallmentID: insDTO.InstallmentID,
			Actor:         testActor(),
		})
		require.NoError(t, err, "payment %d", i+1)
		require.Equal(t, string(domain.InstallmentPaid), res.Installment.Status)
		requireRemainingInvariant(t, led, fin.ID)

		if i < 2 {
			require.Equal(t, string(domain.StatusActive), res.Financing.Status)
			require.NotNil(t, res.Financing.NextDueDate)
			require.Equal(t, firstDue().AddDate(0, i+1, 0), res.Financing.NextDueDate.UTC())
		} else {
			require.Equal(t, string(domain.StatusCompleted), res.Financing.Status)
			require.NotNil(t, res.Financing.CompletedAt)
			require.Nil(t, res.Financing.NextDueDate)
			require.True(t, res.Financing.Remaining.IsZero())
		}
	}

	// credit released exactly once, for the original amount
	require.True(t, led.Investment(inv.ID).CreditUsed.IsZero())

	// one payment transaction per installment
	var payments int
	for _, txn := range led.Transactions() {
		if txn.Type == "installment_payment" {
			payments++
		}
	}
	require.Equal(t, 3, payments)
	require.NotEmpty(t, rec.Records)
}

func TestPayInstallment_AlreadyPaidNeverDoubleDecrements(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("2000"),
		InstallmentCount: 2,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)

	target := dto.Installments[0].InstallmentID
	_, err = uc.PayInstallment(ctx, PayInstallmentInput{InstallmentID: target, Actor: testActor()})
	require.NoError(t, err)

	fin, _ := led.Repos().Financings.GetByFinancingID(ctx, dto.FinancingID)
	remainingAfterFirst := fin.Remaining

	_, err = uc.PayInstallment(ctx, PayInstallmentInput{InstallmentID: target, Actor: testActor()})
	require.ErrorIs(t, err, domain.ErrAlreadyPaid)

	fin, _ = led.Repos().Financings.GetByFinancingID(ctx, dto.FinancingID)
	require.True(t, fin.Remaining.Equal(remainingAfterFirst), "remaining double-decremented")
}

func TestPayInstallment_AtomicOnMidwayFault(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("2000"),
		InstallmentCount: 2,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)

	// fault after the installment write, at the financing write
	led.FailFinancingSave = errors.New("boom")
	_, err = uc.PayInstallment(ctx, PayInstallmentInput{
		InstallmentID: dto.Installments[0].InstallmentID,
		Actor:         testActor(),
	})
	require.Error(t, err)
	led.FailFinancingSave = nil

	// no partial state: installment still pending, remaining untouched
	ins, err := led.Repos().Installments.GetByInstallmentID(ctx, dto.Installments[0].InstallmentID)
	require.NoError(t, err)
	require.Equal(t, domain.InstallmentPending, ins.Status)
	fin, _ := led.Repos().Financings.GetByFinancingID(ctx, dto.FinancingID)
	require.True(t, fin.Remaining.Equal(dec("2000")))
}

func TestPayInstallment_ConcurrentModificationSurfaces(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("1000"),
		InstallmentCount: 1,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)

	led.FailFinancingSave = uow.ErrConcurrentModification
	_, err = uc.PayInstallment(ctx, PayInstallmentInput{
		InstallmentID: dto.Installments[0].InstallmentID,
		Actor:         testActor(),
	})
	require.ErrorIs(t, err, uow.ErrConcurrentModification)
	led.FailFinancingSave = nil

	// loser left no writes behind
	ins, _ := led.Repos().Installments.GetByInstallmentID(ctx, dto.Installments[0].InstallmentID)
	require.Equal(t, domain.InstallmentPending, ins.Status)
}

func TestWaivePenalty_ReducesRemaining(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("1000"),
		InstallmentCount: 1,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)

	// external overdue job added a penalty
	ins, _ := led.Repos().Installments.GetByInstallmentID(ctx, dto.Installments[0].InstallmentID)
	ins.Status = domain.InstallmentOverdue
	ins.PenaltyAmount = dec("50")
	ins.TotalDue = ins.Amount.Add(ins.PenaltyAmount)
	require.NoError(t, led.Repos().Installments.Save(ctx, ins))
	fin, _ := led.Repos().Financings.GetByFinancingID(ctx, dto.FinancingID)
	fin.Remaining = fin.Remaining.Add(dec("50"))
	require.NoError(t, led.Repos().Financings.Save(ctx, fin))

	res, err := uc.WaiveInstallmentPenalty(ctx, WaivePenaltyInput{
		InstallmentID: ins.InstallmentID,
		Actor:         testActor(),
	})
	require.NoError(t, err)
	require.True(t, res.Installment.PenaltyAmount.IsZero())
	require.True(t, res.Installment.TotalDue.Equal(dec("1000")))
	require.Equal(t, string(domain.InstallmentOverdue), res.Installment.Status)
	require.True(t, res.Financing.Remaining.Equal(dec("1000")))
	requireRemainingInvariant(t, led, fin.ID)

	// second waive has nothing left
	_, err = uc.WaiveInstallmentPenalty(ctx, WaivePenaltyInput{
		InstallmentID: ins.InstallmentID,
		Actor:         testActor(),
	})
	require.ErrorIs(t, err, domain.ErrNoPenaltyToWaive)
}

func TestExtendDueDate_ResetsOverdueAndPropagates(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "0")
	ctx := context.Background()

	dto, err := uc.CreateFinancing(ctx, CreateFinancingInput{
		InvestmentID:     inv.InvestmentID,
		Amount:           dec("2000"),
		InstallmentCount: 2,
		FirstDueDate:     firstDue(),
		Actor:            testActor(),
	})
	require.NoError(t, err)

	first := dto.Installments[0]
	ins, _ := led.Repos().Installments.GetByInstallmentID(ctx, first.InstallmentID)
	ins.Status = domain.InstallmentOverdue
	require.NoError(t, led.Repos().Installments.Save(ctx, ins))

	// push the first installment past the second
	newDate := firstDue().AddDate(0, 3, 0)
	res, err := uc.ExtendInstallmentDueDate(ctx, ExtendDueDateInput{
		InstallmentID: first.InstallmentID,
		NewDueDate:    newDate,
		Actor:         testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, string(domain.InstallmentPending), res.Installment.Status)
	require.True(t, res.Installment.DueDate.Equal(newDate))

	// earliest outstanding is now installment #2
	require.NotNil(t, res.Financing.NextDueDate)
	require.Equal(t, firstDue().AddDate(0, 1, 0), res.Financing.NextDueDate.UTC())
}

func TestAdjustInvestmentValue_CreditViolationLeavesInvestmentUnchanged(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "66666.67", "10000", "9000")
	ctx := context.Background()

	// 53333.33 × 15% = 8000.00 < 9000 used
	_, err := uc.AdjustInvestmentValue(ctx, AdjustValueInput{
		InvestmentID: inv.InvestmentID,
		NewValue:     dec("53333.33"),
		Actor:        testActor(),
	})
	var cv *investment.CreditViolationError
	require.ErrorAs(t, err, &cv)
	require.True(t, cv.NewCreditLimit.Equal(dec("8000.00")))

	got := led.Investment(inv.ID)
	require.True(t, got.CurrentValue.Equal(dec("66666.67")))
	require.True(t, got.CreditLimit.Equal(dec("10000")))
}

func TestAdjustInvestmentValue_Success(t *testing.T) {
	uc, led, _ := newEngine(t)
	inv := seedActiveInvestment(led, "100000", "15000", "5000")
	ctx := context.Background()

	dto, err := uc.AdjustInvestmentValue(ctx, AdjustValueInput{
		InvestmentID: inv.InvestmentID,
		NewValue:     dec("120000"),
		Actor:        testActor(),
	})
	require.NoError(t, err)
	require.True(t, dto.CreditLimit.Equal(dec("18000")))

	got := led.Investment(inv.ID)
	require.False(t, got.CreditUsed.GreaterThan(got.CreditLimit))
}

func TestCreateInvestment_DerivesLimit(t *testing.T) {
	uc, led, _ := newEngine(t)
	dto, err := uc.CreateInvestment(context.Background(), CreateInvestmentInput{
		UserID:    "99999999-9999-4999-8999-999999999999",
		Principal: dec("50000"),
		Actor:     testActor(),
	})
	require.NoError(t, err)
	require.True(t, dto.CreditLimit.Equal(dec("7500")))
	require.Equal(t, string(investment.StatusActive), dto.Status)

	got, err := led.Repos().Investments.GetByInvestmentID(context.Background(), dto.InvestmentID)
	require.NoError(t, err)
	require.True(t, got.CreditUsed.IsZero())
}
