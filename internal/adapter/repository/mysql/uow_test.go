package mysql

import (
	"context"
	"errors"
	"testing"

	finDomain "credit-backoffice/internal/domain/financing"
	invDomain "credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/uow"
	"credit-backoffice/pkg/id"
)

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	inv := makeInvestment()
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}
		return r.Accounts.Credit(ctx, inv.UserID, dec("250.00"))
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	repo := NewInvestmentRepository(db)
	if _, err := repo.GetByInvestmentID(ctx, inv.InvestmentID); err != nil {
		t.Fatalf("investment not committed: %v", err)
	}
	acc, err := NewAccountRepository(db).GetByUserID(ctx, inv.UserID)
	if err != nil {
		t.Fatalf("account not committed: %v", err)
	}
	if !acc.Balance.Equal(dec("250.00")) {
		t.Fatalf("balance = %s, want 250.00", acc.Balance)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	boom := errors.New("boom")
	inv := makeInvestment()
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}
		if err := r.Accounts.Credit(ctx, inv.UserID, dec("250.00")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if _, err := NewInvestmentRepository(db).GetByInvestmentID(ctx, inv.InvestmentID); !errors.Is(err, invDomain.ErrNotFound) {
		t.Fatalf("investment survived rollback: err = %v", err)
	}
	if _, err := NewAccountRepository(db).GetByUserID(ctx, inv.UserID); err == nil {
		t.Fatal("account survived rollback")
	}
}

func TestWithinFinancingTx_LoadsLockedFinancing(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	f := &finDomain.Financing{
		FinancingID:  id.NewUUID(),
		UserID:       id.NewUUID(),
		InvestmentID: 1,
		Amount:       dec("9000"),
		Remaining:    dec("9000"),
		Status:       finDomain.StatusActive,
	}
	if err := NewFinancingRepository(db).Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := u.WithinFinancingTx(ctx, f.FinancingID, func(r uow.Repos, got *finDomain.Financing) error {
		if got.ID != f.ID || !got.Remaining.Equal(dec("9000")) {
			t.Fatalf("loaded wrong financing: %+v", got)
		}
		got.Remaining = dec("6000")
		return r.Financings.Save(ctx, got)
	})
	if err != nil {
		t.Fatalf("WithinFinancingTx: %v", err)
	}

	after, _ := NewFinancingRepository(db).GetByFinancingID(ctx, f.FinancingID)
	if !after.Remaining.Equal(dec("6000")) {
		t.Fatalf("remaining = %s, want 6000", after.Remaining)
	}
	if after.Version != f.Version+1 {
		t.Fatalf("version = %d, want %d", after.Version, f.Version+1)
	}
}

func TestWithinFinancingTx_UnknownID(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)

	err := u.WithinFinancingTx(context.Background(), id.NewUUID(), func(uow.Repos, *finDomain.Financing) error {
		t.Fatal("callback should not run")
		return nil
	})
	if !errors.Is(err, finDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
