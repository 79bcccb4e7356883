// Package ledgertest provides an in-memory ledger store with real
// all-or-nothing transaction semantics for engine tests: WithinTx runs
// against a copy of the state and commits only on success, so injected
// faults leave no partial writes, exactly like the SQL store.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"credit-backoffice/internal/domain/account"
	"credit-backoffice/internal/domain/audit"
	"credit-backoffice/internal/domain/financing"
	"credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/uow"

	"github.com/shopspring/decimal"
)

type state struct {
	investments  map[uint64]investment.Investment
	financings   map[uint64]financing.Financing
	installments map[uint64]financing.Installment
	accounts     map[string]account.Account
	transactions []account.Transaction
	nextID       uint64
}

func newState() *state {
	return &state{
		investments:  map[uint64]investment.Investment{},
		financings:   map[uint64]financing.Financing{},
		installments: map[uint64]financing.Installment{},
		accounts:     map[string]account.Account{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.investments {
		c.investments[k] = v
	}
	for k, v := range s.financings {
		c.financings[k] = v
	}
	for k, v := range s.installments {
		c.installments[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.transactions = append(c.transactions, s.transactions...)
	return c
}

// Ledger is the fake store. The Fail* hooks make the corresponding
// Save fail inside the next transaction; set them to
// uow.ErrConcurrentModification to simulate a losing racer.
type Ledger struct {
	mu sync.Mutex
	s  *state

	FailInvestmentSave  error
	FailFinancingSave   error
	FailInstallmentSave error
}

func New() *Ledger { return &Ledger{s: newState()} }

func (l *Ledger) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx := l.s.clone()
	if err := fn(l.repos(tx)); err != nil {
		return err
	}
	l.s = tx
	return nil
}

func (l *Ledger) WithinFinancingTx(ctx context.Context, financingID string, fn func(r uow.Repos, f *financing.Financing) error) error {
	return l.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Financings.GetByFinancingIDForUpdate(ctx, financingID)
		if err != nil {
			return err
		}
		return fn(r, f)
	})
}

// Repos returns repositories bound to the live state, for the
// usecases' read-only paths.
func (l *Ledger) Repos() uow.Repos { return l.repos(l.s) }

func (l *Ledger) repos(s *state) uow.Repos {
	return uow.Repos{
		Investments:  &invRepo{led: l, s: s},
		Financings:   &finRepo{led: l, s: s},
		Installments: &insRepo{led: l, s: s},
		Accounts:     &accRepo{s: s},
		Transactions: &txnRepo{s: s},
	}
}

// ---- seeding / inspection ----

func (l *Ledger) SeedInvestment(inv *investment.Investment) {
	l.s.nextID++
	inv.ID = l.s.nextID
	l.s.investments[inv.ID] = *inv
}

func (l *Ledger) SeedFinancing(f *financing.Financing) {
	l.s.nextID++
	f.ID = l.s.nextID
	l.s.financings[f.ID] = *f
}

func (l *Ledger) SeedInstallment(ins *financing.Installment) {
	l.s.nextID++
	ins.ID = l.s.nextID
	l.s.installments[ins.ID] = *ins
}

func (l *Ledger) Investment(id uint64) investment.Investment { return l.s.investments[id] }
func (l *Ledger) Financing(id uint64) financing.Financing    { return l.s.financings[id] }
func (l *Ledger) Installment(id uint64) financing.Installment {
	return l.s.installments[id]
}

func (l *Ledger) AccountBalance(userID string) decimal.Decimal {
	a, ok := l.s.accounts[userID]
	if !ok {
		return decimal.Zero
	}
	return a.Balance
}

func (l *Ledger) Transactions() []account.Transaction { return l.s.transactions }

// InstallmentsOf returns the financing's installments ordered by number.
func (l *Ledger) InstallmentsOf(financingID uint64) []financing.Installment {
	var out []financing.Installment
	for _, ins := range l.s.installments {
		if ins.FinancingID == financingID {
			out = append(out, ins)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ---- investment repository ----

type invRepo struct {
	led *Ledger
	s   *state
}

func (r *invRepo) Create(_ context.Context, inv *investment.Investment) error {
	r.s.nextID++
	inv.ID = r.s.nextID
	inv.CreatedAt = time.Now().UTC()
	r.s.investments[inv.ID] = *inv
	return nil
}

func (r *invRepo) GetByInvestmentID(_ context.Context, investmentID string) (*investment.Investment, error) {
	for _, v := range r.s.investments {
		if v.InvestmentID == investmentID {
			out := v
			return &out, nil
		}
	}
	return nil, investment.ErrNotFound
}

func (r *invRepo) GetByInvestmentIDForUpdate(ctx context.Context, investmentID string) (*investment.Investment, error) {
	return r.GetByInvestmentID(ctx, investmentID)
}

func (r *invRepo) GetByIDForUpdate(_ context.Context, id uint64) (*investment.Investment, error) {
	v, ok := r.s.investments[id]
	if !ok {
		return nil, investment.ErrNotFound
	}
	out := v
	return &out, nil
}

func (r *invRepo) Save(_ context.Context, inv *investment.Investment) error {
	if r.led.FailInvestmentSave != nil {
		return r.led.FailInvestmentSave
	}
	cur, ok := r.s.investments[inv.ID]
	if !ok {
		return investment.ErrNotFound
	}
	if cur.Version != inv.Version {
		return uow.ErrConcurrentModification
	}
	inv.Version++
	r.s.investments[inv.ID] = *inv
	return nil
}

// ---- financing repository ----

type finRepo struct {
	led *Ledger
	s   *state
}

func (r *finRepo) Create(_ context.Context, f *financing.Financing) error {
	r.s.nextID++
	f.ID = r.s.nextID
	f.CreatedAt = time.Now().UTC()
	r.s.financings[f.ID] = *f
	return nil
}

func (r *finRepo) GetByFinancingID(_ context.Context, financingID string) (*financing.Financing, error) {
	for _, v := range r.s.financings {
		if v.FinancingID == financingID {
			out := v
			return &out, nil
		}
	}
	return nil, financing.ErrNotFound
}

func (r *finRepo) GetByFinancingIDForUpdate(ctx context.Context, financingID string) (*financing.Financing, error) {
	return r.GetByFinancingID(ctx, financingID)
}

func (r *finRepo) GetByIDForUpdate(_ context.Context, id uint64) (*financing.Financing, error) {
	v, ok := r.s.financings[id]
	if !ok {
		return nil, financing.ErrNotFound
	}
	out := v
	return &out, nil
}

func (r *finRepo) CountActiveByInvestmentID(_ context.Context, investmentID uint64) (int64, error) {
	var n int64
	for _, v := range r.s.financings {
		if v.InvestmentID == investmentID && v.Status == financing.StatusActive {
			n++
		}
	}
	return n, nil
}

func (r *finRepo) Save(_ context.Context, f *financing.Financing) error {
	if r.led.FailFinancingSave != nil {
		return r.led.FailFinancingSave
	}
	cur, ok := r.s.financings[f.ID]
	if !ok {
		return financing.ErrNotFound
	}
	if cur.Version != f.Version {
		return uow.ErrConcurrentModification
	}
	f.Version++
	r.s.financings[f.ID] = *f
	return nil
}

// ---- installment repository ----

type insRepo struct {
	led *Ledger
	s   *state
}

func (r *insRepo) CreateBatch(_ context.Context, items []*financing.Installment) error {
	for _, ins := range items {
		r.s.nextID++
		ins.ID = r.s.nextID
		ins.CreatedAt = time.Now().UTC()
		r.s.installments[ins.ID] = *ins
	}
	return nil
}

func (r *insRepo) GetByInstallmentID(_ context.Context, installmentID string) (*financing.Installment, error) {
	for _, v := range r.s.installments {
		if v.InstallmentID == installmentID {
			out := v
			return &out, nil
		}
	}
	return nil, financing.ErrInstallmentNotFound
}

func (r *insRepo) GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*financing.Installment, error) {
	return r.GetByInstallmentID(ctx, installmentID)
}

func (r *insRepo) ListByFinancingID(_ context.Context, financingID uint64) ([]*financing.Installment, error) {
	var out []*financing.Installment
	for _, v := range r.s.installments {
		if v.FinancingID == financingID {
			c := v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *insRepo) ListOutstandingByFinancingID(ctx context.Context, financingID uint64) ([]*financing.Installment, error) {
	all, _ := r.ListByFinancingID(ctx, financingID)
	out := all[:0]
	for _, ins := range all {
		if !ins.Settled() {
			out = append(out, ins)
		}
	}
	return out, nil
}

func (r *insRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, v := range r.s.installments {
		if v.Status == financing.InstallmentPending && v.DueDate.Before(now) {
			v.Status = financing.InstallmentOverdue
			r.s.installments[id] = v
			n++
		}
	}
	return n, nil
}

func (r *insRepo) Save(_ context.Context, ins *financing.Installment) error {
	if r.led.FailInstallmentSave != nil {
		return r.led.FailInstallmentSave
	}
	cur, ok := r.s.installments[ins.ID]
	if !ok {
		return financing.ErrInstallmentNotFound
	}
	if cur.Version != ins.Version {
		return uow.ErrConcurrentModification
	}
	ins.Version++
	r.s.installments[ins.ID] = *ins
	return nil
}

// ---- account / transaction repositories ----

type accRepo struct{ s *state }

func (r *accRepo) Credit(_ context.Context, userID string, amount decimal.Decimal) error {
	a, ok := r.s.accounts[userID]
	if !ok {
		a = account.Account{UserID: userID, Balance: decimal.Zero}
	}
	a.Balance = a.Balance.Add(amount)
	r.s.accounts[userID] = a
	return nil
}

func (r *accRepo) GetByUserID(_ context.Context, userID string) (*account.Account, error) {
	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, account.ErrNotFound
	}
	out := a
	return &out, nil
}

type txnRepo struct{ s *state }

func (r *txnRepo) Append(_ context.Context, t *account.Transaction) error {
	t.CreatedAt = time.Now().UTC()
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

func (r *txnRepo) ListByUserID(_ context.Context, userID string) ([]*account.Transaction, error) {
	var out []*account.Transaction
	for i := range r.s.transactions {
		if r.s.transactions[i].UserID == userID {
			c := r.s.transactions[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// AuditRecorder captures emitted audit records for assertions.
type AuditRecorder struct {
	mu      sync.Mutex
	Records []audit.Record
}

func (a *AuditRecorder) Emit(_ context.Context, rec audit.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Records = append(a.Records, rec)
}
