package mysql

import (
	"context"
	"errors"

	accDomain "credit-backoffice/internal/domain/account"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

// Credit adds amount to the user's balance, creating the row on first
// credit. Runs under the caller's tx; the row is locked for the add.
func (r *AccountRepository) Credit(ctx context.Context, userID string, amount decimal.Decimal) error {
	var a accDomain.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a = accDomain.Account{UserID: userID, Balance: amount}
		return r.db.WithContext(ctx).Create(&a).Error
	}
	if err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	return r.db.WithContext(ctx).
		Model(&accDomain.Account{}).
		Where("id = ?", a.ID).
		Update("balance", a.Balance).Error
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*accDomain.Account, error) {
	var out accDomain.Account
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, notFound(res.Error, accDomain.ErrNotFound)
}

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, t *accDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]*accDomain.Transaction, error) {
	var out []*accDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
