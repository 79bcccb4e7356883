package account

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("account not found")

type Repository interface {
	// Credit adds amount to the user's balance, creating the account
	// row on first credit. Must run inside the caller's tx.
	Credit(ctx context.Context, userID string, amount decimal.Decimal) error
	GetByUserID(ctx context.Context, userID string) (*Account, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, t *Transaction) error
	ListByUserID(ctx context.Context, userID string) ([]*Transaction, error)
}
