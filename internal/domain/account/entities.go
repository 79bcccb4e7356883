package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the single cash balance per user. The engine only ever
// credits it (liquidation surplus, voluntary investment liquidation).
type Account struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID    string          `gorm:"column:user_id;type:char(36);not null;uniqueIndex:ux_accounts_user" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Version   int64           `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

type TransactionType string

const (
	TypeInstallmentPayment    TransactionType = "installment_payment"
	TypeLiquidationPenalty    TransactionType = "liquidation_penalty"
	TypeLiquidationSurplus    TransactionType = "liquidation_surplus"
	TypeInvestmentLiquidation TransactionType = "investment_liquidation"
)

// Transaction is one append-only row per money-moving event. Metadata
// is free-form JSON referencing the originating entity ids.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"column:transaction_id;type:char(36);not null;uniqueIndex:ux_transactions_transaction_id" json:"transaction_id"`
	UserID        string          `gorm:"column:user_id;type:char(36);not null;index:idx_transactions_user" json:"user_id"`
	Type          TransactionType `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Metadata      string          `gorm:"column:metadata;type:text" json:"metadata"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
