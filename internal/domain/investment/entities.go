package investment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusLiquidated          Status = "LIQUIDATED"
	StatusLiquidatedByPenalty Status = "LIQUIDATED_BY_PENALTY"
)

// Investment is a collateral account backing credit. credit_limit is
// derived from current_value × financing percentage; credit_used is the
// outstanding principal drawn by active financings and never exceeds
// credit_limit.
type Investment struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID string          `gorm:"column:investment_id;type:char(36);not null;uniqueIndex:ux_investments_investment_id_active" json:"investment_id"`
	UserID       string          `gorm:"column:user_id;type:char(36);not null;index:idx_investments_user" json:"user_id"`
	Principal    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal"`
	CurrentValue decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"current_value"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"credit_limit"`
	CreditUsed   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"credit_used"`
	Status       Status          `gorm:"type:enum('ACTIVE','LIQUIDATED','LIQUIDATED_BY_PENALTY');default:'ACTIVE'" json:"status"`
	LiquidatedAt *time.Time      `gorm:"column:liquidated_at" json:"liquidated_at,omitempty"`
	Version      int64           `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Investment) TableName() string { return "investments" }
