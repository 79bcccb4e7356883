package financing

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	// StatusDefaulted is a risk classification set externally; this
	// engine never writes it.
	StatusDefaulted  Status = "DEFAULTED"
	StatusLiquidated Status = "LIQUIDATED"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
	InstallmentDropped InstallmentStatus = "DROPPED"
)

// Financing is a loan drawn against one Investment's credit limit.
// While ACTIVE, remaining equals the sum of total_due over installments
// whose status is neither PAID nor DROPPED.
type Financing struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	FinancingID       string          `gorm:"column:financing_id;type:char(36);not null;uniqueIndex:ux_financings_financing_id_active" json:"financing_id"`
	UserID            string          `gorm:"column:user_id;type:char(36);not null;index:idx_financings_user" json:"user_id"`
	InvestmentID      uint64          `gorm:"column:investment_id;not null;index:idx_financings_investment" json:"-"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	InstallmentCount  int             `gorm:"column:installment_count;not null" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"installment_amount"`
	Remaining         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"remaining"`
	PenaltyAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"penalty_amount"`
	NextDueDate       *time.Time      `gorm:"column:next_due_date" json:"next_due_date,omitempty"`
	Status            Status          `gorm:"type:enum('ACTIVE','COMPLETED','DEFAULTED','LIQUIDATED');default:'ACTIVE'" json:"status"`
	CompletedAt       *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Version           int64           `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Financing) TableName() string { return "financings" }

// Installment is one scheduled repayment unit. total_due = amount +
// penalty_amount, always recomputed together.
type Installment struct {
	ID            uint64            `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID string            `gorm:"column:installment_id;type:char(36);not null;uniqueIndex:ux_installments_installment_id_active" json:"installment_id"`
	FinancingID   uint64            `gorm:"column:financing_id;not null;uniqueIndex:ux_installments_financing_number" json:"-"`
	Number        int               `gorm:"column:number;not null;uniqueIndex:ux_installments_financing_number" json:"number"`
	Amount        decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"amount"`
	PenaltyAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"penalty_amount"`
	TotalDue      decimal.Decimal   `gorm:"column:total_due;type:decimal(18,2);not null" json:"total_due"`
	DueDate       time.Time         `gorm:"column:due_date;not null" json:"due_date"`
	Status        InstallmentStatus `gorm:"type:enum('PENDING','PAID','OVERDUE','DROPPED');default:'PENDING'" json:"status"`
	PaidAt        *time.Time        `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Version       int64             `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "installments" }

// Settled reports whether the installment is in a terminal state.
func (i *Installment) Settled() bool {
	return i.Status == InstallmentPaid || i.Status == InstallmentDropped
}
