package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TargetType says how a financial target value is expressed.
type TargetType string

const (
	TargetCurrency   TargetType = "currency"
	TargetPercentage TargetType = "percentage"
)

// Timescale is the window a financial target is measured over.
type Timescale string

const (
	TimescaleMonthly Timescale = "monthly"
	TimescaleYearly  Timescale = "yearly"
)

// FinancialTarget is a user-defined goal for a tracked metric, e.g. monthly
// savings of R$500 or a 20% savings rate for the year.
type FinancialTarget struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProfileID   uint            `gorm:"not null;index" json:"profile_id"`
	MetricName  string          `gorm:"not null" json:"metric_name"`
	TargetValue decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_value"`
	TargetType  TargetType      `gorm:"type:varchar(10);not null" json:"target_type"`
	Timescale   Timescale       `gorm:"type:varchar(10);not null" json:"timescale"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (FinancialTarget) TableName() string {
	return "user_financial_targets"
}

// Budget caps spending for a category within a month.
type Budget struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProfileID  uint            `gorm:"not null;index" json:"profile_id"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Month      time.Time       `gorm:"not null" json:"month"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
