package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Category groups transactions for budgeting and reporting. Categories with
// a nil ProfileID are global defaults visible to everyone.
type Category struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProfileID        *uint           `gorm:"index" json:"profile_id,omitempty"`
	Name             string          `gorm:"not null" json:"name"`
	Type             TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	ParentCategoryID *uint           `json:"parent_category_id,omitempty"`
	IconName         string          `json:"icon_name,omitempty"`
	Color            string          `json:"color,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "transaction_categories"
}

// Transaction is a single ledger entry against an account. Amount is always
// positive; Type carries the sign. Transfers between accounts are a pair of
// entries sharing a TransferGroupID.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProfileID       uint            `gorm:"not null;index" json:"profile_id"`
	AccountID       uint            `gorm:"not null;index" json:"account_id"`
	CategoryID      *uint           `json:"category_id,omitempty"`
	Type            TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description     string          `gorm:"not null" json:"description"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	TransferGroupID *string         `gorm:"type:uuid" json:"transfer_group_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Signed returns the amount with its sign applied (expenses are negative).
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ValidTransactionType reports whether t is income or expense.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionIncome || t == TransactionExpense
}
