package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType classifies a financial account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

// Account is a financial account owned by a profile. Balances are never
// stored; the current balance is the initial balance plus the signed sum of
// the account's transactions.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ProfileID      uint            `gorm:"not null;index" json:"profile_id"`
	Name           string          `gorm:"not null" json:"name"`
	Type           AccountType     `gorm:"type:varchar(20);not null" json:"type"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'BRL'" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"initial_balance"`
	Color          string          `json:"color,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountInvestment, AccountCash:
		return true
	}
	return false
}
