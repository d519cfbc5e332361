// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"moneta/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows transaction listings. Zero values mean no filter.
type TransactionFilter struct {
	AccountID  uint
	CategoryID uint
	Type       models.TransactionType
	From       time.Time
	To         time.Time
}

// FinanceRepository defines persistence operations for accounts, categories,
// transactions, budgets and targets. All reads and writes are scoped to a
// single profile.
type FinanceRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, profileID, id uint) (*models.Account, error)
	ListAccounts(ctx context.Context, profileID uint) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, profileID, id uint) error
	AccountBalance(ctx context.Context, profileID, accountID uint) (decimal.Decimal, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context, profileID uint) ([]models.Category, error)
	GetCategory(ctx context.Context, profileID, id uint) (*models.Category, error)
	DeleteCategory(ctx context.Context, profileID, id uint) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	CreateTransferPair(ctx context.Context, out, in *models.Transaction) error
	GetTransaction(ctx context.Context, profileID, id uint) (*models.Transaction, error)
	ListTransactions(ctx context.Context, profileID uint, filter TransactionFilter, limit, offset int) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, profileID, id uint) error
	SumByType(ctx context.Context, profileID uint, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error)

	CreateBudget(ctx context.Context, budget *models.Budget) error
	ListBudgets(ctx context.Context, profileID uint, month time.Time) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, profileID, id uint) error

	CreateTarget(ctx context.Context, target *models.FinancialTarget) error
	ListTargets(ctx context.Context, profileID uint) ([]models.FinancialTarget, error)
	UpdateTarget(ctx context.Context, target *models.FinancialTarget) error
	DeleteTarget(ctx context.Context, profileID, id uint) error
}

type financeRepository struct {
	db *gorm.DB
}

// NewFinanceRepository creates a new FinanceRepository
func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) GetAccount(ctx context.Context, profileID, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Account", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *financeRepository) ListAccounts(ctx context.Context, profileID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

func (r *financeRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) DeleteAccount(ctx context.Context, profileID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Account{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Account", id)
	}
	return nil
}

// AccountBalance is the initial balance plus the signed sum of the account's
// transactions. Computed in SQL so it stays consistent under concurrent writes.
func (r *financeRepository) AccountBalance(ctx context.Context, profileID, accountID uint) (decimal.Decimal, error) {
	account, err := r.GetAccount(ctx, profileID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	var sum decimal.NullDecimal
	err = r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'expense' THEN -amount ELSE amount END), 0)").
		Where("account_id = ? AND profile_id = ?", accountID, profileID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, models.NewInternalError(err)
	}
	if !sum.Valid {
		return account.InitialBalance, nil
	}
	return account.InitialBalance.Add(sum.Decimal), nil
}

func (r *financeRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListCategories returns the profile's own categories plus the global
// defaults (nil profile_id).
func (r *financeRepository) ListCategories(ctx context.Context, profileID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("profile_id = ? OR profile_id IS NULL", profileID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *financeRepository) GetCategory(ctx context.Context, profileID, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("profile_id = ? OR profile_id IS NULL", profileID).
		First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// DeleteCategory only removes categories owned by the profile; global
// defaults cannot be deleted.
func (r *financeRepository) DeleteCategory(ctx context.Context, profileID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Category{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	return nil
}

func (r *financeRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CreateTransferPair writes both legs of a transfer in one transaction so a
// half-written transfer can never be observed.
func (r *financeRepository) CreateTransferPair(ctx context.Context, out, in *models.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(out).Error; err != nil {
			return err
		}
		return tx.Create(in).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) GetTransaction(ctx context.Context, profileID, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Category").
		Where("profile_id = ?", profileID).
		First(&tx, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Transaction", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tx, nil
}

func (r *financeRepository) ListTransactions(ctx context.Context, profileID uint, filter TransactionFilter, limit, offset int) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Category").
		Where("profile_id = ?", profileID)

	if filter.AccountID != 0 {
		q = q.Where("account_id = ?", filter.AccountID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if !filter.From.IsZero() {
		q = q.Where("transaction_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("transaction_date < ?", filter.To)
	}

	var txs []models.Transaction
	err := q.Order("transaction_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return txs, nil
}

func (r *financeRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Save(tx).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) DeleteTransaction(ctx context.Context, profileID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Transaction", id)
	}
	return nil
}

func (r *financeRepository) SumByType(ctx context.Context, profileID uint, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("profile_id = ? AND type = ? AND transaction_date >= ? AND transaction_date < ?", profileID, txType, from, to).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, models.NewInternalError(err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *financeRepository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if err := r.db.WithContext(ctx).Create(budget).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) ListBudgets(ctx context.Context, profileID uint, month time.Time) ([]models.Budget, error) {
	var budgets []models.Budget
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("profile_id = ?", profileID)
	if !month.IsZero() {
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("month >= ? AND month < ?", start, start.AddDate(0, 1, 0))
	}
	if err := q.Find(&budgets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return budgets, nil
}

func (r *financeRepository) DeleteBudget(ctx context.Context, profileID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Budget{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Budget", id)
	}
	return nil
}

func (r *financeRepository) CreateTarget(ctx context.Context, target *models.FinancialTarget) error {
	if err := r.db.WithContext(ctx).Create(target).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) ListTargets(ctx context.Context, profileID uint) ([]models.FinancialTarget, error) {
	var targets []models.FinancialTarget
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&targets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return targets, nil
}

func (r *financeRepository) UpdateTarget(ctx context.Context, target *models.FinancialTarget) error {
	if err := r.db.WithContext(ctx).Save(target).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *financeRepository) DeleteTarget(ctx context.Context, profileID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.FinancialTarget{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("FinancialTarget", id)
	}
	return nil
}
