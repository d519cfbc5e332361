package service

import (
	"context"
	"fmt"
	"time"

	"moneta/internal/cache"
	"moneta/internal/models"
	"moneta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FinanceService struct {
	financeRepo repository.FinanceRepository
	postRepo    repository.PostRepository
}

type CreateAccountInput struct {
	ProfileID      uint
	Name           string
	Type           string
	Currency       string
	InitialBalance decimal.Decimal
	Color          string
}

type CreateTransactionInput struct {
	ProfileID       uint
	AccountID       uint
	CategoryID      *uint
	Type            string
	Amount          decimal.Decimal
	Description     string
	Notes           string
	TransactionDate time.Time
}

type CreateTransferInput struct {
	ProfileID     uint
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
}

type ListTransactionsInput struct {
	ProfileID  uint
	AccountID  uint
	CategoryID uint
	Type       string
	Month      time.Time
	Limit      int
	Offset     int
}

type CreateTargetInput struct {
	ProfileID   uint
	MetricName  string
	TargetValue decimal.Decimal
	TargetType  string
	Timescale   string
}

type CreateBudgetInput struct {
	ProfileID  uint
	CategoryID uint
	Amount     decimal.Decimal
	Month      time.Time
}

type ShareTransactionInput struct {
	ProfileID     uint
	TransactionID uint
	Title         string
	Description   string
	PrivacyLevel  string
}

// MonthlySummary aggregates a profile's money flow for one calendar month.
type MonthlySummary struct {
	Month       string          `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Net         decimal.Decimal `json:"net"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
}

func NewFinanceService(financeRepo repository.FinanceRepository, postRepo repository.PostRepository) *FinanceService {
	return &FinanceService{financeRepo: financeRepo, postRepo: postRepo}
}

func (s *FinanceService) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	accountType := models.AccountType(in.Type)
	if !models.ValidAccountType(accountType) {
		return nil, models.NewValidationError("Invalid account type")
	}
	currency := in.Currency
	if currency == "" {
		currency = "BRL"
	}
	if len(currency) != 3 {
		return nil, models.NewValidationError("Currency must be a 3-letter code")
	}

	account := &models.Account{
		ProfileID:      in.ProfileID,
		Name:           in.Name,
		Type:           accountType,
		Currency:       currency,
		InitialBalance: in.InitialBalance,
		Color:          in.Color,
	}
	if err := s.financeRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *FinanceService) ListAccounts(ctx context.Context, profileID uint) ([]models.Account, error) {
	return s.financeRepo.ListAccounts(ctx, profileID)
}

func (s *FinanceService) GetAccountBalance(ctx context.Context, profileID, accountID uint) (decimal.Decimal, error) {
	return s.financeRepo.AccountBalance(ctx, profileID, accountID)
}

func (s *FinanceService) DeleteAccount(ctx context.Context, profileID, accountID uint) error {
	return s.financeRepo.DeleteAccount(ctx, profileID, accountID)
}

func (s *FinanceService) CreateCategory(ctx context.Context, profileID uint, name string, txType string, parentID *uint, iconName, color string) (*models.Category, error) {
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	t := models.TransactionType(txType)
	if !models.ValidTransactionType(t) {
		return nil, models.NewValidationError("Invalid category type")
	}

	category := &models.Category{
		ProfileID:        &profileID,
		Name:             name,
		Type:             t,
		ParentCategoryID: parentID,
		IconName:         iconName,
		Color:            color,
	}
	if err := s.financeRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *FinanceService) ListCategories(ctx context.Context, profileID uint) ([]models.Category, error) {
	return s.financeRepo.ListCategories(ctx, profileID)
}

func (s *FinanceService) DeleteCategory(ctx context.Context, profileID, id uint) error {
	return s.financeRepo.DeleteCategory(ctx, profileID, id)
}

func (s *FinanceService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	txType := models.TransactionType(in.Type)
	if !models.ValidTransactionType(txType) {
		return nil, models.NewValidationError("Invalid transaction type")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("Amount must be positive")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if _, err := s.financeRepo.GetAccount(ctx, in.ProfileID, in.AccountID); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		category, err := s.financeRepo.GetCategory(ctx, in.ProfileID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.Type != txType {
			return nil, models.NewValidationError("Category type does not match transaction type")
		}
	}

	date := in.TransactionDate
	if date.IsZero() {
		date = time.Now()
	}

	tx := &models.Transaction{
		ProfileID:       in.ProfileID,
		AccountID:       in.AccountID,
		CategoryID:      in.CategoryID,
		Type:            txType,
		Amount:          in.Amount,
		Description:     in.Description,
		Notes:           in.Notes,
		TransactionDate: date,
	}
	if err := s.financeRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	cache.InvalidateSummaries(ctx, in.ProfileID)
	return tx, nil
}

// CreateTransfer moves money between two of the caller's accounts as a pair
// of transactions sharing a transfer group ID.
func (s *FinanceService) CreateTransfer(ctx context.Context, in CreateTransferInput) ([]models.Transaction, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, models.NewValidationError("Cannot transfer to the same account")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("Amount must be positive")
	}
	if _, err := s.financeRepo.GetAccount(ctx, in.ProfileID, in.FromAccountID); err != nil {
		return nil, err
	}
	if _, err := s.financeRepo.GetAccount(ctx, in.ProfileID, in.ToAccountID); err != nil {
		return nil, err
	}

	description := in.Description
	if description == "" {
		description = "Transfer"
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	group := uuid.NewString()

	out := &models.Transaction{
		ProfileID:       in.ProfileID,
		AccountID:       in.FromAccountID,
		Type:            models.TransactionExpense,
		Amount:          in.Amount,
		Description:     description,
		TransactionDate: date,
		TransferGroupID: &group,
	}
	in2 := &models.Transaction{
		ProfileID:       in.ProfileID,
		AccountID:       in.ToAccountID,
		Type:            models.TransactionIncome,
		Amount:          in.Amount,
		Description:     description,
		TransactionDate: date,
		TransferGroupID: &group,
	}

	if err := s.financeRepo.CreateTransferPair(ctx, out, in2); err != nil {
		return nil, err
	}
	cache.InvalidateSummaries(ctx, in.ProfileID)
	return []models.Transaction{*out, *in2}, nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, in ListTransactionsInput) ([]models.Transaction, error) {
	filter := repository.TransactionFilter{
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
	}
	if in.Type != "" {
		t := models.TransactionType(in.Type)
		if !models.ValidTransactionType(t) {
			return nil, models.NewValidationError("Invalid transaction type")
		}
		filter.Type = t
	}
	if !in.Month.IsZero() {
		filter.From = time.Date(in.Month.Year(), in.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		filter.To = filter.From.AddDate(0, 1, 0)
	}
	return s.financeRepo.ListTransactions(ctx, in.ProfileID, filter, in.Limit, in.Offset)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, profileID, id uint) error {
	if err := s.financeRepo.DeleteTransaction(ctx, profileID, id); err != nil {
		return err
	}
	cache.InvalidateSummaries(ctx, profileID)
	return nil
}

// Summary computes a month's income, expense, net and savings rate. The
// savings rate is net over income; zero income yields a zero rate rather
// than a division error.
func (s *FinanceService) Summary(ctx context.Context, profileID uint, month time.Time) (*MonthlySummary, error) {
	if month.IsZero() {
		month = time.Now().UTC()
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	monthKey := from.Format("2006-01")

	var summary MonthlySummary
	err := cache.Aside(ctx, cache.SummaryKey(profileID, monthKey), &summary, cache.SummaryTTL, func() error {
		income, err := s.financeRepo.SumByType(ctx, profileID, models.TransactionIncome, from, to)
		if err != nil {
			return err
		}
		expense, err := s.financeRepo.SumByType(ctx, profileID, models.TransactionExpense, from, to)
		if err != nil {
			return err
		}

		net := income.Sub(expense)
		rate := decimal.Zero
		if income.GreaterThan(decimal.Zero) {
			rate = net.Div(income).Round(4)
		}

		summary = MonthlySummary{
			Month:       monthKey,
			Income:      income,
			Expense:     expense,
			Net:         net,
			SavingsRate: rate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *FinanceService) CreateTarget(ctx context.Context, in CreateTargetInput) (*models.FinancialTarget, error) {
	if in.MetricName == "" {
		return nil, models.NewValidationError("metric_name is required")
	}
	targetType := models.TargetType(in.TargetType)
	if targetType != models.TargetCurrency && targetType != models.TargetPercentage {
		return nil, models.NewValidationError("Invalid target_type")
	}
	timescale := models.Timescale(in.Timescale)
	if timescale == "" {
		timescale = models.TimescaleMonthly
	}
	if timescale != models.TimescaleMonthly && timescale != models.TimescaleYearly {
		return nil, models.NewValidationError("Invalid timescale")
	}

	target := &models.FinancialTarget{
		ProfileID:   in.ProfileID,
		MetricName:  in.MetricName,
		TargetValue: in.TargetValue,
		TargetType:  targetType,
		Timescale:   timescale,
	}
	if err := s.financeRepo.CreateTarget(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *FinanceService) ListTargets(ctx context.Context, profileID uint) ([]models.FinancialTarget, error) {
	return s.financeRepo.ListTargets(ctx, profileID)
}

func (s *FinanceService) DeleteTarget(ctx context.Context, profileID, id uint) error {
	return s.financeRepo.DeleteTarget(ctx, profileID, id)
}

func (s *FinanceService) CreateBudget(ctx context.Context, in CreateBudgetInput) (*models.Budget, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, models.NewValidationError("Budget amount must be greater than zero")
	}
	if in.Month.IsZero() {
		return nil, models.NewValidationError("month is required")
	}
	category, err := s.financeRepo.GetCategory(ctx, in.ProfileID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != models.TransactionExpense {
		return nil, models.NewValidationError("Budgets can only cap expense categories")
	}

	budget := &models.Budget{
		ProfileID:  in.ProfileID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Month:      time.Date(in.Month.Year(), in.Month.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.financeRepo.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, profileID uint, month time.Time) ([]models.Budget, error) {
	if month.IsZero() {
		month = time.Now().UTC()
	}
	month = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.financeRepo.ListBudgets(ctx, profileID, month)
}

func (s *FinanceService) DeleteBudget(ctx context.Context, profileID, id uint) error {
	return s.financeRepo.DeleteBudget(ctx, profileID, id)
}

// ShareTransaction publishes one of the caller's transactions into the feed
// as a transaction_share post. Only the fields in shared_data leave the
// finance domain; account identifiers stay private.
func (s *FinanceService) ShareTransaction(ctx context.Context, in ShareTransactionInput) (*models.Post, error) {
	tx, err := s.financeRepo.GetTransaction(ctx, in.ProfileID, in.TransactionID)
	if err != nil {
		return nil, err
	}

	privacy := models.PrivacyLevel(in.PrivacyLevel)
	if privacy == "" {
		privacy = models.PrivacyFollowersOnly
	}
	if !models.ValidPrivacyLevel(privacy) {
		return nil, models.NewValidationError("Invalid privacy_level")
	}

	title := in.Title
	if title == "" {
		title = tx.Description
	}

	shared := models.SharedData{
		"amount": tx.Amount.String(),
		"type":   string(tx.Type),
		"date":   tx.TransactionDate.Format("2006-01-02"),
	}
	if tx.Category != nil {
		shared["category"] = tx.Category.Name
	}

	post := &models.Post{
		ProfileID:           in.ProfileID,
		Title:               title,
		Description:         in.Description,
		PostType:            models.PostTypeTransactionShare,
		PrivacyLevel:        privacy,
		SharedData:          shared,
		SourceTransactionID: &tx.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.ProfileID)
}

// AchievementPost builds the canonical post for a reached target. Exposed so
// the handler layer can share targets with one call.
func (s *FinanceService) AchievementPost(ctx context.Context, profileID, targetID uint, privacyLevel string) (*models.Post, error) {
	targets, err := s.financeRepo.ListTargets(ctx, profileID)
	if err != nil {
		return nil, err
	}
	var target *models.FinancialTarget
	for i := range targets {
		if targets[i].ID == targetID {
			target = &targets[i]
			break
		}
	}
	if target == nil {
		return nil, models.NewNotFoundError("FinancialTarget", targetID)
	}

	privacy := models.PrivacyLevel(privacyLevel)
	if privacy == "" {
		privacy = models.PrivacyFollowersOnly
	}
	if !models.ValidPrivacyLevel(privacy) {
		return nil, models.NewValidationError("Invalid privacy_level")
	}

	post := &models.Post{
		ProfileID:    profileID,
		Title:        fmt.Sprintf("Reached target: %s", target.MetricName),
		PostType:     models.PostTypeAchievement,
		PrivacyLevel: privacy,
		SharedData: models.SharedData{
			"metric_name":  target.MetricName,
			"target_value": target.TargetValue.String(),
			"target_type":  string(target.TargetType),
			"timescale":    string(target.Timescale),
		},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, profileID)
}
