package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/repository"
	"moneta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFinanceRepository is a mock of the FinanceRepository interface
type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetAccount(ctx context.Context, profileID, id uint) (*models.Account, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockFinanceRepository) ListAccounts(ctx context.Context, profileID uint) ([]models.Account, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockFinanceRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockFinanceRepository) DeleteAccount(ctx context.Context, profileID, id uint) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}

func (m *MockFinanceRepository) AccountBalance(ctx context.Context, profileID, accountID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, profileID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinanceRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListCategories(ctx context.Context, profileID uint) ([]models.Category, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockFinanceRepository) GetCategory(ctx context.Context, profileID, id uint) (*models.Category, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockFinanceRepository) DeleteCategory(ctx context.Context, profileID, id uint) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}

func (m *MockFinanceRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinanceRepository) CreateTransferPair(ctx context.Context, out, in *models.Transaction) error {
	args := m.Called(ctx, out, in)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetTransaction(ctx context.Context, profileID, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockFinanceRepository) ListTransactions(ctx context.Context, profileID uint, filter repository.TransactionFilter, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, profileID, filter, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockFinanceRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinanceRepository) DeleteTransaction(ctx context.Context, profileID, id uint) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}

func (m *MockFinanceRepository) SumByType(ctx context.Context, profileID uint, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, profileID, txType, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinanceRepository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListBudgets(ctx context.Context, profileID uint, month time.Time) ([]models.Budget, error) {
	args := m.Called(ctx, profileID, month)
	return args.Get(0).([]models.Budget), args.Error(1)
}

func (m *MockFinanceRepository) DeleteBudget(ctx context.Context, profileID, id uint) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}

func (m *MockFinanceRepository) CreateTarget(ctx context.Context, target *models.FinancialTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListTargets(ctx context.Context, profileID uint) ([]models.FinancialTarget, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]models.FinancialTarget), args.Error(1)
}

func (m *MockFinanceRepository) UpdateTarget(ctx context.Context, target *models.FinancialTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockFinanceRepository) DeleteTarget(ctx context.Context, profileID, id uint) error {
	args := m.Called(ctx, profileID, id)
	return args.Error(0)
}

func newFinanceTestServer(financeRepo *MockFinanceRepository, postRepo *MockPostRepository) (*Server, *fiber.App) {
	s := &Server{financeRepo: financeRepo, postRepo: postRepo}
	s.financeService = service.NewFinanceService(financeRepo, postRepo)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("profileID", uint(1))
		return c.Next()
	})
	return s, app
}

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Post("/accounts", s.CreateAccount)

		financeRepo.On("CreateAccount", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"name":            "Nubank",
			"type":            "checking",
			"initial_balance": "1500.00",
		})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var account models.Account
		raw, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(raw, &account))
		assert.Equal(t, "BRL", account.Currency)
	})

	t.Run("invalid type", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Post("/accounts", s.CreateAccount)

		body, _ := json.Marshal(map[string]interface{}{
			"name": "Mystery",
			"type": "crypto-wallet",
		})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		financeRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})
}

func TestCreateTransfer(t *testing.T) {
	t.Run("same account is rejected", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Post("/transactions/transfer", s.CreateTransfer)

		body, _ := json.Marshal(map[string]interface{}{
			"from_account_id": 2,
			"to_account_id":   2,
			"amount":          "100.00",
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		financeRepo.AssertNotCalled(t, "CreateTransferPair", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates both legs", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Post("/transactions/transfer", s.CreateTransfer)

		financeRepo.On("GetAccount", mock.Anything, uint(1), uint(2)).Return(&models.Account{ID: 2, ProfileID: 1}, nil)
		financeRepo.On("GetAccount", mock.Anything, uint(1), uint(3)).Return(&models.Account{ID: 3, ProfileID: 1}, nil)
		financeRepo.On("CreateTransferPair", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"from_account_id": 2,
			"to_account_id":   3,
			"amount":          "100.00",
			"description":     "Monthly savings move",
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var legs []models.Transaction
		raw, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(raw, &legs))
		assert.Len(t, legs, 2)
		assert.Equal(t, models.TransactionExpense, legs[0].Type)
		assert.Equal(t, models.TransactionIncome, legs[1].Type)
		assert.NotNil(t, legs[0].TransferGroupID)
		assert.Equal(t, *legs[0].TransferGroupID, *legs[1].TransferGroupID)
	})
}

func TestGetFinanceSummary(t *testing.T) {
	t.Run("invalid month", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Get("/finance/summary", s.GetFinanceSummary)

		req := httptest.NewRequest(http.MethodGet, "/finance/summary?month=April", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("computes savings rate", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		s, app := newFinanceTestServer(financeRepo, new(MockPostRepository))
		app.Get("/finance/summary", s.GetFinanceSummary)

		financeRepo.On("SumByType", mock.Anything, uint(1), models.TransactionIncome, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(5000), nil)
		financeRepo.On("SumByType", mock.Anything, uint(1), models.TransactionExpense, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(3500), nil)

		req := httptest.NewRequest(http.MethodGet, "/finance/summary?month=2025-04", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var summary service.MonthlySummary
		raw, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(raw, &summary))
		assert.Equal(t, "2025-04", summary.Month)
		assert.True(t, summary.Net.Equal(decimal.NewFromInt(1500)))
		assert.True(t, summary.SavingsRate.Equal(decimal.NewFromFloat(0.3)))
	})
}

func TestShareTransaction(t *testing.T) {
	t.Run("publishes curated shared data", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		postRepo := new(MockPostRepository)
		s, app := newFinanceTestServer(financeRepo, postRepo)
		app.Post("/transactions/:id/share", s.ShareTransaction)

		txID := uint(9)
		financeRepo.On("GetTransaction", mock.Anything, uint(1), txID).Return(&models.Transaction{
			ID:              txID,
			ProfileID:       1,
			AccountID:       4,
			Type:            models.TransactionExpense,
			Amount:          decimal.RequireFromString("89.90"),
			Description:     "Concert tickets",
			TransactionDate: time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		}, nil)

		var captured *models.Post
		postRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*models.Post)
			}).Return(nil)
		postRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
			Return(&models.Post{ID: 20, PostType: models.PostTypeTransactionShare}, nil)

		body, _ := json.Marshal(map[string]string{"privacy_level": "public"})
		req := httptest.NewRequest(http.MethodPost, "/transactions/9/share", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		if assert.NotNil(t, captured) {
			assert.Equal(t, "89.90", captured.SharedData["amount"])
			assert.Equal(t, "expense", captured.SharedData["type"])
			assert.NotContains(t, captured.SharedData, "account_id")
		}
	})

	t.Run("missing transaction", func(t *testing.T) {
		financeRepo := new(MockFinanceRepository)
		postRepo := new(MockPostRepository)
		s, app := newFinanceTestServer(financeRepo, postRepo)
		app.Post("/transactions/:id/share", s.ShareTransaction)

		financeRepo.On("GetTransaction", mock.Anything, uint(1), uint(77)).
			Return(nil, models.NewNotFoundError("Transaction", uint(77)))

		req := httptest.NewRequest(http.MethodPost, "/transactions/77/share", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
