// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"time"

	"moneta/internal/models"
	"moneta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreateAccount handles POST /api/accounts
func (s *Server) CreateAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		Name           string          `json:"name"`
		Type           string          `json:"type"`
		Currency       string          `json:"currency"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
		Color          string          `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.financeService.CreateAccount(ctx, service.CreateAccountInput{
		ProfileID:      profileID,
		Name:           req.Name,
		Type:           req.Type,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
		Color:          req.Color,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// GetAccounts handles GET /api/accounts
func (s *Server) GetAccounts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	accounts, err := s.financeService.ListAccounts(ctx, profileID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(accounts)
}

// GetAccountBalance handles GET /api/accounts/:id/balance
func (s *Server) GetAccountBalance(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	accountID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	balance, err := s.financeService.GetAccountBalance(ctx, profileID, accountID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"account_id": accountID,
		"balance":    balance,
	})
}

// DeleteAccount handles DELETE /api/accounts/:id
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	accountID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.financeService.DeleteAccount(ctx, profileID, accountID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		Name             string `json:"name"`
		Type             string `json:"type"`
		ParentCategoryID *uint  `json:"parent_category_id"`
		IconName         string `json:"icon_name"`
		Color            string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.financeService.CreateCategory(ctx, profileID, req.Name, req.Type,
		req.ParentCategoryID, req.IconName, req.Color)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategories handles GET /api/categories. The result includes both the
// caller's categories and the global defaults.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	categories, err := s.financeService.ListCategories(ctx, profileID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(categories)
}

// DeleteCategory handles DELETE /api/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.financeService.DeleteCategory(ctx, profileID, categoryID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTransaction handles POST /api/transactions
func (s *Server) CreateTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		AccountID       uint            `json:"account_id"`
		CategoryID      *uint           `json:"category_id"`
		Type            string          `json:"type"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		Notes           string          `json:"notes"`
		TransactionDate time.Time       `json:"transaction_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tx, err := s.financeService.CreateTransaction(ctx, service.CreateTransactionInput{
		ProfileID:       profileID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		Notes:           req.Notes,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(tx)
}

// CreateTransfer handles POST /api/transactions/transfer. It creates both
// legs of the transfer atomically.
func (s *Server) CreateTransfer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		FromAccountID uint            `json:"from_account_id"`
		ToAccountID   uint            `json:"to_account_id"`
		Amount        decimal.Decimal `json:"amount"`
		Description   string          `json:"description"`
		Date          time.Time       `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	legs, err := s.financeService.CreateTransfer(ctx, service.CreateTransferInput{
		ProfileID:     profileID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          req.Date,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(legs)
}

// GetTransactions handles GET /api/transactions with optional account_id,
// category_id, type and month (YYYY-MM) filters.
func (s *Server) GetTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)
	page := parsePagination(c, 50)

	month, err := parseMonth(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	txs, err := s.financeService.ListTransactions(ctx, service.ListTransactionsInput{
		ProfileID:  profileID,
		AccountID:  uint(c.QueryInt("account_id", 0)),
		CategoryID: uint(c.QueryInt("category_id", 0)),
		Type:       c.Query("type"),
		Month:      month,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(txs)
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (s *Server) DeleteTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	txID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.financeService.DeleteTransaction(ctx, profileID, txID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ShareTransaction handles POST /api/transactions/:id/share. It publishes the
// transaction into the social feed as a transaction_share post.
func (s *Server) ShareTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	txID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		PrivacyLevel string `json:"privacy_level"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.financeService.ShareTransaction(ctx, service.ShareTransactionInput{
		ProfileID:     profileID,
		TransactionID: txID,
		Title:         req.Title,
		Description:   req.Description,
		PrivacyLevel:  req.PrivacyLevel,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreateBudget handles POST /api/budgets
func (s *Server) CreateBudget(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		CategoryID uint            `json:"category_id"`
		Amount     decimal.Decimal `json:"amount"`
		Month      string          `json:"month"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var month time.Time
	if req.Month != "" {
		parsed, parseErr := time.Parse("2006-01", req.Month)
		if parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid month, expected YYYY-MM"))
		}
		month = parsed
	}

	budget, err := s.financeService.CreateBudget(ctx, service.CreateBudgetInput{
		ProfileID:  profileID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      month,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(budget)
}

// GetBudgets handles GET /api/budgets?month=YYYY-MM
func (s *Server) GetBudgets(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	month, err := parseMonth(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	budgets, err := s.financeService.ListBudgets(ctx, profileID, month)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(budgets)
}

// DeleteBudget handles DELETE /api/budgets/:id
func (s *Server) DeleteBudget(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	budgetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.financeService.DeleteBudget(ctx, profileID, budgetID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTarget handles POST /api/targets
func (s *Server) CreateTarget(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		MetricName  string          `json:"metric_name"`
		TargetValue decimal.Decimal `json:"target_value"`
		TargetType  string          `json:"target_type"`
		Timescale   string          `json:"timescale"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	target, err := s.financeService.CreateTarget(ctx, service.CreateTargetInput{
		ProfileID:   profileID,
		MetricName:  req.MetricName,
		TargetValue: req.TargetValue,
		TargetType:  req.TargetType,
		Timescale:   req.Timescale,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(target)
}

// GetTargets handles GET /api/targets
func (s *Server) GetTargets(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	targets, err := s.financeService.ListTargets(ctx, profileID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(targets)
}

// ShareAchievement handles POST /api/targets/:id/share. It publishes an
// achievement post for the reached target.
func (s *Server) ShareAchievement(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		PrivacyLevel string `json:"privacy_level"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.financeService.AchievementPost(ctx, profileID, targetID, req.PrivacyLevel)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteTarget handles DELETE /api/targets/:id
func (s *Server) DeleteTarget(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.financeService.DeleteTarget(ctx, profileID, targetID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFinanceSummary handles GET /api/finance/summary?month=YYYY-MM
func (s *Server) GetFinanceSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	month, err := parseMonth(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	summary, err := s.financeService.Summary(ctx, profileID, month)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(summary)
}
