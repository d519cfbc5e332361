package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"moneta/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceRepository_AccountBalance(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFinanceRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE profile_id = $1`)).
		WithArgs(2, 7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "initial_balance"}).
			AddRow(7, 2, "1000.00"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(CASE WHEN type = 'expense' THEN -amount ELSE amount END), 0) FROM "transactions"`)).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("-149.90"))

	balance, err := repo.AccountBalance(ctx, 2, 7)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("850.10")), "got %s", balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_SumByType(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFinanceRepository(db)
	ctx := context.Background()

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "transactions"`)).
		WithArgs(2, string(models.TransactionExpense), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("320.45"))

	sum, err := repo.SumByType(ctx, 2, models.TransactionExpense, from, to)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("320.45")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_ListCategories_IncludesGlobalDefaults(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFinanceRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transaction_categories" WHERE (profile_id = $1 OR profile_id IS NULL)`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "name", "type"}).
			AddRow(1, nil, "Groceries", "expense").
			AddRow(9, 2, "Side project", "income"))

	categories, err := repo.ListCategories(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Nil(t, categories[0].ProfileID)
	assert.NotNil(t, categories[1].ProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_DeleteTransaction_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFinanceRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "transactions" SET "deleted_at"=`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.DeleteTransaction(ctx, 2, 99)
	assert.Error(t, err)
	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_CreateTransferPair_Atomic(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFinanceRepository(db)
	ctx := context.Background()

	amount := decimal.RequireFromString("200.00")
	group := "0b5f9d66-4dd7-4c61-9cf6-08bb4f9ddd10"
	out := &models.Transaction{ProfileID: 2, AccountID: 1, Type: models.TransactionExpense, Amount: amount, Description: "Transfer out", TransactionDate: time.Now(), TransferGroupID: &group}
	in := &models.Transaction{ProfileID: 2, AccountID: 3, Type: models.TransactionIncome, Amount: amount, Description: "Transfer in", TransactionDate: time.Now(), TransferGroupID: &group}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateTransferPair(ctx, out, in))
	assert.Equal(t, uint(11), out.ID)
	assert.Equal(t, uint(12), in.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
