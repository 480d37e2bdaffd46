package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/models"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupFinanceRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Workspace{},
		&models.Project{},
		&models.FinancialAccount{},
		&models.TransactionCategory{},
		&models.FinancialTransaction{},
		&models.Budget{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// setupMockedGormDB opens gorm over a sqlmock connection so tests can pin
// down the exact statement sequence inside a transaction.
func setupMockedGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func setupMockedFinanceRepo(t *testing.T) (FinanceRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := setupMockedGormDB(t)
	return NewFinanceRepository(db), mock
}

func transferLegsFixture() (*models.FinancialTransaction, *models.FinancialTransaction) {
	transferID := "3f1b8c1e-0000-4000-8000-000000000000"
	out := &models.FinancialTransaction{
		WorkspaceID: 1,
		AccountID:   1,
		CategoryID:  1,
		CreatedByID: 1,
		Amount:      decimal.RequireFromString("100.00"),
		Description: "Fondo (salida)",
		Date:        time.Now(),
		TransferID:  &transferID,
	}
	in := &models.FinancialTransaction{
		WorkspaceID: 1,
		AccountID:   2,
		CategoryID:  2,
		CreatedByID: 1,
		Amount:      decimal.RequireFromString("100.00"),
		Description: "Fondo (entrada)",
		Date:        time.Now(),
		TransferID:  &transferID,
	}
	return out, in
}

func TestGormFinanceRepository_CreateTransferLegs_CommitsBothInserts(t *testing.T) {
	repo, mock := setupMockedFinanceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `financial_transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `financial_transactions`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	out, in := transferLegsFixture()
	require.NoError(t, repo.CreateTransferLegs(out, in))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFinanceRepository_CreateTransferLegs_RollsBackOnSecondInsert(t *testing.T) {
	repo, mock := setupMockedFinanceRepo(t)

	insertErr := errors.New("constraint violation")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `financial_transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `financial_transactions`").
		WillReturnError(insertErr)
	mock.ExpectRollback()

	out, in := transferLegsFixture()
	err := repo.CreateTransferLegs(out, in)
	require.ErrorIs(t, err, insertErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFinanceRepository_DeleteTransaction_PlainRowLeavesOthers(t *testing.T) {
	db := setupFinanceRepoTestDB(t)
	repo := NewFinanceRepository(db)

	ws := &models.Workspace{Name: "WS", InviteCode: "REP1-AAAA-BBBB"}
	require.NoError(t, db.Create(ws).Error)
	account := &models.FinancialAccount{WorkspaceID: ws.ID, Name: "Caja", Currency: "ARS"}
	require.NoError(t, db.Create(account).Error)
	category := &models.TransactionCategory{WorkspaceID: ws.ID, Name: "Cuotas", Type: models.CategoryTypeIncome}
	require.NoError(t, db.Create(category).Error)

	mk := func() *models.FinancialTransaction {
		txn := &models.FinancialTransaction{
			WorkspaceID: ws.ID, AccountID: account.ID, CategoryID: category.ID,
			CreatedByID: 1, Amount: decimal.RequireFromString("10"), Date: time.Now(),
		}
		require.NoError(t, repo.CreateTransaction(txn))
		return txn
	}

	first := mk()
	second := mk()

	require.NoError(t, repo.DeleteTransaction(first.ID))

	_, err := repo.FindTransactionByID(first.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindTransactionByID(second.ID)
	require.NoError(t, err)
}

func TestGormFinanceRepository_SumByAccount(t *testing.T) {
	db := setupFinanceRepoTestDB(t)
	repo := NewFinanceRepository(db)

	ws := &models.Workspace{Name: "WS", InviteCode: "SUM1-AAAA-BBBB"}
	require.NoError(t, db.Create(ws).Error)
	account := &models.FinancialAccount{WorkspaceID: ws.ID, Name: "Caja", Currency: "ARS"}
	require.NoError(t, db.Create(account).Error)
	income := &models.TransactionCategory{WorkspaceID: ws.ID, Name: "Cuotas", Type: models.CategoryTypeIncome}
	require.NoError(t, db.Create(income).Error)
	expense := &models.TransactionCategory{WorkspaceID: ws.ID, Name: "Materiales", Type: models.CategoryTypeExpense}
	require.NoError(t, db.Create(expense).Error)

	for _, row := range []struct {
		categoryID uint64
		amount     string
	}{
		{income.ID, "100.50"},
		{income.ID, "49.50"},
		{expense.ID, "30.25"},
	} {
		require.NoError(t, repo.CreateTransaction(&models.FinancialTransaction{
			WorkspaceID: ws.ID, AccountID: account.ID, CategoryID: row.categoryID,
			CreatedByID: 1, Amount: decimal.RequireFromString(row.amount), Date: time.Now(),
		}))
	}

	gotIncome, gotExpense, err := repo.SumByAccount(account.ID)
	require.NoError(t, err)
	require.True(t, gotIncome.Equal(decimal.RequireFromString("150.00")), "got %s", gotIncome)
	require.True(t, gotExpense.Equal(decimal.RequireFromString("30.25")), "got %s", gotExpense)
}
