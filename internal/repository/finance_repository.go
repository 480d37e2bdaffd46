package repository

import (
	"github.com/shopspring/decimal"
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormFinanceRepository is a GORM implementation of FinanceRepository
type GormFinanceRepository struct {
	db *gorm.DB
}

// NewFinanceRepository creates a new FinanceRepository
func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &GormFinanceRepository{db: db}
}

// CreateAccount creates a new financial account
func (r *GormFinanceRepository) CreateAccount(account *models.FinancialAccount) error {
	return r.db.Create(account).Error
}

// FindAccountByID finds an account by ID
func (r *GormFinanceRepository) FindAccountByID(id uint64) (*models.FinancialAccount, error) {
	var account models.FinancialAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAccountInWorkspace finds an account scoped to a workspace. An account
// that exists in another workspace is indistinguishable from a missing one.
func (r *GormFinanceRepository) FindAccountInWorkspace(workspaceID, accountID uint64) (*models.FinancialAccount, error) {
	var account models.FinancialAccount
	if err := r.db.Where("id = ? AND workspace_id = ?", accountID, workspaceID).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccountsByWorkspace lists all accounts in a workspace
func (r *GormFinanceRepository) ListAccountsByWorkspace(workspaceID uint64) ([]models.FinancialAccount, error) {
	var accounts []models.FinancialAccount
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount updates an account
func (r *GormFinanceRepository) UpdateAccount(account *models.FinancialAccount) error {
	return r.db.Save(account).Error
}

// DeleteAccount deletes an account
func (r *GormFinanceRepository) DeleteAccount(id uint64) error {
	return r.db.Delete(&models.FinancialAccount{}, id).Error
}

// CountTransactionsByAccount counts the transactions recorded on an account
func (r *GormFinanceRepository) CountTransactionsByAccount(accountID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.FinancialTransaction{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

// CreateCategory creates a new transaction category
func (r *GormFinanceRepository) CreateCategory(category *models.TransactionCategory) error {
	return r.db.Create(category).Error
}

// FindCategoryInWorkspace finds a category scoped to a workspace
func (r *GormFinanceRepository) FindCategoryInWorkspace(workspaceID, categoryID uint64) (*models.TransactionCategory, error) {
	var category models.TransactionCategory
	if err := r.db.Where("id = ? AND workspace_id = ?", categoryID, workspaceID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryByName finds a category by name and type within a workspace
func (r *GormFinanceRepository) FindCategoryByName(workspaceID uint64, name string, categoryType models.CategoryType) (*models.TransactionCategory, error) {
	var category models.TransactionCategory
	if err := r.db.Where("workspace_id = ? AND name = ? AND type = ?", workspaceID, name, categoryType).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategoriesByWorkspace lists all categories in a workspace
func (r *GormFinanceRepository) ListCategoriesByWorkspace(workspaceID uint64) ([]models.TransactionCategory, error) {
	var categories []models.TransactionCategory
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateTransaction creates a new transaction
func (r *GormFinanceRepository) CreateTransaction(txn *models.FinancialTransaction) error {
	return r.db.Create(txn).Error
}

// FindTransactionByID finds a transaction by ID
func (r *GormFinanceRepository) FindTransactionByID(id uint64) (*models.FinancialTransaction, error) {
	var txn models.FinancialTransaction
	if err := r.db.Preload("Category").Preload("Account").First(&txn, id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions lists transactions matching the filter, newest first
func (r *GormFinanceRepository) ListTransactions(filter TransactionFilter) ([]models.FinancialTransaction, error) {
	query := r.db.Where("workspace_id = ?", filter.WorkspaceID)

	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date < ?", *filter.DateTo)
	}

	var txns []models.FinancialTransaction
	if err := query.Preload("Category").Preload("Account").Preload("Project").
		Order("date DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// CreateTransferLegs inserts both legs of a transfer in one transaction
func (r *GormFinanceRepository) CreateTransferLegs(out, in *models.FinancialTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(out).Error; err != nil {
			return err
		}

		return tx.Create(in).Error
	})
}

// DeleteTransaction deletes a transaction; both legs go together when the
// row belongs to a transfer
func (r *GormFinanceRepository) DeleteTransaction(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var txn models.FinancialTransaction
		if err := tx.First(&txn, id).Error; err != nil {
			return err
		}

		if txn.TransferID != nil {
			return tx.Where("transfer_id = ?", *txn.TransferID).
				Delete(&models.FinancialTransaction{}).Error
		}

		return tx.Delete(&models.FinancialTransaction{}, id).Error
	})
}

// SumByAccount derives income and expense totals from the account's full
// transaction history
func (r *GormFinanceRepository) SumByAccount(accountID uint64) (decimal.Decimal, decimal.Decimal, error) {
	var txns []models.FinancialTransaction
	if err := r.db.Preload("Category").
		Where("account_id = ?", accountID).
		Find(&txns).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, txn := range txns {
		if txn.Category.Type == models.CategoryTypeIncome {
			income = income.Add(txn.Amount)
		} else {
			expense = expense.Add(txn.Amount)
		}
	}

	return income, expense, nil
}

// CreateBudget creates a new budget
func (r *GormFinanceRepository) CreateBudget(budget *models.Budget) error {
	return r.db.Create(budget).Error
}

// FindBudgetInWorkspace finds a budget scoped to a workspace
func (r *GormFinanceRepository) FindBudgetInWorkspace(workspaceID, budgetID uint64) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Where("id = ? AND workspace_id = ?", budgetID, workspaceID).
		First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListBudgetsByWorkspace lists all budgets in a workspace
func (r *GormFinanceRepository) ListBudgetsByWorkspace(workspaceID uint64) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Preload("Category").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// UpdateBudget updates a budget
func (r *GormFinanceRepository) UpdateBudget(budget *models.Budget) error {
	return r.db.Save(budget).Error
}
