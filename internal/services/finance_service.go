package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountNameRequired   = errors.New("account name is required")
	ErrAccountHasTransactions = errors.New("account has transactions and cannot be deleted")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNameRequired  = errors.New("category name is required")
	ErrInvalidCategoryType   = errors.New("category type must be income or expense")
	ErrReservedCategoryName  = errors.New("category name is reserved")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrAmountNotPositive     = errors.New("amount must be positive")
	ErrSameAccountTransfer   = errors.New("source and destination accounts must differ")
	ErrBudgetNotFound        = errors.New("budget not found")
	ErrBudgetNameRequired    = errors.New("budget name is required")
	ErrInvalidBudgetStatus   = errors.New("budget status must be pending, approved or rejected")
)

// FinanceService implements the ledger: derived balances, dual-entry
// transfers and the workspace-scoped bookkeeping entities.
type FinanceService struct {
	financeRepo repository.FinanceRepository
	projectRepo repository.ProjectRepository
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(financeRepo repository.FinanceRepository, projectRepo repository.ProjectRepository) *FinanceService {
	return &FinanceService{
		financeRepo: financeRepo,
		projectRepo: projectRepo,
	}
}

// CreateAccountInput represents parameters to create a financial account.
type CreateAccountInput struct {
	WorkspaceID    uint64
	Name           string
	Description    string
	Currency       string
	InitialBalance decimal.Decimal
}

// CreateAccount creates a financial account. InitialBalance is the opening
// balance and is never touched again by transaction writes.
func (s *FinanceService) CreateAccount(input CreateAccountInput) (*models.FinancialAccount, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrAccountNameRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "ARS"
	}

	account := &models.FinancialAccount{
		WorkspaceID:    input.WorkspaceID,
		Name:           input.Name,
		Description:    input.Description,
		Currency:       currency,
		InitialBalance: input.InitialBalance,
	}

	if err := s.financeRepo.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetAccount returns an account scoped to the workspace.
func (s *FinanceService) GetAccount(workspaceID, accountID uint64) (*models.FinancialAccount, error) {
	account, err := s.financeRepo.FindAccountInWorkspace(workspaceID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts in the workspace.
func (s *FinanceService) ListAccounts(workspaceID uint64) ([]models.FinancialAccount, error) {
	accounts, err := s.financeRepo.ListAccountsByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccountInput holds editable account fields.
type UpdateAccountInput struct {
	Name        *string
	Description *string
}

// UpdateAccount edits an account's descriptive fields.
func (s *FinanceService) UpdateAccount(workspaceID, accountID uint64, input UpdateAccountInput) (*models.FinancialAccount, error) {
	account, err := s.GetAccount(workspaceID, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrAccountNameRequired
		}
		account.Name = *input.Name
	}
	if input.Description != nil {
		account.Description = *input.Description
	}

	if err := s.financeRepo.UpdateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// DeleteAccount removes an account that has no transaction history.
func (s *FinanceService) DeleteAccount(workspaceID, accountID uint64) error {
	account, err := s.GetAccount(workspaceID, accountID)
	if err != nil {
		return err
	}

	count, err := s.financeRepo.CountTransactionsByAccount(account.ID)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if count > 0 {
		return ErrAccountHasTransactions
	}

	if err := s.financeRepo.DeleteAccount(account.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

// AccountBalance returns the derived balance for an account: opening
// balance plus income minus expense across the full transaction history.
// A pure function of that history; no stored balance is consulted.
func (s *FinanceService) AccountBalance(workspaceID, accountID uint64) (decimal.Decimal, error) {
	account, err := s.GetAccount(workspaceID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	income, expense, err := s.financeRepo.SumByAccount(account.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return account.InitialBalance.Add(income).Sub(expense), nil
}

// CreateCategoryInput represents parameters to create a category.
type CreateCategoryInput struct {
	WorkspaceID uint64
	Name        string
	Type        models.CategoryType
	Color       string
}

// CreateCategory creates a transaction category. The transfer display names
// are reserved so user categories can never collide with transfer legs.
func (s *FinanceService) CreateCategory(input CreateCategoryInput) (*models.TransactionCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if input.Type != models.CategoryTypeIncome && input.Type != models.CategoryTypeExpense {
		return nil, ErrInvalidCategoryType
	}
	if name == constants.ReservedCategoryIn || name == constants.ReservedCategoryOut {
		return nil, ErrReservedCategoryName
	}

	category := &models.TransactionCategory{
		WorkspaceID: input.WorkspaceID,
		Name:        name,
		Type:        input.Type,
		Color:       input.Color,
	}

	if err := s.financeRepo.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories returns all categories in the workspace.
func (s *FinanceService) ListCategories(workspaceID uint64) ([]models.TransactionCategory, error) {
	categories, err := s.financeRepo.ListCategoriesByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateTransactionInput represents parameters to record a transaction.
type CreateTransactionInput struct {
	WorkspaceID uint64
	AccountID   uint64
	CategoryID  uint64
	ProjectID   *uint64
	CreatedByID uint64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// CreateTransaction records a transaction. Account and category ids that
// exist in another workspace are treated as not found, not forbidden.
func (s *FinanceService) CreateTransaction(input CreateTransactionInput) (*models.FinancialTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	if _, err := s.financeRepo.FindAccountInWorkspace(input.WorkspaceID, input.AccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if _, err := s.financeRepo.FindCategoryInWorkspace(input.WorkspaceID, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.ProjectID != nil {
		project, err := s.projectRepo.FindByID(*input.ProjectID)
		if err != nil || project.WorkspaceID != input.WorkspaceID {
			return nil, ErrProjectNotFound
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	txn := &models.FinancialTransaction{
		WorkspaceID: input.WorkspaceID,
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		ProjectID:   input.ProjectID,
		CreatedByID: input.CreatedByID,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
	}

	if err := s.financeRepo.CreateTransaction(txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return txn, nil
}

// ListTransactions returns workspace transactions matching the filter.
func (s *FinanceService) ListTransactions(filter repository.TransactionFilter) ([]models.FinancialTransaction, error) {
	txns, err := s.financeRepo.ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// DeleteTransaction removes a transaction; transfer legs go in pairs.
func (s *FinanceService) DeleteTransaction(workspaceID, transactionID uint64) error {
	txn, err := s.financeRepo.FindTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to find transaction: %w", err)
	}
	if txn.WorkspaceID != workspaceID {
		return ErrTransactionNotFound
	}

	if err := s.financeRepo.DeleteTransaction(transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}

// TransferInput represents parameters for a dual-entry transfer.
type TransferInput struct {
	WorkspaceID   uint64
	FromAccountID uint64
	ToAccountID   uint64
	Amount        decimal.Decimal
	Rate          decimal.Decimal
	Description   string
	Date          time.Time
	CreatedByID   uint64
}

// Transfer creates the two legs of a transfer atomically: an expense of
// Amount on the source account and an income of round(Amount*Rate, 2) on
// the destination, both carrying the same TransferID, date and creator.
func (s *FinanceService) Transfer(input TransferInput) (out, in *models.FinancialTransaction, err error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, nil, ErrSameAccountTransfer
	}
	if !input.Amount.IsPositive() {
		return nil, nil, ErrAmountNotPositive
	}

	rate := input.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	if _, err := s.financeRepo.FindAccountInWorkspace(input.WorkspaceID, input.FromAccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("failed to find source account: %w", err)
	}
	if _, err := s.financeRepo.FindAccountInWorkspace(input.WorkspaceID, input.ToAccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("failed to find destination account: %w", err)
	}

	toAmount := input.Amount.Mul(rate).Round(2)

	expenseCategory, err := s.ensureTransferCategory(input.WorkspaceID, models.CategoryTypeExpense)
	if err != nil {
		return nil, nil, err
	}
	incomeCategory, err := s.ensureTransferCategory(input.WorkspaceID, models.CategoryTypeIncome)
	if err != nil {
		return nil, nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transferID := uuid.NewString()

	outLeg := &models.FinancialTransaction{
		WorkspaceID: input.WorkspaceID,
		AccountID:   input.FromAccountID,
		CategoryID:  expenseCategory.ID,
		CreatedByID: input.CreatedByID,
		Amount:      input.Amount,
		Description: input.Description + constants.TransferSuffixOut,
		Date:        date,
		TransferID:  &transferID,
	}

	inLeg := &models.FinancialTransaction{
		WorkspaceID: input.WorkspaceID,
		AccountID:   input.ToAccountID,
		CategoryID:  incomeCategory.ID,
		CreatedByID: input.CreatedByID,
		Amount:      toAmount,
		Description: input.Description + constants.TransferSuffixIn,
		Date:        date,
		TransferID:  &transferID,
	}

	if err := s.financeRepo.CreateTransferLegs(outLeg, inLeg); err != nil {
		return nil, nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return outLeg, inLeg, nil
}

// ensureTransferCategory lazily resolves-or-creates the reserved transfer
// category for the (workspace, type) pair.
func (s *FinanceService) ensureTransferCategory(workspaceID uint64, categoryType models.CategoryType) (*models.TransactionCategory, error) {
	category, err := s.financeRepo.FindCategoryByName(workspaceID, constants.TransferCategoryName, categoryType)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find transfer category: %w", err)
	}

	category = &models.TransactionCategory{
		WorkspaceID: workspaceID,
		Name:        constants.TransferCategoryName,
		Type:        categoryType,
		Color:       "#64748b",
	}
	if err := s.financeRepo.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create transfer category: %w", err)
	}

	return category, nil
}

// CreateBudgetInput represents parameters to create a budget.
type CreateBudgetInput struct {
	WorkspaceID uint64
	Name        string
	Amount      decimal.Decimal
	Description string
	CategoryID  *uint64
}

// CreateBudget creates a budget in pending state. An optional category link
// enables per-line budget-vs-actual reporting.
func (s *FinanceService) CreateBudget(input CreateBudgetInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrBudgetNameRequired
	}
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	if input.CategoryID != nil {
		if _, err := s.financeRepo.FindCategoryInWorkspace(input.WorkspaceID, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
	}

	budget := &models.Budget{
		WorkspaceID: input.WorkspaceID,
		Name:        input.Name,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      models.BudgetStatusPending,
		CategoryID:  input.CategoryID,
	}

	if err := s.financeRepo.CreateBudget(budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return budget, nil
}

// ListBudgets returns all budgets in the workspace.
func (s *FinanceService) ListBudgets(workspaceID uint64) ([]models.Budget, error) {
	budgets, err := s.financeRepo.ListBudgetsByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudgetStatus moves a budget through its approval states.
func (s *FinanceService) UpdateBudgetStatus(workspaceID, budgetID uint64, status models.BudgetStatus) (*models.Budget, error) {
	switch status {
	case models.BudgetStatusPending, models.BudgetStatusApproved, models.BudgetStatusRejected:
	default:
		return nil, ErrInvalidBudgetStatus
	}

	budget, err := s.financeRepo.FindBudgetInWorkspace(workspaceID, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	budget.Status = status
	if err := s.financeRepo.UpdateBudget(budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return budget, nil
}
