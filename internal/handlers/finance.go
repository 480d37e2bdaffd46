package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
)

// FinanceHandler coordinates ledger HTTP handlers.
type FinanceHandler struct {
	financeService *services.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
	}
}

// CreateAccount creates a financial account in the workspace.
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type CreateAccountRequest struct {
		Name           string          `json:"name" binding:"required"`
		Description    string          `json:"description"`
		Currency       string          `json:"currency"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.financeService.CreateAccount(services.CreateAccountInput{
		WorkspaceID:    ws.ID,
		Name:           req.Name,
		Description:    req.Description,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// ListAccounts returns the workspace's accounts.
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	accounts, err := h.financeService.ListAccounts(ws.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
	})
}

// GetAccount returns one account together with its derived balance.
func (h *FinanceHandler) GetAccount(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.financeService.GetAccount(ws.ID, accountID)
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	balance, err := h.financeService.AccountBalance(ws.ID, accountID)
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": account,
		"balance": balance,
	})
}

// UpdateAccount edits an account's descriptive fields.
func (h *FinanceHandler) UpdateAccount(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid account ID")
		return
	}

	type UpdateAccountRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.financeService.UpdateAccount(ws.ID, accountID, services.UpdateAccountInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// DeleteAccount removes an account that has no transactions.
func (h *FinanceHandler) DeleteAccount(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.financeService.DeleteAccount(ws.ID, accountID); err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}

// CreateCategory creates a transaction category.
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type CreateCategoryRequest struct {
		Name  string `json:"name" binding:"required"`
		Type  string `json:"type" binding:"required,oneof=income expense"`
		Color string `json:"color"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.financeService.CreateCategory(services.CreateCategoryInput{
		WorkspaceID: ws.ID,
		Name:        req.Name,
		Type:        models.CategoryType(req.Type),
		Color:       req.Color,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns the workspace's categories.
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	categories, err := h.financeService.ListCategories(ws.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// CreateTransaction records a transaction in the workspace ledger.
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTransactionRequest struct {
		AccountID   uint64          `json:"account_id" binding:"required"`
		CategoryID  uint64          `json:"category_id" binding:"required"`
		ProjectID   *uint64         `json:"project_id"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Description string          `json:"description"`
		Date        time.Time       `json:"date"`
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	txn, err := h.financeService.CreateTransaction(services.CreateTransactionInput{
		WorkspaceID: ws.ID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		ProjectID:   req.ProjectID,
		CreatedByID: userID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// ListTransactions returns workspace transactions with optional filters.
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	txns, err := h.financeService.ListTransactions(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txns,
	})
}

// DeleteTransaction removes a transaction; transfer legs go in pairs.
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	txnID, err := strconv.ParseUint(c.Param("transaction_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.financeService.DeleteTransaction(ws.ID, txnID); err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction deleted",
	})
}

// CreateTransfer creates the two legs of a transfer atomically.
func (h *FinanceHandler) CreateTransfer(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type TransferRequest struct {
		FromAccountID uint64          `json:"from_account_id" binding:"required"`
		ToAccountID   uint64          `json:"to_account_id" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Rate          decimal.Decimal `json:"rate"`
		Description   string          `json:"description"`
		Date          time.Time       `json:"date"`
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	out, in, err := h.financeService.Transfer(services.TransferInput{
		WorkspaceID:   ws.ID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Rate:          req.Rate,
		Description:   req.Description,
		Date:          req.Date,
		CreatedByID:   userID,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"out": out,
		"in":  in,
	})
}

// CreateBudget creates a budget in pending state.
func (h *FinanceHandler) CreateBudget(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type CreateBudgetRequest struct {
		Name        string          `json:"name" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Description string          `json:"description"`
		CategoryID  *uint64         `json:"category_id"`
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	budget, err := h.financeService.CreateBudget(services.CreateBudgetInput{
		WorkspaceID: ws.ID,
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// ListBudgets returns the workspace's budgets.
func (h *FinanceHandler) ListBudgets(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	budgets, err := h.financeService.ListBudgets(ws.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch budgets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"budgets": budgets,
	})
}

// UpdateBudgetStatus moves a budget through its approval states.
func (h *FinanceHandler) UpdateBudgetStatus(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	budgetID, err := strconv.ParseUint(c.Param("budget_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid budget ID")
		return
	}

	type UpdateBudgetStatusRequest struct {
		Status string `json:"status" binding:"required,oneof=pending approved rejected"`
	}

	var req UpdateBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	budget, err := h.financeService.UpdateBudgetStatus(ws.ID, budgetID, models.BudgetStatus(req.Status))
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// parseTransactionFilter reads the common report/listing query parameters.
func parseTransactionFilter(c *gin.Context, workspaceID uint64) (repository.TransactionFilter, bool) {
	filter := repository.TransactionFilter{WorkspaceID: workspaceID}

	parseID := func(param string) (*uint64, bool) {
		value := c.Query(param)
		if value == "" {
			return nil, true
		}
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+param)
			return nil, false
		}
		return &id, true
	}

	var ok bool
	if filter.AccountID, ok = parseID("account_id"); !ok {
		return filter, false
	}
	if filter.CategoryID, ok = parseID("category_id"); !ok {
		return filter, false
	}
	if filter.ProjectID, ok = parseID("project_id"); !ok {
		return filter, false
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			apierrors.BadRequest(c, "Invalid from date")
			return filter, false
		}
		filter.DateFrom = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			apierrors.BadRequest(c, "Invalid to date")
			return filter, false
		}
		filter.DateTo = &t
	}

	return filter, true
}

func respondFinanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, "Account not found")
	case errors.Is(err, services.ErrAccountNameRequired):
		apierrors.BadRequest(c, "Account name is required")
	case errors.Is(err, services.ErrAccountHasTransactions):
		apierrors.Conflict(c, "Account has transactions and cannot be deleted")
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrCategoryNameRequired):
		apierrors.BadRequest(c, "Category name is required")
	case errors.Is(err, services.ErrInvalidCategoryType):
		apierrors.BadRequest(c, "Category type must be income or expense")
	case errors.Is(err, services.ErrReservedCategoryName):
		apierrors.BadRequest(c, "Category name is reserved")
	case errors.Is(err, services.ErrTransactionNotFound):
		apierrors.NotFound(c, "Transaction not found")
	case errors.Is(err, services.ErrAmountNotPositive):
		apierrors.BadRequest(c, "Amount must be positive")
	case errors.Is(err, services.ErrSameAccountTransfer):
		apierrors.BadRequest(c, "Source and destination accounts must differ")
	case errors.Is(err, services.ErrBudgetNotFound):
		apierrors.NotFound(c, "Budget not found")
	case errors.Is(err, services.ErrBudgetNameRequired):
		apierrors.BadRequest(c, "Budget name is required")
	case errors.Is(err, services.ErrInvalidBudgetStatus):
		apierrors.BadRequest(c, "Invalid budget status")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	default:
		apierrors.InternalError(c, "")
	}
}
