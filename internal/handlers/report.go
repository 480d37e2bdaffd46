package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/services"
)

// ReportHandler serves the ledger's read-only aggregate endpoints.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// AccountBalances returns every account with its derived balance.
func (h *ReportHandler) AccountBalances(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	balances, err := h.reportService.AccountBalances(ws.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balances": balances,
	})
}

// CategoryBreakdown returns totals grouped by category.
func (h *ReportHandler) CategoryBreakdown(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	breakdown, err := h.reportService.CategoryBreakdown(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute breakdown")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": breakdown,
	})
}

// MonthlyEvolution returns income and expense totals per month.
func (h *ReportHandler) MonthlyEvolution(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	months, err := h.reportService.MonthlyEvolution(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute monthly totals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"months": months,
	})
}

// BudgetVsActual compares approved budgets against actual expense.
func (h *ReportHandler) BudgetVsActual(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	report, err := h.reportService.BudgetVsActual(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute budget report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// TopCategories returns the highest-spend expense categories.
func (h *ReportHandler) TopCategories(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	categories, err := h.reportService.TopCategories(filter, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute top categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// ProjectExpenses returns expense totals grouped by project.
func (h *ReportHandler) ProjectExpenses(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	filter, ok := parseTransactionFilter(c, ws.ID)
	if !ok {
		return
	}

	projects, err := h.reportService.ProjectExpenses(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute project expenses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
	})
}
