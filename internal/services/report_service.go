package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
)

// ReportService is the read side of the ledger: pure grouping and summation
// over the filtered transaction set. Transactions in the reserved transfer
// category are excluded from income/expense analytics so internal movements
// never count as business income or expense.
type ReportService struct {
	financeRepo repository.FinanceRepository
}

// NewReportService creates a new ReportService.
func NewReportService(financeRepo repository.FinanceRepository) *ReportService {
	return &ReportService{
		financeRepo: financeRepo,
	}
}

// AccountBalanceReport pairs an account with its derived balance.
type AccountBalanceReport struct {
	Account models.FinancialAccount `json:"account"`
	Balance decimal.Decimal         `json:"balance"`
}

// AccountBalances derives every account's balance from its history.
func (s *ReportService) AccountBalances(workspaceID uint64) ([]AccountBalanceReport, error) {
	accounts, err := s.financeRepo.ListAccountsByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	reports := make([]AccountBalanceReport, 0, len(accounts))
	for _, account := range accounts {
		income, expense, err := s.financeRepo.SumByAccount(account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum transactions: %w", err)
		}
		reports = append(reports, AccountBalanceReport{
			Account: account,
			Balance: account.InitialBalance.Add(income).Sub(expense),
		})
	}

	return reports, nil
}

// CategoryTotal is one category's aggregate within a report.
type CategoryTotal struct {
	CategoryID uint64              `json:"category_id"`
	Name       string              `json:"name"`
	Type       models.CategoryType `json:"type"`
	Color      string              `json:"color"`
	Total      decimal.Decimal     `json:"total"`
}

// CategoryBreakdown sums transactions per category over the filter range.
func (s *ReportService) CategoryBreakdown(filter repository.TransactionFilter) ([]CategoryTotal, error) {
	txns, err := s.financeRepo.ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals := make(map[uint64]*CategoryTotal)
	for _, txn := range txns {
		if isTransferLeg(txn) {
			continue
		}
		entry, ok := totals[txn.CategoryID]
		if !ok {
			entry = &CategoryTotal{
				CategoryID: txn.CategoryID,
				Name:       txn.Category.Name,
				Type:       txn.Category.Type,
				Color:      txn.Category.Color,
				Total:      decimal.Zero,
			}
			totals[txn.CategoryID] = entry
		}
		entry.Total = entry.Total.Add(txn.Amount)
	}

	result := make([]CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})

	return result, nil
}

// MonthlyTotal is one month's income and expense aggregate.
type MonthlyTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlyEvolution groups income and expense totals per calendar month.
func (s *ReportService) MonthlyEvolution(filter repository.TransactionFilter) ([]MonthlyTotal, error) {
	txns, err := s.financeRepo.ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	months := make(map[string]*MonthlyTotal)
	for _, txn := range txns {
		if isTransferLeg(txn) {
			continue
		}
		key := txn.Date.Format("2006-01")
		entry, ok := months[key]
		if !ok {
			entry = &MonthlyTotal{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			months[key] = entry
		}
		if txn.Category.Type == models.CategoryTypeIncome {
			entry.Income = entry.Income.Add(txn.Amount)
		} else {
			entry.Expense = entry.Expense.Add(txn.Amount)
		}
	}

	result := make([]MonthlyTotal, 0, len(months))
	for _, entry := range months {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})

	return result, nil
}

// BudgetActual compares one budget against actual spending.
type BudgetActual struct {
	Budget models.Budget   `json:"budget"`
	Actual decimal.Decimal `json:"actual"`
}

// BudgetVsActualReport carries the aggregate comparison and, for budgets
// linked to a category, the per-line comparisons.
type BudgetVsActualReport struct {
	TotalBudgeted decimal.Decimal `json:"total_budgeted"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Lines         []BudgetActual  `json:"lines"`
}

// BudgetVsActual compares approved budgets to actual expense. Aggregate
// totals are always present; per-line actuals require a category link on
// the budget.
func (s *ReportService) BudgetVsActual(filter repository.TransactionFilter) (*BudgetVsActualReport, error) {
	budgets, err := s.financeRepo.ListBudgetsByWorkspace(filter.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	txns, err := s.financeRepo.ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totalExpense := decimal.Zero
	expenseByCategory := make(map[uint64]decimal.Decimal)
	for _, txn := range txns {
		if isTransferLeg(txn) || txn.Category.Type != models.CategoryTypeExpense {
			continue
		}
		totalExpense = totalExpense.Add(txn.Amount)
		expenseByCategory[txn.CategoryID] = expenseByCategory[txn.CategoryID].Add(txn.Amount)
	}

	report := &BudgetVsActualReport{
		TotalBudgeted: decimal.Zero,
		TotalExpense:  totalExpense,
		Lines:         []BudgetActual{},
	}

	for _, budget := range budgets {
		if budget.Status != models.BudgetStatusApproved {
			continue
		}
		report.TotalBudgeted = report.TotalBudgeted.Add(budget.Amount)

		if budget.CategoryID != nil {
			report.Lines = append(report.Lines, BudgetActual{
				Budget: budget,
				Actual: expenseByCategory[*budget.CategoryID],
			})
		}
	}

	return report, nil
}

// TopCategories returns the highest-spend expense categories, capped at limit.
func (s *ReportService) TopCategories(filter repository.TransactionFilter, limit int) ([]CategoryTotal, error) {
	breakdown, err := s.CategoryBreakdown(filter)
	if err != nil {
		return nil, err
	}

	expenses := make([]CategoryTotal, 0, len(breakdown))
	for _, entry := range breakdown {
		if entry.Type == models.CategoryTypeExpense {
			expenses = append(expenses, entry)
		}
	}

	if limit > 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}

	return expenses, nil
}

// ProjectExpense is one project's expense aggregate.
type ProjectExpense struct {
	ProjectID uint64          `json:"project_id"`
	Name      string          `json:"name"`
	Total     decimal.Decimal `json:"total"`
}

// ProjectExpenses sums expense transactions per project. Transactions with
// no project reference are reported under a zero project id.
func (s *ReportService) ProjectExpenses(filter repository.TransactionFilter) ([]ProjectExpense, error) {
	txns, err := s.financeRepo.ListTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals := make(map[uint64]*ProjectExpense)
	for _, txn := range txns {
		if isTransferLeg(txn) || txn.Category.Type != models.CategoryTypeExpense {
			continue
		}

		var projectID uint64
		var name string
		if txn.ProjectID != nil {
			projectID = *txn.ProjectID
			if txn.Project != nil {
				name = txn.Project.Name
			}
		}

		entry, ok := totals[projectID]
		if !ok {
			entry = &ProjectExpense{ProjectID: projectID, Name: name, Total: decimal.Zero}
			totals[projectID] = entry
		}
		entry.Total = entry.Total.Add(txn.Amount)
	}

	result := make([]ProjectExpense, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})

	return result, nil
}

// isTransferLeg reports whether a transaction belongs to the reserved
// transfer category.
func isTransferLeg(txn models.FinancialTransaction) bool {
	return txn.TransferID != nil || txn.Category.Name == constants.TransferCategoryName
}
