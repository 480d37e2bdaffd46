package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teamboard/teamboard-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates the workspace and its owner membership within
	// a single transaction.
	CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMember) error

	FindByID(id uint64) (*models.Workspace, error)
	FindByInviteCode(code string) (*models.Workspace, error)
	Update(ws *models.Workspace) error

	// Delete removes the workspace and every dependent entity, project-scoped
	// rows first, finance rows next, memberships last. One transaction.
	Delete(id uint64) error

	AddMember(member *models.WorkspaceMember) error
	RemoveMember(workspaceID, userID uint64) error
	FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error)
	ListMembersByUserID(userID uint64) ([]models.WorkspaceMember, error)
	ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithDefaults creates the project together with its seeded columns
	// and priority levels in a single transaction.
	CreateWithDefaults(project *models.Project, columns []models.TaskColumn, priorities []models.PriorityLevel) error

	FindByID(id uint64, preload ...string) (*models.Project, error)
	ListByWorkspace(workspaceID uint64) ([]models.Project, error)
	Update(project *models.Project) error

	// Delete removes the project and its dependents in fixed order:
	// tag links, tasks, columns, priorities, links, members, project.
	// One transaction.
	Delete(id uint64) error

	AddLink(link *models.ProjectLink) error
	RemoveLink(linkID uint64) error
	FindLink(linkID uint64) (*models.ProjectLink, error)
	AddMember(member *models.ProjectMember) error
	RemoveMember(projectID, userID uint64) error
}

// BoardRepository defines the interface for column and priority data access
type BoardRepository interface {
	CreateColumn(column *models.TaskColumn) error
	FindColumnByID(id uint64) (*models.TaskColumn, error)
	ListColumnsByProject(projectID uint64) ([]models.TaskColumn, error)
	UpdateColumn(column *models.TaskColumn) error

	// MaxColumnOrder returns the highest order value in the project and
	// whether any column exists at all.
	MaxColumnOrder(projectID uint64) (int, bool, error)

	// DeleteColumnReassigning moves every task off the column onto the
	// fallback, then removes the column row, in one transaction.
	DeleteColumnReassigning(columnID, fallbackColumnID uint64) error

	FindPriorityByID(id uint64) (*models.PriorityLevel, error)
	ListPrioritiesByProject(projectID uint64) ([]models.PriorityLevel, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID   uint64
	ColumnID    *uint64
	PriorityID  *uint64
	AssigneeID  *uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Page        int
	PageSize    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64, preload ...string) (*models.Task, error)
	List(filter TaskFilter) ([]models.Task, int64, error)
	Update(task *models.Task) error

	// UpdateColumn is the drag-and-drop primitive: a single-field update of
	// the task's column.
	UpdateColumn(taskID, columnID uint64) error

	Delete(id uint64) error

	// ReplaceTags attaches the named tags to the task, creating missing
	// tags on demand.
	ReplaceTags(task *models.Task, names []string) error
}

// TransactionFilter holds filtering options for listing transactions
type TransactionFilter struct {
	WorkspaceID uint64
	AccountID   *uint64
	CategoryID  *uint64
	ProjectID   *uint64
	DateFrom    *time.Time
	DateTo      *time.Time
}

// FinanceRepository defines the interface for ledger data access
type FinanceRepository interface {
	CreateAccount(account *models.FinancialAccount) error
	FindAccountByID(id uint64) (*models.FinancialAccount, error)
	FindAccountInWorkspace(workspaceID, accountID uint64) (*models.FinancialAccount, error)
	ListAccountsByWorkspace(workspaceID uint64) ([]models.FinancialAccount, error)
	UpdateAccount(account *models.FinancialAccount) error
	DeleteAccount(id uint64) error
	CountTransactionsByAccount(accountID uint64) (int64, error)

	CreateCategory(category *models.TransactionCategory) error
	FindCategoryInWorkspace(workspaceID, categoryID uint64) (*models.TransactionCategory, error)
	FindCategoryByName(workspaceID uint64, name string, categoryType models.CategoryType) (*models.TransactionCategory, error)
	ListCategoriesByWorkspace(workspaceID uint64) ([]models.TransactionCategory, error)

	CreateTransaction(txn *models.FinancialTransaction) error
	FindTransactionByID(id uint64) (*models.FinancialTransaction, error)
	ListTransactions(filter TransactionFilter) ([]models.FinancialTransaction, error)

	// CreateTransferLegs inserts both legs of a transfer in one transaction;
	// either both rows become visible or neither does.
	CreateTransferLegs(out, in *models.FinancialTransaction) error

	// DeleteTransaction removes the transaction; when the row belongs to a
	// transfer, its sibling leg goes with it in the same transaction.
	DeleteTransaction(id uint64) error

	// SumByAccount returns income and expense totals for the account,
	// derived from the full transaction history.
	SumByAccount(accountID uint64) (income, expense decimal.Decimal, err error)

	CreateBudget(budget *models.Budget) error
	FindBudgetInWorkspace(workspaceID, budgetID uint64) (*models.Budget, error)
	ListBudgetsByWorkspace(workspaceID uint64) ([]models.Budget, error)
	UpdateBudget(budget *models.Budget) error
}
