package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// FinancialAccount holds an opening balance only. The current balance is
// always derived from transaction history; nothing mutates InitialBalance
// after creation.
type FinancialAccount struct {
	ID             uint64          `gorm:"primarykey" json:"id"`
	WorkspaceID    uint64          `gorm:"not null;index" json:"workspace_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Currency       string          `gorm:"type:varchar(10);not null" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type TransactionCategory struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	WorkspaceID uint64       `gorm:"not null;index" json:"workspace_id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Type        CategoryType `gorm:"type:varchar(10);not null" json:"type"`
	Color       string       `gorm:"type:varchar(20)" json:"color"`
	CreatedAt   time.Time    `json:"created_at"`
}

// FinancialTransaction amounts are unsigned magnitudes; the sign is implied
// by the category type. TransferID is shared by the two legs of a transfer.
type FinancialTransaction struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	WorkspaceID uint64          `gorm:"not null;index" json:"workspace_id"`
	AccountID   uint64          `gorm:"not null;index" json:"account_id"`
	CategoryID  uint64          `gorm:"not null;index" json:"category_id"`
	ProjectID   *uint64         `gorm:"index" json:"project_id"`
	CreatedByID uint64          `gorm:"not null" json:"created_by_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	TransferID  *string         `gorm:"type:varchar(36);index" json:"transfer_id"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Account  FinancialAccount    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Project  *Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

type BudgetStatus string

const (
	BudgetStatusPending  BudgetStatus = "pending"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
)

type Budget struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	WorkspaceID uint64          `gorm:"not null;index" json:"workspace_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Status      BudgetStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CategoryID  *uint64         `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category *TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
