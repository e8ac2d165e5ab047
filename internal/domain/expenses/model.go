package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	Category    string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Description string          `gorm:"not null"`
	ExpenseDate time.Time       `gorm:"type:date;not null"`
	ReceiptURL  *string         `gorm:"type:text"`
	ApprovedBy  *string         `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

type CategorySummary struct {
	Category string
	Count    int64
	Total    decimal.Decimal
}

type ListFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type CreateExpenseInput struct {
	Category    string
	Amount      decimal.Decimal
	Description string
	ExpenseDate time.Time
	ReceiptURL  string
	ApprovedBy  string
}
