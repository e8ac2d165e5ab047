package expenses

import "context"

type Repository interface {
	ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, int64, error)
	GetExpenseByID(ctx context.Context, expenseID string) (*Expense, error)
	CreateExpense(ctx context.Context, expense *Expense) error
	SetReceiptURL(ctx context.Context, expenseID, url string) (bool, error)
	SummarizeCategories(ctx context.Context) ([]CategorySummary, error)
}
