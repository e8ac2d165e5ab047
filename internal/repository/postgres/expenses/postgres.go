package expenses

import (
	"context"
	"errors"
	"time"

	"dues-app-go/internal/db"
	expensesdomain "dues-app-go/internal/domain/expenses"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, filter expensesdomain.ListFilter) ([]expensesdomain.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&expensesdomain.Expense{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expense_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Order("expense_date desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []expensesdomain.Expense
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, db.Translate(err)
	}
	return items, total, nil
}

func (r *PostgresRepository) GetExpenseByID(ctx context.Context, expenseID string) (*expensesdomain.Expense, error) {
	var expense expensesdomain.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expensesdomain.ErrExpenseNotFound
		}
		return nil, db.Translate(err)
	}
	return &expense, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return db.Translate(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *PostgresRepository) SetReceiptURL(ctx context.Context, expenseID, url string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&expensesdomain.Expense{}).
		Where("id = ?", expenseID).
		Updates(map[string]interface{}{
			"receipt_url": url,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return false, db.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) SummarizeCategories(ctx context.Context) ([]expensesdomain.CategorySummary, error) {
	var rows []expensesdomain.CategorySummary
	err := r.db.WithContext(ctx).
		Model(&expensesdomain.Expense{}).
		Select("category, COUNT(1) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total desc").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}
	return rows, nil
}
