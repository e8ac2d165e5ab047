package expenses

import (
	"context"
	"net/url"
	"strings"
	"time"

	"dues-app-go/internal/domain/money"
	"github.com/google/uuid"
)

const categoriesCacheTTL = 5 * time.Minute

type Service struct {
	repo  Repository
	cache CategoriesCache
	hooks []func()
}

func NewService(repo Repository, cache CategoriesCache) *Service {
	if cache == nil {
		cache = noopCategoriesCache{}
	}
	return &Service{repo: repo, cache: cache}
}

func (s *Service) OnChange(fn func()) {
	s.hooks = append(s.hooks, fn)
}

func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, total, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Expense{}
	}
	return items, total, nil
}

func (s *Service) GetExpense(ctx context.Context, expenseID string) (*Expense, error) {
	if _, err := uuid.Parse(expenseID); err != nil {
		return nil, ErrExpenseNotFound
	}
	return s.repo.GetExpenseByID(ctx, expenseID)
}

func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*Expense, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if !money.ValidAmount(input.Amount) {
		return nil, ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionMissing
	}
	if input.ExpenseDate.IsZero() {
		return nil, ErrDateRequired
	}

	expense := Expense{
		ID:          uuid.NewString(),
		Category:    category,
		Amount:      input.Amount.Round(2),
		Description: description,
		ExpenseDate: input.ExpenseDate.UTC(),
	}

	if receipt := strings.TrimSpace(input.ReceiptURL); receipt != "" {
		if err := validateReceiptURL(receipt); err != nil {
			return nil, err
		}
		expense.ReceiptURL = &receipt
	}
	if approvedBy := strings.TrimSpace(input.ApprovedBy); approvedBy != "" {
		if _, err := uuid.Parse(approvedBy); err == nil {
			expense.ApprovedBy = &approvedBy
		}
	}

	if err := s.repo.CreateExpense(ctx, &expense); err != nil {
		return nil, err
	}

	s.cache.Delete()
	s.changed()
	return &expense, nil
}

// AttachReceipt links an uploaded receipt to an existing expense.
func (s *Service) AttachReceipt(ctx context.Context, expenseID, receiptURL string) error {
	if _, err := uuid.Parse(expenseID); err != nil {
		return ErrExpenseNotFound
	}
	if err := validateReceiptURL(receiptURL); err != nil {
		return err
	}
	updated, err := s.repo.SetReceiptURL(ctx, expenseID, receiptURL)
	if err != nil {
		return err
	}
	if !updated {
		return ErrExpenseNotFound
	}
	s.changed()
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	categories, err := s.repo.SummarizeCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []CategorySummary{}
	}

	s.cache.Set(categories, categoriesCacheTTL)
	return categories, nil
}

func (s *Service) changed() {
	for _, hook := range s.hooks {
		hook()
	}
}

func validateReceiptURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		return ErrInvalidReceiptURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidReceiptURL
	}
	return nil
}
