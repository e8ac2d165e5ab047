package expenses

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeExpensesRepo struct {
	expenses       map[string]*Expense
	summarizeCalls int
}

func newFakeExpensesRepo() *fakeExpensesRepo {
	return &fakeExpensesRepo{expenses: make(map[string]*Expense)}
}

func (r *fakeExpensesRepo) ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, int64, error) {
	items := make([]Expense, 0)
	for _, expense := range r.expenses {
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		items = append(items, *expense)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (r *fakeExpensesRepo) GetExpenseByID(ctx context.Context, expenseID string) (*Expense, error) {
	expense, ok := r.expenses[expenseID]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

func (r *fakeExpensesRepo) CreateExpense(ctx context.Context, expense *Expense) error {
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeExpensesRepo) SetReceiptURL(ctx context.Context, expenseID, url string) (bool, error) {
	expense, ok := r.expenses[expenseID]
	if !ok {
		return false, nil
	}
	expense.ReceiptURL = &url
	return true, nil
}

func (r *fakeExpensesRepo) SummarizeCategories(ctx context.Context) ([]CategorySummary, error) {
	r.summarizeCalls++
	totals := make(map[string]*CategorySummary)
	for _, expense := range r.expenses {
		item, ok := totals[expense.Category]
		if !ok {
			item = &CategorySummary{Category: expense.Category, Total: decimal.Zero}
			totals[expense.Category] = item
		}
		item.Count++
		item.Total = item.Total.Add(expense.Amount)
	}
	result := make([]CategorySummary, 0, len(totals))
	for _, item := range totals {
		result = append(result, *item)
	}
	return result, nil
}

type memoryCategoriesCache struct {
	items []CategorySummary
	set   bool
}

func (c *memoryCategoriesCache) Get() ([]CategorySummary, bool) {
	return c.items, c.set
}

func (c *memoryCategoriesCache) Set(categories []CategorySummary, ttl time.Duration) {
	c.items = categories
	c.set = true
}

func (c *memoryCategoriesCache) Delete() {
	c.items = nil
	c.set = false
}

func validInput() CreateExpenseInput {
	return CreateExpenseInput{
		Category:    "Utilities",
		Amount:      decimal.RequireFromString("45.50"),
		Description: "Electricity for the hall",
		ExpenseDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpenseValidates(t *testing.T) {
	service := NewService(newFakeExpensesRepo(), nil)

	cases := []struct {
		name   string
		mutate func(*CreateExpenseInput)
		want   error
	}{
		{name: "category", mutate: func(in *CreateExpenseInput) { in.Category = " " }, want: ErrCategoryRequired},
		{name: "amount", mutate: func(in *CreateExpenseInput) { in.Amount = decimal.Zero }, want: ErrInvalidAmount},
		{name: "amount too large", mutate: func(in *CreateExpenseInput) { in.Amount = decimal.NewFromInt(10_000_000_000) }, want: ErrInvalidAmount},
		{name: "description", mutate: func(in *CreateExpenseInput) { in.Description = "" }, want: ErrDescriptionMissing},
		{name: "date", mutate: func(in *CreateExpenseInput) { in.ExpenseDate = time.Time{} }, want: ErrDateRequired},
		{name: "receipt", mutate: func(in *CreateExpenseInput) { in.ReceiptURL = "ftp://x/y" }, want: ErrInvalidReceiptURL},
	}

	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)
		_, err := service.CreateExpense(context.Background(), input)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateExpenseInvalidatesCategoriesAndRunsHooks(t *testing.T) {
	repo := newFakeExpensesRepo()
	cache := &memoryCategoriesCache{}
	service := NewService(repo, cache)
	calls := 0
	service.OnChange(func() { calls++ })

	if _, err := service.ListCategories(context.Background()); err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if !cache.set {
		t.Fatalf("expected categories to be cached")
	}

	created, err := service.CreateExpense(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cache.set {
		t.Fatalf("expected cache to be invalidated")
	}
	if calls != 1 {
		t.Fatalf("expected 1 hook call, got %d", calls)
	}

	categories, err := service.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 || categories[0].Count != 1 || !categories[0].Total.Equal(created.Amount) {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if repo.summarizeCalls != 2 {
		t.Fatalf("expected 2 summarize calls, got %d", repo.summarizeCalls)
	}

	if _, err := service.ListCategories(context.Background()); err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if repo.summarizeCalls != 2 {
		t.Fatalf("expected cached read, got %d summarize calls", repo.summarizeCalls)
	}
}

func TestAttachReceipt(t *testing.T) {
	repo := newFakeExpensesRepo()
	service := NewService(repo, nil)

	created, err := service.CreateExpense(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	url := "https://storage.example.com/expense-receipts/general/1_ab.png"
	if err := service.AttachReceipt(context.Background(), created.ID, url); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.expenses[created.ID].ReceiptURL == nil || *repo.expenses[created.ID].ReceiptURL != url {
		t.Fatalf("expected receipt url to be set")
	}

	err = service.AttachReceipt(context.Background(), "6a1b2c3d-0000-4000-8000-000000000000", url)
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}
