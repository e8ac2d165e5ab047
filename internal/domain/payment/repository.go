package payment

import (
	"context"

	memberdomain "dues-app-go/internal/domain/member"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]PaymentWithMember, int64, error)
	GetByID(ctx context.Context, id string) (*PaymentWithMember, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]Payment, int64, error)
	LockMember(ctx context.Context, memberID string) (*memberdomain.Member, error)
	Create(ctx context.Context, payment *Payment) error
	SettleOwingMonths(ctx context.Context, memberID string, months []string) ([]string, error)
	AddCreditMonths(ctx context.Context, memberID string, months []memberdomain.MonthAmount) error
	SumOwing(ctx context.Context, memberID string) (decimal.Decimal, error)
	ApplyTotals(ctx context.Context, memberID string, paidDelta, totalOwing decimal.Decimal) error
}
