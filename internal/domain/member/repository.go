package member

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Member, int64, error)
	ListWithOwing(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	LockByID(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	SoftDelete(ctx context.Context, id string) (bool, error)
	CountByEmail(ctx context.Context, email, excludeID string) (int64, error)
	CountByPhone(ctx context.Context, phone, excludeID string) (int64, error)
	MonthsByMemberIDs(ctx context.Context, ids []string) (map[string]Months, error)
	AddOwingMonths(ctx context.Context, memberID string, months []MonthAmount) error
	SumOwing(ctx context.Context, memberID string) (decimal.Decimal, error)
	SetTotalOwing(ctx context.Context, memberID string, total decimal.Decimal) error
	Stats(ctx context.Context, yearStart time.Time) (Stats, error)
}
