package analytics

import (
	"context"
	"time"
)

// Range bounds are inclusive of from and exclusive of to.
type Repository interface {
	PaymentsBetween(ctx context.Context, from, to time.Time) ([]PaymentPoint, error)
	DonationsBetween(ctx context.Context, from, to time.Time) ([]DonationPoint, error)
	ExpensesBetween(ctx context.Context, from, to time.Time) ([]ExpensePoint, error)
	MemberCounts(ctx context.Context) (MemberCounts, error)
	RecentPayments(ctx context.Context, limit int) ([]Activity, error)
}
