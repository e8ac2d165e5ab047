package reminders

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]ReminderWithMember, int64, error)
	GetByID(ctx context.Context, id string) (*ReminderWithMember, error)
	Create(ctx context.Context, reminders []Reminder) error
	MarkResult(ctx context.Context, id string, status Status, sentAt *time.Time, errMessage *string) error
}
