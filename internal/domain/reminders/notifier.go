package reminders

import "context"

// Notifier delivers a reminder message to a member.
type Notifier interface {
	Notify(ctx context.Context, recipient Recipient, message string) error
}
