package notify

import (
	"context"

	remindersdomain "dues-app-go/internal/domain/reminders"
	"dues-app-go/pkg/logger"
)

// LogNotifier writes reminders to the application log instead of sending them.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient remindersdomain.Recipient, message string) error {
	n.log.Info("notify.log: reminder",
		"member_id", recipient.MemberID,
		"name", recipient.Name,
		"phone", recipient.Phone,
		"message", message,
	)
	return nil
}
