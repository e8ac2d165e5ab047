package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	remindersdomain "dues-app-go/internal/domain/reminders"
	"dues-app-go/pkg/logger"
	"github.com/mailgun/mailgun-go/v4"
)

const (
	reminderSubject = "Membership dues reminder"
	sendTimeout     = 20 * time.Second
)

var ErrNoEmail = errors.New("member has no email address")

type MailgunNotifier struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
	log         logger.Logger
}

func NewMailgunNotifier(mg mailgun.Mailgun, senderEmail, senderName string, log logger.Logger) *MailgunNotifier {
	return &MailgunNotifier{
		mg:          mg,
		senderEmail: senderEmail,
		senderName:  senderName,
		log:         log,
	}
}

func (n *MailgunNotifier) Notify(ctx context.Context, recipient remindersdomain.Recipient, message string) error {
	if recipient.Email == nil || *recipient.Email == "" {
		return ErrNoEmail
	}

	from := fmt.Sprintf("%s <%s>", n.senderName, n.senderEmail)
	msg := n.mg.NewMessage(from, reminderSubject, message, *recipient.Email)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, id, err := n.mg.Send(ctx, msg)
	if err != nil {
		n.log.InternalError("notify.mailgun: send failed", err, "member_id", recipient.MemberID, "response", resp)
		return fmt.Errorf("mailgun send: %w", err)
	}

	n.log.Info("notify.mailgun: reminder sent", "member_id", recipient.MemberID, "id", id)
	return nil
}
