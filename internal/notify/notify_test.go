package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"dues-app-go/internal/config"
	remindersdomain "dues-app-go/internal/domain/reminders"
	"dues-app-go/pkg/logger"
	"github.com/mailgun/mailgun-go/v4"
)

func TestNewFallsBackToLogNotifier(t *testing.T) {
	notifier := New(config.MailConfig{Provider: "mailgun", MailgunDomain: "mg.example.com"}, logger.Discard())
	if _, ok := notifier.(*LogNotifier); !ok {
		t.Fatalf("expected log notifier, got %T", notifier)
	}
}

func TestNewBuildsMailgunNotifier(t *testing.T) {
	notifier := New(config.MailConfig{
		Provider:      "Mailgun",
		MailgunDomain: "mg.example.com",
		MailgunAPIKey: "key-123",
		SenderEmail:   "treasurer@example.com",
		SenderName:    "Treasury",
	}, logger.Discard())
	if _, ok := notifier.(*MailgunNotifier); !ok {
		t.Fatalf("expected mailgun notifier, got %T", notifier)
	}
}

func TestLogNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(logger.New(&buf, slog.LevelInfo, "text"))

	err := notifier.Notify(context.Background(), remindersdomain.Recipient{MemberID: "m-1", Name: "Ama"}, "please pay")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "member_id=m-1") {
		t.Fatalf("expected member id in log, got %s", buf.String())
	}
}

func TestMailgunNotifierRequiresEmail(t *testing.T) {
	notifier := NewMailgunNotifier(mailgun.NewMailgun("mg.example.com", "key"), "a@example.com", "Treasury", logger.Discard())
	err := notifier.Notify(context.Background(), remindersdomain.Recipient{MemberID: "m-1"}, "hello")
	if !errors.Is(err, ErrNoEmail) {
		t.Fatalf("expected ErrNoEmail, got %v", err)
	}
}
