package notify

import (
	"strings"

	"dues-app-go/internal/config"
	remindersdomain "dues-app-go/internal/domain/reminders"
	"dues-app-go/pkg/logger"
	"github.com/mailgun/mailgun-go/v4"
)

// New picks the reminder delivery channel. An incomplete Mailgun setup falls
// back to the log notifier so reminders can still be exercised locally.
func New(cfg config.MailConfig, log logger.Logger) remindersdomain.Notifier {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	log.Info("notify: initializing", "provider", provider)

	switch provider {
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.SenderEmail == "" {
			log.Warn("notify: mailgun configuration incomplete, falling back to log notifier")
			return NewLogNotifier(log)
		}
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
		log.Info("notify: mailgun client initialized", "domain", cfg.MailgunDomain)
		return NewMailgunNotifier(mg, cfg.SenderEmail, cfg.SenderName, log)
	default:
		return NewLogNotifier(log)
	}
}
