package email

import (
	"fmt"
	"log/slog"

	"github.com/rocketpool/rocketpool-web/internal/config"
)

// NewSender creates an email sender based on the configuration.
func NewSender(cfg config.Provider) (Sender, error) {
	switch cfg.GetEmailProvider() {
	case "", "log":
		return NewLogSender(cfg.GetEmailSender(), slog.Default()), nil
	case "resend":
		if cfg.GetEmailAPIKey() == "" {
			return nil, fmt.Errorf("email provider is 'resend' but EMAIL_API_KEY is not set")
		}
		return NewResendSender(cfg.GetEmailAPIKey(), cfg.GetEmailSender()), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.GetEmailProvider())
	}
}
