// Package notify delivers alerts for high-scoring setups.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/pkg/utils"
)

// Setup is one alert-worthy detection.
type Setup struct {
	Symbol    string
	Pattern   string
	Status    string
	Score     float64
	Pivot     float64
	StopLoss  float64
	Target    float64
	ChartPath string
}

// Notifier delivers a batch of setups.
type Notifier interface {
	Notify(ctx context.Context, setups []Setup) error
}

// EmailConfig holds SMTP settings for the email notifier.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Email sends setup alerts over SMTP.
type Email struct {
	cfg   EmailConfig
	retry utils.RetryConfig
}

// NewEmail builds an SMTP notifier.
func NewEmail(cfg EmailConfig) (*Email, error) {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return nil, errors.NewValidationError("email", cfg.Host, "host and recipients required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Email{cfg: cfg, retry: utils.DefaultRetryConfig()}, nil
}

// Notify emails one message summarizing all setups. An empty batch is a
// no-op.
func (e *Email) Notify(ctx context.Context, setups []Setup) error {
	if len(setups) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Pattern scan: %d setup(s) found", len(setups))
	body := formatBody(setups)
	msg := buildMessage(e.cfg.From, e.cfg.To, subject, body)

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	return utils.Retry(ctx, e.retry, func() error {
		return smtp.SendMail(addr, auth, e.cfg.From, e.cfg.To, msg)
	})
}

func formatBody(setups []Setup) string {
	var b strings.Builder
	for _, s := range setups {
		fmt.Fprintf(&b, "%s — %s (%s)\n", s.Symbol, s.Pattern, s.Status)
		fmt.Fprintf(&b, "  Score:  %.0f\n", s.Score)
		fmt.Fprintf(&b, "  Entry:  %.2f\n", s.Pivot)
		fmt.Fprintf(&b, "  Stop:   %.2f\n", s.StopLoss)
		fmt.Fprintf(&b, "  Target: %.2f\n", s.Target)
		if s.ChartPath != "" {
			fmt.Fprintf(&b, "  Chart:  %s\n", s.ChartPath)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
