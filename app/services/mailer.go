package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{config: cfg}
}

func buildMessage(from, to, subject, body string) []byte {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=\"UTF-8\""},
	}
	var sb strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&sb, "%s: %s\r\n", h[0], h[1])
	}
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

func (m *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)
	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, buildMessage(m.config.From, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// GmailSender delivers through the Gmail API using a stored OAuth token.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

func NewGmailSender(ctx context.Context, credentialsFile, tokenFile, from string) (*GmailSender, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parse gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService: %w", err)
	}
	return &GmailSender{svc: svc, from: from}, nil
}

func (g *GmailSender) Send(ctx context.Context, to, subject, body string) error {
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(buildMessage(g.from, to, subject, body))}
	if _, err := g.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send to %s: %w", to, err)
	}
	return nil
}

// LogSender only logs outgoing mail.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, to, subject, body string) error {
	l.logger.Info("email", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// Notifier sends mail in the background. Failures are logged, not retried.
type Notifier struct {
	sender  EmailSender
	logger  *zap.Logger
	timeout time.Duration
}

func NewNotifier(sender EmailSender, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger, timeout: 30 * time.Second}
}

func (n *Notifier) SendAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, to, subject, body); err != nil {
			n.logger.Error("email delivery failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		}
	}()
}

func ConfirmationEmailBody(username, link string) string {
	return fmt.Sprintf("Hello %s,\n\nPlease confirm your email address by following this link:\n%s\n\nIf you did not sign up for SellUp, ignore this message.\n", username, link)
}

func PasswordResetEmailBody(link string, validFor time.Duration) string {
	return fmt.Sprintf("A password reset was requested for your SellUp account.\n\nFollow this link to choose a new password:\n%s\n\nThe link is valid for %d hours. If you did not request it, ignore this message.\n", link, int(validFor.Hours()))
}
