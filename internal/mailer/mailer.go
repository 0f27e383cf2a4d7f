// Package mailer implements the outbound e-mail channel of the account
// service. It renders HTML bodies for account-lifecycle notifications and
// delivers them over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/MKhiriev/go-user-accounts/internal/config"
	"github.com/MKhiriev/go-user-accounts/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is a single outbound e-mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use; delivery failures are reported via the returned error and
// never panic.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender is the gomail-backed [Sender] implementation.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender constructs an [SMTPSender] from the mail configuration.
func NewSMTPSender(cfg config.Mail) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers msg over SMTP. Each call dials a fresh connection; callers
// are expected to invoke it from a background worker, not the request path.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}

// LogSender is a [Sender] that only logs outbound messages. It is used when
// no SMTP host is configured (local development) and in tests.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender constructs a [LogSender] writing through the given logger.
func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(msg Message) error {
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("outbound email (log-only sender)")
	return nil
}

// BuildConfirmationEmail renders the e-mail asking a freshly registered user
// to confirm their address by following callbackURL.
func BuildConfirmationEmail(to, name, callbackURL string) (Message, error) {
	body, err := renderTemplate("confirmation_email.html", map[string]string{
		"Name":        name,
		"CallbackURL": callbackURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       to,
		Subject:  "Confirm your email",
		HTMLBody: body,
	}, nil
}

// BuildPasswordResetEmail renders the e-mail carrying a password-reset
// callback link.
func BuildPasswordResetEmail(to, name, callbackURL string) (Message, error) {
	body, err := renderTemplate("password_reset_email.html", map[string]string{
		"Name":        name,
		"CallbackURL": callbackURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       to,
		Subject:  "Reset Password",
		HTMLBody: body,
	}, nil
}

func renderTemplate(templateFileName string, data any) (string, error) {
	t, err := template.ParseFS(templateFS, "templates/"+templateFileName)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateFileName, err)
	}

	buf := new(bytes.Buffer)
	if err = t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateFileName, err)
	}

	return buf.String(), nil
}
