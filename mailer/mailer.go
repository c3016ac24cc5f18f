// Package mailer delivers transactional email, currently only the password
// reset message.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	gomail "gopkg.in/mail.v2"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
)

const resetSubject = "[v3blogs] Reset Your Password"

type Mailer interface {
	SendPasswordReset(ctx context.Context, user *models.User, token string) error
}

var resetTemplate = template.Must(template.New("reset_password").Parse(
	`Dear {{.Username}},

To reset your password click on the following link:

{{.Link}}

If you have not requested a password reset simply ignore this message.

Sincerely,

The v3blogs Team
`))

type resetContext struct {
	Username string
	Link     string
}

// ResetLink is the frontend URL a user follows to choose a new password.
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset_password/" + token
}

func renderResetBody(user *models.User, link string) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, &resetContext{Username: user.Username, Link: link}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	sender      string
	frontendURL string
}

func NewSMTPMailer(cfg config.MailConfig, frontendURL string) *SMTPMailer {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	if cfg.UseTLS {
		d.StartTLSPolicy = gomail.MandatoryStartTLS
	}
	return &SMTPMailer{dialer: d, sender: cfg.Sender, frontendURL: frontendURL}
}

func (m *SMTPMailer) buildResetMessage(user *models.User, token string) (*gomail.Message, error) {
	body, err := renderResetBody(user, ResetLink(m.frontendURL, token))
	if err != nil {
		return nil, fmt.Errorf("render reset email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetAddressHeader("To", user.Email, user.Username)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", body)
	return msg, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	msg, err := m.buildResetMessage(user, token)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send reset email to user %d: %w", user.ID, err)
	}
	return nil
}

// LogMailer stands in when no SMTP server is configured. It records that a
// message would have been sent; the token itself is never logged.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, user *models.User, _ string) error {
	m.log.WithUserID(user.ID).Info("MAIL_SERVER not set, password reset email not sent")
	return nil
}

// New picks the SMTP mailer when a server is configured.
func New(cfg *config.Config, log *logger.Logger) Mailer {
	if cfg.Mail.Server == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg.Mail, cfg.FrontendURL)
}
