package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"quizforge/internal/config"
)

// EmailSender delivers notification emails.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPEmailSender implements EmailSender over plain SMTP with AUTH.
type SMTPEmailSender struct {
	cfg *config.SMTPConfig
}

// NewSMTPEmailSender creates an SMTP-backed email sender.
func NewSMTPEmailSender(cfg *config.SMTPConfig) EmailSender {
	return &SMTPEmailSender{cfg: cfg}
}

// Send delivers one plain-text email.
func (s *SMTPEmailSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
