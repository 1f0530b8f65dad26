// Package mailer provides functionality to send emails over SMTP.
//
// The notifier worker uses it to tell users that an item they saved has been
// resolved. Any SMTP relay with PLAIN auth works; Mailtrap is handy for
// development (smtp.mailtrap.io, port 2525).
package mailer

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Sender sends a single message.
type Sender interface {
	Send(recipient, subject, body string) error
}

// Config contains the SMTP relay settings.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer sends mail through an SMTP relay with PLAIN authentication.
type SMTPMailer struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New validates cfg and returns an SMTPMailer.
func New(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, errors.New("SMTP host and port must be provided")
	}
	if cfg.User == "" || cfg.Pass == "" {
		return nil, errors.New("SMTP username and password must be provided")
	}
	if cfg.From == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}, nil
}

// Send sends an email to recipient.
//
// Parameters:
//
//	recipient: The email address of the recipient. Cannot be empty.
//	subject:   The subject line of the email. Cannot be empty.
//	body:      Plain text or HTML. The Content-Type is inferred from
//	           basic HTML tags (<html>, <p>).
//
// Returns an error if a parameter is empty, the connection or SMTP
// authentication fails, or the server rejects the message.
func (m *SMTPMailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	message := BuildMessage(m.cfg.From, recipient, subject, body)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := m.send(addr, auth, m.cfg.From, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var headerBreaks = strings.NewReplacer("\r", "", "\n", "")

// BuildMessage renders the RFC 5322 message sent by Send. Line breaks are
// removed from header values and a non-ASCII subject is RFC 2047 encoded.
func BuildMessage(from, to, subject, body string) []byte {
	from = headerBreaks.Replace(from)
	to = headerBreaks.Replace(to)
	subject = mime.QEncoding.Encode("utf-8", headerBreaks.Replace(subject))

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, contentType, body))
}
