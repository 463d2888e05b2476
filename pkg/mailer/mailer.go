package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"codeshareforum/pkg/config"
)

// Message is one outbound email, batched to every recipient in a single send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a batched message. Implementations report the failure of
// the whole batch; there is no per-recipient result.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr     string
	auth     smtp.Auth
	from     string
	fromName string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:     cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:     auth,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	body := buildMIME(s.fromName, s.from, msg)
	if err := smtp.SendMail(s.addr, s.auth, s.from, msg.To, body); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildMIME(fromName, from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
