package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier implements ports.Notifier over a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
	send sendFunc
}

// NewSMTPNotifier builds a notifier. PLAIN auth is only used when a username is set.
func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

// Send delivers a plain-text message to a single recipient.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return errors.New("smtp send: header contains line break")
	}

	if err := n.send(n.addr, n.auth, n.from, []string{to}, n.message(to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", n.addr, err)
	}
	return nil
}

func (n *SMTPNotifier) message(to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + n.from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
