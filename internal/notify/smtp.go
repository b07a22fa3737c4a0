package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Leganyst/appointment-booking/internal/config"
)

// SMTPNotifier отправляет письма через SMTP с PLAIN-аутентификацией.
type SMTPNotifier struct {
	addr string
	host string
	from string
	auth smtp.Auth

	// подменяется в тестах
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:     cfg.Host,
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return errors.New("notify: no recipients")
	}

	raw := n.build(to, msg)

	// net/smtp не принимает контекст: ждём в горутине и выходим по отмене
	done := make(chan error, 1)
	go func() { done <- n.sendMail(n.addr, n.auth, n.from, to, raw) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notify: send to %s: %w", strings.Join(to, ","), err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *SMTPNotifier) build(to []string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: \"Turnos\" <%s>\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// New выбирает SMTP, если он настроен, иначе LogNotifier.
func New(cfg config.SMTPConfig, fallback *LogNotifier) Notifier {
	if cfg.Enabled() {
		return NewSMTPNotifier(cfg)
	}
	return fallback
}
