// Package notify отправляет уведомления о бронированиях.
// Доставка best effort: вызывающий код логирует ошибку и продолжает.
package notify

import (
	"context"
	"log/slog"
	"strings"
)

// Message — одно письмо.
type Message struct {
	To      []string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier пишет письма в лог. Используется, когда SMTP не настроен.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.log.InfoContext(ctx, "email not configured, message logged",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return nil
}

// Nop ничего не отправляет.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }
