// Package booking — ядро бронирования: настройка календаря, сверка слотов,
// запрос и отмена бронирований.
//
// Каждая операция читает часы один раз и проверяет доступ до любого обращения к хранилищу.
package booking

import (
	"context"
	"log/slog"

	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/logging"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
)

const serviceName = "booking"

type Service struct {
	store    repository.Store
	clock    calendar.Clock
	tz       calendar.Normalizer
	notifier notify.Notifier
	opsEmail string
	log      *slog.Logger
}

type Options struct {
	Clock    calendar.Clock
	TimeZone calendar.Normalizer
	Notifier notify.Notifier
	// адрес для копий уведомлений, пустой отключает копии
	OpsEmail string
	Logger   *slog.Logger
}

func NewService(store repository.Store, opts Options) *Service {
	s := &Service{
		store:    store,
		clock:    opts.Clock,
		tz:       opts.TimeZone,
		notifier: opts.Notifier,
		opsEmail: opts.OpsEmail,
		log:      logging.Default(opts.Logger),
	}
	if s.clock == nil {
		s.clock = calendar.SystemClock{}
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	return s
}

func (s *Service) TimeZone() calendar.Normalizer { return s.tz }

func (s *Service) logger(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.ForOperation(ctx, s.log, serviceName, operation, attrs...)
}

// notifyBooking отправляет письмо клиенту и копию администрации.
// Ошибки только логируются: результат операции от доставки не зависит.
func (s *Service) notifyBooking(ctx context.Context, log *slog.Logger, b *Booking, userMsg notify.Message, opsAction string) {
	if b.UserEmail != "" {
		if err := s.notifier.Send(ctx, userMsg); err != nil {
			log.WarnContext(ctx, "user notification failed", "error", err)
		}
	}
	if s.opsEmail != "" {
		if err := s.notifier.Send(ctx, notify.OpsNotice(s.opsEmail, opsAction, slotInfo(b), s.tz.Location())); err != nil {
			log.WarnContext(ctx, "ops notification failed", "error", err)
		}
	}
}

func slotInfo(b *Booking) notify.SlotInfo {
	return notify.SlotInfo{
		SlotID:      b.SlotID.String(),
		Start:       b.Instant,
		Duration:    b.Duration(),
		ServiceName: b.ServiceName,
		Price:       b.Price,
		UserName:    b.UserName,
		UserEmail:   b.UserEmail,
		UserPhone:   b.UserPhone,
	}
}
