package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/logging"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
)

// bookableFrom — самый ранний момент, который можно забронировать:
// позднее из now+12h и локальной полуночи завтрашнего дня.
func (s *Service) bookableFrom(now time.Time) time.Time {
	cutoff := calendar.BookingCutoff(now)
	tomorrow := s.tz.At(s.tz.Tomorrow(now), 0)
	if tomorrow.After(cutoff) {
		return tomorrow
	}
	return cutoff
}

// ListAvailableSlots отдаёт свободные слоты на локальную дату date по возрастанию времени.
// Пустой результат: KindNotAvailable.
func (s *Service) ListAvailableSlots(
	ctx context.Context,
	p *access.Principal,
	date calendar.Date,
	page calendar.PageRequest,
) (calendar.Page[AvailableSlot], error) {
	if err := access.Authorize(p, access.OpListAvailableSlots); err != nil {
		return calendar.Page[AvailableSlot]{}, err
	}

	now := s.clock.Now()
	if !date.After(s.tz.Today(now)) {
		return calendar.Page[AvailableSlot]{}, apperr.NotAvailable("no slots available for %s", date)
	}

	from, to := s.tz.DayBounds(date)
	slots, err := s.store.Slots().ListAvailable(ctx, from, to, s.bookableFrom(now))
	if err != nil {
		return calendar.Page[AvailableSlot]{}, err
	}
	if len(slots) == 0 {
		return calendar.Page[AvailableSlot]{}, apperr.NotAvailable("no slots available for %s", date)
	}

	out := make([]AvailableSlot, 0, len(slots))
	for _, sl := range slots {
		out = append(out, AvailableSlot{ID: sl.ID, Instant: sl.Instant.UTC(), Local: s.tz.Normalize(sl.Instant)})
	}
	return calendar.Paginate(out, page), nil
}

// ListBookedSlots: занятые слоты для персонала, пустой результат даёт KindNotFound.
func (s *Service) ListBookedSlots(ctx context.Context, p *access.Principal, q BookedQuery) (calendar.Page[Booking], error) {
	if err := access.Authorize(p, access.OpListBookedSlots); err != nil {
		return calendar.Page[Booking]{}, err
	}

	now := s.clock.Now()
	var filter repository.BookedFilter
	if q.Date != nil {
		from, to := s.tz.DayBounds(*q.Date)
		filter.From, filter.To = &from, &to
	}
	switch q.When {
	case WhenFuture:
		if filter.From == nil || filter.From.Before(now) {
			filter.From = &now
		}
	case WhenPast:
		if filter.To == nil || filter.To.After(now) {
			filter.To = &now
		}
	}

	return s.listBookings(ctx, filter, q.Page)
}

// ListMyBookings отдаёт бронирования вызывающего пользователя, прошлые и будущие.
func (s *Service) ListMyBookings(ctx context.Context, p *access.Principal, page calendar.PageRequest) (calendar.Page[Booking], error) {
	if err := access.Authorize(p, access.OpListMyBookings); err != nil {
		return calendar.Page[Booking]{}, err
	}
	userID := p.UserID
	return s.listBookings(ctx, repository.BookedFilter{UserID: &userID}, page)
}

func (s *Service) listBookings(ctx context.Context, filter repository.BookedFilter, page calendar.PageRequest) (calendar.Page[Booking], error) {
	slots, err := s.store.Bookings().ListBooked(ctx, filter)
	if err != nil {
		return calendar.Page[Booking]{}, err
	}
	if len(slots) == 0 {
		return calendar.Page[Booking]{}, apperr.NotFound("bookings not found")
	}
	out := make([]Booking, 0, len(slots))
	for i := range slots {
		out = append(out, toBooking(&slots[i], s.tz))
	}
	return calendar.Paginate(out, page), nil
}

// RequestSlot бронирует свободный слот на услугу serviceID.
//
// Проверка и переключение делаются одним условным UPDATE, поэтому из двух
// одновременных запросов на один слот успешен ровно один, второй получает KindNotAvailable.
func (s *Service) RequestSlot(ctx context.Context, p *access.Principal, slotID, serviceID uuid.UUID) (*Booking, error) {
	log := s.logger(ctx, "RequestSlot", "slot_id", slotID, "service_id", serviceID)

	if err := access.Authorize(p, access.OpRequestSlot); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	notBefore := s.bookableFrom(now)

	var booking Booking
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		svc, err := tx.Services().GetByID(ctx, serviceID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound("service not found")
			}
			return err
		}
		if !svc.IsActive {
			return apperr.NotFound("service not found")
		}

		ok, err := tx.Slots().Reserve(ctx, slotID, p.UserID, serviceID, notBefore)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotAvailable("slot is not available")
		}

		booked, err := tx.Bookings().GetBooked(ctx, slotID)
		if err != nil {
			return err
		}
		booking = toBooking(booked, s.tz)

		userID := p.UserID
		return tx.Events().Record(ctx, model.EventTypeSlotRequested, &userID, &booked.ID, map[string]any{
			"service_id": serviceID.String(),
			"instant":    booked.Instant.UTC().Format(time.RFC3339),
		})
	})
	logging.LogResult(ctx, log, err, "slot request", "user_id", p.UserID)
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, log, &booking,
		notify.BookingConfirmed(slotInfo(&booking), s.tz.Location()),
		"Nuevo turno reservado",
	)
	return &booking, nil
}

// CancelBooking отменяет бронирование владельца (персонал может отменить любое).
//
// Отмена запрещена (KindForbidden), если до начала меньше 24 часов.
// Если время слота всё ещё входит в текущий шаблон, слот освобождается,
// иначе строка удаляется.
func (s *Service) CancelBooking(ctx context.Context, p *access.Principal, slotID uuid.UUID) (*CancelResult, error) {
	log := s.logger(ctx, "CancelBooking", "slot_id", slotID)

	if err := access.Authorize(p, access.OpCancelBooking); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	var result CancelResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		slot, err := tx.Bookings().GetBooked(ctx, slotID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound("booking not found")
			}
			return err
		}
		if slot.UserID == nil {
			return apperr.NotFound("booking not found")
		}
		owner := *slot.UserID
		// чужое бронирование для клиента выглядит как несуществующее
		if owner != p.UserID && !p.IsStaff() {
			return apperr.NotFound("booking not found")
		}

		if !calendar.Cancellable(slot.Instant, now) {
			return apperr.Forbidden("cancellation time limit exceeded")
		}

		cfg, configured, err := tx.Calendar().Current(ctx)
		if err != nil {
			return err
		}

		b := toBooking(slot, s.tz)
		result.Booking = &b

		var changed bool
		var event model.EventType
		if configured && calendar.StillOffered(slot.Instant, cfg.Schedule, s.tz) {
			result.Outcome = OutcomeReleased
			event = model.EventTypeSlotReleased
			changed, err = tx.Slots().Release(ctx, slotID, owner)
		} else {
			result.Outcome = OutcomeDeleted
			event = model.EventTypeSlotDeleted
			changed, err = tx.Slots().DeleteBooked(ctx, slotID, owner)
		}
		if err != nil {
			return err
		}
		if !changed {
			// слот успели отменить параллельно
			return apperr.NotFound("booking not found")
		}

		actor := p.UserID
		return tx.Events().Record(ctx, event, &actor, &slot.ID, map[string]any{
			"owner_id": owner.String(),
			"instant":  slot.Instant.UTC().Format(time.RFC3339),
		})
	})
	logging.LogResult(ctx, log, err, "booking cancellation", "user_id", p.UserID, "outcome", result.Outcome)
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, log, result.Booking,
		notify.BookingCancelled(slotInfo(result.Booking), s.tz.Location()),
		"Turno cancelado",
	)
	return &result, nil
}
