package booking

import (
	"context"
	"time"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/logging"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/repository"
	"github.com/Leganyst/appointment-booking/internal/validation"
)

// ConfigureCalendar заменяет недельный шаблон и приводит таблицу слотов в соответствие с ним.
//
// Шаги:
//  1. проверка доступа и входных данных;
//  2. генерация кандидатов с завтрашнего дня до deadline;
//  3. в одной транзакции: сверка, удаление выпавших свободных слотов,
//     вставка новых, замена конфигурации, запись события.
//
// Занятые слоты не удаляются никогда.
func (s *Service) ConfigureCalendar(ctx context.Context, p *access.Principal, in ConfigureInput) (ConfigureResult, error) {
	log := s.logger(ctx, "ConfigureCalendar")

	if err := access.Authorize(p, access.OpConfigureCalendar); err != nil {
		return ConfigureResult{}, err
	}
	if err := validation.Struct(in); err != nil {
		return ConfigureResult{}, err
	}
	cfg, err := in.configuration()
	if err != nil {
		return ConfigureResult{}, err
	}

	now := s.clock.Now()
	if err := cfg.Validate(now, s.tz); err != nil {
		return ConfigureResult{}, err
	}

	candidates := calendar.Generate(cfg.Schedule, cfg.IntervalMinutes, cfg.Deadline, now, s.tz)
	res := ConfigureResult{Generated: len(candidates)}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		persisted, err := tx.Slots().ListAll(ctx)
		if err != nil {
			return err
		}
		existing := make([]calendar.PersistedSlot, 0, len(persisted))
		for _, sl := range persisted {
			existing = append(existing, calendar.PersistedSlot{ID: sl.ID, Instant: sl.Instant, Available: sl.Available})
		}

		plan := calendar.Reconcile(existing, candidates)

		// условие available = true внутри DELETE: слот, занятый после чтения, останется
		deleted, err := tx.Slots().DeleteAvailable(ctx, plan.Delete)
		if err != nil {
			return err
		}

		instants := make([]time.Time, 0, len(plan.Insert))
		for _, c := range plan.Insert {
			instants = append(instants, c.Instant)
		}
		if err := tx.Slots().InsertAvailable(ctx, instants); err != nil {
			return err
		}
		if err := tx.Calendar().Replace(ctx, cfg); err != nil {
			return err
		}

		res.Deleted = int(deleted)
		res.Inserted = len(instants)
		res.Kept = plan.Kept
		res.Orphaned = len(plan.Orphaned)

		actor := p.UserID
		return tx.Events().Record(ctx, model.EventTypeCalendarConfigured, &actor, nil, map[string]any{
			"interval": cfg.IntervalMinutes,
			"deadline": cfg.Deadline.String(),
			"inserted": res.Inserted,
			"deleted":  res.Deleted,
			"kept":     res.Kept,
			"orphaned": res.Orphaned,
		})
	})
	logging.LogResult(ctx, log, err, "calendar configuration",
		"generated", res.Generated,
		"inserted", res.Inserted,
		"deleted", res.Deleted,
		"orphaned", res.Orphaned,
	)
	if err != nil {
		return ConfigureResult{}, err
	}
	return res, nil
}

// GetCalendar возвращает текущую конфигурацию для формы администратора.
func (s *Service) GetCalendar(ctx context.Context, p *access.Principal) (calendar.Configuration, error) {
	if err := access.Authorize(p, access.OpGetCalendar); err != nil {
		return calendar.Configuration{}, err
	}
	cfg, ok, err := s.store.Calendar().Current(ctx)
	if err != nil {
		return calendar.Configuration{}, err
	}
	if !ok {
		return calendar.Configuration{}, apperr.NotFound("calendar is not configured")
	}
	return cfg, nil
}
