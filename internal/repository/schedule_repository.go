package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/model"
)

// ScheduleRepository хранит текущую конфигурацию календаря.
type ScheduleRepository interface {
	// Current возвращает сохранённую конфигурацию; ok == false, если её ещё не задавали.
	Current(ctx context.Context) (cfg calendar.Configuration, ok bool, err error)
	// Replace заменяет недельный шаблон и политику целиком.
	// Вызывать внутри транзакции вместе со сверкой слотов.
	Replace(ctx context.Context, cfg calendar.Configuration) error
}

type GormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func (r *GormScheduleRepository) Current(ctx context.Context) (calendar.Configuration, bool, error) {
	var policy model.CalendarPolicy
	err := r.db.WithContext(ctx).First(&policy, "id = ?", model.CalendarPolicyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return calendar.Configuration{}, false, nil
	}
	if err != nil {
		return calendar.Configuration{}, false, translate(err, "load calendar policy")
	}

	var settings []model.CalendarSetting
	if err := r.db.WithContext(ctx).Order("weekday ASC").Find(&settings).Error; err != nil {
		return calendar.Configuration{}, false, translate(err, "load calendar settings")
	}

	cfg := calendar.Configuration{
		IntervalMinutes: policy.IntervalMinutes,
		Deadline:        calendar.DateOf(time.Time(policy.Deadline).UTC()),
		Schedule:        make(calendar.WeeklySchedule, 0, len(settings)),
	}
	for _, s := range settings {
		cfg.Schedule = append(cfg.Schedule, settingToDay(s))
	}
	return cfg, true, nil
}

func (r *GormScheduleRepository) Replace(ctx context.Context, cfg calendar.Configuration) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("1 = 1").Delete(&model.CalendarSetting{}).Error; err != nil {
		return translate(err, "clear calendar settings")
	}

	settings := make([]model.CalendarSetting, 0, len(cfg.Schedule))
	for _, day := range cfg.Schedule {
		settings = append(settings, dayToSetting(day))
	}
	if len(settings) > 0 {
		if err := db.Create(&settings).Error; err != nil {
			return translate(err, "save calendar settings")
		}
	}

	d := cfg.Deadline
	policy := model.CalendarPolicy{
		ID:              model.CalendarPolicyID,
		IntervalMinutes: cfg.IntervalMinutes,
		Deadline:        datatypes.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"interval_minutes", "deadline", "updated_at"}),
	}).Create(&policy).Error
	return translate(err, "save calendar policy")
}

func dayToSetting(day calendar.AttentionDay) model.CalendarSetting {
	s := model.CalendarSetting{
		Weekday: int(day.Weekday),
		Enabled: day.Enabled,
	}
	if len(day.Ranges) > 0 {
		s.FirstStart = toDBTime(day.Ranges[0].Start)
		s.FirstEnd = toDBTime(day.Ranges[0].End)
	}
	if len(day.Ranges) > 1 {
		s.SecondStart = toDBTime(day.Ranges[1].Start)
		s.SecondEnd = toDBTime(day.Ranges[1].End)
	}
	return s
}

func settingToDay(s model.CalendarSetting) calendar.AttentionDay {
	day := calendar.AttentionDay{
		Weekday: time.Weekday(s.Weekday),
		Enabled: s.Enabled,
	}
	if s.FirstStart != nil && s.FirstEnd != nil {
		day.Ranges = append(day.Ranges, calendar.TimeRange{Start: fromDBTime(*s.FirstStart), End: fromDBTime(*s.FirstEnd)})
	}
	if s.SecondStart != nil && s.SecondEnd != nil {
		day.Ranges = append(day.Ranges, calendar.TimeRange{Start: fromDBTime(*s.SecondStart), End: fromDBTime(*s.SecondEnd)})
	}
	return day
}

func toDBTime(t calendar.TimeOfDay) *datatypes.Time {
	h, m := t.Clock()
	v := datatypes.NewTime(h, m, 0, 0)
	return &v
}

func fromDBTime(t datatypes.Time) calendar.TimeOfDay {
	return calendar.TimeOfDay(time.Duration(t) / time.Minute)
}
