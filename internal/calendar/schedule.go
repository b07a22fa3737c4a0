package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

const MaxRangesPerDay = 2

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay — локальное время суток в минутах от полуночи.
type TimeOfDay int

// ParseTimeOfDay разбирает строку HH:mm.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Clock() (hour, minute int) { return int(t) / 60, int(t) % 60 }

func (t TimeOfDay) String() string {
	h, m := t.Clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// TimeRange: полуинтервал [Start, End) локального времени.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (r TimeRange) Contains(t TimeOfDay) bool { return r.Start <= t && t < r.End }

type AttentionDay struct {
	Weekday time.Weekday
	Enabled bool
	Ranges  []TimeRange
}

// WeeklySchedule — недельный шаблон приёма, всегда 7 записей.
type WeeklySchedule []AttentionDay

// Day возвращает запись для дня недели.
func (s WeeklySchedule) Day(w time.Weekday) (AttentionDay, bool) {
	for _, d := range s {
		if d.Weekday == w {
			return d, true
		}
	}
	return AttentionDay{}, false
}

// Covers сообщает, попадает ли локальный день недели и время в один из включённых интервалов.
func (s WeeklySchedule) Covers(w time.Weekday, t TimeOfDay) bool {
	day, ok := s.Day(w)
	if !ok || !day.Enabled {
		return false
	}
	for _, r := range day.Ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// Validate проверяет шаблон целиком. Генератор на невалидном шаблоне не вызывается.
func (s WeeklySchedule) Validate() error {
	v := apperr.NewValidation()
	if len(s) != 7 {
		v.Add("attentionSchedule", "must contain 7 days")
		return v.Err()
	}

	seen := make(map[time.Weekday]bool, 7)
	for i, day := range s {
		field := fmt.Sprintf("attentionSchedule[%d]", i)
		if day.Weekday < time.Sunday || day.Weekday > time.Saturday {
			v.Add(field+".dayIndex", "must be between 0 and 6")
			continue
		}
		if seen[day.Weekday] {
			v.Add(field+".dayIndex", "duplicate day")
			continue
		}
		seen[day.Weekday] = true

		if len(day.Ranges) > MaxRangesPerDay {
			v.Add(field+".timeSlots", "at most 2 time slots per day")
			continue
		}
		if !day.Enabled {
			continue
		}
		if len(day.Ranges) == 0 {
			v.Add(field+".timeSlots", "enabled day needs at least one time slot")
			continue
		}
		for _, r := range day.Ranges {
			if r.Start >= r.End {
				v.Add(field+".timeSlots", "start must be before end")
				break
			}
		}
		if len(day.Ranges) == 2 && day.Ranges[0].End > day.Ranges[1].Start {
			v.Add(field+".timeSlots", "time slots must not overlap and must be ordered")
		}
	}
	return v.Err()
}

// Configuration хранит интервал, дата окончания и недельный шаблон.
type Configuration struct {
	IntervalMinutes int
	Deadline        Date
	Schedule        WeeklySchedule
}

// Validate проверяет интервал и дату окончания относительно now.
// Дата окончания должна быть строго позже завтрашнего дня.
func (c Configuration) Validate(now time.Time, n Normalizer) error {
	v := apperr.NewValidation()
	if c.IntervalMinutes < 1 {
		v.Add("interval", "must be at least 1 minute")
	}
	if c.Deadline.IsZero() {
		v.Add("deadline", "is required")
	} else if !c.Deadline.After(n.Tomorrow(now)) {
		v.Add("deadline", "must be after tomorrow")
	}
	if err := c.Schedule.Validate(); err != nil {
		for field, msg := range apperr.FieldsOf(err) {
			v.Add(field, msg)
		}
	}
	return v.Err()
}
