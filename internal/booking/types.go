package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/model"
)

// TimeRangeInput: интервал приёма в формате HH:mm.
type TimeRangeInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayInput struct {
	DayIndex  *int             `json:"dayIndex" validate:"required,min=0,max=6"`
	Day       string           `json:"day"`
	Enabled   bool             `json:"checked"`
	TimeSlots []TimeRangeInput `json:"timeSlots" validate:"max=2"`
}

// ConfigureInput приходит в ConfigureCalendar.
type ConfigureInput struct {
	AttentionSchedule []DayInput `json:"attentionSchedule" validate:"len=7,dive"`
	Interval          int        `json:"interval" validate:"min=1"`
	Deadline          string     `json:"deadline" validate:"required,datetime=2006-01-02"`
}

// configuration разбирает строки. Семантику (порядок, дедлайн) проверяет calendar.Configuration.Validate.
func (in ConfigureInput) configuration() (calendar.Configuration, error) {
	v := apperr.NewValidation()

	deadline, err := calendar.ParseDate(in.Deadline)
	if err != nil {
		v.Add("deadline", "must match format 2006-01-02")
	}

	schedule := make(calendar.WeeklySchedule, 0, len(in.AttentionSchedule))
	for i, d := range in.AttentionSchedule {
		day := calendar.AttentionDay{Enabled: d.Enabled}
		if d.DayIndex != nil {
			day.Weekday = time.Weekday(*d.DayIndex)
		}
		for j, r := range d.TimeSlots {
			start, errStart := calendar.ParseTimeOfDay(r.Start)
			end, errEnd := calendar.ParseTimeOfDay(r.End)
			if errStart != nil || errEnd != nil {
				// у выключенного дня интервалы могут быть пустыми
				if d.Enabled {
					v.Add(fmt.Sprintf("attentionSchedule[%d].timeSlots[%d]", i, j), "start and end must match format HH:mm")
				}
				continue
			}
			day.Ranges = append(day.Ranges, calendar.TimeRange{Start: start, End: end})
		}
		schedule = append(schedule, day)
	}

	if err := v.Err(); err != nil {
		return calendar.Configuration{}, err
	}
	return calendar.Configuration{
		IntervalMinutes: in.Interval,
		Deadline:        deadline,
		Schedule:        schedule,
	}, nil
}

type ConfigureResult struct {
	Generated int
	Inserted  int
	Deleted   int
	Kept      int
	// Занятые слоты вне нового шаблона, оставленные как есть.
	Orphaned int
}

// AvailableSlot — свободный слот в представлении часового пояса бизнеса.
type AvailableSlot struct {
	ID      uuid.UUID
	Instant time.Time
	Local   calendar.LocalInstant
}

// Booking: занятый слот вместе с клиентом и услугой.
type Booking struct {
	SlotID  uuid.UUID
	Instant time.Time
	Local   calendar.LocalInstant

	UserID    uuid.UUID
	UserName  string
	UserEmail string
	UserPhone string

	ServiceID   uuid.UUID
	ServiceName string
	DurationMin int64
	Price       float64
}

func (b *Booking) Duration() time.Duration { return time.Duration(b.DurationMin) * time.Minute }

// CancelOutcome показывает, что стало со слотом после отмены.
type CancelOutcome string

const (
	// Слот вернулся в свободные.
	OutcomeReleased CancelOutcome = "released"
	// Время слота больше не входит в шаблон, строка удалена.
	OutcomeDeleted CancelOutcome = "deleted"
)

type CancelResult struct {
	Booking *Booking
	Outcome CancelOutcome
}

// When задаёт грубый отбор занятых слотов относительно текущего момента.
type When string

const (
	WhenAny    When = ""
	WhenFuture When = "future"
	WhenPast   When = "past"
)

func ParseWhen(s string) (When, error) {
	switch When(s) {
	case WhenAny, WhenFuture, WhenPast:
		return When(s), nil
	}
	v := apperr.NewValidation()
	v.Add("when", "must be one of: future past")
	return WhenAny, v.Err()
}

// BookedQuery фильтрует ListBookedSlots. Date и When можно комбинировать.
type BookedQuery struct {
	Date *calendar.Date
	When When
	Page calendar.PageRequest
}

func toBooking(s *model.Slot, tz calendar.Normalizer) Booking {
	b := Booking{
		SlotID:  s.ID,
		Instant: s.Instant.UTC(),
		Local:   tz.Normalize(s.Instant),
	}
	if s.UserID != nil {
		b.UserID = *s.UserID
	}
	if s.ServiceID != nil {
		b.ServiceID = *s.ServiceID
	}
	if s.User != nil {
		b.UserName = s.User.Name
		b.UserEmail = s.User.Email
		b.UserPhone = s.User.Phone
	}
	if s.Service != nil {
		b.ServiceName = s.Service.Name
		b.DurationMin = s.Service.DurationMin
		b.Price = s.Service.Price
	}
	return b
}
