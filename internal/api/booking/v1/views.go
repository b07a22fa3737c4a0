// Package bookingv1 описывает публичный контракт API бронирования:
// представления ответов и gRPC-сервисы поверх structpb.Struct.
// REST и gRPC отдают одни и те же представления.
package bookingv1

import (
	"time"

	"github.com/Leganyst/appointment-booking/internal/auth"
	"github.com/Leganyst/appointment-booking/internal/booking"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/model"
)

type SlotView struct {
	ID        string `json:"id"`
	DateTime  string `json:"dateTime"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type BookingView struct {
	SlotID    string  `json:"id"`
	DateTime  string  `json:"dateTime"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"username"`
	UserEmail string  `json:"userEmail,omitempty"`
	UserPhone string  `json:"phoneNumber,omitempty"`
	ServiceID string  `json:"serviceId"`
	Service   string  `json:"service"`
	Duration  int64   `json:"duration"`
	Price     float64 `json:"price"`
}

type CancelView struct {
	Booking BookingView `json:"booking"`
	Outcome string      `json:"outcome"`
}

type ConfigureView struct {
	Generated int `json:"generated"`
	Inserted  int `json:"inserted"`
	Deleted   int `json:"deleted"`
	Kept      int `json:"kept"`
	Orphaned  int `json:"orphaned"`
}

type RangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayView struct {
	DayIndex  int         `json:"dayIndex"`
	Day       string      `json:"day"`
	Enabled   bool        `json:"checked"`
	TimeSlots []RangeView `json:"timeSlots"`
}

type CalendarView struct {
	Interval          int       `json:"interval"`
	Deadline          string    `json:"deadline"`
	AttentionSchedule []DayView `json:"attentionSchedule"`
}

type ServiceView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Duration int64   `json:"duration"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"isActive"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phoneNumber"`
	Role  string `json:"role"`
}

type SessionView struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expiresAt"`
	User      UserView `json:"user"`
}

// PageView — страница списка.
type PageView[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
}

func NewPageView[S, T any](p calendar.Page[S], conv func(S) T) PageView[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return PageView[T]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
	}
}

var esDayNames = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

func FromAvailableSlot(s booking.AvailableSlot) SlotView {
	return SlotView{
		ID:        s.ID.String(),
		DateTime:  s.Local.ISOInstant,
		Date:      s.Local.LocalDate,
		Time:      s.Local.LocalTime,
		Available: true,
	}
}

func FromBooking(b booking.Booking) BookingView {
	return BookingView{
		SlotID:    b.SlotID.String(),
		DateTime:  b.Local.ISOInstant,
		Date:      b.Local.LocalDate,
		Time:      b.Local.LocalTime,
		UserID:    b.UserID.String(),
		UserName:  b.UserName,
		UserEmail: b.UserEmail,
		UserPhone: b.UserPhone,
		ServiceID: b.ServiceID.String(),
		Service:   b.ServiceName,
		Duration:  b.DurationMin,
		Price:     b.Price,
	}
}

func FromCancel(r *booking.CancelResult) CancelView {
	return CancelView{Booking: FromBooking(*r.Booking), Outcome: string(r.Outcome)}
}

func FromConfigure(r booking.ConfigureResult) ConfigureView {
	return ConfigureView(r)
}

func FromCalendar(cfg calendar.Configuration) CalendarView {
	out := CalendarView{
		Interval:          cfg.IntervalMinutes,
		Deadline:          cfg.Deadline.String(),
		AttentionSchedule: make([]DayView, 0, len(cfg.Schedule)),
	}
	for _, d := range cfg.Schedule {
		day := DayView{
			DayIndex:  int(d.Weekday),
			Enabled:   d.Enabled,
			TimeSlots: make([]RangeView, 0, len(d.Ranges)),
		}
		if d.Weekday >= time.Sunday && d.Weekday <= time.Saturday {
			day.Day = esDayNames[d.Weekday]
		}
		for _, r := range d.Ranges {
			day.TimeSlots = append(day.TimeSlots, RangeView{Start: r.Start.String(), End: r.End.String()})
		}
		out.AttentionSchedule = append(out.AttentionSchedule, day)
	}
	return out
}

func FromService(s model.Service) ServiceView {
	return ServiceView{
		ID:       s.ID.String(),
		Name:     s.Name,
		Duration: s.DurationMin,
		Price:    s.Price,
		IsActive: s.IsActive,
	}
}

func FromUser(u model.User) UserView {
	return UserView{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

func FromSession(s *auth.Session) SessionView {
	return SessionView{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
		User:      FromUser(*s.User),
	}
}
