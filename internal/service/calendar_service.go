package service

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/booking"
	"github.com/Leganyst/appointment-booking/internal/calendar"
)

// CalendarService — gRPC-обёртка над booking.Service.
type CalendarService struct {
	bookingv1.UnimplementedCalendarServiceServer

	booking *booking.Service
}

func NewCalendarService(svc *booking.Service) *CalendarService {
	return &CalendarService{booking: svc}
}

type pageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func (p pageRequest) toPage() calendar.PageRequest {
	return calendar.PageRequest{Page: p.Page, PageSize: p.PageSize}
}

func decode(in *structpb.Struct, dst any) error {
	if err := bookingv1.Decode(in, dst); err != nil {
		return apperr.New(apperr.KindValidation, "malformed request: %v", err)
	}
	return nil
}

func reply(v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := bookingv1.Encode(v)
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		v := apperr.NewValidation()
		v.Add(field, "must be a valid UUID")
		return uuid.Nil, v.Err()
	}
	return id, nil
}

func parseDate(field, raw string) (calendar.Date, error) {
	d, err := calendar.ParseDate(raw)
	if err != nil {
		v := apperr.NewValidation()
		v.Add(field, "must match format 2006-01-02")
		return calendar.Date{}, v.Err()
	}
	return d, nil
}

func (s *CalendarService) ConfigureCalendar(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in booking.ConfigureInput
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	res, err := s.booking.ConfigureCalendar(ctx, access.FromContext(ctx), in)
	return reply(bookingv1.FromConfigure(res), err)
}

func (s *CalendarService) GetCalendar(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := s.booking.GetCalendar(ctx, access.FromContext(ctx))
	return reply(bookingv1.FromCalendar(cfg), err)
}

func (s *CalendarService) ListAvailableSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Date string `json:"date"`
		pageRequest
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, toStatus(err)
	}
	page, err := s.booking.ListAvailableSlots(ctx, access.FromContext(ctx), date, in.toPage())
	return reply(bookingv1.NewPageView(page, bookingv1.FromAvailableSlot), err)
}

func (s *CalendarService) ListBookedSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Date string `json:"date"`
		When string `json:"when"`
		pageRequest
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}

	q := booking.BookedQuery{Page: in.toPage()}
	if in.Date != "" {
		d, err := parseDate("date", in.Date)
		if err != nil {
			return nil, toStatus(err)
		}
		q.Date = &d
	}
	when, err := booking.ParseWhen(in.When)
	if err != nil {
		return nil, toStatus(err)
	}
	q.When = when

	page, err := s.booking.ListBookedSlots(ctx, access.FromContext(ctx), q)
	return reply(bookingv1.NewPageView(page, bookingv1.FromBooking), err)
}

func (s *CalendarService) ListMyBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pageRequest
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	page, err := s.booking.ListMyBookings(ctx, access.FromContext(ctx), in.toPage())
	return reply(bookingv1.NewPageView(page, bookingv1.FromBooking), err)
}

func (s *CalendarService) RequestSlot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		SlotID    string `json:"slotId"`
		ServiceID string `json:"serviceId"`
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	slotID, err := parseID("slotId", in.SlotID)
	if err != nil {
		return nil, toStatus(err)
	}
	serviceID, err := parseID("serviceId", in.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}

	b, err := s.booking.RequestSlot(ctx, access.FromContext(ctx), slotID, serviceID)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromBooking(*b), nil)
}

func (s *CalendarService) CancelBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		SlotID string `json:"slotId"`
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	slotID, err := parseID("slotId", in.SlotID)
	if err != nil {
		return nil, toStatus(err)
	}

	res, err := s.booking.CancelBooking(ctx, access.FromContext(ctx), slotID)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromCancel(res), nil)
}

func (s *CalendarService) ListServices(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pageRequest
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	page, err := s.booking.ListServices(ctx, access.FromContext(ctx), in.toPage())
	return reply(bookingv1.NewPageView(page, bookingv1.FromService), err)
}

func (s *CalendarService) CreateService(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in booking.ServiceInput
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	svc, err := s.booking.CreateService(ctx, access.FromContext(ctx), in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromService(*svc), nil)
}

func (s *CalendarService) DeactivateService(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ServiceID string `json:"serviceId"`
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	id, err := parseID("serviceId", in.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.booking.DeactivateService(ctx, access.FromContext(ctx), id); err != nil {
		return nil, toStatus(err)
	}
	return bookingv1.Empty(), nil
}
