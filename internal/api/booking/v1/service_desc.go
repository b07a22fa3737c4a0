package bookingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	CalendarServiceName = "booking.v1.CalendarService"
	IdentityServiceName = "booking.v1.IdentityService"
)

// Все методы обоих сервисов унарные: запрос и ответ передаются как google.protobuf.Struct.
type unaryFunc[S any] func(srv S, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func method[S any](service, name string, call unaryFunc[S]) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ===== CalendarService =====

type CalendarServiceServer interface {
	ConfigureCalendar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCalendar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBookedSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMyBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestSlot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListServices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateService(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeactivateService(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedCalendarServiceServer встраивается в реализацию, чтобы новые методы не ломали сборку.
type UnimplementedCalendarServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedCalendarServiceServer) ConfigureCalendar(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ConfigureCalendar")
}
func (UnimplementedCalendarServiceServer) GetCalendar(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetCalendar")
}
func (UnimplementedCalendarServiceServer) ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListAvailableSlots")
}
func (UnimplementedCalendarServiceServer) ListBookedSlots(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListBookedSlots")
}
func (UnimplementedCalendarServiceServer) ListMyBookings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListMyBookings")
}
func (UnimplementedCalendarServiceServer) RequestSlot(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RequestSlot")
}
func (UnimplementedCalendarServiceServer) CancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CancelBooking")
}
func (UnimplementedCalendarServiceServer) ListServices(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListServices")
}
func (UnimplementedCalendarServiceServer) CreateService(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreateService")
}
func (UnimplementedCalendarServiceServer) DeactivateService(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DeactivateService")
}

func calendarMethod(name string, call unaryFunc[CalendarServiceServer]) grpc.MethodDesc {
	return method(CalendarServiceName, name, call)
}

var CalendarService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CalendarServiceName,
	HandlerType: (*CalendarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		calendarMethod("ConfigureCalendar", CalendarServiceServer.ConfigureCalendar),
		calendarMethod("GetCalendar", CalendarServiceServer.GetCalendar),
		calendarMethod("ListAvailableSlots", CalendarServiceServer.ListAvailableSlots),
		calendarMethod("ListBookedSlots", CalendarServiceServer.ListBookedSlots),
		calendarMethod("ListMyBookings", CalendarServiceServer.ListMyBookings),
		calendarMethod("RequestSlot", CalendarServiceServer.RequestSlot),
		calendarMethod("CancelBooking", CalendarServiceServer.CancelBooking),
		calendarMethod("ListServices", CalendarServiceServer.ListServices),
		calendarMethod("CreateService", CalendarServiceServer.CreateService),
		calendarMethod("DeactivateService", CalendarServiceServer.DeactivateService),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booking/v1/calendar.proto",
}

func RegisterCalendarServiceServer(s grpc.ServiceRegistrar, srv CalendarServiceServer) {
	s.RegisterService(&CalendarService_ServiceDesc, srv)
}

// ===== IdentityService =====

type IdentityServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUserInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedIdentityServiceServer struct{}

func (UnimplementedIdentityServiceServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedIdentityServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedIdentityServiceServer) GetUserInfo(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetUserInfo")
}
func (UnimplementedIdentityServiceServer) ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListUsers")
}
func (UnimplementedIdentityServiceServer) SetRole(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SetRole")
}

func identityMethod(name string, call unaryFunc[IdentityServiceServer]) grpc.MethodDesc {
	return method(IdentityServiceName, name, call)
}

var IdentityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		identityMethod("Register", IdentityServiceServer.Register),
		identityMethod("Login", IdentityServiceServer.Login),
		identityMethod("GetUserInfo", IdentityServiceServer.GetUserInfo),
		identityMethod("ListUsers", IdentityServiceServer.ListUsers),
		identityMethod("SetRole", IdentityServiceServer.SetRole),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booking/v1/identity.proto",
}

func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&IdentityService_ServiceDesc, srv)
}

// ===== клиент =====

// Client вызывает методы сервиса по имени. Используется в тестах и служебных утилитах.
type Client struct {
	cc      grpc.ClientConnInterface
	service string
}

func NewCalendarServiceClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc, service: CalendarServiceName}
}

func NewIdentityServiceClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc, service: IdentityServiceName}
}

func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = Empty()
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+c.service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
