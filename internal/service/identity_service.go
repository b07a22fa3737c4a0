package service

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/auth"
	"github.com/Leganyst/appointment-booking/internal/model"
)

// IdentityService реализует регистрацию, вход и управление ролями.
type IdentityService struct {
	bookingv1.UnimplementedIdentityServiceServer

	auth *auth.Service
}

func NewIdentityService(svc *auth.Service) *IdentityService {
	return &IdentityService{auth: svc}
}

// Register создаёт клиента. Роль всегда client, повышает её администратор.
func (s *IdentityService) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in auth.RegisterInput
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	u, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromUser(*u), nil)
}

// Login возвращает токен; дальше он передаётся в метаданных authorization.
func (s *IdentityService) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in auth.LoginInput
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	sess, err := s.auth.Login(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromSession(sess), nil)
}

func (s *IdentityService) GetUserInfo(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.auth.Info(ctx, access.FromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromUser(*u), nil)
}

func (s *IdentityService) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	users, err := s.auth.ListUsers(ctx, access.FromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	views := make([]bookingv1.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, bookingv1.FromUser(u))
	}
	return reply(map[string]any{"items": views}, nil)
}

// SetRole назначает роль пользователю. Свою роль администратор менять не может.
func (s *IdentityService) SetRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if err := decode(req, &in); err != nil {
		return nil, toStatus(err)
	}
	userID, err := parseID("userId", in.UserID)
	if err != nil {
		return nil, toStatus(err)
	}

	u, err := s.auth.SetRole(ctx, access.FromContext(ctx), userID, model.Role(in.Role))
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(bookingv1.FromUser(*u), nil)
}
