// Package auth отвечает за учётные записи: регистрацию, вход, токены и роли.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/config"
	"github.com/Leganyst/appointment-booking/internal/logging"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
	"github.com/Leganyst/appointment-booking/internal/validation"
)

const serviceName = "auth"

type RegisterInput struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Phone           string `json:"phoneNum" validate:"required,min=9,max=11"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session — результат успешного входа.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type Service struct {
	store    repository.Store
	tokens   *Tokens
	notifier notify.Notifier
	log      *slog.Logger
}

func NewService(store repository.Store, tokens *Tokens, notifier notify.Notifier, log *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		log:      logging.Default(log),
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := logging.ForOperation(ctx, s.log, serviceName, "Register")

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         model.RoleClient,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		logging.LogResult(ctx, log, err, "user registration")
		return nil, err
	}
	log.InfoContext(ctx, "user registered", "user_id", u.ID)

	if err := s.notifier.Send(ctx, notify.Welcome(u.Name, u.Email)); err != nil {
		log.WarnContext(ctx, "welcome email not sent", "error", err)
	}
	return u, nil
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный пароль
// неразличимы снаружи: оба дают KindInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	log := logging.ForOperation(ctx, s.log, serviceName, "Login")

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.store.Users().FindByEmail(ctx, in.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			log.InfoContext(ctx, "login rejected: unknown email")
			return nil, apperr.InvalidCredentials("invalid email or password")
		}
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.InfoContext(ctx, "login rejected: wrong password", "user_id", u.ID)
		return nil, apperr.InvalidCredentials("invalid email or password")
	}

	token, exp, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate превращает токен в участника с актуальной ролью.
// Для пустого токена возвращает (nil, nil): анонимный вызов.
func (s *Service) Authenticate(ctx context.Context, token string) (*access.Principal, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return access.ResolvePrincipal(ctx, s.store.Users(), id)
}

func (s *Service) Info(ctx context.Context, p *access.Principal) (*model.User, error) {
	if err := access.Authorize(p, access.OpUserInfo); err != nil {
		return nil, err
	}
	return s.store.Users().GetByID(ctx, p.UserID)
}

func (s *Service) ListUsers(ctx context.Context, p *access.Principal) ([]model.User, error) {
	if err := access.Authorize(p, access.OpListUsers); err != nil {
		return nil, err
	}
	return s.store.Users().List(ctx)
}

// SetRole меняет роль пользователя. Администратор не может менять роль самому себе.
func (s *Service) SetRole(ctx context.Context, p *access.Principal, userID uuid.UUID, role model.Role) (*model.User, error) {
	log := logging.ForOperation(ctx, s.log, serviceName, "SetRole", "target_user_id", userID)

	if err := access.Authorize(p, access.OpSetRole); err != nil {
		return nil, err
	}
	if !role.Valid() {
		v := apperr.NewValidation()
		v.Add("role", "must be one of: client employee admin")
		return nil, v.Err()
	}
	if p.UserID == userID {
		return nil, apperr.Forbidden("cannot change own role")
	}

	var updated *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		prev, err := tx.Users().GetRole(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Users().SetRole(ctx, userID, role); err != nil {
			return err
		}
		actor := p.UserID
		if err := tx.Events().Record(ctx, model.EventTypeRoleChanged, &actor, nil, map[string]any{
			"target_user_id": userID.String(),
			"from":           prev,
			"to":             role,
		}); err != nil {
			return err
		}
		updated, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	logging.LogResult(ctx, log, err, "role change", "role", role)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SeedAdmin создаёт администратора из конфигурации, если пользователя с таким email ещё нет.
// Существующему пользователю выставляется роль admin.
func SeedAdmin(ctx context.Context, store repository.Store, seed config.AdminSeed, log *slog.Logger) error {
	log = logging.Default(log)
	if !seed.Enabled() {
		log.InfoContext(ctx, "admin seed skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	existing, err := store.Users().FindByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			if err := store.Users().SetRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return err
			}
			log.InfoContext(ctx, "existing user promoted to admin", "user_id", existing.ID)
		}
		return nil
	case !apperr.Is(err, apperr.KindNotFound):
		return err
	}

	hash, err := HashPassword(seed.Password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:         seed.Name,
		Email:        seed.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := store.Users().Create(ctx, admin); err != nil {
		return err
	}
	log.InfoContext(ctx, "admin user seeded", "user_id", admin.ID, "email", admin.Email)
	return nil
}
