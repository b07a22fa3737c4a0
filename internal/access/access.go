// Package access решает, может ли участник выполнить операцию.
// Проверка делается до любого чтения или записи.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/model"
)

type Operation int

const (
	OpConfigureCalendar Operation = iota + 1
	OpGetCalendar
	OpListAvailableSlots
	OpListBookedSlots
	OpListMyBookings
	OpRequestSlot
	OpCancelBooking
	OpUserInfo
	OpSetRole
	OpListUsers
	OpListServices
	OpManageServices
)

var opNames = map[Operation]string{
	OpConfigureCalendar:  "ConfigureCalendar",
	OpGetCalendar:        "GetCalendar",
	OpListAvailableSlots: "ListAvailableSlots",
	OpListBookedSlots:    "ListBookedSlots",
	OpListMyBookings:     "ListMyBookings",
	OpRequestSlot:        "RequestSlot",
	OpCancelBooking:      "CancelBooking",
	OpUserInfo:           "UserInfo",
	OpSetRole:            "SetRole",
	OpListUsers:          "ListUsers",
	OpListServices:       "ListServices",
	OpManageServices:     "ManageServices",
}

func (o Operation) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "Unknown"
}

type rule struct {
	public bool
	// nil означает "любой аутентифицированный"
	roles []model.Role
}

var rules = map[Operation]rule{
	OpConfigureCalendar:  {roles: []model.Role{model.RoleAdmin}},
	OpGetCalendar:        {roles: []model.Role{model.RoleAdmin}},
	OpListAvailableSlots: {public: true},
	OpListBookedSlots:    {roles: []model.Role{model.RoleAdmin, model.RoleEmployee}},
	OpListMyBookings:     {},
	OpRequestSlot:        {},
	OpCancelBooking:      {},
	OpUserInfo:           {},
	OpSetRole:            {roles: []model.Role{model.RoleAdmin}},
	OpListUsers:          {roles: []model.Role{model.RoleAdmin}},
	OpListServices:       {public: true},
	OpManageServices:     {roles: []model.Role{model.RoleAdmin, model.RoleEmployee}},
}

// Principal — аутентифицированный участник. nil означает анонимный вызов.
type Principal struct {
	UserID uuid.UUID
	Role   model.Role
}

func (p *Principal) Authenticated() bool { return p != nil && p.UserID != uuid.Nil }

// IsStaff: администратор или сотрудник.
func (p *Principal) IsStaff() bool { return p.Authenticated() && p.Role.IsStaff() }

func notAuthorized() error { return apperr.Unauthorized("access not authorized") }

// Authorize возвращает ошибку KindUnauthorized, если p не может выполнить op.
func Authorize(p *Principal, op Operation) error {
	r, ok := rules[op]
	if !ok {
		return notAuthorized()
	}
	if r.public {
		return nil
	}
	if !p.Authenticated() {
		return notAuthorized()
	}
	if r.roles == nil {
		return nil
	}
	for _, role := range r.roles {
		if p.Role == role {
			return nil
		}
	}
	return notAuthorized()
}

// UserLookup: источник пользователей для восстановления участника.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ResolvePrincipal:
//   - проверяет идентификатор из токена;
//   - вытаскивает пользователя из хранилища (роль могла смениться после выдачи токена);
//   - возвращает участника с актуальной ролью.
//
// Пропавший пользователь даёт KindUnauthorized, сбой хранилища пробрасывается как есть.
func ResolvePrincipal(ctx context.Context, users UserLookup, userID uuid.UUID) (*Principal, error) {
	if userID == uuid.Nil {
		return nil, notAuthorized()
	}

	u, err := users.GetByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, notAuthorized()
		}
		return nil, err
	}
	if u == nil || !u.Role.Valid() {
		return nil, notAuthorized()
	}

	return &Principal{UserID: u.ID, Role: u.Role}, nil
}

type ctxKey struct{}

// WithPrincipal кладёт участника в контекст запроса.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext возвращает участника или nil для анонимного вызова.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}
