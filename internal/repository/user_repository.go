package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	SetRole(ctx context.Context, userID uuid.UUID, role model.Role) error
	GetRole(ctx context.Context, userID uuid.UUID) (model.Role, error)
	List(ctx context.Context) ([]model.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// NormalizeEmail приводит адрес к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	// оставляем только цифры и ведущий плюс
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if (c >= '0' && c <= '9') || (c == '+' && len(b) == 0) {
			b = append(b, c)
		}
	}
	return string(b)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	e := NormalizeEmail(email)
	if e == "" {
		return nil, apperr.NotFound("user not found")
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", e).First(&u).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = NormalizeEmail(user.Email)
	user.Phone = normalizePhone(user.Phone)

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return translate(err, "check user email")
	}
	if count > 0 {
		return apperr.AlreadyExists("user with email %s already exists", user.Email)
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *GormUserRepository) SetRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	if !role.Valid() {
		return apperr.New(apperr.KindValidation, "unknown role %q", role)
	}
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return translate(res.Error, "set role")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *GormUserRepository) GetRole(ctx context.Context, userID uuid.UUID) (model.Role, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Select("id", "role").First(&u, "id = ?", userID).Error; err != nil {
		return "", translate(err, "get role")
	}
	return u.Role, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}
