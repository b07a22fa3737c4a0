package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/model"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	Create(ctx context.Context, service *model.Service) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]model.Service, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get service")
	}
	return &s, nil
}

func (r *GormServiceRepository) Create(ctx context.Context, service *model.Service) error {
	return translate(r.db.WithContext(ctx).Create(service).Error, "create service")
}

func (r *GormServiceRepository) List(ctx context.Context, onlyActive bool, limit, offset int) ([]model.Service, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Service{})
		if onlyActive {
			q = q.Where("is_active = ?", true)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count services")
	}

	if offset < 0 {
		offset = 0
	}
	q := scope().Order("name ASC")
	// limit <= 0: без ограничения
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var services []model.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, 0, translate(err, "list services")
	}
	return services, total, nil
}

func (r *GormServiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error, "update service")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}
