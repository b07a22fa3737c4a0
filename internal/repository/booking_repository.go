package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/model"
)

// BookedFilter — отбор занятых слотов. Пустые поля не ограничивают выборку.
type BookedFilter struct {
	UserID *uuid.UUID
	From   *time.Time // включительно
	To     *time.Time // не включительно
}

// BookingRepository читает занятые слоты вместе с клиентом и услугой.
type BookingRepository interface {
	// Занятые слоты по фильтру, по возрастанию времени.
	ListBooked(ctx context.Context, filter BookedFilter) ([]model.Slot, error)
	// Занятый слот с клиентом и услугой.
	GetBooked(ctx context.Context, id uuid.UUID) (*model.Slot, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) ListBooked(ctx context.Context, filter BookedFilter) ([]model.Slot, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Preload("User").
		Preload("Service").
		Where("available = ?", false)

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		q = q.Where("instant >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("instant < ?", filter.To.UTC())
	}

	var slots []model.Slot
	if err := q.Order("instant ASC").Find(&slots).Error; err != nil {
		return nil, translate(err, "list booked slots")
	}
	return slots, nil
}

func (r *GormBookingRepository) GetBooked(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("available = ?", false).
		First(&slot, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get booked slot")
	}
	return &slot, nil
}
