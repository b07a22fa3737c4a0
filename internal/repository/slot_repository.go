package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/model"
)

const insertBatchSize = 500

type SlotRepository interface {
	// Все слоты (свободные и занятые), нужны для сверки с новым шаблоном.
	ListAll(ctx context.Context) ([]model.Slot, error)
	// Вставить свободные слоты на указанные моменты.
	InsertAvailable(ctx context.Context, instants []time.Time) error
	// Удалить слоты по ID, но только пока они свободны. Возвращает число удалённых.
	DeleteAvailable(ctx context.Context, ids []uuid.UUID) (int64, error)
	// Свободные слоты в полуинтервале [from, to), начинающиеся не раньше notBefore.
	ListAvailable(ctx context.Context, from, to, notBefore time.Time) ([]model.Slot, error)
	// Найти слот по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	// Занять слот, если он свободен и начинается не раньше notBefore.
	// false означает, что условие не выполнено (слот занят, удалён или слишком близко).
	Reserve(ctx context.Context, id, userID, serviceID uuid.UUID, notBefore time.Time) (bool, error)
	// Освободить занятый слот владельца.
	Release(ctx context.Context, id, userID uuid.UUID) (bool, error)
	// Удалить занятый слот владельца.
	DeleteBooked(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) ListAll(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Select("id", "instant", "available").
		Order("instant ASC").
		Find(&slots).Error
	if err != nil {
		return nil, translate(err, "list slots")
	}
	return slots, nil
}

func (r *GormSlotRepository) InsertAvailable(ctx context.Context, instants []time.Time) error {
	if len(instants) == 0 {
		return nil
	}
	slots := make([]model.Slot, 0, len(instants))
	for _, t := range instants {
		slots = append(slots, model.Slot{Instant: t, Available: true})
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(&slots, insertBatchSize).Error, "insert slots")
}

func (r *GormSlotRepository) DeleteAvailable(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ? AND available = ?", ids, true).
		Delete(&model.Slot{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete slots")
	}
	return res.RowsAffected, nil
}

func (r *GormSlotRepository) ListAvailable(ctx context.Context, from, to, notBefore time.Time) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("instant >= ? AND instant < ?", from.UTC(), to.UTC()).
		Where("instant >= ?", notBefore.UTC()).
		Order("instant ASC").
		Find(&slots).Error
	if err != nil {
		return nil, translate(err, "list available slots")
	}
	return slots, nil
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get slot")
	}
	return &slot, nil
}

func (r *GormSlotRepository) Reserve(
	ctx context.Context,
	id, userID, serviceID uuid.UUID,
	notBefore time.Time,
) (bool, error) {
	// условие проверяется в том же UPDATE: из двух конкурентных запросов
	// строку изменит только один
	res := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ? AND available = ? AND instant >= ?", id, true, notBefore.UTC()).
		Updates(map[string]any{
			"available":  false,
			"user_id":    userID,
			"service_id": serviceID,
		})
	if res.Error != nil {
		return false, translate(res.Error, "reserve slot")
	}
	return res.RowsAffected == 1, nil
}

func (r *GormSlotRepository) Release(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ? AND available = ? AND user_id = ?", id, false, userID).
		Updates(map[string]any{
			"available":  true,
			"user_id":    nil,
			"service_id": nil,
		})
	if res.Error != nil {
		return false, translate(res.Error, "release slot")
	}
	return res.RowsAffected == 1, nil
}

func (r *GormSlotRepository) DeleteBooked(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND available = ? AND user_id = ?", id, false, userID).
		Delete(&model.Slot{})
	if res.Error != nil {
		return false, translate(res.Error, "delete booked slot")
	}
	return res.RowsAffected == 1, nil
}
