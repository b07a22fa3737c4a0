package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/model"
)

// EventRepository пишет журнал аудита.
type EventRepository interface {
	Record(ctx context.Context, eventType model.EventType, userID, slotID *uuid.UUID, details any) error
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]model.Event, error)
	ListByType(ctx context.Context, eventType model.EventType, limit int) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Record(
	ctx context.Context,
	eventType model.EventType,
	userID, slotID *uuid.UUID,
	details any,
) error {
	ev := model.Event{
		EventType: eventType,
		UserID:    userID,
		SlotID:    slotID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		ev.Details = datatypes.JSON(raw)
	}
	return translate(r.db.WithContext(ctx).Create(&ev).Error, "record event")
}

func (r *GormEventRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, translate(err, "list events")
	}
	return events, nil
}

func (r *GormEventRepository) ListByType(ctx context.Context, eventType model.EventType, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, translate(err, "list events")
	}
	return events, nil
}
