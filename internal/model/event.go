package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeSlotRequested      EventType = "slot_requested"
	EventTypeSlotReleased       EventType = "slot_released"
	EventTypeSlotDeleted        EventType = "slot_deleted"
	EventTypeCalendarConfigured EventType = "calendar_configured"
	EventTypeRoleChanged        EventType = "role_changed"
)

// events — события аудита. Пишутся в той же транзакции, что и изменение.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	// Без внешнего ключа: слот может быть удалён.
	SlotID *uuid.UUID `gorm:"type:uuid;index"`

	Details datatypes.JSON
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
