package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// slots — бронируемая единица времени.
// Available == true тогда и только тогда, когда UserID и ServiceID пустые.
type Slot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Момент начала в UTC, с точностью до минуты. После создания не меняется.
	Instant time.Time `gorm:"not null;uniqueIndex"`

	Available bool `gorm:"not null;index"`

	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	ServiceID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (для Preload).
	User    *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Slot) TableName() string { return "slots" }

func (s *Slot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Instant = s.Instant.UTC().Truncate(time.Minute)
	return nil
}
