package model

import (
	"time"

	"gorm.io/datatypes"
)

// calendar_settings — рабочие часы одного дня недели (0 = воскресенье).
// Вторая пара колонок заполнена только при двух интервалах в день.
type CalendarSetting struct {
	Weekday int  `gorm:"primaryKey;autoIncrement:false"`
	Enabled bool `gorm:"not null"`

	FirstStart  *datatypes.Time
	FirstEnd    *datatypes.Time
	SecondStart *datatypes.Time
	SecondEnd   *datatypes.Time

	UpdatedAt time.Time `gorm:"not null"`
}

// calendar_policies — интервал и дата окончания текущей конфигурации.
// Всегда одна строка с ID = CalendarPolicyID.
type CalendarPolicy struct {
	ID              uint           `gorm:"primaryKey;autoIncrement:false"`
	IntervalMinutes int            `gorm:"not null"`
	Deadline        datatypes.Date `gorm:"not null"`

	UpdatedAt time.Time `gorm:"not null"`
}

const CalendarPolicyID uint = 1
