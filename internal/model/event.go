package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated   EventType = "booking_created"
	EventTypeBookingCancelled EventType = "booking_cancelled"
	EventTypeWorkDayCancelled EventType = "work_day_cancelled"
	EventTypeShiftUpdated     EventType = "shift_updated"
)

// events — события аудита; пишутся в той же транзакции,
// что и само изменение.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`

	TrainerID *uuid.UUID `gorm:"type:uuid;index"`
	ClientID  *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
