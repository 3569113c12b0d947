package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/trainbook/core/internal/schedule"
)

// bookings — запись клиента на один час тренера.
// Уникальный индекс по (trainer_id, date, hour) — страховка от
// двойной записи при гонке; прикладная проверка лишь оптимизация.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TrainerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_booking_slot"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index"`

	Date datatypes.Date `gorm:"type:date;not null;uniqueIndex:uq_booking_slot"`
	Hour int            `gorm:"not null;uniqueIndex:uq_booking_slot"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// LocalDate — дата записи как календарное значение.
func (b *Booking) LocalDate() schedule.LocalDate {
	return schedule.DateOf(time.Time(b.Date))
}
