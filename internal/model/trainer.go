package model

import (
	"time"

	"github.com/google/uuid"
)

// trainers — тренер публикует расписание и принимает записи.
// ChatID — стабильный внешний идентификатор (чат Telegram).
type Trainer struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ChatID      int64  `gorm:"not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(255);not null"`

	// IANA-пояс тренера, от него считается "сегодня".
	TimeZone string `gorm:"type:varchar(64);not null;default:'Europe/Moscow'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля для GORM (удобно для Preload).
	Shifts    []WeeklyShift  `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Overrides []DateOverride `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Bookings  []Booking      `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Clients []Client `gorm:"many2many:enrollments;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Location возвращает часовой пояс тренера; при битом значении — UTC.
func (t *Trainer) Location() *time.Location {
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
