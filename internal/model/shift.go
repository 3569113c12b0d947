package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/trainbook/core/internal/schedule"
)

// Количество недельных смен у тренера; создаются при онбординге
// и никогда не удаляются.
const ShiftCount = 3

// weekly_shifts — шаблон рабочих часов, не привязанный к дате.
// У каждого тренера ровно три смены с порядковыми номерами 1..3.
type WeeklyShift struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TrainerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_trainer_shift"`
	Ordinal   int       `gorm:"not null;uniqueIndex:uq_trainer_shift"`

	// Набор часов; в колонке — строка "9,10,11".
	Hours schedule.HourSet `gorm:"type:varchar(128);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// DefaultShiftHours — дефолтный диапазон смены при онбординге:
// смена i покрывает часы 9..(17+i).
func DefaultShiftHours(ordinal int) schedule.HourSet {
	return schedule.HourRange(9, 18+ordinal)
}
