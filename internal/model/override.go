package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/trainbook/core/internal/schedule"
)

// date_overrides — смена, опубликованная на конкретную дату.
// Часы копируются из WeeklyShift в момент публикации и дальше живут
// независимо: правка шаблона уже опубликованные дни не меняет.
type DateOverride struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TrainerID uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uq_trainer_date"`
	Date      datatypes.Date `gorm:"type:date;not null;uniqueIndex:uq_trainer_date"`

	Hours schedule.HourSet `gorm:"type:varchar(128);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// LocalDate — дата записи как календарное значение.
func (o *DateOverride) LocalDate() schedule.LocalDate {
	return schedule.DateOf(time.Time(o.Date))
}
