package model

import (
	"time"

	"github.com/google/uuid"
)

// clients
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ChatID      int64  `gorm:"not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Trainers []Trainer `gorm:"many2many:enrollments;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// enrollments — кастомная join-таблица тренер-клиент.
// Credits — счётчик оплаченных тренировок в рамках пары; меняется
// только вместе с записями (−1 запись, +1 отмена) либо вручную тренером.
type Enrollment struct {
	TrainerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID `gorm:"type:uuid;primaryKey"`

	Credits int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
