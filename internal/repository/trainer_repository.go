package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
)

type TrainerRepository interface {
	// Получить тренера по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Trainer, error)
	// Получить тренера по идентификатору чата.
	GetByChatID(ctx context.Context, chatID int64) (*model.Trainer, error)
	// Создать тренера вместе с его сменами.
	Create(ctx context.Context, trainer *model.Trainer) error
	// Привязать репозиторий к открытой транзакции.
	WithTx(tx *gorm.DB) TrainerRepository
}

// Реализация на GORM.
type GormTrainerRepository struct {
	db *gorm.DB
}

func NewGormTrainerRepository(db *gorm.DB) *GormTrainerRepository {
	return &GormTrainerRepository{db: db}
}

func (r *GormTrainerRepository) WithTx(tx *gorm.DB) TrainerRepository {
	return &GormTrainerRepository{db: tx}
}

func (r *GormTrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Trainer, error) {
	var t model.Trainer
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTrainerRepository) GetByChatID(ctx context.Context, chatID int64) (*model.Trainer, error) {
	var t model.Trainer
	if err := r.db.WithContext(ctx).First(&t, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	return r.db.WithContext(ctx).Create(trainer).Error
}
