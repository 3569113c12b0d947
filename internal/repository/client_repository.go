package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	GetByChatID(ctx context.Context, chatID int64) (*model.Client, error)
	Create(ctx context.Context, client *model.Client) error
	WithTx(tx *gorm.DB) ClientRepository
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) WithTx(tx *gorm.DB) ClientRepository {
	return &GormClientRepository{db: tx}
}

func (r *GormClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) GetByChatID(ctx context.Context, chatID int64) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}
