package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/schedule"
)

type OverrideRepository interface {
	// Опубликованный день тренера.
	GetByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) (*model.DateOverride, error)
	// Все дни тренера начиная с from включительно.
	ListFrom(ctx context.Context, trainerID uuid.UUID, from schedule.LocalDate) ([]model.DateOverride, error)
	// Опубликовать день.
	Create(ctx context.Context, override *model.DateOverride) error
	// Снять публикацию дня.
	DeleteByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) error
	// Удалить дни старше cutoff (ретеншн).
	DeleteBefore(ctx context.Context, cutoff schedule.LocalDate) (int64, error)
	WithTx(tx *gorm.DB) OverrideRepository
}

type GormOverrideRepository struct {
	db *gorm.DB
}

func NewGormOverrideRepository(db *gorm.DB) *GormOverrideRepository {
	return &GormOverrideRepository{db: db}
}

func (r *GormOverrideRepository) WithTx(tx *gorm.DB) OverrideRepository {
	return &GormOverrideRepository{db: tx}
}

func (r *GormOverrideRepository) GetByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) (*model.DateOverride, error) {
	var o model.DateOverride
	err := r.db.WithContext(ctx).
		First(&o, "trainer_id = ? AND date = ?", trainerID, datatypes.Date(date.UTC())).
		Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOverrideRepository) ListFrom(ctx context.Context, trainerID uuid.UUID, from schedule.LocalDate) ([]model.DateOverride, error) {
	var overrides []model.DateOverride
	err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND date >= ?", trainerID, datatypes.Date(from.UTC())).
		Order("date ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *GormOverrideRepository) Create(ctx context.Context, override *model.DateOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *GormOverrideRepository) DeleteByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) error {
	return r.db.WithContext(ctx).
		Delete(&model.DateOverride{}, "trainer_id = ? AND date = ?", trainerID, datatypes.Date(date.UTC())).
		Error
}

func (r *GormOverrideRepository) DeleteBefore(ctx context.Context, cutoff schedule.LocalDate) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&model.DateOverride{}, "date < ?", datatypes.Date(cutoff.UTC()))
	return res.RowsAffected, res.Error
}
