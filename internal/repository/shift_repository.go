package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/schedule"
)

type ShiftRepository interface {
	// Смены тренера по порядку номеров.
	ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.WeeklyShift, error)
	// Смена по номеру 1..3.
	Get(ctx context.Context, trainerID uuid.UUID, ordinal int) (*model.WeeklyShift, error)
	// Перезаписать часы смены.
	UpdateHours(ctx context.Context, trainerID uuid.UUID, ordinal int, hours schedule.HourSet) error
	WithTx(tx *gorm.DB) ShiftRepository
}

type GormShiftRepository struct {
	db *gorm.DB
}

func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

func (r *GormShiftRepository) WithTx(tx *gorm.DB) ShiftRepository {
	return &GormShiftRepository{db: tx}
}

func (r *GormShiftRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.WeeklyShift, error) {
	var shifts []model.WeeklyShift
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("ordinal ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *GormShiftRepository) Get(ctx context.Context, trainerID uuid.UUID, ordinal int) (*model.WeeklyShift, error) {
	var shift model.WeeklyShift
	err := r.db.WithContext(ctx).
		First(&shift, "trainer_id = ? AND ordinal = ?", trainerID, ordinal).
		Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *GormShiftRepository) UpdateHours(ctx context.Context, trainerID uuid.UUID, ordinal int, hours schedule.HourSet) error {
	return r.db.WithContext(ctx).
		Model(&model.WeeklyShift{}).
		Where("trainer_id = ? AND ordinal = ?", trainerID, ordinal).
		Update("hours", hours).
		Error
}
