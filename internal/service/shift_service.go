package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

// PublishResult — итог публикации: какие даты опубликованы, какие
// пропущены как уже существующие.
type PublishResult struct {
	Published []schedule.LocalDate
	Skipped   []schedule.LocalDate
}

// ShiftService правит недельные шаблоны смен и публикует их на даты.
// Правка шаблона не трогает уже опубликованные дни: их часы были
// скопированы в момент публикации.
type ShiftService struct {
	db        *gorm.DB
	trainers  repository.TrainerRepository
	shifts    repository.ShiftRepository
	overrides repository.OverrideRepository
}

func NewShiftService(
	db *gorm.DB,
	trainers repository.TrainerRepository,
	shifts repository.ShiftRepository,
	overrides repository.OverrideRepository,
) *ShiftService {
	return &ShiftService{
		db:        db,
		trainers:  trainers,
		shifts:    shifts,
		overrides: overrides,
	}
}

// Shifts — смены тренера по порядку номеров.
func (s *ShiftService) Shifts(ctx context.Context, trainerID uuid.UUID) ([]model.WeeklyShift, error) {
	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	shifts, err := s.shifts.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, storeErr("list shifts", err)
	}
	return shifts, nil
}

// ApplyShift перезаписывает часы смены ordinal целиком.
// Набор не может быть пустым: смена без часов не имеет смысла,
// убрать день из расписания можно не публикуя его.
func (s *ShiftService) ApplyShift(ctx context.Context, trainerID uuid.UUID, ordinal int, hours schedule.HourSet) (*model.WeeklyShift, error) {
	if ordinal < 1 || ordinal > model.ShiftCount {
		return nil, fmt.Errorf("%w: shift ordinal %d", ErrInvalidArgument, ordinal)
	}
	if hours.IsEmpty() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, schedule.ErrEmptyHourSet)
	}

	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	var updated *model.WeeklyShift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shifts := s.shifts.WithTx(tx)

		if _, err := shifts.Get(ctx, trainerID, ordinal); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storeErr("get shift", err)
		}
		if err := shifts.UpdateHours(ctx, trainerID, ordinal, hours); err != nil {
			return storeErr("update shift hours", err)
		}

		shift, err := shifts.Get(ctx, trainerID, ordinal)
		if err != nil {
			return storeErr("reread shift", err)
		}
		updated = shift

		event := &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeShiftUpdated,
			TrainerID: &trainerID,
			Details:   fmt.Sprintf("%d: %s", ordinal, hours.String()),
		}
		if err := tx.Create(event).Error; err != nil {
			return storeErr("record event", err)
		}
		return nil
	})
	if err != nil {
		if !IsExpected(err) {
			slog.Error("смена не обновлена",
				"trainer_id", trainerID, "ordinal", ordinal, "error", err)
		}
		return nil, err
	}

	return updated, nil
}

// PublishSchedule копирует часы смены ordinal на каждую из дат.
// Все даты должны быть строго в будущем по поясу тренера. Уже
// опубликованная дата не перезаписывается и попадает в Skipped.
func (s *ShiftService) PublishSchedule(ctx context.Context, trainerID uuid.UUID, ordinal int, dates []schedule.LocalDate) (*PublishResult, error) {
	if ordinal < 1 || ordinal > model.ShiftCount {
		return nil, fmt.Errorf("%w: shift ordinal %d", ErrInvalidArgument, ordinal)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no dates", ErrInvalidArgument)
	}

	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	today := schedule.Today(trainer.Location())
	for _, date := range dates {
		if !date.After(today) {
			return nil, ErrPastDate
		}
	}

	shift, err := s.shifts.Get(ctx, trainerID, ordinal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get shift", err)
	}

	result := &PublishResult{}
	for _, date := range dates {
		if _, err := s.overrides.GetByDate(ctx, trainerID, date); err == nil {
			result.Skipped = append(result.Skipped, date)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, storeErr("check date", err)
		}

		override := &model.DateOverride{
			ID:        uuid.New(),
			TrainerID: trainerID,
			Date:      datatypes.Date(date.UTC()),
			Hours:     shift.Hours,
		}
		if err := s.overrides.Create(ctx, override); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Skipped = append(result.Skipped, date)
				continue
			}
			return result, storeErr("publish date", err)
		}
		result.Published = append(result.Published, date)
	}

	return result, nil
}
