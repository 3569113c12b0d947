package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

// AvailabilityService отвечает на вопрос "куда можно записаться":
// опубликованные дни тренера минус уже занятые часы.
type AvailabilityService struct {
	trainers  repository.TrainerRepository
	overrides repository.OverrideRepository
	bookings  repository.BookingRepository
}

func NewAvailabilityService(
	trainers repository.TrainerRepository,
	overrides repository.OverrideRepository,
	bookings repository.BookingRepository,
) *AvailabilityService {
	return &AvailabilityService{
		trainers:  trainers,
		overrides: overrides,
		bookings:  bookings,
	}
}

// ResolveOpenSlots собирает карту дата → свободные часы.
// Каждый вызов пересчитывает результат от свежих данных: это
// единственный источник истины для календаря, кэша между ходами
// диалога нет. Даты без свободных часов из карты выпадают.
func (s *AvailabilityService) ResolveOpenSlots(ctx context.Context, trainerID uuid.UUID) (map[schedule.LocalDate]schedule.HourSet, error) {
	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	today := schedule.Today(trainer.Location())

	overrides, err := s.overrides.ListFrom(ctx, trainerID, today)
	if err != nil {
		return nil, storeErr("list date overrides", err)
	}
	bookings, err := s.bookings.ListFrom(ctx, trainerID, today)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}

	open := make(map[schedule.LocalDate]schedule.HourSet, len(overrides))
	for _, o := range overrides {
		open[o.LocalDate()] = o.Hours
	}

	for _, b := range bookings {
		date := b.LocalDate()
		hours, ok := open[date]
		if !ok {
			continue
		}
		hours = hours.Remove(b.Hour)
		if hours.IsEmpty() {
			delete(open, date)
			continue
		}
		open[date] = hours
	}

	return open, nil
}

// DayBookings — записи тренера на день, по возрастанию часа,
// с загруженными клиентами (вид "сегодня" и выбор отменяемых).
func (s *AvailabilityService) DayBookings(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) ([]model.Booking, error) {
	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	bookings, err := s.bookings.ListByDate(ctx, trainerID, date)
	if err != nil {
		return nil, storeErr("list day bookings", err)
	}
	return bookings, nil
}

// ClientBookings — будущие записи клиента у тренера, сгруппированные
// по датам.
func (s *AvailabilityService) ClientBookings(ctx context.Context, trainerID, clientID uuid.UUID) (map[schedule.LocalDate]schedule.HourSet, error) {
	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	today := schedule.Today(trainer.Location())

	bookings, err := s.bookings.ListClientFrom(ctx, trainerID, clientID, today)
	if err != nil {
		return nil, storeErr("list client bookings", err)
	}

	byDate := make(map[schedule.LocalDate]schedule.HourSet)
	for _, b := range bookings {
		date := b.LocalDate()
		byDate[date] = byDate[date].Add(b.Hour)
	}
	return byDate, nil
}
