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

// BookResult — созданная запись и остаток тренировок клиента,
// чтобы шлюз обновил счётчик без повторного чтения.
type BookResult struct {
	Booking     *model.Booking
	CreditsLeft int
}

// BookingService проводит запись на слот как одну транзакцию:
// вставка записи и списание тренировки либо происходят вместе,
// либо не происходят вовсе.
type BookingService struct {
	db          *gorm.DB
	trainers    repository.TrainerRepository
	clients     repository.ClientRepository
	enrollments repository.EnrollmentRepository
	overrides   repository.OverrideRepository
	bookings    repository.BookingRepository
	reminders   *ReminderBridge
}

func NewBookingService(
	db *gorm.DB,
	trainers repository.TrainerRepository,
	clients repository.ClientRepository,
	enrollments repository.EnrollmentRepository,
	overrides repository.OverrideRepository,
	bookings repository.BookingRepository,
	reminders *ReminderBridge,
) *BookingService {
	return &BookingService{
		db:          db,
		trainers:    trainers,
		clients:     clients,
		enrollments: enrollments,
		overrides:   overrides,
		bookings:    bookings,
		reminders:   reminders,
	}
}

// Book записывает клиента на час hour даты date у тренера.
//
// Порядок проверок, все — по свежепрочитанному состоянию:
//  1. дата строго в будущем по поясу тренера, иначе ErrPastDate;
//  2. день опубликован и содержит час, иначе ErrStaleData;
//  3. слот свободен, иначе ErrSlotTaken (страховка — уникальный
//     индекс, нарушение тоже переводится в ErrSlotTaken);
//  4. счётчик тренировок >= 1, иначе ErrNoCredit.
//
// Напоминание ставится после коммита; его неудача запись не отменяет.
func (s *BookingService) Book(ctx context.Context, trainerID, clientID uuid.UUID, date schedule.LocalDate, hour int) (*BookResult, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: hour %d", ErrInvalidArgument, hour)
	}

	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get client", err)
	}

	today := schedule.Today(trainer.Location())
	if !date.After(today) {
		return nil, ErrPastDate
	}

	booking := &model.Booking{
		ID:        uuid.New(),
		TrainerID: trainerID,
		ClientID:  clientID,
		Date:      datatypes.Date(date.UTC()),
		Hour:      hour,
	}
	var creditsLeft int

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overrides := s.overrides.WithTx(tx)
		enrollments := s.enrollments.WithTx(tx)
		bookings := s.bookings.WithTx(tx)

		override, err := overrides.GetByDate(ctx, trainerID, date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaleData
			}
			return storeErr("get date override", err)
		}
		if !override.Hours.Contains(hour) {
			return ErrStaleData
		}

		if _, err := bookings.GetBySlot(ctx, trainerID, date, hour); err == nil {
			return ErrSlotTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr("check slot", err)
		}

		if _, err := enrollments.Get(ctx, trainerID, clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storeErr("get enrollment", err)
		}

		ok, err := enrollments.ConsumeCredit(ctx, trainerID, clientID)
		if err != nil {
			return storeErr("consume credit", err)
		}
		if !ok {
			return ErrNoCredit
		}

		if err := bookings.Create(ctx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Гонка проиграна между проверкой и вставкой.
				return ErrSlotTaken
			}
			return storeErr("create booking", err)
		}

		enrollment, err := enrollments.Get(ctx, trainerID, clientID)
		if err != nil {
			return storeErr("reread enrollment", err)
		}
		creditsLeft = enrollment.Credits

		event := &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeBookingCreated,
			TrainerID: &trainerID,
			ClientID:  &clientID,
			Details:   fmt.Sprintf("%s %s", date.ISO(), schedule.FormatHour(hour)),
		}
		if err := tx.Create(event).Error; err != nil {
			return storeErr("record event", err)
		}

		return nil
	})
	if err != nil {
		if !IsExpected(err) {
			slog.Error("запись на тренировку не проведена",
				"trainer_id", trainerID, "client_id", clientID,
				"date", date.ISO(), "hour", hour, "error", err)
		}
		return nil, err
	}

	// Напоминание — вне транзакции, fire-and-continue.
	if err := s.reminders.Schedule(ctx, client.ChatID, date, hour, trainer.Location()); err != nil {
		slog.Warn("не удалось запланировать напоминание",
			"client_id", clientID, "date", date.ISO(), "hour", hour, "error", err)
	}

	return &BookResult{Booking: booking, CreditsLeft: creditsLeft}, nil
}
