package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/notify"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

// CancelKey адресует одну запись внутри дня.
type CancelKey struct {
	ClientID uuid.UUID
	Hour     int
}

// CancelledBooking — результат отмены одной записи: восстановленный
// счётчик и статус побочных эффектов, чтобы вызывающая сторона видела
// частичные неудачи best-effort шагов.
type CancelledBooking struct {
	Date              schedule.LocalDate
	Hour              int
	Client            model.Client
	CreditsLeft       int
	Notified          bool
	ReminderCancelled bool
}

// CancelService снимает записи: по выбору клиента либо целым рабочим
// днём по решению тренера. Удаление записи и возврат тренировки идут
// одной транзакцией; уведомление и снятие напоминания — best-effort
// после коммита.
type CancelService struct {
	db          *gorm.DB
	trainers    repository.TrainerRepository
	clients     repository.ClientRepository
	enrollments repository.EnrollmentRepository
	overrides   repository.OverrideRepository
	bookings    repository.BookingRepository
	reminders   *ReminderBridge
	notifier    notify.Notifier
}

func NewCancelService(
	db *gorm.DB,
	trainers repository.TrainerRepository,
	clients repository.ClientRepository,
	enrollments repository.EnrollmentRepository,
	overrides repository.OverrideRepository,
	bookings repository.BookingRepository,
	reminders *ReminderBridge,
	notifier notify.Notifier,
) *CancelService {
	return &CancelService{
		db:          db,
		trainers:    trainers,
		clients:     clients,
		enrollments: enrollments,
		overrides:   overrides,
		bookings:    bookings,
		reminders:   reminders,
		notifier:    notifier,
	}
}

// CancelBookings отменяет выбранные записи дня. byTrainer определяет,
// кого уведомлять: при отмене тренером — клиента, при отмене клиентом —
// тренера. Возвращает успешно отменённые записи; уже отсутствующая
// запись пропускается (желаемое состояние достигнуто).
func (s *CancelService) CancelBookings(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate, keys []CancelKey, byTrainer bool) ([]CancelledBooking, error) {
	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	today := schedule.Today(trainer.Location())
	if !date.After(today) {
		return nil, ErrPastDate
	}

	return s.cancelAll(ctx, trainer, date, keys, byTrainer)
}

// CancelWorkDay отменяет все записи дня и снимает публикацию самого
// дня. Возврат тренировок и удаления проходят даже при неудаче
// уведомлений — статусы побочных эффектов в результате.
func (s *CancelService) CancelWorkDay(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) ([]CancelledBooking, error) {
	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	today := schedule.Today(trainer.Location())
	if !date.After(today) {
		return nil, ErrPastDate
	}

	if _, err := s.overrides.GetByDate(ctx, trainerID, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get date override", err)
	}

	// Публикация снимается до обхода записей: параллельная попытка
	// записаться после этого падает по свежему чтению дня, и список
	// записей ниже полон.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.overrides.WithTx(tx).DeleteByDate(ctx, trainerID, date); err != nil {
			return storeErr("delete date override", err)
		}
		event := &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeWorkDayCancelled,
			TrainerID: &trainerID,
			Details:   date.ISO(),
		}
		if err := tx.Create(event).Error; err != nil {
			return storeErr("record event", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("рабочий день не снят",
			"trainer_id", trainerID, "date", date.ISO(), "error", err)
		return nil, err
	}

	dayBookings, err := s.bookings.ListByDate(ctx, trainerID, date)
	if err != nil {
		return nil, storeErr("list day bookings", err)
	}

	keys := make([]CancelKey, 0, len(dayBookings))
	for _, b := range dayBookings {
		keys = append(keys, CancelKey{ClientID: b.ClientID, Hour: b.Hour})
	}

	return s.cancelAll(ctx, trainer, date, keys, true)
}

// cancelAll — общее ядро обеих точек входа: каждая запись проходит
// свою транзакцию удаления и возврата тренировки, затем — best-effort
// уведомление и снятие напоминания.
func (s *CancelService) cancelAll(ctx context.Context, trainer *model.Trainer, date schedule.LocalDate, keys []CancelKey, byTrainer bool) ([]CancelledBooking, error) {
	results := make([]CancelledBooking, 0, len(keys))

	for _, key := range keys {
		client, err := s.clients.GetByID(ctx, key.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return results, ErrNotFound
			}
			return results, storeErr("get client", err)
		}

		var creditsLeft int
		found := true

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			bookings := s.bookings.WithTx(tx)
			enrollments := s.enrollments.WithTx(tx)

			booking, err := bookings.GetByClientSlot(ctx, trainer.ID, key.ClientID, date, key.Hour)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					found = false
					return nil
				}
				return storeErr("get booking", err)
			}

			if err := bookings.Delete(ctx, booking.ID); err != nil {
				return storeErr("delete booking", err)
			}
			if err := enrollments.RestoreCredit(ctx, trainer.ID, key.ClientID); err != nil {
				return storeErr("restore credit", err)
			}

			enrollment, err := enrollments.Get(ctx, trainer.ID, key.ClientID)
			if err != nil {
				return storeErr("reread enrollment", err)
			}
			creditsLeft = enrollment.Credits

			event := &model.Event{
				ID:        uuid.New(),
				EventType: model.EventTypeBookingCancelled,
				TrainerID: &trainer.ID,
				ClientID:  &key.ClientID,
				Details:   fmt.Sprintf("%s %s", date.ISO(), schedule.FormatHour(key.Hour)),
			}
			if err := tx.Create(event).Error; err != nil {
				return storeErr("record event", err)
			}
			return nil
		})
		if err != nil {
			slog.Error("отмена записи не проведена",
				"trainer_id", trainer.ID, "client_id", key.ClientID,
				"date", date.ISO(), "hour", key.Hour, "error", err)
			return results, err
		}
		if !found {
			slog.Info("запись уже отсутствует, пропускаем",
				"trainer_id", trainer.ID, "client_id", key.ClientID,
				"date", date.ISO(), "hour", key.Hour)
			continue
		}

		result := CancelledBooking{
			Date:        date,
			Hour:        key.Hour,
			Client:      *client,
			CreditsLeft: creditsLeft,
		}

		result.Notified = s.notifyCounterpart(ctx, trainer, client, date, key.Hour, byTrainer)

		if err := s.reminders.Cancel(ctx, client.ChatID, date, key.Hour); err != nil {
			slog.Warn("не удалось снять напоминание",
				"client_id", key.ClientID, "date", date.ISO(), "hour", key.Hour, "error", err)
		} else {
			result.ReminderCancelled = true
		}

		results = append(results, result)
	}

	return results, nil
}

func (s *CancelService) notifyCounterpart(ctx context.Context, trainer *model.Trainer, client *model.Client, date schedule.LocalDate, hour int, byTrainer bool) bool {
	var chatID int64
	var text string

	if byTrainer {
		chatID = client.ChatID
		text = fmt.Sprintf("❌Тренер отменил тренировку: %s", schedule.FormatSlot(date, hour))
	} else {
		chatID = trainer.ChatID
		text = fmt.Sprintf("❌%s отменил(а) запись: %s, %s",
			client.DisplayName, date.ISO(), schedule.FormatHour(hour))
	}

	if err := s.notifier.Send(ctx, chatID, text); err != nil {
		slog.Warn("не удалось уведомить об отмене",
			"chat_id", chatID, "date", date.ISO(), "hour", hour, "error", err)
		return false
	}
	return true
}
