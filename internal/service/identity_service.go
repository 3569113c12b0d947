package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

// IdentityService заводит тренеров и клиентов и управляет составом
// группы: зачисление, счётчики тренировок, постраничный список.
type IdentityService struct {
	db          *gorm.DB
	trainers    repository.TrainerRepository
	clients     repository.ClientRepository
	enrollments repository.EnrollmentRepository
}

func NewIdentityService(
	db *gorm.DB,
	trainers repository.TrainerRepository,
	clients repository.ClientRepository,
	enrollments repository.EnrollmentRepository,
) *IdentityService {
	return &IdentityService{
		db:          db,
		trainers:    trainers,
		clients:     clients,
		enrollments: enrollments,
	}
}

// RegisterTrainer создаёт тренера вместе с дефолтными сменами одной
// транзакцией. Повторная регистрация по тому же чату возвращает
// существующего тренера.
func (s *IdentityService) RegisterTrainer(ctx context.Context, chatID int64, displayName, timeZone string) (*model.Trainer, error) {
	if displayName == "" {
		return nil, fmt.Errorf("%w: empty display name", ErrInvalidArgument)
	}
	if timeZone == "" {
		timeZone = "Europe/Moscow"
	}
	if _, err := time.LoadLocation(timeZone); err != nil {
		return nil, fmt.Errorf("%w: time zone %q", ErrInvalidArgument, timeZone)
	}

	if existing, err := s.trainers.GetByChatID(ctx, chatID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("get trainer by chat", err)
	}

	trainer := &model.Trainer{
		ID:          uuid.New(),
		ChatID:      chatID,
		DisplayName: displayName,
		TimeZone:    timeZone,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trainers := s.trainers.WithTx(tx)

		if err := trainers.Create(ctx, trainer); err != nil {
			return storeErr("create trainer", err)
		}
		for ordinal := 1; ordinal <= model.ShiftCount; ordinal++ {
			shift := &model.WeeklyShift{
				ID:        uuid.New(),
				TrainerID: trainer.ID,
				Ordinal:   ordinal,
				Hours:     model.DefaultShiftHours(ordinal),
			}
			if err := tx.Create(shift).Error; err != nil {
				return storeErr("create default shift", err)
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("тренер не зарегистрирован", "chat_id", chatID, "error", err)
		return nil, err
	}

	return trainer, nil
}

// RegisterClient заводит клиента (либо берёт существующего по чату)
// и зачисляет его в группу тренера с нулевым счётчиком. Повторное
// зачисление — no-op.
func (s *IdentityService) RegisterClient(ctx context.Context, trainerID uuid.UUID, chatID int64, displayName string) (*model.Client, error) {
	if displayName == "" {
		return nil, fmt.Errorf("%w: empty display name", ErrInvalidArgument)
	}

	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get trainer", err)
	}

	var client *model.Client

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		enrollments := s.enrollments.WithTx(tx)

		existing, err := clients.GetByChatID(ctx, chatID)
		switch {
		case err == nil:
			client = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			client = &model.Client{
				ID:          uuid.New(),
				ChatID:      chatID,
				DisplayName: displayName,
			}
			if err := clients.Create(ctx, client); err != nil {
				return storeErr("create client", err)
			}
		default:
			return storeErr("get client by chat", err)
		}

		if _, err := enrollments.Get(ctx, trainerID, client.ID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr("get enrollment", err)
		}

		enrollment := &model.Enrollment{
			TrainerID: trainerID,
			ClientID:  client.ID,
			Credits:   0,
		}
		if err := enrollments.Create(ctx, enrollment); err != nil {
			return storeErr("create enrollment", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("клиент не зачислен",
			"trainer_id", trainerID, "chat_id", chatID, "error", err)
		return nil, err
	}

	return client, nil
}

// AdjustCredits прибавляет delta к счётчику тренировок клиента
// (delta может быть отрицательным). Результат не опускается ниже нуля.
// Возвращает новое значение счётчика.
func (s *IdentityService) AdjustCredits(ctx context.Context, trainerID, clientID uuid.UUID, delta int) (int, error) {
	var credits int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollments := s.enrollments.WithTx(tx)

		enrollment, err := enrollments.Get(ctx, trainerID, clientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storeErr("get enrollment", err)
		}

		credits = enrollment.Credits + delta
		if credits < 0 {
			credits = 0
		}
		if err := enrollments.SetCredits(ctx, trainerID, clientID, credits); err != nil {
			return storeErr("set credits", err)
		}
		return nil
	})
	if err != nil {
		if !IsExpected(err) {
			slog.Error("счётчик тренировок не изменён",
				"trainer_id", trainerID, "client_id", clientID, "error", err)
		}
		return 0, err
	}

	return credits, nil
}

// Group — страница клиентов тренера. onlyActive оставляет только
// клиентов с ненулевым счётчиком.
func (s *IdentityService) Group(ctx context.Context, trainerID uuid.UUID, onlyActive bool, page, pageSize int) (schedule.Page[repository.GroupMember], error) {
	var empty schedule.Page[repository.GroupMember]

	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty, ErrNotFound
		}
		return empty, storeErr("get trainer", err)
	}

	members, err := s.enrollments.ListGroup(ctx, trainerID, onlyActive)
	if err != nil {
		return empty, storeErr("list group", err)
	}

	return schedule.Paginate(members, page, pageSize), nil
}
