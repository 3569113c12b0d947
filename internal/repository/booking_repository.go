package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/schedule"
)

type BookingRepository interface {
	// Создать запись; нарушение уникальности слота поднимается
	// как gorm.ErrDuplicatedKey.
	Create(ctx context.Context, booking *model.Booking) error
	// Удалить запись по ID.
	Delete(ctx context.Context, id uuid.UUID) error
	// Запись на конкретный слот.
	GetBySlot(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate, hour int) (*model.Booking, error)
	// Запись клиента на конкретный слот.
	GetByClientSlot(ctx context.Context, trainerID, clientID uuid.UUID, date schedule.LocalDate, hour int) (*model.Booking, error)
	// Все записи тренера начиная с from включительно.
	ListFrom(ctx context.Context, trainerID uuid.UUID, from schedule.LocalDate) ([]model.Booking, error)
	// Записи тренера на день, по времени, с клиентами.
	ListByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) ([]model.Booking, error)
	// Будущие записи клиента у тренера.
	ListClientFrom(ctx context.Context, trainerID, clientID uuid.UUID, from schedule.LocalDate) ([]model.Booking, error)
	// Удалить записи старше cutoff (ретеншн).
	DeleteBefore(ctx context.Context, cutoff schedule.LocalDate) (int64, error)
	WithTx(tx *gorm.DB) BookingRepository
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &GormBookingRepository{db: tx}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id).Error
}

func (r *GormBookingRepository) GetBySlot(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate, hour int) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		First(&b, "trainer_id = ? AND date = ? AND hour = ?",
			trainerID, datatypes.Date(date.UTC()), hour).
		Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByClientSlot(ctx context.Context, trainerID, clientID uuid.UUID, date schedule.LocalDate, hour int) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		First(&b, "trainer_id = ? AND client_id = ? AND date = ? AND hour = ?",
			trainerID, clientID, datatypes.Date(date.UTC()), hour).
		Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) ListFrom(ctx context.Context, trainerID uuid.UUID, from schedule.LocalDate) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND date >= ?", trainerID, datatypes.Date(from.UTC())).
		Order("date ASC, hour ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListByDate(ctx context.Context, trainerID uuid.UUID, date schedule.LocalDate) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("trainer_id = ? AND date = ?", trainerID, datatypes.Date(date.UTC())).
		Order("hour ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListClientFrom(ctx context.Context, trainerID, clientID uuid.UUID, from schedule.LocalDate) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND client_id = ? AND date >= ?",
			trainerID, clientID, datatypes.Date(from.UTC())).
		Order("date ASC, hour ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) DeleteBefore(ctx context.Context, cutoff schedule.LocalDate) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&model.Booking{}, "date < ?", datatypes.Date(cutoff.UTC()))
	return res.RowsAffected, res.Error
}
