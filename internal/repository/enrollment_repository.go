package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
)

// GroupMember — клиент в группе тренера вместе с остатком тренировок.
type GroupMember struct {
	Client  model.Client
	Credits int
}

type EnrollmentRepository interface {
	// Получить связь тренер-клиент.
	Get(ctx context.Context, trainerID, clientID uuid.UUID) (*model.Enrollment, error)
	// Создать связь с начальным счётчиком.
	Create(ctx context.Context, enrollment *model.Enrollment) error
	// Атомарно списать одну тренировку; возвращает false,
	// если счётчик уже нулевой.
	ConsumeCredit(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error)
	// Вернуть одну тренировку после отмены.
	RestoreCredit(ctx context.Context, trainerID, clientID uuid.UUID) error
	// Установить счётчик в конкретное значение (ручная корректировка).
	SetCredits(ctx context.Context, trainerID, clientID uuid.UUID, credits int) error
	// Клиенты тренера; onlyActive — только с ненулевым счётчиком.
	ListGroup(ctx context.Context, trainerID uuid.UUID, onlyActive bool) ([]GroupMember, error)
	WithTx(tx *gorm.DB) EnrollmentRepository
}

type GormEnrollmentRepository struct {
	db *gorm.DB
}

func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

func (r *GormEnrollmentRepository) WithTx(tx *gorm.DB) EnrollmentRepository {
	return &GormEnrollmentRepository{db: tx}
}

func (r *GormEnrollmentRepository) Get(ctx context.Context, trainerID, clientID uuid.UUID) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		First(&e, "trainer_id = ? AND client_id = ?", trainerID, clientID).
		Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

// ConsumeCredit выполняет условный UPDATE: списание проходит, только
// если credits >= 1. Отсутствие затронутых строк означает нулевой
// счётчик (существование связи проверяется отдельно).
func (r *GormEnrollmentRepository) ConsumeCredit(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("trainer_id = ? AND client_id = ? AND credits >= ?", trainerID, clientID, 1).
		UpdateColumn("credits", gorm.Expr("credits - ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormEnrollmentRepository) RestoreCredit(ctx context.Context, trainerID, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("trainer_id = ? AND client_id = ?", trainerID, clientID).
		UpdateColumn("credits", gorm.Expr("credits + ?", 1)).
		Error
}

func (r *GormEnrollmentRepository) SetCredits(ctx context.Context, trainerID, clientID uuid.UUID, credits int) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("trainer_id = ? AND client_id = ?", trainerID, clientID).
		UpdateColumn("credits", credits).
		Error
}

func (r *GormEnrollmentRepository) ListGroup(ctx context.Context, trainerID uuid.UUID, onlyActive bool) ([]GroupMember, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("clients.*, enrollments.credits AS credits").
		Joins("JOIN clients ON clients.id = enrollments.client_id").
		Where("enrollments.trainer_id = ?", trainerID).
		Order("clients.id")

	if onlyActive {
		q = q.Where("enrollments.credits > 0")
	}

	var rows []struct {
		model.Client
		Credits int
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]GroupMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, GroupMember{Client: row.Client, Credits: row.Credits})
	}
	return members, nil
}
