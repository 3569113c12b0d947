package service

import (
	"context"
	"fmt"
	"time"

	"github.com/trainbook/core/internal/schedule"
	"github.com/trainbook/core/internal/scheduler"
)

// DefaultReminderHour — локальный час отправки напоминания накануне.
const DefaultReminderHour = 11

// ReminderKey — детерминированный ключ задачи напоминания.
// Отмена пересчитывает тот же ключ, отдельно его хранить не нужно.
func ReminderKey(chatID int64, date schedule.LocalDate, hour int) string {
	return fmt.Sprintf("%d_%s_%d", chatID, date.ISO(), hour)
}

// ReminderBridge связывает ядро записи с внешним планировщиком
// отложенных задач.
type ReminderBridge struct {
	tasks scheduler.DeferredScheduler
	// Локальный час срабатывания накануне тренировки.
	fireHour int
	// Подменяется в тестах.
	now func() time.Time
}

func NewReminderBridge(tasks scheduler.DeferredScheduler, fireHour int) *ReminderBridge {
	if fireHour <= 0 || fireHour > 23 {
		fireHour = DefaultReminderHour
	}
	return &ReminderBridge{
		tasks:    tasks,
		fireHour: fireHour,
		now:      time.Now,
	}
}

// Schedule регистрирует напоминание на (date − 1 день) в fireHour
// по поясу loc. Если время уже прошло — напоминание не ставится
// (запись в последний момент).
func (b *ReminderBridge) Schedule(ctx context.Context, chatID int64, date schedule.LocalDate, hour int, loc *time.Location) error {
	fireAt := date.AddDays(-1).At(b.fireHour, loc)
	if !fireAt.After(b.now()) {
		return nil
	}

	return b.tasks.Schedule(ctx, scheduler.Task{
		Key:    ReminderKey(chatID, date, hour),
		FireAt: fireAt,
		ChatID: chatID,
		Text: fmt.Sprintf(
			"Напоминание о тренировке %s в %s",
			date.ISO(), schedule.FormatHour(hour),
		),
	})
}

// Cancel снимает напоминание; отсутствие задачи — не ошибка.
func (b *ReminderBridge) Cancel(ctx context.Context, chatID int64, date schedule.LocalDate, hour int) error {
	return b.tasks.Cancel(ctx, ReminderKey(chatID, date, hour))
}
