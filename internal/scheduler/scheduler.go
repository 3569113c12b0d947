package scheduler

import (
	"context"
	"time"
)

// Task — отложенная отправка сообщения пользователю.
// Key детерминирован (клиент, дата, час), поэтому отмена не требует
// хранить идентификатор задачи отдельно.
type Task struct {
	Key    string    `json:"key"`
	FireAt time.Time `json:"fire_at"`
	ChatID int64     `json:"chat_id"`
	Text   string    `json:"text"`
}

// DeferredScheduler — контракт внешнего планировщика отложенных задач.
// Schedule с существующим ключом перезаписывает задачу; Cancel
// несуществующего ключа — не ошибка.
type DeferredScheduler interface {
	Schedule(ctx context.Context, task Task) error
	Cancel(ctx context.Context, key string) error
}
