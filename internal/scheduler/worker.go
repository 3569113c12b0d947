package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trainbook/core/internal/notify"
)

// TaskSource — планировщик, у которого можно спросить созревшие задачи.
type TaskSource interface {
	DeferredScheduler
	Due(ctx context.Context, now time.Time) ([]Task, error)
}

// Worker периодически забирает созревшие задачи и отправляет их
// получателям. Доставка best-effort: неудача логируется, задача из
// очереди всё равно убирается, бесконечных ретраев нет.
type Worker struct {
	source   TaskSource
	notifier notify.Notifier
	interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewWorker(source TaskSource, notifier notify.Notifier, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		source:   source,
		notifier: notifier,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ticker = time.NewTicker(w.interval)
	w.wg.Add(1)
	go w.run(w.ticker)

	slog.Info("воркер отложенных задач запущен", "interval", w.interval)
}

func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ticker != nil {
		w.ticker.Stop()
		w.ticker = nil
		close(w.stop)
		w.wg.Wait()
		slog.Info("воркер отложенных задач остановлен")
	}
}

func (w *Worker) run(ticker *time.Ticker) {
	defer w.wg.Done()

	for {
		select {
		case <-ticker.C:
			w.DeliverDue(context.Background(), time.Now())
		case <-w.stop:
			return
		}
	}
}

// DeliverDue отправляет все созревшие к моменту now задачи.
func (w *Worker) DeliverDue(ctx context.Context, now time.Time) {
	tasks, err := w.source.Due(ctx, now)
	if err != nil {
		slog.Error("не удалось получить отложенные задачи", "error", err)
		return
	}

	for _, task := range tasks {
		if err := w.notifier.Send(ctx, task.ChatID, task.Text); err != nil {
			slog.Warn("не удалось доставить отложенное сообщение",
				"key", task.Key, "chat_id", task.ChatID, "error", err)
		}
		if err := w.source.Cancel(ctx, task.Key); err != nil {
			slog.Error("не удалось убрать задачу из очереди", "key", task.Key, "error", err)
		}
	}
}
