package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

// RetentionSweeper раз в сутки удаляет опубликованные дни и записи,
// чья дата уже прошла (жёсткая чистка после мягкого истечения
// на чтении).
type RetentionSweeper struct {
	overrides repository.OverrideRepository
	bookings  repository.BookingRepository
	interval  time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewRetentionSweeper(overrides repository.OverrideRepository, bookings repository.BookingRepository) *RetentionSweeper {
	return &RetentionSweeper{
		overrides: overrides,
		bookings:  bookings,
		interval:  24 * time.Hour,
		stop:      make(chan struct{}),
	}
}

func (s *RetentionSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticker = time.NewTicker(s.interval)
	s.wg.Add(1)
	go s.run(s.ticker)

	slog.Info("чистка устаревших данных запущена", "interval", s.interval)
}

func (s *RetentionSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
		close(s.stop)
		s.wg.Wait()
		slog.Info("чистка устаревших данных остановлена")
	}
}

func (s *RetentionSweeper) run(ticker *time.Ticker) {
	defer s.wg.Done()

	// Первый проход сразу при старте.
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stop:
			return
		}
	}
}

// Sweep удаляет строки с датой строго раньше сегодняшней (UTC).
func (s *RetentionSweeper) Sweep(ctx context.Context) {
	cutoff := schedule.Today(time.UTC)

	bookings, err := s.bookings.DeleteBefore(ctx, cutoff)
	if err != nil {
		slog.Error("не удалось удалить устаревшие записи", "error", err)
		return
	}
	overrides, err := s.overrides.DeleteBefore(ctx, cutoff)
	if err != nil {
		slog.Error("не удалось удалить устаревшие дни расписания", "error", err)
		return
	}

	if bookings > 0 || overrides > 0 {
		slog.Info("устаревшие данные очищены",
			"bookings", bookings, "overrides", overrides, "cutoff", cutoff.ISO())
	}
}
