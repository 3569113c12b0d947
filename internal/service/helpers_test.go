package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/notify"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
	"github.com/trainbook/core/internal/scheduler"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Minimal schema for the query/update logic (sqlite-friendly).
	schema := []string{
		`CREATE TABLE trainers (
			id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			time_zone TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE clients (
			id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE enrollments (
			trainer_id TEXT NOT NULL,
			client_id TEXT NOT NULL,
			credits INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (trainer_id, client_id)
		);`,
		`CREATE TABLE weekly_shifts (
			id TEXT PRIMARY KEY,
			trainer_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			hours TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (trainer_id, ordinal)
		);`,
		`CREATE TABLE date_overrides (
			id TEXT PRIMARY KEY,
			trainer_id TEXT NOT NULL,
			date DATETIME NOT NULL,
			hours TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (trainer_id, date)
		);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			trainer_id TEXT NOT NULL,
			client_id TEXT NOT NULL,
			date DATETIME NOT NULL,
			hour INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (trainer_id, date, hour)
		);`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			created_at DATETIME,
			trainer_id TEXT,
			client_id TEXT,
			details TEXT
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type fixture struct {
	t  *testing.T
	db *gorm.DB

	trainers    repository.TrainerRepository
	clients     repository.ClientRepository
	enrollments repository.EnrollmentRepository
	shifts      repository.ShiftRepository
	overrides   repository.OverrideRepository
	bookings    repository.BookingRepository

	tasks     *scheduler.MemoryScheduler
	reminders *ReminderBridge
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testDB(t)
	tasks := scheduler.NewMemoryScheduler()
	return &fixture{
		t:  t,
		db: db,

		trainers:    repository.NewGormTrainerRepository(db),
		clients:     repository.NewGormClientRepository(db),
		enrollments: repository.NewGormEnrollmentRepository(db),
		shifts:      repository.NewGormShiftRepository(db),
		overrides:   repository.NewGormOverrideRepository(db),
		bookings:    repository.NewGormBookingRepository(db),

		tasks:     tasks,
		reminders: NewReminderBridge(tasks, DefaultReminderHour),
	}
}

func (f *fixture) bookingService() *BookingService {
	return NewBookingService(f.db, f.trainers, f.clients, f.enrollments, f.overrides, f.bookings, f.reminders)
}

func (f *fixture) cancelService(n notify.Notifier) *CancelService {
	return NewCancelService(f.db, f.trainers, f.clients, f.enrollments, f.overrides, f.bookings, f.reminders, n)
}

// seedTrainer uses UTC so "today" in tests does not depend on the host zone.
func (f *fixture) seedTrainer(chatID int64) *model.Trainer {
	f.t.Helper()

	trainer := &model.Trainer{
		ID:          uuid.New(),
		ChatID:      chatID,
		DisplayName: "trainer",
		TimeZone:    "UTC",
	}
	if err := f.db.Create(trainer).Error; err != nil {
		f.t.Fatalf("seed trainer: %v", err)
	}
	return trainer
}

func (f *fixture) seedClient(trainerID uuid.UUID, chatID int64, credits int) *model.Client {
	f.t.Helper()

	client := &model.Client{
		ID:          uuid.New(),
		ChatID:      chatID,
		DisplayName: "client",
	}
	if err := f.db.Create(client).Error; err != nil {
		f.t.Fatalf("seed client: %v", err)
	}
	enrollment := &model.Enrollment{
		TrainerID: trainerID,
		ClientID:  client.ID,
		Credits:   credits,
	}
	if err := f.db.Create(enrollment).Error; err != nil {
		f.t.Fatalf("seed enrollment: %v", err)
	}
	return client
}

func (f *fixture) publishDay(trainerID uuid.UUID, date schedule.LocalDate, hours schedule.HourSet) {
	f.t.Helper()

	override := &model.DateOverride{
		ID:        uuid.New(),
		TrainerID: trainerID,
		Date:      datatypes.Date(date.UTC()),
		Hours:     hours,
	}
	if err := f.db.Create(override).Error; err != nil {
		f.t.Fatalf("seed override: %v", err)
	}
}

func (f *fixture) seedBooking(trainerID, clientID uuid.UUID, date schedule.LocalDate, hour int) *model.Booking {
	f.t.Helper()

	booking := &model.Booking{
		ID:        uuid.New(),
		TrainerID: trainerID,
		ClientID:  clientID,
		Date:      datatypes.Date(date.UTC()),
		Hour:      hour,
	}
	if err := f.db.Create(booking).Error; err != nil {
		f.t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func (f *fixture) credits(trainerID, clientID uuid.UUID) int {
	f.t.Helper()

	enrollment, err := f.enrollments.Get(context.Background(), trainerID, clientID)
	if err != nil {
		f.t.Fatalf("load enrollment: %v", err)
	}
	return enrollment.Credits
}

func (f *fixture) countEvents(eventType model.EventType) int {
	f.t.Helper()

	var n int64
	if err := f.db.Model(&model.Event{}).Where("event_type = ?", eventType).Count(&n).Error; err != nil {
		f.t.Fatalf("count events: %v", err)
	}
	return int(n)
}

type sentMessage struct {
	ChatID int64
	Text   string
}

// recorder collects outgoing messages; optionally fails every send.
type recorder struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (r *recorder) Send(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (r *recorder) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

func futureDate(days int) schedule.LocalDate {
	return schedule.Today(nil).AddDays(days)
}
