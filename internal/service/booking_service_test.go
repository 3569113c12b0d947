package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/schedule"
)

func TestBookingService_Book_ConsumesCreditAndSchedulesReminder(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	client := f.seedClient(trainer.ID, 200, 3)

	date := futureDate(3)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9, 10, 11))

	result, err := f.bookingService().Book(context.Background(), trainer.ID, client.ID, date, 10)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.CreditsLeft != 2 {
		t.Fatalf("CreditsLeft = %d, want 2", result.CreditsLeft)
	}
	if got := f.credits(trainer.ID, client.ID); got != 2 {
		t.Fatalf("credits in db = %d, want 2", got)
	}

	if _, err := f.bookings.GetBySlot(context.Background(), trainer.ID, date, 10); err != nil {
		t.Fatalf("booking not stored: %v", err)
	}
	if got := f.countEvents(model.EventTypeBookingCreated); got != 1 {
		t.Fatalf("booking_created events = %d, want 1", got)
	}

	task, ok := f.tasks.Get(ReminderKey(client.ChatID, date, 10))
	if !ok {
		t.Fatalf("reminder not scheduled")
	}
	want := date.AddDays(-1).At(DefaultReminderHour, nil)
	if !task.FireAt.Equal(want) {
		t.Fatalf("reminder fires at %v, want %v", task.FireAt, want)
	}
}

func TestBookingService_Book_RejectsPastAndToday(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	client := f.seedClient(trainer.ID, 200, 1)

	for _, days := range []int{-1, 0} {
		date := futureDate(days)
		f.publishDay(trainer.ID, date, schedule.MustHourSet(9))

		_, err := f.bookingService().Book(context.Background(), trainer.ID, client.ID, date, 9)
		if !errors.Is(err, ErrPastDate) {
			t.Fatalf("days=%d: err = %v, want ErrPastDate", days, err)
		}
	}

	if got := f.credits(trainer.ID, client.ID); got != 1 {
		t.Fatalf("credits changed on rejected booking: %d", got)
	}
}

func TestBookingService_Book_StaleSchedule(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	client := f.seedClient(trainer.ID, 200, 1)

	// Day never published.
	_, err := f.bookingService().Book(context.Background(), trainer.ID, client.ID, futureDate(2), 9)
	if !errors.Is(err, ErrStaleData) {
		t.Fatalf("unpublished day: err = %v, want ErrStaleData", err)
	}

	// Day published without the requested hour.
	date := futureDate(3)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9, 10))
	_, err = f.bookingService().Book(context.Background(), trainer.ID, client.ID, date, 15)
	if !errors.Is(err, ErrStaleData) {
		t.Fatalf("absent hour: err = %v, want ErrStaleData", err)
	}
}

func TestBookingService_Book_SlotTaken(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	first := f.seedClient(trainer.ID, 200, 1)
	second := f.seedClient(trainer.ID, 201, 1)

	date := futureDate(2)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9, 10))
	f.seedBooking(trainer.ID, first.ID, date, 9)

	_, err := f.bookingService().Book(context.Background(), trainer.ID, second.ID, date, 9)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	if got := f.credits(trainer.ID, second.ID); got != 1 {
		t.Fatalf("credits consumed on taken slot: %d", got)
	}
}

// slotBlindBookings reports every slot as free, so the unique index is
// the only thing standing between two racing bookings.
type slotBlindBookings struct {
	repository.BookingRepository
}

func (r slotBlindBookings) GetBySlot(context.Context, uuid.UUID, schedule.LocalDate, int) (*model.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r slotBlindBookings) WithTx(tx *gorm.DB) repository.BookingRepository {
	return slotBlindBookings{r.BookingRepository.WithTx(tx)}
}

func TestBookingService_Book_LostRaceHitsUniqueIndex(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	winner := f.seedClient(trainer.ID, 200, 1)
	loser := f.seedClient(trainer.ID, 201, 1)

	date := futureDate(2)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9))
	f.seedBooking(trainer.ID, winner.ID, date, 9)

	svc := NewBookingService(f.db, f.trainers, f.clients, f.enrollments,
		f.overrides, slotBlindBookings{f.bookings}, f.reminders)

	_, err := svc.Book(context.Background(), trainer.ID, loser.ID, date, 9)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken from the unique index", err)
	}

	// The losing transaction rolled back completely.
	if got := f.credits(trainer.ID, loser.ID); got != 1 {
		t.Fatalf("loser credits = %d, want 1", got)
	}
	if f.tasks.Len() != 0 {
		t.Fatalf("reminder scheduled for a lost race")
	}
}

func TestBookingService_Book_NoCredit(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	client := f.seedClient(trainer.ID, 200, 0)

	date := futureDate(2)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9))

	_, err := f.bookingService().Book(context.Background(), trainer.ID, client.ID, date, 9)
	if !errors.Is(err, ErrNoCredit) {
		t.Fatalf("err = %v, want ErrNoCredit", err)
	}

	// Nothing committed: no booking, no reminder, credits still 0.
	if _, err := f.bookings.GetBySlot(context.Background(), trainer.ID, date, 9); err == nil {
		t.Fatalf("booking stored despite no credit")
	}
	if f.tasks.Len() != 0 {
		t.Fatalf("reminder scheduled despite no credit")
	}
	if got := f.credits(trainer.ID, client.ID); got != 0 {
		t.Fatalf("credits = %d, want 0", got)
	}
}

func TestBookingService_Book_UnknownEnrollment(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	outsider := f.seedClient(f.seedTrainer(101).ID, 200, 5)

	date := futureDate(2)
	f.publishDay(trainer.ID, date, schedule.MustHourSet(9))

	_, err := f.bookingService().Book(context.Background(), trainer.ID, outsider.ID, date, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookingService_Book_InvalidHour(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	client := f.seedClient(trainer.ID, 200, 1)

	_, err := f.bookingService().Book(context.Background(), trainer.ID, client.ID, futureDate(2), 24)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
