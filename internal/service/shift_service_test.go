package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/schedule"
)

func (f *fixture) seedShift(trainerID uuid.UUID, ordinal int, hours schedule.HourSet) {
	f.t.Helper()

	shift := &model.WeeklyShift{
		ID:        uuid.New(),
		TrainerID: trainerID,
		Ordinal:   ordinal,
		Hours:     hours,
	}
	if err := f.db.Create(shift).Error; err != nil {
		f.t.Fatalf("seed shift: %v", err)
	}
}

func TestShiftService_ApplyShift_RewritesTemplateOnly(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	f.seedShift(trainer.ID, 1, model.DefaultShiftHours(1))

	// A day already published from the old template.
	date := futureDate(2)
	f.publishDay(trainer.ID, date, model.DefaultShiftHours(1))

	svc := NewShiftService(f.db, f.trainers, f.shifts, f.overrides)
	updated, err := svc.ApplyShift(context.Background(), trainer.ID, 1, schedule.MustHourSet(14, 15, 16))
	if err != nil {
		t.Fatalf("ApplyShift: %v", err)
	}
	if updated.Hours != schedule.MustHourSet(14, 15, 16) {
		t.Fatalf("hours = %v, want [14 15 16]", updated.Hours.Hours())
	}
	if got := f.countEvents(model.EventTypeShiftUpdated); got != 1 {
		t.Fatalf("shift_updated events = %d, want 1", got)
	}

	// Published day keeps the hours it was published with.
	override, err := f.overrides.GetByDate(context.Background(), trainer.ID, date)
	if err != nil {
		t.Fatalf("load override: %v", err)
	}
	if override.Hours != model.DefaultShiftHours(1) {
		t.Fatalf("published day changed: %v", override.Hours.Hours())
	}
}

func TestShiftService_ApplyShift_Validation(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	f.seedShift(trainer.ID, 1, model.DefaultShiftHours(1))

	svc := NewShiftService(f.db, f.trainers, f.shifts, f.overrides)

	if _, err := svc.ApplyShift(context.Background(), trainer.ID, 4, schedule.MustHourSet(9)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ordinal 4: err = %v, want ErrInvalidArgument", err)
	}
	_, err := svc.ApplyShift(context.Background(), trainer.ID, 1, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty hours: err = %v, want ErrInvalidArgument", err)
	}
	if !errors.Is(err, schedule.ErrEmptyHourSet) {
		t.Fatalf("empty hours: err = %v, want ErrEmptyHourSet in the chain", err)
	}
}

func TestShiftService_PublishSchedule_CopiesHoursAndSkipsDuplicates(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	f.seedShift(trainer.ID, 2, schedule.MustHourSet(10, 11, 12))

	day1 := futureDate(1)
	day2 := futureDate(2)
	f.publishDay(trainer.ID, day1, schedule.MustHourSet(9)) // already published

	svc := NewShiftService(f.db, f.trainers, f.shifts, f.overrides)
	result, err := svc.PublishSchedule(context.Background(), trainer.ID, 2, []schedule.LocalDate{day1, day2})
	if err != nil {
		t.Fatalf("PublishSchedule: %v", err)
	}

	if len(result.Published) != 1 || result.Published[0] != day2 {
		t.Fatalf("Published = %v, want [day2]", result.Published)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != day1 {
		t.Fatalf("Skipped = %v, want [day1]", result.Skipped)
	}

	// Existing day untouched, new day carries the shift hours.
	existing, err := f.overrides.GetByDate(context.Background(), trainer.ID, day1)
	if err != nil {
		t.Fatalf("load day1: %v", err)
	}
	if existing.Hours != schedule.MustHourSet(9) {
		t.Fatalf("day1 overwritten: %v", existing.Hours.Hours())
	}
	created, err := f.overrides.GetByDate(context.Background(), trainer.ID, day2)
	if err != nil {
		t.Fatalf("load day2: %v", err)
	}
	if created.Hours != schedule.MustHourSet(10, 11, 12) {
		t.Fatalf("day2 hours = %v, want shift hours", created.Hours.Hours())
	}

	// Copied hours live independently of the template afterwards.
	if _, err := svc.ApplyShift(context.Background(), trainer.ID, 2, schedule.MustHourSet(20)); err != nil {
		t.Fatalf("ApplyShift: %v", err)
	}
	created, err = f.overrides.GetByDate(context.Background(), trainer.ID, day2)
	if err != nil {
		t.Fatalf("reload day2: %v", err)
	}
	if created.Hours != schedule.MustHourSet(10, 11, 12) {
		t.Fatalf("published day follows template edits: %v", created.Hours.Hours())
	}
}

func TestShiftService_PublishSchedule_RejectsPastDates(t *testing.T) {
	f := newFixture(t)
	trainer := f.seedTrainer(100)
	f.seedShift(trainer.ID, 1, model.DefaultShiftHours(1))

	svc := NewShiftService(f.db, f.trainers, f.shifts, f.overrides)
	_, err := svc.PublishSchedule(context.Background(), trainer.ID, 1,
		[]schedule.LocalDate{futureDate(2), futureDate(0)})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}

	// Nothing published when any date is rejected.
	var n int64
	if err := f.db.Model(&model.DateOverride{}).Count(&n).Error; err != nil {
		t.Fatalf("count overrides: %v", err)
	}
	if n != 0 {
		t.Fatalf("overrides = %d, want 0", n)
	}
}
