package service

import (
	"errors"
	"fmt"
)

// Ожидаемые исходы бизнес-правил. Возвращаются типизированно,
// вызывающая сторона перечитывает расписание и переспрашивает
// пользователя.
var (
	// Дата операции не строго в будущем по поясу тренера.
	ErrPastDate = errors.New("date is not in the future")
	// Слот уже занят другой записью (проигранная гонка).
	ErrSlotTaken = errors.New("slot is already booked")
	// Представление расписания у клиента разошлось со свежим.
	ErrStaleData = errors.New("schedule data is stale")
	// Счётчик тренировок нулевой.
	ErrNoCredit = errors.New("no prepaid workouts left")
	// Тренер, клиент, день или запись не найдены.
	ErrNotFound = errors.New("not found")
	// Некорректные аргументы операции.
	ErrInvalidArgument = errors.New("invalid argument")
)

// StoreError — инфраструктурный сбой хранилища; единственный вид
// ошибки, который не является ожидаемым исходом.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsExpected — ожидаемый ли это исход (а не сбой хранилища).
func IsExpected(err error) bool {
	return errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrStaleData) ||
		errors.Is(err, ErrNoCredit) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidArgument)
}
