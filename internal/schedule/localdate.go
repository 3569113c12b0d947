package schedule

import (
	"errors"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const isoDateLayout = "2006-01-02"

// LocalDate — календарная дата без времени и часового пояса.
// Сравнимый тип, пригодный как ключ словаря расписания.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf обрезает время, оставляя дату в поясе значения t.
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// Today — текущая дата в заданном поясе.
func Today(loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate разбирает ISO-дату "2006-01-02".
func ParseDate(s string) (LocalDate, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return LocalDate{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// ISO — сериализация в "2006-01-02".
func (d LocalDate) ISO() string {
	return d.Time(time.UTC).Format(isoDateLayout)
}

// Time — полночь этой даты в поясе loc.
func (d LocalDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// UTC — полночь в UTC; единая нормализация для колонок типа date.
func (d LocalDate) UTC() time.Time {
	return d.Time(time.UTC)
}

func (d LocalDate) IsZero() bool {
	return d == LocalDate{}
}

func (d LocalDate) AddDays(n int) LocalDate {
	return DateOf(d.UTC().AddDate(0, 0, n))
}

func (d LocalDate) After(other LocalDate) bool {
	return d.UTC().After(other.UTC())
}

func (d LocalDate) Before(other LocalDate) bool {
	return d.UTC().Before(other.UTC())
}

// At — момент "дата + час" в поясе loc. Используется для вычисления
// времени напоминания.
func (d LocalDate) At(hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

func (d LocalDate) Weekday() time.Weekday {
	return d.UTC().Weekday()
}
