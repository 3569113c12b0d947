package schedule

import (
	"fmt"
	"time"
)

var ruWeekdays = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

// FormatHour — "11:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

// FormatDay форматирует дату в человекочитаемую строку:
// "Вторник, 10.06.2025".
func FormatDay(d LocalDate) string {
	return fmt.Sprintf("%s, %s", ruWeekdays[d.Weekday()], d.UTC().Format("02.01.2006"))
}

// FormatSlot — "Вторник, 10.06.2025, 11:00".
func FormatSlot(d LocalDate, hour int) string {
	return fmt.Sprintf("%s, %s", FormatDay(d), FormatHour(hour))
}
