package schedule

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmptyHourSet   = errors.New("hour set is empty")
	ErrHourOutOfRange = errors.New("hour out of range 0..23")
)

// HourSet — набор часов рабочего дня (0..23) в виде битовой маски.
// В базе хранится строкой вида "9,10,11" — формат, который понимает
// и чат-шлюз, и старые данные.
type HourSet uint32

const hourSetMask HourSet = (1 << 24) - 1

// NewHourSet собирает набор из списка часов.
func NewHourSet(hours ...int) (HourSet, error) {
	var hs HourSet
	for _, h := range hours {
		if h < 0 || h > 23 {
			return 0, fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
		hs |= 1 << uint(h)
	}
	return hs, nil
}

// HourRange возвращает набор часов [from, to) — дефолтные смены тренера.
func HourRange(from, to int) HourSet {
	var hs HourSet
	for h := from; h < to && h < 24; h++ {
		if h >= 0 {
			hs |= 1 << uint(h)
		}
	}
	return hs
}

// ParseHourSet разбирает строку "9,10,11". Пустая строка — пустой набор.
func ParseHourSet(s string) (HourSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var hs HourSet
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("parse hour %q: %w", part, err)
		}
		if h < 0 || h > 23 {
			return 0, fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
		hs |= 1 << uint(h)
	}
	return hs, nil
}

func (hs HourSet) Contains(hour int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	return hs&(1<<uint(hour)) != 0
}

func (hs HourSet) Add(hour int) HourSet {
	if hour < 0 || hour > 23 {
		return hs
	}
	return hs | 1<<uint(hour)
}

func (hs HourSet) Remove(hour int) HourSet {
	if hour < 0 || hour > 23 {
		return hs
	}
	return hs &^ (1 << uint(hour))
}

func (hs HourSet) IsEmpty() bool {
	return hs&hourSetMask == 0
}

func (hs HourSet) Len() int {
	n := 0
	for h := 0; h < 24; h++ {
		if hs.Contains(h) {
			n++
		}
	}
	return n
}

// Hours возвращает часы по возрастанию.
func (hs HourSet) Hours() []int {
	hours := make([]int, 0, hs.Len())
	for h := 0; h < 24; h++ {
		if hs.Contains(h) {
			hours = append(hours, h)
		}
	}
	return hours
}

// String — сериализация в формат хранения: "9,10,11".
func (hs HourSet) String() string {
	hours := hs.Hours()
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

// MustHourSet — помощник для тестов и дефолтов.
func MustHourSet(hours ...int) HourSet {
	hs, err := NewHourSet(hours...)
	if err != nil {
		panic(err)
	}
	return hs
}

// Value реализует driver.Valuer — в колонку уходит строка.
func (hs HourSet) Value() (driver.Value, error) {
	return hs.String(), nil
}

// Scan реализует sql.Scanner.
func (hs *HourSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*hs = 0
		return nil
	case string:
		parsed, err := ParseHourSet(v)
		if err != nil {
			return err
		}
		*hs = parsed
		return nil
	case []byte:
		parsed, err := ParseHourSet(string(v))
		if err != nil {
			return err
		}
		*hs = parsed
		return nil
	default:
		return fmt.Errorf("hour set: unsupported column type %T", src)
	}
}

// SortedUnique оставлен для обратной совместимости с шлюзом,
// который может прислать часы с дубликатами.
func SortedUnique(hours []int) []int {
	seen := make(map[int]struct{}, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}
