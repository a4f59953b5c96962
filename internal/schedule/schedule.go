// schedule — чистые функции отложенной публикации: перевод локального времени
// в абсолютный момент, проверка политики расписания и человекочитаемый обратный отсчёт.
// Побочных эффектов нет; «сейчас» всегда передаётся аргументом.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
)

// LocalLayout — формат поля datetime-local, в нём дашборд передаёт время.
const LocalLayout = "2006-01-02T15:04"

// Допустимые форматы локального времени; последний — формат сервера ("YYYY-MM-DD HH:MM").
var localLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

var (
	// ErrTooSoon — момент раньше минимального запаса от «сейчас».
	ErrTooSoon = errors.New("scheduled time is too soon")
	// ErrTooLate — момент позже конца текущих локальных суток.
	ErrTooLate = errors.New("scheduled time is past the end of today")
	// ErrBadFormat — строку не удалось разобрать.
	ErrBadFormat = errors.New("unrecognized local time format")
)

// ToAbsoluteInstant интерпретирует настенное время в зоне loc и возвращает момент в UTC.
// loc == nil означает time.Local.
func ToAbsoluteInstant(local string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	s := strings.TrimSpace(local)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, apierrors.Validation("scheduled_at", fmt.Errorf("%w: %q", ErrBadFormat, local))
}

// FormatLocal — обратная операция: момент в формате datetime-local для зоны loc.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format(LocalLayout)
}

// Policy — политика расписания.
type Policy struct {
	// MinLead — минимальный запас от «сейчас»; момент должен быть строго позже now+MinLead.
	MinLead time.Duration
	// SameDay — запрещает моменты позже конца текущих локальных суток (зона берётся из now).
	SameDay bool
}

// DefaultPolicy — 10 минут запаса, только сегодня.
var DefaultPolicy = Policy{MinLead: 10 * time.Minute, SameDay: true}

// Validate проверяет момент относительно now. Ошибки — ValidationError
// с ErrTooSoon/ErrTooLate внутри.
func (p Policy) Validate(instant, now time.Time) error {
	if !instant.After(now.Add(p.MinLead)) {
		return apierrors.Validation("scheduled_at", ErrTooSoon)
	}

	if p.SameDay && instant.After(EndOfDay(now)) {
		return apierrors.Validation("scheduled_at", ErrTooLate)
	}

	return nil
}

// ValidateSchedule — Validate с политикой по умолчанию.
func ValidateSchedule(instant, now time.Time) error {
	return DefaultPolicy.Validate(instant, now)
}

// EndOfDay — последний момент локальных суток now (в зоне now).
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
}

// DescribeCountdown — относительное описание для отображения:
// "overdue" (<= now), "in N minutes" (< 1ч), "in N hours" (< 24ч), иначе "in N days".
// N округляется вниз.
func DescribeCountdown(instant, now time.Time) string {
	left := instant.Sub(now)

	switch {
	case left <= 0:
		return "overdue"
	case left < time.Hour:
		return plural(int(left/time.Minute), "minute")
	case left < 24*time.Hour:
		return plural(int(left/time.Hour), "hour")
	default:
		return plural(int(left/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "in 1 " + unit
	}

	return fmt.Sprintf("in %d %ss", n, unit)
}
