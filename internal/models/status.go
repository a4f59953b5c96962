package models

import (
	"errors"
	"fmt"
	"strings"
)

// Status — состояние модерации. Других значений, кроме четырёх констант, не бывает:
// единственные конструкторы — ParseStatus и Next.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

// wireScheduled — статус, который сервер ставит ручному посту, запланированному в Facebook.
const wireScheduled = "scheduled"

var (
	// ErrUnknownStatus — значение статуса вне допустимого набора.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrIllegalTransition — действие недопустимо из текущего статуса.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrUnknownAction — неизвестное действие.
	ErrUnknownAction = errors.New("unknown action")
)

// ParseStatus разбирает статус. "scheduled" сводится к approved:
// элемент одобрен и ждёт отложенной публикации.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, nil
	case "approved", wireScheduled:
		return StatusApproved, nil
	case "published":
		return StatusPublished, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func (s Status) String() string { return string(s) }

// Valid — входит ли значение в допустимый набор.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusPublished, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal — published/rejected конечны с точки зрения клиента.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusRejected
}

// Action — действие модератора.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionPublish        Action = "publish"
	ActionDelete         Action = "delete"
	ActionCancelSchedule Action = "cancel-schedule"
)

// ParseAction разбирает действие.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	return a, nil
}

func (a Action) String() string { return string(a) }

// Valid — входит ли действие в допустимый набор.
func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionPublish, ActionDelete, ActionCancelSchedule:
		return true
	default:
		return false
	}
}

// ChangesStatus — меняет ли действие статус (delete удаляет, cancel-schedule статус сохраняет).
func (a Action) ChangesStatus() bool {
	return a == ActionApprove || a == ActionReject || a == ActionPublish
}

// Next — функция переходов жизненного цикла:
//
//	draft    --approve--> approved
//	draft    --reject-->  rejected
//	approved --publish--> published
//	approved --reject-->  rejected
//
// Для delete и cancel-schedule статус не меняется (удаление разрешено из любого статуса,
// предусловие отмены расписания проверяет контроллер).
// Результат всегда один из четырёх статусов.
func Next(from Status, a Action) (Status, error) {
	if !from.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}

	switch a {
	case ActionDelete, ActionCancelSchedule:
		return from, nil
	case ActionApprove:
		if from == StatusDraft {
			return StatusApproved, nil
		}
	case ActionReject:
		if from == StatusDraft || from == StatusApproved {
			return StatusRejected, nil
		}
	case ActionPublish:
		if from == StatusApproved {
			return StatusPublished, nil
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}

	return "", fmt.Errorf("%w: %s from %s", ErrIllegalTransition, a, from)
}
