// models содержит доменные сущности админки KickOffZone.
// Эти типы используются клиентом API, хранилищем, контроллером жизненного цикла и транспортом.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind — вид контента; определяет набор эндпойнтов и значимые поля.
type Kind string

const (
	KindNews     Kind = "news"
	KindBirthday Kind = "birthday"
)

// ErrUnknownKind — неизвестный вид контента.
var ErrUnknownKind = errors.New("unknown content kind")

// ParseKind разбирает вид контента (допускает "news_post"/"birthday_post" из URL дашборда).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "news", "news_post", "posts":
		return KindNews, nil
	case "birthday", "birthday_post", "birthdays":
		return KindBirthday, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) String() string { return string(k) }

// Supports сообщает, есть ли у сервера эндпойнт для действия над этим видом.
// У поздравлений нет публикации и отмены расписания: approve сразу постит их на сервере.
func (k Kind) Supports(a Action) bool {
	switch k {
	case KindNews:
		return a.Valid()
	case KindBirthday:
		return a == ActionApprove || a == ActionReject || a == ActionDelete
	default:
		return false
	}
}

// ID — непрозрачный идентификатор. Сервер отдаёт целые числа, клиент их не интерпретирует.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON принимает и число, и строку.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// BirthdayDetails — поля, значимые только для поздравлений.
type BirthdayDetails struct {
	Name      string
	Team      string
	BirthYear int
	Age       int
}

// ContentItem — единица модерации.
//
// Особенности:
//   - ID и CreatedAt неизменяемы и назначаются сервером;
//   - пустой ImageRef — валидное состояние «нет картинки», а не ошибка;
//   - ScheduledAt (UTC) задан только для отложенной публикации;
//   - Status меняется только контроллером жизненного цикла.
type ContentItem struct {
	ID          ID
	Kind        Kind
	Title       string
	Summary     string
	ImageRef    string
	SourceURL   string
	Hashtags    []string
	Status      Status
	ScheduledAt *time.Time
	CreatedAt   time.Time
	Birthday    *BirthdayDetails
}

// HasImage — есть ли у элемента картинка.
func (c ContentItem) HasImage() bool { return strings.TrimSpace(c.ImageRef) != "" }

// IsScheduled — стоит ли элемент в очереди на отложенную публикацию.
func (c ContentItem) IsScheduled() bool { return c.ScheduledAt != nil }

// Filter описывает загруженный список: по нему решается, остаётся ли элемент в нём
// после перехода статуса.
type Filter struct {
	// Status — пустой означает «любой статус».
	Status           Status
	ScheduledOnly    bool
	MissingImageOnly bool
}

// Match — принадлежит ли элемент списку.
func (f Filter) Match(c ContentItem) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.ScheduledOnly && !c.IsScheduled() {
		return false
	}
	if f.MissingImageOnly && c.HasImage() {
		return false
	}

	return true
}
