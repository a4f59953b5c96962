package lifecycle

import (
	"context"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// Prompt — запрос подтверждения необратимого или массового действия.
type Prompt struct {
	Action string
	Kind   models.Kind
	IDs    []models.ID
	Text   string
}

// Confirmer спрашивает пользователя. false — действие отменяется без запроса к серверу.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc — адаптер функции к Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// AutoConfirm подтверждает всё (подтверждение уже получено на стороне представления).
var AutoConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) bool { return true })

// Outcome — итог одного действия для показа пользователю.
type Outcome struct {
	Action  string
	Kind    models.Kind
	IDs     []models.ID
	Err     error
	Message string
}

// OK — действие завершилось успешно.
func (o Outcome) OK() bool { return o.Err == nil }

// Notifier получает ровно один Outcome на каждое действие.
type Notifier interface {
	Notify(o Outcome)
}

// NotifyFunc — адаптер функции к Notifier.
type NotifyFunc func(o Outcome)

func (f NotifyFunc) Notify(o Outcome) { f(o) }

type nopNotifier struct{}

func (nopNotifier) Notify(Outcome) {}
