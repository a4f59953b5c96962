// lifecycle — контроллер жизненного цикла элементов модерации.
//
// Контроллер — единственный, кто меняет хранилище:
//   - сначала запрос к серверу, локальное изменение только после успешного ответа;
//   - при ошибке элемент не трогается, ошибка отдаётся вызывающему и в Notifier;
//   - повторное действие по элементу, пока предыдущее не завершилось, отклоняется (ErrInFlight);
//   - удаление, отмена расписания и массовые действия требуют подтверждения (Confirmer).
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/metrics"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
	logctx "github.com/pribylovaa/kickoffzone-admin/pkg/log"
)

const defaultBulkConcurrency = 4

type itemKey struct {
	kind models.Kind
	id   models.ID
}

// Controller — см. описание пакета. Безопасен для конкурентного использования.
type Controller struct {
	remote    Remote
	store     *store.Store
	confirmer Confirmer
	notifier  Notifier
	policy    schedule.Policy
	loc       *time.Location
	clock     func() time.Time
	bulkLimit int
	log       *slog.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	inflight map[itemKey]struct{}
}

// Option — опция конструктора.
type Option func(*Controller)

// WithConfirmer задаёт способ подтверждения (по умолчанию AutoConfirm).
func WithConfirmer(cf Confirmer) Option {
	return func(c *Controller) {
		if cf != nil {
			c.confirmer = cf
		}
	}
}

// WithNotifier задаёт получателя итогов действий.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithPolicy задаёт политику расписания.
func WithPolicy(p schedule.Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLocation задаёт локальную зону пользователя (границы суток, datetime-local).
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock подменяет часы (тесты).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithBulkConcurrency ограничивает число параллельных запросов массового действия.
func WithBulkConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.bulkLimit = n
		}
	}
}

// WithLogger задаёт логгер по умолчанию (если в ctx логгера нет).
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics включает счётчики действий.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New создаёт контроллер. st принадлежит контроллеру: другие мутировать его не должны.
func New(remote Remote, st *store.Store, opts ...Option) *Controller {
	if st == nil {
		st = store.New()
	}

	c := &Controller{
		remote:    remote,
		store:     st,
		confirmer: AutoConfirm,
		notifier:  nopNotifier{},
		policy:    schedule.DefaultPolicy,
		loc:       time.Local,
		clock:     time.Now,
		bulkLimit: defaultBulkConcurrency,
		log:       slog.Default(),
		inflight:  make(map[itemKey]struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Store — хранилище только для чтения.
func (c *Controller) Store() store.Reader { return c.store }

// Location — локальная зона пользователя.
func (c *Controller) Location() *time.Location { return c.loc }

// Now — текущее время в локальной зоне пользователя.
func (c *Controller) Now() time.Time { return c.clock().In(c.loc) }

// Policy — действующая политика расписания.
func (c *Controller) Policy() schedule.Policy { return c.policy }

// Toggle переключает выбор элемента.
func (c *Controller) Toggle(kind models.Kind, id models.ID) bool { return c.store.Toggle(kind, id) }

// SelectAll выбирает весь загруженный список.
func (c *Controller) SelectAll(kind models.Kind) { c.store.SelectAll(kind) }

// ClearSelection снимает выбор.
func (c *Controller) ClearSelection(kind models.Kind) { c.store.Clear(kind) }

// Load загружает список вида kind по фильтру и заменяет им содержимое хранилища.
//
// Особенности:
//   - ScheduledOnly и MissingImageOnly есть только у новостей (отдельные эндпойнты);
//   - результат дополнительно проходит filter.Match, чтобы список всегда соответствовал фильтру.
func (c *Controller) Load(ctx context.Context, kind models.Kind, filter models.Filter) ([]models.ContentItem, error) {
	items, err := c.load(ctx, kind, filter)
	if err != nil {
		c.report(ctx, Outcome{Action: "load", Kind: kind, Err: err})
		return nil, err
	}

	return items, nil
}

// LoadScheduled — очередь отложенных публикаций новостей.
func (c *Controller) LoadScheduled(ctx context.Context) ([]models.ContentItem, error) {
	return c.Load(ctx, models.KindNews, models.Filter{ScheduledOnly: true})
}

// LoadMissingImages — новости без картинки.
func (c *Controller) LoadMissingImages(ctx context.Context) ([]models.ContentItem, error) {
	return c.Load(ctx, models.KindNews, models.Filter{MissingImageOnly: true})
}

// Refresh перечитывает текущий список вида kind с его фильтром.
func (c *Controller) Refresh(ctx context.Context, kind models.Kind) ([]models.ContentItem, error) {
	return c.Load(ctx, kind, c.store.Filter(kind))
}

func (c *Controller) load(ctx context.Context, kind models.Kind, filter models.Filter) ([]models.ContentItem, error) {
	const op = "lifecycle/controller/load"

	if kind != models.KindNews && kind != models.KindBirthday {
		return nil, apierrors.Validation("kind", models.ErrUnknownKind)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apierrors.Validation("status", models.ErrUnknownStatus)
	}
	if kind == models.KindBirthday && (filter.ScheduledOnly || filter.MissingImageOnly) {
		return nil, apierrors.Validation("filter", errors.New("birthday lists support status filter only"))
	}

	var (
		items []models.ContentItem
		err   error
	)
	switch {
	case filter.ScheduledOnly:
		items, err = c.remote.ListScheduled(ctx)
	case filter.MissingImageOnly:
		items, err = c.remote.ListWithoutImages(ctx)
	default:
		items, err = c.remote.ListItems(ctx, kind, filter.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kept := items[:0]
	for _, it := range items {
		it.Kind = kind
		if filter.Match(it) {
			kept = append(kept, it)
		}
	}

	c.store.ReplaceAll(kind, filter, kept)

	c.logger(ctx).Debug("list_loaded",
		slog.String("op", op),
		slog.String("kind", kind.String()),
		slog.Int("items", len(kept)),
	)

	return c.store.List(kind), nil
}

// refreshAfter перечитывает список после успешного действия; сбой только логируется:
// само действие уже выполнено.
func (c *Controller) refreshAfter(ctx context.Context, kind models.Kind) {
	if _, err := c.load(ctx, kind, c.store.Filter(kind)); err != nil {
		c.logger(ctx).Warn("refresh_failed",
			slog.String("kind", kind.String()),
			slog.String("err", err.Error()),
		)
	}
}

// acquire помечает элемент как занятый действием.
func (c *Controller) acquire(key itemKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}

	return true
}

func (c *Controller) release(key itemKey) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Controller) confirm(ctx context.Context, p Prompt) error {
	if c.confirmer.Confirm(ctx, p) {
		return nil
	}

	return ErrDeclined
}

func (c *Controller) logger(ctx context.Context) *slog.Logger {
	return logctx.FromOr(ctx, c.log)
}

// report — метрика, лог и ровно одно уведомление на действие.
func (c *Controller) report(ctx context.Context, o Outcome) {
	outcome := outcomeLabel(o.Err)
	c.metrics.ObserveAction(o.Kind.String(), o.Action, outcome)

	if o.Message == "" {
		o.Message = userMessage(o.Action, o.Err)
	}

	lg := c.logger(ctx).With(
		slog.String("action", o.Action),
		slog.String("kind", o.Kind.String()),
		slog.Int("items", len(o.IDs)),
		slog.String("outcome", outcome),
	)
	if o.Err != nil {
		lg.Warn("action_failed", slog.String("err", o.Err.Error()))
	} else {
		lg.Info("action_done")
	}

	c.notifier.Notify(o)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, ErrDeclined) {
		return "declined"
	}

	var be *BulkError
	if errors.As(err, &be) {
		return "partial"
	}

	if cls := apierrors.Classify(err); cls != apierrors.ClassUnknown {
		return cls.String()
	}

	return "error"
}

func userMessage(action string, err error) string {
	var be *BulkError
	switch {
	case errors.Is(err, ErrDeclined):
		return action + ": cancelled"
	case errors.As(err, &be):
		return fmt.Sprintf("%s: %d of %d failed", action, len(be.Failed), be.Total)
	default:
		return apierrors.UserMessage(action, err)
	}
}
