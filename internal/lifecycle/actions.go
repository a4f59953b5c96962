package lifecycle

import (
	"context"
	"fmt"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	logctx "github.com/pribylovaa/kickoffzone-admin/pkg/log"
)

// Approve — draft → approved.
func (c *Controller) Approve(ctx context.Context, kind models.Kind, id models.ID) error {
	return c.Act(ctx, kind, id, models.ActionApprove, nil)
}

// Reject — draft|approved → rejected.
func (c *Controller) Reject(ctx context.Context, kind models.Kind, id models.ID) error {
	return c.Act(ctx, kind, id, models.ActionReject, nil)
}

// Publish — approved → published. С scheduledAt публикация откладывается:
// элемент остаётся approved с заданным ScheduledAt до публикации сервером.
func (c *Controller) Publish(ctx context.Context, kind models.Kind, id models.ID, scheduledAt *time.Time) error {
	return c.Act(ctx, kind, id, models.ActionPublish, scheduledAt)
}

// Delete — безвозвратное удаление из любого статуса (с подтверждением).
func (c *Controller) Delete(ctx context.Context, kind models.Kind, id models.ID) error {
	return c.Act(ctx, kind, id, models.ActionDelete, nil)
}

// CancelSchedule снимает новость с отложенной публикации (с подтверждением).
func (c *Controller) CancelSchedule(ctx context.Context, id models.ID) error {
	return c.Act(ctx, models.KindNews, id, models.ActionCancelSchedule, nil)
}

// Act — одно действие над одним элементом. scheduledAt учитывается только для publish.
func (c *Controller) Act(ctx context.Context, kind models.Kind, id models.ID, action models.Action, scheduledAt *time.Time) error {
	ctx = logctx.WithItem(ctx, c.log, id.String())

	err := c.act(ctx, kind, id, action, scheduledAt)

	c.report(ctx, Outcome{Action: action.String(), Kind: kind, IDs: []models.ID{id}, Err: err})

	return err
}

// act держит элемент занятым от проверок до применения результата.
func (c *Controller) act(ctx context.Context, kind models.Kind, id models.ID, action models.Action, scheduledAt *time.Time) error {
	key := itemKey{kind: kind, id: id}
	if !c.acquire(key) {
		return apierrors.Validation("id", ErrInFlight)
	}
	defer c.release(key)

	item, next, err := c.prepare(kind, id, action, scheduledAt)
	if err != nil {
		return err
	}

	if needsConfirm(action) {
		if err := c.confirm(ctx, Prompt{
			Action: action.String(),
			Kind:   kind,
			IDs:    []models.ID{id},
			Text:   fmt.Sprintf("%s %s %q?", action, kind, item.Title),
		}); err != nil {
			return err
		}

		// Пока открыт запрос подтверждения, список мог обновиться.
		if item, next, err = c.prepare(kind, id, action, scheduledAt); err != nil {
			return err
		}
	}

	if err := c.send(ctx, item, action, scheduledAt); err != nil {
		return err
	}

	c.apply(kind, id, next, action, scheduledAt)

	return nil
}

func needsConfirm(a models.Action) bool {
	return a == models.ActionDelete || a == models.ActionCancelSchedule
}

// prepare — локальные проверки до любого запроса: поддержка действия видом,
// наличие элемента, легальность перехода, расписание.
func (c *Controller) prepare(kind models.Kind, id models.ID, action models.Action, scheduledAt *time.Time) (models.ContentItem, models.Status, error) {
	if !action.Valid() {
		return models.ContentItem{}, "", apierrors.Validation("action", models.ErrUnknownAction)
	}
	if !kind.Supports(action) {
		return models.ContentItem{}, "", apierrors.Validation("action",
			conflict{fmt.Errorf("%w: %s is not available for %s", models.ErrIllegalTransition, action, kind)})
	}

	item, ok := c.store.Get(kind, id)
	if !ok {
		return models.ContentItem{}, "", apierrors.Validation("id", ErrNotLoaded)
	}

	next, err := models.Next(item.Status, action)
	if err != nil {
		return models.ContentItem{}, "", apierrors.Validation("action", conflict{err})
	}

	switch action {
	case models.ActionCancelSchedule:
		if !item.IsScheduled() {
			return models.ContentItem{}, "", apierrors.Validation("scheduled_at", ErrNotScheduled)
		}
	case models.ActionPublish:
		if scheduledAt != nil {
			if err := c.policy.Validate(*scheduledAt, c.Now()); err != nil {
				return models.ContentItem{}, "", err
			}
		}
	}

	return item, next, nil
}

// send — один запрос к серверу. Элемент должен быть занят вызывающим (acquire).
func (c *Controller) send(ctx context.Context, item models.ContentItem, action models.Action, scheduledAt *time.Time) error {
	const op = "lifecycle/actions/send"

	var err error
	switch action {
	case models.ActionDelete:
		err = c.remote.Delete(ctx, item.Kind, item.ID)
	case models.ActionCancelSchedule:
		err = c.remote.CancelSchedule(ctx, item.ID)
	default:
		err = c.remote.Transition(ctx, item.Kind, item.ID, action, scheduledAt)
	}
	if err != nil {
		return fmt.Errorf("%s: %s %s: %w", op, action, item.ID, err)
	}

	return nil
}

// apply — локальное изменение после подтверждённого сервером успеха.
// Меняется текущая запись хранилища; если обновление списка её уже убрало, менять нечего.
func (c *Controller) apply(kind models.Kind, id models.ID, next models.Status, action models.Action, scheduledAt *time.Time) {
	if action == models.ActionDelete {
		c.store.Remove(kind, id)
		return
	}

	item, ok := c.store.Get(kind, id)
	if !ok {
		return
	}

	switch action {
	case models.ActionCancelSchedule:
		item.ScheduledAt = nil
	case models.ActionPublish:
		if scheduledAt != nil {
			at := scheduledAt.UTC()
			item.ScheduledAt = &at
		} else {
			item.Status = next
			item.ScheduledAt = nil
		}
	default:
		item.Status = next
	}

	c.store.Apply(kind, item)
}
