package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	logctx "github.com/pribylovaa/kickoffzone-admin/pkg/log"
)

// BulkReject отклоняет все выбранные элементы.
func (c *Controller) BulkReject(ctx context.Context, kind models.Kind) error {
	return c.Bulk(ctx, kind, models.ActionReject)
}

// Bulk применяет действие к каждому выбранному элементу независимо.
//
// Особенности:
//   - подтверждение запрашивается один раз на всю пачку;
//   - запросы идут параллельно (не больше bulkLimit одновременно);
//   - после завершения всех запросов успешные элементы переводятся, неуспешные не меняются,
//     выбор очищается;
//   - частичный сбой — *BulkError с числом неудач.
func (c *Controller) Bulk(ctx context.Context, kind models.Kind, action models.Action) error {
	name := "bulk-" + action.String()

	ids := c.store.Selected(kind)
	err := c.bulk(ctx, kind, action, ids)

	c.report(ctx, Outcome{Action: name, Kind: kind, IDs: ids, Err: err})

	return err
}

func (c *Controller) bulk(ctx context.Context, kind models.Kind, action models.Action, ids []models.ID) error {
	if len(ids) == 0 {
		return apierrors.Validation("selection", ErrNothingSelected)
	}
	if !action.Valid() {
		return apierrors.Validation("action", models.ErrUnknownAction)
	}
	if !kind.Supports(action) {
		return apierrors.Validation("action",
			conflict{fmt.Errorf("%w: %s is not available for %s", models.ErrIllegalTransition, action, kind)})
	}

	if err := c.confirm(ctx, Prompt{
		Action: "bulk-" + action.String(),
		Kind:   kind,
		IDs:    ids,
		Text:   fmt.Sprintf("%s %d %s item(s)?", action, len(ids), kind),
	}); err != nil {
		return err
	}

	type done struct {
		id   models.ID
		next models.Status
	}

	var (
		mu        sync.Mutex
		succeeded []done
		failed    = make(map[models.ID]error)
	)

	g := new(errgroup.Group)
	g.SetLimit(c.bulkLimit)

	for _, id := range ids {
		g.Go(func() error {
			key := itemKey{kind: kind, id: id}
			if !c.acquire(key) {
				mu.Lock()
				failed[id] = apierrors.Validation("id", ErrInFlight)
				mu.Unlock()
				return nil
			}

			item, next, err := c.prepare(kind, id, action, nil)
			if err == nil {
				err = c.send(logctx.WithItem(ctx, c.log, id.String()), item, action, nil)
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				c.release(key)
				failed[id] = err
				return nil
			}
			// Успешный элемент остаётся занятым до применения результата.
			succeeded = append(succeeded, done{id: id, next: next})

			return nil
		})
	}
	_ = g.Wait()

	// Локальные изменения применяются после того, как все запросы завершились.
	for _, d := range succeeded {
		c.apply(kind, d.id, d.next, action, nil)
		c.release(itemKey{kind: kind, id: d.id})
	}
	c.store.Clear(kind)

	if len(failed) > 0 {
		return &BulkError{Action: action, Total: len(ids), Failed: failed}
	}

	return nil
}
