package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// ListItems — список элементов вида kind; пустой status — все статусы.
func (c *Client) ListItems(ctx context.Context, kind models.Kind, status models.Status) ([]models.ContentItem, error) {
	const op = "remote/posts/ListItems"

	var q url.Values
	if status != "" {
		q = url.Values{"status": []string{status.String()}}
	}

	switch kind {
	case models.KindNews:
		var out []wirePost
		if err := c.do(ctx, op, call{endpoint: "GET /posts", method: http.MethodGet, path: "/posts", query: q}, &out); err != nil {
			return nil, err
		}
		return convertPosts(op, out)

	case models.KindBirthday:
		var out []wireBirthday
		if err := c.do(ctx, op, call{endpoint: "GET /api/birthdays", method: http.MethodGet, path: "/api/birthdays", query: q}, &out); err != nil {
			return nil, err
		}
		return convertBirthdays(op, out)

	default:
		return nil, apierrors.Validation("kind", models.ErrUnknownKind)
	}
}

// ListScheduled — новости в очереди отложенной публикации.
func (c *Client) ListScheduled(ctx context.Context) ([]models.ContentItem, error) {
	const op = "remote/posts/ListScheduled"

	var out postsEnvelope
	if err := c.do(ctx, op, call{endpoint: "GET /api/scheduled-posts", method: http.MethodGet, path: "/api/scheduled-posts"}, &out); err != nil {
		return nil, err
	}

	return convertPosts(op, out.Posts)
}

// ListWithoutImages — новости без картинки.
func (c *Client) ListWithoutImages(ctx context.Context) ([]models.ContentItem, error) {
	const op = "remote/posts/ListWithoutImages"

	var out postsEnvelope
	if err := c.do(ctx, op, call{endpoint: "GET /api/posts/without-images", method: http.MethodGet, path: "/api/posts/without-images"}, &out); err != nil {
		return nil, err
	}

	return convertPosts(op, out.Posts)
}

// FetchLatestNews запускает серверный сбор новостей и возвращает созданные черновики.
func (c *Client) FetchLatestNews(ctx context.Context) ([]models.ContentItem, error) {
	const op = "remote/posts/FetchLatestNews"

	var out []wirePost
	if err := c.do(ctx, op, call{endpoint: "POST /fetch_news", method: http.MethodPost, path: "/fetch_news"}, &out); err != nil {
		return nil, err
	}

	return convertPosts(op, out)
}

// Transition — approve/reject/publish. scheduledAt учитывается только для publish новостей.
func (c *Client) Transition(ctx context.Context, kind models.Kind, id models.ID, action models.Action, scheduledAt *time.Time) error {
	const op = "remote/posts/Transition"

	if err := requireID(id); err != nil {
		return err
	}
	if !action.ChangesStatus() || !kind.Supports(action) {
		return apierrors.Validation("action", fmt.Errorf("%w: %s for %s", models.ErrIllegalTransition, action, kind))
	}

	pid := url.PathEscape(id.String())

	var cl call
	switch kind {
	case models.KindNews:
		endpoint := "POST /" + action.String() + "/{id}"
		path := "/" + action.String() + "/" + pid

		if action == models.ActionPublish && scheduledAt != nil {
			var err error
			cl, err = jsonCall(endpoint, http.MethodPost, path, map[string]string{
				"scheduled_time": formatScheduled(*scheduledAt),
			})
			if err != nil {
				return fmt.Errorf("%s: encode: %w", op, err)
			}
		} else {
			cl = call{endpoint: endpoint, method: http.MethodPost, path: path}
		}

	case models.KindBirthday:
		cl = call{
			endpoint: "POST /api/birthdays/{id}/" + action.String(),
			method:   http.MethodPost,
			path:     "/api/birthdays/" + pid + "/" + action.String(),
		}
	}

	return c.do(ctx, op, cl, nil)
}

// Delete — безвозвратное удаление.
func (c *Client) Delete(ctx context.Context, kind models.Kind, id models.ID) error {
	const op = "remote/posts/Delete"

	if err := requireID(id); err != nil {
		return err
	}

	pid := url.PathEscape(id.String())

	switch kind {
	case models.KindNews:
		return c.do(ctx, op, call{endpoint: "POST /api/posts/{id}/delete", method: http.MethodPost, path: "/api/posts/" + pid + "/delete"}, nil)
	case models.KindBirthday:
		return c.do(ctx, op, call{endpoint: "DELETE /api/birthdays/{id}/delete", method: http.MethodDelete, path: "/api/birthdays/" + pid + "/delete"}, nil)
	default:
		return apierrors.Validation("kind", models.ErrUnknownKind)
	}
}

// CancelSchedule снимает новость с отложенной публикации.
func (c *Client) CancelSchedule(ctx context.Context, id models.ID) error {
	const op = "remote/posts/CancelSchedule"

	if err := requireID(id); err != nil {
		return err
	}

	return c.do(ctx, op, call{
		endpoint: "POST /api/posts/{id}/cancel-schedule",
		method:   http.MethodPost,
		path:     "/api/posts/" + url.PathEscape(id.String()) + "/cancel-schedule",
	}, nil)
}

type submitResponse struct {
	Message string    `json:"message"`
	Post    *wirePost `json:"post"`
}

// SubmitManualPost — ручная загрузка новости (multipart).
func (c *Client) SubmitManualPost(ctx context.Context, post models.ManualPost) (models.SubmitResult, error) {
	const op = "remote/posts/SubmitManualPost"

	if strings.TrimSpace(post.Title) == "" {
		return models.SubmitResult{}, apierrors.Validation("title", errors.New("required"))
	}
	if post.Image.Body == nil {
		return models.SubmitResult{}, apierrors.Validation("image", errors.New("required"))
	}

	fields := []formField{
		{"title", strings.TrimSpace(post.Title)},
		{"summary", post.Summary},
		{"post_now", strconv.FormatBool(post.PostNow)},
	}
	if post.ScheduledAt != nil {
		fields = append(fields, formField{"scheduled_time", formatScheduled(*post.ScheduledAt)})
	}

	cl := multipartCall("POST /upload_manual_post", "/upload_manual_post", fields,
		[]formFile{{field: "image", file: post.Image}})

	var out submitResponse
	if err := c.do(ctx, op, cl, &out); err != nil {
		return models.SubmitResult{}, err
	}

	res := models.SubmitResult{Message: out.Message}
	if out.Post != nil {
		item, err := out.Post.toModel()
		if err != nil {
			return models.SubmitResult{}, &apierrors.TransportError{Op: op, Err: err}
		}
		res.Item = &item
	}

	return res, nil
}
