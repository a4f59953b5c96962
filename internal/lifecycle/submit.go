package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// FetchLatestNews запускает серверный сбор новостей и перечитывает список новостей.
func (c *Controller) FetchLatestNews(ctx context.Context) ([]models.ContentItem, error) {
	const op = "lifecycle/submit/FetchLatestNews"

	created, err := c.remote.FetchLatestNews(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		c.report(ctx, Outcome{Action: "fetch-news", Kind: models.KindNews, Err: err})
		return nil, err
	}

	c.refreshAfter(ctx, models.KindNews)
	c.report(ctx, Outcome{
		Action:  "fetch-news",
		Kind:    models.KindNews,
		IDs:     itemIDs(created),
		Message: fmt.Sprintf("fetch-news: %d new draft(s)", len(created)),
	})

	return created, nil
}

// GenerateBirthdayPosts — генерация поздравлений (на неделю или для одного игрока).
func (c *Controller) GenerateBirthdayPosts(ctx context.Context, req models.BirthdayRequest) (models.GenerateResult, error) {
	const op = "lifecycle/submit/GenerateBirthdayPosts"

	if req.ImageURL != "" {
		if err := validateURL("image_url", req.ImageURL); err != nil {
			c.report(ctx, Outcome{Action: "generate-birthdays", Kind: models.KindBirthday, Err: err})
			return models.GenerateResult{}, err
		}
	}

	res, err := c.remote.GenerateBirthdayPosts(ctx, req)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		c.report(ctx, Outcome{Action: "generate-birthdays", Kind: models.KindBirthday, Err: err})
		return models.GenerateResult{}, err
	}

	c.refreshAfter(ctx, models.KindBirthday)

	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("generate-birthdays: %d post(s)", len(res.Players))
	}
	c.report(ctx, Outcome{Action: "generate-birthdays", Kind: models.KindBirthday, Message: msg})

	return res, nil
}

// SubmitManualPost — ручная новость: заголовок и картинка обязательны,
// расписание проверяется политикой; post_now и расписание взаимоисключающие.
func (c *Controller) SubmitManualPost(ctx context.Context, post models.ManualPost) (models.SubmitResult, error) {
	const op = "lifecycle/submit/SubmitManualPost"

	err := c.validateManual(post)
	var res models.SubmitResult
	if err == nil {
		res, err = c.remote.SubmitManualPost(ctx, post)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
		}
	}
	if err != nil {
		c.report(ctx, Outcome{Action: "submit-post", Kind: models.KindNews, Err: err})
		return models.SubmitResult{}, err
	}

	c.refreshAfter(ctx, models.KindNews)
	c.report(ctx, Outcome{Action: "submit-post", Kind: models.KindNews, IDs: resultIDs(res), Message: res.Message})

	return res, nil
}

func (c *Controller) validateManual(post models.ManualPost) error {
	if strings.TrimSpace(post.Title) == "" {
		return apierrors.Validation("title", errors.New("required"))
	}
	if post.Image.Body == nil {
		return apierrors.Validation("image", errors.New("required"))
	}
	if post.ScheduledAt == nil {
		return nil
	}
	if post.PostNow {
		return apierrors.Validation("scheduled_at", errors.New("cannot be combined with post_now"))
	}

	return c.policy.Validate(*post.ScheduledAt, c.Now())
}

// SubmitBirthdayDirect — прямая публикация поздравления: имя и хотя бы одна картинка
// (файл или ссылка) обязательны.
func (c *Controller) SubmitBirthdayDirect(ctx context.Context, post models.BirthdayDirect) (models.SubmitResult, error) {
	const op = "lifecycle/submit/SubmitBirthdayDirect"

	err := c.validateDirect(post)
	var res models.SubmitResult
	if err == nil {
		res, err = c.remote.SubmitBirthdayDirect(ctx, post)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
		}
	}
	if err != nil {
		c.report(ctx, Outcome{Action: "submit-birthday", Kind: models.KindBirthday, Err: err})
		return models.SubmitResult{}, err
	}

	c.refreshAfter(ctx, models.KindBirthday)
	c.report(ctx, Outcome{Action: "submit-birthday", Kind: models.KindBirthday, Message: res.Message})

	return res, nil
}

func (c *Controller) validateDirect(post models.BirthdayDirect) error {
	if strings.TrimSpace(post.Name) == "" {
		return apierrors.Validation("name", errors.New("required"))
	}
	if len(post.Images) == 0 && len(post.ImageURLs) == 0 {
		return apierrors.Validation("images", errors.New("at least one image or image url required"))
	}
	for _, u := range post.ImageURLs {
		if err := validateURL("image_urls", u); err != nil {
			return err
		}
	}
	if post.ScheduledAt != nil {
		return c.policy.Validate(*post.ScheduledAt, c.Now())
	}

	return nil
}

// SubmitVideo загружает видео; списки не меняются.
func (c *Controller) SubmitVideo(ctx context.Context, file models.File) (models.VideoResult, error) {
	const op = "lifecycle/submit/SubmitVideo"

	var (
		res models.VideoResult
		err error
	)
	if file.Body == nil {
		err = apierrors.Validation("file", errors.New("required"))
	} else if res, err = c.remote.SubmitVideo(ctx, file); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		c.report(ctx, Outcome{Action: "upload-video", Kind: models.KindNews, Err: err})
		return models.VideoResult{}, err
	}

	msg := "upload-video: done"
	if res.YouTubeID != "" {
		msg = "upload-video: youtube id " + res.YouTubeID
	}
	c.report(ctx, Outcome{Action: "upload-video", Kind: models.KindNews, Message: msg})

	return res, nil
}

// UploadImage прикрепляет файл картинки к новости.
func (c *Controller) UploadImage(ctx context.Context, id models.ID, file models.File) error {
	const op = "lifecycle/submit/UploadImage"

	var (
		ref string
		err error
	)
	if file.Body == nil {
		err = apierrors.Validation("image", errors.New("required"))
	} else {
		err = c.withItemLock(id, func() error {
			var rerr error
			ref, rerr = c.remote.UploadImageFile(ctx, id, file)
			return rerr
		})
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
		}
	}
	if err != nil {
		c.report(ctx, Outcome{Action: "upload-image", Kind: models.KindNews, IDs: []models.ID{id}, Err: err})
		return err
	}

	if ref != "" {
		c.applyImage(id, ref)
	} else {
		c.refreshAfter(ctx, models.KindNews)
	}
	c.report(ctx, Outcome{Action: "upload-image", Kind: models.KindNews, IDs: []models.ID{id}})

	return nil
}

// SetImageURL прикрепляет к новости картинку по абсолютной http(s)-ссылке.
func (c *Controller) SetImageURL(ctx context.Context, id models.ID, imageURL string) error {
	const op = "lifecycle/submit/SetImageURL"

	imageURL = strings.TrimSpace(imageURL)
	err := validateURL("image_url", imageURL)
	if err == nil {
		err = c.withItemLock(id, func() error {
			return c.remote.SetImageURL(ctx, id, imageURL)
		})
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
		}
	}
	if err != nil {
		c.report(ctx, Outcome{Action: "set-image-url", Kind: models.KindNews, IDs: []models.ID{id}, Err: err})
		return err
	}

	c.applyImage(id, imageURL)
	c.report(ctx, Outcome{Action: "set-image-url", Kind: models.KindNews, IDs: []models.ID{id}})

	return nil
}

// withItemLock — защита от параллельных действий по одной новости.
func (c *Controller) withItemLock(id models.ID, fn func() error) error {
	key := itemKey{kind: models.KindNews, id: id}
	if !c.acquire(key) {
		return apierrors.Validation("id", ErrInFlight)
	}
	defer c.release(key)

	return fn()
}

// applyImage обновляет загруженную новость; из списка «без картинки» она уходит.
func (c *Controller) applyImage(id models.ID, ref string) {
	item, ok := c.store.Get(models.KindNews, id)
	if !ok {
		return
	}

	item.ImageRef = ref
	c.store.Apply(models.KindNews, item)
}

func validateURL(field, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apierrors.Validation(field, errors.New("must be an absolute http(s) url"))
	}

	return nil
}

func itemIDs(items []models.ContentItem) []models.ID {
	ids := make([]models.ID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	return ids
}

func resultIDs(res models.SubmitResult) []models.ID {
	if res.Item == nil {
		return nil
	}

	return []models.ID{res.Item.ID}
}
