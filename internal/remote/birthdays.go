package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

type generateResponse struct {
	Message string        `json:"message"`
	Players []string      `json:"players"`
	Post    *wireBirthday `json:"post"`
}

// GenerateBirthdayPosts — генерация поздравлений: пакет на неделю (пустой PlayerName)
// или один игрок.
func (c *Client) GenerateBirthdayPosts(ctx context.Context, req models.BirthdayRequest) (models.GenerateResult, error) {
	const op = "remote/birthdays/GenerateBirthdayPosts"

	cl := call{endpoint: "POST /api/birthdays/generate", method: http.MethodPost, path: "/api/birthdays/generate"}

	if name := strings.TrimSpace(req.PlayerName); name != "" {
		var err error
		cl, err = jsonCall(cl.endpoint, cl.method, cl.path, map[string]any{
			"player_name": name,
			"team":        req.Team,
			"image_url":   req.ImageURL,
			"post_now":    req.PostNow,
		})
		if err != nil {
			return models.GenerateResult{}, fmt.Errorf("%s: encode: %w", op, err)
		}
	}

	var out generateResponse
	if err := c.do(ctx, op, cl, &out); err != nil {
		return models.GenerateResult{}, err
	}

	res := models.GenerateResult{Message: out.Message, Players: out.Players}
	if out.Post != nil {
		item, err := out.Post.toModel()
		if err != nil {
			return models.GenerateResult{}, &apierrors.TransportError{Op: op, Err: err}
		}
		res.Item = &item
		if len(res.Players) == 0 {
			res.Players = []string{item.Title}
		}
	}

	return res, nil
}

// SubmitBirthdayDirect — прямая публикация поздравления: файлы images[] или ссылки image_urls.
func (c *Client) SubmitBirthdayDirect(ctx context.Context, post models.BirthdayDirect) (models.SubmitResult, error) {
	const op = "remote/birthdays/SubmitBirthdayDirect"

	if strings.TrimSpace(post.Name) == "" {
		return models.SubmitResult{}, apierrors.Validation("name", errors.New("required"))
	}
	if len(post.Images) == 0 && len(post.ImageURLs) == 0 {
		return models.SubmitResult{}, apierrors.Validation("images", errors.New("at least one image or image url required"))
	}

	fields := []formField{{"name", strings.TrimSpace(post.Name)}}
	if post.Year != 0 {
		fields = append(fields, formField{"year", strconv.Itoa(post.Year)})
	}
	if post.PostID != "" {
		fields = append(fields, formField{"post_id", post.PostID.String()})
	}
	if post.ScheduledAt != nil {
		fields = append(fields, formField{"scheduled_time", formatScheduled(*post.ScheduledAt)})
	}
	if len(post.Images) == 0 {
		fields = append(fields, formField{"image_urls", strings.Join(post.ImageURLs, ",")})
	}

	files := make([]formFile, 0, len(post.Images))
	for _, img := range post.Images {
		files = append(files, formFile{field: "images[]", file: img})
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, op, multipartCall("POST /birthday_post_direct", "/birthday_post_direct", fields, files), &out); err != nil {
		return models.SubmitResult{}, err
	}

	return models.SubmitResult{Message: out.Message}, nil
}
