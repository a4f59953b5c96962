package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

type imageResponse struct {
	ImageURL  string `json:"image_url"`
	ImagePath string `json:"image_path"`
	Image     string `json:"image"`
}

func (r imageResponse) ref() string {
	switch {
	case r.ImageURL != "":
		return r.ImageURL
	case r.ImagePath != "":
		return r.ImagePath
	default:
		return r.Image
	}
}

// UploadImageFile прикрепляет файл картинки к новости; возвращает новую ссылку, если сервер её отдал.
func (c *Client) UploadImageFile(ctx context.Context, id models.ID, file models.File) (string, error) {
	const op = "remote/media/UploadImageFile"

	if err := requireID(id); err != nil {
		return "", err
	}
	if file.Body == nil {
		return "", apierrors.Validation("image", errors.New("required"))
	}

	cl := multipartCall("POST /api/posts/{id}/upload-image",
		"/api/posts/"+url.PathEscape(id.String())+"/upload-image", nil,
		[]formFile{{field: "image", file: file}})

	var out imageResponse
	if err := c.do(ctx, op, cl, &out); err != nil {
		return "", err
	}

	return out.ref(), nil
}

// SetImageURL прикрепляет к новости картинку по ссылке.
func (c *Client) SetImageURL(ctx context.Context, id models.ID, imageURL string) error {
	const op = "remote/media/SetImageURL"

	if err := requireID(id); err != nil {
		return err
	}

	cl, err := jsonCall("POST /api/posts/{id}/set-image-url", http.MethodPost,
		"/api/posts/"+url.PathEscape(id.String())+"/set-image-url",
		map[string]string{"image_url": imageURL})
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	return c.do(ctx, op, cl, nil)
}

// SubmitVideo загружает видео (multipart "file"); сервер отвечает {ok, error?, youtube_id}.
func (c *Client) SubmitVideo(ctx context.Context, file models.File) (models.VideoResult, error) {
	const op = "remote/media/SubmitVideo"

	if file.Body == nil {
		return models.VideoResult{}, apierrors.Validation("file", errors.New("required"))
	}

	var out struct {
		YouTubeID youTubeID `json:"youtube_id"`
	}
	cl := multipartCall("POST /upload_video", "/upload_video", nil, []formFile{{field: "file", file: file}})
	if err := c.do(ctx, op, cl, &out); err != nil {
		return models.VideoResult{}, err
	}

	return models.VideoResult{YouTubeID: string(out.YouTubeID)}, nil
}
