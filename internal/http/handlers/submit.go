package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
)

type fetchResponse struct {
	Created int       `json:"created"`
	Items   []itemDTO `json:"items"`
}

// FetchNews — POST /news/fetch.
func (h *Handlers) FetchNews(w http.ResponseWriter, r *http.Request) {
	created, err := h.Ctrl.FetchLatestNews(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v := newView(h.Ctrl)
	resp := fetchResponse{Created: len(created), Items: make([]itemDTO, 0, len(created))}
	for _, it := range created {
		resp.Items = append(resp.Items, v.item(it))
	}

	writeJSON(w, http.StatusOK, resp)
}

type generateRequest struct {
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	ImageURL   string `json:"image_url"`
	PostNow    bool   `json:"post_now"`
}

type generateResponse struct {
	Message string   `json:"message"`
	Players []string `json:"players"`
	Item    *itemDTO `json:"item,omitempty"`
}

// GenerateBirthdays — POST /birthdays/generate; пустое тело — пакет на неделю.
func (h *Handlers) GenerateBirthdays(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.Ctrl.GenerateBirthdayPosts(r.Context(), models.BirthdayRequest(req))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp := generateResponse{Message: res.Message, Players: res.Players}
	if resp.Players == nil {
		resp.Players = []string{}
	}
	if res.Item != nil {
		dto := newView(h.Ctrl).item(*res.Item)
		resp.Item = &dto
	}

	writeJSON(w, http.StatusOK, resp)
}

type submitResponse struct {
	Message string   `json:"message"`
	Item    *itemDTO `json:"item,omitempty"`
}

// ManualPost — POST /posts/manual (multipart: title, summary, image, post_now, scheduled_at).
func (h *Handlers) ManualPost(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	postNow, err := parseFlag(r.FormValue("post_now"))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.Validation("post_now", err))
		return
	}

	at, err := h.localInstant(r.FormValue("scheduled_at"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	img, closeImg, err := formFile(r, "image")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer closeImg()

	res, err := h.Ctrl.SubmitManualPost(r.Context(), models.ManualPost{
		Title:       r.FormValue("title"),
		Summary:     r.FormValue("summary"),
		Image:       img,
		PostNow:     postNow,
		ScheduledAt: at,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp := submitResponse{Message: res.Message}
	if res.Item != nil {
		dto := newView(h.Ctrl).item(*res.Item)
		resp.Item = &dto
	}

	writeJSON(w, http.StatusCreated, resp)
}

// BirthdayDirect — POST /birthdays/direct
// (multipart: name, year, post_id, scheduled_at, images[] или image_urls).
func (h *Handlers) BirthdayDirect(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	post := models.BirthdayDirect{
		Name:   r.FormValue("name"),
		PostID: models.ID(strings.TrimSpace(r.FormValue("post_id"))),
	}

	if y := strings.TrimSpace(r.FormValue("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			apierrors.WriteError(w, r, apierrors.Validation("year", err))
			return
		}
		post.Year = year
	}

	at, err := h.localInstant(r.FormValue("scheduled_at"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	post.ScheduledAt = at

	for _, raw := range r.MultipartForm.Value["image_urls"] {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				post.ImageURLs = append(post.ImageURLs, u)
			}
		}
	}

	headers := slices.Concat(r.MultipartForm.File["images[]"], r.MultipartForm.File["images"])
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			apierrors.WriteError(w, r, apierrors.Validation("images", err))
			return
		}
		defer func() { _ = f.Close() }()

		post.Images = append(post.Images, models.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	res, err := h.Ctrl.SubmitBirthdayDirect(r.Context(), post)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{Message: res.Message})
}

type videoResponse struct {
	YouTubeID string `json:"youtube_id,omitempty"`
}

// Video — POST /videos (multipart: file).
func (h *Handlers) Video(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, closeFile, err := formFile(r, "file")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer closeFile()

	res, err := h.Ctrl.SubmitVideo(r.Context(), file)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, videoResponse(res))
}

// UploadImage — POST /items/news/{id}/image (multipart: image).
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := parseMultipart(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	img, closeImg, err := formFile(r, "image")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer closeImg()

	if err := h.Ctrl.UploadImage(r.Context(), id, img); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Message: apierrors.UserMessage("upload-image", nil),
		Item:    newView(h.Ctrl).itemOrNil(models.KindNews, id),
	})
}

type imageURLRequest struct {
	ImageURL string `json:"image_url"`
}

// SetImageURL — POST /items/news/{id}/image-url.
func (h *Handlers) SetImageURL(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req imageURLRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Ctrl.SetImageURL(r.Context(), id, req.ImageURL); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Message: apierrors.UserMessage("set-image-url", nil),
		Item:    newView(h.Ctrl).itemOrNil(models.KindNews, id),
	})
}

type countdownResponse struct {
	At        time.Time `json:"at"`
	Local     string    `json:"local"`
	Countdown string    `json:"countdown"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
}

// Countdown — GET /schedule/countdown?at=2006-01-02T15:04: проверка момента и обратный отсчёт.
func (h *Handlers) Countdown(w http.ResponseWriter, r *http.Request) {
	at, err := schedule.ToAbsoluteInstant(r.URL.Query().Get("at"), h.Ctrl.Location())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	now := h.Ctrl.Now()
	resp := countdownResponse{
		At:        at,
		Local:     schedule.FormatLocal(at, h.Ctrl.Location()),
		Countdown: schedule.DescribeCountdown(at, now),
		Valid:     true,
	}
	if err := h.Ctrl.Policy().Validate(at, now); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return apierrors.Validation("body", err)
	}

	return nil
}

// formFile — обязательный файл формы; возвращает функцию закрытия.
func formFile(r *http.Request, field string) (models.File, func(), error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return models.File{}, func() {}, apierrors.Validation(field, errors.New("required"))
		}
		return models.File{}, func() {}, apierrors.Validation(field, err)
	}

	return fileOf(f, fh), func() { _ = f.Close() }, nil
}

func fileOf(f multipart.File, fh *multipart.FileHeader) models.File {
	return models.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}
}
