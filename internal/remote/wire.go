package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// wireTime — время сервера. Строки без зоны (isoformat() и CURRENT_TIMESTAMP SQLite)
// трактуются как UTC.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time: %w", err)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("time: unrecognized format %q", s)
}

func (t *wireTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	v := t.Time
	return &v
}

// wirePost — новость в форме Post.serialize() сервера.
type wirePost struct {
	ID              models.ID `json:"id"`
	Title           string    `json:"title"`
	Link            string    `json:"link"`
	Image           string    `json:"image"`
	ImageURL        string    `json:"image_url"`
	Summary         string    `json:"summary"`
	FullDescription string    `json:"full_description"`
	Hashtags        []string  `json:"hashtags"`
	Status          string    `json:"status"`
	CreatedAt       wireTime  `json:"created_at"`
	ScheduledTime   *wireTime `json:"scheduled_time"`
}

// wireBirthday — каноническая форма поздравления (/api/birthdays);
// поля устаревшего /birthday_posts (image, birth_year, age) принимаются как запасные.
type wireBirthday struct {
	ID            models.ID `json:"id"`
	Name          string    `json:"name"`
	Team          string    `json:"team"`
	ImagePath     string    `json:"image_path"`
	Image         string    `json:"image"`
	BirthYear     int       `json:"birth_year"`
	Age           int       `json:"age"`
	Status        string    `json:"status"`
	CreatedAt     wireTime  `json:"created_at"`
	ScheduledTime *wireTime `json:"scheduled_time"`
}

// parseWireStatus — пустой статус означает значение по умолчанию на сервере (draft).
func parseWireStatus(s string) (models.Status, error) {
	if strings.TrimSpace(s) == "" {
		return models.StatusDraft, nil
	}

	return models.ParseStatus(s)
}

func (w wirePost) toModel() (models.ContentItem, error) {
	status, err := parseWireStatus(w.Status)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("post %s: %w", w.ID, err)
	}

	image := w.Image
	if image == "" {
		image = w.ImageURL
	}

	summary := w.Summary
	if summary == "" {
		summary = w.FullDescription
	}

	return models.ContentItem{
		ID:          w.ID,
		Kind:        models.KindNews,
		Title:       w.Title,
		Summary:     summary,
		ImageRef:    image,
		SourceURL:   w.Link,
		Hashtags:    w.Hashtags,
		Status:      status,
		ScheduledAt: w.ScheduledTime.ptr(),
		CreatedAt:   w.CreatedAt.Time,
	}, nil
}

func (w wireBirthday) toModel() (models.ContentItem, error) {
	status, err := parseWireStatus(w.Status)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("birthday %s: %w", w.ID, err)
	}

	image := w.ImagePath
	if image == "" {
		image = w.Image
	}

	return models.ContentItem{
		ID:          w.ID,
		Kind:        models.KindBirthday,
		Title:       w.Name,
		ImageRef:    image,
		Status:      status,
		ScheduledAt: w.ScheduledTime.ptr(),
		CreatedAt:   w.CreatedAt.Time,
		Birthday: &models.BirthdayDetails{
			Name:      w.Name,
			Team:      w.Team,
			BirthYear: w.BirthYear,
			Age:       w.Age,
		},
	}, nil
}

// convertPosts — неизвестный статус делает ответ неинтерпретируемым (TransportError).
func convertPosts(op string, in []wirePost) ([]models.ContentItem, error) {
	out := make([]models.ContentItem, 0, len(in))
	for _, w := range in {
		item, err := w.toModel()
		if err != nil {
			return nil, &apierrors.TransportError{Op: op, Err: err}
		}
		out = append(out, item)
	}

	return out, nil
}

func convertBirthdays(op string, in []wireBirthday) ([]models.ContentItem, error) {
	out := make([]models.ContentItem, 0, len(in))
	for _, w := range in {
		item, err := w.toModel()
		if err != nil {
			return nil, &apierrors.TransportError{Op: op, Err: err}
		}
		out = append(out, item)
	}

	return out, nil
}

// postsEnvelope — {success, posts[], error?}.
type postsEnvelope struct {
	Posts []wirePost `json:"posts"`
}

// youTubeID — сервер отдаёт id строкой или объектом {"id": ...}.
type youTubeID string

func (y *youTubeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*y = youTubeID(s)
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("youtube_id: %w", err)
	}
	*y = youTubeID(obj.ID)
	return nil
}

// formatScheduled — ISO-8601 в UTC, как ждёт сервер.
func formatScheduled(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
