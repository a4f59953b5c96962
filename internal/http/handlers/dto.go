package handlers

import (
	"time"

	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
)

type birthdayDTO struct {
	Name      string `json:"name"`
	Team      string `json:"team,omitempty"`
	BirthYear int    `json:"birth_year,omitempty"`
	Age       int    `json:"age,omitempty"`
}

// itemDTO — элемент для дашборда. Время расписания отдаётся и в UTC,
// и в локальной форме datetime-local; countdown только для отображения.
type itemDTO struct {
	ID             string       `json:"id"`
	Kind           string       `json:"kind"`
	Title          string       `json:"title"`
	Summary        string       `json:"summary,omitempty"`
	ImageRef       string       `json:"image_ref,omitempty"`
	HasImage       bool         `json:"has_image"`
	SourceURL      string       `json:"source_url,omitempty"`
	Hashtags       []string     `json:"hashtags,omitempty"`
	Status         string       `json:"status"`
	ScheduledAt    *time.Time   `json:"scheduled_at,omitempty"`
	ScheduledLocal string       `json:"scheduled_local,omitempty"`
	Countdown      string       `json:"countdown,omitempty"`
	CreatedAt      *time.Time   `json:"created_at,omitempty"`
	Selected       bool         `json:"selected"`
	Birthday       *birthdayDTO `json:"birthday,omitempty"`
}

type filterDTO struct {
	Status           string `json:"status,omitempty"`
	ScheduledOnly    bool   `json:"scheduled_only,omitempty"`
	MissingImageOnly bool   `json:"missing_image_only,omitempty"`
}

type listResponse struct {
	Kind     string    `json:"kind"`
	Filter   filterDTO `json:"filter"`
	Items    []itemDTO `json:"items"`
	Selected []string  `json:"selected"`
}

type actionResponse struct {
	Message string   `json:"message"`
	Item    *itemDTO `json:"item,omitempty"`
}

type bulkFailure struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type bulkResponse struct {
	Action   string        `json:"action"`
	Total    int           `json:"total"`
	Failed   []bulkFailure `json:"failed,omitempty"`
	Message  string        `json:"message"`
	Selected []string      `json:"selected"`
}

// view — преобразование доменных типов в DTO с учётом часов и зоны контроллера.
type view struct {
	now time.Time
	loc *time.Location
	st  store.Reader
}

func newView(ctrl *lifecycle.Controller) view {
	return view{now: ctrl.Now(), loc: ctrl.Location(), st: ctrl.Store()}
}

func (v view) item(it models.ContentItem) itemDTO {
	dto := itemDTO{
		ID:        it.ID.String(),
		Kind:      it.Kind.String(),
		Title:     it.Title,
		Summary:   it.Summary,
		ImageRef:  it.ImageRef,
		HasImage:  it.HasImage(),
		SourceURL: it.SourceURL,
		Hashtags:  it.Hashtags,
		Status:    it.Status.String(),
		Selected:  v.st.IsSelected(it.Kind, it.ID),
	}

	if !it.CreatedAt.IsZero() {
		created := it.CreatedAt.UTC()
		dto.CreatedAt = &created
	}

	if it.ScheduledAt != nil {
		at := it.ScheduledAt.UTC()
		dto.ScheduledAt = &at
		dto.ScheduledLocal = schedule.FormatLocal(at, v.loc)
		dto.Countdown = schedule.DescribeCountdown(at, v.now)
	}

	if b := it.Birthday; b != nil {
		dto.Birthday = &birthdayDTO{Name: b.Name, Team: b.Team, BirthYear: b.BirthYear, Age: b.Age}
	}

	return dto
}

func (v view) list(kind models.Kind) listResponse {
	items := v.st.List(kind)
	f := v.st.Filter(kind)

	resp := listResponse{
		Kind: kind.String(),
		Filter: filterDTO{
			Status:           f.Status.String(),
			ScheduledOnly:    f.ScheduledOnly,
			MissingImageOnly: f.MissingImageOnly,
		},
		Items:    make([]itemDTO, 0, len(items)),
		Selected: v.selected(kind),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, v.item(it))
	}

	return resp
}

func (v view) selected(kind models.Kind) []string {
	ids := v.st.Selected(kind)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}

// itemOrNil — элемент после действия; nil, если он ушёл из текущего списка.
func (v view) itemOrNil(kind models.Kind, id models.ID) *itemDTO {
	it, ok := v.st.Get(kind, id)
	if !ok {
		return nil
	}

	dto := v.item(it)
	return &dto
}
