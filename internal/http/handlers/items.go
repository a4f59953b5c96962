package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
)

// ListItems — GET /items/{kind}?status=&scheduled=&missing_image=: загрузка с сервера.
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.Ctrl.Load(r.Context(), kind, filter); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newView(h.Ctrl).list(kind))
}

// CachedItems — GET /items/{kind}/cached: текущее содержимое хранилища без запроса к серверу.
func (h *Handlers) CachedItems(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newView(h.Ctrl).list(kind))
}

func parseFilter(r *http.Request) (models.Filter, error) {
	q := r.URL.Query()

	var f models.Filter
	if s := q.Get("status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return models.Filter{}, apierrors.Validation("status", err)
		}
		f.Status = st
	}

	var err error
	if f.ScheduledOnly, err = parseFlag(q.Get("scheduled")); err != nil {
		return models.Filter{}, apierrors.Validation("scheduled", err)
	}
	if f.MissingImageOnly, err = parseFlag(q.Get("missing_image")); err != nil {
		return models.Filter{}, apierrors.Validation("missing_image", err)
	}

	return f, nil
}

func parseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}

	return strconv.ParseBool(s)
}

type actRequest struct {
	// ScheduledAt — локальное время в форме datetime-local ("2006-01-02T15:04").
	ScheduledAt string `json:"scheduled_at"`
}

// Act — POST /items/{kind}/{id}/{action}: approve | reject | publish.
func (h *Handlers) Act(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := idParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	action, err := models.ParseAction(chi.URLParam(r, "action"))
	if err != nil || !action.ChangesStatus() {
		apierrors.WriteError(w, r, apierrors.Validation("action", models.ErrUnknownAction))
		return
	}

	var req actRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	at, err := h.localInstant(req.ScheduledAt)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if at != nil && action != models.ActionPublish {
		apierrors.WriteError(w, r, apierrors.Validation("scheduled_at", errors.New("only allowed for publish")))
		return
	}

	if err := h.Ctrl.Act(r.Context(), kind, id, action, at); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Message: apierrors.UserMessage(action.String(), nil),
		Item:    newView(h.Ctrl).itemOrNil(kind, id),
	})
}

// localInstant — datetime-local пользователя в абсолютный момент; пустая строка — nil.
func (h *Handlers) localInstant(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	at, err := schedule.ToAbsoluteInstant(s, h.Ctrl.Location())
	if err != nil {
		return nil, err
	}

	return &at, nil
}

// Delete — DELETE /items/{kind}/{id}.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := idParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Ctrl.Delete(r.Context(), kind, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{Message: apierrors.UserMessage(models.ActionDelete.String(), nil)})
}

// CancelSchedule — POST /items/news/{id}/cancel-schedule.
func (h *Handlers) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Ctrl.CancelSchedule(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Message: apierrors.UserMessage(models.ActionCancelSchedule.String(), nil),
		Item:    newView(h.Ctrl).itemOrNil(models.KindNews, id),
	})
}

// Bulk — POST /items/{kind}/bulk/{action}. Частичный сбой — 207 с ошибками по id.
func (h *Handlers) Bulk(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	action, err := models.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.Validation("action", err))
		return
	}

	total := len(h.Ctrl.Store().Selected(kind))
	err = h.Ctrl.Bulk(r.Context(), kind, action)

	var be *lifecycle.BulkError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bulkResponse{
			Action:   action.String(),
			Total:    total,
			Message:  apierrors.UserMessage("bulk-"+action.String(), nil),
			Selected: newView(h.Ctrl).selected(kind),
		})
	case errors.As(err, &be):
		resp := bulkResponse{
			Action:   action.String(),
			Total:    be.Total,
			Message:  be.Error(),
			Selected: newView(h.Ctrl).selected(kind),
		}
		for _, id := range be.FailedIDs() {
			_, body := apierrors.ToHTTP(be.Failed[id])
			resp.Failed = append(resp.Failed, bulkFailure{ID: id.String(), Code: body.Error.Code, Error: body.Error.Message})
		}
		writeJSON(w, be.HTTPStatus(), resp)
	default:
		apierrors.WriteError(w, r, err)
	}
}
