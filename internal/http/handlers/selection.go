package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
)

type selectionResponse struct {
	Kind     string   `json:"kind"`
	Selected []string `json:"selected"`
}

type toggleResponse struct {
	ID       string   `json:"id"`
	IsOn     bool     `json:"is_selected"`
	Selected []string `json:"selected"`
}

// Selection — GET /items/{kind}/selection.
func (h *Handlers) Selection(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{Kind: kind.String(), Selected: newView(h.Ctrl).selected(kind)})
}

// ClearSelection — DELETE /items/{kind}/selection.
func (h *Handlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.Ctrl.ClearSelection(kind)
	writeJSON(w, http.StatusOK, selectionResponse{Kind: kind.String(), Selected: []string{}})
}

// SelectAll — POST /items/{kind}/selection/all.
func (h *Handlers) SelectAll(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.Ctrl.SelectAll(kind)
	writeJSON(w, http.StatusOK, selectionResponse{Kind: kind.String(), Selected: newView(h.Ctrl).selected(kind)})
}

// Toggle — POST /items/{kind}/selection/{id}. Незагруженные id игнорируются.
func (h *Handlers) Toggle(w http.ResponseWriter, r *http.Request) {
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

	on := h.Ctrl.Toggle(kind, id)
	writeJSON(w, http.StatusOK, toggleResponse{ID: id.String(), IsOn: on, Selected: newView(h.Ctrl).selected(kind)})
}
