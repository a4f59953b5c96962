// handlers — REST-эндпойнты дашборда модерации поверх lifecycle.Controller.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// maxUploadMemory — сколько multipart-данных держать в памяти, остальное уходит во временные файлы.
const maxUploadMemory = 32 << 20

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Ctrl *lifecycle.Controller
}

func New(ctrl *lifecycle.Controller) *Handlers {
	return &Handlers{Ctrl: ctrl}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: неизвестные поля запрещены.
// Пустое тело допустимо и оставляет value нетронутым.
func decodeStrict(r *http.Request, value any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apierrors.Validation("body", err)
	}

	return nil
}

// kindParam разбирает {kind} из пути.
func kindParam(r *http.Request) (models.Kind, error) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", apierrors.Validation("kind", err)
	}

	return kind, nil
}

// idParam разбирает {id} из пути.
func idParam(r *http.Request) (models.ID, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", apierrors.Validation("id", errors.New("required"))
	}

	return models.ID(id), nil
}
