package lifecycle

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// codedError — sentinel контроллера со своим HTTP-статусом (apierrors.Coder).
type codedError struct {
	status int
	code   string
	msg    string
}

func (e *codedError) Error() string   { return e.msg }
func (e *codedError) HTTPStatus() int { return e.status }
func (e *codedError) Code() string    { return e.code }

var (
	// ErrInFlight — по элементу уже выполняется действие; второй запрос не отправляется.
	ErrInFlight error = &codedError{http.StatusConflict, "in_flight", "action already in progress"}
	// ErrNotLoaded — элемента нет в загруженном списке.
	ErrNotLoaded error = &codedError{http.StatusNotFound, "not_loaded", "item is not loaded"}
	// ErrNotScheduled — cancel-schedule для элемента без расписания.
	ErrNotScheduled error = &codedError{http.StatusConflict, "not_scheduled", "item is not scheduled"}
	// ErrDeclined — пользователь не подтвердил действие.
	ErrDeclined error = &codedError{http.StatusConflict, "declined", "action declined"}
	// ErrNothingSelected — массовое действие без выбранных элементов.
	ErrNothingSelected error = &codedError{http.StatusBadRequest, "empty_selection", "nothing selected"}
)

// conflict — недопустимый переход; отдаётся как 409 и остаётся errors.Is(models.ErrIllegalTransition).
type conflict struct{ err error }

func (e conflict) Error() string   { return e.err.Error() }
func (e conflict) Unwrap() error   { return e.err }
func (e conflict) HTTPStatus() int { return http.StatusConflict }
func (e conflict) Code() string    { return "illegal_transition" }

// BulkError — агрегированная ошибка массового действия.
// Успешные элементы уже переведены; элементы из Failed не изменились.
type BulkError struct {
	Action models.Action
	Total  int
	Failed map[models.ID]error
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk %s: %d of %d failed", e.Action, len(e.Failed), e.Total)
}

// FailedIDs — id с ошибкой в стабильном порядке.
func (e *BulkError) FailedIDs() []models.ID {
	ids := make([]models.ID, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b models.ID) int { return strings.Compare(a.String(), b.String()) })

	return ids
}

func (e *BulkError) HTTPStatus() int { return http.StatusMultiStatus }
func (e *BulkError) Code() string    { return "partial_failure" }
