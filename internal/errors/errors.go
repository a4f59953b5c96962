// errors описывает таксономию ошибок клиента админки и их отображение:
//   - TransportError — сеть/HTTP-сбой, интерпретируемого ответа нет;
//   - ApplicationError — JSON разобран, но сервер сообщил о неуспехе;
//   - ValidationError — локальное предусловие нарушено, запрос не отправлялся.
//
// Ни одна из ошибок не фатальна: пользователь может повторить действие.
// Для HTTP-слоя (BFF для дашборда) пакет даёт ToHTTP/WriteError
// с единым конвертом {"error":{code,message,request_id}}.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Class — класс ошибки для выбора пользовательского сообщения.
type Class int

const (
	ClassUnknown Class = iota
	ClassTransport
	ClassApplication
	ClassValidation
)

func (c Class) String() string {
	switch c {
	case ClassTransport:
		return "transport"
	case ClassApplication:
		return "application"
	case ClassValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// TransportError — запрос не дошёл или ответ нельзя интерпретировать.
// StatusCode == 0, если HTTP-ответа не было вовсе.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport: http %d: %v", e.Op, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError — сервер ответил разбираемым JSON с признаком неуспеха.
type ApplicationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected by server"
	}

	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// ValidationError — нарушено клиентское предусловие.
// Field может быть пустым, если ошибка не привязана к полю.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Reason != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "validation failed"
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validation — короткий конструктор: sentinel err с привязкой к полю.
func Validation(field string, err error) error {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}

// Classify возвращает класс первой найденной в цепочке ошибки таксономии.
func Classify(err error) Class {
	var (
		ve *ValidationError
		ae *ApplicationError
		te *TransportError
	)

	switch {
	case err == nil:
		return ClassUnknown
	case stderrors.As(err, &ve):
		return ClassValidation
	case stderrors.As(err, &ae):
		return ClassApplication
	case stderrors.As(err, &te):
		return ClassTransport
	default:
		return ClassUnknown
	}
}

func IsTransport(err error) bool   { return Classify(err) == ClassTransport }
func IsApplication(err error) bool { return Classify(err) == ClassApplication }
func IsValidation(err error) bool  { return Classify(err) == ClassValidation }

// UserMessage — одно закрываемое сообщение для пользователя с названием действия.
func UserMessage(action string, err error) string {
	if err == nil {
		return action + ": done"
	}

	var (
		ve *ValidationError
		ae *ApplicationError
	)

	switch {
	case stderrors.As(err, &ve):
		return fmt.Sprintf("%s: %s", action, ve.Error())
	case stderrors.As(err, &ae):
		if ae.Message != "" {
			return fmt.Sprintf("%s failed: %s", action, ae.Message)
		}
		return fmt.Sprintf("%s failed: rejected by server", action)
	case IsTransport(err):
		if stderrors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("%s failed: server did not respond in time", action)
		}
		return fmt.Sprintf("%s failed: server unreachable", action)
	default:
		return fmt.Sprintf("%s failed", action)
	}
}

// APIError — единый формат ошибки для фронта.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Coder позволяет доменным ошибкам задать собственный HTTP-статус и код.
type Coder interface {
	HTTPStatus() int
	Code() string
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - Coder в цепочке — его статус/код, сообщение — err.Error();
//   - ValidationError — 400/invalid_argument с текстом причины;
//   - ApplicationError — 502/upstream_rejected с сообщением сервера;
//   - TransportError — 504 при дедлайне, иначе 502/upstream_unavailable;
//   - context.Canceled — 499;
//   - прочее — 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, resp("internal", "internal error")
	}

	var coder Coder
	if stderrors.As(err, &coder) {
		return coder.HTTPStatus(), resp(coder.Code(), err.Error())
	}

	var (
		ve *ValidationError
		ae *ApplicationError
	)

	switch {
	case stderrors.As(err, &ve):
		return http.StatusBadRequest, resp("invalid_argument", ve.Error())
	case stderrors.As(err, &ae):
		msg := ae.Message
		if msg == "" {
			msg = "rejected by server"
		}
		return http.StatusBadGateway, resp("upstream_rejected", msg)
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp("deadline_exceeded", "deadline exceeded")
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, resp("canceled", "canceled")
	case IsTransport(err):
		return http.StatusBadGateway, resp("upstream_unavailable", "upstream unavailable")
	default:
		return http.StatusInternalServerError, resp("internal", "internal error")
	}
}

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

func resp(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}
