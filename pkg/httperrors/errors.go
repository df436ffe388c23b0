// Package httperrors переводит доменные ошибки в HTTP-ответы с JSON-телом {error, message}.
package httperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sir_venger/http_playground/internal/models"
)

// Body: тело ответа с ошибкой.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error дополняет доменную ошибку заголовком и сообщением для клиента.
type Error struct {
	Err     error
	Title   string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New оборачивает err с заданными заголовком и сообщением. Пустой title берётся из статуса.
func New(err error, title, format string, args ...any) error {
	return &Error{Err: err, Title: title, Message: fmt.Sprintf(format, args...)}
}

// Status возвращает HTTP-статус для ошибки.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrUnknownProfile):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrBadRange):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// Write пишет статус и JSON-тело ошибки.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	body := Body{Error: defaultTitle(err, status), Message: err.Error()}

	var e *Error
	if errors.As(err, &e) {
		if e.Title != "" {
			body.Error = e.Title
		}
		body.Message = e.Message
	}
	if status == http.StatusInternalServerError && e == nil {
		body.Message = ""
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Del("Content-Length")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func defaultTitle(err error, status int) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "File not found"
	case errors.Is(err, models.ErrNoFile):
		return "No file uploaded"
	case errors.Is(err, models.ErrTooLarge):
		return "File too large"
	case errors.Is(err, models.ErrBadRange):
		return "Range not satisfiable"
	}
	return http.StatusText(status)
}
