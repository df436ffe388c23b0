// Package reqparse разбирает тело входящего запроса один раз в middleware
// и кладёт результат в контекст. Ошибки разбора не прерывают запрос:
// всё, что удалось прочитать до ошибки, передаётся дальше.
package reqparse

import (
	"context"

	"github.com/sir_venger/http_playground/internal/models"
)

// Kind: вид тела запроса, определённый по Content-Type.
type Kind int

const (
	KindNone Kind = iota
	KindText
	KindJSON
	KindForm
	KindMultipart
)

// Rejected: файл, который не был сохранён (например, превышен лимит размера).
type Rejected struct {
	FieldName    string `json:"fieldName"`
	OriginalName string `json:"originalname"`
	Reason       string `json:"reason"`
	Err          error  `json:"-"`
}

// Parsed: результат разбора тела запроса.
type Parsed struct {
	Kind     Kind
	Text     string
	JSON     any
	Fields   map[string]any
	Files    []models.UploadedFile
	Rejected []Rejected
	ParseErr error
}

type ctxKey struct{}

// WithParsed кладёт результат разбора в контекст.
func WithParsed(ctx context.Context, p *Parsed) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext достаёт результат разбора; без middleware возвращается пустой Parsed.
func FromContext(ctx context.Context) *Parsed {
	if p, ok := ctx.Value(ctxKey{}).(*Parsed); ok && p != nil {
		return p
	}
	return &Parsed{Fields: map[string]any{}}
}
