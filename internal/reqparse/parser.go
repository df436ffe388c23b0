package reqparse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/sir_venger/http_playground/internal/models"
)

const (
	defaultMaxBodyBytes  = 1 << 20
	defaultMaxFieldBytes = 1 << 20
	defaultEncoding      = "7bit"
)

// FileSaver принимает содержимое файловой части multipart-запроса.
type FileSaver interface {
	Save(ctx context.Context, field, name, mimeType string, r io.Reader) (models.UploadedFile, error)
}

// Parser разбирает тела JSON, text/plain, urlencoded и multipart/form-data.
type Parser struct {
	Saver         FileSaver
	OnFile        func(models.UploadedFile)
	Logger        *slog.Logger
	MaxBodyBytes  int64
	MaxFieldBytes int64
}

// Middleware разбирает тело каждого запроса и кладёт *Parsed в контекст.
func (p *Parser) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parsed := p.Parse(r)
		if parsed.ParseErr != nil {
			p.logger().Warn("request body parsed partially",
				"method", r.Method,
				"path", r.URL.Path,
				"error", parsed.ParseErr,
			)
		}
		next.ServeHTTP(w, r.WithContext(WithParsed(r.Context(), parsed)))
	})
}

// Parse выбирает разборщик по Content-Type. Неизвестные типы оставляют тело нетронутым.
func (p *Parser) Parse(r *http.Request) *Parsed {
	out := &Parsed{Fields: map[string]any{}}

	ct := r.Header.Get("Content-Type")
	if ct == "" || r.Body == nil || r.Body == http.NoBody {
		return out
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		out.ParseErr = fmt.Errorf("content type: %w", err)
		return out
	}

	switch mediaType {
	case "application/json":
		out.Kind = KindJSON
		p.parseJSON(r, out)
	case "text/plain":
		out.Kind = KindText
		p.parseText(r, out)
	case "application/x-www-form-urlencoded":
		out.Kind = KindForm
		p.parseForm(r, out)
	case "multipart/form-data":
		out.Kind = KindMultipart
		p.parseMultipart(r, out)
	}

	return out
}

func (p *Parser) parseJSON(r *http.Request, out *Parsed) {
	dec := json.NewDecoder(io.LimitReader(r.Body, p.maxBody()))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		out.ParseErr = fmt.Errorf("json body: %w", err)
		return
	}
	out.JSON = v
}

func (p *Parser) parseText(r *http.Request, out *Parsed) {
	b, err := io.ReadAll(io.LimitReader(r.Body, p.maxBody()))
	out.Text = string(b)
	if err != nil {
		out.ParseErr = fmt.Errorf("text body: %w", err)
	}
}

func (p *Parser) parseForm(r *http.Request, out *Parsed) {
	r.Body = http.MaxBytesReader(nil, r.Body, p.maxBody())
	err := r.ParseForm()
	for k, vs := range r.PostForm {
		out.Fields[k] = formValue(vs)
	}
	if err != nil {
		out.ParseErr = fmt.Errorf("form body: %w", err)
	}
}

// parseMultipart читает части по одной: поля складываются в Fields, файлы сразу уходят в Saver.
func (p *Parser) parseMultipart(r *http.Request, out *Parsed) {
	mr, err := r.MultipartReader()
	if err != nil {
		out.ParseErr = fmt.Errorf("multipart: %w", err)
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			out.ParseErr = fmt.Errorf("multipart: %w", err)
			return
		}

		if err = p.consumePart(r.Context(), part, out); err != nil {
			_ = part.Close()
			out.ParseErr = fmt.Errorf("multipart part %q: %w", part.FormName(), err)
			return
		}
		_ = part.Close()
	}
}

func (p *Parser) consumePart(ctx context.Context, part *multipart.Part, out *Parsed) error {
	field := part.FormName()
	filename := part.FileName()

	if filename == "" {
		b, err := io.ReadAll(io.LimitReader(part, p.maxField()))
		if err != nil {
			return err
		}
		out.Fields[field] = string(b)
		return nil
	}

	if p.Saver == nil {
		_, err := io.Copy(io.Discard, part)
		return err
	}

	mimeType := part.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploaded, err := p.Saver.Save(ctx, field, filename, mimeType, part)
	if errors.Is(err, models.ErrTooLarge) {
		p.logger().Warn("upload rejected", "field", field, "file", filename, "error", err)
		out.Rejected = append(out.Rejected, Rejected{
			FieldName:    field,
			OriginalName: filename,
			Reason:       err.Error(),
			Err:          err,
		})
		return nil
	}
	if err != nil {
		return err
	}

	uploaded.Encoding = part.Header.Get("Content-Transfer-Encoding")
	if uploaded.Encoding == "" {
		uploaded.Encoding = defaultEncoding
	}
	out.Files = append(out.Files, uploaded)
	if p.OnFile != nil {
		p.OnFile(uploaded)
	}

	return nil
}

// formValue сворачивает одиночные значения в строку, повторяющиеся ключи: в список.
func formValue(vs []string) any {
	if len(vs) == 1 {
		return vs[0]
	}
	return append([]string(nil), vs...)
}

func (p *Parser) maxBody() int64 {
	if p.MaxBodyBytes > 0 {
		return p.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

func (p *Parser) maxField() int64 {
	if p.MaxFieldBytes > 0 {
		return p.MaxFieldBytes
	}
	return defaultMaxFieldBytes
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// FieldsString возвращает поля в JSON-виде для текстовых ответов.
func (ps *Parsed) FieldsString() string {
	b, err := json.Marshal(ps.Fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}

