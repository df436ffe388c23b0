package reqparse

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sir_venger/http_playground/internal/logging"
	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/upload"
)

func newParser(t *testing.T, maxFile int64) (*Parser, *upload.DiskStore, *[]models.UploadedFile) {
	t.Helper()
	store, err := upload.NewDiskStore(filepath.Join(t.TempDir(), "uploads"), maxFile)
	if err != nil {
		t.Fatal(err)
	}
	var seen []models.UploadedFile
	p := &Parser{
		Saver:  store,
		OnFile: func(u models.UploadedFile) { seen = append(seen, u) },
		Logger: logging.Discard(),
	}
	return p, store, &seen
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestParse_JSON(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	r := httptest.NewRequest(http.MethodPost, "/post-json", strings.NewReader(`{"a":1,"b":"x"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	got := p.Parse(r)
	if got.Kind != KindJSON || got.ParseErr != nil {
		t.Fatalf("kind=%v err=%v", got.Kind, got.ParseErr)
	}
	m, ok := got.JSON.(map[string]any)
	if !ok || m["b"] != "x" {
		t.Fatalf("unexpected json: %#v", got.JSON)
	}
}

func TestParse_BrokenJSONIsLenient(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	r := httptest.NewRequest(http.MethodPost, "/post-json", strings.NewReader(`{"a":`))
	r.Header.Set("Content-Type", "application/json")

	got := p.Parse(r)
	if got.ParseErr == nil {
		t.Fatalf("expected parse error to be recorded")
	}
	if got.JSON != nil {
		t.Fatalf("broken json must not produce a value")
	}
}

func TestParse_Text(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	r := httptest.NewRequest(http.MethodPut, "/put-text", strings.NewReader("hello"))
	r.Header.Set("Content-Type", "text/plain")

	got := p.Parse(r)
	if got.Kind != KindText || got.Text != "hello" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestParse_Form(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	r := httptest.NewRequest(http.MethodPost, "/post-form", strings.NewReader("name=bob&tag=a&tag=b"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got := p.Parse(r)
	if got.Kind != KindForm || got.ParseErr != nil {
		t.Fatalf("kind=%v err=%v", got.Kind, got.ParseErr)
	}
	if got.Fields["name"] != "bob" {
		t.Fatalf("name = %#v", got.Fields["name"])
	}
	tags, ok := got.Fields["tag"].([]string)
	if !ok || len(tags) != 2 {
		t.Fatalf("tag = %#v", got.Fields["tag"])
	}
}

func TestParse_MultipartFieldsAndFiles(t *testing.T) {
	p, store, seen := newParser(t, 1024)
	body, ct := multipartBody(t, map[string]string{"title": "hi"}, map[string][]byte{"a.txt": []byte("hello")})
	r := httptest.NewRequest(http.MethodPost, "/upload-single", body)
	r.Header.Set("Content-Type", ct)

	got := p.Parse(r)
	if got.ParseErr != nil {
		t.Fatalf("parse err: %v", got.ParseErr)
	}
	if got.Fields["title"] != "hi" {
		t.Fatalf("fields = %v", got.Fields)
	}
	if len(got.Files) != 1 || got.Files[0].Size != 5 || got.Files[0].OriginalName != "a.txt" {
		t.Fatalf("files = %+v", got.Files)
	}
	if got.Files[0].Encoding != "7bit" {
		t.Fatalf("encoding = %q", got.Files[0].Encoding)
	}
	if len(*seen) != 1 {
		t.Fatalf("OnFile called %d times", len(*seen))
	}
	if _, err := store.Stat("a.txt"); err != nil {
		t.Fatalf("file not stored: %v", err)
	}
}

func TestParse_MultipartOversizeRejected(t *testing.T) {
	p, store, _ := newParser(t, 4)
	body, ct := multipartBody(t, nil, map[string][]byte{"big.bin": []byte("0123456789")})
	r := httptest.NewRequest(http.MethodPost, "/upload-single", body)
	r.Header.Set("Content-Type", ct)

	got := p.Parse(r)
	if got.ParseErr != nil {
		t.Fatalf("oversize file must not be a parse error: %v", got.ParseErr)
	}
	if len(got.Files) != 0 || len(got.Rejected) != 1 {
		t.Fatalf("files=%v rejected=%v", got.Files, got.Rejected)
	}
	if !errors.Is(got.Rejected[0].Err, models.ErrTooLarge) {
		t.Fatalf("rejected err = %v", got.Rejected[0].Err)
	}
	if _, err := store.Stat("big.bin"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("oversize file stored: %v", err)
	}
}

func TestParse_TruncatedMultipartKeepsEarlierParts(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	body, ct := multipartBody(t, map[string]string{"title": "kept"}, map[string][]byte{"a.txt": []byte("hello")})
	// Обрезаем закрывающий boundary.
	truncated := body.Bytes()[:body.Len()-10]
	r := httptest.NewRequest(http.MethodPost, "/post-multipart", bytes.NewReader(truncated))
	r.Header.Set("Content-Type", ct)

	got := p.Parse(r)
	if got.ParseErr == nil {
		t.Fatalf("expected parse error for truncated body")
	}
	if got.Fields["title"] != "kept" {
		t.Fatalf("fields before the error must be delivered: %v", got.Fields)
	}
}

func TestMiddleware_PutsParsedIntoContext(t *testing.T) {
	p, _, _ := newParser(t, 1024)
	var got *Parsed
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodPost, "/post-text", strings.NewReader("abc"))
	r.Header.Set("Content-Type", "text/plain")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.Text != "abc" {
		t.Fatalf("parsed = %+v", got)
	}
}

func TestFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if p := FromContext(r.Context()); p == nil || p.Fields == nil {
		t.Fatalf("expected empty parsed value")
	}
}
