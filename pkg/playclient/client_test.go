package playclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/rangeresp"
	"github.com/sir_venger/http_playground/pkg/httperrors"
)

func testServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/download-file/{filename}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")
		if name != "file.bin" {
			httperrors.Write(w, httperrors.New(models.ErrNotFound, "", "File %s does not exist", name))
			return
		}
		sf := models.StoredFile{Name: name, Size: int64(len(data))}
		if err := rangeresp.Download(w, r, bytes.NewReader(data), sf); err != nil {
			httperrors.Write(w, err)
		}
	})
	r.Get("/download-{size}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10")
		_, _ = w.Write(data[:4])
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload_Full(t *testing.T) {
	data := []byte("0123456789abcdef")
	srv := testServer(t, data)

	var buf bytes.Buffer
	res, err := New().Download(context.Background(), srv.URL, "file.bin", 0, To(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if res.Resumed || res.Total != int64(len(data)) || res.Written != int64(len(data)) {
		t.Fatalf("result %+v", res)
	}
	if buf.String() != string(data) {
		t.Fatalf("body %q", buf.String())
	}
}

func TestDownload_Resume(t *testing.T) {
	data := []byte("0123456789abcdef")
	srv := testServer(t, data)

	var buf bytes.Buffer
	var progress bytes.Buffer
	res, err := New(WithProgress(&progress)).Download(context.Background(), srv.URL+"/", "file.bin", 10, To(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Resumed || res.Total != 16 || res.Written != 6 {
		t.Fatalf("result %+v", res)
	}
	if buf.String() != "abcdef" {
		t.Fatalf("body %q", buf.String())
	}
	if !strings.Contains(progress.String(), "Downloading file.bin") {
		t.Fatalf("progress output %q", progress.String())
	}
}

func TestDownload_AlreadyComplete(t *testing.T) {
	srv := testServer(t, []byte("0123"))

	called := false
	target := func(bool) (io.Writer, error) {
		called = true
		return io.Discard, nil
	}
	res, err := New().Download(context.Background(), srv.URL, "file.bin", 4, target)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Resumed || res.Written != 0 || res.Total != 4 || called {
		t.Fatalf("result %+v, target called=%v", res, called)
	}
}

func TestDownload_OffsetPastEnd(t *testing.T) {
	srv := testServer(t, []byte("0123"))

	_, err := New().Download(context.Background(), srv.URL, "file.bin", 9, To(&bytes.Buffer{}))
	if !errors.Is(err, models.ErrBadRange) {
		t.Fatalf("want ErrBadRange, got %v", err)
	}
}

func TestDownload_RangeIgnoredRestartsTarget(t *testing.T) {
	data := []byte("0123456789")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	var gotResumed *bool
	var buf bytes.Buffer
	target := func(resumed bool) (io.Writer, error) {
		gotResumed = &resumed
		return &buf, nil
	}
	res, err := New().Download(context.Background(), srv.URL, "file.bin", 5, target)
	if err != nil {
		t.Fatal(err)
	}
	if gotResumed == nil || *gotResumed || res.Resumed {
		t.Fatalf("target must be asked to restart, result %+v", res)
	}
	if buf.String() != string(data) {
		t.Fatalf("body %q", buf.String())
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := testServer(t, []byte("0123"))

	_, err := New().Download(context.Background(), srv.URL, "missing.bin", 0, To(&bytes.Buffer{}))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.bin") {
		t.Fatalf("message lost: %v", err)
	}
}

func TestSynthetic_ShortBody(t *testing.T) {
	srv := testServer(t, []byte("0123456789"))

	_, err := New().Synthetic(context.Background(), srv.URL, "tiny", &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
}

func TestParseContentRangeTotal(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"bytes 0-9/100", 100, true},
		{"bytes 50-99/ 100", 100, true},
		{"bytes */100", 100, true},
		{"bytes 0-9/*", -1, false},
		{"garbage", -1, false},
		{"bytes 0-9/-3", -1, false},
	}
	for _, c := range cases {
		got, err := parseContentRangeTotal(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Errorf("%q: got %d, %v", c.in, got, err)
		}
	}
}
