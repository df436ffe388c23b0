// Package playclient: HTTP-клиент демо-сервера для скачивания файлов
// с докачкой через Range и индикатором прогресса.
package playclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/pkg/httperrors"
	"github.com/sir_venger/http_playground/pkg/playproto"
)

// DownloadResult описывает завершённое скачивание.
type DownloadResult struct {
	// Written: сколько байт записано в dst за этот вызов.
	Written int64
	// Total: полный размер ресурса на сервере.
	Total int64
	// Resumed: сервер ответил 206 и отдал только хвост начиная с offset.
	Resumed bool
}

// Target выдаёт приёмник тела, когда статус ответа уже известен.
// resumed == false означает, что сервер прислал файл целиком и писать нужно с нуля.
type Target func(resumed bool) (io.Writer, error)

// To возвращает Target, который всегда пишет в w.
func To(w io.Writer) Target {
	return func(bool) (io.Writer, error) { return w, nil }
}

type Client interface {
	// Download скачивает /download-file/{name}; при offset > 0 запрашивает хвост через Range.
	// Если сервер проигнорировал Range и прислал файл целиком, Resumed == false.
	// Если offset уже равен размеру файла, возвращается Resumed == true и Written == 0, dst не вызывается.
	Download(ctx context.Context, baseURL, name string, offset int64, dst Target) (DownloadResult, error)
	// Synthetic скачивает /download-{size}.
	Synthetic(ctx context.Context, baseURL, size string, dst io.Writer) (DownloadResult, error)
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// Option настраивает клиент.
type Option func(*httpClient)

// WithHTTPClient подменяет http.Client, например, для тестов.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// WithProgress включает индикатор прогресса, который рисуется в out.
func WithProgress(out io.Writer) Option {
	return func(h *httpClient) { h.progress = out }
}

// New создаёт HTTP-клиент по умолчанию.
func New(opts ...Option) Client {
	h := &httpClient{c: &http.Client{}}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Download скачивает сохранённый файл, при необходимости продолжая с offset.
func (h *httpClient) Download(ctx context.Context, baseURL, name string, offset int64, dst Target) (DownloadResult, error) {
	u := fmt.Sprintf(playproto.DownloadFilePathFormat, strings.TrimRight(baseURL, "/"), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return DownloadResult{}, err
	}
	if offset > 0 {
		req.Header.Set(playproto.HeaderRange, fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return DownloadResult{}, err
	}
	defer resp.Body.Close()

	res := DownloadResult{Total: resp.ContentLength}
	start := int64(0)
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusPartialContent:
		total, err := parseContentRangeTotal(resp.Header.Get(playproto.HeaderContentRange))
		if err != nil {
			return DownloadResult{}, err
		}
		res.Total = total
		res.Resumed = true
		start = offset
	case http.StatusRequestedRangeNotSatisfiable:
		// Докачивать нечего: локальная копия уже полная.
		total, err := parseContentRangeTotal(resp.Header.Get(playproto.HeaderContentRange))
		if offset > 0 && err == nil && total == offset {
			return DownloadResult{Total: total, Resumed: true}, nil
		}
		return DownloadResult{}, decodeError(resp)
	default:
		return DownloadResult{}, decodeError(resp)
	}

	w, err := dst(res.Resumed)
	if err != nil {
		return DownloadResult{}, err
	}
	res.Written, err = h.copy(w, resp.Body, fmt.Sprintf("Downloading %s", name), start, res.Total)
	return res, err
}

// Synthetic скачивает синтетический файл указанного профиля.
func (h *httpClient) Synthetic(ctx context.Context, baseURL, size string, dst io.Writer) (DownloadResult, error) {
	u := fmt.Sprintf(playproto.SyntheticPathFormat, strings.TrimRight(baseURL, "/"), url.PathEscape(size))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return DownloadResult{}, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return DownloadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DownloadResult{}, decodeError(resp)
	}

	res := DownloadResult{Total: resp.ContentLength}
	res.Written, err = h.copy(dst, resp.Body, fmt.Sprintf("Downloading %s", size), 0, res.Total)
	if err == nil && res.Total >= 0 && res.Written != res.Total {
		err = fmt.Errorf("short body: got %d of %d bytes", res.Written, res.Total)
	}
	return res, err
}

func (h *httpClient) copy(dst io.Writer, body io.Reader, label string, start, total int64) (int64, error) {
	if h.progress == nil {
		return io.Copy(dst, body)
	}

	p := newProgress(h.progress, label, start, total)
	n, err := io.Copy(dst, io.TeeReader(body, p))
	p.finish(err)
	return n, err
}

// parseContentRangeTotal достаёт полный размер из "bytes s-e/total".
func parseContentRangeTotal(v string) (int64, error) {
	_, total, ok := strings.Cut(v, "/")
	if !ok || total == "*" {
		return -1, fmt.Errorf("invalid Content-Range %q", v)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil || n < 0 {
		return -1, fmt.Errorf("invalid Content-Range %q", v)
	}
	return n, nil
}

// decodeError превращает ответ с ошибкой обратно в доменную ошибку.
func decodeError(resp *http.Response) error {
	var body httperrors.Body
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	var base error
	switch resp.StatusCode {
	case http.StatusNotFound:
		base = models.ErrNotFound
	case http.StatusRequestedRangeNotSatisfiable:
		base = models.ErrBadRange
	default:
		return fmt.Errorf("download failed: %s %s", resp.Status, body.Message)
	}

	if body.Message != "" {
		return fmt.Errorf("%s: %w", body.Message, base)
	}
	return base
}
