package rangeresp

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/sir_venger/http_playground/internal/models"
)

const octetStream = "application/octet-stream"

// Download отдаёт файл как вложение (200) или запрошенный диапазон (206).
// Ошибки до записи заголовков возвращаются как есть, после: обёрнутыми в models.ErrTransportAbort.
func Download(w http.ResponseWriter, r *http.Request, f io.ReaderAt, sf models.StoredFile) error {
	h := w.Header()

	header := r.Header.Get("Range")
	if header == "" {
		h.Set("Content-Length", strconv.FormatInt(sf.Size, 10))
		h.Set("Content-Type", octetStream)
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sf.Name}))
		w.WriteHeader(http.StatusOK)

		return copyBody(w, r, io.NewSectionReader(f, 0, sf.Size))
	}

	br, err := ParseRange(header, sf.Size)
	if err != nil {
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", sf.Size))
		return err
	}

	h.Set("Content-Range", br.ContentRange(sf.Size))
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	h.Set("Content-Type", octetStream)
	w.WriteHeader(http.StatusPartialContent)

	return copyBody(w, r, io.NewSectionReader(f, br.Start, br.Length()))
}

// View отдаёт файл целиком для просмотра в браузере, без Content-Disposition.
func View(w http.ResponseWriter, r *http.Request, f io.ReaderAt, sf models.StoredFile) error {
	contentType := sf.MimeType
	if contentType == "" {
		contentType = octetStream
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(sf.Size, 10))
	w.WriteHeader(http.StatusOK)

	return copyBody(w, r, io.NewSectionReader(f, 0, sf.Size))
}

func copyBody(w io.Writer, r *http.Request, src io.Reader) error {
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("%w: %w", models.ErrTransportAbort, err)
	}
	return nil
}
