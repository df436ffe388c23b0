package playhttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/rangeresp"
	"github.com/sir_venger/http_playground/pkg/httperrors"
)

// downloadFile отдаёт загруженный файл целиком или диапазоном из заголовка Range.
func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	s.serveStored(w, r, rangeresp.Download)
}

// viewFile отдаёт файл для просмотра с Content-Type по расширению.
func (s *Server) viewFile(w http.ResponseWriter, r *http.Request) {
	s.serveStored(w, r, rangeresp.View)
}

type storedResponder func(w http.ResponseWriter, r *http.Request, f io.ReaderAt, sf models.StoredFile) error

func (s *Server) serveStored(w http.ResponseWriter, r *http.Request, respond storedResponder) {
	name := chi.URLParam(r, "filename")

	f, sf, err := s.Store.Open(name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = httperrors.New(err, "", "File %s does not exist", name)
		}
		httperrors.Write(w, err)
		return
	}
	defer f.Close()

	err = respond(w, r, f, sf)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrTransportAbort):
		s.log(r).Info("file transfer aborted", "file", sf.Name, "error", err)
	default:
		httperrors.Write(w, err)
	}
}
