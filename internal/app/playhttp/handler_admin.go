package playhttp

import (
	"net/http"

	"github.com/sir_venger/http_playground/internal/upload"
	"github.com/sir_venger/http_playground/pkg/httperrors"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK         bool  `json:"ok"`
	TotalBytes int64 `json:"total_bytes"`
	Files      int   `json:"files"`
}

// health возвращает объём каталога загрузок.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	total, err := upload.Usage(s.Store.Dir)
	if err != nil {
		s.internalError(w, r, "uploads usage", err)
		return
	}

	writeJSON(w, http.StatusOK, healthStats{
		OK:         true,
		TotalBytes: total,
		Files:      len(s.Registry.List()),
	})
}

func (s *Server) listUploads(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Registry.List())
}

// gcOnce вручную запускает очистку загрузок старше gc_ttl_hours.
func (s *Server) gcOnce(w http.ResponseWriter, r *http.Request) {
	removed, err := upload.SweepOnce(s.Store.Dir, s.Cfg.GCTTL(), s.Registry.Remove)
	if err != nil {
		s.internalError(w, r, "manual gc", err)
		return
	}
	s.log(r).Info("manual gc", "removed", removed)
	w.WriteHeader(http.StatusNoContent)
}

// internalError логирует сбой и отвечает 500 с JSON-телом, как остальные ошибки.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.log(r).Error(op, "error", err)
	httperrors.Write(w, httperrors.New(err, "", "%s: %v", op, err))
}
