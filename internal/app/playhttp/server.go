package playhttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sir_venger/http_playground/internal/config"
	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/reqparse"
	"github.com/sir_venger/http_playground/internal/stream"
	"github.com/sir_venger/http_playground/internal/upload"
)

// Server держит зависимости обработчиков.
type Server struct {
	Cfg      *config.Config
	Store    *upload.DiskStore
	Registry *upload.Registry
	Logger   *slog.Logger

	now func() time.Time
}

// NewServer создаёт каталог загрузок и DiskStore над ним, пустой реестр загрузок
// и chi-роутер со всеми маршрутами. Возвращает готовый handler и сам Server для cmd и тестов.
func NewServer(cfg *config.Config, logger *slog.Logger) (http.Handler, *Server, error) {
	store, err := upload.NewDiskStore(cfg.UploadsDir, cfg.MaxFileSize)
	if err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		Cfg:      cfg,
		Store:    store,
		Registry: upload.NewRegistry(),
		Logger:   logger,
		now:      time.Now,
	}

	return srv.routes(), srv, nil
}

func (s *Server) routes() http.Handler {
	parser := &reqparse.Parser{
		Saver:  s.Store,
		OnFile: func(u models.UploadedFile) { s.Registry.Add(u) },
		Logger: s.Logger,
	}

	rtr := chi.NewRouter()
	rtr.Use(requestID)
	rtr.Use(s.accessLog)
	rtr.Use(middleware.Recoverer)
	rtr.Use(parser.Middleware)

	rtr.Get("/get-text", s.getText)
	rtr.Post("/post-text", s.echoText)
	rtr.Put("/put-text", s.echoText)
	rtr.Delete("/delete-text", s.deleteText)

	rtr.Post("/post-form", s.echoForm)
	rtr.Put("/put-form", s.echoForm)
	rtr.Post("/post-multipart", s.echoMultipart)
	rtr.Put("/put-multipart", s.echoMultipart)

	rtr.Post("/upload-single", s.uploadSingle)
	rtr.Post("/upload-multiple", s.uploadMultiple)

	rtr.Get("/get-json", s.getJSON)
	rtr.Post("/post-json", s.postJSON)
	rtr.Put("/put-json", s.putJSON)
	rtr.Delete("/delete-json", s.deleteJSON)

	rtr.Get("/download-file/{filename}", s.downloadFile)
	rtr.Get("/view-file/{filename}", s.viewFile)

	rtr.Get("/stream-large-json", s.streamLargeJSON)
	rtr.Get("/stream-text", s.streamText)
	rtr.Get("/download-{size}", s.downloadSynthetic)

	rtr.Get("/health", s.health)
	rtr.Get("/admin/config", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, s.Cfg) })
	rtr.Get("/admin/uploads", s.listUploads)
	rtr.Post("/admin/gc", s.gcOnce)

	return rtr
}

// timestamp форматирует время так же, как toISOString в исходном сервисе.
func (s *Server) timestamp() string {
	return s.now().UTC().Format(stream.TimestampLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
