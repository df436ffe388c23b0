package playhttp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/stream"
	"github.com/sir_venger/http_playground/pkg/httperrors"
)

// streamLargeJSON отдаёт массив из json_stream.items записей, не собирая его в памяти.
func (s *Server) streamLargeJSON(w http.ResponseWriter, r *http.Request) {
	cfg := s.Cfg.JSONStream
	w.Header().Set("Content-Type", "application/json")

	src := stream.NewRecordReader(cfg.Items, cfg.FillerLen)
	src.Now = s.now
	g := &stream.Generator{
		ChunkSize: cfg.ChunkBytes,
		Logger:    s.log(r).With("stream", "json"),
	}
	s.pump(w, r, g, src)
}

// streamText отдаёт повторяющийся текст кусками с паузой между ними.
func (s *Server) streamText(w http.ResponseWriter, r *http.Request) {
	cfg := s.Cfg.TextStream
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	g := &stream.Generator{
		ChunkSize: cfg.ChunkBytes,
		Interval:  cfg.Interval,
		Logger:    s.log(r).With("stream", "text"),
	}
	s.pump(w, r, g, stream.Text(cfg.Text, cfg.Repeat))
}

// downloadSynthetic отдаёт детерминированный бинарный файл по профилю из конфигурации.
// Content-Length известен заранее, тело генерируется по мере готовности клиента.
func (s *Server) downloadSynthetic(w http.ResponseWriter, r *http.Request) {
	size := chi.URLParam(r, "size")
	profile, ok := s.Cfg.Downloads[size]
	if !ok {
		httperrors.Write(w, httperrors.New(models.ErrUnknownProfile, "", "Download %s is not configured", size))
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", size+"-file.bin"))
	h.Set("Content-Length", strconv.FormatInt(profile.TotalBytes, 10))

	log := s.log(r).With("stream", "download", "profile", size)
	log.Info("download started", "total", profile.TotalBytes, "chunk", profile.ChunkBytes)

	g := &stream.Generator{
		ChunkSize:     profile.ChunkBytes,
		ProgressEvery: s.Cfg.ProgressEvery,
		Logger:        log,
	}
	if s.pump(w, r, g, stream.Pattern(profile.TotalBytes)) {
		log.Info("download completed", "total", profile.TotalBytes)
	}
}

// pump запускает генератор и логирует исход. Ошибки клиенту не пишутся: ответ уже начат.
func (s *Server) pump(w http.ResponseWriter, r *http.Request, g *stream.Generator, src io.Reader) bool {
	t := stream.NewTransfer()
	err := stream.Pump(r.Context(), w, s.Cfg.HighWaterMark, g, t, src)
	switch {
	case err == nil:
		return true
	case errors.Is(err, stream.ErrAborted):
		g.Logger.Info("stream interrupted", "sent", t.Sent(), "error", err)
	default:
		g.Logger.Error("stream failed", "sent", t.Sent(), "error", err)
	}
	return false
}
