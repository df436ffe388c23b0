package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sir_venger/http_playground/internal/app/playhttp"
	"github.com/sir_venger/http_playground/internal/config"
	"github.com/sir_venger/http_playground/internal/logging"
	"github.com/sir_venger/http_playground/internal/upload"
)

const shutdownGrace = 15 * time.Second

// main поднимает демо-сервер и обеспечивает корректное завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	handler, srv, err := playhttp.NewServer(cfg, logger)
	if err != nil {
		logger.Error("init server", "error", err)
		os.Exit(1)
	}

	stopGC := upload.StartGC(cfg.UploadsDir, cfg.GCTTL(), cfg.GCInterval(), srv.Registry.Remove, logger.With("component", "gc"))
	defer stopGC()

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("listen", "error", err)
		os.Exit(1)
	}

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server listening",
		"addr", ln.Addr().String(),
		"uploads_dir", cfg.UploadsDir,
		"max_file_size", cfg.MaxFileSize,
	)
	if err := serve(ctx, ln, handler, shutdownGrace, logger); err != nil {
		logger.Error("serve", "error", err)
		stopGC()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
