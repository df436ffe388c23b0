package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sir_venger/http_playground/internal/logging"
	"github.com/sir_venger/http_playground/internal/stream"
	"github.com/sir_venger/http_playground/pkg/playclient"
)

// main скачивает файл с демо-сервера: сохранённый (с докачкой) или синтетический (с проверкой содержимого).
func main() {
	var (
		base      = flag.String("base", "http://localhost:3000", "адрес сервера")
		name      = flag.String("name", "", "имя загруженного файла для /download-file/{name}")
		out       = flag.String("out", "", "куда сохранить файл (по умолчанию имя файла)")
		resume    = flag.Bool("resume", false, "докачать существующий частичный файл через Range")
		synthetic = flag.String("synthetic", "", "профиль /download-{size}, содержимое проверяется и не сохраняется")
		quiet     = flag.Bool("quiet", false, "без индикатора прогресса")
		logLevel  = flag.String("log-level", "info", "debug|info|warn|error")
	)
	flag.Parse()

	logger := logging.New(*logLevel, "text", os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []playclient.Option
	if !*quiet {
		opts = append(opts, playclient.WithProgress(os.Stdout))
	}
	client := playclient.New(opts...)

	var err error
	switch {
	case *synthetic != "":
		err = fetchSynthetic(ctx, client, *base, *synthetic, logger)
	case *name != "":
		dst := *out
		if dst == "" {
			dst = *name
		}
		err = fetchFile(ctx, client, *base, *name, dst, *resume, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func fetchFile(ctx context.Context, c playclient.Client, base, name, dst string, resume bool, log *slog.Logger) error {
	var offset int64
	if resume {
		if st, err := os.Stat(dst); err == nil {
			offset = st.Size()
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	// Позиция выбирается по ответу: на 200 файл переписывается с нуля, на 206 дописывается хвост.
	target := func(resumed bool) (io.Writer, error) {
		pos := offset
		if !resumed {
			pos = 0
			if err := f.Truncate(0); err != nil {
				return nil, err
			}
		}
		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			return nil, err
		}
		return f, nil
	}

	res, err := c.Download(ctx, base, name, offset, target)
	if err != nil {
		return err
	}
	if res.Resumed && res.Written == 0 && offset == res.Total {
		log.Info("file already complete", "path", dst, "size", res.Total)
		return nil
	}

	log.Info("file saved", "path", dst, "written", res.Written, "total", res.Total, "resumed", res.Resumed)
	return nil
}

func fetchSynthetic(ctx context.Context, c playclient.Client, base, size string, log *slog.Logger) error {
	v := &patternVerifier{}
	res, err := c.Synthetic(ctx, base, size, v)
	if err != nil {
		return err
	}
	log.Info("synthetic download verified", "profile", size, "bytes", res.Written)
	return nil
}

// patternVerifier проверяет, что байт по смещению k равен k mod 256.
type patternVerifier struct {
	offset int64
	want   []byte
}

func (v *patternVerifier) Write(p []byte) (int, error) {
	if cap(v.want) < len(p) {
		v.want = make([]byte, len(p))
	}
	want := v.want[:len(p)]
	stream.Fill(want, v.offset)
	for i := range p {
		if p[i] != want[i] {
			return i, fmt.Errorf("byte %d: got %d, want %d", v.offset+int64(i), p[i], want[i])
		}
	}
	v.offset += int64(len(p))
	return len(p), nil
}
