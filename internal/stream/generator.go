package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sir_venger/http_playground/internal/models"
)

// ErrAborted означает, что передача остановлена отключением клиента или ошибкой записи.
// Ответ к этому моменту уже отправляется, поэтому ошибку только логируют.
var ErrAborted = models.ErrTransportAbort

// Sink принимает чанки и сообщает о заполненности своего буфера.
type Sink interface {
	// Write отдаёт чанк получателю. false означает, что буфер получателя
	// заполнен и следующий чанк можно производить только после Drained.
	Write(p []byte) (bool, error)
	// Drained закрывается, когда буфер освободился. Если буфер не заполнен,
	// возвращается уже закрытый канал.
	Drained() <-chan struct{}
	// Close сигнализирует о штатном конце потока.
	Close() error
}

// Generator режет источник на чанки по ChunkSize байт.
type Generator struct {
	ChunkSize int64
	// Interval: пауза между чанками, 0 без паузы.
	Interval time.Duration
	// ProgressEvery: шаг логирования прогресса в байтах, 0 отключает.
	ProgressEvery int64
	Logger        *slog.Logger
	// OnChunk вызывается после каждого принятого Sink'ом чанка.
	OnChunk func(index int, size int)
}

// Run отдаёт содержимое src в sink до EOF, отмены ctx или ошибки записи.
// После выхода t всегда находится в состоянии Terminated.
func (g *Generator) Run(ctx context.Context, t *Transfer, src io.Reader, sink Sink) error {
	if g.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be > 0")
	}
	log := g.logger()

	defer t.setState(Terminated)
	stop := context.AfterFunc(ctx, t.Close)
	defer stop()

	t.setState(Producing)
	var nextReport int64 = g.ProgressEvery

	for {
		if ctx.Err() != nil {
			t.Close()
		}
		if t.Closed() {
			return g.abort(log, t, context.Cause(ctx))
		}

		buf := make([]byte, g.ChunkSize)
		n, readErr := io.ReadFull(src, buf)
		if n == 0 {
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				t.Close()
				return fmt.Errorf("read chunk %d: %w", t.NextChunk(), readErr)
			}
			if err := sink.Close(); err != nil {
				return g.abort(log, t, err)
			}
			log.Debug("stream completed", "sent", t.Sent(), "chunks", t.NextChunk())
			return nil
		}
		if readErr != nil && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			t.Close()
			return fmt.Errorf("read chunk %d: %w", t.NextChunk(), readErr)
		}

		accepted, err := sink.Write(buf[:n])
		if err != nil {
			t.Close()
			return g.abort(log, t, err)
		}
		index := t.NextChunk()
		t.advance(n)
		if g.OnChunk != nil {
			g.OnChunk(index, n)
		}

		if g.ProgressEvery > 0 && t.Sent() >= nextReport {
			log.Info("stream progress", "sent", t.Sent())
			for nextReport <= t.Sent() {
				nextReport += g.ProgressEvery
			}
		}

		if !accepted {
			t.setState(Draining)
			select {
			case <-sink.Drained():
			case <-ctx.Done():
				t.Close()
			}
			t.setState(Producing)
		}

		if g.Interval > 0 && !t.Closed() {
			timer := time.NewTimer(g.Interval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				t.Close()
			}
		}
	}
}

func (g *Generator) abort(log *slog.Logger, t *Transfer, cause error) error {
	t.Close()
	if cause == nil {
		cause = context.Canceled
	}
	log.Info("stream aborted", "sent", t.Sent(), "chunks", t.NextChunk(), "cause", cause)
	return fmt.Errorf("%w after %d bytes: %w", ErrAborted, t.Sent(), cause)
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
