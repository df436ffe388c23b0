package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrSinkClosed возвращается при записи в уже закрытый Sink.
var ErrSinkClosed = errors.New("sink closed")

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// ResponseSink буферизует чанки и пишет их в ответ из одной горутины (Run).
// Write никогда не блокируется: когда в буфере набирается HighWaterMark байт,
// он возвращает false, а Drained закроется после того, как буфер опустеет.
type ResponseSink struct {
	w     io.Writer
	flush func() error

	highWaterMark int64

	mu        sync.Mutex
	pending   [][]byte
	buffered  int64
	saturated bool
	drained   chan struct{}
	closing   bool
	err       error

	notify chan struct{}
}

// NewResponseSink оборачивает ответ; после каждого чанка делается Flush, если он поддерживается.
func NewResponseSink(w http.ResponseWriter, highWaterMark int64) *ResponseSink {
	rc := http.NewResponseController(w)
	s := newSink(w, highWaterMark)
	s.flush = func() error {
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	}
	return s
}

func newSink(w io.Writer, highWaterMark int64) *ResponseSink {
	if highWaterMark <= 0 {
		highWaterMark = 1
	}
	return &ResponseSink{
		w:             w,
		flush:         func() error { return nil },
		highWaterMark: highWaterMark,
		drained:       make(chan struct{}),
		notify:        make(chan struct{}, 1),
	}
}

// Write ставит чанк в очередь на отправку.
func (s *ResponseSink) Write(p []byte) (bool, error) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return false, err
	}
	if s.closing {
		s.mu.Unlock()
		return false, ErrSinkClosed
	}

	s.pending = append(s.pending, p)
	s.buffered += int64(len(p))
	full := s.buffered >= s.highWaterMark
	if full && !s.saturated {
		s.saturated = true
		s.drained = make(chan struct{})
	}
	s.mu.Unlock()

	s.wake()
	return !full, nil
}

// Drained закрывается, когда буфер после переполнения полностью отправлен.
func (s *ResponseSink) Drained() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saturated {
		return closedCh
	}
	return s.drained
}

// Close просит Run дописать очередь и завершиться.
func (s *ResponseSink) Close() error {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.closing = true
	s.mu.Unlock()

	s.wake()
	return nil
}

// Buffered: сколько байт ждут отправки.
func (s *ResponseSink) Buffered() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffered
}

// Run: единственный писатель в ответ. Возвращается после Close и отправки очереди,
// при ошибке записи или при отмене ctx, когда очередь пуста.
func (s *ResponseSink) Run(ctx context.Context) error {
	for {
		chunk, closing, ok := s.next()
		if !ok {
			if closing {
				return nil
			}
			select {
			case <-s.notify:
				continue
			case <-ctx.Done():
				return s.fail(context.Cause(ctx))
			}
		}

		_, err := s.w.Write(chunk)
		if err == nil {
			err = s.flush()
		}
		if err != nil {
			return s.fail(err)
		}
		s.release(len(chunk))
	}
}

func (s *ResponseSink) next() ([]byte, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, s.closing, false
	}
	chunk := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return chunk, s.closing, true
}

func (s *ResponseSink) release(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffered -= int64(n)
	if s.saturated && s.buffered == 0 {
		s.saturated = false
		close(s.drained)
	}
}

func (s *ResponseSink) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
	s.pending = nil
	s.buffered = 0
	if s.saturated {
		s.saturated = false
		close(s.drained)
	}
	return s.err
}

func (s *ResponseSink) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Pump связывает генератор и ResponseSink: писатель и производитель работают
// в одной errgroup, ошибка любого из них отменяет другого.
func Pump(ctx context.Context, w http.ResponseWriter, highWaterMark int64, g *Generator, t *Transfer, src io.Reader) error {
	sink := NewResponseSink(w, highWaterMark)

	var genErr, sinkErr error
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		sinkErr = sink.Run(egCtx)
		return sinkErr
	})
	eg.Go(func() error {
		genErr = g.Run(egCtx, t, src, sink)
		return genErr
	})
	_ = eg.Wait()

	switch {
	case genErr != nil:
		return genErr
	case sinkErr != nil:
		// Генератор успел закончить, но хвост очереди не ушёл клиенту.
		return fmt.Errorf("%w: %w", ErrAborted, sinkErr)
	}

	return nil
}
