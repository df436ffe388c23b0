package stream

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout: ISO-8601 с миллисекундами, как в ответах остальных эндпоинтов.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Fill заполняет p так, что байт по смещению k равен k mod 256.
func Fill(p []byte, offset int64) {
	for i := range p {
		p[i] = byte(offset + int64(i))
	}
}

// PatternReader: бесконечный детерминированный источник для синтетических скачиваний.
type PatternReader struct {
	Offset int64
}

func (r *PatternReader) Read(p []byte) (int, error) {
	Fill(p, r.Offset)
	r.Offset += int64(len(p))
	return len(p), nil
}

// Pattern возвращает total байт детерминированной последовательности.
func Pattern(total int64) io.Reader {
	return io.LimitReader(&PatternReader{}, total)
}

// Text повторяет text repeat раз.
func Text(text string, repeat int) io.Reader {
	if repeat <= 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Repeat(text, repeat))
}

// Record: элемент потока /stream-large-json.
type Record struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Data      string `json:"data"`
}

// RecordReader лениво сериализует Count записей в один JSON-массив.
// В памяти держится не больше одной записи.
type RecordReader struct {
	Count  int
	Filler string
	Now    func() time.Time

	next    int
	started bool
	done    bool
	buf     bytes.Buffer
}

// NewRecordReader создаёт источник с наполнителем из fillerLen символов "x".
func NewRecordReader(count, fillerLen int) *RecordReader {
	return &RecordReader{
		Count:  count,
		Filler: strings.Repeat("x", fillerLen),
		Now:    time.Now,
	}
}

func (r *RecordReader) Read(p []byte) (int, error) {
	for r.buf.Len() == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	return r.buf.Read(p)
}

func (r *RecordReader) fill() error {
	if !r.started {
		r.started = true
		r.buf.WriteByte('[')
		return nil
	}
	if r.next >= r.Count {
		r.done = true
		r.buf.WriteByte(']')
		return nil
	}

	if r.next > 0 {
		r.buf.WriteByte(',')
	}
	id := r.next + 1
	b, err := json.Marshal(Record{
		ID:        id,
		Name:      "Item " + strconv.Itoa(id),
		Timestamp: r.now().UTC().Format(TimestampLayout),
		Data:      r.Filler,
	})
	if err != nil {
		return err
	}
	r.buf.Write(b)
	r.next++
	return nil
}

func (r *RecordReader) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
