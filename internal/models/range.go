package models

import "fmt"

// ByteRange: включительный диапазон байт [Start, End].
type ByteRange struct {
	Start int64
	End   int64
}

// Length возвращает количество байт в диапазоне.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange форматирует значение заголовка Content-Range.
func (r ByteRange) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}
