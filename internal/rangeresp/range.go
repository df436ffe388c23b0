// Package rangeresp отдаёт сохранённый файл целиком или одним непрерывным
// диапазоном байт. Поддерживается только одна пара start-end: у запроса
// с несколькими диапазонами учитывается первый.
package rangeresp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sir_venger/http_playground/internal/models"
)

const rangeUnitPrefix = "bytes="

// ParseRange разбирает значение заголовка Range вида "bytes=<start>-[<end>]" для файла размера size.
// Отсутствующий end означает конец файла, end за пределами файла обрезается до size-1.
func ParseRange(header string, size int64) (models.ByteRange, error) {
	rs, ok := strings.CutPrefix(strings.TrimSpace(header), rangeUnitPrefix)
	if !ok {
		return models.ByteRange{}, fmt.Errorf("unsupported range unit in %q: %w", header, models.ErrBadRange)
	}
	if first, _, multi := strings.Cut(rs, ","); multi {
		rs = first
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(rs), "-")
	if !ok {
		return models.ByteRange{}, fmt.Errorf("malformed range %q: %w", header, models.ErrBadRange)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return models.ByteRange{}, fmt.Errorf("invalid range start in %q: %w", header, models.ErrBadRange)
	}
	if start >= size {
		return models.ByteRange{}, fmt.Errorf("range start %d beyond size %d: %w", start, size, models.ErrBadRange)
	}

	end := size - 1
	if endStr = strings.TrimSpace(endStr); endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return models.ByteRange{}, fmt.Errorf("invalid range end in %q: %w", header, models.ErrBadRange)
		}
		if end < start {
			return models.ByteRange{}, fmt.Errorf("range end %d before start %d: %w", end, start, models.ErrBadRange)
		}
		end = min(end, size-1)
	}

	return models.ByteRange{Start: start, End: end}, nil
}
