package playclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

// progress считает принятые байты и не чаще раза в progressRenderPeriod
// перерисовывает строку индикатора в out. Подключается вторым концом io.TeeReader.
type progress struct {
	out   io.Writer
	label string
	// start: объём, который уже был у клиента до докачки.
	start int64
	total int64

	mu     sync.Mutex
	done   int64
	began  time.Time
	drawn  time.Time
	width  int
	closed bool
}

func newProgress(out io.Writer, label string, start, total int64) *progress {
	return &progress{out: out, label: label, start: start, total: total, began: time.Now()}
}

func (p *progress) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return len(b), nil
	}

	p.done += int64(len(b))
	if now := time.Now(); now.Sub(p.drawn) >= progressRenderPeriod {
		p.drawLocked(now, "", false)
	}
	return len(b), nil
}

// finish печатает итоговую строку с отметкой об успехе или текстом ошибки.
func (p *progress) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	mark := " ✓"
	if err != nil {
		mark = " ✗ " + err.Error()
	}
	p.drawLocked(time.Now(), mark, true)
}

// drawLocked затирает пробелами хвост предыдущей, более длинной строки.
func (p *progress) drawLocked(now time.Time, mark string, last bool) {
	line := p.status(now) + mark
	pad := ""
	if p.width > len(line) {
		pad = strings.Repeat(" ", p.width-len(line))
	}
	p.width = len(line)
	p.drawn = now

	end := ""
	if last {
		end = "\n"
	}
	fmt.Fprintf(p.out, "\r%s%s%s", line, pad, end)
}

func (p *progress) status(now time.Time) string {
	have := p.start + p.done

	var b strings.Builder
	b.WriteString(p.label)
	if p.total > 0 {
		ratio := min(float64(have)/float64(p.total), 1)
		filled := int(ratio*progressBarWidth + 0.5)
		fmt.Fprintf(&b, " [%s%s] %3.0f%% %s/%s",
			strings.Repeat("=", filled), strings.Repeat(" ", progressBarWidth-filled),
			ratio*100, humanBytes(have), humanBytes(p.total))
	} else {
		fmt.Fprintf(&b, " %s transferred", humanBytes(have))
	}

	// Скорость считается только по байтам этой сессии.
	if secs := now.Sub(p.began).Seconds(); secs > 0 {
		fmt.Fprintf(&b, " %s/s", humanBytes(int64(float64(p.done)/secs)))
	}
	return b.String()
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}

	div, exp := int64(unit), 0
	for n := v / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(v)/float64(div), "KMGTP"[exp])
}
