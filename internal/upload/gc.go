package upload

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StartGC стартует периодическую очистку каталога загрузок.
// При ttl или every <= 0 очистка выключена и возвращается no-op.
func StartGC(root string, ttl, every time.Duration, onRemove func(name string), log *slog.Logger) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				removed, err := SweepOnce(root, ttl, onRemove)
				if err != nil {
					log.Warn("uploads gc failed", "dir", root, "error", err)
					continue
				}
				if removed > 0 {
					log.Info("uploads gc", "dir", root, "removed", removed)
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// SweepOnce удаляет файлы, которые не менялись дольше ttl, и возвращает их количество.
func SweepOnce(root string, ttl time.Duration, onRemove func(name string)) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	now := time.Now()
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < ttl {
			continue
		}

		if err := os.Remove(filepath.Join(root, e.Name())); err != nil {
			continue
		}
		removed++
		if onRemove != nil {
			onRemove(e.Name())
		}
	}

	return removed, nil
}

// Usage суммирует размер всех файлов каталога для /health.
func Usage(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()

		return nil
	})

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	return total, nil
}
