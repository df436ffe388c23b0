// Package upload хранит загруженные файлы на локальном диске. Каталог загрузок
// живёт до явной очистки; сроки хранения задаются только опциональным GC.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sir_venger/http_playground/internal/models"
)

// DiskStore складывает файлы в каталог Dir под их (очищенными) исходными именами.
type DiskStore struct {
	Dir         string
	MaxFileSize int64
}

// NewDiskStore создаёт каталог загрузок при необходимости.
func NewDiskStore(dir string, maxFileSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{Dir: dir, MaxFileSize: maxFileSize}, nil
}

// SanitizeName оставляет только базовое имя файла, чтобы запрос не вышел за пределы каталога.
func SanitizeName(name string) (string, bool) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := filepath.Base(name)
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", false
	}

	return base, true
}

// Save записывает поток r во временный файл и переименовывает его после успешной записи.
// При превышении MaxFileSize частичные данные удаляются и возвращается models.ErrTooLarge.
func (s *DiskStore) Save(ctx context.Context, field, name, mimeType string, r io.Reader) (models.UploadedFile, error) {
	stored, ok := SanitizeName(name)
	if !ok {
		return models.UploadedFile{}, fmt.Errorf("invalid file name %q", name)
	}

	tmp := filepath.Join(s.Dir, ".upload-"+uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return models.UploadedFile{}, err
	}

	// Читаем на байт больше лимита: так превышение видно без отдельного счётчика.
	limited := &io.LimitedReader{R: ctxReader{ctx: ctx, r: r}, N: s.MaxFileSize + 1}
	n, copyErr := io.Copy(f, limited)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(tmp)
		return models.UploadedFile{}, copyErr
	case closeErr != nil:
		_ = os.Remove(tmp)
		return models.UploadedFile{}, closeErr
	case n > s.MaxFileSize:
		_ = os.Remove(tmp)
		// Дочитываем остаток, чтобы следующая часть multipart была доступна.
		_, _ = io.Copy(io.Discard, r)
		return models.UploadedFile{}, fmt.Errorf("%s exceeds %d bytes: %w", stored, s.MaxFileSize, models.ErrTooLarge)
	}

	path := filepath.Join(s.Dir, stored)
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return models.UploadedFile{}, err
	}

	return models.UploadedFile{
		FieldName:    field,
		OriginalName: name,
		StoredName:   stored,
		Path:         path,
		Size:         n,
		MimeType:     mimeType,
	}, nil
}

// Stat возвращает описание сохранённого файла или models.ErrNotFound.
func (s *DiskStore) Stat(name string) (models.StoredFile, error) {
	stored, ok := SanitizeName(name)
	if !ok || strings.HasPrefix(stored, ".upload-") {
		return models.StoredFile{}, models.ErrNotFound
	}

	path := filepath.Join(s.Dir, stored)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.StoredFile{}, models.ErrNotFound
		}
		return models.StoredFile{}, err
	}
	if info.IsDir() {
		return models.StoredFile{}, models.ErrNotFound
	}

	return models.StoredFile{
		Name:       stored,
		Size:       info.Size(),
		Path:       path,
		MimeType:   MimeType(stored),
		UploadedAt: info.ModTime(),
	}, nil
}

// Open открывает сохранённый файл на чтение.
func (s *DiskStore) Open(name string) (*os.File, models.StoredFile, error) {
	sf, err := s.Stat(name)
	if err != nil {
		return nil, models.StoredFile{}, err
	}

	f, err := os.Open(sf.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.StoredFile{}, models.ErrNotFound
		}
		return nil, models.StoredFile{}, err
	}

	return f, sf, nil
}

// ctxReader прерывает чтение при отмене контекста запроса.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

