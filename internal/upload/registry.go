package upload

import (
	"sort"
	"sync"
	"time"

	"github.com/sir_venger/http_playground/internal/models"
)

// Registry хранит сведения о принятых загрузках только в оперативной памяти.
type Registry struct {
	mu    sync.RWMutex
	files map[string]models.StoredFile
	now   func() time.Time
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{files: map[string]models.StoredFile{}, now: time.Now}
}

// Add записывает (или перезаписывает) сведения о загрузке.
func (r *Registry) Add(u models.UploadedFile) models.StoredFile {
	sf := u.Stored(r.now().UTC())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[sf.Name] = sf
	return sf
}

// Get возвращает сведения о файле по имени или models.ErrNotFound.
func (r *Registry) Get(name string) (models.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sf, ok := r.files[name]
	if !ok {
		return models.StoredFile{}, models.ErrNotFound
	}
	return sf, nil
}

// Remove забывает о файле; используется GC.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, name)
}

// List возвращает копию содержимого, отсортированную по имени.
func (r *Registry) List() []models.StoredFile {
	r.mu.RLock()
	out := make([]models.StoredFile, 0, len(r.files))
	for _, sf := range r.files {
		out = append(out, sf)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
