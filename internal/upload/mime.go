package upload

import (
	"path/filepath"
	"strings"
)

const defaultMimeType = "application/octet-stream"

// mimeTypes: фиксированная таблица для /view-file; всё остальное отдаётся как octet-stream.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".json": "application/json",
}

// MimeType определяет Content-Type по расширению имени файла.
func MimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return defaultMimeType
}
