package models

import "time"

// StoredFile описывает загруженный файл, лежащий в каталоге загрузок.
type StoredFile struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Path       string    `json:"path"`
	MimeType   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadedFile: результат приёма одной части multipart-запроса с файлом.
type UploadedFile struct {
	FieldName    string `json:"fieldName"`
	OriginalName string `json:"originalname"`
	StoredName   string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	Encoding     string `json:"encoding,omitempty"`
}

// Stored возвращает описание файла в том виде, в котором его видит responder.
func (u UploadedFile) Stored(at time.Time) StoredFile {
	return StoredFile{
		Name:       u.StoredName,
		Size:       u.Size,
		Path:       u.Path,
		MimeType:   u.MimeType,
		UploadedAt: at,
	}
}
