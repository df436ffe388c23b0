package playhttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/http_playground/internal/reqparse"
)

// multipartFileInfo: краткое описание файла в ответе /post-multipart.
type multipartFileInfo struct {
	FieldName    string `json:"fieldName"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
}

// echoForm отвечает полями urlencoded- или multipart-формы.
func (s *Server) echoForm(w http.ResponseWriter, r *http.Request) {
	writeText(w, "Form data: "+mustJSON(bodyValue(reqparse.FromContext(r.Context()))))
}

// echoMultipart отвечает полями и кратким списком файлов multipart-запроса.
func (s *Server) echoMultipart(w http.ResponseWriter, r *http.Request) {
	p := reqparse.FromContext(r.Context())

	files := make([]multipartFileInfo, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, multipartFileInfo{
			FieldName:    f.FieldName,
			OriginalName: f.OriginalName,
			Size:         f.Size,
		})
	}

	writeText(w, "Multipart data: "+p.FieldsString()+" "+mustJSON(files))
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
