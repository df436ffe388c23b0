package playhttp

import (
	"net/http"
	"strings"

	"github.com/sir_venger/http_playground/internal/models"
	"github.com/sir_venger/http_playground/internal/reqparse"
	"github.com/sir_venger/http_playground/pkg/httperrors"
)

type (
	uploadedFileResp struct {
		OriginalName string `json:"originalname"`
		Filename     string `json:"filename"`
		Size         int64  `json:"size"`
		MimeType     string `json:"mimetype"`
		Path         string `json:"path,omitempty"`
	}

	uploadSingleResp struct {
		Message   string           `json:"message"`
		Method    string           `json:"method"`
		File      uploadedFileResp `json:"file"`
		Timestamp string           `json:"timestamp"`
	}

	uploadMultipleResp struct {
		Message   string              `json:"message"`
		Method    string              `json:"method"`
		Files     []uploadedFileResp  `json:"files"`
		Rejected  []reqparse.Rejected `json:"rejected,omitempty"`
		Count     int                 `json:"count"`
		Timestamp string              `json:"timestamp"`
	}
)

// uploadSingle отвечает сведениями о первом принятом файле.
func (s *Server) uploadSingle(w http.ResponseWriter, r *http.Request) {
	p := reqparse.FromContext(r.Context())
	if len(p.Files) == 0 {
		httperrors.Write(w, noFilesError(p, "No file uploaded", "Please provide a file"))
		return
	}

	f := p.Files[0]
	resp := uploadedFile(f)
	resp.Path = f.Path
	writeJSON(w, http.StatusOK, uploadSingleResp{
		Message:   "File uploaded successfully!",
		Method:    http.MethodPost,
		File:      resp,
		Timestamp: s.timestamp(),
	})
}

// uploadMultiple отвечает сведениями обо всех принятых файлах; отклонённые перечисляются отдельно.
func (s *Server) uploadMultiple(w http.ResponseWriter, r *http.Request) {
	p := reqparse.FromContext(r.Context())
	if len(p.Files) == 0 {
		httperrors.Write(w, noFilesError(p, "No files uploaded", "Please provide files"))
		return
	}

	files := make([]uploadedFileResp, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, uploadedFile(f))
	}

	writeJSON(w, http.StatusOK, uploadMultipleResp{
		Message:   "Files uploaded successfully!",
		Method:    http.MethodPost,
		Files:     files,
		Rejected:  p.Rejected,
		Count:     len(files),
		Timestamp: s.timestamp(),
	})
}

// noFilesError различает «файлов нет» (400) и «все файлы отклонены по размеру» (413).
func noFilesError(p *reqparse.Parsed, title, message string) error {
	if len(p.Rejected) > 0 {
		reasons := make([]string, 0, len(p.Rejected))
		for _, rj := range p.Rejected {
			reasons = append(reasons, rj.Reason)
		}
		return httperrors.New(models.ErrTooLarge, "", "%s", strings.Join(reasons, "; "))
	}
	return httperrors.New(models.ErrNoFile, title, "%s", message)
}

func uploadedFile(f models.UploadedFile) uploadedFileResp {
	return uploadedFileResp{
		OriginalName: f.OriginalName,
		Filename:     f.StoredName,
		Size:         f.Size,
		MimeType:     f.MimeType,
	}
}
