package httperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sir_venger/http_playground/internal/models"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		title   string
		message string
	}{
		{
			name:    "not found with message",
			err:     New(models.ErrNotFound, "", "File %s does not exist", "a.txt"),
			status:  http.StatusNotFound,
			title:   "File not found",
			message: "File a.txt does not exist",
		},
		{
			name:    "bad upload with custom title",
			err:     New(models.ErrNoFile, "No files uploaded", "Please provide files"),
			status:  http.StatusBadRequest,
			title:   "No files uploaded",
			message: "Please provide files",
		},
		{
			name:    "wrapped too large",
			err:     fmt.Errorf("a.bin: %w", models.ErrTooLarge),
			status:  http.StatusRequestEntityTooLarge,
			title:   "File too large",
			message: "a.bin: file too large",
		},
		{
			name:   "bad range",
			err:    models.ErrBadRange,
			status: http.StatusRequestedRangeNotSatisfiable,
			title:  "Range not satisfiable",
		},
		{
			name:   "unknown profile",
			err:    models.ErrUnknownProfile,
			status: http.StatusNotFound,
			title:  "Not Found",
		},
		{
			name:   "internal error hides details",
			err:    errors.New("disk exploded"),
			status: http.StatusInternalServerError,
			title:  "Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Write(w, tt.err)
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d", w.Code, tt.status)
			}
			var body Body
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.title {
				t.Fatalf("error %q, want %q", body.Error, tt.title)
			}
			if tt.message != "" && body.Message != tt.message {
				t.Fatalf("message %q, want %q", body.Message, tt.message)
			}
			if tt.status == http.StatusInternalServerError && body.Message != "" {
				t.Fatalf("internal details leaked: %q", body.Message)
			}
		})
	}
}
