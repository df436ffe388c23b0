package playhttp

import (
	"net/http"

	"github.com/sir_venger/http_playground/internal/reqparse"
)

func (s *Server) getText(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "Hello from GET!")
}

// echoText возвращает присланный text/plain для POST и PUT.
func (s *Server) echoText(w http.ResponseWriter, r *http.Request) {
	writeText(w, "You sent plain text: "+reqparse.FromContext(r.Context()).Text)
}

func (s *Server) deleteText(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "Hello from DELETE!")
}
