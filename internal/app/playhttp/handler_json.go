package playhttp

import (
	"net/http"

	"github.com/sir_venger/http_playground/internal/reqparse"
)

type (
	item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	getJSONResp struct {
		Message   string `json:"message"`
		Method    string `json:"method"`
		Timestamp string `json:"timestamp"`
		Data      item   `json:"data"`
	}

	postJSONResp struct {
		Message      string `json:"message"`
		Method       string `json:"method"`
		ReceivedData any    `json:"receivedData"`
		Timestamp    string `json:"timestamp"`
		Status       string `json:"status"`
	}

	putJSONResp struct {
		Message     string `json:"message"`
		Method      string `json:"method"`
		UpdatedData any    `json:"updatedData"`
		Timestamp   string `json:"timestamp"`
		ID          int    `json:"id"`
	}

	deleteJSONResp struct {
		Message   string `json:"message"`
		Method    string `json:"method"`
		Timestamp string `json:"timestamp"`
		DeletedID int    `json:"deletedId"`
		Status    string `json:"status"`
	}
)

// defaultItemID: у маршрутов нет параметра id, поэтому эхо всегда отвечает про элемент 1.
const defaultItemID = 1

func (s *Server) getJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, getJSONResp{
		Message:   "Hello from GET!",
		Method:    http.MethodGet,
		Timestamp: s.timestamp(),
		Data:      item{ID: 1, Name: "Test Item"},
	})
}

func (s *Server) postJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, postJSONResp{
		Message:      "Data received successfully!",
		Method:       http.MethodPost,
		ReceivedData: bodyValue(reqparse.FromContext(r.Context())),
		Timestamp:    s.timestamp(),
		Status:       "success",
	})
}

func (s *Server) putJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, putJSONResp{
		Message:     "Data updated successfully!",
		Method:      http.MethodPut,
		UpdatedData: bodyValue(reqparse.FromContext(r.Context())),
		Timestamp:   s.timestamp(),
		ID:          defaultItemID,
	})
}

func (s *Server) deleteJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, deleteJSONResp{
		Message:   "Item deleted successfully!",
		Method:    http.MethodDelete,
		Timestamp: s.timestamp(),
		DeletedID: defaultItemID,
		Status:    "deleted",
	})
}

// bodyValue возвращает разобранное тело в том виде, в каком его нужно вернуть эхом.
func bodyValue(p *reqparse.Parsed) any {
	switch p.Kind {
	case reqparse.KindJSON:
		if p.JSON == nil {
			return map[string]any{}
		}
		return p.JSON
	case reqparse.KindText:
		return p.Text
	default:
		return p.Fields
	}
}
