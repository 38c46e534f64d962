package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tgienger/taskflow/internal/db"
)

// errBadRequest marks input the client must fix
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, msg string, statusCode int) {
	writeJSON(w, map[string]string{"error": msg}, statusCode)
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, db.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	default:
		s.log.WithError(err).WithField("request_id", RequestID(r.Context())).Error("request failed")
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
