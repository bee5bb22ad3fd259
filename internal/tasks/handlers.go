package tasks

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"taskboard/internal/analytics"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("invalid task id")

// Register mounts the task API on mux.
func Register(mux *http.ServeMux, st Store, rec analytics.Recorder) {
	mux.HandleFunc("GET /health", HealthHandler())

	mux.HandleFunc("GET /api/tasks", ListHandler(st))
	mux.HandleFunc("POST /api/tasks", CreateHandler(st, rec))
	mux.HandleFunc("GET /api/tasks/{id}", GetHandler(st))
	mux.HandleFunc("PUT /api/tasks/{id}", UpdateHandler(st, rec))
	mux.HandleFunc("DELETE /api/tasks/{id}", DeleteHandler(st, rec))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", ToggleHandler(st, rec))
}

// NotFoundHandler answers every unmatched route with a JSON 404.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

// -------------------------------
// helpers
// -------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store errors onto status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrTitleRequired):
		writeError(w, http.StatusBadRequest, ErrTitleRequired.Error())
	default:
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
