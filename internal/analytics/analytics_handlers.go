package analytics

import (
	"encoding/json"
	"net/http"
	"strings"
)

// app_opened: a client session started
func AppOpenedHandler(rec Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ColdStart bool   `json:"cold_start"`
			From      string `json:"from"` // tui/web/deeplink/unknown
		}
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body)

		from := strings.ToLower(strings.TrimSpace(body.From))
		if from == "" {
			from = "unknown"
		}
		props := map[string]any{
			"cold_start": body.ColdStart,
			"from":       from,
		}

		Log(r.Context(), rec, r, "app_opened", props)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
