package tasks

import (
	"net/http"
	"time"

	"taskboard/internal/analytics"
)

type listResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func ListHandler(st Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := st.List(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		if all == nil {
			all = []Task{}
		}
		writeJSON(w, http.StatusOK, listResponse{Tasks: all, Total: len(all)})
	}
}

func GetHandler(st Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		t, err := st.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func CreateHandler(st Store, rec analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Completed   bool   `json:"completed"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		t, err := st.Create(r.Context(), NewTask{
			Title:       body.Title,
			Description: body.Description,
			Completed:   body.Completed,
		})
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		// analytics: task_created (no raw text)
		analytics.Log(r.Context(), rec, r, "task_created", map[string]any{
			"task_id":   t.ID,
			"title_len": len(t.Title),
			"desc_len":  len(t.Description),
			"completed": t.Completed,
		})

		writeJSON(w, http.StatusCreated, t)
	}
}

func UpdateHandler(st Store, rec analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Completed   *bool   `json:"completed"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		prev, err := st.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		p := Patch{Title: body.Title, Description: body.Description, Completed: body.Completed}
		if p.Empty() {
			writeError(w, http.StatusBadRequest, "no data provided")
			return
		}

		t, err := st.Update(r.Context(), id, p)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		// analytics: task_updated
		analytics.Log(r.Context(), rec, r, "task_updated", map[string]any{
			"task_id": t.ID,
			"changed": map[string]any{
				"title":       prev.Title != t.Title,
				"description": prev.Description != t.Description,
				"completed":   prev.Completed != t.Completed,
			},
		})
		if prev.Completed != t.Completed {
			logCompletion(r, rec, t)
		}

		writeJSON(w, http.StatusOK, t)
	}
}

func DeleteHandler(st Store, rec analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := st.Delete(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}

		analytics.Log(r.Context(), rec, r, "task_deleted", map[string]any{"task_id": id})

		w.WriteHeader(http.StatusNoContent)
	}
}

func ToggleHandler(st Store, rec analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		t, err := st.Toggle(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		logCompletion(r, rec, t)

		writeJSON(w, http.StatusOK, t)
	}
}

// logCompletion emits task_completed / task_uncompleted for the new state of t.
func logCompletion(r *http.Request, rec analytics.Recorder, t Task) {
	name := "task_uncompleted"
	if t.Completed {
		name = "task_completed"
	}
	analytics.Log(r.Context(), rec, r, name, map[string]any{
		"task_id":                t.ID,
		"time_since_created_sec": int(time.Since(t.CreatedAt).Seconds()),
	})
}
