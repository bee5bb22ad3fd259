package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskboard/internal/tasks"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

type Lister interface {
	List(ctx context.Context) ([]tasks.Task, error)
}

type Exporter struct{ st Lister }

func NewExporter(st Lister) *Exporter { return &Exporter{st: st} }

// Export renders all tasks as json, csv or pdf and returns the content type with the bytes.
func (e *Exporter) Export(ctx context.Context, format string) ([]byte, string, error) {
	all, err := e.st.List(ctx)
	if err != nil {
		return nil, "", err
	}
	switch strings.ToLower(format) {
	case "", "json":
		if all == nil {
			all = []tasks.Task{}
		}
		b, err := json.MarshalIndent(all, "", "  ")
		return b, "application/json", err
	case "csv":
		b, err := toCSV(all)
		return b, "text/csv", err
	case "pdf":
		b, err := toPDF(all)
		return b, "application/pdf", err
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func toCSV(all []tasks.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "description", "completed", "created_at"})
	for _, t := range all {
		_ = w.Write([]string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Description,
			strconv.FormatBool(t.Completed),
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func toPDF(all []tasks.Task) ([]byte, error) {
	done := 0
	for _, t := range all {
		if t.Completed {
			done++
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, fmt.Sprintf("%d tasks, %d done, %d pending", len(all), done, len(all)-done))
	pdf.Ln(10)
	for _, t := range all {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s", mark, t.ID, t.Title)
		if t.Description != "" {
			line += " - " + t.Description
		}
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Handler serves GET /api/tasks/export?format=json|csv|pdf.
func Handler(st Lister) http.HandlerFunc {
	ex := NewExporter(st)
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		b, contentType, err := ex.Export(r.Context(), format)
		if errors.Is(err, ErrUnsupportedFormat) {
			writeErr(w, http.StatusBadRequest, ErrUnsupportedFormat.Error())
			return
		}
		if err != nil {
			log.Printf("[ERROR] export %s: %v", format, err)
			writeErr(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", contentType)
		if format == "csv" || format == "pdf" {
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
		}
		_, _ = w.Write(b)
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
