package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/db"
)

// Envelope is what we store with every event.
type Envelope struct {
	SessionID  string
	Platform   string
	AppVersion string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "web", "tui", "ios", "android":
	default:
		platform = "unknown"
	}

	return Envelope{
		SessionID:  strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:   platform,
		AppVersion: strings.TrimSpace(r.Header.Get("X-App-Version")),
	}
}

type Event struct {
	Name     string
	Time     time.Time
	Envelope Envelope
	// Props must not carry raw task text, only ids, flags and lengths.
	Props map[string]any
}

type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Log records one event and never breaks the caller's flow.
func Log(ctx context.Context, rec Recorder, r *http.Request, name string, props map[string]any) {
	if rec == nil || name == "" {
		return
	}
	ev := Event{
		Name:     name,
		Time:     time.Now().UTC(),
		Envelope: FromRequest(r),
		Props:    props,
	}
	if err := rec.Record(ctx, ev); err != nil {
		log.Printf("[WARN] analytics: record %s failed: %v", name, err)
	}
}

// LogRecorder writes events to the process log.
type LogRecorder struct {
	Logger *log.Logger
}

func (l LogRecorder) Record(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev.Props)
	if err != nil {
		return err
	}
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[EVENT] %s platform=%s session=%s props=%s",
		ev.Name, ev.Envelope.Platform, ev.Envelope.SessionID, b)
	return nil
}

// SQLRecorder inserts events into task_events.
type SQLRecorder struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRecorder(dbx *sql.DB, driver string) *SQLRecorder {
	return &SQLRecorder{DB: dbx, Driver: driver}
}

func (s *SQLRecorder) Record(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev.Props)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, db.Rebind(s.Driver, `
		INSERT INTO task_events (
			event_name, event_time,
			session_id, platform, app_version,
			properties
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`), ev.Name, ev.Time,
		nullIfEmpty(ev.Envelope.SessionID), ev.Envelope.Platform, ev.Envelope.AppVersion,
		string(b),
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
