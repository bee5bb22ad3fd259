package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"taskboard/internal/analytics"
	"taskboard/internal/config"
	"taskboard/internal/tasks"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:        5000,
		StoreDriver: config.DriverMemory,
		CORSOrigins: []string{"http://localhost:3000"},
		SeedSample:  true,
	}
}

func TestOpenStore_MemorySeeded(t *testing.T) {
	st, rec, closeFn, err := openStore(testConfig())
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeFn()

	if _, ok := rec.(analytics.LogRecorder); !ok {
		t.Errorf("expected LogRecorder, got %T", rec)
	}
	all, _ := st.List(t.Context())
	if len(all) != 3 {
		t.Errorf("expected 3 seeded tasks, got %d", len(all))
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"
	if _, _, _, err := openStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestHandler_ExportRouteWinsOverID(t *testing.T) {
	st := tasks.NewMemoryStore()
	st.Seed()
	h := newHandler(testConfig(), st, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/tasks/export?format=csv", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.HasPrefix(rr.Body.String(), "id,title,") {
		t.Errorf("expected csv body, got %q", rr.Body.String())
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	h := newHandler(testConfig(), tasks.NewMemoryStore(), nil)

	req := httptest.NewRequest("OPTIONS", "/api/tasks/1/toggle", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "PATCH" {
		t.Errorf("expected PATCH allowed, got %q", got)
	}
}

func TestHandler_DebugLogsRequests(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	log.SetFlags(0)
	defer log.SetFlags(log.LstdFlags)

	cfg := testConfig()
	cfg.Debug = true
	h := newHandler(cfg, tasks.NewMemoryStore(), nil)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/tasks/42", nil))

	if !strings.Contains(buf.String(), "GET /api/tasks/42 404") {
		t.Errorf("expected request log line, got %q", buf.String())
	}
}

func TestHandler_AppOpenedRoute(t *testing.T) {
	h := newHandler(testConfig(), tasks.NewMemoryStore(), nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/events/app_opened", strings.NewReader(`{"from":"tui"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}
