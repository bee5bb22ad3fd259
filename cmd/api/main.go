package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"taskboard/internal/analytics"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/export"
	"taskboard/internal/tasks"
)

// ----------------------
//        MAIN
// ----------------------

func main() {
	cfg := config.Load()

	st, rec, closeFn, err := openStore(cfg)
	if err != nil {
		log.Fatal("❌ Failed to open store: ", err)
	}
	defer closeFn()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, st, rec),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 API server is running on %s (store=%s)", cfg.Addr(), cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("👋 API server stopped")
}

// openStore picks the task store and the event recorder from config.
func openStore(cfg *config.Config) (tasks.Store, analytics.Recorder, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		st := tasks.NewMemoryStore()
		if cfg.SeedSample {
			st.Seed()
		}
		return st, analytics.LogRecorder{}, func() {}, nil

	case config.DriverPostgres, config.DriverMySQL:
		database, err := db.Connect(cfg.StoreDriver, cfg.ConnString())
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("✅ Connected to %s!", cfg.StoreDriver)

		if err := db.Migrate(context.Background(), database, cfg.StoreDriver); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		closeFn := func() { closeDB(database) }
		return tasks.NewSQLStore(database, cfg.StoreDriver), analytics.NewSQLRecorder(database, cfg.StoreDriver), closeFn, nil
	}
	return nil, nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
}

func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		log.Printf("[WARN] close db: %v", err)
	}
}

func newHandler(cfg *config.Config, st tasks.Store, rec analytics.Recorder) http.Handler {
	mux := http.NewServeMux()

	// ----- TASKS API -----
	tasks.Register(mux, st, rec)
	mux.HandleFunc("GET /api/tasks/export", export.Handler(st))

	// ----- ANALYTICS -----
	mux.HandleFunc("POST /api/events/app_opened", analytics.AppOpenedHandler(rec))

	mux.HandleFunc("/", tasks.NotFoundHandler())

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Session-Id", "X-Platform", "X-App-Version"},
	})

	var handler http.Handler = c.Handler(mux)
	if cfg.Debug {
		handler = logRequests(handler)
	}
	return handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Microsecond))
	})
}
