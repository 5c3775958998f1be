// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chordex/config"
	"github.com/jsphweid/chordex/db"
	"github.com/jsphweid/chordex/logger"
	"github.com/rs/cors"
)

const (
	shutdownTimeout = 10 * time.Second
	sentryTimeout   = 2 * time.Second
	// analysis payloads for a long song stay well under this
	maxBodyBytes = 8 << 20
)

type Server struct {
	cfg    *config.Config
	export config.ExportConfig
	store  db.Store
	router *mux.Router
}

// New wires the routes. store may be nil, in which case chord lookups are
// computed instead of read from the catalog.
func New(cfg *config.Config, exportDefaults config.ExportConfig, store db.Store) *Server {
	s := &Server{cfg: cfg, export: exportDefaults, store: store}

	router := mux.NewRouter().StrictSlash(true).UseEncodedPath()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/transpose", s.handleTranspose).Methods(http.MethodPost)
	router.HandleFunc("/localize", s.handleLocalize).Methods(http.MethodPost)
	router.HandleFunc("/export/midi", s.handleExportMidi).Methods(http.MethodPost)
	router.HandleFunc("/export/pdf", s.handleExportPdf).Methods(http.MethodPost)
	router.HandleFunc("/chords/{name}", s.handleChord).Methods(http.MethodGet)
	router.Use(requestTracking)
	s.router = router
	return s
}

// Handler is the router behind CORS and Sentry panic capture.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID", "X-Export-Summary"},
		AllowCredentials: false,
	})
	sentryHandler := sentryhttp.New(sentryhttp.Options{
		Repanic: false,
		Timeout: sentryTimeout,
	})
	return c.Handler(sentryHandler.Handle(s.router))
}

// ListenAndServe runs until ctx is cancelled and then shuts down cleanly.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", logger.Fields{"port": s.cfg.Port})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestTracking tags each request with an id and logs its outcome.
func requestTracking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := logger.WithRequest(r)
		fields["status_code"] = rec.status
		fields["duration_ms"] = time.Since(start).Milliseconds()
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Error("Request failed with server error", errors.New(http.StatusText(rec.status)), fields)
		case rec.status >= http.StatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}
	})
}
