// Package server hosts the lab console: the prerendered page, the wasm bundle, the
// console configuration and a reverse proxy to the lab backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/in4labs/robotics-console/internal/config"
	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
)

// Options configures the UI HTTP server.
type Options struct {
	Listen string
	// Prefix is the path the lab is mounted under, e.g. /server/lab.
	Prefix string
	Config config.Config
	Logger logging.Logger
	// Now overrides the wall clock used for deadline checks.
	Now func() time.Time
	// Backend replaces the reverse proxy, for tests.
	Backend http.Handler
}

type server struct {
	assetsDir string
	console   model.ConsoleConfig
	deadline  time.Time
	messages  messages.Table
	logger    logging.Logger
	now       func() time.Time
	backend   http.Handler
}

// NewHandler builds the console handler tree without listening.
func NewHandler(opts Options) (http.Handler, error) {
	assetsPath, err := filepath.Abs(opts.Config.App.Assets)
	if err != nil {
		return nil, fmt.Errorf("resolve assets dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	table := loadMessages(opts.Config.App.Messages, opts.Config.App.Language, logger)

	backend := opts.Backend
	if backend == nil {
		target, err := url.Parse(opts.Config.Lab.BackendURL)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid lab backend url %q", opts.Config.Lab.BackendURL)
		}
		backend = labProxy(target, logger)
	}

	console := opts.Config.Console()
	srv := &server{
		assetsDir: assetsPath,
		console:   console,
		deadline:  console.EndTime,
		messages:  table,
		logger:    logger,
		now:       now,
		backend:   backend,
	}

	mime.AddExtensionType(".wasm", "application/wasm")

	r := mux.NewRouter()
	r.HandleFunc("/", srv.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/index", srv.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", srv.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/console/config", srv.handleConsoleConfig).Methods(http.MethodGet)
	r.HandleFunc("/console/messages", srv.handleMessages).Methods(http.MethodGet)
	for _, route := range labRoutes {
		r.Handle("/"+string(route.action), srv.labHandler(route))
	}
	r.PathPrefix("/").Handler(srv.staticHandler())

	var handler http.Handler = r
	if prefix := strings.TrimRight(opts.Prefix, "/"); prefix != "" {
		handler = withPrefix(prefix, r)
	}
	return logging.WithHTTPLogging(handler, logger), nil
}

// Run starts the UI HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	handler, err := NewHandler(opts)
	if err != nil {
		return err
	}
	if opts.Listen == "" {
		opts.Listen = opts.Config.Server.Listen()
	}

	server := &http.Server{
		Addr:              opts.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Printf("Serving lab console on http://%s (backend %s)", opts.Listen, opts.Config.Lab.BackendURL)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func withPrefix(prefix string, next http.Handler) http.Handler {
	stripped := http.StripPrefix(prefix, next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == prefix {
			http.Redirect(w, r, prefix+"/", http.StatusMovedPermanently)
			return
		}
		if !strings.HasPrefix(r.URL.Path, prefix+"/") {
			http.NotFound(w, r)
			return
		}
		stripped.ServeHTTP(w, r)
	})
}

func loadMessages(dir, language string, logger logging.Logger) messages.Table {
	if dir == "" || language == "" || language == "en" {
		return messages.English()
	}
	path := filepath.Join(dir, "messages_"+language+".yaml")
	table, err := messages.Load(path)
	if err != nil {
		logger.Printf("messages for %q unavailable, using English: %v", language, err)
		return messages.English()
	}
	if missing := table.Missing(); len(missing) > 0 {
		logger.Printf("messages_%s.yaml is missing %v", language, missing)
	}
	return table
}
