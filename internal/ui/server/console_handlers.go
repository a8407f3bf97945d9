package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/in4labs/robotics-console/internal/ui/htmlview"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.assetsDir, "index.html"))
	if err != nil {
		s.logger.Printf("read console page: %v", err)
		http.Error(w, "console page unavailable", http.StatusInternalServerError)
		return
	}

	boards := make([]string, 0, len(s.console.Boards))
	for _, b := range s.console.Boards {
		boards = append(boards, b.ID)
	}
	sess := session.New(boards...)
	if s.expired() {
		sess.Expire()
	}

	out, err := htmlview.Render(page, htmlview.Page{
		Console:  s.console,
		States:   sess.States(),
		Messages: s.messages,
		Now:      s.now(),
	})
	if err != nil {
		s.logger.Printf("render console page: %v", err)
		http.Error(w, "console page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

func (s *server) handleConsoleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console)
}

func (s *server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.messages)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"expired": s.expired(),
	})
}

func (s *server) staticHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(s.assetsDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		if strings.HasSuffix(r.URL.Path, "/index.html") {
			s.handleIndex(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
