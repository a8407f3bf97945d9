package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
)

type labRoute struct {
	action model.Action
	method string
}

var labRoutes = []labRoute{
	{model.ActionExample, http.MethodGet},
	{model.ActionCompile, http.MethodPost},
	{model.ActionExecute, http.MethodPost},
	{model.ActionMonitor, http.MethodGet},
	{model.ActionSuggest, http.MethodPost},
	{model.ActionReset, http.MethodGet},
}

func labProxy(target *url.URL, logger logging.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Printf("lab backend %s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "lab backend unavailable", http.StatusBadGateway)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Host = target.Host
		proxy.ServeHTTP(w, r)
	})
}

// labHandler forwards one lab action to the backend. Actions are rejected once the
// session is over so a stale tab cannot keep driving the hardware.
func (s *server) labHandler(route labRoute) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != route.method {
			w.Header().Set("Allow", route.method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.expired() {
			http.Error(w, s.messages.Get(messages.SessionExpired), http.StatusForbidden)
			return
		}
		s.backend.ServeHTTP(w, r)
	})
}

func (s *server) expired() bool {
	return !s.now().Before(s.deadline)
}
