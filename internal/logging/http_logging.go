package logging

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxLoggedResponseBody = 4096

// RequestIDHeader carries the correlation id between the front-ends, the UI server
// and the lab backend.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// NewRequestID returns a fresh upper-case correlation id.
func NewRequestID() string {
	return strings.ToUpper(uuid.New().String())
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID or WithHTTPLogging.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// WithHTTPLogging wraps next so every request/response pair is logged as one
// envelope. Incoming X-Request-ID values are kept; otherwise a new id is minted.
func WithHTTPLogging(next http.Handler, logger Logger) http.Handler {
	if logger == nil || next == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = NewRequestID()
			r.Header.Set(RequestIDHeader, requestID)
		}
		start := time.Now()
		request := logEvent{
			Time:      start.UTC().Format(time.RFC3339Nano),
			ID:        requestID,
			Category:  CategoryHTTP,
			Direction: "request",
			Message:   fmt.Sprintf("Incoming request from %s", r.RemoteAddr),
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Remote:    r.RemoteAddr,
		}

		r = r.WithContext(WithRequestID(r.Context(), requestID))
		w.Header().Set(RequestIDHeader, requestID)

		lrw := newLoggingResponseWriter(w)
		defer func() {
			status := lrw.StatusCode()
			response := logEvent{
				Time:      time.Now().UTC().Format(time.RFC3339Nano),
				ID:        requestID,
				Category:  CategoryHTTP,
				Direction: "response",
				Message:   fmt.Sprintf("Response for %s %s (%d %s)", r.Method, r.URL.Path, status, http.StatusText(status)),
				Raw:       encodeLogRaw(lrw.LoggedBody(r)),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    status,
				Remote:    r.RemoteAddr,
				Response:  lrw.BytesWritten(),
				Duration:  time.Since(start).Milliseconds(),
			}
			emitLogEvents(logger, request, response)
		}()

		next.ServeHTTP(lrw, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status       int
	buf          bytes.Buffer
	truncated    bool
	binary       bool
	bytesWritten int64
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	if lrw.bytesWritten == 0 {
		ct := lrw.Header().Get("Content-Type")
		lrw.binary = strings.HasPrefix(ct, "application/wasm") || strings.HasPrefix(ct, "text/html") ||
			strings.HasPrefix(ct, "application/javascript") || strings.HasPrefix(ct, "text/javascript")
	}
	if !lrw.binary {
		if remaining := maxLoggedResponseBody - lrw.buf.Len(); remaining > 0 {
			if len(b) > remaining {
				lrw.buf.Write(b[:remaining])
				lrw.truncated = true
			} else {
				lrw.buf.Write(b)
			}
		} else {
			lrw.truncated = true
		}
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func (lrw *loggingResponseWriter) StatusCode() int {
	if lrw.status == 0 {
		return http.StatusOK
	}
	return lrw.status
}

// LoggedBody returns the captured body; pages and bundles are replaced by a reference.
func (lrw *loggingResponseWriter) LoggedBody(r *http.Request) string {
	if lrw.binary {
		return fmt.Sprintf("-- %d bytes of %s omitted (%s) --", lrw.bytesWritten, lrw.Header().Get("Content-Type"), r.URL.Path)
	}
	body := lrw.buf.String()
	if lrw.truncated {
		return fmt.Sprintf("%s\n-- response truncated after %d bytes --", body, maxLoggedResponseBody)
	}
	return body
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (lrw *loggingResponseWriter) BytesWritten() int64 {
	return lrw.bytesWritten
}
