package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

type captureLogger struct {
	entries []string
}

func (c *captureLogger) Printf(format string, args ...any) {
	c.entries = append(c.entries, fmt.Sprintf(format, args...))
}

func decodePayload(t *testing.T, raw string) logPayload {
	t.Helper()
	var payload logPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		t.Fatalf("unmarshal log payload: %v (raw %q)", err, raw)
	}
	return payload
}

func TestNewWithWriterOutputsJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)
	logger.Printf("hello %s", "world")

	payload := decodePayload(t, buf.String())
	if len(payload.LogEvents) != 1 {
		t.Fatalf("expected one log event, got %d", len(payload.LogEvents))
	}
	ev := payload.LogEvents[0]
	if ev.Message != "hello world" {
		t.Fatalf("expected message to be formatted, got %q", ev.Message)
	}
	if ev.Category != CategoryGeneral {
		t.Fatalf("expected general category, got %q", ev.Category)
	}
	if !strings.HasPrefix(ev.Source, "logger_test.go:") {
		t.Fatalf("expected caller location from this file, got %q", ev.Source)
	}
}

func TestSetDefaultWriterAffectsNew(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultWriter(&buf)
	t.Cleanup(func() { SetDefaultWriter(os.Stdout) })
	New().Printf("captured")
	if !strings.Contains(buf.String(), "captured") {
		t.Fatalf("expected log output to be written to buffer, got %q", buf.String())
	}
}

func TestAsStdLoggerNilSafe(t *testing.T) {
	if got := AsStdLogger(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := AsStdLogger(&captureLogger{}); got != nil {
		t.Fatalf("expected nil for loggers without a std logger")
	}
	var l *stdLogger
	l.Printf("ignored")
}

func TestLogActionUsesActionCategory(t *testing.T) {
	logger := &captureLogger{}
	LogAction(logger, ActionEvent{
		RequestID: "REQ-1",
		Board:     "Board_1",
		Action:    "compile",
		Outcome:   "ok",
		Duration:  1500 * time.Millisecond,
	})
	if len(logger.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(logger.entries))
	}
	ev := decodePayload(t, logger.entries[0]).LogEvents[0]
	if ev.Category != CategoryAction || ev.Board != "Board_1" || ev.Action != "compile" {
		t.Fatalf("unexpected action event %+v", ev)
	}
	if ev.Duration != 1500 || ev.ID != "REQ-1" {
		t.Fatalf("expected duration and id to be kept, got %+v", ev)
	}
	if ev.Message != "compile ok on Board_1" {
		t.Fatalf("unexpected default message %q", ev.Message)
	}
}

func TestWithHTTPLoggingWrapsHandler(t *testing.T) {
	logger := &captureLogger{}
	var seenID string
	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"board":"Board_1"}`))
	})
	handler := WithHTTPLogging(base, logger)

	req := httptest.NewRequest(http.MethodPost, "/compile", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if seenID == "" || rr.Header().Get(RequestIDHeader) != seenID {
		t.Fatalf("expected request id in context and response header, got %q / %q", seenID, rr.Header().Get(RequestIDHeader))
	}
	if len(logger.entries) != 1 {
		t.Fatalf("expected single combined log entry, got %d", len(logger.entries))
	}
	payload := decodePayload(t, logger.entries[0])
	if len(payload.LogEvents) != 2 {
		t.Fatalf("expected request and response entries, got %d", len(payload.LogEvents))
	}
	if payload.LogEvents[0].Direction != "request" || payload.LogEvents[1].Direction != "response" {
		t.Fatalf("unexpected directions %+v", payload.LogEvents)
	}
	if !json.Valid(payload.LogEvents[1].Raw) {
		t.Fatalf("expected JSON body to be embedded raw, got %q", payload.LogEvents[1].Raw)
	}
}

func TestWithHTTPLoggingKeepsIncomingRequestID(t *testing.T) {
	logger := &captureLogger{}
	var seenID string
	handler := WithHTTPLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
	}), logger)

	req := httptest.NewRequest(http.MethodGet, "/monitor", nil)
	req.Header.Set(RequestIDHeader, "FROM-CLIENT")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seenID != "FROM-CLIENT" {
		t.Fatalf("expected client id to be kept, got %q", seenID)
	}
}

func TestWithHTTPLoggingOmitsBundles(t *testing.T) {
	logger := &captureLogger{}
	handler := WithHTTPLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/wasm")
		_, _ = w.Write([]byte("\x00asm\x01\x00\x00\x00"))
	}), logger)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/main.wasm", nil))

	payload := decodePayload(t, logger.entries[0])
	var raw string
	if err := json.Unmarshal(payload.LogEvents[1].Raw, &raw); err != nil {
		t.Fatalf("expected string raw, got %v", err)
	}
	if !strings.Contains(raw, "omitted") || !strings.Contains(raw, "/main.wasm") {
		t.Fatalf("expected bundle body to be omitted, got %q", raw)
	}
}

func TestWithHTTPLoggingNilLoggerReturnsOriginal(t *testing.T) {
	base := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	if got := WithHTTPLogging(base, nil); fmt.Sprintf("%p", got) != fmt.Sprintf("%p", base) {
		t.Fatalf("expected handler to be returned untouched when logger is nil")
	}
}

func TestLoggingResponseWriterTruncatesLargeBodies(t *testing.T) {
	lrw := newLoggingResponseWriter(httptest.NewRecorder())
	if _, err := lrw.Write([]byte(strings.Repeat("x", maxLoggedResponseBody+10))); err != nil {
		t.Fatalf("write: %v", err)
	}
	if lrw.StatusCode() != http.StatusOK {
		t.Fatalf("expected default status to be 200, got %d", lrw.StatusCode())
	}
	body := lrw.LoggedBody(httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(body, "-- response truncated after") {
		t.Fatalf("expected truncation notice, got %q", body)
	}
}
