package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readPayload(t *testing.T, path string) logPayload {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Count(string(content), `"logevents":[`) != 1 {
		t.Fatalf("expected a single envelope, got %q", content)
	}
	var payload logPayload
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("log file is not valid JSON: %v\n%s", err, content)
	}
	return payload
}

func TestLogFileWriterKeepsOneEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.json")
	w, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger := NewWithWriter(w)
	logger.Printf("first")
	LogAction(logger, ActionEvent{Board: "Board_1", Action: "compile", Outcome: "ok"})

	// Valid before Close.
	if got := readPayload(t, path); len(got.LogEvents) != 2 {
		t.Fatalf("expected two events, got %d", len(got.LogEvents))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w, err = OpenLogFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := w.Write([]byte("plain line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = w.Close()

	got := readPayload(t, path)
	if len(got.LogEvents) != 3 {
		t.Fatalf("expected three events after reopen, got %d", len(got.LogEvents))
	}
	if got.LogEvents[2].Message != "plain line" {
		t.Fatalf("fallback message = %q", got.LogEvents[2].Message)
	}
}

func TestLogFileWriterEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	w, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := readPayload(t, path); len(got.LogEvents) != 0 {
		t.Fatalf("expected no events, got %+v", got.LogEvents)
	}

	w, _ = OpenLogFile(path)
	NewWithWriter(w).Printf("after empty")
	_ = w.Close()
	if got := readPayload(t, path); len(got.LogEvents) != 1 {
		t.Fatalf("expected one event, got %d", len(got.LogEvents))
	}
}

func TestCategoryWriterReceivesOnlyItsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	w, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	SetCategoryWriter(CategoryAction, w)

	logger := NewWithWriter(io.Discard)
	logger.Printf("not an action")
	LogAction(logger, ActionEvent{RequestID: "A1", Board: "Board_1", Action: "execute", Outcome: "ok"})
	LogAction(logger, ActionEvent{RequestID: "A2", Board: "Board_1", Action: "monitor", Outcome: "error"})
	SetCategoryWriter(CategoryAction, nil)

	got := readPayload(t, path)
	if len(got.LogEvents) != 2 {
		t.Fatalf("expected two action events, got %+v", got.LogEvents)
	}
	for _, ev := range got.LogEvents {
		if ev.Category != CategoryAction {
			t.Fatalf("unexpected category %q", ev.Category)
		}
	}
	if got.LogEvents[1].ID != "A2" || got.LogEvents[1].Outcome != "error" {
		t.Fatalf("second event = %+v", got.LogEvents[1])
	}
}
