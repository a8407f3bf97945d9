package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"lab":{"end_time":"2026-05-04T10:30:00.000Z"}}`), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Listen() != "127.0.0.1:4173" {
		t.Fatalf("listen = %q", cfg.Server.Listen())
	}
	if cfg.App.Assets != "web" || cfg.App.Language != "en" || cfg.App.Messages != "web/messages" {
		t.Fatalf("unexpected app defaults %+v", cfg.App)
	}
	if len(cfg.Lab.Boards) != 1 || cfg.Lab.Boards[0].ID != "Board_1" {
		t.Fatalf("expected the default board, got %+v", cfg.Lab.Boards)
	}
	want := time.Date(2026, 5, 4, 10, 29, 50, 0, time.UTC)
	if !cfg.Lab.Deadline().Equal(want) {
		t.Fatalf("deadline = %s, want %s", cfg.Lab.Deadline(), want)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	data := []byte(`{"lab":{"end_time":"2026-05-04T10:30:00Z","cam_url":"http://file/cam","backend_url":"http://file/"}}`)
	cfg, err := Parse(data, env(map[string]string{
		"LAB_END_TIME":    "2026-05-04T11:00:00Z",
		"CAM_URL":         "http://legacy/cam",
		"LAB_BACKEND_URL": "http://backend:8000/lab/",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Lab.EndTime.Hour() != 11 {
		t.Fatalf("end time = %s", cfg.Lab.EndTime)
	}
	if cfg.Lab.CamURL != "http://legacy/cam" {
		t.Fatalf("cam url = %q", cfg.Lab.CamURL)
	}
	if cfg.Lab.BackendURL != "http://backend:8000/lab/" {
		t.Fatalf("backend url = %q", cfg.Lab.BackendURL)
	}
}

func TestMissingEndTime(t *testing.T) {
	if _, err := Parse(nil, env(nil)); !errors.Is(err, ErrMissingEndTime) {
		t.Fatalf("expected ErrMissingEndTime, got %v", err)
	}
}

func TestInvalidEndTime(t *testing.T) {
	if _, err := Parse(nil, env(map[string]string{"LAB_END_TIME": "tomorrow"})); err == nil {
		t.Fatalf("expected an error for an invalid end time")
	}
}

func TestParseEndTimeWithoutZone(t *testing.T) {
	got, err := ParseEndTime("2026-05-04T10:30:00.250")
	if err != nil {
		t.Fatalf("ParseEndTime: %v", err)
	}
	if got.Location() != time.UTC || got.Nanosecond() != 250000000 {
		t.Fatalf("unexpected time %s", got)
	}
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("LAB_END_TIME", "2026-05-04T10:30:00Z")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lab.EndTime.IsZero() {
		t.Fatalf("expected end time from the environment")
	}
}

func TestLoadReadsBoards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "server": {"addr": "0.0.0.0", "port": "8080"},
  "app": {"language": "ES"},
  "lab": {
    "end_time": "2026-05-04T10:30:00Z",
    "boards": [
      {"id": "Board_1", "name": "UNO R3", "examples": ["Blink.ino"]},
      {"id": "Board_2"}
    ]
  }
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen() != "0.0.0.0:8080" {
		t.Fatalf("listen = %q", cfg.Server.Listen())
	}
	if cfg.App.Language != "es" {
		t.Fatalf("language = %q", cfg.App.Language)
	}
	if len(cfg.Lab.Boards) != 2 || cfg.Lab.Boards[1].Name != "Board_2" {
		t.Fatalf("unexpected boards %+v", cfg.Lab.Boards)
	}
	console := cfg.Console()
	if !console.EndTime.Equal(cfg.Lab.Deadline()) || len(console.Boards) != 2 {
		t.Fatalf("unexpected console payload %+v", console)
	}
}
