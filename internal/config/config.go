// Package config loads and normalises the console server configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/in4labs/robotics-console/internal/ui/model"
)

const (
	defaultAddr     = "127.0.0.1"
	defaultPort     = ":4173"
	defaultAssets   = "web"
	defaultMessages = "web/messages"
	defaultLogs     = "data/logs"
	defaultLanguage = "en"
	defaultBackend  = "http://127.0.0.1:8000/"

	// CleanupMargin is taken off the lab end time so the backend can clean the
	// boards before the next booking starts.
	CleanupMargin = 10 * time.Second
)

// ErrMissingEndTime is returned when neither the file nor the environment sets the end time.
var ErrMissingEndTime = errors.New("config: lab end time is required")

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	Port string `json:"port"`
}

// Listen joins Addr and Port.
func (s ServerConfig) Listen() string {
	port := strings.TrimSpace(s.Port)
	if port != "" && !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return strings.TrimSpace(s.Addr) + port
}

// AppConfig locates the page assets, message tables and logs.
type AppConfig struct {
	Assets   string `json:"assets"`
	Messages string `json:"messages"`
	Logs     string `json:"logs"`
	Language string `json:"language"`
}

// LabConfig describes the booked lab session.
type LabConfig struct {
	BackendURL string            `json:"backend_url"`
	EndTime    time.Time         `json:"end_time"`
	CamURL     string            `json:"cam_url"`
	Boards     []model.BoardInfo `json:"boards"`
}

// Deadline is the end time minus the cleanup margin.
func (l LabConfig) Deadline() time.Time {
	return l.EndTime.Add(-CleanupMargin)
}

// Config is the runtime configuration parsed from config.json.
type Config struct {
	Server ServerConfig `json:"server"`
	App    AppConfig    `json:"app"`
	Lab    LabConfig    `json:"lab"`
}

// Console builds the payload served to the front-ends.
func (c Config) Console() model.ConsoleConfig {
	return model.ConsoleConfig{
		Boards:   append([]model.BoardInfo(nil), c.Lab.Boards...),
		EndTime:  c.Lab.Deadline(),
		CamURL:   c.Lab.CamURL,
		Language: c.App.Language,
	}
}

type fileConfig struct {
	Server *ServerConfig `json:"server"`
	App    *AppConfig    `json:"app"`
	Lab    *struct {
		BackendURL string            `json:"backend_url"`
		EndTime    string            `json:"end_time"`
		CamURL     string            `json:"cam_url"`
		Boards     []model.BoardInfo `json:"boards"`
	} `json:"lab"`
}

// Load reads the JSON config at path and applies environment overrides. A missing
// file is not an error; the environment alone can configure a lab container.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, os.LookupEnv)
}

// Parse decodes data (which may be empty) and applies overrides from lookup.
func Parse(data []byte, lookup func(string) (string, bool)) (Config, error) {
	var raw fileConfig
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	var cfg Config
	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.App != nil {
		cfg.App = *raw.App
	}
	endTime := ""
	if raw.Lab != nil {
		cfg.Lab.BackendURL = raw.Lab.BackendURL
		cfg.Lab.CamURL = raw.Lab.CamURL
		cfg.Lab.Boards = raw.Lab.Boards
		endTime = raw.Lab.EndTime
	}

	if lookup != nil {
		if v, ok := firstEnv(lookup, "LAB_END_TIME", "END_TIME"); ok {
			endTime = v
		}
		if v, ok := firstEnv(lookup, "LAB_CAM_URL", "CAM_URL"); ok {
			cfg.Lab.CamURL = v
		}
		if v, ok := firstEnv(lookup, "LAB_BACKEND_URL"); ok {
			cfg.Lab.BackendURL = v
		}
	}

	if strings.TrimSpace(endTime) == "" {
		return Config{}, ErrMissingEndTime
	}
	parsed, err := ParseEndTime(endTime)
	if err != nil {
		return Config{}, err
	}
	cfg.Lab.EndTime = parsed

	normalise(&cfg)
	return cfg, nil
}

// ParseEndTime accepts RFC 3339 timestamps, with or without fractional seconds.
// Timestamps without a zone are taken as UTC.
func ParseEndTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", v, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("config: invalid lab end time %q", v)
}

func firstEnv(lookup func(string) (string, bool), keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func normalise(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
	}
	if cfg.App.Assets == "" {
		cfg.App.Assets = defaultAssets
	}
	if cfg.App.Messages == "" {
		cfg.App.Messages = defaultMessages
	}
	if cfg.App.Logs == "" {
		cfg.App.Logs = defaultLogs
	}
	cfg.App.Language = strings.ToLower(strings.TrimSpace(cfg.App.Language))
	if cfg.App.Language == "" {
		cfg.App.Language = defaultLanguage
	}
	if cfg.Lab.BackendURL == "" {
		cfg.Lab.BackendURL = defaultBackend
	}
	if len(cfg.Lab.Boards) == 0 {
		cfg.Lab.Boards = []model.BoardInfo{DefaultBoard()}
	}
	for i := range cfg.Lab.Boards {
		if cfg.Lab.Boards[i].Name == "" {
			cfg.Lab.Boards[i].Name = cfg.Lab.Boards[i].ID
		}
	}
}

// DefaultBoard is the single UNO board the lab ships with.
func DefaultBoard() model.BoardInfo {
	return model.BoardInfo{ID: "Board_1", Name: "UNO R3", Model: "Arduino UNO Rev3"}
}
