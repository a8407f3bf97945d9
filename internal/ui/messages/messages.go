// Package messages holds the user-visible strings of the lab console, keyed by
// symbolic name so tables can be swapped per language.
package messages

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Key names a console message.
type Key string

const (
	CompilationError   Key = "COMPILATION_ERROR"
	ExecutionError     Key = "EXECUTION_ERROR"
	UnexpectedError    Key = "UNEXPECTED_ERROR"
	SerialOutput       Key = "SERIAL_OUTPUT"
	SerialOutputConfig Key = "SERIAL_OUTPUT_CONFIG"
	Suggest            Key = "SUGGEST"
	ResetLab           Key = "RESET_LAB"
	SessionWaitTime    Key = "SESSION_WAIT_TIME"
	SessionExpired     Key = "SESSION_EXPIRED"
	InvalidSketch      Key = "INVALID_SKETCH"
)

// Keys lists every key a complete table defines.
var Keys = []Key{
	CompilationError,
	ExecutionError,
	UnexpectedError,
	SerialOutput,
	SerialOutputConfig,
	Suggest,
	ResetLab,
	SessionWaitTime,
	SessionExpired,
	InvalidSketch,
}

//go:embed messages_en.yaml
var englishYAML []byte

// Table maps keys to localized text.
type Table map[Key]string

// English returns the built-in English table.
func English() Table {
	t, err := Parse(englishYAML)
	if err != nil {
		panic(fmt.Sprintf("messages: embedded english table: %v", err))
	}
	return t
}

// Parse decodes a YAML table. Missing keys are not an error; Get falls back to English.
func Parse(data []byte) (Table, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	t := make(Table, len(raw))
	for k, v := range raw {
		t[Key(strings.ToUpper(strings.TrimSpace(k)))] = v
	}
	return t, nil
}

// Load reads a YAML table from disk and fills gaps from the English table.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return t.WithFallback(English()), nil
}

// WithFallback returns a copy of t where keys missing from t are taken from base.
func (t Table) WithFallback(base Table) Table {
	out := make(Table, len(base)+len(t))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range t {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// Get returns the text for key, or the key itself when the table has no entry.
func (t Table) Get(key Key) string {
	if v, ok := t[key]; ok {
		return v
	}
	return string(key)
}

// Missing reports the keys a table does not define.
func (t Table) Missing() []Key {
	var missing []Key
	for _, k := range Keys {
		if _, ok := t[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
