package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

const (
	envelopeHead  = `{"logevents":[` + "\n"
	envelopeTail  = "\n]}\n"
	emptyEnvelope = `{"logevents":[]}` + "\n"
)

// NewLogFileWriter keeps every payload written to it inside one {"logevents":[...]}
// envelope, so the file stays valid JSON while the process runs. The file must be
// opened for reading and writing without O_APPEND; existing envelopes are extended.
func NewLogFileWriter(file *os.File) io.WriteCloser {
	w := &logFileWriter{file: file}
	if file == nil {
		return w
	}
	if info, err := file.Stat(); err == nil && info.Size() > 0 {
		w.started = true
		w.wroteEntry = info.Size() > int64(len(emptyEnvelope))
		if !w.wroteEntry {
			// Turn the empty envelope back into head+tail so entries can be spliced in.
			if err := file.Truncate(0); err == nil {
				_, _ = file.Seek(0, io.SeekStart)
				w.started = false
			}
		}
	}
	return w
}

type logFileWriter struct {
	mu         sync.Mutex
	file       *os.File
	started    bool
	wroteEntry bool
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	if w == nil || w.file == nil {
		return len(p), nil
	}
	trimmed := bytes.TrimSpace(p)
	if len(trimmed) == 0 {
		return len(p), nil
	}

	var payload logPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil || len(payload.LogEvents) == 0 {
		payload.LogEvents = []logEvent{{
			Time:     time.Now().UTC().Format(time.RFC3339Nano),
			Category: CategoryGeneral,
			Message:  string(trimmed),
		}}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return len(p), w.writeEntries(payload.LogEvents)
}

func (w *logFileWriter) writeEntries(entries []logEvent) error {
	if !w.started {
		if _, err := w.file.WriteString(envelopeHead + envelopeTail[1:]); err != nil {
			return err
		}
		w.started = true
	}
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := w.file.Seek(-int64(len(envelopeTail)), io.SeekEnd); err != nil {
			return err
		}
		if w.wroteEntry {
			data = append([]byte(",\n"), data...)
		}
		data = append(data, envelopeTail...)
		if _, err := w.file.Write(data); err != nil {
			return err
		}
		w.wroteEntry = true
	}
	return nil
}

func (w *logFileWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		if _, err := w.file.WriteString(emptyEnvelope); err != nil {
			_ = w.file.Close()
			return err
		}
	}
	return w.file.Close()
}

var categoryWriters sync.Map

// SetCategoryWriter registers a writer that receives a copy of every event in the
// category, one payload per event. A nil writer closes and removes the current one.
func SetCategoryWriter(category string, w io.WriteCloser) {
	if category == "" {
		return
	}
	if w == nil {
		if old, ok := categoryWriters.LoadAndDelete(category); ok {
			_ = old.(io.WriteCloser).Close()
		}
		return
	}
	categoryWriters.Store(category, w)
}

func writeCategoryEntries(entries []logEvent) {
	for _, entry := range entries {
		v, ok := categoryWriters.Load(entry.Category)
		if !ok {
			continue
		}
		data, err := json.Marshal(logPayload{LogEvents: []logEvent{entry}})
		if err != nil {
			continue
		}
		_, _ = v.(io.WriteCloser).Write(data)
	}
}

// OpenLogFile opens path for a NewLogFileWriter, creating it if needed.
func OpenLogFile(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return NewLogFileWriter(f), nil
}
