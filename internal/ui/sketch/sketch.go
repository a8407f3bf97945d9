// Package sketch handles sketch file names: upload validation, the download name and
// the labels shown in the example selector.
package sketch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/in4labs/robotics-console/internal/ui/model"
)

const (
	// Extension is the only file extension accepted for uploads.
	Extension = "ino"
	// DownloadName is the file name used when saving the editor contents.
	DownloadName = "Sketch.ino"
	// DownloadContentType is the MIME type of saved sketches.
	DownloadContentType = "text/plain"
	// NewSketch is the example loaded into every editor on start-up.
	NewSketch = "New_Sketch.ino"
)

// ErrInvalidSketch is returned for files that are not *.ino sketches.
var ErrInvalidSketch = errors.New("file is not an .ino sketch")

// Validate checks that name ends in the sketch extension, ignoring case.
func Validate(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) < 2 || strings.ToLower(parts[len(parts)-1]) != Extension {
		return fmt.Errorf("%q: %w", name, ErrInvalidSketch)
	}
	return nil
}

// NewDownload packages editor text for saving.
func NewDownload(text string) model.Download {
	return model.Download{
		Name:        DownloadName,
		ContentType: DownloadContentType,
		Content:     []byte(text),
	}
}

// Option is one entry of the example selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ExampleOptions turns example file names into selector options: only sketches are
// kept, sorted by file name, labelled without underscores or extension, with the
// blank sketch preselected.
func ExampleOptions(files []string) []Option {
	names := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if !strings.HasSuffix(f, "."+Extension) || seen[f] {
			continue
		}
		seen[f] = true
		names = append(names, f)
	}
	sort.Strings(names)

	options := make([]Option, 0, len(names))
	for _, name := range names {
		label := strings.ReplaceAll(name, "_", " ")
		label = strings.TrimSuffix(label, "."+Extension)
		options = append(options, Option{
			Value:    name,
			Label:    label,
			Selected: label == "New Sketch",
		})
	}
	return options
}
