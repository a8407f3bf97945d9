package sketch

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "Blink.ino", ok: true},
		{name: "BLINK.INO", ok: true},
		{name: "archive.tar.ino", ok: true},
		{name: "Blink.cpp", ok: false},
		{name: "Blink", ok: false},
		{name: "ino", ok: false},
		{name: "Blink.ino.txt", ok: false},
		{name: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.name)
			if tt.ok && err != nil {
				t.Fatalf("expected %q to be accepted, got %v", tt.name, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSketch) {
				t.Fatalf("expected %q to be rejected with ErrInvalidSketch, got %v", tt.name, err)
			}
		})
	}
}

func TestNewDownload(t *testing.T) {
	d := NewDownload("void setup() {}")
	if d.Name != "Sketch.ino" || d.ContentType != "text/plain" {
		t.Fatalf("unexpected download metadata: %+v", d)
	}
	if string(d.Content) != "void setup() {}" {
		t.Fatalf("unexpected content %q", d.Content)
	}
}

func TestExampleOptions(t *testing.T) {
	opts := ExampleOptions([]string{"Traffic_Light.ino", "README.md", "New_Sketch.ino", "Blink.ino", "Blink.ino"})
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %+v", opts)
	}
	if opts[0].Value != "Blink.ino" || opts[0].Label != "Blink" {
		t.Fatalf("unexpected first option %+v", opts[0])
	}
	if !opts[1].Selected || opts[1].Label != "New Sketch" {
		t.Fatalf("expected new sketch to be preselected, got %+v", opts[1])
	}
	if opts[2].Label != "Traffic Light" || opts[2].Selected {
		t.Fatalf("unexpected last option %+v", opts[2])
	}
}
