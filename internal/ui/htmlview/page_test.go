package htmlview

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

const minimalPage = `<!doctype html><html><head></head><body>
<div class="timer"><span id="timer-label"></span><span id="timer-count"></span></div>
<button class="reset" id="button-reset-lab"></button>
<div id="nav-tab"></div><div id="nav-tabContent"></div>
<section id="camera"><img id="cam" src=""></section>
<div id="modal_message"><p id="modal-msg"></p></div>
</body></html>`

var deadline = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func parse(t *testing.T, out []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return doc
}

func consoleConfig() model.ConsoleConfig {
	return model.ConsoleConfig{
		Boards: []model.BoardInfo{
			{ID: "Board_1", Name: "UNO R3", Examples: []string{"New_Sketch.ino", "Blink_Led.ino", "readme.txt"}},
			{ID: "Board_2", Name: "Nano"},
		},
		EndTime: deadline,
		CamURL:  "http://cam.local/stream",
	}
}

func TestRenderBuildsBoardPanels(t *testing.T) {
	sess := session.New("Board_1", "Board_2")
	out, err := Render([]byte(minimalPage), Page{
		Console: consoleConfig(),
		States:  sess.States(),
		Now:     deadline.Add(-125 * time.Second),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parse(t, out)

	if n := doc.Find("#nav-tab button").Length(); n != 2 {
		t.Fatalf("expected 2 tabs, got %d", n)
	}
	opts := doc.Find("#editor-select-Board_1 option")
	if opts.Length() != 3 {
		t.Fatalf("expected hidden option plus 2 sketches, got %d", opts.Length())
	}
	selected := doc.Find("#editor-select-Board_1 option[selected]")
	if v, _ := selected.Attr("value"); v != "New_Sketch.ino" {
		t.Fatalf("selected example = %q", v)
	}
	if label := doc.Find(`#editor-select-Board_1 option[value="Blink_Led.ino"]`).Text(); label != "Blink Led" {
		t.Fatalf("label = %q", label)
	}

	for _, id := range []string{"button-execute-Board_1", "button-monitor-Board_1", "button-stop-Board_2"} {
		if _, ok := doc.Find("#" + id).Attr("disabled"); !ok {
			t.Fatalf("%s should start disabled", id)
		}
	}
	for _, id := range []string{"button-compile-Board_1", "button-suggest-Board_2", "editor-select-Board_2"} {
		if _, ok := doc.Find("#" + id).Attr("disabled"); ok {
			t.Fatalf("%s should start enabled", id)
		}
	}

	if got := doc.Find("#timer-count").Text(); got != "02:05" {
		t.Fatalf("timer = %q", got)
	}
	if doc.Find(".timer").HasClass("red") {
		t.Fatalf("no warning expected with 2 minutes left")
	}
	if src, _ := doc.Find("#cam").Attr("src"); src != "http://cam.local/stream" {
		t.Fatalf("cam src = %q", src)
	}
	if doc.Find(".session_blocked").Length() != 0 {
		t.Fatalf("session should not be blocked")
	}
}

func TestRenderWarnsNearDeadline(t *testing.T) {
	out, err := Render([]byte(minimalPage), Page{Console: consoleConfig(), Now: deadline.Add(-29 * time.Second)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !parse(t, out).Find(".timer").HasClass("red") {
		t.Fatalf("expected warning class")
	}
}

func TestRenderExpiredSessionDisablesEverything(t *testing.T) {
	sess := session.New("Board_1", "Board_2")
	sess.Compiled("Board_1")
	out, err := Render([]byte(minimalPage), Page{
		Console: consoleConfig(),
		States:  sess.States(),
		Now:     deadline.Add(time.Millisecond),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parse(t, out)
	for _, board := range []string{"Board_1", "Board_2"} {
		for _, c := range model.Controls {
			id := model.ControlElementID(c, board)
			if _, ok := doc.Find("#" + id).Attr("disabled"); !ok {
				t.Fatalf("%s should be disabled after expiry", id)
			}
		}
	}
	if _, ok := doc.Find("#button-reset-lab").Attr("disabled"); !ok {
		t.Fatalf("reset should be disabled after expiry")
	}
	if doc.Find("#camera .session_blocked").Length() != 1 {
		t.Fatalf("expected blocked overlay")
	}
	if src, _ := doc.Find("#cam").Attr("src"); src != "" {
		t.Fatalf("cam src should be cleared, got %q", src)
	}
	if !strings.Contains(doc.Find("#modal-msg").Text(), "Your session has expired") {
		t.Fatalf("expected expiry notice in the modal")
	}
	if got := doc.Find("#timer-count").Text(); got != "00:00" {
		t.Fatalf("timer = %q", got)
	}
}

func TestRenderEscapesBoardData(t *testing.T) {
	cfg := consoleConfig()
	cfg.Boards = []model.BoardInfo{{ID: "Board_1", Name: `<script>x</script>`}}
	out, err := Render([]byte(minimalPage), Page{Console: cfg, Now: deadline.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bytes.Contains(out, []byte("<script>x</script>")) {
		t.Fatalf("board name must be escaped")
	}
}

func TestRenderShippedConsolePage(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "web", "index.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("console page not available: %v", err)
	}
	sess := session.New("Board_1")
	out, err := Render(data, Page{Console: consoleConfig(), States: sess.States(), Now: deadline.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parse(t, out)
	if doc.Find("#text-Board_1.code-editor").Length() != 1 {
		t.Fatalf("expected the editor textarea for Board_1")
	}
	if doc.Find("#file-input-Board_1").Length() != 1 || doc.Find("#button-download-Board_1").Length() != 1 {
		t.Fatalf("expected file input and download button")
	}
}
