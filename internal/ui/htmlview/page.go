// Package htmlview prerenders the console page so the first paint matches the
// session state, including an already expired session.
package htmlview

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
	"github.com/in4labs/robotics-console/internal/ui/sketch"
)

// Page is what the prerenderer needs to know about the session.
type Page struct {
	Console  model.ConsoleConfig
	States   []session.BoardState
	Messages messages.Table
	Now      time.Time
}

// Render fills the console page template: one tab and editor panel per board, the
// control state of every board, the camera feed and the countdown.
func Render(template []byte, page Page) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("parse console page: %w", err)
	}
	table := page.Messages
	if table == nil {
		table = messages.English()
	}
	now := page.Now
	if now.IsZero() {
		now = time.Now()
	}

	if page.Console.Language != "" {
		doc.Find("html").SetAttr("lang", page.Console.Language)
	}

	tabs := doc.Find("#" + model.NavTabsID)
	panels := doc.Find("#" + model.NavContentID)
	for i, board := range page.Console.Boards {
		tabs.AppendHtml(navTab(board, i == 0))
		panels.AppendHtml(editorPanel(board, i == 0))
	}

	tick := countdown.New(page.Console.EndTime).Evaluate(now)
	expired := tick.Expired
	for _, st := range page.States {
		if st.Expired {
			expired = true
		}
	}

	for _, st := range page.States {
		ApplyControls(doc.Selection, st)
	}

	doc.Find("#" + model.TimerLabelID).SetText(table.Get(messages.SessionWaitTime))
	doc.Find("#" + model.TimerCountID).SetText(tick.Display)
	timer := doc.Find("." + model.TimerClass)
	timer.SetAttr("data-deadline", page.Console.EndTime.UTC().Format(time.RFC3339Nano))
	if tick.Warning {
		timer.AddClass(model.WarningClass)
	}

	cam := doc.Find("#" + model.CameraFeedID)
	if expired {
		expireDocument(doc, table.Get(messages.SessionExpired))
	} else {
		cam.SetAttr("src", page.Console.CamURL)
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("render console page: %w", err)
	}
	return []byte(out), nil
}

// ApplyControls sets the disabled attribute of every control of a board.
func ApplyControls(root *goquery.Selection, st session.BoardState) {
	for _, c := range model.Controls {
		el := root.Find("#" + model.ControlElementID(c, st.Board))
		if st.IsEnabled(c) {
			el.RemoveAttr("disabled")
		} else {
			el.SetAttr("disabled", "disabled")
		}
	}
}

func expireDocument(doc *goquery.Document, notice string) {
	doc.Find("select.editor-select, button.upload, button.suggest, button.compile, button.execute, button.monitor, button.stop, button.reset").
		SetAttr("disabled", "disabled")
	doc.Find("#" + model.CameraFeedID).SetAttr("src", "")
	camera := doc.Find("#" + model.CameraID)
	if camera.Find("."+model.BlockedClass).Length() == 0 {
		camera.PrependHtml(`<div class="` + model.BlockedClass + `"><p>` + html.EscapeString(notice) + `</p></div>`)
	}
	doc.Find("#" + model.ModalMessageID).SetText(notice)
	doc.Find("#" + model.ModalID).SetAttr("data-show-on-load", "true")
}

func navTab(board model.BoardInfo, active bool) string {
	id := html.EscapeString(board.ID)
	name := strings.ReplaceAll(board.Name, " ", "-")
	classes := "nav-link " + strings.ToLower(name)
	if active {
		classes += " active"
	}
	return fmt.Sprintf(`<button class="%s" id="nav-%s-tab" data-bs-toggle="tab" data-bs-target="#nav-%s" type="button" role="tab" aria-controls="nav-%s" aria-selected="%t">%s</button>`,
		html.EscapeString(classes), id, id, id, active, html.EscapeString(name))
}

func editorPanel(board model.BoardInfo, active bool) string {
	id := board.ID
	classes := "tab-pane fade"
	if active {
		classes += " active show"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s" id="nav-%s" role="tabpanel" aria-labelledby="nav-%s-tab">`, classes, esc(id), esc(id))
	b.WriteString(`<div class="editor-nav"><div class="row"><div class="editor-examples col-sm-4">`)
	fmt.Fprintf(&b, `<select class="editor-select" id="%s" data-board="%s">`, esc(model.ControlElementID(model.ControlSelect, id)), esc(id))
	fmt.Fprintf(&b, `<option value="%s" hidden="hidden"></option>`, model.NewExampleKey)
	for _, opt := range sketch.ExampleOptions(board.Examples) {
		selected := ""
		if opt.Selected {
			selected = ` selected="selected"`
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt.Value), selected, esc(opt.Label))
	}
	b.WriteString(`</select></div><div class="editor-cta col-sm-8"><div class="editor-cta-load">`)
	fmt.Fprintf(&b, `<button class="upload" id="%s" data-board="%s" title="Load File"><span class="fa fa-upload"></span></button>`,
		esc(model.ControlElementID(model.ControlUpload, id)), esc(id))
	fmt.Fprintf(&b, `<input id="%s" type="file" accept=".%s" style="display: none;"/>`, esc(model.FileInputID(id)), sketch.Extension)
	fmt.Fprintf(&b, `<button class="download" id="%s" data-board="%s" title="Save File"><span class="fa fa-download"></span></button>`,
		esc(model.SaveButtonID(id)), esc(id))
	writeButton(&b, model.ControlSuggest, id, "Suggest", "fa-commenting")
	b.WriteString(`</div><div class="editor-cta-compile">`)
	writeButton(&b, model.ControlCompile, id, "Compile code", "fa-check")
	writeButton(&b, model.ControlExecute, id, "Run", "fa-play-circle")
	writeButton(&b, model.ControlMonitor, id, "Monitor", "fa-terminal")
	writeButton(&b, model.ControlStop, id, "Stop", "fa-stop-circle")
	b.WriteString(`</div></div></div></div>`)
	fmt.Fprintf(&b, `<form id="editor-%s"><textarea class="code-editor" id="%s" name="%s" data-board="%s"></textarea></form>`,
		esc(id), esc(model.EditorID(id)), esc(model.EditorID(id)), esc(id))
	b.WriteString(`</div>`)
	return b.String()
}

func writeButton(b *strings.Builder, c model.Control, board, title, icon string) {
	fmt.Fprintf(b, `<button class="%s" id="%s" data-board="%s" title="%s"><span class="fa %s"></span></button>`,
		c, esc(model.ControlElementID(c, board)), esc(board), title, icon)
}

func esc(s string) string { return html.EscapeString(s) }
