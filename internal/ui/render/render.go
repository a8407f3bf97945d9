// Package render turns backend payloads into modal bodies.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// Preformatted wraps backend text (compiler errors, serial output) in a scrollable
// block. The text is escaped; the console never interprets backend output as markup.
func Preformatted(text string) string {
	return `<pre class="modal-output">` + html.EscapeString(text) + `</pre>`
}

// Markdown renders suggestion text and strips anything the UGC policy does not allow.
// Text that fails to render falls back to a preformatted block.
func Markdown(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return Preformatted(text)
	}
	out := strings.TrimSpace(policy.Sanitize(buf.String()))
	return `<div class="modal-suggestion">` + out + `</div>`
}

// PlainText strips markup from a rendered body, for terminals.
func PlainText(body string) string {
	text := bluemonday.StrictPolicy().Sanitize(body)
	return strings.TrimSpace(html.UnescapeString(text))
}
