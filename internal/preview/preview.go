// Package preview renders note content for display: sanitized HTML for the
// preview pane, and ANSI output for terminals.
package preview

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/util"

	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
)

// Source is the content to render.
type Source struct {
	Format format.Descriptor
	// Text is the flat content. Ignored when Document is set.
	Text string
	// Document is the structured content, if the format is structured.
	Document *document.Document
}

// Result is a rendered preview.
type Result struct {
	Format string
	HTML   string
}

// Renderer turns buffer content into preview HTML. It holds only read-only
// lookup data and is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer returns a renderer with the fixed markdown rule set.
func NewRenderer() *Renderer {
	return &Renderer{
		md:     newMarkdown(),
		policy: newPolicy(),
	}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w.+-]+$`)).OnElements("code")
	return p
}

// Render produces the preview for src. It reports false when the format has no
// preview, in which case the preview pane is not shown.
func (r *Renderer) Render(src Source) (Result, bool) {
	if !src.Format.SupportsPreview {
		return Result{}, false
	}

	var html string
	switch {
	case src.Document != nil:
		html = DocumentHTML(src.Document)
	case src.Format.Markup:
		html = r.markdown(src.Text)
	default:
		html = "<pre>" + escape(src.Text) + "</pre>\n"
	}

	return Result{
		Format: src.Format.ID,
		HTML:   r.policy.Sanitize(html),
	}, true
}

func (r *Renderer) markdown(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + escape(text) + "</p>\n"
	}
	return buf.String()
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
