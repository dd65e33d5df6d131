package preview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// TerminalOptions configures ANSI rendering.
type TerminalOptions struct {
	// Style is a glamour standard style name.
	Style    string
	WordWrap int
	Profile  termenv.Profile
	// HighlightStyle is the chroma style used for program source.
	HighlightStyle string
}

// DefaultTerminalOptions mirrors the note list previews.
func DefaultTerminalOptions() TerminalOptions {
	return TerminalOptions{
		Style:          "dracula",
		WordWrap:       100,
		Profile:        termenv.ANSI256,
		HighlightStyle: "dracula",
	}
}

// Terminal renders sources for display in a terminal.
type Terminal struct {
	opts     TerminalOptions
	renderer *glamour.TermRenderer
}

// NewTerminal builds a glamour renderer for the given options.
func NewTerminal(opts TerminalOptions) (*Terminal, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(opts.WordWrap),
		glamour.WithColorProfile(opts.Profile),
	)
	if err != nil {
		return nil, err
	}
	return &Terminal{opts: opts, renderer: r}, nil
}

// Render returns src as ANSI text. Markdown goes through glamour, program
// source through chroma, anything else is returned as is.
func (t *Terminal) Render(src Source) string {
	switch {
	case src.Document != nil:
		return t.Markdown(src.Document.Markdown())
	case src.Format.Markup:
		return t.Markdown(src.Text)
	case src.Format.Code():
		return Highlight(src.Format.Lexer, t.opts.HighlightStyle, src.Text)
	default:
		return src.Text
	}
}

// Markdown renders markdown with glamour, falling back to the raw text. Raw
// HTML is shown as text, as in the HTML preview.
func (t *Terminal) Markdown(md string) string {
	out, err := t.renderer.Render(literalHTML(md))
	if err != nil {
		return md
	}
	return out
}

// Highlight colors source code for a 256 color terminal. Unknown lexers and
// tokenizer failures return the text unchanged.
func Highlight(lexer, style, text string) string {
	lex := lexers.Get(lexer)
	if lex == nil {
		return text
	}
	lex = chroma.Coalesce(lex)

	sty := styles.Get(style)
	fmtr := formatters.Get("terminal256")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}

	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return text
	}
	return buf.String()
}
