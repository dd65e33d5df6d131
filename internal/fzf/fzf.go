// Package fzf picks content formats interactively and suggests close matches
// for mistyped format ids.
package fzf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/sahilm/fuzzy"

	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/preview"
)

// ErrAborted is returned when the user closes the finder without a choice.
var ErrAborted = errors.New("format selection aborted")

// FuzzyFinder encapsulates the fuzzy finder functionality
type FuzzyFinder struct {
	registry *format.Registry
	terminal *preview.Terminal
	Header   string
}

func NewFuzzyFinder(r *format.Registry, t *preview.Terminal, header string) *FuzzyFinder {
	if r == nil {
		r = format.Builtin()
	}
	return &FuzzyFinder{registry: r, terminal: t, Header: header}
}

// Run lets the user pick a format. query seeds the search.
func (f *FuzzyFinder) Run(query string) (format.Descriptor, error) {
	formats := f.registry.List()

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return f.renderSample(formats[i])
		}),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(formats, func(i int) string {
		return fmt.Sprintf("%s %s [%s]", formats[i].Icon, formats[i].Label, formats[i].ID)
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return format.Descriptor{}, ErrAborted
		}
		return format.Descriptor{}, err
	}

	return formats[idx], nil
}

// renderSample shows what a note in d looks like in the preview.
func (f *FuzzyFinder) renderSample(d format.Descriptor) string {
	header := fmt.Sprintf("%s\n\nmode: %s\npreview: %t\n\n", d.Label, d.Mode, d.SupportsPreview)
	src := preview.Source{Format: d, Text: Sample(d)}
	if f.terminal == nil {
		return header + src.Text
	}
	return header + f.terminal.Render(src)
}

var samples = map[string]string{
	"javascript": "const greet = (name) => `hello ${name}`;\n",
	"typescript": "export function greet(name: string): string {\n  return `hello ${name}`;\n}\n",
	"python":     "def greet(name):\n    return f\"hello {name}\"\n",
	"json":       "{\n  \"greeting\": \"hello\",\n  \"tags\": [\"quick\"]\n}\n",
	"html":       "<p class=\"note\">hello</p>\n",
	"css":        ".note {\n  color: #0af;\n}\n",
}

// Sample returns a short example body for d.
func Sample(d format.Descriptor) string {
	if s, ok := samples[d.ID]; ok {
		return s
	}
	if d.Structured() || d.Markup {
		return "# Quick note\n\nSome **bold** and *italic* text.\n\n- one\n- two\n"
	}
	return "Just text.\n"
}

// Suggest returns the registered ids closest to id, best match first.
func Suggest(r *format.Registry, id string) []string {
	if r == nil {
		r = format.Builtin()
	}
	ids := r.IDs()
	matches := fuzzy.Find(strings.ToLower(id), ids)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	if len(out) == 0 {
		for _, candidate := range ids {
			if strings.HasPrefix(candidate, strings.ToLower(id)) || strings.HasPrefix(strings.ToLower(id), candidate) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// UnsupportedError decorates an unsupported format error with suggestions.
func UnsupportedError(r *format.Registry, err error) error {
	var unsupported *format.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		return err
	}
	suggestions := Suggest(r, unsupported.ID)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registryIDs(r), ", "))
	}
	return fmt.Errorf("%w, did you mean %s?", err, strings.Join(suggestions, " or "))
}

func registryIDs(r *format.Registry) []string {
	if r == nil {
		r = format.Builtin()
	}
	return r.IDs()
}
