// Package buffer holds the content being composed in the quick-note editor and
// the format it is written in.
package buffer

import (
	"fmt"
	"strings"

	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
)

// Options configures a Buffer.
type Options struct {
	// DefaultFormat is used on creation and after Reset. Empty means format.Default.
	DefaultFormat string
	// HistoryLimit bounds the undo stack of structured content.
	HistoryLimit int
}

// Revision identifies a content state. Two equal revisions of the same buffer
// always hold the same content.
type Revision struct {
	Buffer   uint64
	Document uint64
}

// Buffer is the raw content plus the active format. Flat-source formats keep a
// string; structured formats keep a document editor.
type Buffer struct {
	registry *format.Registry
	opts     Options
	format   format.Descriptor
	text     string
	editor   *document.Editor
	revision uint64
}

// New returns an empty buffer in the default format.
func New(registry *format.Registry, opts Options) (*Buffer, error) {
	if registry == nil {
		registry = format.Builtin()
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = format.Default
	}
	if _, err := registry.Describe(opts.DefaultFormat); err != nil {
		return nil, fmt.Errorf("default format: %w", err)
	}

	b := &Buffer{registry: registry, opts: opts}
	b.Reset()
	return b, nil
}

// Format returns the active format descriptor.
func (b *Buffer) Format() format.Descriptor {
	return b.format
}

// Registry returns the registry formats are resolved against.
func (b *Buffer) Registry() *format.Registry {
	return b.registry
}

// Editor returns the document editor, or nil in flat-source formats.
func (b *Buffer) Editor() *document.Editor {
	return b.editor
}

// SetFormat switches the active format and converts the content so no text is
// lost. An unknown id leaves the buffer untouched.
func (b *Buffer) SetFormat(id string) error {
	to, err := b.registry.Describe(id)
	if err != nil {
		return err
	}
	from := b.format
	if from.ID == to.ID {
		return nil
	}

	switch {
	case from.Structured() && to.Structured():
	case from.Structured():
		b.text = flatten(b.editor.Document(), to)
		b.editor = nil
	case to.Structured():
		b.editor = document.NewEditorFrom(structure(b.text, from), b.opts.HistoryLimit)
		b.text = ""
	}

	b.format = to
	b.revision++
	return nil
}

// flatten extracts the text a flat-source format should hold.
func flatten(doc *document.Document, to format.Descriptor) string {
	if to.Markup {
		return doc.Markdown()
	}
	return doc.PlainText()
}

// structure builds a document from flat text written in the given format.
func structure(text string, from format.Descriptor) *document.Document {
	switch {
	case from.Markup:
		return document.FromMarkdown(text)
	case from.Code():
		return document.FromCode(from.ID, text)
	default:
		return document.FromLines(text)
	}
}

// SetContent replaces the content. Structured formats read text as markdown and
// record the replacement as one undoable edit.
func (b *Buffer) SetContent(text string) {
	if b.editor != nil {
		b.editor.Load(document.FromMarkdown(text))
	} else {
		if text == b.text {
			return
		}
		b.text = text
	}
	b.revision++
}

// Content returns the save-ready text: the raw text of flat formats, markdown
// for structured ones.
func (b *Buffer) Content() string {
	if b.editor != nil {
		return b.editor.Document().Markdown()
	}
	return b.text
}

// Text returns the content without markup.
func (b *Buffer) Text() string {
	if b.editor != nil {
		return b.editor.Document().PlainText()
	}
	return b.text
}

// Blank reports whether there is nothing but whitespace to save.
func (b *Buffer) Blank() bool {
	return strings.TrimSpace(b.Text()) == ""
}

// Reset empties the buffer and restores the default format.
func (b *Buffer) Reset() {
	desc, err := b.registry.Describe(b.opts.DefaultFormat)
	if err != nil {
		desc = b.registry.List()[0]
	}
	b.format = desc
	b.text = ""
	b.editor = nil
	if desc.Structured() {
		b.editor = document.NewEditor(b.opts.HistoryLimit)
	}
	b.revision++
}

// Revision returns the current content revision.
func (b *Buffer) Revision() Revision {
	r := Revision{Buffer: b.revision}
	if b.editor != nil {
		r.Document = b.editor.Version()
	}
	return r
}
