// Package format describes the content formats a quick note can be written in.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// EditingMode selects how a format is edited.
type EditingMode int

const (
	// StructuredDocument formats are edited through the document model and its commands.
	StructuredDocument EditingMode = iota + 1
	// FlatSource formats are edited as raw text.
	FlatSource
)

func (m EditingMode) String() string {
	switch m {
	case StructuredDocument:
		return "structured-document"
	case FlatSource:
		return "flat-source"
	default:
		return fmt.Sprintf("EditingMode(%d)", int(m))
	}
}

// Default is the format a freshly opened editor starts in.
const Default = "markdown"

// Descriptor is the static metadata for one supported format.
type Descriptor struct {
	ID              string
	Label           string
	Extension       string
	Icon            string
	Mode            EditingMode
	SupportsPreview bool
	// Markup reports whether flat text in this format is markdown the preview can render.
	Markup bool
	// Lexer is the chroma lexer used for syntax coloring.
	Lexer string
}

// Structured reports whether the descriptor uses the document model.
func (d Descriptor) Structured() bool {
	return d.Mode == StructuredDocument
}

// Code reports whether flat text in this format is program source.
func (d Descriptor) Code() bool {
	return d.Mode == FlatSource && !d.Markup && d.Lexer != "" && d.Lexer != "plaintext"
}

var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError is returned when an id is not in the registry.
type UnsupportedFormatError struct {
	ID string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.ID)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

var builtinFormats = []Descriptor{
	{ID: "markdown", Label: "Markdown (.md)", Extension: ".md", Icon: "📝", Mode: StructuredDocument, SupportsPreview: true, Lexer: "markdown"},
	{ID: "markdown-source", Label: "Markdown Source (.md)", Extension: ".md", Icon: "🖋", Mode: FlatSource, SupportsPreview: true, Markup: true, Lexer: "markdown"},
	{ID: "javascript", Label: "JavaScript (.js)", Extension: ".js", Icon: "🟨", Mode: FlatSource, Lexer: "javascript"},
	{ID: "typescript", Label: "TypeScript (.ts)", Extension: ".ts", Icon: "🔷", Mode: FlatSource, Lexer: "typescript"},
	{ID: "python", Label: "Python (.py)", Extension: ".py", Icon: "🐍", Mode: FlatSource, Lexer: "python"},
	{ID: "json", Label: "JSON (.json)", Extension: ".json", Icon: "📋", Mode: FlatSource, Lexer: "json"},
	{ID: "html", Label: "HTML (.html)", Extension: ".html", Icon: "🌐", Mode: FlatSource, Lexer: "html"},
	{ID: "css", Label: "CSS (.css)", Extension: ".css", Icon: "🎨", Mode: FlatSource, Lexer: "css"},
	{ID: "plaintext", Label: "Plain Text (.txt)", Extension: ".txt", Icon: "📄", Mode: FlatSource, Lexer: "plaintext"},
}

// Registry is an ordered, immutable set of descriptors.
type Registry struct {
	formats []Descriptor
	byID    map[string]int
}

// NewRegistry builds a registry, rejecting empty or duplicate ids and unknown modes.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		formats: make([]Descriptor, 0, len(descriptors)),
		byID:    make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, errors.New("format id cannot be empty")
		}
		if _, exists := r.byID[id]; exists {
			return nil, fmt.Errorf("format %q is registered twice", id)
		}
		switch d.Mode {
		case StructuredDocument, FlatSource:
		default:
			return nil, fmt.Errorf("format %q has unknown editing mode %v", id, d.Mode)
		}
		d.ID = id
		r.byID[id] = len(r.formats)
		r.formats = append(r.formats, d)
	}

	if len(r.formats) == 0 {
		return nil, errors.New("registry needs at least one format")
	}

	return r, nil
}

var builtin = mustRegistry(builtinFormats...)

func mustRegistry(descriptors ...Descriptor) *Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// Builtin returns the process-wide registry of supported formats.
func Builtin() *Registry {
	return builtin
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.formats))
	copy(out, r.formats)
	return out
}

// IDs returns the registered ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.formats))
	for i, d := range r.formats {
		ids[i] = d.ID
	}
	return ids
}

// Describe looks up a descriptor by id.
func (r *Registry) Describe(id string) (Descriptor, error) {
	idx, ok := r.byID[id]
	if !ok {
		return Descriptor{}, &UnsupportedFormatError{ID: id}
	}
	return r.formats[idx], nil
}

// Next returns the descriptor after id, wrapping around. Unknown ids start from the first format.
func (r *Registry) Next(id string, step int) Descriptor {
	idx, ok := r.byID[id]
	if !ok {
		return r.formats[0]
	}
	n := len(r.formats)
	return r.formats[((idx+step)%n+n)%n]
}
