// Package modal drives the quick-note editor: it owns the buffer while the
// editor is open and hands the finished note to a Committer exactly once.
package modal

import (
	"errors"
	"fmt"
	"log"

	"github.com/Paintersrp/desk/internal/buffer"
	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
)

// State is the lifecycle state of the editor.
type State int

const (
	Closed State = iota
	Editing
	Saving
	Cancelling
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Cancelling:
		return "cancelling"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrClosed is returned by operations that need an open editor.
	ErrClosed = errors.New("quick note is not open for editing")
	// ErrEmptyContent is returned when saving a blank buffer.
	ErrEmptyContent = errors.New("nothing to save")
)

// Committer receives saved notes.
type Committer interface {
	AddNote(note.Note) error
}

// Options configures a Controller.
type Options struct {
	Registry      *format.Registry
	DefaultFormat string
	HistoryLimit  int
	Notes         note.Factory
	Renderer      *preview.Renderer
}

// Controller is the quick-note state machine.
type Controller struct {
	state     State
	buf       *buffer.Buffer
	committer Committer
	notes     note.Factory
	renderer  *preview.Renderer

	rendered   bool
	renderedAt buffer.Revision
	result     preview.Result
	hasPreview bool
}

// New returns a closed controller committing into c.
func New(c Committer, opts Options) (*Controller, error) {
	if c == nil {
		return nil, errors.New("modal: nil committer")
	}
	buf, err := buffer.New(opts.Registry, buffer.Options{
		DefaultFormat: opts.DefaultFormat,
		HistoryLimit:  opts.HistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	r := opts.Renderer
	if r == nil {
		r = preview.NewRenderer()
	}
	return &Controller{
		buf:       buf,
		committer: c,
		notes:     opts.Notes,
		renderer:  r,
	}, nil
}

func (c *Controller) State() State { return c.state }

// IsOpen reports whether the editor is accepting edits.
func (c *Controller) IsOpen() bool { return c.state == Editing }

// Buffer exposes the buffer for reading. Mutations should go through the
// controller so they are ignored while closed.
func (c *Controller) Buffer() *buffer.Buffer { return c.buf }

// Open starts a new session with an empty buffer in the default format.
// Opening an open editor does nothing.
func (c *Controller) Open() {
	if c.state != Closed {
		return
	}
	c.buf.Reset()
	c.invalidate()
	c.state = Editing
}

// SetFormat switches the format of the open buffer.
func (c *Controller) SetFormat(id string) error {
	if c.state != Editing {
		return ErrClosed
	}
	return c.buf.SetFormat(id)
}

// CycleFormat moves step formats through the registry.
func (c *Controller) CycleFormat(step int) error {
	if c.state != Editing {
		return ErrClosed
	}
	next := c.buf.Registry().Next(c.buf.Format().ID, step)
	return c.buf.SetFormat(next.ID)
}

// SetContent replaces the buffer content.
func (c *Controller) SetContent(text string) error {
	if c.state != Editing {
		return ErrClosed
	}
	c.buf.SetContent(text)
	return nil
}

// Edit runs fn against the document editor when the buffer is structured. It
// reports fn's result, or false when the edit was ignored.
func (c *Controller) Edit(fn func(*document.Editor) bool) bool {
	if c.state != Editing || c.buf.Editor() == nil {
		return false
	}
	return fn(c.buf.Editor())
}

// Apply runs a structured command. Inapplicable commands are ignored.
func (c *Controller) Apply(cmd document.Command) bool {
	return c.Edit(func(e *document.Editor) bool { return e.Apply(cmd) })
}

// Can reports whether cmd is currently applicable.
func (c *Controller) Can(cmd document.Command) bool {
	return c.state == Editing && c.buf.Editor() != nil && c.buf.Editor().Can(cmd)
}

// IsActive reports whether cmd's formatting is active at the selection.
func (c *Controller) IsActive(cmd document.Command) bool {
	return c.state == Editing && c.buf.Editor() != nil && c.buf.Editor().IsActive(cmd)
}

// Preview renders the buffer. The result is recomputed only when the buffer
// revision changed since the last call.
func (c *Controller) Preview() (preview.Result, bool) {
	if c.state != Editing {
		return preview.Result{}, false
	}
	rev := c.buf.Revision()
	if c.rendered && rev == c.renderedAt {
		return c.result, c.hasPreview
	}

	c.result, c.hasPreview = c.renderer.Render(c.Source())
	c.rendered, c.renderedAt = true, rev
	return c.result, c.hasPreview
}

// Source returns the buffer as renderer input.
func (c *Controller) Source() preview.Source {
	src := preview.Source{Format: c.buf.Format(), Text: c.buf.Content()}
	if e := c.buf.Editor(); e != nil {
		src.Document = e.Document()
	}
	return src
}

// CanSave reports whether Save would commit a note.
func (c *Controller) CanSave() bool {
	return c.state == Editing && !c.buf.Blank()
}

// Save commits the buffer as a new note and closes the editor. A failed commit
// leaves the editor open with its content.
func (c *Controller) Save() (note.Note, error) {
	if c.state != Editing {
		return note.Note{}, ErrClosed
	}
	if c.buf.Blank() {
		return note.Note{}, ErrEmptyContent
	}
	c.state = Saving

	n, err := c.notes.Build(c.buf.Content(), c.buf.Format().ID)
	if err != nil {
		c.state = Editing
		return note.Note{}, fmt.Errorf("build note: %w", err)
	}
	if err := c.committer.AddNote(n); err != nil {
		log.Printf("quick note: commit of %s failed: %v", n.ID, err)
		c.state = Editing
		return note.Note{}, fmt.Errorf("commit note: %w", err)
	}

	c.close()
	return n, nil
}

// Cancel discards the buffer and closes the editor.
func (c *Controller) Cancel() error {
	if c.state != Editing {
		return ErrClosed
	}
	c.state = Cancelling
	c.close()
	return nil
}

func (c *Controller) close() {
	c.buf.Reset()
	c.invalidate()
	c.state = Closed
}

func (c *Controller) invalidate() {
	c.rendered = false
	c.result = preview.Result{}
	c.hasPreview = false
}
