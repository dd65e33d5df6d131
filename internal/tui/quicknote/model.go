// Package quicknote is the terminal front end of the quick-note editor.
package quicknote

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/desk/internal/buffer"
	"github.com/Paintersrp/desk/internal/cache"
	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/modal"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/state"
)

var maxCacheSizeMB int64 = 8

// SavedMsg is sent after a note was committed.
type SavedMsg struct {
	Note note.Note
}

// ClosedMsg is sent whenever the editor closes, after a save or a cancel.
type ClosedMsg struct {
	Saved bool
}

type focus int

const (
	focusEditor focus = iota
	focusPreview
)

// Options configures the editor model.
type Options struct {
	Terminal preview.TerminalOptions
	// Format overrides the default format when the editor opens.
	Format string
	// Seed is loaded into the buffer when the editor opens.
	Seed string
	// Standalone models quit the program when the editor closes and drive the
	// config watcher themselves.
	Standalone bool
	Watcher    *state.ConfigWatcher
}

type previewKey struct {
	Format   string
	Revision buffer.Revision
	Width    int
}

type Model struct {
	ctrl     *modal.Controller
	keys     *keyMap
	help     help.Model
	area     textarea.Model
	view     viewport.Model
	terminal *preview.Terminal
	cache    *cache.Cache
	opts     Options

	focus       focus
	showPreview bool
	// showSource shows highlighted source for code formats in the side pane.
	showSource bool
	width       int
	height      int
	status      string
	saved       *note.Note
}

func New(ctrl *modal.Controller, opts Options) (*Model, error) {
	if ctrl == nil {
		return nil, errors.New("quicknote: nil controller")
	}
	if opts.Terminal.Style == "" {
		opts.Terminal = preview.DefaultTerminalOptions()
	}

	t, err := preview.NewTerminal(opts.Terminal)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	c, err := cache.New(maxCacheSizeMB)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	ta := textarea.New()
	ta.Placeholder = "..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = true

	m := &Model{
		ctrl:     ctrl,
		keys:     newKeyMap(),
		help:     help.New(),
		area:     ta,
		view:     viewport.New(0, 0),
		terminal: t,
		cache:    c,
		opts:     opts,
	}
	m.resize(100, 30)
	return m, nil
}

// Open starts a new editing session, applying the configured format and seed.
func (m *Model) Open() error {
	m.ctrl.Open()
	m.saved = nil
	m.status = ""
	m.focus = focusEditor

	if m.opts.Format != "" {
		if err := m.ctrl.SetFormat(m.opts.Format); err != nil {
			return err
		}
	}
	if m.opts.Seed != "" {
		if err := m.ctrl.SetContent(m.opts.Seed); err != nil {
			return err
		}
	}
	m.syncArea()
	m.refreshPreview()
	m.syncKeys()
	return nil
}

// Saved returns the note committed by the last session, if any.
func (m *Model) Saved() (note.Note, bool) {
	if m.saved == nil {
		return note.Note{}, false
	}
	return *m.saved, true
}

func (m *Model) Controller() *modal.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.opts.Standalone && m.opts.Watcher != nil {
		cmds = append(cmds, m.opts.Watcher.Start())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncKeys()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := appStyle.GetFrameSize()
		m.resize(msg.Width-h, msg.Height-v)
		m.refreshPreview()
		return nil

	case state.ConfigReloadedMsg:
		m.applyConfig(msg)
		return m.rearm()

	case state.ConfigWatcherErrMsg:
		m.status = errorStyle(fmt.Sprintf("Config error: %v", msg.Err))
		return m.rearm()

	case state.StoreStatsMsg:
		return m.rearm()

	case tea.KeyMsg:
		if !m.ctrl.IsOpen() {
			return nil
		}
		return m.handleKey(msg)
	}

	if m.ctrl.IsOpen() && !m.structured() && m.focus == focusEditor {
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return cmd
	}
	return nil
}

// syncKeys disables the bindings whose action is currently unavailable, so
// help only offers what can run.
func (m *Model) syncKeys() {
	m.keys.save.SetEnabled(m.ctrl.CanSave())
	for cmd, b := range m.keys.commands {
		b.SetEnabled(m.structured() && m.ctrl.Can(cmd))
		m.keys.commands[cmd] = b
	}
}

func (m *Model) rearm() tea.Cmd {
	if m.opts.Standalone && m.opts.Watcher != nil {
		return m.opts.Watcher.Start()
	}
	return nil
}

func (m *Model) applyConfig(msg state.ConfigReloadedMsg) {
	if msg.Config == nil {
		return
	}
	opts := state.TerminalOptions(msg.Config)
	opts.Profile = m.opts.Terminal.Profile
	t, err := preview.NewTerminal(opts)
	if err != nil {
		m.status = errorStyle(fmt.Sprintf("Config error: %v", err))
		return
	}
	c, err := cache.New(maxCacheSizeMB)
	if err != nil {
		m.status = errorStyle(fmt.Sprintf("Error resetting cache: %v", err))
		return
	}
	m.opts.Terminal = opts
	m.terminal = t
	m.cache = c
	m.status = statusStyle("Config reloaded")
	m.refreshPreview()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.save):
		return m.save()

	case key.Matches(msg, m.keys.cancel):
		if err := m.ctrl.Cancel(); err != nil {
			m.status = errorStyle(err.Error())
			return nil
		}
		return m.closed(false)

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return nil

	case key.Matches(msg, m.keys.nextFormat):
		return m.cycleFormat(1)

	case key.Matches(msg, m.keys.prevFormat):
		return m.cycleFormat(-1)

	case key.Matches(msg, m.keys.toggleFocus):
		return m.toggleFocus()
	}

	if m.focus == focusPreview {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return cmd
	}

	if cmd, ok := m.keys.command(func(b key.Binding) bool { return key.Matches(msg, b) }); ok {
		m.ctrl.Apply(cmd)
		m.status = ""
		m.refreshPreview()
		return nil
	}

	if m.structured() {
		m.editDocument(msg)
		m.refreshPreview()
		return nil
	}

	before := m.area.Value()
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if after := m.area.Value(); after != before {
		if err := m.ctrl.SetContent(after); err != nil {
			m.status = errorStyle(err.Error())
		}
		m.refreshPreview()
	}
	return cmd
}

// editDocument maps a key press onto the structured editor.
func (m *Model) editDocument(msg tea.KeyMsg) {
	m.ctrl.Edit(func(e *document.Editor) bool {
		switch msg.Type {
		case tea.KeyRunes:
			if msg.Alt {
				return false
			}
			return e.InsertText(string(msg.Runes))
		case tea.KeySpace:
			return e.InsertText(" ")
		case tea.KeyTab:
			return e.InsertText("\t")
		case tea.KeyEnter:
			return e.SplitBlock()
		case tea.KeyBackspace:
			return e.DeleteBackward()
		case tea.KeyDelete:
			return e.DeleteForward()
		case tea.KeyLeft:
			e.Move(document.Left, false)
		case tea.KeyRight:
			e.Move(document.Right, false)
		case tea.KeyUp:
			e.Move(document.Up, false)
		case tea.KeyDown:
			e.Move(document.Down, false)
		case tea.KeyHome:
			e.Move(document.LineStart, false)
		case tea.KeyEnd:
			e.Move(document.LineEnd, false)
		case tea.KeyShiftLeft:
			e.Move(document.Left, true)
		case tea.KeyShiftRight:
			e.Move(document.Right, true)
		case tea.KeyShiftUp, tea.KeyShiftHome:
			e.Move(document.LineStart, true)
		case tea.KeyShiftDown, tea.KeyShiftEnd:
			e.Move(document.LineEnd, true)
		}
		return false
	})
}

func (m *Model) save() tea.Cmd {
	n, err := m.ctrl.Save()
	if err != nil {
		if errors.Is(err, modal.ErrEmptyContent) {
			m.status = statusStyle("Nothing to save yet")
		} else {
			m.status = errorStyle(fmt.Sprintf("Error saving note: %v", err))
		}
		return nil
	}
	m.saved = &n
	return tea.Sequence(
		func() tea.Msg { return SavedMsg{Note: n} },
		m.closed(true),
	)
}

func (m *Model) closed(saved bool) tea.Cmd {
	m.area.Reset()
	m.area.Blur()
	m.view.SetContent("")
	m.showPreview = false
	m.showSource = false
	if m.opts.Standalone {
		return tea.Quit
	}
	return func() tea.Msg { return ClosedMsg{Saved: saved} }
}

func (m *Model) cycleFormat(step int) tea.Cmd {
	if err := m.ctrl.CycleFormat(step); err != nil {
		m.status = errorStyle(err.Error())
		return nil
	}
	d := m.ctrl.Buffer().Format()
	m.status = statusStyle("Format: " + d.Label)
	m.syncArea()
	m.refreshPreview()
	if m.structured() {
		return nil
	}
	return m.area.Focus()
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusEditor && m.sidePane() {
		m.focus = focusPreview
		m.area.Blur()
		return nil
	}
	m.focus = focusEditor
	if !m.structured() {
		return m.area.Focus()
	}
	return nil
}

func (m *Model) sidePane() bool {
	return m.showPreview || m.showSource
}

func (m *Model) structured() bool {
	return m.ctrl.Buffer().Format().Structured()
}

// syncArea loads the flat buffer into the textarea after a format switch.
func (m *Model) syncArea() {
	if m.structured() {
		m.area.Blur()
		return
	}
	m.area.SetValue(m.ctrl.Buffer().Content())
	if m.focus == focusEditor {
		m.area.Focus()
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.layout()
}

func (m *Model) layout() {
	paneHeight := max(m.height-6, 3)
	editorWidth := m.width - 2
	if m.sidePane() {
		editorWidth = m.width/2 - 3
	}
	m.area.SetWidth(max(editorWidth, 10))
	m.area.SetHeight(paneHeight)
	m.view.Width = max(m.width-editorWidth-6, 10)
	m.view.Height = paneHeight
}

// refreshPreview renders the terminal preview, or the highlighted source of a
// code format, reusing cached output for revisions already seen.
func (m *Model) refreshPreview() {
	_, ok := m.ctrl.Preview()
	source := !ok && m.ctrl.IsOpen() && m.ctrl.Buffer().Format().Code()
	if ok != m.showPreview || source != m.showSource {
		m.showPreview, m.showSource = ok, source
		m.layout()
	}
	if !m.sidePane() {
		if m.focus == focusPreview {
			m.focus = focusEditor
		}
		return
	}

	k := previewKey{
		Format:   m.ctrl.Buffer().Format().ID,
		Revision: m.ctrl.Buffer().Revision(),
		Width:    m.view.Width,
	}
	if p, exists, err := m.cache.Get(k); err == nil && exists {
		m.view.SetContent(p.(string))
		return
	} else if err != nil {
		m.status = errorStyle(fmt.Sprintf("Error accessing cache: %s", err))
	}

	r := m.terminal.Render(m.ctrl.Source())
	if err := m.cache.Put(k, r); err != nil {
		log.Printf("quick note: preview cache: %v", err)
	}
	m.view.SetContent(r)
}

func (m *Model) View() string {
	if !m.ctrl.IsOpen() {
		return ""
	}

	d := m.ctrl.Buffer().Format()
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Quick Note"),
		formatStyle.Render(strings.TrimSpace(d.Icon+" "+d.Label)),
	)

	var body string
	if m.structured() {
		e := m.ctrl.Buffer().Editor()
		body = renderSurface(e.Document(), e.Selection(), m.focus == focusEditor)
	} else {
		body = m.area.View()
	}

	pane := editorStyle
	if m.focus == focusEditor {
		pane = focusedPaneStyle
	}
	editorWidth := m.area.Width() + 2
	editor := pane.Copy().
		Width(editorWidth).
		Height(m.view.Height).
		MaxHeight(m.view.Height + 2).
		Render(body)

	main := editor
	if m.sidePane() {
		pv := previewStyle
		if m.focus == focusPreview {
			pv = focusedPaneStyle.Copy().MarginRight(0)
		}
		main = lipgloss.JoinHorizontal(lipgloss.Top, editor, pv.Render(m.view.View()))
	}

	sections := []string{header}
	if m.structured() {
		sections = append(sections, m.toolbar())
	}
	sections = append(sections, main)
	if m.status != "" {
		sections = append(sections, m.status)
	}
	sections = append(sections, helpStyle.Render(m.help.View(m.keys)))

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) toolbar() string {
	tools := make([]string, 0, len(document.Commands))
	for _, cmd := range document.Commands {
		label := cmd.String()
		switch {
		case m.ctrl.IsActive(cmd):
			tools = append(tools, activeToolStyle.Render(label))
		case m.ctrl.Can(cmd):
			tools = append(tools, toolStyle.Render(label))
		default:
			tools = append(tools, disabledToolStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tools...)
}

// Run opens the editor full screen and returns the saved note, if any.
func Run(ctrl *modal.Controller, opts Options) (note.Note, bool, error) {
	opts.Standalone = true
	m, err := New(ctrl, opts)
	if err != nil {
		return note.Note{}, false, err
	}
	if err := m.Open(); err != nil {
		return note.Note{}, false, err
	}

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		return note.Note{}, false, fmt.Errorf("error running program: %w", err)
	}

	n, ok := m.Saved()
	return n, ok, nil
}
