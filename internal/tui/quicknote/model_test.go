package quicknote

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/modal"
	"github.com/Paintersrp/desk/internal/store"
)

func newTestModel(t *testing.T, opts Options) (*Model, *store.Store) {
	t.Helper()

	s := store.New()
	ctrl, err := modal.New(s, modal.Options{})
	if err != nil {
		t.Fatalf("modal.New() error = %v", err)
	}
	m, err := New(ctrl, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return m, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func alt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestHeadingThenSwitchToSourceAndSave(t *testing.T) {
	m, s := newTestModel(t, Options{})

	send(m, runes("Title"), alt('1'))
	if !m.Controller().IsActive(document.CmdHeading1) {
		t.Fatalf("expected heading 1 to be active")
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if got := m.Controller().Buffer().Format().ID; got != "markdown-source" {
		t.Fatalf("format = %q, want markdown-source", got)
	}
	if got := m.area.Value(); got != "# Title" {
		t.Fatalf("textarea = %q, want %q", got, "# Title")
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	n, ok := m.Saved()
	if !ok {
		t.Fatalf("expected a saved note, status %q", m.status)
	}
	if n.Content != "# Title" || !n.HasTag("markdown-source") {
		t.Fatalf("saved note = %+v", n)
	}
	if s.Len() != 1 {
		t.Fatalf("store has %d notes, want 1", s.Len())
	}
	if m.Controller().State() != modal.Closed {
		t.Fatalf("controller state = %v, want closed", m.Controller().State())
	}
}

func TestFlatFormatTypesIntoTextarea(t *testing.T) {
	m, _ := newTestModel(t, Options{Format: "python"})

	send(m, runes("print(1)"))
	if got := m.Controller().Buffer().Content(); got != "print(1)" {
		t.Fatalf("content = %q, want print(1)", got)
	}
	if m.showPreview {
		t.Fatalf("python should not show a preview pane")
	}
	if strings.Contains(m.View(), "bold") {
		t.Fatalf("toolbar should be hidden for flat formats")
	}
}

func TestSeedLoadsContent(t *testing.T) {
	m, _ := newTestModel(t, Options{Format: "plaintext", Seed: "from clipboard"})
	if got := m.area.Value(); got != "from clipboard" {
		t.Fatalf("textarea = %q", got)
	}
}

func TestEmptySaveKeepsEditing(t *testing.T) {
	m, s := newTestModel(t, Options{})

	send(m, runes("   "), tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Controller().IsOpen() {
		t.Fatalf("editor closed on empty save")
	}
	if s.Len() != 0 {
		t.Fatalf("empty save committed a note")
	}
}

func TestSaveHelpFollowsCanSave(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	if m.keys.save.Enabled() || strings.Contains(m.help.View(m.keys), "save") {
		t.Fatalf("save offered for an empty buffer: %q", m.help.View(m.keys))
	}

	send(m, runes("x"))
	if !m.keys.save.Enabled() || !strings.Contains(m.help.View(m.keys), "save") {
		t.Fatalf("save not offered once the buffer has content: %q", m.help.View(m.keys))
	}
}

func TestCancelEmitsClosed(t *testing.T) {
	m, s := newTestModel(t, Options{})

	cmd := send(m, runes("draft"), tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected a close command")
	}
	msg, ok := cmd().(ClosedMsg)
	if !ok || msg.Saved {
		t.Fatalf("expected ClosedMsg{Saved: false}, got %#v", msg)
	}
	if s.Len() != 0 {
		t.Fatalf("cancel committed a note")
	}
	if m.View() != "" {
		t.Fatalf("closed editor should render nothing")
	}
}

func TestStandaloneCancelQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{Standalone: true})

	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestBoldSelectionAndUndo(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, runes("word"), tea.KeyMsg{Type: tea.KeyShiftHome}, alt('b'))
	if got := m.Controller().Buffer().Content(); got != "**word**" {
		t.Fatalf("content = %q, want **word**", got)
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.Controller().Buffer().Content(); got != "word" {
		t.Fatalf("content after undo = %q, want word", got)
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.Controller().Buffer().Content(); got != "**word**" {
		t.Fatalf("content after redo = %q, want **word**", got)
	}
}

func TestInapplicableCommandsAreDisabled(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.help.ShowAll = true

	send(m, alt('b'))
	if got := m.Controller().Buffer().Content(); got != "" {
		t.Fatalf("content = %q, want empty", got)
	}
	if m.keys.commands[document.CmdBold].Enabled() || m.keys.commands[document.CmdUndo].Enabled() {
		t.Fatalf("bold and undo should be disabled without a selection or history")
	}
	if !m.keys.commands[document.CmdHeading1].Enabled() {
		t.Fatalf("heading 1 should be enabled")
	}
	if got := m.help.View(m.keys); strings.Contains(got, "bold") || !strings.Contains(got, "heading 1") {
		t.Fatalf("help = %q", got)
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	for cmd, b := range m.keys.commands {
		if b.Enabled() {
			t.Errorf("%v enabled for a flat format", cmd)
		}
	}
}

func TestLongContentIsNotTruncated(t *testing.T) {
	lines := make([]string, 150)
	for i := range lines {
		lines[i] = "x = 1"
	}
	m, _ := newTestModel(t, Options{Format: "python", Seed: strings.Join(lines, "\n")})

	send(m, runes("z"))
	if got := strings.Count(m.Controller().Buffer().Content(), "\n") + 1; got != 150 {
		t.Fatalf("buffer has %d lines after typing, want 150", got)
	}

	m, _ = newTestModel(t, Options{Format: "plaintext"})
	for i := 0; i < 120; i++ {
		send(m, runes("y"), tea.KeyMsg{Type: tea.KeyEnter})
	}
	if got := strings.Count(m.Controller().Buffer().Content(), "\n") + 1; got != 121 {
		t.Fatalf("buffer has %d lines after typing, want 121", got)
	}
}

func TestCodeFormatShowsHighlightedSource(t *testing.T) {
	m, _ := newTestModel(t, Options{Format: "python"})

	send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, runes("print(1)"))
	if !m.showSource || m.showPreview {
		t.Fatalf("showSource = %v, showPreview = %v", m.showSource, m.showPreview)
	}
	got := m.view.View()
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "print") {
		t.Fatalf("expected ANSI colored source, got %q", got)
	}

	m, _ = newTestModel(t, Options{Format: "plaintext"})
	send(m, runes("print(1)"))
	if m.showSource || m.showPreview {
		t.Fatalf("plain text should have no side pane")
	}
}

func TestPreviewFollowsEdits(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, runes("hello"))
	if !m.showPreview {
		t.Fatalf("markdown should show a preview pane")
	}
	if !strings.Contains(m.view.View(), "hello") {
		t.Fatalf("preview does not contain typed text:\n%s", m.view.View())
	}
	if m.cache.Len() == 0 {
		t.Fatalf("expected the preview to be cached")
	}

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusPreview {
		t.Fatalf("esc should focus the preview")
	}
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusEditor {
		t.Fatalf("esc should return focus to the editor")
	}
}
