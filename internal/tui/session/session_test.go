package session

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/internal/store"
	"github.com/Paintersrp/desk/internal/tui/quicknote"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	s := &state.State{
		Registry:   format.Builtin(),
		Store:      store.New(),
		Renderer:   preview.NewRenderer(),
		RootStatus: &state.RootStatus{},
	}
	m, err := New(s, config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCaptureNoteFromDashboard(t *testing.T) {
	m := newTestModel(t)

	if !strings.Contains(m.View(), "No notes yet") {
		t.Fatalf("expected empty dashboard hint")
	}

	m.Update(runes("n"))
	if !m.editing {
		t.Fatalf("n should open the editor")
	}

	m.Update(runes("hello dashboard"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(quicknote.ClosedMsg{Saved: true})

	if m.editing {
		t.Fatalf("dashboard still editing after close")
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("list has %d items, want 1", got)
	}
	if !strings.Contains(m.preview, "dashboard") {
		t.Fatalf("preview = %q", m.preview)
	}
	if got := m.state.RootStatus.Value(); !strings.HasPrefix(got, "Notes: 1") {
		t.Fatalf("root status = %q", got)
	}
}

func TestDeleteSelectedNote(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("n"))
	m.Update(runes("to delete"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(quicknote.ClosedMsg{Saved: true})

	m.Update(runes("D"))
	if m.state.Store.Len() != 0 {
		t.Fatalf("store still has %d notes", m.state.Store.Len())
	}
	if len(m.list.Items()) != 0 {
		t.Fatalf("list still has items")
	}
}

func TestCancelLeavesStoreEmpty(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("n"))
	m.Update(runes("draft"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	m.Update(cmd())

	if m.editing {
		t.Fatalf("dashboard still editing after cancel")
	}
	if m.state.Store.Len() != 0 {
		t.Fatalf("cancel committed a note")
	}
}

func TestNoteSource(t *testing.T) {
	r := format.Builtin()

	tests := []struct {
		name       string
		tags       []string
		wantFormat string
		wantDoc    bool
	}{
		{"markdown", []string{"markdown"}, "markdown", true},
		{"python", []string{"python"}, "python", false},
		{"unknown tag", []string{"misc"}, "markdown", true},
		{"first known tag", []string{"misc", "json"}, "json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := noteSource(r, note.Note{Content: "x", Tags: tt.tags})
			if src.Format.ID != tt.wantFormat {
				t.Errorf("format = %q, want %q", src.Format.ID, tt.wantFormat)
			}
			if (src.Document != nil) != tt.wantDoc {
				t.Errorf("document present = %v, want %v", src.Document != nil, tt.wantDoc)
			}
		})
	}
}
