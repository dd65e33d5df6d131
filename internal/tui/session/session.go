// Package session is the dashboard listing the notes captured in this session.
package session

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/desk/internal/cache"
	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/modal"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/internal/tui/quicknote"
)

var maxCacheSizeMB int64 = 50

type previewKey struct {
	ID        string
	UpdatedAt time.Time
	Width     int
}

type Model struct {
	state       *state.State
	list        list.Model
	keys        *listKeyMap
	editor      *quicknote.Model
	cache       *cache.Cache
	terminal    *preview.Terminal
	termOpts    preview.TerminalOptions
	preview     string
	editing     bool
	showDetails bool
	width       int
	height      int
}

func New(s *state.State, cfg *config.Config) (*Model, error) {
	ctrl, err := modal.New(s.Store, s.ModalOptions(cfg))
	if err != nil {
		return nil, err
	}

	termOpts := state.TerminalOptions(cfg)
	editor, err := quicknote.New(ctrl, quicknote.Options{Terminal: termOpts})
	if err != nil {
		return nil, err
	}

	t, err := preview.NewTerminal(termOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	c, err := cache.New(maxCacheSizeMB)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	lkeys := newListKeyMap()
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = selectedItemStyle
	d.Styles.SelectedDesc = selectedItemStyle

	l := list.New(toItems(s.Store.Notes(), false), d, 0, 0)
	l.Title = "Quick Notes"
	l.Styles.Title = titleStyle
	l.SetStatusBarItemName("note", "notes")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{lkeys.create, lkeys.copy}
	}
	l.AdditionalFullHelpKeys = lkeys.fullHelp

	return &Model{
		state:    s,
		list:     l,
		keys:     lkeys,
		editor:   editor,
		cache:    c,
		terminal: t,
		termOpts: termOpts,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	m.refreshStatus()
	if m.state.Watcher != nil {
		return m.state.Watcher.Start()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width/2-h, msg.Height-v-1)
		m.editor.Update(msg)
		m.handlePreview()
		return m, nil

	case state.ConfigReloadedMsg:
		m.applyConfig(msg)
		m.editor.Update(msg)
		return m, m.state.Watcher.Start()

	case state.ConfigWatcherErrMsg:
		cmds = append(cmds, m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Config error: %v", msg.Err))))
		return m, tea.Batch(append(cmds, m.state.Watcher.Start())...)

	case state.StoreStatsMsg:
		return m, m.state.Watcher.Start()

	case quicknote.SavedMsg:
		cmds = append(cmds, m.list.NewStatusMessage(statusStyle("Saved "+msg.Note.Title)))
		return m, tea.Batch(cmds...)

	case quicknote.ClosedMsg:
		m.editing = false
		cmds = append(cmds, m.refresh())
		return m, tea.Batch(cmds...)
	}

	if m.editing {
		_, cmd := m.editor.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	nl, cmd := m.list.Update(msg)
	m.list = nl
	cmds = append(cmds, cmd)

	m.handlePreview()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.create):
		if err := m.editor.Open(); err != nil {
			return m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Error opening editor: %v", err))), true
		}
		m.editing = true
		return m.editor.Init(), true

	case key.Matches(msg, m.keys.remove):
		i, ok := m.list.SelectedItem().(ListItem)
		if !ok {
			return nil, true
		}
		if err := m.state.Store.DeleteNote(i.note.ID); err != nil {
			return m.list.NewStatusMessage(statusStyle("Failed to delete " + i.note.Title)), true
		}
		return tea.Batch(m.refresh(), m.list.NewStatusMessage(statusStyle("Deleted "+i.note.Title))), true

	case key.Matches(msg, m.keys.copy):
		i, ok := m.list.SelectedItem().(ListItem)
		if !ok {
			return nil, true
		}
		if err := clipboard.WriteAll(i.note.Content); err != nil {
			return m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Error copying note: %v", err))), true
		}
		return m.list.NewStatusMessage(statusStyle("Copied " + i.note.Title)), true

	case key.Matches(msg, m.keys.toggleDisplayView):
		m.showDetails = !m.showDetails
		return m.refresh(), true

	case key.Matches(msg, m.keys.toggleHelpMenu):
		m.list.SetShowHelp(!m.list.ShowHelp())
		return nil, true
	}

	return nil, false
}

func (m *Model) applyConfig(msg state.ConfigReloadedMsg) {
	if msg.Config == nil {
		return
	}
	opts := state.TerminalOptions(msg.Config)
	opts.Profile = m.termOpts.Profile
	t, err := preview.NewTerminal(opts)
	if err != nil {
		m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Config error: %v", err)))
		return
	}
	c, err := cache.New(maxCacheSizeMB)
	if err != nil {
		return
	}
	m.termOpts, m.terminal, m.cache = opts, t, c
	m.handlePreview()
}

func (m *Model) refresh() tea.Cmd {
	m.refreshStatus()
	cmd := m.list.SetItems(toItems(m.state.Store.Notes(), m.showDetails))
	m.handlePreview()
	return cmd
}

// refreshStatus updates the root status line in place.
func (m *Model) refreshStatus() {
	if cmd := m.state.StoreStatusCmd(); cmd != nil {
		cmd()
	}
}

func (m *Model) handlePreview() {
	i, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		m.preview = ""
		return
	}

	k := previewKey{ID: i.note.ID, UpdatedAt: i.note.UpdatedAt, Width: m.width / 2}
	if p, exists, err := m.cache.Get(k); err == nil && exists {
		m.preview = p.(string)
		return
	} else if err != nil {
		m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Error accessing cache: %s", err)))
	}

	r := m.terminal.Render(noteSource(m.state.Registry, i.note))
	if err := m.cache.Put(k, r); err != nil {
		m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Error updating cache: %s", err)))
	}
	m.preview = r
}

// noteSource recovers the renderer input for a saved note from its format tag.
func noteSource(r *format.Registry, n note.Note) preview.Source {
	d, err := r.Describe(format.Default)
	for _, tag := range n.Tags {
		if desc, derr := r.Describe(tag); derr == nil {
			d, err = desc, nil
			break
		}
	}
	if err != nil {
		return preview.Source{Text: n.Content}
	}

	src := preview.Source{Format: d, Text: n.Content}
	if d.Structured() {
		src.Document = document.FromMarkdown(n.Content)
	}
	return src
}

func (m *Model) View() string {
	if m.editing {
		return m.editor.View()
	}

	status := rootStatusStyle.Render(m.state.RootStatus.Value())
	left := listStyle.Width(m.width / 2).Render(lipgloss.JoinVertical(lipgloss.Left, m.list.View(), status))

	body := m.preview
	if len(m.list.Items()) == 0 {
		body = emptyStyle.Render("No notes yet. Press n to capture one.")
	}
	right := previewStyle.Render(
		lipgloss.NewStyle().
			Height(m.list.Height()).
			MaxHeight(m.list.Height()).
			MaxWidth(800).
			Render(fmt.Sprintf("%s\n%s", titleStyle.Render("Preview"), body)),
	)

	return appStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

func Run(s *state.State, cfg *config.Config) error {
	m, err := New(s, cfg)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
