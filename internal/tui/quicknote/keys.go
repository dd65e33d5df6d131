package quicknote

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Paintersrp/desk/internal/document"
)

type keyMap struct {
	save        key.Binding
	cancel      key.Binding
	toggleFocus key.Binding
	nextFormat  key.Binding
	prevFormat  key.Binding
	toggleHelp  key.Binding
	commands    map[document.Command]key.Binding
}

func newKeyMap() *keyMap {
	return &keyMap{
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		toggleFocus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "editor/preview"),
		),
		nextFormat: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "next format"),
		),
		prevFormat: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous format"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		commands: map[document.Command]key.Binding{
			document.CmdBold:        key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "bold")),
			document.CmdItalic:      key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
			document.CmdHeading1:    key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1", "heading 1")),
			document.CmdHeading2:    key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "heading 2")),
			document.CmdHeading3:    key.NewBinding(key.WithKeys("alt+3"), key.WithHelp("alt+3", "heading 3")),
			document.CmdBulletList:  key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "bullet list")),
			document.CmdOrderedList: key.NewBinding(key.WithKeys("alt+o"), key.WithHelp("alt+o", "ordered list")),
			document.CmdBlockquote:  key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "quote")),
			document.CmdCodeBlock:   key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "code block")),
			document.CmdUndo:        key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
			document.CmdRedo:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		},
	}
}

// command returns the structured command bound to msg, if any.
func (k *keyMap) command(matches func(key.Binding) bool) (document.Command, bool) {
	for _, cmd := range document.Commands {
		if b, ok := k.commands[cmd]; ok && matches(b) {
			return cmd, true
		}
	}
	return 0, false
}

func (k *keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.save, k.cancel, k.nextFormat, k.toggleFocus, k.toggleHelp}
}

func (k *keyMap) FullHelp() [][]key.Binding {
	formatting := make([]key.Binding, 0, len(document.Commands))
	for _, cmd := range document.Commands {
		formatting = append(formatting, k.commands[cmd])
	}
	return [][]key.Binding{
		{k.save, k.cancel, k.toggleFocus},
		{k.nextFormat, k.prevFormat, k.toggleHelp},
		formatting[:6],
		formatting[6:],
	}
}
