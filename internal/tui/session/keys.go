package session

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	create            key.Binding
	remove            key.Binding
	copy              key.Binding
	toggleDisplayView key.Binding
	toggleHelpMenu    key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new note"),
		),
		remove: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		copy: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy"),
		),
		toggleDisplayView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "details"),
		),
		toggleHelpMenu: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle help"),
		),
	}
}

func (m listKeyMap) fullHelp() []key.Binding {
	return []key.Binding{
		m.create,
		m.remove,
		m.copy,
		m.toggleDisplayView,
		m.toggleHelpMenu,
	}
}
