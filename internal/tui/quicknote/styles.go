package quicknote

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Bold(true).
			Padding(0, 1)

	formatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#224")).
			Padding(0, 1)

	statusBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	statusStyle = statusBannerStyle.Render

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55")).
			Render

	activeToolStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 1)

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCC")).
			Padding(0, 1)

	disabledToolStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#555")).
				Padding(0, 1)

	editorStyle = lipgloss.NewStyle().
			MarginRight(1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334455"))

	focusedPaneStyle = editorStyle.Copy().
				BorderForeground(lipgloss.Color("#0AF"))

	previewStyle = editorStyle.Copy().
			MarginRight(0)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF"))

	selectionStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#224")).
			Foreground(lipgloss.Color("#0AF"))

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666"))

	boldStyle       = lipgloss.NewStyle().Bold(true)
	italicStyle     = lipgloss.NewStyle().Italic(true)
	boldItalicStyle = lipgloss.NewStyle().Bold(true).Italic(true)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)
