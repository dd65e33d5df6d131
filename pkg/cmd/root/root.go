package root

import (
	"io"
	"log"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/constants"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/internal/tui/session"
	"github.com/Paintersrp/desk/pkg/cmd/formats"
	"github.com/Paintersrp/desk/pkg/cmd/quick"
	"github.com/Paintersrp/desk/pkg/cmd/render"
)

// persistentFlags maps config keys onto global flags.
var persistentFlags = []struct {
	key, name, usage string
	isInt            bool
}{
	{config.KeyDefaultFormat, "default-format", "Format a new note starts in", false},
	{config.KeyHistoryLimit, "history-limit", "Undo steps kept per note", true},
	{config.KeyTitleLayout, "title-layout", "Go time layout used in note titles", false},
	{config.KeyPreviewStyle, "preview-style", "Glamour style of the terminal preview", false},
	{config.KeyPreviewWordWrap, "word-wrap", "Word wrap width of the terminal preview", true},
	{config.KeyHighlightStyle, "highlight-style", "Chroma style for program source", false},
	{config.KeyLogFile, "log-file", "Write debug logs to this file", false},
}

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	var logFile *os.File

	cmd := &cobra.Command{
		Use:     "desk",
		Version: constants.Version,
		Short:   "Capture quick notes from a terminal dashboard.",
		Long: heredoc.Doc(`
			desk is a small personal dashboard for capturing quick notes.

			Run without a command to open the session dashboard. Press n to write a
			note in markdown, markdown source, plain text or a programming language,
			watch the live preview and save it with ctrl+s.

			Examples:
			  desk
			  desk quick --format python
			  desk quick --yank --output yaml
			  desk render notes.md
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := setupLogging(viper.GetString(config.KeyLogFile))
			logFile = f
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.Settings()
			if err != nil {
				return err
			}
			return session.Run(s, cfg)
		},
	}

	for _, f := range persistentFlags {
		if f.isInt {
			cmd.PersistentFlags().Int(f.name, viper.GetInt(f.key), f.usage)
		} else {
			cmd.PersistentFlags().String(f.name, viper.GetString(f.key), f.usage)
		}
		if err := viper.BindPFlag(f.key, cmd.PersistentFlags().Lookup(f.name)); err != nil {
			return nil, err
		}
	}

	cmd.AddCommand(
		quick.NewCmdQuick(s),
		formats.NewCmdFormats(s),
		render.NewCmdRender(s),
	)

	return cmd, nil
}

// setupLogging routes the standard logger to path, or discards it.
func setupLogging(path string) (*os.File, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := tea.LogToFile(path, "desk")
	if err != nil {
		return nil, err
	}
	log.Printf("--- desk %s ---", constants.Version)
	return f, nil
}
