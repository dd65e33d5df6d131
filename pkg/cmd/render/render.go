package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/fzf"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/pkg/shared/flags"
)

// minWidth keeps glamour from wrapping every word onto its own line.
const minWidth = 20

func NewCmdRender(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a file the way the quick note preview shows it.",
		Long: heredoc.Doc(`
			Renders a file, or stdin, through the quick note preview. The format
			comes from --format, then the file extension, then the configured
			default format.

			By default the output is colored for the terminal. --html prints the
			sanitized preview HTML instead.

			Examples:
			  desk render notes.md
			  desk render --html notes.md > notes.html
			  cat main.py | desk render -f python
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, s, path)
		},
	}

	flags.AddFormat(cmd, "Format of the input")
	cmd.Flags().Bool("html", false, "Print preview HTML instead of terminal output")
	cmd.Flags().IntP("width", "w", 0, "Wrap width of terminal output (defaults to the terminal width)")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, path string) error {
	cfg, err := s.Settings()
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	id, err := flags.HandleFormat(cmd, s.Registry, nil)
	if err != nil {
		return err
	}
	d, err := resolveFormat(s.Registry, id, path, cfg.DefaultFormat)
	if err != nil {
		return fzf.UnsupportedError(s.Registry, err)
	}

	src := preview.Source{Format: d, Text: text}
	if d.Structured() {
		src.Document = document.FromMarkdown(text)
	}

	w := cmd.OutOrStdout()
	if html, _ := cmd.Flags().GetBool("html"); html {
		res, ok := s.Renderer.Render(src)
		if !ok {
			return fmt.Errorf("format %q has no preview", d.ID)
		}
		_, err := io.WriteString(w, res.HTML)
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	opts := state.TerminalOptions(cfg)
	opts.WordWrap = wrapWidth(width, cfg)
	t, err := preview.NewTerminal(opts)
	if err != nil {
		return fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	out := t.Render(src)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", errors.New("no input: pass a file or pipe content on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolveFormat picks the explicit id, then a format registered for the file
// extension, then fallback.
func resolveFormat(r *format.Registry, id, path, fallback string) (format.Descriptor, error) {
	if id != "" {
		return r.Describe(id)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		for _, d := range r.List() {
			if d.Extension == ext {
				return d, nil
			}
		}
	}
	return r.Describe(fallback)
}

// wrapWidth prefers the flag, then the width of a terminal stdout, then the
// configured preview wrap.
func wrapWidth(flagWidth int, cfg *config.Config) int {
	width := flagWidth
	if width <= 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && term.IsTerminal(int(os.Stdout.Fd())) {
			width = w
		}
	}
	if width <= 0 {
		width = cfg.Preview.WordWrap
	}
	if width < minWidth {
		width = minWidth
	}
	return width
}
