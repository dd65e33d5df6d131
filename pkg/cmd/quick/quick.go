package quick

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/desk/internal/config"
	"github.com/Paintersrp/desk/internal/modal"
	"github.com/Paintersrp/desk/internal/note"
	"github.com/Paintersrp/desk/internal/preview"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/internal/tui/quicknote"
	"github.com/Paintersrp/desk/pkg/shared/flags"
)

// confirm asks before the clipboard is saved without opening the editor.
var confirm = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.Yes).RunPrompt()
}

// edit runs the interactive editor.
var edit = quicknote.Run

func NewCmdQuick(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quick",
		Aliases: []string{"q"},
		Short:   "Capture a single quick note.",
		Long: heredoc.Doc(`
			Opens the quick note editor on its own. Saving with ctrl+s adds the
			note to this session and exits, ctrl+c discards it.

			--yank seeds the editor with the clipboard. --clip saves the clipboard
			as a note right away after a confirmation.

			Examples:
			  desk quick
			  desk quick --format python
			  desk quick --pick
			  desk quick --yank --output yaml
			  desk quick --clip --at "yesterday 9am" -o json
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s)
		},
	}

	flags.AddFormat(cmd, "Format the editor opens in")
	flags.AddPick(cmd)
	flags.AddYank(cmd)
	flags.AddOutput(cmd)
	flags.AddAt(cmd)
	cmd.Flags().Bool("clip", false, "Save the clipboard as a note without opening the editor")

	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	cfg, err := s.Settings()
	if err != nil {
		return err
	}

	output, err := flags.HandleOutput(cmd)
	if err != nil {
		return err
	}
	at, err := flags.HandleAt(cmd)
	if err != nil {
		return err
	}

	termOpts := state.TerminalOptions(cfg)
	t, err := preview.NewTerminal(termOpts)
	if err != nil {
		return fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	formatID, err := flags.HandleFormat(cmd, s.Registry, t)
	if err != nil {
		return err
	}

	seed, err := flags.HandleYank(cmd)
	if err != nil {
		return err
	}

	ctrl, err := modal.New(s.Store, options(s, cfg, at))
	if err != nil {
		return err
	}

	var (
		n     note.Note
		saved bool
	)
	if clip, _ := cmd.Flags().GetBool("clip"); clip {
		n, saved, err = saveClipboard(ctrl, formatID, seed)
	} else {
		n, saved, err = edit(ctrl, quicknote.Options{
			Terminal: termOpts,
			Format:   formatID,
			Seed:     seed,
			Watcher:  s.Watcher,
		})
	}
	if err != nil {
		return err
	}

	return report(cmd.OutOrStdout(), output, n, saved)
}

func options(s *state.State, cfg *config.Config, at time.Time) modal.Options {
	opts := s.ModalOptions(cfg)
	if !at.IsZero() {
		opts.Notes.Now = func() time.Time { return at }
	}
	return opts
}

// saveClipboard commits text without the editor. seed is the clipboard
// content read by --yank; it is read here when --clip is used alone.
func saveClipboard(ctrl *modal.Controller, formatID, seed string) (note.Note, bool, error) {
	if seed == "" {
		text, err := flags.ReadClipboard()
		if err != nil {
			return note.Note{}, false, err
		}
		seed = text
	}

	ok, err := confirm(fmt.Sprintf("Save %s from the clipboard as a note?", humanize.Bytes(uint64(len(seed)))))
	if err != nil {
		return note.Note{}, false, err
	}
	if !ok {
		return note.Note{}, false, nil
	}

	ctrl.Open()
	if formatID != "" {
		if err := ctrl.SetFormat(formatID); err != nil {
			return note.Note{}, false, err
		}
	}
	if err := ctrl.SetContent(seed); err != nil {
		return note.Note{}, false, err
	}
	n, err := ctrl.Save()
	if err != nil {
		_ = ctrl.Cancel()
		return note.Note{}, false, err
	}
	return n, true, nil
}

func report(w io.Writer, output string, n note.Note, saved bool) error {
	if !saved {
		if output == flags.OutputNone {
			fmt.Fprintln(w, "Quick note discarded.")
		}
		return nil
	}

	if output != flags.OutputNone {
		return flags.Write(w, output, n)
	}

	fmt.Fprintf(w, "Saved %q (%s, %s, %s words)\n",
		n.Title,
		n.Tags[0],
		humanize.Bytes(uint64(len(n.Content))),
		humanize.Comma(int64(wordCount(n.Content))),
	)
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
