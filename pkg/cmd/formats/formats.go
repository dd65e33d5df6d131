package formats

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/fzf"
	"github.com/Paintersrp/desk/internal/state"
	"github.com/Paintersrp/desk/pkg/shared/flags"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D8CFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5F87"))
)

// row is the machine readable form of a descriptor.
type row struct {
	ID        string `yaml:"id"        json:"id"`
	Label     string `yaml:"label"     json:"label"`
	Extension string `yaml:"extension" json:"extension"`
	Mode      string `yaml:"mode"      json:"mode"`
	Preview   bool   `yaml:"preview"   json:"preview"`
}

func NewCmdFormats(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "formats [id]",
		Aliases: []string{"f"},
		Short:   "List the formats a quick note can be written in.",
		Long: heredoc.Doc(`
			Lists every supported format with its editing mode and whether it has
			a live preview. With an id, shows a sample of that format.

			Examples:
			  desk formats
			  desk formats -o json
			  desk formats python
		`),
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return s.Registry.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := flags.HandleOutput(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return describe(cmd.OutOrStdout(), s.Registry, args[0], output)
			}
			return list(cmd.OutOrStdout(), s.Registry, output)
		},
	}

	flags.AddOutput(cmd)
	return cmd
}

func toRow(d format.Descriptor) row {
	return row{
		ID:        d.ID,
		Label:     d.Label,
		Extension: d.Extension,
		Mode:      d.Mode.String(),
		Preview:   d.SupportsPreview,
	}
}

func list(w io.Writer, r *format.Registry, output string) error {
	descriptors := r.List()
	if output != flags.OutputNone {
		rows := make([]row, len(descriptors))
		for i, d := range descriptors {
			rows[i] = toRow(d)
		}
		return flags.Write(w, output, rows)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("", "ID", "LABEL", "MODE", "PREVIEW").
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == 0 {
				return headerStyle
			}
			return cellStyle
		})
	for _, d := range descriptors {
		t.Row(d.Icon, d.ID, d.Label, d.Mode.String(), yesNo(d.SupportsPreview))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func describe(w io.Writer, r *format.Registry, id, output string) error {
	d, err := r.Describe(id)
	if err != nil {
		return fzf.UnsupportedError(r, err)
	}
	if output != flags.OutputNone {
		return flags.Write(w, output, toRow(d))
	}

	_, err = fmt.Fprintf(w, "%s %s\nmode: %s\npreview: %s\n\n%s",
		d.Icon, d.Label, d.Mode, yesNo(d.SupportsPreview), fzf.Sample(d))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
