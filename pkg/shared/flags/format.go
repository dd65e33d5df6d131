package flags

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/desk/internal/format"
	"github.com/Paintersrp/desk/internal/fzf"
	"github.com/Paintersrp/desk/internal/preview"
)

func AddFormat(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("format", "f", "", usage)
	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return format.Builtin().IDs(), cobra.ShellCompDirectiveNoFileComp
	})
}

func AddPick(cmd *cobra.Command) {
	cmd.Flags().BoolP("pick", "p", false, "Choose the format with a fuzzy finder")
}

// HandleFormat resolves --format and --pick. An empty id means the caller's
// default applies.
func HandleFormat(cmd *cobra.Command, r *format.Registry, t *preview.Terminal) (string, error) {
	id, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}

	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		finder := fzf.NewFuzzyFinder(r, t, "Select a format.")
		d, err := finder.Run(id)
		if err != nil {
			return "", err
		}
		return d.ID, nil
	}

	if id == "" {
		return "", nil
	}
	if _, err := r.Describe(id); err != nil {
		return "", fzf.UnsupportedError(r, err)
	}
	return id, nil
}
