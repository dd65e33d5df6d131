package flags

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func AddYank(cmd *cobra.Command) {
	cmd.Flags().
		BoolP("yank", "y", false, "Seed the editor with the clipboard contents.")
}

// HandleYank returns the clipboard contents when --yank is set.
func HandleYank(cmd *cobra.Command) (string, error) {
	yank, err := cmd.Flags().GetBool("yank")
	if err != nil || !yank {
		return "", err
	}

	return ReadClipboard()
}

var readAll = clipboard.ReadAll

func ReadClipboard() (string, error) {
	content, err := readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return content, nil
}
