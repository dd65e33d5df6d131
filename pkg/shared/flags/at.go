package flags

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
)

func AddAt(cmd *cobra.Command) {
	cmd.Flags().String("at", "", "Capture time for the note, e.g. \"2024-03-09 14:05\" (defaults to now)")
}

// HandleAt parses --at in the local time zone. The zero time means now.
func HandleAt(cmd *cobra.Command) (time.Time, error) {
	at, err := cmd.Flags().GetString("at")
	if err != nil || at == "" {
		return time.Time{}, err
	}

	t, err := dateparse.ParseLocal(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value %q: %w", at, err)
	}
	return t, nil
}
