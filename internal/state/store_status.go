package state

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/Paintersrp/desk/internal/store"
)

// StoreStatsMsg notifies subscribers that the root status line was refreshed
// from the note store.
type StoreStatsMsg struct {
	Line string
}

// StoreStatusCmd summarizes the session's notes, updates the shared root
// status line and returns a message that consumers can use to rerender.
func (s *State) StoreStatusCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		line := ""
		if s.Store != nil {
			line = formatStoreStatus(s.Store.Stats(), time.Now())
		}
		if s.RootStatus != nil {
			s.RootStatus.Set(line)
		}
		return StoreStatsMsg{Line: line}
	}
}

func formatStoreStatus(stats store.Stats, now time.Time) string {
	parts := []string{fmt.Sprintf("Notes: %s", humanize.Comma(int64(stats.Count)))}
	if !stats.LastAdded.IsZero() {
		parts = append(parts, "last "+humanize.RelTime(stats.LastAdded, now, "ago", "from now"))
	}

	return strings.Join(parts, " · ")
}
