package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/Paintersrp/desk/internal/cache"
	"github.com/Paintersrp/desk/internal/note"
)

type ListItem struct {
	note        note.Note
	showDetails bool
	now         func() time.Time
}

func (i ListItem) Title() string {
	return i.note.Title
}

func (i ListItem) Description() string {
	tags := "No tags"
	if len(i.note.Tags) > 0 {
		tags = strings.Join(i.note.Tags, ", ")
	}

	if !i.showDetails {
		return fmt.Sprintf("[%s] %s", tags, humanize.RelTime(i.note.CreatedAt, i.clock(), "ago", "from now"))
	}

	return fmt.Sprintf(
		"%s, Size: %s, Lines: %s",
		i.note.ID,
		cache.ReadableSize(int64(len(i.note.Content))),
		humanize.Comma(int64(strings.Count(i.note.Content, "\n")+1)),
	)
}

func (i ListItem) FilterValue() string {
	return strings.Join([]string{i.note.Title, "[" + strings.Join(i.note.Tags, " ") + "]", i.note.Content}, " ")
}

func (i ListItem) clock() time.Time {
	if i.now != nil {
		return i.now()
	}
	return time.Now()
}

// toItems lists notes newest first.
func toItems(notes []note.Note, showDetails bool) []list.Item {
	items := make([]list.Item, 0, len(notes))
	for idx := len(notes) - 1; idx >= 0; idx-- {
		items = append(items, ListItem{note: notes[idx], showDetails: showDetails})
	}
	return items
}
