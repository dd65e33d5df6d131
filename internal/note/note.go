// Package note defines the record a quick note becomes once it is saved.
package note

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	// IDPrefix starts every note id.
	IDPrefix = "note-"
	// TitlePrefix starts every generated title.
	TitlePrefix = "Note - "
	// DefaultTitleLayout formats the save time in generated titles.
	DefaultTitleLayout = "1/2/2006, 3:04:05 PM"
)

var idPattern = regexp.MustCompile(`^` + IDPrefix + `\S+$`)

// Note is a saved note. Ownership passes to the store on commit.
type Note struct {
	ID        string    `yaml:"id" json:"id"`
	Title     string    `yaml:"title" json:"title"`
	Content   string    `yaml:"content" json:"content"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updatedAt"`
	Tags      []string  `yaml:"tags" json:"tags"`
	Category  string    `yaml:"category,omitempty" json:"category,omitempty"`
}

// IDSource generates note ids.
type IDSource func() (string, error)

// NewID returns a time-ordered id: the prefix followed by a UUIDv7.
func NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return IDPrefix + u.String(), nil
}

// Title returns the generated title for a note saved at t.
func Title(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTitleLayout
	}
	return TitlePrefix + t.Format(layout)
}

// Factory builds notes from editor content.
type Factory struct {
	Now         func() time.Time
	IDs         IDSource
	TitleLayout string
}

// Build packages content written in formatID into a new note. The format id is
// the note's only tag.
func (f Factory) Build(content, formatID string) (Note, error) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	ids := NewID
	if f.IDs != nil {
		ids = f.IDs
	}

	id, err := ids()
	if err != nil {
		return Note{}, err
	}
	at := now()

	n := Note{
		ID:        id,
		Title:     Title(at, f.TitleLayout),
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
		Tags:      []string{formatID},
	}
	return n, n.Validate()
}

var errBlank = errors.New("must not be blank")

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

// Validate checks the invariants every stored note satisfies.
func (n Note) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required, validation.Match(idPattern)),
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Content, validation.By(notBlank)),
		validation.Field(&n.CreatedAt, validation.Required),
		validation.Field(&n.UpdatedAt, validation.Required, validation.Min(n.CreatedAt)),
		validation.Field(&n.Tags, validation.Each(validation.Required)),
	)
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	return n
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
