// Package store keeps the notes captured during a session. It is the commit
// target of the quick-note editor; nothing is persisted.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Paintersrp/desk/internal/note"
)

var (
	ErrDuplicateNote = errors.New("note already exists")
	ErrNotFound      = errors.New("note not found")
)

// Stats summarizes the store for status lines.
type Stats struct {
	Count     int
	LastAdded time.Time
}

// Store is an append-ordered, mutex-guarded list of notes.
type Store struct {
	mu    sync.RWMutex
	notes []note.Note
	index map[string]int
	now   func() time.Time
	onAdd []func(note.Note)
}

// New returns an empty store.
func New() *Store {
	return &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// AddNote validates n and appends it. The store keeps its own copy.
func (s *Store) AddNote(n note.Note) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}

	s.mu.Lock()
	if _, ok := s.index[n.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateNote, n.ID)
	}
	stored := n.Clone()
	s.index[n.ID] = len(s.notes)
	s.notes = append(s.notes, stored)
	hooks := append([]func(note.Note){}, s.onAdd...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(stored.Clone())
	}
	return nil
}

// OnAdd registers a callback run after every successful AddNote.
func (s *Store) OnAdd(fn func(note.Note)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdd = append(s.onAdd, fn)
}

// Notes returns copies of all notes in insertion order.
func (s *Store) Notes() []note.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]note.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

func (s *Store) Note(id string) (note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return note.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.notes[i].Clone(), nil
}

// UpdateNote applies fn to a copy of the note and stores the result. The id
// and creation time cannot change; UpdatedAt is set to the current time.
func (s *Store) UpdateNote(id string, fn func(*note.Note)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := s.notes[i].Clone()
	fn(&updated)
	updated.ID = s.notes[i].ID
	updated.CreatedAt = s.notes[i].CreatedAt
	updated.UpdatedAt = s.now()
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		updated.UpdatedAt = updated.CreatedAt
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}
	s.notes[i] = updated
	return nil
}

func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.notes); j++ {
		s.index[s.notes[j].ID] = j
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Count: len(s.notes)}
	for _, n := range s.notes {
		if n.CreatedAt.After(st.LastAdded) {
			st.LastAdded = n.CreatedAt
		}
	}
	return st
}
