package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AddNote appends a note with a fresh id and timestamps.
func (s *Store) AddNote(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.NewString()
	n.CreatedAt = s.now()
	n.UpdatedAt = n.CreatedAt
	s.notes = append([]Note{n}, s.notes...)
	s.persistNotes(ctx)
	return n, nil
}

// UpdateNote replaces the note matching the id, refreshing UpdatedAt.
func (s *Store) UpdateNote(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			n.CreatedAt = s.notes[i].CreatedAt
			n.UpdatedAt = s.now()
			s.notes[i] = n
			s.persistNotes(ctx)
			return n, nil
		}
	}
	return Note{}, fmt.Errorf("note %s: %w", n.ID, ErrNotFound)
}

// DeleteNote removes the note by id.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notes[:0]
	found := false
	for _, n := range s.notes {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	s.notes = kept
	s.persistNotes(ctx)
	return nil
}
