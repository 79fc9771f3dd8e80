// Package undo holds the commands the 3D core proposes to the application
// and a reference undo stack that applies them.
package undo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simvicus/vic3d/view3d/project"
)

var (
	ErrUnknownID      = errors.New("undo: unknown object id")
	ErrNothingToUndo  = errors.New("undo: nothing to undo")
	ErrNothingToRedo  = errors.New("undo: nothing to redo")
	ErrEmptySelection = errors.New("undo: empty selection")
)

// Change describes what a command touched so views know what to rebuild.
type Change uint8

const (
	ChangeSelection Change = 1 << iota
	ChangeVisibility
	ChangeGeometry
	// ChangeColorMode is raised by views, never by a command.
	ChangeColorMode
)

func (c Change) Has(o Change) bool { return c&o != 0 }

func (c Change) String() string {
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if c.Has(ChangeSelection) {
		add("selection")
	}
	if c.Has(ChangeVisibility) {
		add("visibility")
	}
	if c.Has(ChangeGeometry) {
		add("geometry")
	}
	if c.Has(ChangeColorMode) {
		add("color-mode")
	}
	if s == "" {
		return "none"
	}
	return s
}

// Command is one undoable modification of the project.
type Command interface {
	ID() uuid.UUID
	Description() string
	Changes() Change
	Redo(p *project.Project) error
	Undo(p *project.Project) error
}

// Committer accepts commands from the interaction core. The application
// applies them, records them for undo and notifies the views.
type Committer interface {
	Commit(c Command) error
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(c Command) error

func (f CommitterFunc) Commit(c Command) error { return f(c) }

type header struct {
	id   uuid.UUID
	desc string
}

func newHeader(desc string) header {
	return header{id: uuid.New(), desc: desc}
}

func (h header) ID() uuid.UUID       { return h.id }
func (h header) Description() string { return h.desc }

// Stack applies commands to a project and keeps them for undo and redo.
// Idx points at the command that Undo reverts; -1 means nothing to undo.
type Stack struct {
	Project *project.Project
	Limit   int

	idx  int
	recs []Command
}

func NewStack(p *project.Project) *Stack {
	return &Stack{Project: p, idx: -1}
}

// Commit applies c and records it. Redo history beyond the current index is
// dropped. A command that fails to apply is not recorded.
func (s *Stack) Commit(c Command) error {
	if err := c.Redo(s.Project); err != nil {
		s.Project.Reindex()
		return fmt.Errorf("commit %q: %w", c.Description(), err)
	}
	s.Project.Reindex()
	s.recs = append(s.recs[:s.idx+1], c)
	s.idx++
	if s.Limit > 0 && len(s.recs) > s.Limit {
		drop := len(s.recs) - s.Limit
		s.recs = append(s.recs[:0], s.recs[drop:]...)
		s.idx -= drop
	}
	return nil
}

// Undo reverts the current command and returns it.
func (s *Stack) Undo() (Command, error) {
	if !s.CanUndo() {
		return nil, ErrNothingToUndo
	}
	c := s.recs[s.idx]
	if err := c.Undo(s.Project); err != nil {
		s.Project.Reindex()
		return c, fmt.Errorf("undo %q: %w", c.Description(), err)
	}
	s.Project.Reindex()
	s.idx--
	return c, nil
}

// Redo reapplies the next command and returns it.
func (s *Stack) Redo() (Command, error) {
	if !s.CanRedo() {
		return nil, ErrNothingToRedo
	}
	c := s.recs[s.idx+1]
	if err := c.Redo(s.Project); err != nil {
		s.Project.Reindex()
		return c, fmt.Errorf("redo %q: %w", c.Description(), err)
	}
	s.Project.Reindex()
	s.idx++
	return c, nil
}

func (s *Stack) CanUndo() bool { return s.idx >= 0 }
func (s *Stack) CanRedo() bool { return s.idx < len(s.recs)-1 }
func (s *Stack) Len() int      { return len(s.recs) }

// Find returns the recorded command with the given ID.
func (s *Stack) Find(id uuid.UUID) (Command, bool) {
	for _, c := range s.recs {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}
