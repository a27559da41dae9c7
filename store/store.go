// Package store keeps named save slots. Slots hold the save format produced
// by engine/save, so a session restored from any store continues exactly.
package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nathoo/storyseed/engine/save"
	"github.com/nathoo/storyseed/types"
)

// Store persists sessions under slot names.
type Store interface {
	Save(ctx context.Context, name string, s *types.Session) error
	Load(ctx context.Context, name string) (*types.Session, error)
	List(ctx context.Context) ([]Slot, error)
	Delete(ctx context.Context, name string) error
}

// Slot describes one saved session.
type Slot struct {
	Name  string
	Turn  int
	Ended bool
}

// NotFoundError is returned when a slot does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no save named %q", e.Name)
}

var slotName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidName reports whether name can be used as a slot name.
func ValidName(name string) error {
	if !slotName.MatchString(name) {
		return fmt.Errorf("invalid save name %q: use letters, digits, '-' or '_'", name)
	}
	return nil
}

func encode(name string, s *types.Session) ([]byte, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	return save.Save(s)
}

func slotFor(name string, data []byte) (Slot, error) {
	s, err := save.Load(data)
	if err != nil {
		return Slot{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return Slot{Name: name, Turn: s.ChoiceCount, Ended: s.Ended}, nil
}
