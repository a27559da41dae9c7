// Package resolve maps parsed player input to a choice in the current catalog.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/storyseed/engine/parser"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// AmbiguityError indicates multiple choices matched the input.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no choice matched the input.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no choice %q right now", e.Name)
}

// Resolve picks the choice an intent refers to. Input may be a 1-based
// number, a choice id, a choice key optionally followed by a character name,
// or the start of a choice's text.
func Resolve(s *types.Session, choices []types.Choice, intent parser.Intent) (types.Choice, error) {
	if intent.Kind != parser.Select {
		return types.Choice{}, &NotFoundError{Name: intent.Text}
	}

	// 1. Number.
	if intent.Number != 0 || intent.Key == "" {
		if intent.Number < 1 || intent.Number > len(choices) {
			return types.Choice{}, &NotFoundError{Name: intent.Text}
		}
		return choices[intent.Number-1], nil
	}

	// 2. Exact choice id.
	for _, ch := range choices {
		if strings.EqualFold(ch.ID, intent.Text) {
			return ch, nil
		}
	}

	// 3. Key, narrowed by any character named after it.
	var matches []types.Choice
	for _, ch := range choices {
		if ch.Key == intent.Key && mentions(s, ch, intent.Words) {
			matches = append(matches, ch)
		}
	}

	// 4. Text prefix.
	if len(matches) == 0 {
		for _, ch := range choices {
			if strings.HasPrefix(strings.ToLower(ch.Text), intent.Text) {
				matches = append(matches, ch)
			}
		}
	}

	switch len(matches) {
	case 0:
		return types.Choice{}, &NotFoundError{Name: intent.Text}
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, ch := range matches {
			candidates[i] = describe(s, ch)
		}
		return types.Choice{}, &AmbiguityError{Name: intent.Text, Candidates: candidates}
	}
}

// mentions reports whether every word names the choice's focus character by
// id or by a word of their name. No words always matches.
func mentions(s *types.Session, ch types.Choice, words []string) bool {
	if len(words) == 0 {
		return true
	}
	if ch.Focus == "" {
		return false
	}
	name := strings.ToLower(state.CharacterName(s, ch.Focus))
	for _, w := range words {
		if w == strings.ToLower(ch.Focus) {
			continue
		}
		if !containsStr(strings.Fields(name), w) {
			return false
		}
	}
	return true
}

func describe(s *types.Session, ch types.Choice) string {
	if ch.Focus == "" {
		return ch.Key
	}
	return ch.Key + " " + strings.ToLower(state.CharacterName(s, ch.Focus))
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
