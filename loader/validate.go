package loader

import (
	"fmt"
	"log"
	"strings"

	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/narrative"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the merged pack. Warnings are logged; errors fail the load.
func validate(p *content.Pack) error {
	ve := check(p)
	for _, w := range ve.Warnings {
		log.Printf("content warning: %s", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(p *content.Pack) *ValidationError {
	ve := &ValidationError{}

	if err := p.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				ve.Errors = append(ve.Errors, line)
			}
		}
	}

	// Templates must parse and render against sample data.
	if _, err := narrative.NewComposer(p); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	known := map[string]bool{}
	for _, name := range content.TraitNames {
		known[name] = true
	}
	for _, t := range p.Templates {
		for name := range t.Traits {
			if !known[name] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"character %q defines trait %q, which no choice reads", t.ID, name))
			}
		}
		if t.Archetype == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("character %q has no archetype", t.ID))
		}
	}

	for name, pool := range p.Pools() {
		seen := map[string]bool{}
		for _, item := range *pool {
			if seen[item] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("pool %q repeats %q", name, item))
			}
			seen[item] = true
		}
	}

	return ve
}
