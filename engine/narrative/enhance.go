package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nathoo/storyseed/types"
)

// DefaultTimeout bounds a single enhancement call.
const DefaultTimeout = 3 * time.Second

// ErrEmptyEnhancement is returned when an enhancer produces no text.
var ErrEmptyEnhancement = errors.New("enhancer returned no text")

// Enhancer rewrites offline narration, typically with a language model.
// Implementations must honor ctx cancellation.
type Enhancer interface {
	Enhance(ctx context.Context, base string, world types.World) (string, error)
}

// Noop returns the base text unchanged.
type Noop struct{}

func (Noop) Enhance(_ context.Context, base string, _ types.World) (string, error) {
	return base, nil
}

// Enhance runs e with a timeout. On error, timeout, cancellation, or empty
// output it returns the base text and the reason; the story never blocks on
// the enhancer.
func Enhance(ctx context.Context, e Enhancer, timeout time.Duration, base string, world types.World) (string, error) {
	if e == nil {
		return base, nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := e.Enhance(ctx, base, world)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return base, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return base, res.err
		}
		if strings.TrimSpace(res.text) == "" {
			return base, ErrEmptyEnhancement
		}
		return strings.TrimSpace(res.text), nil
	}
}
