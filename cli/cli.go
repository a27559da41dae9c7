// Package cli provides the plain line-oriented front-end: terminal I/O and
// output formatting over a play.Game.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/storyseed/play"
)

// DefaultWidth is the wrap column for narration.
const DefaultWidth = 80

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *play.Game
	Seed      string
	In        io.Reader
	Out       io.Writer
	Width     int
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given game.
func New(g *play.Game, seed string) *CLI {
	return &CLI{
		Game:  g,
		Seed:  seed,
		In:    os.Stdin,
		Out:   os.Stdout,
		Width: DefaultWidth,
	}
}

// Run starts a story and loops: prompt, input, dispatch, output. It returns
// when input ends or the player quits.
func (c *CLI) Run(ctx context.Context) error {
	out, err := c.Game.Start(c.Seed)
	if err != nil {
		return fmt.Errorf("starting story: %w", err)
	}
	c.printOutput(out)

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		out := c.Game.Handle(ctx, input)
		c.printOutput(out)
		if out.Quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (c *CLI) printOutput(out play.Output) {
	for _, l := range out.Lines {
		switch l.Kind {
		case play.KindSystem:
			c.printSystem(l.Text)
		case play.KindError, play.KindTrace, play.KindInfo:
			c.printLine(l.Text)
		default:
			c.printLine(c.wrap(l.Text))
		}
	}
}

func (c *CLI) wrap(text string) string {
	if c.Width <= 0 {
		return text
	}
	return wordwrap.String(text, c.Width)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
