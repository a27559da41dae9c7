package play

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/storyseed/engine/parser"
	"github.com/nathoo/storyseed/store"
	"github.com/nathoo/storyseed/transcript"
)

// meta dispatches /commands.
func (g *Game) meta(ctx context.Context, intent parser.Intent) Output {
	var out Output
	var arg string
	if len(intent.Args) > 0 {
		arg = intent.Args[0]
	}

	switch intent.Meta {
	case "quit":
		out.add(KindSystem, "Goodbye.")
		out.Quit = true

	case "help":
		for _, line := range helpLines {
			out.add(KindInfo, line)
		}

	case "choices":
		if g.session == nil {
			out.add(KindError, "No story is running. Type /restart to begin.")
			break
		}
		g.listChoices(&out)

	case "restart":
		started, err := g.start(arg)
		if err != nil {
			out.addf(KindError, "Restart failed: %v", err)
			break
		}
		out = started

	case "save":
		g.cmdSave(ctx, &out, arg)

	case "load":
		g.cmdLoad(ctx, &out, arg)

	case "saves":
		g.cmdSaves(ctx, &out)

	case "delete":
		g.cmdDelete(ctx, &out, arg)

	case "export":
		g.cmdExport(&out, arg)

	case "state":
		if g.session == nil {
			out.add(KindError, "No story is running.")
			break
		}
		for _, line := range StateLines(g.session) {
			out.add(KindInfo, line)
		}

	case "trace":
		g.Trace = !g.Trace
		if g.Trace {
			out.add(KindSystem, "Trace output enabled.")
		} else {
			out.add(KindSystem, "Trace output disabled.")
		}

	default:
		out.addf(KindSystem, "Unknown command: %s. Type /help for available commands.", intent.Text)
	}
	return out
}

var helpLines = []string{
	"Choosing:",
	"  <number>             Pick a choice from the list",
	"  <word> [name]        Pick by its first word, e.g. 'comfort mara' or 'wait'",
	"",
	"System:",
	"  /choices (/c)        Show the current choices again",
	"  /restart [seed]      Begin a new story (random seed by default)",
	"  /save [name]         Save the story (default: quicksave)",
	"  /load [name]         Load a saved story (default: quicksave)",
	"  /saves               List saved stories",
	"  /delete <name>       Delete a saved story",
	"  /export [pdf|txt]    Write a transcript of the story so far",
	"  /state               Show the story's hidden state",
	"  /trace               Toggle the event trace after each turn",
	"  /help                Show this help",
	"  /quit                Leave",
}

func (g *Game) storeReady(out *Output) bool {
	if g.Store == nil {
		out.add(KindError, "Saving is not configured.")
		return false
	}
	return true
}

func (g *Game) cmdSave(ctx context.Context, out *Output, name string) {
	if !g.storeReady(out) {
		return
	}
	if g.session == nil {
		out.add(KindError, "Nothing to save yet.")
		return
	}
	if name == "" {
		name = DefaultSlot
	}
	if err := g.Store.Save(ctx, name, g.session); err != nil {
		out.addf(KindError, "Save failed: %v", err)
		return
	}
	out.addf(KindSystem, "Story saved to %s (turn %d).", name, g.session.ChoiceCount)
}

func (g *Game) cmdLoad(ctx context.Context, out *Output, name string) {
	if !g.storeReady(out) {
		return
	}
	if name == "" {
		name = DefaultSlot
	}
	s, err := g.Store.Load(ctx, name)
	if err != nil {
		out.addf(KindError, "Load failed: %v", err)
		return
	}
	g.setSession(s)
	out.addf(KindSystem, "Story loaded from %s (turn %d).", name, s.ChoiceCount)
	out.add(KindNarration, "")
	if n := len(s.History); n > 0 {
		out.paragraphs(s.History[n-1].Text)
	} else {
		out.paragraphs(g.Engine.Intro(s))
	}
	g.listChoices(out)
}

func (g *Game) cmdSaves(ctx context.Context, out *Output) {
	if !g.storeReady(out) {
		return
	}
	slots, err := g.Store.List(ctx)
	if err != nil {
		out.addf(KindError, "Listing saves failed: %v", err)
		return
	}
	if len(slots) == 0 {
		out.add(KindSystem, "No saved stories.")
		return
	}
	for _, slot := range slots {
		status := fmt.Sprintf("turn %d", slot.Turn)
		if slot.Ended {
			status += ", ended"
		}
		out.addf(KindInfo, "  %-20s %s", slot.Name, status)
	}
}

func (g *Game) cmdDelete(ctx context.Context, out *Output, name string) {
	if !g.storeReady(out) {
		return
	}
	if name == "" {
		out.add(KindError, "Usage: /delete <name>")
		return
	}
	err := g.Store.Delete(ctx, name)
	var nf *store.NotFoundError
	switch {
	case errors.As(err, &nf):
		out.addf(KindError, "%v.", err)
	case err != nil:
		out.addf(KindError, "Delete failed: %v", err)
	default:
		out.addf(KindSystem, "Deleted %s.", name)
	}
}

func (g *Game) cmdExport(out *Output, format string) {
	if g.session == nil {
		out.add(KindError, "Nothing to export yet.")
		return
	}
	format = strings.ToLower(format)
	if format == "" {
		format = "pdf"
	}
	write := transcript.WritePDF
	switch format {
	case "pdf":
	case "txt", "text":
		format = "txt"
		write = transcript.WriteText
	default:
		out.addf(KindError, "Unknown export format %q. Use pdf or txt.", format)
		return
	}

	if err := os.MkdirAll(g.ExportDir, 0o755); err != nil {
		out.addf(KindError, "Export failed: %v", err)
		return
	}
	path := filepath.Join(g.ExportDir, fmt.Sprintf("story-%s.%s", g.session.Seed, format))
	f, err := os.Create(path)
	if err != nil {
		out.addf(KindError, "Export failed: %v", err)
		return
	}
	if err := write(f, g.session); err != nil {
		_ = f.Close()
		out.addf(KindError, "Export failed: %v", err)
		return
	}
	if err := f.Close(); err != nil {
		out.addf(KindError, "Export failed: %v", err)
		return
	}
	out.addf(KindSystem, "Transcript written to %s.", path)
}
