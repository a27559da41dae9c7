// Storyseed is a deterministic, seed-driven interactive story engine.
// Usage: storyseed [--version] [--plain] [--script <file>] [--trace] [--seed <seed>] [--content <dir>]
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/nathoo/storyseed/cli"
	"github.com/nathoo/storyseed/config"
	"github.com/nathoo/storyseed/engine"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/enhancer/gemini"
	"github.com/nathoo/storyseed/loader"
	"github.com/nathoo/storyseed/play"
	"github.com/nathoo/storyseed/store"
	"github.com/nathoo/storyseed/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: storyseed [--version] [--plain] [--script <file>] [--trace] [--seed <seed>] [--content <dir>]"

type options struct {
	plain      bool
	trace      bool
	scriptFile string
	seed       string
	contentDir string
}

func main() {
	var opts options

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("storyseed %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script", "--seed", "--content":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			i++
			switch args[i-1] {
			case "--script":
				opts.scriptFile = args[i]
			case "--seed":
				opts.seed = args[i]
			default:
				opts.contentDir = args[i]
			}
		default:
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.seed == "" {
		opts.seed = cfg.Seed
	}
	if opts.contentDir == "" {
		opts.contentDir = cfg.ContentDir
	}

	// Use plain CLI if --plain, a script, or stdout is not a terminal.
	plain := opts.plain || opts.scriptFile != "" || !isTerminal()

	logger, closeLog, err := newLogger(cfg.LogFile, plain)
	if err != nil {
		return err
	}
	defer closeLog()
	log.SetOutput(logger.Writer()) // content warnings from the loader

	// Load and compile Lua story content, or fall back to the built-in pack.
	pack := content.Default()
	if opts.contentDir != "" {
		if pack, err = loader.Load(opts.contentDir); err != nil {
			return fmt.Errorf("loading content: %w", err)
		}
	}

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.EnhancementEnabled() {
		enh, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer enh.Close()
		engOpts = append(engOpts, engine.WithEnhancer(enh), engine.WithTimeout(cfg.EnhanceTimeout))
	}
	eng, err := engine.New(pack, engOpts...)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	g := play.New(eng, st)
	g.Trace = opts.trace

	if !plain {
		return tui.Run(ctx, g, opts.seed)
	}

	c := cli.New(g, opts.seed)
	// Script mode: read input from the file and echo each line.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	return c.Run(ctx)
}

// newLogger writes to the log file when one is configured. Otherwise plain
// mode logs to stderr and the TUI discards logs, since they would corrupt
// the screen.
func newLogger(path string, plain bool) (*log.Logger, func(), error) {
	const flags = log.LstdFlags
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return log.New(f, "storyseed: ", flags), func() { f.Close() }, nil
	case plain:
		return log.New(os.Stderr, "storyseed: ", flags), func() {}, nil
	default:
		return log.New(io.Discard, "", 0), func() {}, nil
	}
}

func openStore(cfg config.Config) (store.Store, func(), error) {
	if cfg.UseSQLite() {
		s, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	s, err := store.NewFileStore(cfg.SaveDir)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
