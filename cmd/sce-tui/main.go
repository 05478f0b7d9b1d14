// Command sce-tui plays a game against the engine in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/engine"
	"github.com/i-am-sentient/sce/internal/storage"
	"github.com/i-am-sentient/sce/internal/tui"
)

// Command-line flags
var (
	flagColor    = flag.String("color", "white", "Player color (white or black)")
	flagFEN      = flag.String("fen", "", "Start from this position instead of the initial one")
	flagDepth    = flag.Int("depth", 0, "Engine search depth (0 uses the stored option)")
	flagMoveTime = flag.Duration("movetime", 2*time.Second, "Engine time per move")
	flagNoStore  = flag.Bool("nostore", false, "Do not load stored engine options")
	flagLog      = flag.String("log", "", "Write diagnostics to this file")
	flagVerbose  = flag.Int("v", 0, "Log verbosity")
)

func main() {
	flag.Parse()

	// The terminal belongs to the UI, so logs only go to a file.
	logger := logr.Discard()
	if *flagLog != "" {
		f, err := os.OpenFile(*flagLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		stdr.SetVerbosity(*flagVerbose)
		logger = stdr.New(log.New(f, "", log.LstdFlags)).WithName("sce")
	}

	var human board.Color
	switch *flagColor {
	case "white", "w":
		human = board.White
	case "black", "b":
		human = board.Black
	default:
		fmt.Fprintf(os.Stderr, "invalid color %q\n", *flagColor)
		os.Exit(2)
	}

	eng := engine.NewEngine()
	if !*flagNoStore {
		if store, err := storage.NewStorage(logger); err != nil {
			logger.Error(err, "storage unavailable, using default options")
		} else {
			opts, err := store.LoadOptions()
			if err != nil {
				logger.Error(err, "loading options")
			}
			eng.SetOptions(opts)
			store.Close()
		}
	}

	limits := engine.SearchLimits{Depth: *flagDepth, MoveTime: *flagMoveTime}

	game := tui.NewGame(eng, human, limits)
	if *flagFEN != "" {
		g, err := tui.NewGameFromFEN(eng, human, limits, *flagFEN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		game = g
	}

	if err := tui.NewView(game, logger).Run(); err != nil {
		logger.Error(err, "running UI")
		os.Exit(1)
	}
}
