// Command sce-uci runs the engine as a UCI engine on stdin/stdout.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/i-am-sentient/sce/internal/engine"
	"github.com/i-am-sentient/sce/internal/storage"
	"github.com/i-am-sentient/sce/internal/uci"
)

var (
	verbosity  = flag.Int("v", 0, "log verbosity on stderr")
	noStore    = flag.Bool("nostore", false, "do not load or persist options and statistics")
	depth      = flag.Int("depth", 0, "default search depth (overrides stored option)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("sce")

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Error(err, "could not create CPU profile")
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error(err, "could not start CPU profile")
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	eng := engine.NewEngine()
	protocol := uci.New(eng, os.Stdin, os.Stdout)
	protocol.SetLogger(logger)

	if !*noStore {
		if store := openStore(logger, eng); store != nil {
			defer store.Close()
			protocol.SetStore(store)
		}
	}

	if *depth > 0 {
		opts := eng.Options()
		opts.DefaultDepth = *depth
		eng.SetOptions(opts)
	}

	if err := protocol.Run(); err != nil {
		logger.Error(err, "reading commands")
	}
}

// openStore opens the options database and applies the saved options to
// eng. The engine runs without persistence when the database is unavailable.
func openStore(logger logr.Logger, eng *engine.Engine) *storage.Storage {
	store, err := storage.NewStorage(logger)
	if err != nil {
		logger.Error(err, "storage unavailable, continuing without persistence")
		return nil
	}

	opts, err := store.LoadOptions()
	if err != nil {
		logger.Error(err, "loading options")
	}
	eng.SetOptions(opts)
	logger.V(1).Info("loaded options", "depth", opts.DefaultDepth, "overhead", opts.MoveOverhead)

	return store
}
