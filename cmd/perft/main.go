// Command perft counts leaf nodes of the legal move tree of a position.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/storage"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	noStore := flag.Bool("nostore", false, "Do not read or write the result cache")
	clearCache := flag.Bool("clear", false, "Clear the result cache and exit")
	verbosity := flag.Int("v", 0, "Log verbosity on stderr")
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("perft")

	var store *storage.Storage
	if !*noStore || *clearCache {
		s, err := storage.NewStorage(logger)
		if err != nil {
			logger.Error(err, "result cache unavailable")
		} else {
			store = s
			defer store.Close()
		}
	}

	if *clearCache {
		if store == nil {
			os.Exit(1)
		}
		n, err := store.ClearPerft()
		if err != nil {
			logger.Error(err, "clearing cache")
			os.Exit(1)
		}
		fmt.Printf("Cleared %d cached results\n", n)
		return
	}

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}
	// Normalized so equivalent inputs share a cache entry.
	key := pos.ToFEN()

	res, cached := lookup(store, logger, key, *depth, *divide)
	if !cached {
		res = run(pos, *depth, *divide)
		if store != nil {
			if err := store.SavePerft(key, *depth, res); err != nil {
				logger.Error(err, "saving result")
			}
		}
	}

	if *divide {
		moves := maps.Keys(res.Divide)
		slices.Sort(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, res.Divide[m])
		}
		fmt.Println()
	}

	secs := res.Elapsed.Seconds()
	nps := 0.0
	if secs > 0 {
		nps = float64(res.Nodes) / secs
	}
	source := ""
	if cached {
		source = " (cached)"
	}
	fmt.Printf("Depth %d: %d nodes in %s, %.0f nps%s\n", *depth, res.Nodes, res.Elapsed, nps, source)
}

// lookup returns a cached result. A cached plain count cannot answer a
// divide request.
func lookup(store *storage.Storage, logger logr.Logger, fen string, depth int, divide bool) (storage.PerftResult, bool) {
	if store == nil {
		return storage.PerftResult{}, false
	}
	res, found, err := store.LoadPerft(fen, depth)
	if err != nil {
		logger.Error(err, "reading cache")
		return storage.PerftResult{}, false
	}
	if !found || (divide && res.Divide == nil) {
		return storage.PerftResult{}, false
	}
	return res, true
}

func run(pos *board.Position, depth int, divide bool) storage.PerftResult {
	start := time.Now()
	var res storage.PerftResult
	if divide {
		res.Divide = board.PerftDivide(pos, depth)
		for _, n := range res.Divide {
			res.Nodes += n
		}
	} else {
		res.Nodes = board.Perft(pos, depth)
	}
	res.Elapsed = time.Since(start)
	return res
}
