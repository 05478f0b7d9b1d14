// Package uci implements the line-oriented Universal Chess Interface loop
// on top of the board and engine packages.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/engine"
)

const (
	engineName   = "SCE"
	engineAuthor = "I-AM-SENTIENT"
)

// Store persists engine options and search statistics.
type Store interface {
	SaveOptions(opts engine.Options) error
	RecordSearch(res engine.Result) error
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	log   logr.Logger
	store Store

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a new UCI protocol handler reading commands from in and
// writing responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
		log:      logr.Discard(),
	}
}

// SetLogger sets the diagnostics logger. Protocol output never goes there.
func (u *UCI) SetLogger(l logr.Logger) {
	u.log = l.WithName("uci")
}

// SetStore enables persistence of options and search statistics.
func (u *UCI) SetStore(s Store) {
	u.store = s
}

// Position returns the current protocol position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands until "quit" or end of input. A running search is
// stopped before Run returns.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	defer u.handleStop()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		default:
			u.log.V(1).Info("ignoring unknown command", "command", cmd)
		}
	}

	return scanner.Err()
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	def := engine.DefaultOptions()
	u.println("id name " + engineName)
	u.println("id author " + engineAuthor)
	u.println("")
	u.printf("option name Depth type spin default %d min 1 max %d\n", def.DefaultDepth, engine.MaxPly)
	u.printf("option name Move Overhead type spin default %d min 0 max 5000\n", def.MoveOverhead.Milliseconds())
	u.printf("option name MovesToGo type spin default %d min 1 max 200\n", def.DefaultMovesToGo)
	u.printf("option name MinThinkTime type spin default %d min 1 max 5000\n", def.MinThinkTime.Milliseconds())
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The new position is built completely before it replaces the current one,
// so bad input leaves the previous position in place.
func (u *UCI) handlePosition(args []string) {
	pos, err := parsePosition(args)
	if err != nil {
		u.printf("info string %v\n", err)
		return
	}
	u.handleStop()
	u.position = pos
}

// parsePosition builds the position described by the arguments of a
// "position" command.
func parsePosition(args []string) (*board.Position, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("position: missing startpos or fen")
	}

	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:moveStart], " "))
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		pos = p
	default:
		return nil, fmt.Errorf("position: unknown argument %q", args[0])
	}

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart+1:] {
			m, err := board.ParseMove(moveStr, pos)
			if err != nil {
				return nil, fmt.Errorf("position: %w", err)
			}
			pos.MakeMove(m)
		}
	}

	return pos, nil
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	engine.UCILimits
	Perft int // > 0 runs perft divide instead of a search
}

// parseGoOptions parses "go" command arguments. Unknown tokens are skipped.
// The clock is only used when both wtime and btime are given.
func parseGoOptions(args []string) (GoOptions, error) {
	var opts GoOptions
	var haveWTime, haveBTime bool

	for i := 0; i < len(args); i++ {
		key := args[i]
		switch key {
		case "infinite":
			opts.Infinite = true
			continue
		case "depth", "movetime", "wtime", "btime", "winc", "binc", "movestogo", "perft":
		default:
			continue
		}

		if i+1 >= len(args) {
			return opts, fmt.Errorf("go: missing value for %s", key)
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n < 0 {
			return opts, fmt.Errorf("go: invalid value %q for %s", args[i+1], key)
		}
		i++

		ms := time.Duration(n) * time.Millisecond
		switch key {
		case "depth":
			opts.Depth = n
		case "movetime":
			opts.MoveTime = ms
		case "wtime":
			opts.Time[board.White] = ms
			haveWTime = true
		case "btime":
			opts.Time[board.Black] = ms
			haveBTime = true
		case "winc":
			opts.Inc[board.White] = ms
		case "binc":
			opts.Inc[board.Black] = ms
		case "movestogo":
			opts.MovesToGo = n
		case "perft":
			opts.Perft = n
		}
	}
	opts.HasClock = haveWTime && haveBTime

	return opts, nil
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts, err := parseGoOptions(args)
	if err != nil {
		u.printf("info string %v\n", err)
		return
	}

	u.handleStop()

	if opts.Perft > 0 {
		u.runPerftDivide(opts.Perft)
		return
	}

	limits := u.engine.Options().SearchLimits(opts.UCILimits, u.position.SideToMove)

	// Configure info callback
	u.engine.OnInfo = u.sendInfo

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()

	go func() {
		defer close(u.searchDone)

		res := u.engine.Search(ctx, pos, limits)

		// An infinite search only reports after "stop".
		if limits.Infinite {
			<-ctx.Done()
		}

		u.printf("bestmove %s\n", res.Move)

		if u.store != nil {
			if err := u.store.RecordSearch(res); err != nil {
				u.log.Error(err, "recording search statistics")
			}
		}
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	score := fmt.Sprintf("cp %d", info.Score)
	if n, ok := engine.MateIn(info.Score); ok {
		score = fmt.Sprintf("mate %d", n)
	}

	u.printf("info depth %d score %s nodes %d nps %d time %d pv %s\n",
		info.Depth, score, info.Nodes, info.NPS, info.Time.Milliseconds(), info.BestMove)
}

// searchRunning reports whether a search goroutine has not finished yet.
func (u *UCI) searchRunning() bool {
	if !u.searching {
		return false
	}
	select {
	case <-u.searchDone:
		return false
	default:
		return true
	}
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.cancel()
	<-u.searchDone
	u.searching = false
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	if u.searchRunning() {
		u.printf("info string cannot set %s while searching\n", name)
		return
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		u.printf("info string invalid value %q for option %s\n", value, name)
		return
	}

	opts := u.engine.Options()
	switch strings.ToLower(name) {
	case "depth":
		opts.DefaultDepth = n
	case "move overhead":
		opts.MoveOverhead = time.Duration(n) * time.Millisecond
	case "movestogo":
		opts.DefaultMovesToGo = n
	case "minthinktime":
		opts.MinThinkTime = time.Duration(n) * time.Millisecond
	default:
		u.printf("info string unknown option %s\n", name)
		return
	}
	u.engine.SetOptions(opts)

	if u.store != nil {
		if err := u.store.SaveOptions(u.engine.Options()); err != nil {
			u.log.Error(err, "saving options", "option", name)
		}
	}
}

// handleDisplay prints the board and its FEN.
func (u *UCI) handleDisplay() {
	u.printf("%s\nFEN: %s\n", u.position, u.position.ToFEN())
}

// handlePerft runs perft divide; "perft N" is shorthand for "go perft N".
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			u.printf("info string invalid perft depth %q\n", args[0])
			return
		}
		depth = n
	}
	u.handleStop()
	u.runPerftDivide(depth)
}

// runPerftDivide prints the node count under each root move followed by
// the total, time and speed.
func (u *UCI) runPerftDivide(depth int) {
	start := time.Now()

	var total uint64
	moves := u.position.GenerateLegalMoves()
	for _, m := range moves.Slice() {
		undo := u.position.MakeMove(m)
		nodes := u.engine.Perft(u.position, depth-1)
		u.position.UnmakeMove(undo)

		u.printf("%s: %d\n", m, nodes)
		total += nodes
	}

	elapsed := time.Since(start)
	u.printf("\nNodes searched: %d\n", total)
	u.printf("Time: %.3fs\n", elapsed.Seconds())
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(total)/elapsed.Seconds())
	}
}
