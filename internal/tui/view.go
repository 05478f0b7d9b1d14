package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"github.com/rivo/tview"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/engine"
)

// Unicode figurines indexed by board.Piece.
var figurines = [board.NumPieces]rune{
	'♙', '♘', '♗', '♖', '♕', '♔',
	'♟', '♞', '♝', '♜', '♛', '♚',
}

var (
	lightSquare = tcell.NewRGBColor(240, 217, 181)
	darkSquare  = tcell.NewRGBColor(181, 136, 99)
	lastMoveBG  = tcell.NewRGBColor(205, 210, 106)
)

// View is the terminal UI: a board, a status panel, the move record and a
// move entry field.
type View struct {
	app    *tview.Application
	board  *tview.Box
	status *tview.TextView
	record *tview.TextView
	input  *tview.InputField

	game     *Game
	log      logr.Logger
	thinking bool
	cancel   context.CancelFunc
	message  string
}

// NewView builds the widgets for game.
func NewView(game *Game, log logr.Logger) *View {
	v := &View{
		app:    tview.NewApplication(),
		board:  tview.NewBox(),
		status: tview.NewTextView(),
		record: tview.NewTextView(),
		input:  tview.NewInputField(),
		game:   game,
		log:    log.WithName("tui"),
	}

	v.board.SetBorder(true).SetTitle(" sce ")
	v.board.SetDrawFunc(v.drawBoard)

	v.status.SetDynamicColors(true)
	v.status.SetBorder(true)
	v.status.SetBorderPadding(0, 0, 1, 1)
	v.status.SetTitle(" Status ")
	v.status.SetTitleAlign(tview.AlignLeft)

	v.record.SetWordWrap(true)
	v.record.SetBorder(true)
	v.record.SetTitle(" Moves ")
	v.record.SetTitleAlign(tview.AlignLeft)

	v.input.SetLabel("Move: ")
	v.input.SetFieldWidth(12)
	v.input.SetDoneFunc(v.onEnter)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.status, 7, 0, false).
		AddItem(v.record, 0, 1, false)

	main := tview.NewFlex().
		AddItem(v.board, 4+8*3+2, 0, false).
		AddItem(side, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 8+4, 0, false).
		AddItem(v.input, 1, 0, true)

	v.app.SetRoot(root, true).SetFocus(v.input)
	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			v.stopThinking()
			v.app.Stop()
			return nil
		}
		return event
	})

	v.refresh()
	return v
}

// Run starts the UI and blocks until the user quits. If the engine moves
// first it starts thinking immediately.
func (v *View) Run() error {
	if !v.game.HumanToMove() && !v.game.Over() {
		v.startEngine()
	}
	return v.app.Run()
}

func (v *View) onEnter(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	text := v.input.GetText()
	v.input.SetText("")

	switch text {
	case "":
		return
	case "quit", "q":
		v.stopThinking()
		v.app.Stop()
		return
	}

	if v.thinking {
		v.message = "[yellow]Engine is thinking"
		v.refresh()
		return
	}

	pm, err := v.game.PlayHuman(text)
	if err != nil {
		v.message = fmt.Sprintf("[red]%s: %v", text, err)
		v.refresh()
		return
	}
	v.message = ""
	v.log.V(1).Info("human move", "move", pm.Move.String(), "san", pm.SAN)
	v.refresh()

	if !v.game.Over() {
		v.startEngine()
	}
}

// startEngine runs the engine search off the UI goroutine and applies its
// move through QueueUpdateDraw.
func (v *View) startEngine() {
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.thinking = true
	v.refresh()

	// The search works on its own copy; g is only touched on the UI goroutine.
	pos := v.game.Position().Copy()
	eng := v.game.eng
	limits := v.game.limits

	go func() {
		res := eng.Search(ctx, pos, limits)
		v.app.QueueUpdateDraw(func() {
			v.thinking = false
			v.cancel = nil
			if ctx.Err() != nil {
				return
			}
			v.applyEngineResult(res)
		})
	}()
}

func (v *View) applyEngineResult(res engine.Result) {
	v.game.LastResult = res
	if res.Move == board.NoMove {
		v.refresh()
		return
	}
	pm := v.game.play(res.Move)
	v.log.V(1).Info("engine move", "move", pm.Move.String(), "score", res.Score, "depth", res.Depth, "nodes", res.Nodes)
	v.refresh()
}

func (v *View) stopThinking() {
	if v.cancel != nil {
		v.cancel()
	}
}

func (v *View) refresh() {
	g := v.game
	text := fmt.Sprintf("You play [::b]%s[::-]\n", g.Human())

	switch {
	case g.Over():
		text += fmt.Sprintf("[green::b]%s[-::-]\n", g.Outcome())
	case v.thinking:
		text += "Thinking...\n"
	case g.HumanToMove():
		text += "Your move\n"
	}

	if res := g.LastResult; res.Move != board.NoMove {
		text += fmt.Sprintf("Eval: %s  depth %d  %d nodes\n",
			engine.ScoreToString(res.Score), res.Depth, res.Nodes)
	}
	if v.message != "" {
		text += v.message + "[-]\n"
	}

	v.status.SetText(text)
	v.record.SetText(g.MoveText())
}

// drawBoard renders the position from the human's point of view, three
// columns per square.
func (v *View) drawBoard(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	pos := v.game.Position()
	flipped := v.game.Human() == board.Black

	var last board.Move = board.NoMove
	if h := v.game.History(); len(h) > 0 {
		last = h[len(h)-1].Move
	}

	left, top := x+3, y+1
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}
		tview.Print(screen, fmt.Sprintf("%d", rank+1), x+1, top+row, 1, tview.AlignLeft, tcell.ColorWhite)

		for col := 0; col < 8; col++ {
			file := col
			if flipped {
				file = 7 - col
			}
			sq := board.NewSquare(file, rank)

			bg := darkSquare
			if (file+rank)%2 == 1 {
				bg = lightSquare
			}
			if sq == last.From || sq == last.To {
				bg = lastMoveBG
			}

			r := ' '
			piece := pos.PieceAt(sq)
			if piece.IsPiece() {
				r = figurines[piece]
			}
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
			screen.SetContent(left+col*3, top+row, ' ', nil, style)
			screen.SetContent(left+col*3+1, top+row, r, nil, style)
			screen.SetContent(left+col*3+2, top+row, ' ', nil, style)
		}
	}

	for col := 0; col < 8; col++ {
		file := col
		if flipped {
			file = 7 - col
		}
		screen.SetContent(left+col*3+1, top+8, rune('a'+file), nil, tcell.StyleDefault)
	}

	return x, y, width, height
}
