package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"

	"termchess/engine"
)

// Controller turns square clicks into rules-library move attempts and
// schedules the engine's replies. All mutable play state lives here:
// the current game, the selected origin square and the busy flag.
type Controller struct {
	mu      sync.Mutex
	game    *Game
	human   chess.Color
	advisor engine.Advisor
	depth   int
	delay   time.Duration

	hasSelection bool
	selection    chess.Square
	targets      map[chess.Square]bool

	busy       bool
	generation int
	cancel     context.CancelFunc

	status   string
	evalLine string

	onUpdate  func()
	onGameEnd func(pgn, result string)
}

// NewController creates a controller playing against the advisor at the
// given search depth. delay is the pause before each engine request so
// the human's own move is rendered first.
func NewController(advisor engine.Advisor, depth int, delay time.Duration) *Controller {
	return &Controller{
		game:    NewGame(),
		human:   chess.White,
		advisor: advisor,
		depth:   depth,
		delay:   delay,
	}
}

// SetDepth changes the search depth used for subsequent engine requests.
func (c *Controller) SetDepth(depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if depth > 0 {
		c.depth = depth
	}
}

// OnUpdate registers a callback fired after every state change.
func (c *Controller) OnUpdate(f func()) {
	c.onUpdate = f
}

// OnGameEnd registers a callback fired once when a game finishes,
// with the encoded game record and its result tag.
func (c *Controller) OnGameEnd(f func(pgn, result string)) {
	c.onGameEnd = f
}

// StartGame begins a fresh game with the human playing color. A non-empty
// fen seeds the starting position. Any outstanding engine request is
// cancelled and its eventual response discarded.
func (c *Controller) StartGame(color chess.Color, fen string) error {
	c.mu.Lock()
	g := NewGame()
	if fen != "" {
		var err error
		g, err = NewGameFromFEN(fen)
		if err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.invalidateLocked()
	c.game = g
	c.human = color
	c.hasSelection = false
	c.targets = nil
	c.status = ""
	c.evalLine = ""
	c.game.SetHeader("White", playerName(chess.White, color))
	c.game.SetHeader("Black", playerName(chess.Black, color))
	c.game.SetHeader("Date", time.Now().Format("2006.01.02"))

	engineTurn := !c.game.Over() && c.game.Turn() != c.human
	if engineTurn {
		c.scheduleEngineLocked()
	}
	c.mu.Unlock()
	c.update()
	return nil
}

func playerName(side, human chess.Color) string {
	if side == human {
		return "Player"
	}
	return "Remote Engine"
}

// invalidateLocked bumps the generation and cancels the outstanding
// request, so a response in flight is dropped on arrival.
func (c *Controller) invalidateLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.busy = false
}

// Click handles a click on the square. Clicks are ignored entirely while
// the game is over, an engine move is pending, or it is not the human's
// turn.
func (c *Controller) Click(sq chess.Square) {
	c.mu.Lock()
	if c.game.Over() || c.busy || c.game.Turn() != c.human {
		c.mu.Unlock()
		return
	}

	if !c.hasSelection {
		p := c.game.PieceAt(sq)
		if p == chess.NoPiece || p.Color() != c.human {
			c.mu.Unlock()
			return
		}
		c.hasSelection = true
		c.selection = sq
		c.targets = make(map[chess.Square]bool)
		for _, m := range c.game.LegalMovesFrom(sq) {
			c.targets[m.S2()] = true
		}
		c.mu.Unlock()
		c.update()
		return
	}

	from := c.selection
	legal := c.targets[sq]
	c.hasSelection = false
	c.targets = nil

	if !legal {
		// Any other click, including the origin itself, just deselects.
		c.mu.Unlock()
		c.update()
		return
	}

	if err := c.game.TryMove(from, sq); err != nil {
		c.mu.Unlock()
		c.update()
		return
	}

	if c.game.Over() {
		c.finishLocked()
		return
	}
	c.scheduleEngineLocked()
	c.mu.Unlock()
	c.update()
}

// UndoPair retracts the last full move pair. A pending engine request
// is cancelled first so its reply cannot land on the shortened game.
// When the rewound position leaves the engine on move, a fresh request
// is scheduled; otherwise the cancelled request would never be replaced
// and the click guard would block the game for good.
func (c *Controller) UndoPair() {
	c.mu.Lock()
	c.invalidateLocked()
	c.hasSelection = false
	c.targets = nil
	if err := c.game.UndoPair(); err != nil {
		c.status = fmt.Sprintf("Undo failed: %v", err)
	} else {
		c.status = ""
		c.evalLine = ""
	}
	if !c.game.Over() && c.game.Turn() != c.human {
		c.scheduleEngineLocked()
	}
	c.mu.Unlock()
	c.update()
}

// scheduleEngineLocked issues the engine request for the current position
// after the configured delay. Exactly one request can be outstanding; the
// busy flag blocks clicks until the response or failure arrives.
func (c *Controller) scheduleEngineLocked() {
	c.busy = true
	c.status = "Engine is thinking..."
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	gen := c.generation
	fen := c.game.FEN()
	go c.fetchEngineMove(ctx, gen, fen, c.depth)
}

func (c *Controller) fetchEngineMove(ctx context.Context, gen int, fen string, depth int) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return
		}
	}

	analysis, err := c.advisor.BestMove(ctx, fen, depth)

	c.mu.Lock()
	if gen != c.generation {
		// The game was reset or rewound while the request was in flight.
		c.mu.Unlock()
		return
	}
	c.busy = false
	c.cancel = nil

	if err != nil {
		c.status = fmt.Sprintf("Engine error: %v (%s to move)", err, c.game.Turn().Name())
		c.mu.Unlock()
		c.update()
		return
	}

	if err := c.game.ApplyUCI(analysis.BestMove); err != nil {
		c.status = fmt.Sprintf("Engine sent unusable move: %v (%s to move)", err, c.game.Turn().Name())
		c.mu.Unlock()
		c.update()
		return
	}

	c.evalLine = analysis.EvalText()
	c.status = ""
	if analysis.Text != "" {
		c.status = analysis.Text
	}

	if c.game.Over() {
		c.finishLocked()
		return
	}
	c.mu.Unlock()
	c.update()
}

// finishLocked records the outcome and notifies the game-end callback.
// Called with the lock held; releases it.
func (c *Controller) finishLocked() {
	c.status = c.game.OutcomeText()
	pgn := c.game.PGN()
	result := c.game.Result()
	cb := c.onGameEnd
	c.mu.Unlock()
	if cb != nil {
		cb(pgn, result)
	}
	c.update()
}

func (c *Controller) update() {
	if c.onUpdate != nil {
		c.onUpdate()
	}
}

// View is a consistent snapshot of everything the renderer needs.
type View struct {
	Board        *chess.Board
	Turn         chess.Color
	Human        chess.Color
	HasSelection bool
	Selection    chess.Square
	Targets      map[chess.Square]bool
	LastMove     *chess.Move
	CheckedKing  chess.Square
	InCheck      bool
	Busy         bool
	Over         bool
	Status       string
	EvalLine     string
	Outcome      string
	MovePairs    []MovePair
}

// Snapshot returns a copy of the current state for rendering. Positions
// in the rules library are immutable, so the board can be drawn safely
// after the lock is released.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Board:        c.game.g.Position().Board(),
		Turn:         c.game.Turn(),
		Human:        c.human,
		HasSelection: c.hasSelection,
		Selection:    c.selection,
		Busy:         c.busy,
		Over:         c.game.Over(),
		Status:       c.status,
		EvalLine:     c.evalLine,
		Outcome:      c.game.OutcomeText(),
		LastMove:     c.game.LastMove(),
		MovePairs:    c.game.MovePairs(),
	}
	if sq, ok := c.game.CheckedKing(); ok {
		v.InCheck = true
		v.CheckedKing = sq
	}
	if c.hasSelection {
		v.Targets = make(map[chess.Square]bool, len(c.targets))
		for sq := range c.targets {
			v.Targets[sq] = true
		}
	}
	return v
}

// FEN returns the current position encoding, for the analysis view.
func (c *Controller) FEN() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game.FEN()
}

// Busy reports whether an engine request is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Human returns the human player's color.
func (c *Controller) Human() chess.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.human
}
