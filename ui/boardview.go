// Package ui specifies custom controls for tview to assist in playing
// chess in the terminal.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"termchess/config"
	"termchess/game"
)

const (
	boardRanks = 8
	boardFiles = 8
	// Squares render two cells wide for a roughly square look.
	cellWidth = 2
	// Columns used by the rank digit and its padding.
	rankGutter = 3
)

// BoardView renders the live game and feeds square clicks to the
// interaction controller. Both cursor navigation and mouse clicks
// resolve to the same controller click call.
type BoardView struct {
	Box     *tview.Box
	ctrl    *game.Controller
	cfg     *config.Config
	flipped bool

	// Cursor in chess coordinates, -1 when hidden.
	curFile int
	curRank int
}

// NewBoardView creates the board widget bound to the controller.
func NewBoardView(ctrl *game.Controller, cfg *config.Config) *BoardView {
	b := &BoardView{
		Box:     tview.NewBox(),
		ctrl:    ctrl,
		cfg:     cfg,
		curFile: -1,
		curRank: -1,
	}
	b.Box.SetDrawFunc(b.draw)
	b.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		evX, evY := event.Position()
		sq, ok := b.squareAtScreen(evX, evY)
		if !ok {
			return action, event
		}
		b.curFile = int(sq.File())
		b.curRank = int(sq.Rank())
		b.ctrl.Click(sq)
		return action, nil
	})
	return b
}

// SetFlipped orients the board with black's home rank at the bottom.
func (b *BoardView) SetFlipped(flipped bool) {
	b.flipped = flipped
}

// MoveCursor moves the selection cursor by a screen delta.
func (b *BoardView) MoveCursor(dx, dy int) {
	if b.curFile < 0 {
		// Start from the last move, or the board center.
		v := b.ctrl.Snapshot()
		if v.LastMove != nil {
			b.curFile = int(v.LastMove.S2().File())
			b.curRank = int(v.LastMove.S2().Rank())
		} else {
			b.curFile, b.curRank = 4, 3
		}
		return
	}
	if b.flipped {
		dx, dy = -dx, -dy
	}
	file := b.curFile + dx
	rank := b.curRank - dy
	if file < 0 || file >= boardFiles || rank < 0 || rank >= boardRanks {
		return
	}
	b.curFile = file
	b.curRank = rank
}

// ClickCursor clicks the square under the cursor.
func (b *BoardView) ClickCursor() {
	if b.curFile < 0 {
		return
	}
	b.ctrl.Click(game.SquareAt(b.curFile, b.curRank))
}

// ResetCursor hides the cursor.
func (b *BoardView) ResetCursor() {
	b.curFile = -1
	b.curRank = -1
}

// HasCursor reports whether the cursor is visible.
func (b *BoardView) HasCursor() bool {
	return b.curFile >= 0
}

// squareAtScreen maps absolute screen coordinates to a board square.
func (b *BoardView) squareAtScreen(evX, evY int) (chess.Square, bool) {
	x, y, _, _ := b.Box.GetInnerRect()
	col := (evX - x - rankGutter) / cellWidth
	row := evY - y
	if evX-x < rankGutter || col < 0 || col >= boardFiles || row < 0 || row >= boardRanks {
		return 0, false
	}
	file, rank := col, boardRanks-1-row
	if b.flipped {
		file, rank = boardFiles-1-col, row
	}
	return game.SquareAt(file, rank), true
}

func (b *BoardView) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	v := b.ctrl.Snapshot()
	colors := b.cfg.Theme.Colors
	coordStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(colors.Coordinate))

	for row := 0; row < boardRanks; row++ {
		for col := 0; col < boardFiles; col++ {
			file, rank := col, boardRanks-1-row
			if b.flipped {
				file, rank = boardFiles-1-col, row
			}
			sq := game.SquareAt(file, rank)
			piece := v.Board.Piece(sq)

			bg := b.squareBG(sq, &v)
			fg := tcell.PaletteColor(colors.WhitePiece)
			if piece != chess.NoPiece && piece.Color() == chess.Black {
				fg = tcell.PaletteColor(colors.BlackPiece)
			}
			style := tcell.StyleDefault.Background(bg).Foreground(fg)

			r := ' '
			if piece != chess.NoPiece {
				r = pieceRune(piece, b.cfg.Theme.ASCIIPieces)
			}
			cx := x + rankGutter + col*cellWidth
			screen.SetContent(cx, y+row, r, nil, style)
			screen.SetContent(cx+1, y+row, ' ', nil, style)
		}
		// Rank digit on the left.
		rank := boardRanks - row
		if b.flipped {
			rank = row + 1
		}
		screen.SetContent(x+1, y+row, rune('0'+rank), nil, coordStyle)
	}

	// File letters below the board.
	for col := 0; col < boardFiles; col++ {
		file := col
		if b.flipped {
			file = boardFiles - 1 - col
		}
		screen.SetContent(x+rankGutter+col*cellWidth, y+boardRanks+1, rune('a'+file), nil, coordStyle)
	}

	return x, y, rankGutter + boardFiles*cellWidth + 1, boardRanks + 2
}

// squareBG picks the square background, highlights taking precedence
// over the base checker pattern.
func (b *BoardView) squareBG(sq chess.Square, v *game.View) tcell.Color {
	colors := b.cfg.Theme.Colors
	if b.curFile >= 0 && sq == game.SquareAt(b.curFile, b.curRank) {
		return tcell.PaletteColor(colors.CursorBG)
	}
	if v.InCheck && sq == v.CheckedKing {
		return tcell.PaletteColor(colors.CheckBG)
	}
	if v.HasSelection && sq == v.Selection {
		return tcell.PaletteColor(colors.SelectedBG)
	}
	if v.Targets[sq] {
		return tcell.PaletteColor(colors.TargetBG)
	}
	if v.LastMove != nil && (sq == v.LastMove.S1() || sq == v.LastMove.S2()) {
		return tcell.PaletteColor(colors.LastMoveBG)
	}
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return tcell.PaletteColor(colors.DarkSquare)
	}
	return tcell.PaletteColor(colors.LightSquare)
}

// pieceRune returns the glyph for a piece.
func pieceRune(p chess.Piece, ascii bool) rune {
	if ascii {
		letters := map[chess.PieceType]rune{
			chess.King:   'k',
			chess.Queen:  'q',
			chess.Rook:   'r',
			chess.Bishop: 'b',
			chess.Knight: 'n',
			chess.Pawn:   'p',
		}
		r := letters[p.Type()]
		if p.Color() == chess.White {
			r = r - 'a' + 'A'
		}
		return r
	}
	white := map[chess.PieceType]rune{
		chess.King:   '♔',
		chess.Queen:  '♕',
		chess.Rook:   '♖',
		chess.Bishop: '♗',
		chess.Knight: '♘',
		chess.Pawn:   '♙',
	}
	black := map[chess.PieceType]rune{
		chess.King:   '♚',
		chess.Queen:  '♛',
		chess.Rook:   '♜',
		chess.Bishop: '♝',
		chess.Knight: '♞',
		chess.Pawn:   '♟',
	}
	if p.Color() == chess.White {
		return white[p.Type()]
	}
	return black[p.Type()]
}

// drawMiniBoard renders a read-only position, used by the history and
// analysis previews.
func drawMiniBoard(screen tcell.Screen, x, y int, board *chess.Board) {
	emptyDark := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

	for row := 0; row < boardRanks; row++ {
		for col := 0; col < boardFiles; col++ {
			sq := game.SquareAt(col, boardRanks-1-row)
			p := board.Piece(sq)
			ch := '·'
			style := emptyDark
			if p != chess.NoPiece {
				ch = pieceRune(p, false)
				if p.Color() == chess.White {
					style = whiteStyle
				} else {
					style = blackStyle
				}
			}
			screen.SetContent(x+col*cellWidth, y+row, ch, nil, style)
		}
	}
}
