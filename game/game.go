// Package game wraps the notnil/chess rules library and drives the
// board interaction against a remote engine.
package game

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Game owns the authoritative chess position. All legality, termination
// and serialization questions are answered by the rules library; this
// wrapper only narrows its surface to what the application consumes.
type Game struct {
	g        *chess.Game
	startFEN string // empty for the standard start position
}

// NewGame starts a game from the standard position.
func NewGame() *Game {
	return &Game{g: chess.NewGame()}
}

// NewGameFromFEN starts a game from the given position encoding.
func NewGameFromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	return &Game{g: chess.NewGame(opt), startFEN: fen}, nil
}

// SquareAt returns the square for 0-indexed file and rank, a1 being (0, 0).
func SquareAt(file, rank int) chess.Square {
	return chess.Square(rank*8 + file)
}

// PieceAt returns the piece on the square, chess.NoPiece when empty.
func (gm *Game) PieceAt(sq chess.Square) chess.Piece {
	return gm.g.Position().Board().Piece(sq)
}

// Turn returns the side to move.
func (gm *Game) Turn() chess.Color {
	return gm.g.Position().Turn()
}

// Over reports whether the game has ended.
func (gm *Game) Over() bool {
	return gm.g.Outcome() != chess.NoOutcome
}

// Checkmate reports whether the game ended by checkmate.
func (gm *Game) Checkmate() bool {
	return gm.g.Method() == chess.Checkmate
}

// Drawn reports whether the game ended in a draw.
func (gm *Game) Drawn() bool {
	return gm.g.Outcome() == chess.Draw
}

// InCheck reports whether the side to move is in check. The rules library
// marks checking moves in algebraic notation, so the last move is consulted.
func (gm *Game) InCheck() bool {
	moves := gm.g.Moves()
	if len(moves) == 0 {
		return false
	}
	san := chess.AlgebraicNotation{}.Encode(gm.g.Positions()[len(moves)-1], moves[len(moves)-1])
	return strings.HasSuffix(san, "+") || strings.HasSuffix(san, "#")
}

// CheckedKing returns the square of the checked king, if any.
func (gm *Game) CheckedKing() (chess.Square, bool) {
	if !gm.InCheck() {
		return 0, false
	}
	board := gm.g.Position().Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p.Type() == chess.King && p.Color() == gm.Turn() {
			return sq, true
		}
	}
	return 0, false
}

// LegalMovesFrom returns the legal moves starting on the square.
func (gm *Game) LegalMovesFrom(sq chess.Square) []*chess.Move {
	var moves []*chess.Move
	for _, m := range gm.g.ValidMoves() {
		if m.S1() == sq {
			moves = append(moves, m)
		}
	}
	return moves
}

// TryMove attempts the move between the two squares. A pawn reaching the
// last rank is promoted to a queen. Returns an error when not legal.
func (gm *Game) TryMove(from, to chess.Square) error {
	var chosen *chess.Move
	for _, m := range gm.g.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if chosen == nil || m.Promo() == chess.Queen {
			chosen = m
		}
	}
	if chosen == nil {
		return fmt.Errorf("illegal move %s%s", from, to)
	}
	return gm.g.Move(chosen)
}

// ApplyUCI applies a move in UCI coordinates, e.g. "e7e5" or "e7e8q".
// The library rejects the move if it is not legal in the position.
func (gm *Game) ApplyUCI(s string) error {
	move, err := chess.UCINotation{}.Decode(gm.g.Position(), s)
	if err != nil {
		return fmt.Errorf("decode move %q: %w", s, err)
	}
	if err := gm.g.Move(move); err != nil {
		return fmt.Errorf("apply move %q: %w", s, err)
	}
	return nil
}

// UndoPair retracts the last full move pair. It is a no-op when fewer
// than two half-moves have been played. The library keeps positions
// immutable, so the game is rebuilt by replaying the shortened history.
func (gm *Game) UndoPair() error {
	moves := gm.g.Moves()
	if len(moves) < 2 {
		return nil
	}
	kept := moves[:len(moves)-2]

	var fresh *chess.Game
	if gm.startFEN != "" {
		opt, err := chess.FEN(gm.startFEN)
		if err != nil {
			return fmt.Errorf("rebuild from FEN: %w", err)
		}
		fresh = chess.NewGame(opt)
	} else {
		fresh = chess.NewGame()
	}
	for _, m := range kept {
		replay, err := chess.UCINotation{}.Decode(fresh.Position(), m.String())
		if err != nil {
			return fmt.Errorf("replay move %s: %w", m, err)
		}
		if err := fresh.Move(replay); err != nil {
			return fmt.Errorf("replay move %s: %w", m, err)
		}
	}
	gm.g = fresh
	return nil
}

// FEN encodes the current position.
func (gm *Game) FEN() string {
	return gm.g.Position().String()
}

// PGN encodes the whole game record including header tag pairs.
func (gm *Game) PGN() string {
	return strings.TrimSpace(gm.g.String())
}

// History returns the moves played so far.
func (gm *Game) History() []*chess.Move {
	return gm.g.Moves()
}

// LastMove returns the most recent move, nil before the first move.
func (gm *Game) LastMove() *chess.Move {
	moves := gm.g.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

// SetHeader stores a PGN header tag pair on the game record.
func (gm *Game) SetHeader(key, value string) {
	gm.g.AddTagPair(key, value)
}

// Headers returns the PGN header tag pairs.
func (gm *Game) Headers() []*chess.TagPair {
	return gm.g.TagPairs()
}

// Result returns the PGN result tag, "*" while the game runs.
func (gm *Game) Result() string {
	return gm.g.Outcome().String()
}

// OutcomeText describes how the game ended, empty while it runs.
func (gm *Game) OutcomeText() string {
	if !gm.Over() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", gm.g.Outcome(), gm.g.Method())
}

// MovePair is one numbered white/black move pair in algebraic notation.
type MovePair struct {
	Index string
	White string
	Black string
}

// MovePairs returns the played moves grouped into numbered pairs.
func (gm *Game) MovePairs() []MovePair {
	positions := gm.g.Positions()
	var pairs []MovePair
	var cur MovePair
	for i, move := range gm.g.Moves() {
		san := chess.AlgebraicNotation{}.Encode(positions[i], move)
		if i%2 == 0 {
			cur = MovePair{Index: fmt.Sprintf("%d.", i/2+1), White: san}
			pairs = append(pairs, cur)
		} else {
			pairs[len(pairs)-1].Black = san
		}
	}
	return pairs
}
