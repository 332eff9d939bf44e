package game

import (
	"strings"
	"testing"

	"github.com/notnil/chess"
)

func TestNewGameStart(t *testing.T) {
	g := NewGame()
	if g.Turn() != chess.White {
		t.Fatalf("expected white to move, got %s", g.Turn().Name())
	}
	if g.Over() {
		t.Fatal("new game should not be over")
	}
	if g.PieceAt(chess.E2).Type() != chess.Pawn {
		t.Fatalf("expected pawn on e2, got %s", g.PieceAt(chess.E2))
	}
}

func TestSquareAt(t *testing.T) {
	tests := []struct {
		file, rank int
		want       chess.Square
	}{
		{0, 0, chess.A1},
		{4, 1, chess.E2},
		{4, 3, chess.E4},
		{7, 7, chess.H8},
	}
	for _, tt := range tests {
		if got := SquareAt(tt.file, tt.rank); got != tt.want {
			t.Errorf("SquareAt(%d, %d) = %s, want %s", tt.file, tt.rank, got, tt.want)
		}
	}
}

func TestTryMove(t *testing.T) {
	g := NewGame()
	if err := g.TryMove(chess.E2, chess.E4); err != nil {
		t.Fatalf("TryMove e2e4: %v", err)
	}
	if g.Turn() != chess.Black {
		t.Fatalf("expected black to move after e4, got %s", g.Turn().Name())
	}
	if g.PieceAt(chess.E4).Type() != chess.Pawn {
		t.Fatal("pawn should stand on e4")
	}
	if g.PieceAt(chess.E2) != chess.NoPiece {
		t.Fatal("e2 should be empty")
	}
}

func TestTryMoveIllegal(t *testing.T) {
	g := NewGame()
	if err := g.TryMove(chess.E2, chess.E5); err == nil {
		t.Fatal("e2e5 should be rejected")
	}
	if g.Turn() != chess.White {
		t.Fatal("illegal move must not change the side to move")
	}
}

func TestTryMovePromotesToQueen(t *testing.T) {
	g, err := NewGameFromFEN("7k/P7/8/8/8/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("NewGameFromFEN: %v", err)
	}
	if err := g.TryMove(chess.A7, chess.A8); err != nil {
		t.Fatalf("TryMove a7a8: %v", err)
	}
	p := g.PieceAt(chess.A8)
	if p.Type() != chess.Queen || p.Color() != chess.White {
		t.Fatalf("expected white queen on a8, got %s", p)
	}
}

func TestNewGameFromFENRejectsGarbage(t *testing.T) {
	if _, err := NewGameFromFEN("not a position"); err == nil {
		t.Fatal("garbage FEN should be rejected")
	}
}

func TestApplyUCI(t *testing.T) {
	g := NewGame()
	if err := g.ApplyUCI("e2e4"); err != nil {
		t.Fatalf("ApplyUCI e2e4: %v", err)
	}
	if err := g.ApplyUCI("e7e5"); err != nil {
		t.Fatalf("ApplyUCI e7e5: %v", err)
	}
	if len(g.History()) != 2 {
		t.Fatalf("expected 2 half-moves, got %d", len(g.History()))
	}
	if err := g.ApplyUCI("zz99"); err == nil {
		t.Fatal("malformed move should be rejected")
	}
	if err := g.ApplyUCI("e2e4"); err == nil {
		t.Fatal("move from an empty square should be rejected")
	}
}

func TestInCheck(t *testing.T) {
	g := NewGame()
	for _, m := range []string{"e2e4", "f7f5", "d1h5"} {
		if err := g.ApplyUCI(m); err != nil {
			t.Fatalf("ApplyUCI %s: %v", m, err)
		}
	}
	if !g.InCheck() {
		t.Fatal("black should be in check after Qh5+")
	}
	sq, ok := g.CheckedKing()
	if !ok || sq != chess.E8 {
		t.Fatalf("expected checked king on e8, got %s (ok=%v)", sq, ok)
	}
	if err := g.ApplyUCI("g7g6"); err != nil {
		t.Fatalf("ApplyUCI g7g6: %v", err)
	}
	if g.InCheck() {
		t.Fatal("check should be resolved by g6")
	}
}

func TestCheckmate(t *testing.T) {
	g := NewGame()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if err := g.ApplyUCI(m); err != nil {
			t.Fatalf("ApplyUCI %s: %v", m, err)
		}
	}
	if !g.Over() {
		t.Fatal("fool's mate should end the game")
	}
	if !g.Checkmate() {
		t.Fatal("expected checkmate")
	}
	if g.Result() != "0-1" {
		t.Fatalf("expected result 0-1, got %s", g.Result())
	}
	if g.OutcomeText() == "" {
		t.Fatal("finished game should describe its outcome")
	}
}

func TestUndoPair(t *testing.T) {
	g := NewGame()
	startPlacement := strings.Fields(g.FEN())[0]
	for _, m := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		if err := g.ApplyUCI(m); err != nil {
			t.Fatalf("ApplyUCI %s: %v", m, err)
		}
	}
	if err := g.UndoPair(); err != nil {
		t.Fatalf("UndoPair: %v", err)
	}
	if len(g.History()) != 2 {
		t.Fatalf("expected 2 half-moves after undo, got %d", len(g.History()))
	}
	if g.Turn() != chess.White {
		t.Fatal("white should be to move after undoing one pair")
	}

	if err := g.UndoPair(); err != nil {
		t.Fatalf("UndoPair: %v", err)
	}
	if placement := strings.Fields(g.FEN())[0]; placement != startPlacement {
		t.Fatalf("expected start placement %s, got %s", startPlacement, placement)
	}
}

func TestUndoPairNoOp(t *testing.T) {
	g := NewGame()
	if err := g.ApplyUCI("e2e4"); err != nil {
		t.Fatalf("ApplyUCI: %v", err)
	}
	if err := g.UndoPair(); err != nil {
		t.Fatalf("UndoPair: %v", err)
	}
	if len(g.History()) != 1 {
		t.Fatalf("undo with one half-move must be a no-op, got %d moves", len(g.History()))
	}
}

func TestUndoPairFromFEN(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN: %v", err)
	}
	placement := strings.Fields(g.FEN())[0]
	for _, m := range []string{"f1b5", "g8f6"} {
		if err := g.ApplyUCI(m); err != nil {
			t.Fatalf("ApplyUCI %s: %v", m, err)
		}
	}
	if err := g.UndoPair(); err != nil {
		t.Fatalf("UndoPair: %v", err)
	}
	if got := strings.Fields(g.FEN())[0]; got != placement {
		t.Fatalf("expected placement %s after undo, got %s", placement, got)
	}
}

func TestLegalMovesFrom(t *testing.T) {
	g := NewGame()
	moves := g.LegalMovesFrom(chess.E2)
	if len(moves) != 2 {
		t.Fatalf("expected 2 pawn moves from e2, got %d", len(moves))
	}
	if moves := g.LegalMovesFrom(chess.E5); len(moves) != 0 {
		t.Fatalf("expected no moves from empty e5, got %d", len(moves))
	}
	// Enemy pieces yield candidates too; the controller filters by color.
	if moves := g.LegalMovesFrom(chess.A1); len(moves) != 0 {
		t.Fatalf("expected no moves for the blocked rook, got %d", len(moves))
	}
}

func TestMovePairs(t *testing.T) {
	g := NewGame()
	if err := g.ApplyUCI("e2e4"); err != nil {
		t.Fatalf("ApplyUCI: %v", err)
	}
	pairs := g.MovePairs()
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Index != "1." || pairs[0].White != "e4" || pairs[0].Black != "" {
		t.Fatalf("expected {1. e4 -}, got %+v", pairs[0])
	}

	if err := g.ApplyUCI("e7e5"); err != nil {
		t.Fatalf("ApplyUCI: %v", err)
	}
	pairs = g.MovePairs()
	if pairs[0].Black != "e5" {
		t.Fatalf("expected black reply e5, got %q", pairs[0].Black)
	}
}

func TestPGNAndHeaders(t *testing.T) {
	g := NewGame()
	g.SetHeader("White", "Player")
	g.SetHeader("Black", "Remote Engine")
	if err := g.ApplyUCI("e2e4"); err != nil {
		t.Fatalf("ApplyUCI: %v", err)
	}
	pgn := g.PGN()
	for _, want := range []string{`[White "Player"]`, `[Black "Remote Engine"]`, "1. e4"} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}
	found := false
	for _, tag := range g.Headers() {
		if tag.Key == "White" && tag.Value == "Player" {
			found = true
		}
	}
	if !found {
		t.Fatal("White header not stored")
	}
}
