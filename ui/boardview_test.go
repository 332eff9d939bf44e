package ui

import (
	"testing"

	"github.com/notnil/chess"

	"termchess/config"
	"termchess/game"
)

func newTestBoard(t *testing.T) (*BoardView, *game.Controller) {
	t.Helper()
	cfg := config.DefaultConfig
	ctrl := game.NewController(nil, 12, 0)
	if err := ctrl.StartGame(chess.White, ""); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return NewBoardView(ctrl, &cfg), ctrl
}

func TestCursorLifecycle(t *testing.T) {
	b, _ := newTestBoard(t)
	if b.HasCursor() {
		t.Fatal("cursor should start hidden")
	}

	// First navigation reveals the cursor without moving it.
	b.MoveCursor(1, 0)
	if !b.HasCursor() {
		t.Fatal("navigation should reveal the cursor")
	}

	b.ResetCursor()
	if b.HasCursor() {
		t.Fatal("reset should hide the cursor")
	}

	// Clicking with a hidden cursor does nothing.
	b.ClickCursor()
	if b.HasCursor() {
		t.Fatal("clicking a hidden cursor should be a no-op")
	}
}

func TestCursorClickSelectsSquare(t *testing.T) {
	b, ctrl := newTestBoard(t)

	// Reveal at the board center, then walk to e2.
	b.MoveCursor(0, 0)
	if b.curFile != 4 || b.curRank != 3 {
		t.Fatalf("cursor should reveal at e4, got file %d rank %d", b.curFile, b.curRank)
	}
	b.MoveCursor(0, 1)
	b.MoveCursor(0, 1)
	b.ClickCursor()

	v := ctrl.Snapshot()
	if !v.HasSelection || v.Selection != chess.E2 {
		t.Fatalf("cursor click should select e2, got %+v", v)
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	b, _ := newTestBoard(t)
	b.MoveCursor(0, 0)
	for i := 0; i < 12; i++ {
		b.MoveCursor(-1, 0)
	}
	if b.curFile != 0 {
		t.Fatalf("cursor left the board: file %d", b.curFile)
	}
	for i := 0; i < 12; i++ {
		b.MoveCursor(0, 1)
	}
	if b.curRank != 0 {
		t.Fatalf("cursor left the board: rank %d", b.curRank)
	}
}

func TestCursorFlippedNavigation(t *testing.T) {
	b, _ := newTestBoard(t)
	b.SetFlipped(true)
	b.MoveCursor(0, 0)
	file, rank := b.curFile, b.curRank

	// Flipped, moving right on screen decreases the file.
	b.MoveCursor(1, 0)
	if b.curFile != file-1 || b.curRank != rank {
		t.Fatalf("flipped move: got file %d rank %d, want file %d rank %d",
			b.curFile, b.curRank, file-1, rank)
	}
}
