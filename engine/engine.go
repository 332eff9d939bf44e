// Package engine defines the interface to the remote move service.
package engine

import (
	"context"
	"fmt"
	"strings"
)

// Advisor asks a chess engine for moves and evaluations. Implementations
// issue one request per call and never retry.
type Advisor interface {
	// BestMove returns the engine's recommended move for the position
	// encoded as fen, searched to the given depth.
	BestMove(ctx context.Context, fen string, depth int) (*Analysis, error)

	// Analyse is like BestMove but requests a deeper search with the given
	// number of candidate lines. It is independent of any running game.
	Analyse(ctx context.Context, fen string, depth, lines int) (*Analysis, error)
}

// Analysis is the engine's answer for a single position.
type Analysis struct {
	// BestMove is the recommended move in UCI coordinates, e.g. "e7e5" or "e7e8q".
	BestMove string
	// Eval is the pawn-unit evaluation from white's point of view, nil when
	// the engine reported a forced mate instead.
	Eval *float64
	// Mate is the number of moves to forced mate, nil when not a mate score.
	Mate *int
	// Depth is the search depth the engine reached, 0 when not reported.
	Depth int
	// Text is optional commentary from the service.
	Text string
	// Continuation is the principal line in UCI coordinates, empty when the
	// service did not provide one.
	Continuation []string
}

// EvalText formats the evaluation for display, e.g. "Eval: +0.35 | Depth: 12"
// or "Mate in 3".
func (a *Analysis) EvalText() string {
	switch {
	case a.Mate != nil:
		n := *a.Mate
		if n < 0 {
			n = -n
		}
		return fmt.Sprintf("Mate in %d", n)
	case a.Eval != nil:
		if a.Depth > 0 {
			return fmt.Sprintf("Eval: %+.2f | Depth: %d", *a.Eval, a.Depth)
		}
		return fmt.Sprintf("Eval: %+.2f", *a.Eval)
	default:
		return "Eval: n/a"
	}
}

// ContinuationText renders the principal line, or a marker when absent.
func (a *Analysis) ContinuationText() string {
	if len(a.Continuation) == 0 {
		return "not available"
	}
	return strings.Join(a.Continuation, " ")
}
