package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"termchess/game"
)

// movePairWindow is the number of move pairs shown at once.
const movePairWindow = 8

// SidePanel displays game information and the move list alongside the board.
type SidePanel struct {
	box  *tview.TextView
	ctrl *game.Controller
}

// NewSidePanel creates the info panel bound to the controller.
func NewSidePanel(ctrl *game.Controller) *SidePanel {
	panel := &SidePanel{
		box:  tview.NewTextView(),
		ctrl: ctrl,
	}
	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)
	panel.Refresh()
	return panel
}

// Box returns the underlying tview component.
func (p *SidePanel) Box() *tview.TextView {
	return p.box
}

// Refresh rebuilds the panel text from the controller state.
func (p *SidePanel) Refresh() {
	v := p.ctrl.Snapshot()

	var text string
	text += "[white::b]Game[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	switch {
	case v.Over:
		text += fmt.Sprintf("[white]Result:[-:-:-] %s\n", v.Outcome)
	case v.Busy:
		text += "◌ Engine is thinking...\n"
	case v.Turn == v.Human:
		text += fmt.Sprintf("● Your move (%s)\n", v.Human.Name())
	default:
		text += fmt.Sprintf("○ %s to move\n", v.Turn.Name())
	}

	if v.EvalLine != "" {
		text += fmt.Sprintf("[white]Engine:[-:-:-] %s\n", v.EvalLine)
	}
	if v.Status != "" && !v.Over {
		text += fmt.Sprintf("[orange]%s[-:-:-]\n", tview.Escape(v.Status))
	}

	text += "\n[white::b]Moves[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	pairs := v.MovePairs
	offset := 0
	if len(pairs) > movePairWindow {
		offset = len(pairs) - movePairWindow
	}
	for _, pair := range pairs[offset:] {
		text += fmt.Sprintf("%-4s %-8s %-8s\n", pair.Index, pair.White, pair.Black)
	}

	p.box.SetText(text)
}

// CreateGameLayout creates the main game layout with board, side panel
// and a compact hint bar at the bottom.
func CreateGameLayout(board *BoardView, panel *SidePanel, hint *tview.TextView) *tview.Flex {
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(panel.Box(), 26, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false)
	return mainFlex
}

// CreateCenteredForm creates a centered container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)
	return centered
}
