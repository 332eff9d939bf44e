package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"termchess/history"
)

// HistoryView provides a screen for browsing the stored game log.
type HistoryView struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	store    *history.Store
	boards   map[int]*chess.Board // cached final positions
	moves    map[int]int          // cached move counts
	selected int
	onDone   func()
	onClear  func()
	onExport func()
}

// NewHistoryView creates the history browser screen over the store.
// onClear is expected to confirm with the user before clearing.
func NewHistoryView(store *history.Store, onDone, onClear, onExport func()) *HistoryView {
	hv := &HistoryView{
		store:    store,
		boards:   make(map[int]*chess.Board),
		moves:    make(map[int]int),
		onDone:   onDone,
		onClear:  onClear,
		onExport: onExport,
	}

	hv.gameList = tview.NewList()
	hv.gameList.SetBorder(true)
	hv.gameList.SetBorderColor(MenuColors.Border)
	hv.gameList.SetTitle(" Game History ")
	hv.gameList.SetTitleColor(MenuColors.Title)
	hv.gameList.ShowSecondaryText(false)
	hv.gameList.SetHighlightFullLine(true)
	hv.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hv.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	hv.preview = tview.NewBox()
	hv.preview.SetBorder(true)
	hv.preview.SetBorderColor(MenuColors.Border)
	hv.preview.SetTitle(" Preview ")
	hv.preview.SetTitleColor(MenuColors.Title)
	hv.preview.SetDrawFunc(hv.drawPreview)

	hv.hint = tview.NewTextView()
	hv.hint.SetDynamicColors(true)
	hv.hint.SetBorder(false)
	hv.hint.SetText("  [dimgray]e[-] export  [dimgray]c[-] clear  [dimgray]q[-] back")

	hv.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hv.selected = index
	})
	hv.gameList.SetInputCapture(hv.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hv.gameList, 38, 0, true).
		AddItem(hv.preview, 0, 1, false)

	hv.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hv.hint, 1, 0, false)

	hv.loadGames()
	return hv
}

// Flex returns the flex container for this UI.
func (hv *HistoryView) Flex() *tview.Flex {
	return hv.flex
}

// Refresh reloads the game list from the store.
func (hv *HistoryView) Refresh() {
	hv.boards = make(map[int]*chess.Board)
	hv.moves = make(map[int]int)
	hv.loadGames()
}

// SetStatus shows a transient message in the hint bar.
func (hv *HistoryView) SetStatus(msg string) {
	hv.hint.SetText(fmt.Sprintf("  %s", tview.Escape(msg)))
}

func (hv *HistoryView) loadGames() {
	hv.gameList.Clear()
	hv.selected = 0

	records := hv.store.Records()
	if len(records) == 0 {
		hv.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	for _, rec := range records {
		result := rec.Result
		if result == "" {
			result = "*"
		}
		label := fmt.Sprintf("%s  %s", rec.Date.Format("2006-01-02 15:04"), result)
		hv.gameList.AddItem(label, "", 0, nil)
	}
}

func (hv *HistoryView) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hv.onDone != nil {
			hv.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hv.onDone != nil {
				hv.onDone()
			}
			return nil
		case 'c':
			if hv.onClear != nil {
				hv.onClear()
			}
			return nil
		case 'e':
			if hv.onExport != nil {
				hv.onExport()
			}
			return nil
		}
	}
	return event
}

// finalBoard replays a record's PGN through a fresh rules-library game
// to recover the final position.
func (hv *HistoryView) finalBoard(idx int) (*chess.Board, int) {
	if board, ok := hv.boards[idx]; ok {
		return board, hv.moves[idx]
	}
	records := hv.store.Records()
	if idx < 0 || idx >= len(records) {
		return nil, 0
	}
	opt, err := chess.PGN(strings.NewReader(records[idx].PGN))
	if err != nil {
		return nil, 0
	}
	g := chess.NewGame(opt)
	board := g.Position().Board()
	hv.boards[idx] = board
	hv.moves[idx] = len(g.Moves())
	return board, hv.moves[idx]
}

// drawPreview renders a mini board and record metadata.
func (hv *HistoryView) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	records := hv.store.Records()
	if hv.selected < 0 || hv.selected >= len(records) {
		return x, y, width, height
	}
	rec := records[hv.selected]

	board, moveCount := hv.finalBoard(hv.selected)
	if board == nil || width < boardFiles*cellWidth+4 || height < boardRanks+6 {
		return x, y, width, height
	}

	startX := x + 2
	startY := y + 1
	drawMiniBoard(screen, startX, startY, board)

	infoY := startY + boardRanks + 1
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	resultStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(109))

	drawText(screen, startX, infoY, fmt.Sprintf("%d moves", moveCount), dimStyle)
	infoY++
	drawText(screen, startX, infoY, rec.Date.Format("2006-01-02 15:04"), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", rec.Result), resultStyle)

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
