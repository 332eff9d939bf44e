package ui

import (
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rivo/tview"
)

// GameSetup describes the options chosen on the new game form.
type GameSetup struct {
	HumanColor chess.Color
	Depth      int
	StartFEN   string
}

// NewGameForm provides a form for configuring a new game.
type NewGameForm struct {
	form    *tview.Form
	onStart func(GameSetup)
	onQuit  func()

	color chess.Color
	depth int
	fen   string
}

// NewNewGameForm creates the setup form. defaultDepth seeds the engine
// strength field.
func NewNewGameForm(defaultDepth int, onStart func(GameSetup), onQuit func()) *NewGameForm {
	setup := &NewGameForm{
		onStart: onStart,
		onQuit:  onQuit,
		color:   chess.White,
		depth:   defaultDepth,
	}

	colors := []string{"White (play first)", "Black (play second)"}

	form := tview.NewForm()

	form.AddDropDown("Your Color", colors, 0, func(option string, index int) {
		if index == 1 {
			setup.color = chess.Black
		} else {
			setup.color = chess.White
		}
	})

	form.AddInputField("Engine Depth", strconv.Itoa(defaultDepth), 8, func(text string, lastChar rune) bool {
		return lastChar >= '0' && lastChar <= '9'
	}, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.depth = val
		}
	})

	form.AddInputField("Start FEN (optional)", "", 0, nil, func(text string) {
		setup.fen = strings.TrimSpace(text)
	})

	form.AddButton("Start Game", func() {
		onStart(GameSetup{
			HumanColor: setup.color,
			Depth:      setup.depth,
			StartFEN:   setup.fen,
		})
	})

	form.AddButton("Quit", func() {
		onQuit()
	})

	form.SetBorder(true)
	form.SetBorderColor(MenuColors.Border)
	form.SetTitle(" New Game ")
	form.SetTitleColor(MenuColors.Title)
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	setup.form = form
	return setup
}

// Form returns the underlying form centered for display.
func (f *NewGameForm) Form() *tview.Flex {
	centered := CreateCenteredForm(f.form, 50)
	vertical := tview.NewFlex().SetDirection(tview.FlexRow)
	vertical.AddItem(nil, 0, 1, false)
	vertical.AddItem(centered, 13, 0, true)
	vertical.AddItem(nil, 0, 1, false)
	return vertical
}
