package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"termchess/config"
	"termchess/engine"
)

// AnalysisView analyses an arbitrary position independently of the live
// game. The previewed position lives in its own disposable rules-library
// instance seeded from the entered FEN.
type AnalysisView struct {
	flex    *tview.Flex
	form    *tview.Form
	results *tview.TextView
	preview *tview.Box
	advisor engine.Advisor
	cfg     *config.Config
	app     *tview.Application
	onDone  func()

	fen   string
	board *chess.Board
}

// NewAnalysisView creates the analysis screen.
func NewAnalysisView(app *tview.Application, advisor engine.Advisor, cfg *config.Config, onDone func()) *AnalysisView {
	av := &AnalysisView{
		advisor: advisor,
		cfg:     cfg,
		app:     app,
		onDone:  onDone,
	}

	av.form = tview.NewForm()
	av.form.SetBorder(true)
	av.form.SetBorderColor(MenuColors.Border)
	av.form.SetTitle(" Analyse Position ")
	av.form.SetTitleColor(MenuColors.Title)
	av.form.SetTitleAlign(tview.AlignLeft)
	av.form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	av.form.SetButtonTextColor(MenuColors.ButtonText)

	av.form.AddInputField("FEN", "", 0, nil, func(text string) {
		av.fen = strings.TrimSpace(text)
	})
	av.form.AddButton("Analyze", func() {
		av.analyse()
	})
	av.form.AddButton("Back", func() {
		if av.onDone != nil {
			av.onDone()
		}
	})

	av.results = tview.NewTextView()
	av.results.SetDynamicColors(true)
	av.results.SetBorder(true)
	av.results.SetBorderColor(MenuColors.Border)
	av.results.SetTitle(" Engine ")
	av.results.SetTitleColor(MenuColors.Title)
	av.results.SetTitleAlign(tview.AlignLeft)

	av.preview = tview.NewBox()
	av.preview.SetBorder(true)
	av.preview.SetBorderColor(MenuColors.Border)
	av.preview.SetTitle(" Position ")
	av.preview.SetTitleColor(MenuColors.Title)
	av.preview.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		if av.board != nil && width >= boardFiles*cellWidth+4 && height >= boardRanks+2 {
			drawMiniBoard(screen, x+2, y+1, av.board)
		}
		return x, y, width, height
	})

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(av.form, 9, 0, true).
		AddItem(av.results, 0, 1, false)

	av.flex = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, true).
		AddItem(av.preview, 24, 0, false)

	return av
}

// Flex returns the flex container for this UI.
func (av *AnalysisView) Flex() *tview.Flex {
	return av.flex
}

// SetFEN prefills the input with a position, typically copied from the
// live game.
func (av *AnalysisView) SetFEN(fen string) {
	av.fen = fen
	if field, ok := av.form.GetFormItem(0).(*tview.InputField); ok {
		field.SetText(fen)
	}
	av.refreshPreview()
}

// refreshPreview seeds a fresh rules-library game from the FEN and keeps
// its board for drawing. The live game is never touched.
func (av *AnalysisView) refreshPreview() error {
	opt, err := chess.FEN(av.fen)
	if err != nil {
		av.board = nil
		return fmt.Errorf("invalid FEN: %w", err)
	}
	av.board = chess.NewGame(opt).Position().Board()
	return nil
}

// analyse issues one deeper multi-line request for the entered position.
// There is no guard against the live game's own pending request; the two
// touch disjoint state.
func (av *AnalysisView) analyse() {
	if av.fen == "" {
		av.results.SetText("Enter a FEN to analyse.")
		return
	}
	if err := av.refreshPreview(); err != nil {
		av.results.SetText(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
		return
	}

	fen := av.fen
	av.results.SetText("Analysing...")

	go func() {
		analysis, err := av.advisor.Analyse(context.Background(), fen,
			av.cfg.Engine.AnalysisDepth, av.cfg.Engine.AnalysisLines)
		av.app.QueueUpdateDraw(func() {
			if err != nil {
				av.results.SetText(fmt.Sprintf("[red]Analysis failed: %s[-]", tview.Escape(err.Error())))
				return
			}
			av.results.SetText(formatAnalysis(analysis))
		})
	}()
}

// formatAnalysis renders the engine's answer for the results pane.
func formatAnalysis(a *engine.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[white]Best move:[-:-:-] %s\n", a.BestMove)
	fmt.Fprintf(&b, "[white]Score:[-:-:-]     %s\n", a.EvalText())
	if a.Text != "" {
		fmt.Fprintf(&b, "[white]Note:[-:-:-]      %s\n", tview.Escape(a.Text))
	}
	fmt.Fprintf(&b, "[white]Line:[-:-:-]      %s\n", a.ContinuationText())
	return b.String()
}
