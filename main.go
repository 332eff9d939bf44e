// termchess is a terminal application to play chess against a remote
// engine service. Rule enforcement is delegated to the notnil/chess
// library; move selection and analysis happen over HTTP.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"termchess/config"
	"termchess/engine/online"
	"termchess/game"
	"termchess/history"
	"termchess/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagURL     = flag.String("url", "", "Engine service URL (overrides config)")
	flagDepth   = flag.Int("depth", 0, "Engine search depth (overrides config)")
	flagFEN     = flag.String("fen", "", "Start position as FEN")
	flagColor   = flag.String("color", "", "Player color (white or black)")
	flagPlay    = flag.Bool("play", false, "Start game immediately with defaults")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var boardView *ui.BoardView
var sidePanel *ui.SidePanel
var historyView *ui.HistoryView
var analysisView *ui.AnalysisView
var ctrl *game.Controller
var store *history.Store
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termchess %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		color.Red("%s", err)
		return
	}
	if *flagURL != "" {
		cfg.Engine.URL = *flagURL
	}
	if *flagDepth > 0 {
		cfg.Engine.MoveDepth = *flagDepth
	}
	if err := cfg.Validate(); err != nil {
		color.Red("%s", err)
		return
	}

	historyPath, err := config.HistoryPath()
	if err != nil {
		color.Red("Cannot locate history file: %s", err)
		return
	}
	store, err = history.Open(historyPath)
	if err != nil {
		color.Red("Cannot open history: %s", err)
		color.Yellow("Move or remove %s to start fresh.", historyPath)
		return
	}

	advisor := online.New(cfg.Engine.URL, time.Duration(cfg.Engine.TimeoutSec)*time.Second)
	ctrl = game.NewController(advisor, cfg.Engine.MoveDepth,
		time.Duration(cfg.Engine.MoveDelayMs)*time.Millisecond)

	quickStart := *flagPlay || *flagFEN != "" || *flagColor != ""

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ♞ termchess ")
	rootPage.SetBorderColor(ui.MenuColors.Border)
	rootPage.SetTitleColor(ui.MenuColors.Title)

	// Play view setup
	gameHint := tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetText("  [dimgray]arrows/hjkl[-] move  [dimgray]⏎[-] select  [dimgray]n[-] new  [dimgray]u[-] undo  [dimgray]a[-] analyse  [dimgray]e[-] export  [dimgray]Tab[-] views  [dimgray]q[-] menu")

	boardView = ui.NewBoardView(ctrl, cfg)
	sidePanel = ui.NewSidePanel(ctrl)
	gameFrame := ui.CreateGameLayout(boardView, sidePanel, gameHint)

	ctrl.OnUpdate(func() {
		// Spawn goroutine to avoid deadlock when called from the main thread
		go func() {
			app.QueueUpdateDraw(func() {
				sidePanel.Refresh()
			})
		}()
	})
	ctrl.OnGameEnd(func(pgn, result string) {
		if err := store.Append(history.Record{PGN: pgn, Date: time.Now(), Result: result}); err == nil {
			go func() {
				app.QueueUpdateDraw(func() {
					historyView.Refresh()
				})
			}()
		}
	})

	// History view
	historyView = ui.NewHistoryView(store,
		func() { rootPage.SwitchToPage("play") },
		confirmClearHistory,
		exportGames,
	)

	// Analysis view
	analysisView = ui.NewAnalysisView(app, advisor, cfg, func() {
		rootPage.SwitchToPage("play")
	})

	// Game setup screen
	setupUI := ui.NewNewGameForm(cfg.Engine.MoveDepth,
		func(setup ui.GameSetup) {
			startGame(setup)
		},
		func() {
			app.Stop()
		},
	)

	// Explicit dispatch table: play-view keys to application actions.
	playActions := map[rune]func(){
		'n': func() { rootPage.SwitchToPage("setup") },
		'u': func() { ctrl.UndoPair() },
		'a': func() {
			analysisView.SetFEN(ctrl.FEN())
			rootPage.SwitchToPage("analysis")
		},
		'e': exportGames,
		'q': func() { rootPage.SwitchToPage("setup") },
		'h': func() { boardView.MoveCursor(-1, 0) },
		'j': func() { boardView.MoveCursor(0, 1) },
		'k': func() { boardView.MoveCursor(0, -1) },
		'l': func() { boardView.MoveCursor(1, 0) },
	}

	boardView.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			boardView.MoveCursor(0, -1)
		case tcell.KeyDown:
			boardView.MoveCursor(0, 1)
		case tcell.KeyLeft:
			boardView.MoveCursor(-1, 0)
		case tcell.KeyRight:
			boardView.MoveCursor(1, 0)
		case tcell.KeyEnter:
			if !boardView.HasCursor() {
				return event
			}
			boardView.ClickCursor()
		case tcell.KeyEscape:
			boardView.ResetCursor()
		case tcell.KeyRune:
			if action, ok := playActions[event.Rune()]; ok {
				action()
				return nil
			}
		}
		return event
	})

	// Tab cycles between the play, history and analysis views.
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyTab {
			return event
		}
		switch name, _ := rootPage.GetFrontPage(); name {
		case "play":
			rootPage.SwitchToPage("history")
			return nil
		case "history":
			rootPage.SwitchToPage("analysis")
			return nil
		case "analysis":
			rootPage.SwitchToPage("play")
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", setupUI.Form(), true, !quickStart)
	rootPage.AddPage("play", gameFrame, true, quickStart)
	rootPage.AddPage("history", historyView.Flex(), true, false)
	rootPage.AddPage("analysis", analysisView.Flex(), true, false)

	if quickStart {
		startGame(setupFromFlags())
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		panic(err)
	}
}

// startGame starts a game with the chosen options. A valid depth picked
// on the setup form is persisted as the new default.
func startGame(setup ui.GameSetup) {
	if setup.Depth != cfg.Engine.MoveDepth {
		keep := cfg.Engine.MoveDepth
		cfg.Engine.MoveDepth = setup.Depth
		if cfg.Validate() == nil {
			cfg.Save()
		} else {
			cfg.Engine.MoveDepth = keep
		}
	}
	ctrl.SetDepth(setup.Depth)
	if err := ctrl.StartGame(setup.HumanColor, setup.StartFEN); err != nil {
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	boardView.SetFlipped(setup.HumanColor == chess.Black)
	boardView.ResetCursor()
	rootPage.SwitchToPage("play")
}

// confirmClearHistory asks before erasing the stored game log.
func confirmClearHistory() {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Clear all %d stored games?", store.Len())).
		AddButtons([]string{"Cancel", "Clear"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("confirm")
			if buttonLabel != "Clear" {
				return
			}
			if err := store.Clear(); err != nil {
				historyView.SetStatus(fmt.Sprintf("Clear failed: %s", err))
				return
			}
			historyView.Refresh()
		})
	rootPage.AddPage("confirm", modal, true, true)
}

// exportGames writes all stored game records to a single file.
func exportGames() {
	path, err := config.ExportPath()
	if err == nil {
		err = store.ExportToFile(path)
	}
	if err != nil {
		historyView.SetStatus(fmt.Sprintf("Export failed: %s", err))
		return
	}
	historyView.SetStatus(fmt.Sprintf("Exported %d games to %s", store.Len(), path))
}

// setupFromFlags creates game options from command-line flags.
func setupFromFlags() ui.GameSetup {
	setup := ui.GameSetup{
		HumanColor: chess.White,
		Depth:      cfg.Engine.MoveDepth,
		StartFEN:   *flagFEN,
	}
	if *flagColor == "black" || *flagColor == "b" {
		setup.HumanColor = chess.Black
	}
	return setup
}
