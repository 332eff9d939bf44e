package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		ASCIIPieces: false,
		Colors: ConfigColors{
			LightSquare: 180,
			DarkSquare:  94,
			WhitePiece:  255,
			BlackPiece:  232,
			CursorBG:    4,
			SelectedBG:  2,
			TargetBG:    6,
			LastMoveBG:  3,
			CheckBG:     1,
			Coordinate:  245,
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Engine: EngineConfig{
			URL:           "https://stockfish.online/api/s/v2.php",
			TimeoutSec:    10,
			MoveDepth:     12,
			AnalysisDepth: 15,
			AnalysisLines: 3,
			MoveDelayMs:   350,
		},
	}
}
