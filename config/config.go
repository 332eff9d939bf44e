package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/adrg/xdg"
)

var (
	cfgFile     = "termchess/config.json"
	historyFile = "termchess/history.json"
	exportFile  = "termchess/games.pgn"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	LightSquare int `json:"light_square"`
	DarkSquare  int `json:"dark_square"`
	WhitePiece  int `json:"white_piece"`
	BlackPiece  int `json:"black_piece"`
	CursorBG    int `json:"cursor_bg"`
	SelectedBG  int `json:"selected_bg"`
	TargetBG    int `json:"target_bg"`
	LastMoveBG  int `json:"last_move_bg"`
	CheckBG     int `json:"check_bg"`
	Coordinate  int `json:"coordinate"`
}

type Theme struct {
	ASCIIPieces bool         `json:"ascii_pieces"`
	Colors      ConfigColors `json:"colors"`
}

// EngineConfig holds settings for the remote move service.
type EngineConfig struct {
	URL           string `json:"url"`
	TimeoutSec    int    `json:"timeout_sec"`
	MoveDepth     int    `json:"move_depth"`
	AnalysisDepth int    `json:"analysis_depth"`
	AnalysisLines int    `json:"analysis_lines"`
	MoveDelayMs   int    `json:"move_delay_ms"`
}

type Config struct {
	Theme  Theme        `json:"theme"`
	Engine EngineConfig `json:"engine"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		readCfgFile(absPath, &config)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Engine.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &InvalidConfig{fmt.Sprintf("engine URL %q is not a valid http(s) URL", c.Engine.URL)}
	}
	if c.Engine.MoveDepth < 1 || c.Engine.MoveDepth > 30 {
		return &InvalidConfig{"engine move depth must be between 1 and 30"}
	}
	if c.Engine.AnalysisDepth < 1 || c.Engine.AnalysisDepth > 30 {
		return &InvalidConfig{"engine analysis depth must be between 1 and 30"}
	}
	if c.Engine.AnalysisLines < 1 || c.Engine.AnalysisLines > 5 {
		return &InvalidConfig{"engine analysis lines must be between 1 and 5"}
	}
	if c.Engine.TimeoutSec < 1 {
		return &InvalidConfig{"engine timeout must be at least 1 second"}
	}
	return nil
}

func (c *Config) Save() {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		panic(err)
	}
	saveCfgFile(absPath, c, 0664)
}

// HistoryPath returns the path of the persisted game history log,
// creating parent directories as needed.
func HistoryPath() (string, error) {
	return xdg.DataFile(historyFile)
}

// ExportPath returns the destination path for exported game records.
func ExportPath() (string, error) {
	return xdg.DataFile(exportFile)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		panic(err)
	}
	err = os.WriteFile(filePath, jsonData, perm)
	if err != nil {
		panic(err)
	}
}

func readCfgFile(filePath string, a interface{}) {
	configReader, err := os.ReadFile(filePath)
	if err == nil {
		err = json.Unmarshal(configReader, &a)
		if err != nil {
			panic(err)
		}
	}
}
