// Package online implements the engine.Advisor interface against a
// stockfish.online style HTTP service.
package online

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"termchess/engine"
)

var debugLog *log.Logger

func init() {
	if os.Getenv("TERMCHESS_DEBUG") != "" {
		f, _ := os.Create("/tmp/termchess-debug.log")
		debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)
	} else {
		debugLog = log.New(io.Discard, "", 0)
	}
}

// Client talks to the remote move service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiResponse is the service's JSON answer. The bestmove field carries the
// raw engine line, e.g. "bestmove e7e5 ponder d2d4".
type apiResponse struct {
	Success      bool     `json:"success"`
	BestMove     string   `json:"bestmove"`
	Evaluation   *float64 `json:"evaluation"`
	Mate         *int     `json:"mate"`
	Depth        int      `json:"depth"`
	Text         string   `json:"text"`
	Continuation string   `json:"continuation"`
}

// BestMove requests the recommended move for the position.
func (c *Client) BestMove(ctx context.Context, fen string, depth int) (*engine.Analysis, error) {
	return c.query(ctx, fen, depth, 0)
}

// Analyse requests a deeper search with multiple candidate lines.
func (c *Client) Analyse(ctx context.Context, fen string, depth, lines int) (*engine.Analysis, error) {
	return c.query(ctx, fen, depth, lines)
}

func (c *Client) query(ctx context.Context, fen string, depth, lines int) (*engine.Analysis, error) {
	params := url.Values{}
	params.Set("fen", fen)
	params.Set("depth", strconv.Itoa(depth))
	if lines > 0 {
		params.Set("lines", strconv.Itoa(lines))
	}
	reqURL := c.baseURL + "?" + params.Encode()
	debugLog.Printf("query: GET %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine request: HTTP %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode engine response: %w", err)
	}
	debugLog.Printf("query: response %+v", body)

	if !body.Success {
		return nil, fmt.Errorf("engine reported failure for position %q", fen)
	}

	move, err := parseBestMove(body.BestMove)
	if err != nil {
		return nil, err
	}

	return &engine.Analysis{
		BestMove:     move,
		Eval:         body.Evaluation,
		Mate:         body.Mate,
		Depth:        body.Depth,
		Text:         body.Text,
		Continuation: strings.Fields(body.Continuation),
	}, nil
}

// parseBestMove extracts the UCI move from a raw engine bestmove line.
// Accepts both "bestmove e7e5 ponder d2d4" and a bare "e7e5".
func parseBestMove(raw string) (string, error) {
	fields := strings.Fields(raw)
	switch {
	case len(fields) == 0:
		return "", fmt.Errorf("engine response has no best move")
	case fields[0] == "bestmove":
		if len(fields) < 2 || fields[1] == "(none)" {
			return "", fmt.Errorf("engine response has no best move")
		}
		return fields[1], nil
	default:
		return fields[0], nil
	}
}
