// Package engine is the entry point collaborators use: it parses a
// serialized board, runs the requested strategy and reports the move
// together with the winner and some telemetry.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
)

var ErrBadFormat = errors.New("output format must be json or yaml")

// Request is one position to solve. Zero Width or Height means the board is
// square and its side is inferred from State. Zero Player means the side to
// move is inferred from the stone counts.
type Request struct {
	State    string `json:"state" yaml:"state"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
	Player   int    `json:"player,omitempty" yaml:"player,omitempty"`
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// Result is the engine's answer. Winner is 0 while the game goes on; it is
// set when the board already had a winner (and then no move is made) or
// when the chosen move completes five.
type Result struct {
	Row        int     `json:"move_r" yaml:"move_r"`
	Col        int     `json:"move_c" yaml:"move_c"`
	Score      int     `json:"score" yaml:"score"`
	Player     int     `json:"ai_player" yaml:"ai_player"`
	Winner     int     `json:"winning_player" yaml:"winning_player"`
	Strategy   string  `json:"strategy" yaml:"strategy"`
	Nodes      uint64  `json:"node_count" yaml:"node_count"`
	ElapsedSec float64 `json:"cpu_time_sec" yaml:"cpu_time_sec"`
	Board      string  `json:"board" yaml:"board"`
}

// Marshal renders r as json or yaml.
func (r *Result) Marshal(format string) ([]byte, error) {
	switch format {
	case "json":
		return json.Marshal(r)
	case "yaml":
		return yaml.Marshal(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrBadFormat, format)
}

// Engine holds one instance of each strategy it has been asked for, so that
// strategies which keep state between calls (MCTS tree reuse) can do so.
// An Engine must not be shared between goroutines.
type Engine struct {
	cfg        *config.Config
	strategies map[string]Strategy
}

func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg, strategies: map[string]Strategy{}}
}

// Config returns the configuration strategies are built from.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Strategy returns the engine's instance of the named strategy, building
// it on first use.
func (e *Engine) Strategy(name string) (Strategy, error) {
	canon, err := CanonicalName(name)
	if err != nil {
		return nil, err
	}
	if s, ok := e.strategies[canon]; ok {
		return s, nil
	}
	s, err := NewStrategy(canon, e.cfg)
	if err != nil {
		return nil, err
	}
	e.strategies[canon] = s
	return s, nil
}

// Reset drops every cached strategy; the next request builds them anew
// from the current configuration.
func (e *Engine) Reset() {
	clear(e.strategies)
}

// ParseBoard builds the board of a request.
func ParseBoard(req Request) (*board.Board, error) {
	if req.Width == 0 || req.Height == 0 {
		return board.NewSquareBoard(req.State)
	}
	return board.NewBoard(req.State, req.Width, req.Height)
}

func resolvePlayer(req Request, b *board.Board) (board.Cell, error) {
	if req.Player == 0 {
		return b.NextPlayer(), nil
	}
	return board.PlayerFromInt(req.Player)
}

// Solve answers a single request.
func (e *Engine) Solve(ctx context.Context, req Request) (*Result, error) {
	b, err := ParseBoard(req)
	if err != nil {
		return nil, err
	}
	player, err := resolvePlayer(req, b)
	if err != nil {
		return nil, err
	}
	name := req.Strategy
	if name == "" {
		name = e.cfg.GetString(config.ConfigStrategy)
	}
	strategy, err := e.Strategy(name)
	if err != nil {
		return nil, err
	}
	return e.SolveBoard(ctx, strategy, b, player)
}

// SolveBoard runs strategy on b for player and applies the chosen move to
// b.
func (e *Engine) SolveBoard(ctx context.Context, strategy Strategy, b *board.Board,
	player board.Cell) (*Result, error) {

	res := &Result{Player: int(player), Strategy: strategy.Name()}
	if w, ok := b.AnyWinner(); ok {
		log.Debug().Int("winner", int(w)).Msg("board-already-won")
		res.Winner = int(w)
		res.Board = b.String()
		return res, nil
	}

	tstart := time.Now()
	mv, err := strategy.BestMove(ctx, b, player)
	if err != nil {
		return nil, err
	}
	res.ElapsedSec = time.Since(tstart).Seconds()
	if nc, ok := strategy.(NodeCounter); ok {
		res.Nodes = nc.Nodes()
	}
	res.Row, res.Col, res.Score = mv.Row, mv.Col, mv.Score

	// The zero move doubles as "no move"; only trust it as a placement if
	// the position really has candidates.
	if mv == (move.Move{}) && len(movegen.GenOrderedMovesAll(b, player)) == 0 {
		log.Debug().Str("strategy", strategy.Name()).Msg("no-move-available")
	} else {
		if err := b.Play(mv.Row, mv.Col, player); err != nil {
			log.Error().Err(err).Str("move", mv.String()).Msg("strategy-returned-illegal-move")
			return nil, err
		}
		if w, ok := b.AnyWinner(); ok {
			res.Winner = int(w)
		}
	}
	res.Board = b.String()
	log.Info().
		Str("strategy", res.Strategy).
		Int("player", res.Player).
		Int("row", res.Row).
		Int("col", res.Col).
		Int("score", res.Score).
		Int("winner", res.Winner).
		Uint64("nodes", res.Nodes).
		Float64("time-elapsed-sec", res.ElapsedSec).
		Msg("solved")
	return res, nil
}
