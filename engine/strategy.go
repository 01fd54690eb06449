package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/mcts"
	"github.com/chenyukang/gomoku/minimax"
	"github.com/chenyukang/gomoku/move"
)

const (
	StrategyMinimax = "minimax"
	StrategyMonte   = "monte"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy picks a move for player on b. Implementations may keep state
// between calls and are not safe for concurrent use.
type Strategy interface {
	Name() string
	BestMove(ctx context.Context, b *board.Board, player board.Cell) (move.Move, error)
}

// NodeCounter is implemented by strategies that report search effort.
type NodeCounter interface {
	Nodes() uint64
}

type minimaxStrategy struct {
	solver *minimax.Solver
}

func (m *minimaxStrategy) Name() string { return StrategyMinimax }

func (m *minimaxStrategy) BestMove(ctx context.Context, b *board.Board, player board.Cell) (move.Move, error) {
	return m.solver.Solve(ctx, b, player)
}

func (m *minimaxStrategy) Nodes() uint64 { return m.solver.Nodes() }

// Solver exposes the underlying searcher.
func (m *minimaxStrategy) Solver() *minimax.Solver { return m.solver }

type monteStrategy struct {
	solver *mcts.Solver
}

func (m *monteStrategy) Name() string { return StrategyMonte }

func (m *monteStrategy) BestMove(ctx context.Context, b *board.Board, player board.Cell) (move.Move, error) {
	return m.solver.BestMove(ctx, b, player)
}

func (m *monteStrategy) Nodes() uint64 { return uint64(m.solver.TreeSize()) }

// RootStats lists the root moves of the last search.
func (m *monteStrategy) RootStats() []mcts.ChildStat { return m.solver.RootStats() }

// CanonicalName maps aliases onto registered strategy names.
func CanonicalName(name string) (string, error) {
	switch name {
	case "", StrategyMinimax:
		return StrategyMinimax, nil
	case StrategyMonte, "mcts":
		return StrategyMonte, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// NewStrategy builds the named strategy from cfg.
func NewStrategy(name string, cfg *config.Config) (Strategy, error) {
	canon, err := CanonicalName(name)
	if err != nil {
		return nil, err
	}
	switch canon {
	case StrategyMonte:
		s := &mcts.Solver{}
		if err := s.Init(cfg); err != nil {
			return nil, err
		}
		return &monteStrategy{solver: s}, nil
	default:
		s := &minimax.Solver{}
		if err := s.Init(cfg); err != nil {
			return nil, err
		}
		return &minimaxStrategy{solver: s}, nil
	}
}
