// Package mcts implements Monte-Carlo tree search for gomoku.
//
// The tree lives in a single arena and nodes point at their parent by
// index. Each iteration walks down the tree with UCB1, expands one untried
// candidate, evaluates the new node with a greedy rollout (or a static
// comparison of both sides) and credits the result back up to the root.
// The answer is the root child that was visited most.
package mcts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
	"github.com/chenyukang/gomoku/stats"
	"github.com/chenyukang/gomoku/zobrist"
)

// reuseDepth is how far below the old root a new position is looked for.
const reuseDepth = 2

var (
	ErrBadSimulation        = errors.New("simulation must be rollout or heuristic")
	ErrBadStoppingCondition = errors.New("stopping condition must be none, 95, 98 or 99")
)

// ChildStat summarizes one root move after a search.
type ChildStat struct {
	Move    move.Move `json:"move" yaml:"move"`
	Visits  int       `json:"visits" yaml:"visits"`
	Wins    int       `json:"wins" yaml:"wins"`
	Losses  int       `json:"losses" yaml:"losses"`
	WinRate float64   `json:"win_rate" yaml:"win_rate"`
}

// Solver runs MCTS searches. It is not safe for concurrent use; give each
// goroutine its own Solver.
type Solver struct {
	iterations      int
	timeBudget      time.Duration
	exploration     float64
	simulation      SimulationMode
	maxRolloutPlies int
	randomRollouts  bool
	reuseTree       bool
	stopCondition   StoppingCondition
	stopInterval    int

	zobrist *zobrist.Zobrist
	tree    *Tree

	lastIterations int
	rolloutStats   stats.Statistic
}

// Init reads the mcts.* settings.
func (s *Solver) Init(cfg *config.Config) error {
	s.iterations = cfg.GetInt(config.ConfigMctsIterations)
	s.timeBudget = cfg.GetDuration(config.ConfigMctsTimeBudget)
	s.exploration = cfg.GetFloat64(config.ConfigMctsExploration)
	s.maxRolloutPlies = cfg.GetInt(config.ConfigMctsMaxRolloutPlies)
	s.randomRollouts = cfg.GetBool(config.ConfigMctsRandomRollouts)
	s.reuseTree = cfg.GetBool(config.ConfigMctsReuseTree)
	s.stopInterval = cfg.GetInt(config.ConfigMctsStopCheckInterval)

	switch sim := cfg.GetString(config.ConfigMctsSimulation); sim {
	case "rollout":
		s.simulation = SimRollout
	case "heuristic":
		s.simulation = SimHeuristic
	default:
		return fmt.Errorf("%w: %q", ErrBadSimulation, sim)
	}
	sc, err := ParseStoppingCondition(cfg.GetString(config.ConfigMctsStoppingCondition))
	if err != nil {
		return fmt.Errorf("%w: %q", err, cfg.GetString(config.ConfigMctsStoppingCondition))
	}
	s.stopCondition = sc
	s.zobrist = &zobrist.Zobrist{}
	return nil
}

func (s *Solver) SetIterations(n int) {
	s.iterations = n
}

func (s *Solver) SetTimeBudget(d time.Duration) {
	s.timeBudget = d
}

func (s *Solver) SetSimulation(m SimulationMode) {
	s.simulation = m
}

func (s *Solver) SetRandomRollouts(r bool) {
	s.randomRollouts = r
}

func (s *Solver) SetReuseTree(r bool) {
	s.reuseTree = r
	if !r {
		s.tree = nil
	}
}

func (s *Solver) SetStoppingCondition(sc StoppingCondition) {
	s.stopCondition = sc
}

// Iterations is the number of iterations the last search ran.
func (s *Solver) Iterations() int {
	return s.lastIterations
}

// TreeSize is the number of nodes in the current tree.
func (s *Solver) TreeSize() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Size()
}

// RolloutStats describes the lengths of the rollouts of the last search.
func (s *Solver) RolloutStats() stats.Statistic {
	return s.rolloutStats
}

// RootStats lists the root moves in creation order.
func (s *Solver) RootStats() []ChildStat {
	if s.tree == nil {
		return nil
	}
	return lo.Map(s.tree.node(0).children, func(cid int, _ int) ChildStat {
		n := s.tree.node(cid)
		return ChildStat{
			Move:    n.action,
			Visits:  n.visits,
			Wins:    n.wins,
			Losses:  n.losses,
			WinRate: winRate(n).Mean(),
		}
	})
}

func (s *Solver) hashMove(key uint64, mv move.Move, player board.Cell) uint64 {
	return s.zobrist.AddMove(key, mv.Row, mv.Col, player)
}

// prepareTree reuses the previous tree when the new position is the old
// root or lies at most two plies below it. Otherwise it starts afresh.
func (s *Solver) prepareTree(b *board.Board, player board.Cell) {
	if !s.zobrist.Initialized(b.Width(), b.Height()) {
		s.zobrist.Initialize(b.Width(), b.Height())
		s.tree = nil
	}
	hash := s.zobrist.Hash(b, player)
	if s.reuseTree && s.tree != nil {
		for _, id := range s.tree.descendants(0, reuseDepth) {
			n := s.tree.node(id)
			if n.hash == hash && n.player == player && n.state.Equals(b) {
				s.tree.reroot(id)
				log.Debug().Int("old-node", id).Int("kept", s.tree.Size()).
					Int("visits", s.tree.node(0).visits).Msg("mcts-reusing-tree")
				return
			}
		}
	}
	s.tree = newTree(b.Clone(), player, hash)
}

// treePolicy descends from the root to the node to simulate, expanding one
// new child on the way if it can.
func (s *Solver) treePolicy() (int, error) {
	cur := 0
	for {
		n := s.tree.node(cur)
		if n.isTerminal() {
			return cur, nil
		}
		if !n.fullyExpanded() {
			return s.tree.expand(cur, s.hashMove)
		}
		if len(n.children) == 0 {
			return cur, nil
		}
		cur = s.tree.bestChild(cur, s.exploration)
	}
}

func (s *Solver) simulate(id int) board.Cell {
	n := s.tree.node(id)
	if n.isTerminal() {
		return n.winner
	}
	if s.simulation == SimHeuristic {
		return heuristic(n.state, n.player)
	}
	winner, plies := rollout(n.state, n.player, s.maxRolloutPlies, s.randomRollouts)
	s.rolloutStats.Push(float64(plies))
	return winner
}

// BestMove searches for player on b within the configured budget. A board
// without candidates yields the zero move; an empty board yields its
// centre. With no budget at all the best static candidate is returned.
func (s *Solver) BestMove(ctx context.Context, b *board.Board, player board.Cell) (move.Move, error) {
	logger := zerolog.Ctx(ctx)
	if !player.IsPlayer() {
		return move.Move{}, fmt.Errorf("%w: %d", board.ErrNotAPlayer, player)
	}
	if s.zobrist == nil {
		s.zobrist = &zobrist.Zobrist{}
	}
	s.lastIterations = 0
	s.rolloutStats = stats.Statistic{}

	if b.EmptyCount() == b.NumCells() {
		row, col := b.Center()
		return move.New(row, col, 0), nil
	}
	candidates := movegen.GenOrderedMovesAll(b, player)
	if len(candidates) == 0 {
		log.Debug().Msg("mcts-no-candidates")
		return move.Move{}, nil
	}
	if len(candidates) == 1 {
		log.Debug().Str("move", candidates[0].String()).Msg("mcts-forced-move")
		return candidates[0], nil
	}
	if s.iterations <= 0 && s.timeBudget <= 0 {
		log.Debug().Str("move", candidates[0].String()).Msg("mcts-no-budget")
		return candidates[0], nil
	}

	s.prepareTree(b, player)
	var deadline time.Time
	if s.timeBudget > 0 {
		deadline = time.Now().Add(s.timeBudget)
	}
	tstart := time.Now()

	for i := 0; s.iterations <= 0 || i < s.iterations; i++ {
		if ctx.Err() != nil {
			if s.lastIterations == 0 {
				return move.Move{}, ctx.Err()
			}
			logger.Info().Int("iterations", s.lastIterations).Msg("mcts-cancelled")
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		id, err := s.treePolicy()
		if err != nil {
			log.Error().Err(err).Msg("illegal-expansion")
			return move.Move{}, err
		}
		s.tree.backpropagate(id, s.simulate(id))
		s.lastIterations++

		if s.stopInterval > 0 && s.lastIterations%s.stopInterval == 0 {
			logger.Debug().Int("iterations", s.lastIterations).
				Int("tree-size", s.tree.Size()).Msg("mcts-progress")
			if shouldStop(s.tree, s.stopCondition) {
				break
			}
		}
	}

	best := s.tree.mostVisited()
	if best == -1 {
		return candidates[0], nil
	}
	n := s.tree.node(best)
	log.Info().
		Str("best-move", n.action.String()).
		Int("visits", n.visits).
		Int("wins", n.wins).
		Int("losses", n.losses).
		Int("iterations", s.lastIterations).
		Int("tree-size", s.tree.Size()).
		Float64("mean-rollout-plies", s.rolloutStats.Mean()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("mcts-returning")
	return n.action, nil
}
