package mcts

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/movegen"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newSolver(t *testing.T, iterations int, sim string) *Solver {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMctsIterations, iterations)
	cfg.Set(config.ConfigMctsSimulation, sim)
	s := &Solver{}
	if err := s.Init(&cfg); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInitErrors(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMctsSimulation, "coinflip")
	err := (&Solver{}).Init(&cfg)
	is.True(errors.Is(err, ErrBadSimulation))

	cfg = config.DefaultConfig()
	cfg.Set(config.ConfigMctsStoppingCondition, "90")
	err = (&Solver{}).Init(&cfg)
	is.True(errors.Is(err, ErrBadStoppingCondition))
}

func TestMonteCarloBasic(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 20, "rollout")
	b := singleStone(t, 7, 7)
	mv, err := s.BestMove(context.Background(), b, board.PlayerB)
	is.NoErr(err)
	is.True(mv.Row >= 6 && mv.Row <= 8)
	is.True(mv.Col >= 6 && mv.Col <= 8)
	is.Equal(s.Iterations(), 20)
	rs := s.RolloutStats()
	is.True(rs.Mean() > 0)
}

func TestVisitsAddUp(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 200, "heuristic")
	b := singleStone(t, 7, 7)
	b.Place(7, 8, board.PlayerB)
	mv, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)

	is.Equal(s.tree.node(0).visits, 200)
	rs := s.RootStats()
	is.True(len(rs) > 1)
	is.Equal(lo.SumBy(rs, func(c ChildStat) int { return c.Visits }), 200)
	top := lo.MaxBy(rs, func(a, b ChildStat) bool { return a.Visits > b.Visits })
	is.Equal(top.Move, mv)
}

func TestNoBudgetIsStatic(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 0, "rollout")
	b := singleStone(t, 7, 7)
	b.Place(6, 8, board.PlayerB)
	mv, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.Equal(mv, movegen.GenOrderedMovesAll(b, board.PlayerA)[0])
	is.Equal(s.Iterations(), 0)
}

func TestForcedMoves(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 100, "rollout")
	b := fourInARow(t)
	mv, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.Equal(mv.Row, 7)
	is.Equal(mv.Col, 7)

	mv, err = s.BestMove(context.Background(), b, board.PlayerB)
	is.NoErr(err)
	is.Equal(mv.Row, 7)
	is.Equal(mv.Col, 7)
}

func TestDegenerateBoards(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 50, "rollout")
	b, err := board.NewEmpty(5, 5)
	is.NoErr(err)
	mv, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.Equal(mv.Row, 2)
	is.Equal(mv.Col, 2)

	b, err = board.NewBoard("11221 22112 11221 22112 11221", 5, 5)
	is.NoErr(err)
	mv, err = s.BestMove(context.Background(), b, board.PlayerB)
	is.NoErr(err)
	is.Equal(mv.Row, 0)
	is.Equal(mv.Col, 0)
	is.Equal(mv.Score, 0)
}

func TestTimeBudget(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 0, "heuristic")
	s.SetTimeBudget(20 * time.Millisecond)
	b := singleStone(t, 7, 7)
	b.Place(8, 8, board.PlayerB)
	_, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.True(s.Iterations() > 0)
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 100, "rollout")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := singleStone(t, 7, 7)
	b.Place(8, 8, board.PlayerB)
	_, err := s.BestMove(ctx, b, board.PlayerA)
	is.True(errors.Is(err, context.Canceled))
}

func TestReuseTree(t *testing.T) {
	is := is.New(t)
	s := newSolver(t, 100, "heuristic")
	s.SetReuseTree(true)
	b := singleStone(t, 7, 7)
	b.Place(7, 8, board.PlayerB)

	mv, err := s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.Equal(s.tree.node(0).visits, 100)

	// same position again keeps the statistics
	_, err = s.BestMove(context.Background(), b, board.PlayerA)
	is.NoErr(err)
	is.Equal(s.tree.node(0).visits, 200)

	// one ply down continues from the matching child
	childVisits := s.tree.node(s.tree.mostVisited()).visits
	mv = s.tree.node(s.tree.mostVisited()).action
	is.NoErr(b.Play(mv.Row, mv.Col, board.PlayerA))
	_, err = s.BestMove(context.Background(), b, board.PlayerB)
	is.NoErr(err)
	is.Equal(s.tree.node(0).visits, childVisits+100)
	is.True(s.tree.node(0).isRoot())

	s.SetReuseTree(false)
	_, err = s.BestMove(context.Background(), b, board.PlayerB)
	is.NoErr(err)
	is.Equal(s.tree.node(0).visits, 100)
}

func TestStoppingCondition(t *testing.T) {
	is := is.New(t)
	tree := &Tree{nodes: []Node{
		{parent: noParent, children: []int{1, 2}, visits: 1100},
		{parent: 0, visits: 1000, wins: 900, losses: 100},
		{parent: 0, visits: 100, wins: 10, losses: 90},
	}}
	is.True(!shouldStop(tree, StopNone))
	is.True(shouldStop(tree, Stop95))
	is.True(shouldStop(tree, Stop99))

	tree.nodes[2].wins = 88
	tree.nodes[2].losses = 12
	is.True(!shouldStop(tree, Stop95))

	sc, err := ParseStoppingCondition("98")
	is.NoErr(err)
	is.Equal(sc, Stop98)
}
