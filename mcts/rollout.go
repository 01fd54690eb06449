package mcts

import (
	"lukechampine.com/frand"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
)

// SimulationMode decides how a freshly expanded node is evaluated.
type SimulationMode int

const (
	SimRollout SimulationMode = iota
	SimHeuristic
)

func (m SimulationMode) String() string {
	if m == SimHeuristic {
		return "heuristic"
	}
	return "rollout"
}

// rolloutPolicy picks the top generator move. With random set, it picks
// uniformly among the moves tied with the top one on both scores.
func rolloutPolicy(moves []move.Move, random bool) move.Move {
	if !random {
		return moves[0]
	}
	tied := 1
	for tied < len(moves) &&
		moves[tied].Score == moves[0].Score &&
		moves[tied].OriginalScore == moves[0].OriginalScore {
		tied++
	}
	return moves[frand.Intn(tied)]
}

// rollout plays greedy moves from a copy of state until somebody wins, the
// board runs out of candidates or maxPlies is reached. The last two are
// draws and return board.Empty. plies is the number of moves played.
func rollout(state *board.Board, player board.Cell, maxPlies int, random bool) (winner board.Cell, plies int) {
	b := state.Clone()
	for plies < maxPlies {
		moves := movegen.GenOrderedMovesAll(b, player)
		if len(moves) == 0 {
			return board.Empty, plies
		}
		mv := rolloutPolicy(moves, random)
		b.Place(mv.Row, mv.Col, player)
		plies++
		if mv.OriginalScore >= move.WinningScore {
			return player, plies
		}
		player = board.Opponent(player)
	}
	return board.Empty, plies
}

// heuristic compares the static evaluation of both sides; equal is a draw.
func heuristic(state *board.Board, player board.Cell) board.Cell {
	own := state.EvalAll(player)
	oppo := state.EvalAll(board.Opponent(player))
	switch {
	case own > oppo:
		return player
	case oppo > own:
		return board.Opponent(player)
	}
	return board.Empty
}
