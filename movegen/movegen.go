// Package movegen contains the candidate generators used by every search.
// Candidates are pruned to the neighbourhood of existing stones and ordered
// so that alpha-beta and tree expansion try the strongest cells first.
package movegen

import (
	"sort"

	"github.com/samber/lo"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/move"
)

const (
	// blockThreshold is the opponent score above which an otherwise quiet
	// cell is ranked as a block.
	blockThreshold = board.OpenFourScore
	// quietThreshold is the highest own score still treated as quiet.
	quietThreshold = 2000
)

type cellScore struct {
	row, col  int
	own, oppo int
}

// ranked applies the block override to a scored cell.
func (cs cellScore) ranked() move.Move {
	score := cs.own
	if cs.oppo >= blockThreshold && cs.own <= quietThreshold {
		score = cs.oppo
	}
	return move.NewAdjusted(cs.row, cs.col, score, cs.own)
}

// scoreAnchors places player's stone (and, if withOppo, the opponent's) on
// every anchor in scan order, scores it with EvalPos and undoes the
// placement. stop is consulted after each cell; returning true ends the
// scan early.
func scoreAnchors(b *board.Board, player board.Cell, withOppo bool,
	stop func(cellScore) bool) []cellScore {

	anchors := MakeAnchors(b)
	anchors.UpdateAllAnchors()
	scores := make([]cellScore, 0, anchors.Count())

	lr, lc := b.LastMove()
	defer b.SetLastMove(lr, lc)

	oppo := board.Opponent(player)
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			if !anchors.IsAnchor(row, col) {
				continue
			}
			cs := cellScore{row: row, col: col}
			b.Place(row, col, player)
			cs.own = b.EvalPos(player, row, col)
			if withOppo {
				b.Place(row, col, oppo)
				cs.oppo = b.EvalPos(oppo, row, col)
			}
			b.Place(row, col, board.Empty)
			scores = append(scores, cs)
			if stop != nil && stop(cs) {
				return scores
			}
		}
	}
	return scores
}

// GenOrderedMoves scores every candidate cell from player's point of view
// and returns them best first. Equal scores keep scan order.
func GenOrderedMoves(b *board.Board, player board.Cell) []move.Move {
	scores := scoreAnchors(b, player, false, nil)
	moves := lo.Map(scores, func(cs cellScore, _ int) move.Move {
		return move.New(cs.row, cs.col, cs.own)
	})
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	return moves
}

// GenOrderedMovesAll is GenOrderedMoves with threat awareness. A cell where
// the opponent would build a serious threat while player's own gain is
// small is ranked by the opponent's score instead. If any cell wins on the
// spot it is returned alone; failing that, a cell the opponent would win
// on is returned alone. Otherwise moves are ordered by score and then by
// the mover's own score.
func GenOrderedMovesAll(b *board.Board, player board.Cell) []move.Move {
	var block *cellScore
	var win *cellScore
	scores := scoreAnchors(b, player, true, func(cs cellScore) bool {
		if cs.own >= board.WinScore {
			win = &cs
			return true
		}
		if block == nil && cs.oppo >= board.WinScore {
			block = &cs
		}
		return false
	})
	if win != nil {
		return []move.Move{win.ranked()}
	}
	if block != nil {
		return []move.Move{block.ranked()}
	}

	moves := lo.Map(scores, func(cs cellScore, _ int) move.Move {
		return cs.ranked()
	})
	sort.SliceStable(moves, func(i, j int) bool {
		if moves[i].Score != moves[j].Score {
			return moves[i].Score > moves[j].Score
		}
		return moves[i].OriginalScore > moves[j].OriginalScore
	})
	return moves
}
