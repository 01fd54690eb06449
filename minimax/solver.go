// Package minimax is a depth-bounded negamax search with alpha-beta
// pruning over the ordered candidates from movegen.
package minimax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
	"github.com/chenyukang/gomoku/zobrist"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/
// Here a move is worth its own pattern score minus the best the opponent
// can make of the reply, so the child window is shifted by that score.

const HugeNumber = math.MaxInt32 / 4
const MaxDepth = 63

var (
	ErrIllegalMove = errors.New("search tried an illegal placement")
	ErrBadDepth    = errors.New("depth must be between 1 and 63")
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	Moves []move.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m move.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// Get the best move from the principal variation line.
func (pvLine *PVLine) GetPVMove() move.Move {
	return pvLine.Moves[0]
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d\n", pvLine.score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, m.ShortDescription())
	}
	return sb.String()
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d; ", pvLine.score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s; ", i+1, m.ShortDescription())
	}
	return sb.String()
}

type Solver struct {
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable

	transpositionTableOptim bool
	ttableFraction          float64
	maxCandidates           int
	depth                   int

	principalVariation PVLine
	bestPVValue        int
	nodes              atomic.Uint64

	logStream io.Writer
}

// Init initializes the solver from the minimax.* settings.
func (s *Solver) Init(cfg *config.Config) error {
	s.zobrist = &zobrist.Zobrist{}
	s.ttable = &TranspositionTable{}
	s.depth = cfg.GetInt(config.ConfigMinimaxDepth)
	s.maxCandidates = cfg.GetInt(config.ConfigMinimaxMaxCandidates)
	s.transpositionTableOptim = cfg.GetBool(config.ConfigMinimaxTTable)
	s.ttableFraction = cfg.GetFloat64(config.ConfigMinimaxTTableMemoryFraction)
	if s.depth < 1 || s.depth > MaxDepth {
		return fmt.Errorf("%w: %d", ErrBadDepth, s.depth)
	}
	return nil
}

func (s *Solver) negamax(ctx context.Context, b *board.Board, nodeKey uint64,
	player board.Cell, depth, α, β int, pv *PVLine) (int, move.Move, error) {

	if ctx.Err() != nil {
		return 0, move.Move{}, ctx.Err()
	}
	s.nodes.Add(1)

	alphaOrig := α
	if s.transpositionTableOptim {
		ttEntry := s.ttable.lookup(nodeKey)
		if ttEntry.valid() && ttEntry.depth() >= uint8(depth) {
			score := int(ttEntry.score)
			switch ttEntry.flag() {
			case TTExact:
				return score, ttEntry.move().Move(), nil
			case TTLower:
				α = max(α, score)
			case TTUpper:
				β = min(β, score)
			}
			if α >= β {
				return score, ttEntry.move().Move(), nil
			}
		}
	}

	children := movegen.GenOrderedMovesAll(b, player)
	if len(children) == 0 {
		return 0, move.Move{}, nil
	}
	if s.maxCandidates > 0 && len(children) > s.maxCandidates {
		children = children[:s.maxCandidates]
	}
	// Score ranks a forced block by the opponent's threat; only the mover's
	// own OriginalScore may count as a win or feed the value.
	if len(children) == 1 || children[0].OriginalScore >= move.WinningScore {
		pv.Update(children[0], PVLine{}, children[0].OriginalScore)
		return children[0].OriginalScore, children[0], nil
	}

	opp := board.Opponent(player)
	lastRow, lastCol := b.LastMove()
	childPV := PVLine{}
	bestValue := -HugeNumber
	var bestMove move.Move
	for _, child := range children {
		if err := b.Play(child.Row, child.Col, player); err != nil {
			log.Error().Err(err).Str("move", child.String()).Msg("illegal-search-move")
			return 0, move.Move{}, fmt.Errorf("%w: %w", ErrIllegalMove, err)
		}
		value := child.OriginalScore
		if depth > 1 {
			childKey := s.zobrist.AddMove(nodeKey, child.Row, child.Col, player)
			oppValue, _, err := s.negamax(ctx, b, childKey, opp, depth-1,
				value-β, value-α, &childPV)
			if err != nil {
				b.Place(child.Row, child.Col, board.Empty)
				b.SetLastMove(lastRow, lastCol)
				return 0, move.Move{}, err
			}
			value -= oppValue
		}
		b.Place(child.Row, child.Col, board.Empty)
		b.SetLastMove(lastRow, lastCol)

		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "%v- play: %v value: %v\n",
				strings.Repeat("  ", s.depth-depth), child.ShortDescription(), value)
		}
		if value > bestValue {
			bestValue = value
			bestMove = child
			pv.Update(child, childPV, bestValue)
		}
		α = max(α, bestValue)
		if α >= β {
			break // beta cut-off
		}
		childPV.Clear() // clear the child node's pv for the next child node
	}

	if s.transpositionTableOptim {
		var flag uint8
		if bestValue <= alphaOrig {
			flag = TTUpper
		} else if bestValue >= β {
			flag = TTLower
		} else {
			flag = TTExact
		}
		s.ttable.store(nodeKey, TableEntry{
			score:        int32(bestValue),
			flagAndDepth: flag<<6 + uint8(depth),
			play:         move.ToTiny(bestMove),
		})
	}
	return bestValue, bestMove, nil
}

// BestMove searches depth plies for player and returns the value of the
// best move and its coordinates. The board is not modified. A board with no
// candidates yields (0, 0, 0); an empty board yields its centre.
func (s *Solver) BestMove(ctx context.Context, b *board.Board, player board.Cell,
	depth int) (int, int, int, error) {

	if !player.IsPlayer() {
		return 0, 0, 0, fmt.Errorf("%w: %d", board.ErrNotAPlayer, player)
	}
	if depth < 1 || depth > MaxDepth {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrBadDepth, depth)
	}
	if b.EmptyCount() == b.NumCells() {
		row, col := b.Center()
		log.Debug().Int("row", row).Int("col", col).Msg("empty-board-opening")
		return 0, row, col, nil
	}
	if s.zobrist == nil {
		s.zobrist = &zobrist.Zobrist{}
	}
	if !s.zobrist.Initialized(b.Width(), b.Height()) {
		s.zobrist.Initialize(b.Width(), b.Height())
	}
	if s.ttable == nil {
		s.ttable = &TranspositionTable{}
	}
	if s.transpositionTableOptim {
		s.ttable.Reset(s.ttableFraction)
	}
	log.Debug().Int("depth", depth).Str("player", player.String()).
		Int("max-candidates", s.maxCandidates).
		Bool("ttable", s.transpositionTableOptim).Msg("minimax-solve-config")

	tstart := time.Now()
	s.nodes.Store(0)
	s.principalVariation.Clear()
	work := b.Clone()
	key := s.zobrist.Hash(work, player)
	pv := PVLine{}
	val, best, err := s.negamax(ctx, work, key, player, depth, -HugeNumber, HugeNumber, &pv)
	if err != nil {
		return 0, 0, 0, err
	}
	s.principalVariation = pv
	s.bestPVValue = val

	ev := log.Info().
		Int("best-val", val).
		Str("best-move", best.String()).
		Uint64("nodes", s.nodes.Load()).
		Str("pv", pv.NLBString()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds())
	if s.transpositionTableOptim {
		created, lookups, hits, t2 := s.ttable.Stats()
		ev = ev.Uint64("ttable-created", created).
			Uint64("ttable-lookups", lookups).
			Uint64("ttable-hits", hits).
			Uint64("ttable-t2collisions", t2)
	}
	ev.Msg("solve-returning")

	if best == (move.Move{}) {
		return 0, 0, 0, nil
	}
	return val, best.Row, best.Col, nil
}

// Solve searches to the configured depth and returns the chosen move with
// its search value as the score.
func (s *Solver) Solve(ctx context.Context, b *board.Board, player board.Cell) (move.Move, error) {
	val, row, col, err := s.BestMove(ctx, b, player, s.depth)
	if err != nil {
		return move.Move{}, err
	}
	orig := 0
	if pvm := s.principalVariation.Moves; len(pvm) > 0 {
		orig = pvm[0].OriginalScore
	}
	return move.NewAdjusted(row, col, val, orig), nil
}

// Nodes is the number of nodes visited by the last search.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// PrincipalVariation is the best line found by the last search.
func (s *Solver) PrincipalVariation() PVLine {
	return s.principalVariation
}

func (s *Solver) SetDepth(d int) {
	s.depth = d
}

func (s *Solver) Depth() int {
	return s.depth
}

func (s *Solver) SetMaxCandidates(n int) {
	s.maxCandidates = n
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}
