package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
)

var ErrNoStrategies = errors.New("self-play needs a strategy for each player")

// GameRecord is the outcome of a self-play game.
type GameRecord struct {
	Moves  []move.Move  `json:"moves" yaml:"moves"`
	Movers []board.Cell `json:"movers" yaml:"movers"`
	Winner board.Cell   `json:"winner" yaml:"winner"`
	Final  string       `json:"final" yaml:"final"`
}

// PlayGame lets two strategies play from b until one of them wins, no
// candidate is left or maxMoves moves have been made (0 means no limit).
// strategies[0] plays PlayerA and strategies[1] PlayerB. b is modified.
func (e *Engine) PlayGame(ctx context.Context, b *board.Board, first board.Cell,
	strategies [2]string, maxMoves int) (*GameRecord, error) {

	var players [2]Strategy
	for i, name := range strategies {
		if name == "" {
			return nil, ErrNoStrategies
		}
		s, err := NewStrategy(name, e.cfg)
		if err != nil {
			return nil, err
		}
		players[i] = s
	}

	rec := &GameRecord{}
	toMove := first
	if !toMove.IsPlayer() {
		toMove = b.NextPlayer()
	}
	for maxMoves <= 0 || len(rec.Moves) < maxMoves {
		if w, ok := b.AnyWinner(); ok {
			rec.Winner = w
			break
		}
		if b.EmptyCount() != b.NumCells() && len(movegen.GenOrderedMovesAll(b, toMove)) == 0 {
			break
		}
		s := players[0]
		if toMove == board.PlayerB {
			s = players[1]
		}
		mv, err := s.BestMove(ctx, b, toMove)
		if err != nil {
			return nil, err
		}
		if err := b.Play(mv.Row, mv.Col, toMove); err != nil {
			log.Error().Err(err).Str("strategy", s.Name()).Str("move", mv.String()).
				Msg("self-play-illegal-move")
			return nil, err
		}
		rec.Moves = append(rec.Moves, mv)
		rec.Movers = append(rec.Movers, toMove)
		log.Debug().Str("strategy", s.Name()).Int("player", int(toMove)).
			Str("move", mv.ShortDescription()).Msg("self-play-move")
		toMove = board.Opponent(toMove)
	}
	if rec.Winner == board.Empty {
		if w, ok := b.AnyWinner(); ok {
			rec.Winner = w
		}
	}
	rec.Final = b.String()
	log.Info().Int("moves", len(rec.Moves)).Int("winner", int(rec.Winner)).Msg("self-play-done")
	return rec, nil
}
