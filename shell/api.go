package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/engine"
	"github.com/chenyukang/gomoku/mcts"
	"github.com/chenyukang/gomoku/minimax"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
)

const defaultGenPlays = 15

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newBoard(cmd)
	case "load":
		return sc.load(cmd)
	case "place", "p":
		return sc.place(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.gen(cmd)
	case "solve":
		return sc.solve(cmd)
	case "selfplay":
		return sc.selfplay(cmd)
	case "set":
		return sc.set(cmd)
	case "stats":
		return sc.stats(cmd)
	case "help":
		return sc.help(cmd)
	case "exit", "bye":
		return nil, errQuit
	}
	return nil, fmt.Errorf("unrecognized command %q; try help", cmd.cmd)
}

func (sc *ShellController) boardText() string {
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	if w, ok := sc.board.AnyWinner(); ok {
		fmt.Fprintf(&sb, "Winner: %v\n", w)
	} else {
		fmt.Fprintf(&sb, "To move: %v\n", sc.toMove)
	}
	return sb.String()
}

func (sc *ShellController) reset(b *board.Board, toMove board.Cell) {
	sc.board = b
	sc.toMove = toMove
	sc.history = nil
}

func (sc *ShellController) newBoard(cmd *shellcmd) (*Response, error) {
	width := sc.cfg.GetInt(config.ConfigBoardWidth)
	height := sc.cfg.GetInt(config.ConfigBoardHeight)
	if len(cmd.args) == 2 {
		var err error
		if width, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
		if height, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	} else if len(cmd.args) != 0 {
		return nil, errors.New("usage: new [width height]")
	}
	b, err := board.NewEmpty(width, height)
	if err != nil {
		return nil, err
	}
	sc.reset(b, board.PlayerA)
	return msg(sc.boardText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	req := engine.Request{}
	switch len(cmd.args) {
	case 1:
		req.State = cmd.args[0]
	case 3:
		req.State = cmd.args[0]
		var err error
		if req.Width, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
		if req.Height, err = strconv.Atoi(cmd.args[2]); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("usage: load STATE [width height]")
	}
	b, err := engine.ParseBoard(req)
	if err != nil {
		return nil, err
	}
	sc.reset(b, b.NextPlayer())
	return msg(sc.boardText()), nil
}

// parseCell reads either "row col" or a coordinate like H8 from args and
// returns the position and the number of arguments consumed.
func parseCell(args []string) (int, int, int, error) {
	if len(args) == 0 {
		return 0, 0, 0, errors.New("need a position")
	}
	if row, err := strconv.Atoi(args[0]); err == nil {
		if len(args) < 2 {
			return 0, 0, 0, errors.New("need both row and column")
		}
		col, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, 0, err
		}
		return row, col, 2, nil
	}
	row, col, err := move.FromBoardGameCoords(args[0])
	return row, col, 1, err
}

func (sc *ShellController) playStone(row, col int, player board.Cell) error {
	pr, pc := sc.board.LastMove()
	if err := sc.board.Play(row, col, player); err != nil {
		return err
	}
	sc.history = append(sc.history, placement{row: row, col: col, player: player, prevRow: pr, prevCol: pc})
	sc.toMove = board.Opponent(player)
	return nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	row, col, used, err := parseCell(cmd.args)
	if err != nil {
		return nil, err
	}
	player := sc.toMove
	if len(cmd.args) > used {
		p, err := strconv.Atoi(cmd.args[used])
		if err != nil {
			return nil, err
		}
		if player, err = board.PlayerFromInt(p); err != nil {
			return nil, err
		}
	}
	if err := sc.playStone(row, col, player); err != nil {
		return nil, err
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.board.Place(last.row, last.col, board.Empty)
	sc.board.SetLastMove(last.prevRow, last.prevCol)
	sc.toMove = last.player
	return msg(sc.boardText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.boardText()), nil
}

func moveTableHeader() string {
	return "     Move   Row Col   Score    Own\n"
}

func moveTableRow(idx int, m move.Move) string {
	return fmt.Sprintf("%3d: %-6s %3d %3d %7d %6d", idx+1,
		move.ToBoardGameCoords(m.Row, m.Col), m.Row, m.Col, m.Score, m.OriginalScore)
}

func (sc *ShellController) gen(cmd *shellcmd) (*Response, error) {
	n := defaultGenPlays
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	moves := movegen.GenOrderedMovesAll(sc.board, sc.toMove)
	if len(moves) == 0 {
		return msg("no candidates"), nil
	}
	var sb strings.Builder
	sb.WriteString(moveTableHeader())
	for i, m := range lo.Slice(moves, 0, n) {
		sb.WriteString(moveTableRow(i, m))
		sb.WriteString("\n")
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	name := sc.cfg.GetString(config.ConfigStrategy)
	if len(cmd.args) > 0 {
		name = cmd.args[0]
	}
	strategy, err := sc.engine.Strategy(name)
	if err != nil {
		return nil, err
	}
	sc.lastStrategy = strategy.Name()

	work := sc.board.Clone()
	res, err := sc.engine.SolveBoard(context.Background(), strategy, work, sc.toMove)
	if err != nil {
		return nil, err
	}
	if !work.Equals(sc.board) {
		if err := sc.playStone(res.Row, res.Col, sc.toMove); err != nil {
			return nil, err
		}
	}
	out, err := res.Marshal(sc.cfg.GetString(config.ConfigOutputFormat))
	if err != nil {
		return nil, err
	}
	return msg(string(out) + "\n" + sc.boardText()), nil
}

func (sc *ShellController) selfplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: selfplay STRATEGY_A STRATEGY_B [-max N]")
	}
	maxMoves := 0
	if m, ok := cmd.options["max"]; ok {
		var err error
		if maxMoves, err = strconv.Atoi(m); err != nil {
			return nil, err
		}
	}
	work := sc.board.Clone()
	rec, err := sc.engine.PlayGame(context.Background(), work, sc.toMove,
		[2]string{cmd.args[0], cmd.args[1]}, maxMoves)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, m := range rec.Moves {
		fmt.Fprintf(&sb, "%3d. %v %s\n", i+1, rec.Movers[i], m.ShortDescription())
	}
	sb.WriteString(work.ToDisplayText())
	if rec.Winner == board.Empty {
		sb.WriteString("No winner\n")
	} else {
		fmt.Fprintf(&sb, "Winner: %v\n", rec.Winner)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.cfg.AllKeys()
		sort.Strings(settings)
		var sb strings.Builder
		for _, k := range settings {
			if k == "args" {
				continue
			}
			fmt.Fprintf(&sb, "%-32s %v\n", k, sc.cfg.Get(k))
		}
		return msg(sb.String()), nil
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.cfg.Get(cmd.args[0]))), nil
	}
	key, value := cmd.args[0], strings.Join(cmd.args[1:], " ")
	sc.cfg.Set(key, value)
	if err := sc.cfg.Validate(); err != nil {
		return nil, err
	}
	// strategies are built from the config, so build them again
	sc.engine.Reset()
	return msg("set " + key + " to " + value), nil
}

type rootStatser interface {
	RootStats() []mcts.ChildStat
}

type minimaxHolder interface {
	Solver() *minimax.Solver
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	if sc.lastStrategy == "" {
		return nil, errors.New("nothing solved yet")
	}
	strategy, err := sc.engine.Strategy(sc.lastStrategy)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	switch s := strategy.(type) {
	case rootStatser:
		rs := s.RootStats()
		if len(rs) == 0 {
			return msg("no tree; the last move was forced or static"), nil
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Visits > rs[j].Visits })
		sb.WriteString("     Move   Visits   Wins Losses  WinRate\n")
		for i, c := range rs {
			fmt.Fprintf(&sb, "%3d: %-6s %6d %6d %6d %8.3f\n", i+1,
				move.ToBoardGameCoords(c.Move.Row, c.Move.Col), c.Visits, c.Wins, c.Losses, c.WinRate)
		}
		visits := lo.Map(rs, func(c mcts.ChildStat, _ int) float64 { return float64(c.Visits) })
		sb.WriteString("\nVisit distribution:\n")
		if err := histogram.Fprint(&sb, histogram.Hist(10, visits), histogram.Linear(40)); err != nil {
			return nil, err
		}
	case minimaxHolder:
		solver := s.Solver()
		fmt.Fprintf(&sb, "nodes: %d\n", solver.Nodes())
		sb.WriteString(solver.PrincipalVariation().String())
	default:
		fmt.Fprintf(&sb, "no statistics for %s\n", strategy.Name())
	}
	return msg(sb.String()), nil
}
