package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/chenyukang/gomoku/board"
)

func TestParseRequestLine(t *testing.T) {
	is := is.New(t)
	req, ok, err := ParseRequestLine("  10000/01000/00100/00000/00000 2 mcts ", 5, 5)
	is.NoErr(err)
	is.True(ok)
	is.Equal(req, Request{State: "10000/01000/00100/00000/00000", Width: 5, Height: 5, Player: 2, Strategy: "mcts"})

	_, ok, err = ParseRequestLine("# comment", 5, 5)
	is.NoErr(err)
	is.True(!ok)
	_, ok, err = ParseRequestLine("", 5, 5)
	is.NoErr(err)
	is.True(!ok)

	_, _, err = ParseRequestLine("00000 x", 5, 5)
	is.True(err != nil)
	_, _, err = ParseRequestLine("00000 1 minimax extra", 5, 5)
	is.True(err != nil)
}

func TestReadRequests(t *testing.T) {
	is := is.New(t)
	in := "# positions\n" + strings.Repeat("0", 25) + "\n\n" + strings.Repeat("0", 12) + "1" + strings.Repeat("0", 12) + " 2\n"
	reqs, err := ReadRequests(strings.NewReader(in), 0, 0)
	is.NoErr(err)
	is.Equal(len(reqs), 2)
	is.Equal(reqs[1].Player, 2)
}

func TestSolveBatch(t *testing.T) {
	is := is.New(t)
	e := New(testConfig())
	four := fourInARowState(t)
	empty := strings.Repeat(".", 25)
	reqs := []Request{
		{State: four, Player: 2},
		{State: empty},
		{State: four, Player: 2, Strategy: "minimax"},
		{State: strings.Repeat("0", 25)},
		{State: four, Player: 1, Strategy: "mcts"},
	}
	results, err := e.SolveBatch(context.Background(), reqs, 3)
	is.NoErr(err)
	is.Equal(len(results), len(reqs))
	// duplicates share one answer
	is.True(results[0] == results[2])
	is.True(results[1] == results[3])
	is.True(results[0] != results[4])

	is.Equal(results[0].Row, 7)
	is.Equal(results[0].Col, 7)
	is.Equal(results[1].Row, 2)
	is.Equal(results[1].Col, 2)
	is.Equal(results[4].Winner, int(board.PlayerA))
	is.Equal(results[4].Strategy, StrategyMonte)
}

func TestSolveBatchError(t *testing.T) {
	is := is.New(t)
	e := New(testConfig())
	_, err := e.SolveBatch(context.Background(), []Request{
		{State: strings.Repeat("0", 25)},
		{State: "12"},
	}, 2)
	is.True(err != nil)
}
