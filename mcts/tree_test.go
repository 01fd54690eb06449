package mcts

import (
	"testing"

	"github.com/matryer/is"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/move"
)

func noHash(key uint64, _ move.Move, _ board.Cell) uint64 { return key }

func singleStone(t *testing.T, row, col int) *board.Board {
	t.Helper()
	b, err := board.NewEmpty(15, 15)
	if err != nil {
		t.Fatal(err)
	}
	b.Place(row, col, board.PlayerA)
	return b
}

func TestNodeCreate(t *testing.T) {
	is := is.New(t)
	tree := newTree(singleStone(t, 5, 5), board.PlayerA, 0)
	is.Equal(tree.Size(), 1)
	is.True(tree.node(0).isRoot())
	is.Equal(len(tree.node(0).untried), 8)

	id, err := tree.expand(0, noHash)
	is.NoErr(err)
	is.Equal(id, 1)
	is.Equal(len(tree.node(0).untried), 7)
	is.Equal(tree.node(1).parent, 0)
	is.Equal(tree.node(1).player, board.PlayerB)
	is.Equal(tree.node(0).children, []int{1})
	// the child owns its own board
	c, _ := tree.node(0).state.Get(tree.node(1).action.Row, tree.node(1).action.Col)
	is.Equal(c, board.Empty)
}

func TestBackpropagate(t *testing.T) {
	is := is.New(t)
	tree := newTree(singleStone(t, 5, 5), board.PlayerA, 0)
	_, err := tree.expand(0, noHash)
	is.NoErr(err)

	tree.backpropagate(1, board.PlayerA)
	is.Equal(tree.node(1).wins, 1)
	is.Equal(tree.node(1).losses, 0)
	is.Equal(tree.node(0).wins, 0)
	is.Equal(tree.node(0).losses, 1)

	tree.backpropagate(1, board.Empty)
	is.Equal(tree.node(1).visits, 2)
	is.Equal(tree.node(0).visits, 2)
	is.Equal(tree.node(1).draws(), 1)
}

func TestWinningExpansionIsTerminal(t *testing.T) {
	is := is.New(t)
	b, err := board.NewEmpty(15, 15)
	is.NoErr(err)
	for col := 3; col < 7; col++ {
		b.Place(7, col, board.PlayerA)
	}
	b.Place(7, 2, board.PlayerB)
	tree := newTree(b, board.PlayerA, 0)
	is.Equal(len(tree.node(0).untried), 1)
	id, err := tree.expand(0, noHash)
	is.NoErr(err)
	n := tree.node(id)
	is.True(n.isTerminal())
	is.Equal(n.winner, board.PlayerA)
	is.True(n.fullyExpanded())
}

func TestBestChild(t *testing.T) {
	is := is.New(t)
	tree := &Tree{nodes: []Node{
		{parent: noParent, children: []int{1, 2, 3}, visits: 20},
		{parent: 0, visits: 10, wins: 2, losses: 8},
		{parent: 0, visits: 10, wins: 8, losses: 2},
		{parent: 0, visits: 0},
	}}
	is.Equal(tree.bestChild(0, 0.7), 3)
	tree.nodes[3].visits = 10
	tree.nodes[3].wins = 8
	tree.nodes[3].losses = 2
	// ties go to the first child
	is.Equal(tree.bestChild(0, 0.7), 2)
	is.Equal(tree.mostVisited(), 1)
}

func TestReroot(t *testing.T) {
	is := is.New(t)
	tree := &Tree{nodes: []Node{
		{parent: noParent, children: []int{1, 2}},
		{parent: 0, children: []int{3}},
		{parent: 0, children: []int{4, 5}, visits: 7},
		{parent: 1},
		{parent: 2, visits: 3},
		{parent: 2, children: []int{6}, visits: 4},
		{parent: 5, visits: 1},
	}}
	is.Equal(len(tree.descendants(0, 2)), 6)
	tree.reroot(2)
	is.Equal(tree.Size(), 4)
	is.True(tree.node(0).isRoot())
	is.Equal(tree.node(0).visits, 7)
	is.Equal(tree.node(0).children, []int{1, 2})
	is.Equal(tree.node(1).visits, 3)
	is.Equal(tree.node(2).children, []int{3})
	is.Equal(tree.node(3).parent, 2)
	is.Equal(tree.node(3).visits, 1)
}
