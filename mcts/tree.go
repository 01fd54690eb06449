package mcts

import (
	"math"

	"github.com/chenyukang/gomoku/board"
	"github.com/chenyukang/gomoku/move"
	"github.com/chenyukang/gomoku/movegen"
)

// noParent marks the root of a tree.
const noParent = -1

// Node is one position in the search tree. Nodes refer to each other only
// by their index in the owning Tree.
type Node struct {
	parent   int
	children []int

	visits int
	wins   int
	losses int

	state   *board.Board
	player  board.Cell // to move
	untried []move.Move
	action  move.Move
	hash    uint64

	// winner is set when the action that led here completed five.
	winner board.Cell
}

func (n *Node) isRoot() bool {
	return n.parent == noParent
}

func (n *Node) isTerminal() bool {
	return n.winner != board.Empty
}

func (n *Node) fullyExpanded() bool {
	return len(n.untried) == 0
}

// score is the net result from the point of view of the player who moved
// into this node.
func (n *Node) score() float64 {
	return float64(n.wins - n.losses)
}

func (n *Node) draws() int {
	return n.visits - n.wins - n.losses
}

// Action is the move that led to this node.
func (n *Node) Action() move.Move {
	return n.action
}

// Tree is an arena of nodes. Index 0 is the root.
type Tree struct {
	nodes []Node
}

func newTree(state *board.Board, player board.Cell, hash uint64) *Tree {
	t := &Tree{}
	t.newNode(noParent, state, player, move.Move{}, hash)
	if w, ok := state.AnyWinner(); ok {
		t.nodes[0].winner = w
		t.nodes[0].untried = nil
	}
	return t
}

func (t *Tree) newNode(parent int, state *board.Board, player board.Cell,
	action move.Move, hash uint64) int {

	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		parent: parent,
		state:  state,
		player: player,
		action: action,
		hash:   hash,
	})
	if parent != noParent {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	// A side that has just won leaves nothing for the other to try.
	if action.OriginalScore >= move.WinningScore {
		t.nodes[id].winner = board.Opponent(player)
		return id
	}
	t.nodes[id].untried = movegen.GenOrderedMovesAll(state, player)
	return id
}

func (t *Tree) node(id int) *Node {
	return &t.nodes[id]
}

// Size is the number of nodes in the arena.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// expand pops the best untried move of id and creates its child.
func (t *Tree) expand(id int, hashMove func(uint64, move.Move, board.Cell) uint64) (int, error) {
	n := t.node(id)
	mv := n.untried[0]
	n.untried = n.untried[1:]
	player := n.player
	state := n.state.Clone()
	if err := state.Play(mv.Row, mv.Col, player); err != nil {
		return 0, err
	}
	hash := hashMove(n.hash, mv, player)
	// n may be invalid once the arena grows.
	return t.newNode(id, state, board.Opponent(player), mv, hash), nil
}

// backpropagate credits winner to every node from id up to the root. A
// node's wins count results for the player who moved into it.
func (t *Tree) backpropagate(id int, winner board.Cell) {
	for id != noParent {
		n := t.node(id)
		n.visits++
		switch winner {
		case n.player:
			n.losses++
		case board.Empty:
		default:
			n.wins++
		}
		id = n.parent
	}
}

// bestChild picks the child with the highest UCB1 value. Unvisited
// children come first; ties go to the child created first.
func (t *Tree) bestChild(id int, c float64) int {
	n := t.node(id)
	best := -1
	bestVal := math.Inf(-1)
	lnN := math.Log(float64(n.visits))
	for _, cid := range n.children {
		ch := t.node(cid)
		if ch.visits == 0 {
			return cid
		}
		cn := float64(ch.visits)
		v := ch.score()/cn + c*math.Sqrt(2*lnN/cn)
		if v > bestVal {
			bestVal = v
			best = cid
		}
	}
	return best
}

// mostVisited returns the root child with the most visits, or -1 if the
// root has no children.
func (t *Tree) mostVisited() int {
	best := -1
	bestVisits := -1
	for _, cid := range t.nodes[0].children {
		if v := t.nodes[cid].visits; v > bestVisits {
			bestVisits = v
			best = cid
		}
	}
	return best
}

// descendants lists id and every node below it down to depth levels.
func (t *Tree) descendants(id, depth int) []int {
	ids := []int{id}
	frontier := []int{id}
	for d := 0; d < depth; d++ {
		var next []int
		for _, f := range frontier {
			next = append(next, t.nodes[f].children...)
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids
}

// reroot makes id the new root and drops everything outside its subtree.
// The surviving nodes are renumbered breadth first.
func (t *Tree) reroot(id int) {
	remap := map[int]int{id: 0}
	order := []int{id}
	for i := 0; i < len(order); i++ {
		for _, c := range t.nodes[order[i]].children {
			remap[c] = len(order)
			order = append(order, c)
		}
	}
	nodes := make([]Node, len(order))
	for newID, oldID := range order {
		n := t.nodes[oldID]
		if newID == 0 {
			n.parent = noParent
		} else {
			n.parent = remap[n.parent]
		}
		children := make([]int, len(n.children))
		for i, c := range n.children {
			children[i] = remap[c]
		}
		n.children = children
		nodes[newID] = n
	}
	t.nodes = nodes
}
