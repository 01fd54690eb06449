package movegen

import (
	"github.com/chenyukang/gomoku/board"
)

// Anchors are the empty cells worth considering as the next stone: inside
// the occupied bounding box grown by one, and not remote from every stone.
// These are very tied to move generation so we put them in this package.
type Anchors struct {
	anchors []bool
	board   *board.Board
}

func MakeAnchors(b *board.Board) *Anchors {
	return &Anchors{
		board:   b,
		anchors: make([]bool, b.NumCells()),
	}
}

// IsAnchor gets whether the passed-in row and column is an anchor.
func (a *Anchors) IsAnchor(row, col int) bool {
	if row < 0 || row >= a.board.Height() || col < 0 || col >= a.board.Width() {
		return false
	}
	return a.anchors[row*a.board.Width()+col]
}

// UpdateAllAnchors recomputes every anchor from the current board. An empty
// board has no anchors; callers open at the centre instead.
func (a *Anchors) UpdateAllAnchors() {
	for i := range a.anchors {
		a.anchors[i] = false
	}
	rmin, rmax, cmin, cmax, ok := BoundingBox(a.board)
	if !ok {
		return
	}
	rmin = max(rmin-1, 0)
	cmin = max(cmin-1, 0)
	rmax = min(rmax+1, a.board.Height()-1)
	cmax = min(cmax+1, a.board.Width()-1)
	for row := rmin; row <= rmax; row++ {
		for col := cmin; col <= cmax; col++ {
			if c, _ := a.board.Get(row, col); c != board.Empty {
				continue
			}
			if a.board.IsRemote(row, col) {
				continue
			}
			a.anchors[row*a.board.Width()+col] = true
		}
	}
}

// Count is the number of anchors.
func (a *Anchors) Count() int {
	n := 0
	for _, an := range a.anchors {
		if an {
			n++
		}
	}
	return n
}

func (a *Anchors) Equals(other *Anchors) bool {
	if len(a.anchors) != len(other.anchors) {
		return false
	}
	for i := range a.anchors {
		if a.anchors[i] != other.anchors[i] {
			return false
		}
	}
	return true
}

// BoundingBox returns the smallest rectangle holding every stone. ok is
// false on an empty board.
func BoundingBox(b *board.Board) (rmin, rmax, cmin, cmax int, ok bool) {
	rmin, cmin = b.Height(), b.Width()
	rmax, cmax = -1, -1
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			if c, _ := b.Get(row, col); c == board.Empty {
				continue
			}
			rmin = min(rmin, row)
			rmax = max(rmax, row)
			cmin = min(cmin, col)
			cmax = max(cmax, col)
		}
	}
	if rmax < 0 {
		return 0, 0, 0, 0, false
	}
	return rmin, rmax, cmin, cmax, true
}
