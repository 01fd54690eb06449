package zobrist

import (
	"lukechampine.com/frand"

	"github.com/chenyukang/gomoku/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a gomoku position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	secondToMove uint64

	posTable [][2]uint64
	width    int
}

// Initialize draws keys for a board with the given number of cells.
func (z *Zobrist) Initialize(width, height int) {
	z.width = width
	z.posTable = make([][2]uint64, width*height)
	for i := range z.posTable {
		for j := 0; j < 2; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.secondToMove = frand.Uint64n(bignum) + 1
}

// Initialized reports whether keys exist for a board of this size.
func (z *Zobrist) Initialized(width, height int) bool {
	return z.posTable != nil && z.width == width && len(z.posTable) == width*height
}

func stoneIdx(p board.Cell) int {
	if p == board.PlayerB {
		return 1
	}
	return 0
}

// Hash computes the key of b with toMove to play.
func (z *Zobrist) Hash(b *board.Board, toMove board.Cell) uint64 {
	key := uint64(0)
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			c, _ := b.Get(row, col)
			if c == board.Empty {
				continue
			}
			key ^= z.posTable[row*z.width+col][stoneIdx(c)]
		}
	}
	if toMove == board.PlayerB {
		key ^= z.secondToMove
	}
	return key
}

// AddStone toggles a single stone in key. Calling it again with the same
// arguments removes the stone.
func (z *Zobrist) AddStone(key uint64, idx int, player board.Cell) uint64 {
	return key ^ z.posTable[idx][stoneIdx(player)]
}

// AddMove adds player's stone at row, col and passes the turn.
func (z *Zobrist) AddMove(key uint64, row, col int, player board.Cell) uint64 {
	key = z.AddStone(key, row*z.width+col, player)
	return key ^ z.secondToMove
}
