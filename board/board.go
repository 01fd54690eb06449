// Package board holds the gomoku grid, win detection and the line-based
// pattern evaluator that every search strategy builds on.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is the content of a single intersection.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// WinLength is the number of stones in a row needed to win.
const WinLength = 5

var (
	ErrBadSymbol    = errors.New("unrecognized board symbol")
	ErrSizeMismatch = errors.New("board string does not match dimensions")
	ErrTooSmall     = errors.New("board too small to hold a winning line")
	ErrOutOfBounds  = errors.New("position is off the board")
	ErrOccupied     = errors.New("position is already occupied")
	ErrNotAPlayer   = errors.New("cell value is not a player")
)

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "1"
	case PlayerB:
		return "2"
	default:
		return "0"
	}
}

// IsPlayer returns true for PlayerA and PlayerB.
func (c Cell) IsPlayer() bool {
	return c == PlayerA || c == PlayerB
}

// Opponent returns the other player. It panics for Empty, since asking for
// the opponent of nobody is always a programming error.
func Opponent(p Cell) Cell {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	panic(fmt.Sprintf("no opponent for cell %d", p))
}

// PlayerFromInt converts a 1/2 player id.
func PlayerFromInt(p int) (Cell, error) {
	switch p {
	case 1:
		return PlayerA, nil
	case 2:
		return PlayerB, nil
	}
	return Empty, fmt.Errorf("%w: %d", ErrNotAPlayer, p)
}

// Board is a width x height grid, stored row-major. Copies made with Clone
// never share cells.
type Board struct {
	width   int
	height  int
	cells   []Cell
	lastRow int
	lastCol int
}

// NewEmpty returns an empty board of the given size.
func NewEmpty(width, height int) (*Board, error) {
	if width < WinLength && height < WinLength {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooSmall, width, height)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooSmall, width, height)
	}
	return &Board{
		width:   width,
		height:  height,
		cells:   make([]Cell, width*height),
		lastRow: -1,
		lastCol: -1,
	}, nil
}

// NewBoard parses a serialized board. Digits 0/1/2 and the aliases
// '.', 'o', '+' are accepted; whitespace and '/' are row separators and
// are skipped.
func NewBoard(state string, width, height int) (*Board, error) {
	cells, err := parseCells(state)
	if err != nil {
		return nil, err
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d*%d <> %d", ErrSizeMismatch, width, height, len(cells))
	}
	b, err := NewEmpty(width, height)
	if err != nil {
		return nil, err
	}
	copy(b.cells, cells)
	return b, nil
}

// NewSquareBoard parses a serialized board whose side length is inferred
// from the number of cells.
func NewSquareBoard(state string) (*Board, error) {
	cells, err := parseCells(state)
	if err != nil {
		return nil, err
	}
	side := 0
	for side*side < len(cells) {
		side++
	}
	if side*side != len(cells) {
		return nil, fmt.Errorf("%w: %d cells is not a square board", ErrSizeMismatch, len(cells))
	}
	return NewBoard(state, side, side)
}

func parseCells(state string) ([]Cell, error) {
	cells := make([]Cell, 0, len(state))
	for i, r := range state {
		switch r {
		case '0', '.':
			cells = append(cells, Empty)
		case '1', 'o':
			cells = append(cells, PlayerA)
		case '2', '+':
			cells = append(cells, PlayerB)
		case ' ', '\t', '\n', '\r', '/':
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrBadSymbol, r, i)
		}
	}
	return cells, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// NumCells is width*height.
func (b *Board) NumCells() int { return len(b.cells) }

// LastMove returns the most recently placed stone, or -1, -1.
func (b *Board) LastMove() (int, int) {
	return b.lastRow, b.lastCol
}

// SetLastMove restores the last-move marker after a trial placement has
// been undone.
func (b *Board) SetLastMove(row, col int) {
	b.lastRow, b.lastCol = row, col
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.height && col >= 0 && col < b.width
}

// Get returns the cell at row, col. ok is false off the board.
func (b *Board) Get(row, col int) (Cell, bool) {
	if !b.inBounds(row, col) {
		return Empty, false
	}
	return b.cells[row*b.width+col], true
}

// is reports whether row, col is on the board and holds c.
func (b *Board) is(row, col int, c Cell) bool {
	if !b.inBounds(row, col) {
		return false
	}
	return b.cells[row*b.width+col] == c
}

// Place writes c at row, col unconditionally. Placing Empty clears the cell
// and the last-move marker; search code uses it to undo trial placements.
func (b *Board) Place(row, col int, c Cell) {
	b.cells[row*b.width+col] = c
	if c != Empty {
		b.lastRow, b.lastCol = row, col
	} else {
		b.lastRow, b.lastCol = -1, -1
	}
}

// Play is a checked placement of a player's stone.
func (b *Board) Play(row, col int, player Cell) error {
	if !player.IsPlayer() {
		return fmt.Errorf("%w: %d", ErrNotAPlayer, player)
	}
	c, ok := b.Get(row, col)
	if !ok {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, row, col)
	}
	if c != Empty {
		return fmt.Errorf("%w: (%d, %d) holds %v", ErrOccupied, row, col, c)
	}
	b.Place(row, col, player)
	return nil
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	c := *b
	c.cells = make([]Cell, len(b.cells))
	copy(c.cells, b.cells)
	return &c
}

// CopyFrom overwrites b with the contents of o. Both boards must have the
// same dimensions.
func (b *Board) CopyFrom(o *Board) {
	copy(b.cells, o.cells)
	b.lastRow, b.lastCol = o.lastRow, o.lastCol
}

// Equals compares dimensions and stones; the last-move marker is ignored.
func (b *Board) Equals(o *Board) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// AnyWinner scans the whole board for an unbroken run of five or more.
func (b *Board) AnyWinner() (Cell, bool) {
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			p := b.cells[row*b.width+col]
			if p == Empty {
				continue
			}
			for _, d := range axes {
				if b.ConnectDirection(p, row, col, d[0], d[1], true).IsWinner() {
					return p, true
				}
			}
		}
	}
	return Empty, false
}

// StoneCount returns the number of stones of the given player.
func (b *Board) StoneCount(p Cell) int {
	n := 0
	for _, c := range b.cells {
		if c == p {
			n++
		}
	}
	return n
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	return b.StoneCount(Empty)
}

// NextPlayer infers the side to move from stone counts. PlayerA opens.
func (b *Board) NextPlayer() Cell {
	if b.StoneCount(PlayerA) > b.StoneCount(PlayerB) {
		return PlayerB
	}
	return PlayerA
}

// Center returns the middle cell, used to open on an empty board.
func (b *Board) Center() (int, int) {
	return b.height / 2, b.width / 2
}

// String serializes the board as one digit per cell, row-major.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells))
	for _, c := range b.cells {
		sb.WriteByte('0' + byte(c))
	}
	return sb.String()
}

// ToDisplayText renders the board for humans. The last stone placed is
// shown in upper case.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("    ")
	for col := 0; col < b.width; col++ {
		fmt.Fprintf(&sb, "%-2d", col%100)
	}
	sb.WriteString("\n")
	sb.WriteString("   " + strings.Repeat("-", b.width*2+1) + "\n")
	for row := 0; row < b.height; row++ {
		fmt.Fprintf(&sb, "%2d| ", row)
		for col := 0; col < b.width; col++ {
			last := row == b.lastRow && col == b.lastCol
			switch b.cells[row*b.width+col] {
			case PlayerA:
				if last {
					sb.WriteString("O ")
				} else {
					sb.WriteString("o ")
				}
			case PlayerB:
				if last {
					sb.WriteString("X ")
				} else {
					sb.WriteString("+ ")
				}
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", b.width*2+1) + "\n")
	return sb.String()
}
