package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestBoardCreate(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard("121211", 1, 6)
	is.NoErr(err)
	is.Equal(b.Width(), 1)
	is.Equal(b.Height(), 6)
	is.Equal(b.String(), "121211")
	row, col := b.LastMove()
	is.Equal(row, -1)
	is.Equal(col, -1)
}

func TestBoardAliasesAndSeparators(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(`
		. o + . .
		0 1 2 0 0`, 5, 2)
	is.NoErr(err)
	is.Equal(b.String(), "0120001200")

	b, err = NewBoard("10000/01000/00100/00000", 5, 4)
	is.NoErr(err)
	c, ok := b.Get(2, 2)
	is.True(ok)
	is.Equal(c, PlayerA)
}

func TestBoardCopy(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard("121211", 1, 6)
	is.NoErr(err)
	cp := b.Clone()
	cp.Place(0, 0, Empty)
	c, _ := b.Get(0, 0)
	is.Equal(c, PlayerA)
	c, _ = cp.Get(0, 0)
	is.Equal(c, Empty)
	is.True(!b.Equals(cp))
	cp.CopyFrom(b)
	is.True(b.Equals(cp))
}

func TestBoardErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewSquareBoard("12123")
	is.True(errors.Is(err, ErrSizeMismatch))

	_, err = NewBoard("12", 2, 2)
	is.True(errors.Is(err, ErrSizeMismatch))

	_, err = NewBoard("1111x00000", 5, 2)
	is.True(errors.Is(err, ErrBadSymbol))

	_, err = NewBoard("0000", 2, 2)
	is.True(errors.Is(err, ErrTooSmall))

	b, err := NewSquareBoard("1212112121121211212112121")
	is.NoErr(err)
	is.Equal(b.Width(), 5)
	is.Equal(b.Height(), 5)
}

func TestBoardElements(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard("000112000112", 6, 2)
	is.NoErr(err)
	c, _ := b.Get(0, 0)
	is.Equal(c, Empty)
	c, _ = b.Get(1, 4)
	is.Equal(c, PlayerA)
	c, _ = b.Get(1, 5)
	is.Equal(c, PlayerB)
	_, ok := b.Get(2, 0)
	is.True(!ok)
	_, ok = b.Get(0, -1)
	is.True(!ok)
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	b, err := NewEmpty(5, 5)
	is.NoErr(err)
	is.NoErr(b.Play(2, 2, PlayerA))
	row, col := b.LastMove()
	is.Equal(row, 2)
	is.Equal(col, 2)

	is.True(errors.Is(b.Play(2, 2, PlayerB), ErrOccupied))
	is.True(errors.Is(b.Play(5, 0, PlayerB), ErrOutOfBounds))
	is.True(errors.Is(b.Play(0, 0, Empty), ErrNotAPlayer))

	b.Place(2, 2, Empty)
	row, col = b.LastMove()
	is.Equal(row, -1)
	is.Equal(col, -1)
	is.Equal(b.EmptyCount(), 25)
}

func TestBoardCheckWinner(t *testing.T) {
	is := is.New(t)
	type tc struct {
		state  string
		width  int
		height int
		winner Cell
		found  bool
	}
	cases := []tc{
		{"1111100000", 5, 2, PlayerA, true},
		{"1111000000", 5, 2, Empty, false},
		{"1111022222", 5, 2, PlayerB, true},
		{"111101111011110", 5, 3, Empty, false},
		{"1111011110111101111010000", 5, 5, PlayerA, true},
		{"1111011110111100111010000", 5, 5, Empty, false},
		{"10000 01000 00100 00010 00001", 5, 5, PlayerA, true},
		{"10000 01000 00000 00010 00001", 5, 5, Empty, false},
		{"22220 10000 01000 00100 00010 00001", 5, 6, PlayerA, true},
		{"22220 00001 00010 00100 01000 10000", 5, 6, PlayerA, true},
		{"22222 00001 00010 00100 01000 10000", 5, 6, PlayerB, true},
		// four with a single gap is not a win
		{"1101100000", 5, 2, Empty, false},
		{"1111011111", 5, 2, PlayerA, true},
	}
	for _, c := range cases {
		b, err := NewBoard(c.state, c.width, c.height)
		is.NoErr(err)
		w, ok := b.AnyWinner()
		is.Equal(ok, c.found)
		is.Equal(w, c.winner)
	}
}

func TestWinnerColumn(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(`
		10000
		10001
		01021
		00001
		00001
		00001`, 5, 6)
	is.NoErr(err)
	line := b.ConnectDirection(PlayerA, 1, 4, 1, 0, true)
	is.Equal(line.Count, 5)
	w, ok := b.AnyWinner()
	is.True(ok)
	is.Equal(w, PlayerA)
}

func TestNextPlayer(t *testing.T) {
	is := is.New(t)
	b, err := NewEmpty(15, 15)
	is.NoErr(err)
	is.Equal(b.NextPlayer(), PlayerA)
	b.Place(7, 7, PlayerA)
	is.Equal(b.NextPlayer(), PlayerB)
	b.Place(7, 8, PlayerB)
	is.Equal(b.NextPlayer(), PlayerA)
	is.Equal(b.StoneCount(PlayerA), 1)
	is.Equal(b.StoneCount(PlayerB), 1)
}

func TestOpponent(t *testing.T) {
	is := is.New(t)
	is.Equal(Opponent(PlayerA), PlayerB)
	is.Equal(Opponent(PlayerB), PlayerA)
	p, err := PlayerFromInt(2)
	is.NoErr(err)
	is.Equal(p, PlayerB)
	_, err = PlayerFromInt(3)
	is.True(errors.Is(err, ErrNotAPlayer))
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	b, err := NewEmpty(5, 5)
	is.NoErr(err)
	b.Place(0, 0, PlayerA)
	b.Place(1, 1, PlayerB)
	txt := b.ToDisplayText()
	is.True(strings.Contains(txt, " 0| o . . . . |"))
	is.True(strings.Contains(txt, " 1| . X . . . |"))
}
