package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/chenyukang/gomoku/board"
)

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize(15, 15)

	b, err := board.NewEmpty(15, 15)
	is.NoErr(err)
	b.Place(7, 7, board.PlayerA)
	h := z.Hash(b, board.PlayerB)
	// play and unplay a move. The final hash should be the same as the beginning hash.
	h1 := z.AddMove(h, 7, 8, board.PlayerB)
	h2 := z.AddMove(h1, 7, 8, board.PlayerB)
	is.Equal(h, h2)
	is.True(h1 != h2) // extremely unlikely to collide, but this is not technically always true.
}

func TestHashAfterMakingPlay(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize(15, 10)

	b, err := board.NewEmpty(15, 10)
	is.NoErr(err)
	b.Place(3, 4, board.PlayerA)
	b.Place(3, 5, board.PlayerB)
	h := z.Hash(b, board.PlayerA)

	h1 := z.AddMove(h, 9, 14, board.PlayerA)
	is.NoErr(b.Play(9, 14, board.PlayerA))
	h2 := z.Hash(b, board.PlayerB)
	is.Equal(h1, h2)

	h3 := z.AddMove(h2, 0, 0, board.PlayerB)
	is.NoErr(b.Play(0, 0, board.PlayerB))
	is.Equal(h3, z.Hash(b, board.PlayerA))
}

func TestTransposition(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize(9, 9)
	b, err := board.NewEmpty(9, 9)
	is.NoErr(err)
	h := z.Hash(b, board.PlayerA)

	a := z.AddMove(h, 4, 4, board.PlayerA)
	a = z.AddMove(a, 4, 5, board.PlayerB)
	a = z.AddMove(a, 3, 3, board.PlayerA)

	c := z.AddMove(h, 3, 3, board.PlayerA)
	c = z.AddMove(c, 4, 5, board.PlayerB)
	c = z.AddMove(c, 4, 4, board.PlayerA)
	is.Equal(a, c)
	is.True(z.Initialized(9, 9))
	is.True(!z.Initialized(15, 15))
}
