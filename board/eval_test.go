package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestEvalPos(t *testing.T) {
	is := is.New(t)

	b := mustBoard(t, "1111020000", 5, 2)
	is.Equal(b.EvalPos(PlayerA, 0, 0), 1050)
	is.Equal(b.EvalPos(PlayerB, 1, 0), 0)

	b = mustBoard(t, `
		0000000
		0001000
		0001000
		0111000
		0000000`, 7, 5)
	is.Equal(b.EvalPos(PlayerA, 3, 3), 2300)

	b = mustBoard(t, `
		0000000
		0000000
		0001000
		0001000
		0001200
		0002000
		0000000`, 7, 7)
	is.Equal(b.EvalPos(PlayerA, 2, 3), 30)

	b = mustBoard(t, `
		0000000
		0000000
		0000000
		0001100
		0001200
		0002000
		0000000`, 7, 7)
	is.Equal(b.EvalPos(PlayerA, 3, 4), 50)

	b = mustBoard(t, `
		0000000
		0001000
		0001000
		0001000
		0001000
		0002000
		0002000`, 7, 7)
	is.Equal(b.EvalPos(PlayerA, 1, 3), 1050)
}

func TestEvalPosWinAndOpenFour(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "1111100000", 5, 2)
	is.Equal(b.EvalPos(PlayerA, 0, 2), WinScore)

	b, err := NewEmpty(15, 15)
	is.NoErr(err)
	for col := 5; col < 9; col++ {
		b.Place(7, col, PlayerA)
	}
	is.Equal(b.EvalPos(PlayerA, 7, 6), OpenFourScore)
}

func TestEvalAll(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		state  string
		width  int
		height int
		score  int
	}{
		{"1111111111", 5, 2, 1000000},
		{"10000 01000 00100", 5, 3, 0},
		{"10000 01000 00100 00000", 5, 4, 0},
		{"10000 01000 00100 00000 00000", 5, 5, 90},
		{"10000 01100 00100 00000", 5, 4, 50},
		{"000000 011100 011100 011100 000000 000000", 6, 6, 27750},
		{"101100 000000", 6, 2, 75},
		{"1011100 0000000", 7, 2, 4180},
		{"0000000 0001000 0001000 0022000 0000000", 7, 5, 0},
		{"0000000 0001000 0001000 0020000 0000000", 7, 5, 50},
		{"0000000 0001000 0001000 0020000 0000000 0000000", 7, 6, 50},
	}
	for _, c := range cases {
		b := mustBoard(t, c.state, c.width, c.height)
		is.Equal(b.EvalAll(PlayerA), c.score)
	}

	b := mustBoard(t, "1111111111", 5, 2)
	is.Equal(b.EvalAll(PlayerB), 0)
}

func TestEvalSymmetry(t *testing.T) {
	is := is.New(t)
	const n = 15
	positions := [][2]int{{0, 0}, {0, 7}, {1, 3}, {2, 2}, {7, 7}, {4, 11}, {14, 1}}
	for _, p := range positions {
		r, c := p[0], p[1]
		mirrors := [][2]int{
			{r, c},
			{r, n - 1 - c},
			{n - 1 - r, c},
			{n - 1 - r, n - 1 - c},
			{c, r},
			{n - 1 - c, n - 1 - r},
		}
		want := 0
		for i, m := range mirrors {
			b, err := NewEmpty(n, n)
			is.NoErr(err)
			b.Place(m[0], m[1], PlayerA)
			got := b.EvalPos(PlayerA, m[0], m[1])
			if i == 0 {
				want = got
			}
			is.Equal(got, want)
		}
	}
}

func TestEvalGrowsFromThreeToFour(t *testing.T) {
	is := is.New(t)
	three := Line{3, 0, 2}
	four := Line{4, 0, 2}
	is.True(three.Score() < four.Score())

	b, err := NewEmpty(15, 15)
	is.NoErr(err)
	for col := 5; col < 8; col++ {
		b.Place(7, col, PlayerA)
	}
	before := b.EvalAll(PlayerA)
	b.Place(7, 8, PlayerA)
	after := b.EvalAll(PlayerA)
	is.True(after > before)
	is.True(after >= 10000)
}

func TestIsRemote(t *testing.T) {
	is := is.New(t)
	b, err := NewEmpty(15, 15)
	is.NoErr(err)
	is.True(b.IsRemote(7, 7))
	b.Place(7, 7, PlayerA)
	is.True(!b.IsRemote(5, 5))
	is.True(!b.IsRemote(9, 8))
	is.True(!b.IsRemote(7, 9))
	is.True(b.IsRemote(4, 7))
	is.True(b.IsRemote(7, 10))
	// the anchor cell itself does not count
	is.True(b.IsRemote(7, 7))
}
