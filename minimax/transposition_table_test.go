package minimax

import (
	"testing"

	"github.com/matryer/is"

	"github.com/chenyukang/gomoku/move"
)

func TestTTableEntry(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	// Assure minimum size of 2<<16 elems
	tt.Reset(0)
	tentry := TableEntry{
		score:        -120000,
		flagAndDepth: 128 + 64 + 23,
		play:         move.ToTiny(move.New(7, 8, 50)),
	}
	tt.store(9409641586937047728, tentry)

	is.Equal(tt.sizePowerOf2, minSizePowerOf2)

	te := tt.lookup(9409641586937047728)
	is.True(te.valid())
	is.Equal(te.depth(), uint8(23))
	is.Equal(te.flag(), uint8(TTUpper))
	is.Equal(te.score, int32(-120000))
	is.Equal(te.move().Row(), 7)
	is.Equal(te.move().Col(), 8)

	is.Equal(tt.t2collisions.Load(), uint64(0))
	// create a collision: same bucket, different key
	te = tt.lookup(9409641586937047728 + 1<<minSizePowerOf2)
	is.Equal(te, TableEntry{})
	is.Equal(tt.t2collisions.Load(), uint64(1))

	// another lookup, but this isn't a collision. collision count should not go up.
	te = tt.lookup(9409641586937047728 + 1)
	is.Equal(te, TableEntry{})
	is.Equal(tt.lookups.Load(), uint64(3))
	is.Equal(tt.t2collisions.Load(), uint64(1))

	created, lookups, hits, t2 := tt.Stats()
	is.Equal(created, uint64(1))
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(1))
	is.Equal(t2, uint64(1))
}

func TestTTableResetClears(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	tt.store(12345, TableEntry{flagAndDepth: TTExact<<6 + 2})
	is.True(tt.lookup(12345).valid())
	tt.Reset(0)
	is.True(!tt.lookup(12345).valid())
	is.Equal(tt.lookups.Load(), uint64(1))
}
