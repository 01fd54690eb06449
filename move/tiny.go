package move

const (
	// layout
	// 64                              32       24           12           0
	// ssssssss ssssssss ssssssss ssssssss -------v rrrrrrrrrrrr cccccccccccc
	// s - score (signed 32 bits)
	// v - valid bit, so that (0,0) can be told apart from "no move"
	// r - row (4095 max)
	// c - col (4095 max)

	tmColBits    = 12
	tmRowShift   = 12
	tmValidShift = 24
	tmScoreShift = 32

	tmCoordBitmask = (1 << tmColBits) - 1
)

// TinyMove packs a move into a single word, for tables that store a best
// move alongside other data.
type TinyMove uint64

// ToTiny packs m. OriginalScore is not kept.
func ToTiny(m Move) TinyMove {
	return TinyMove(uint64(m.Col&tmCoordBitmask) |
		uint64(m.Row&tmCoordBitmask)<<tmRowShift |
		1<<tmValidShift |
		uint64(uint32(int32(m.Score)))<<tmScoreShift)
}

// Valid is false for the zero TinyMove.
func (tm TinyMove) Valid() bool {
	return (tm>>tmValidShift)&1 == 1
}

func (tm TinyMove) Row() int {
	return int((tm >> tmRowShift) & tmCoordBitmask)
}

func (tm TinyMove) Col() int {
	return int(tm & tmCoordBitmask)
}

func (tm TinyMove) Score() int {
	return int(int32(uint32(tm >> tmScoreShift)))
}

// Move unpacks tm.
func (tm TinyMove) Move() Move {
	return New(tm.Row(), tm.Col(), tm.Score())
}
