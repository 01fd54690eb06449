package board

const (
	// WinScore is returned by EvalPos for a completed five.
	WinScore = 100000
	// OpenFourScore is returned by EvalPos for an unstoppable open four.
	OpenFourScore = 5000

	mustBlockBonus  = 1000
	openThreatBonus = 100

	remoteRadius = 2
)

// EvalPos scores a stone player already has at (row, col).
func (b *Board) EvalPos(player Cell, row, col int) int {
	score := 0
	mustBlocked := 0
	openThreats := 0
	for _, line := range b.ConnectAllDirections(player, row, col) {
		if line.IsWinner() {
			return WinScore
		}
		if line.IsNonRefutable() {
			return OpenFourScore
		}
		if line.MustBeBlocked() {
			mustBlocked++
		}
		if line.Count >= 3 && line.OpenCount >= 2 {
			openThreats++
		}
		score += line.Score()
	}
	score += mustBlocked * mustBlockBonus
	// Two simultaneous open threats cannot be parried with one stone.
	if openThreats >= 2 {
		score += openThreats * openThreatBonus
	}
	return score
}

// EvalAll sums EvalPos over every stone of player.
func (b *Board) EvalAll(player Cell) int {
	score := 0
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.cells[row*b.width+col] == player {
				score += b.EvalPos(player, row, col)
			}
		}
	}
	return score
}

// IsRemote reports whether no stone of either player lies within
// Chebyshev distance 2 of (row, col).
func (b *Board) IsRemote(row, col int) bool {
	for r := row - remoteRadius; r <= row+remoteRadius; r++ {
		for c := col - remoteRadius; c <= col+remoteRadius; c++ {
			if (r != row || c != col) && b.inBounds(r, c) && b.cells[r*b.width+c] != Empty {
				return false
			}
		}
	}
	return true
}
