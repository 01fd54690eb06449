package board

// axes are the four line directions; the opposite sense of each is covered
// by walking with the negated vector.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// maxRoom bounds the empty cells counted past the ends of a run.
const maxRoom = 4

// Line is a measured run of one player's stones through an anchor cell.
// Lines are computed on demand and never stored.
type Line struct {
	Count      int
	SpaceCount int
	OpenCount  int
}

// IsWinner is an unbroken five (or more).
func (l Line) IsWinner() bool {
	return l.Count >= WinLength && l.SpaceCount == 0
}

// IsNonRefutable is an open four: it cannot be stopped next turn.
func (l Line) IsNonRefutable() bool {
	return l.Count == 4 && l.SpaceCount == 0 && l.OpenCount == 2
}

// MustBeBlocked reports live threats the opponent has to answer.
func (l Line) MustBeBlocked() bool {
	switch {
	case l.Count == 3 && l.SpaceCount == 0 && l.OpenCount == 2:
		return true
	case l.Count == 3 && l.SpaceCount == 1 && l.OpenCount == 2:
		return true
	case l.Count == 4 && l.SpaceCount == 1:
		return true
	case l.Count == 4 && l.SpaceCount == 0 && l.OpenCount > 0:
		return true
	}
	return false
}

// Score looks the line up in the pattern table.
func (l Line) Score() int {
	switch {
	case l.Count >= 5 && l.SpaceCount == 0:
		return 11000
	case l.Count >= 5 && l.SpaceCount == 1:
		return 2000
	}
	type key struct{ count, space, open int }
	switch (key{l.Count, l.SpaceCount, l.OpenCount}) {
	case key{4, 0, 2}:
		return 10000
	case key{3, 0, 2}, key{4, 0, 1}:
		return 50
	case key{4, 1, 1}, key{4, 1, 2}, key{3, 0, 1}:
		return 30
	case key{3, 1, 1}, key{2, 0, 2}:
		return 25
	case key{3, 1, 2}:
		return 10
	}
	return 0
}

// SingleScore is a cheap weighting used only to pick the best of several
// measurements along the same axis.
func (l Line) SingleScore() int {
	return l.Count*2 + (l.OpenCount*3)/2 - l.SpaceCount
}

// ConnectDirection measures the run through (row, col) along (dr, dc),
// walking the positive sense first and then the negative one. The anchor
// is counted as one of player's stones. When strict is false a single
// empty cell may be absorbed, but only if player's stone sits right behind
// it in the direction of travel.
func (b *Board) ConnectDirection(player Cell, row, col, dr, dc int, strict bool) Line {
	count := 1
	spaceCount := 0
	openCount := 2
	room := 0
	gaps := 1
	if strict {
		gaps = 0
	}
	for _, sign := range [2]int{1, -1} {
		sr, sc := dr*sign, dc*sign
		r, c := row, col
		for {
			r += sr
			c += sc
			cell, ok := b.Get(r, c)
			if ok && cell == player {
				count++
				continue
			}
			if ok && cell == Empty {
				if gaps > 0 && b.is(r+sr, c+sc, player) {
					gaps--
					spaceCount++
					continue
				}
				// Measure how far the line could still grow this way.
				for x, y := r, c; room <= maxRoom && b.is(x, y, Empty); x, y = x+sr, y+sc {
					room++
				}
				break
			}
			// Opponent stone or the edge of the board.
			openCount--
			break
		}
	}
	if count+spaceCount+room < WinLength {
		openCount = 0
	}
	if count >= WinLength {
		if spaceCount == 0 {
			count = WinLength
			openCount = 2
		} else {
			count = 4
			openCount = 1
		}
	}
	return Line{Count: count, SpaceCount: spaceCount, OpenCount: openCount}
}

// ConnectAllDirections returns the best measurement along each axis. A gap
// can only be spent from one end per walk, so both ends are tried and the
// strict run is kept unless a gapped one beats it.
func (b *Board) ConnectAllDirections(player Cell, row, col int) [4]Line {
	var lines [4]Line
	for i, d := range axes {
		l0 := b.ConnectDirection(player, row, col, d[0], d[1], true)
		l1 := b.ConnectDirection(player, row, col, d[0], d[1], false)
		l2 := b.ConnectDirection(player, row, col, -d[0], -d[1], false)
		l := l2
		if l1.SingleScore() > l2.SingleScore() {
			l = l1
		}
		if l.SingleScore() > l0.SingleScore() {
			lines[i] = l
		} else {
			lines[i] = l0
		}
	}
	return lines
}
