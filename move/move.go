package move

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// ThreatScore marks a candidate that creates or blocks a live threat.
	ThreatScore = 1000
	// WinningScore marks a candidate that completes five.
	WinningScore = 100000
)

// Move is a candidate placement. Score is the value the generator assigned
// (possibly the opponent's value when the cell is a forced block) and
// OriginalScore is the mover's own score for the cell, used to break ties.
// The zero value doubles as "no move".
type Move struct {
	Row           int `json:"row" yaml:"row"`
	Col           int `json:"col" yaml:"col"`
	Score         int `json:"score" yaml:"score"`
	OriginalScore int `json:"original_score" yaml:"original_score"`
}

var reCoords *regexp.Regexp

func init() {
	reCoords = regexp.MustCompile(`^(?P<col>[A-Za-z]+)(?P<row>[0-9]+)$`)
}

// New creates a move whose original score equals its score.
func New(row, col, score int) Move {
	return Move{Row: row, Col: col, Score: score, OriginalScore: score}
}

// NewAdjusted creates a move whose ordering score differs from the mover's
// own score.
func NewAdjusted(row, col, score, original int) Move {
	return Move{Row: row, Col: col, Score: score, OriginalScore: original}
}

// IsThreat is true for moves that make or stop a must-block shape.
func (m Move) IsThreat() bool {
	return m.Score >= ThreatScore
}

// IsWinning is true for moves that complete five.
func (m Move) IsWinning() bool {
	return m.Score >= WinningScore
}

func (m Move) String() string {
	return fmt.Sprintf("<%v (%d,%d) score: %d orig: %d>",
		ToBoardGameCoords(m.Row, m.Col), m.Row, m.Col, m.Score, m.OriginalScore)
}

// ShortDescription is the coordinate and score, for logging.
func (m Move) ShortDescription() string {
	return fmt.Sprintf("%v %d", ToBoardGameCoords(m.Row, m.Col), m.Score)
}

// ToBoardGameCoords converts row and col to a coordinate like H8. Columns
// past Z continue as AA, AB, ...
func ToBoardGameCoords(row int, col int) string {
	return colLetters(col) + strconv.Itoa(row+1)
}

func colLetters(col int) string {
	s := ""
	for {
		s = string(rune('A'+col%26)) + s
		col = col/26 - 1
		if col < 0 {
			break
		}
	}
	return s
}

// FromBoardGameCoords does the inverse operation of ToBoardGameCoords.
func FromBoardGameCoords(c string) (int, int, error) {
	matches := reCoords.FindStringSubmatch(strings.TrimSpace(c))
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("malformed coordinate %q", c)
	}
	col := 0
	for _, l := range strings.ToUpper(matches[1]) {
		col = col*26 + int(l-'A') + 1
	}
	row, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, err
	}
	if row < 1 {
		return 0, 0, fmt.Errorf("malformed coordinate %q", c)
	}
	return row - 1, col - 1, nil
}
