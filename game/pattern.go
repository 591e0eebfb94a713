package game

import "fmt"

// Pattern names a winning arrangement of cells on the 5x5 grid.
type Pattern string

const (
	PatternRow      Pattern = "row"
	PatternColumn   Pattern = "column"
	PatternDiagonal Pattern = "diagonal"
	PatternCorners  Pattern = "corners"
	PatternFullCard Pattern = "full_card"
)

// ParsePattern validates a pattern name from the outside world.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case PatternRow, PatternColumn, PatternDiagonal, PatternCorners, PatternFullCard:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

type cell struct{ row, col int }

// lines returns the candidate coordinate sets for a pattern. Row, column and
// diagonal each have several candidate lines; any one fully marked wins.
func (p Pattern) lines() [][]cell {
	switch p {
	case PatternRow:
		out := make([][]cell, 5)
		for r := 0; r < 5; r++ {
			line := make([]cell, 5)
			for c := 0; c < 5; c++ {
				line[c] = cell{r, c}
			}
			out[r] = line
		}
		return out
	case PatternColumn:
		out := make([][]cell, 5)
		for c := 0; c < 5; c++ {
			line := make([]cell, 5)
			for r := 0; r < 5; r++ {
				line[r] = cell{r, c}
			}
			out[c] = line
		}
		return out
	case PatternDiagonal:
		d1 := make([]cell, 5)
		d2 := make([]cell, 5)
		for i := 0; i < 5; i++ {
			d1[i] = cell{i, i}
			d2[i] = cell{i, 4 - i}
		}
		return [][]cell{d1, d2}
	case PatternCorners:
		return [][]cell{{{0, 0}, {0, 4}, {4, 0}, {4, 4}}}
	case PatternFullCard:
		full := make([]cell, 0, 25)
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				full = append(full, cell{r, c})
			}
		}
		return [][]cell{full}
	}
	return nil
}

// Satisfied reports whether the marked set completes the pattern on the card.
// The free space counts as marked.
func (p Pattern) Satisfied(card Card, marked map[int]struct{}) bool {
	covered := func(c cell) bool {
		if c.row == FreeRow && c.col == FreeCol {
			return true
		}
		_, ok := marked[card.Cell(c.row, c.col)]
		return ok
	}

	for _, line := range p.lines() {
		hit := true
		for _, c := range line {
			if !covered(c) {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}
