package game

// FreeSpace is the sentinel stored in the centre cell of every card.
const FreeSpace = 0

// FreeRow/FreeCol locate the free space on the 5x5 grid.
const (
	FreeRow = 2
	FreeCol = 2
)

// Column index constants into a card's five columns.
const (
	ColB = iota
	ColI
	ColN
	ColG
	ColO
)

var columnLabels = [5]string{"B", "I", "N", "G", "O"}

// columnRange returns the inclusive [lo,hi] value range for a column.
// B 1-15, I 16-30, N 31-45, G 46-60, O 61-75.
func columnRange(col int) (lo, hi int) {
	lo = col*15 + 1
	return lo, lo + 14
}

// MaxNumber is the highest drawable value.
const MaxNumber = 75

// Card is one bingo card: five columns of five values each, column-major.
// N[2] is always FreeSpace.
type Card struct {
	ID string `json:"card_id"`
	B  []int  `json:"B"`
	I  []int  `json:"I"`
	N  []int  `json:"N"`
	G  []int  `json:"G"`
	O  []int  `json:"O"`
}

// Column returns the values of one column by index.
func (c Card) Column(col int) []int {
	switch col {
	case ColB:
		return c.B
	case ColI:
		return c.I
	case ColN:
		return c.N
	case ColG:
		return c.G
	default:
		return c.O
	}
}

// Cell projects the card onto the 5x5 grid: row is the index within a column.
func (c Card) Cell(row, col int) int {
	return c.Column(col)[row]
}

// Contains reports whether n appears anywhere on the card.
func (c Card) Contains(n int) bool {
	for col := 0; col < 5; col++ {
		for _, v := range c.Column(col) {
			if v == n {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate pool-owned cards.
func (c Card) Clone() Card {
	return Card{
		ID: c.ID,
		B:  append([]int(nil), c.B...),
		I:  append([]int(nil), c.I...),
		N:  append([]int(nil), c.N...),
		G:  append([]int(nil), c.G...),
		O:  append([]int(nil), c.O...),
	}
}

// ClonePool deep-copies a slice of cards.
func ClonePool(pool []Card) []Card {
	out := make([]Card, len(pool))
	for i, c := range pool {
		out[i] = c.Clone()
	}
	return out
}
