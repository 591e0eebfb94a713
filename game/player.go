package game

// PlayerState tracks one player's cards and marks for the lifetime of a
// session. It is owned by the session and only touched under its lock.
type PlayerState struct {
	ID   int64
	Name string

	cards []string                     // selection order
	marks map[string]map[int]struct{} // cardID -> marked numbers
}

func newPlayerState(id int64, name string) *PlayerState {
	return &PlayerState{
		ID:    id,
		Name:  name,
		marks: make(map[string]map[int]struct{}),
	}
}

func (p *PlayerState) owns(cardID string) bool {
	for _, id := range p.cards {
		if id == cardID {
			return true
		}
	}
	return false
}

func (p *PlayerState) addCard(cardID string) {
	p.cards = append(p.cards, cardID)
	p.marks[cardID] = make(map[int]struct{})
}

// mark records a number on a card. Re-marking is a no-op.
func (p *PlayerState) mark(cardID string, n int) {
	p.marks[cardID][n] = struct{}{}
}

// CardIDs returns the player's cards in selection order.
func (p *PlayerState) CardIDs() []string {
	return append([]string(nil), p.cards...)
}

// Marked returns a copy of the marked set for one card.
func (p *PlayerState) Marked(cardID string) map[int]struct{} {
	src := p.marks[cardID]
	out := make(map[int]struct{}, len(src))
	for n := range src {
		out[n] = struct{}{}
	}
	return out
}

// MarkedList returns the marked numbers of one card as a slice.
func (p *PlayerState) MarkedList(cardID string) []int {
	src := p.marks[cardID]
	out := make([]int, 0, len(src))
	for n := range src {
		out = append(out, n)
	}
	return out
}
