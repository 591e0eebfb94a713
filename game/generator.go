package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces structurally valid bingo cards. Each column samples its
// 15-value range without replacement, so generation never retries and a card
// can never contain a duplicate value.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator seeded from the wall clock.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a deterministic generator for tests.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Card builds one card: 5 values per column, free space at N[2].
func (g *Generator) Card() Card {
	g.mu.Lock()
	defer g.mu.Unlock()

	card := Card{ID: uuid.NewString()}
	card.B = g.sampleColumn(ColB, 5)
	card.I = g.sampleColumn(ColI, 5)
	card.G = g.sampleColumn(ColG, 5)
	card.O = g.sampleColumn(ColO, 5)

	n := g.sampleColumn(ColN, 4)
	card.N = []int{n[0], n[1], FreeSpace, n[2], n[3]}
	return card
}

// sampleColumn draws count unique values from the column's range.
func (g *Generator) sampleColumn(col, count int) []int {
	lo, _ := columnRange(col)
	perm := g.rng.Perm(15)
	out := make([]int, count)
	for i := 0; i < count; i++ {
		out[i] = lo + perm[i]
	}
	return out
}

// Pool generates size cards with pool-wide unique identifiers.
func (g *Generator) Pool(size int) []Card {
	pool := make([]Card, 0, size)
	seen := make(map[string]struct{}, size)
	for len(pool) < size {
		c := g.Card()
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		pool = append(pool, c)
	}
	return pool
}

// DrawSequence returns the numbers 1..MaxNumber in a shuffled draw order.
func (g *Generator) DrawSequence() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	nums := make([]int, MaxNumber)
	for i := range nums {
		nums[i] = i + 1
	}
	g.rng.Shuffle(len(nums), func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })
	return nums
}

// PoolStaging keeps a ready "current" pool and pre-generates the next one in
// the background so promoting at round start is O(1).
type PoolStaging struct {
	gen  *Generator
	size int

	mu      sync.Mutex
	next    []Card
	pending chan struct{}
}

// NewPoolStaging primes the staging area and starts pre-generation of the
// next pool.
func NewPoolStaging(gen *Generator, size int) *PoolStaging {
	ps := &PoolStaging{gen: gen, size: size}
	ps.regenerate()
	return ps
}

// Promote hands out the staged pool and kicks off background generation of
// its replacement. Falls back to synchronous generation if the background
// task has not finished.
func (ps *PoolStaging) Promote() []Card {
	ps.mu.Lock()
	pending := ps.pending
	ps.mu.Unlock()
	if pending != nil {
		<-pending
	}

	ps.mu.Lock()
	pool := ps.next
	ps.next = nil
	ps.mu.Unlock()

	if pool == nil {
		pool = ps.gen.Pool(ps.size)
	}
	ps.regenerate()
	return pool
}

// Staged returns a copy of the next pool without consuming it, waiting for
// background generation if necessary.
func (ps *PoolStaging) Staged() []Card {
	ps.mu.Lock()
	pending := ps.pending
	ps.mu.Unlock()
	if pending != nil {
		<-pending
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ClonePool(ps.next)
}

func (ps *PoolStaging) regenerate() {
	done := make(chan struct{})
	ps.mu.Lock()
	ps.pending = done
	ps.mu.Unlock()

	go func() {
		pool := ps.gen.Pool(ps.size)
		ps.mu.Lock()
		ps.next = pool
		ps.pending = nil
		ps.mu.Unlock()
		close(done)
	}()
}
