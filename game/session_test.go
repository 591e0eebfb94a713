package game

import (
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		RoomID:            "room-10",
		MinPlayers:        2,
		Capacity:          10,
		MaxCardsPerPlayer: 2,
		Countdown:         30 * time.Second,
		EntryFee:          decimal.NewFromInt(10),
		CommissionRate:    decimal.NewFromFloat(0.20),
	}
}

func testSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	gen := NewSeededGenerator(99)
	s, err := NewSession(testConfig(), gen.Pool(30), gen.Pool(30), opts...)
	require.NoError(t, err)
	return s
}

// startPlaying joins two players, gives each one card, and runs the
// countdown out. Returns the two selected cards.
func startPlaying(t *testing.T, s *Session) (Card, Card) {
	t.Helper()
	require.NoError(t, s.Join(1, "abebe"))
	require.NoError(t, s.Join(2, "sara"))

	pool := s.Snapshot().Pool
	require.NoError(t, s.SelectCard(1, pool[0].ID))
	require.NoError(t, s.SelectCard(2, pool[1].ID))

	s.DeadlineElapsed()
	require.Equal(t, StatusPlaying, s.Status())
	return pool[0], pool[1]
}

// drawNumbers feeds numbers into the session, ignoring duplicates so tests
// can overlay several cards' values.
func drawNumbers(t *testing.T, s *Session, nums ...int) {
	t.Helper()
	for _, n := range nums {
		if err := s.Draw(n); err != nil {
			require.ErrorIs(t, err, ErrAlreadyDrawn)
		}
	}
}

func cornerNumbers(c Card) []int {
	return []int{c.B[0], c.B[4], c.O[0], c.O[4]}
}

func rowNumbers(c Card, row int) []int {
	out := []int{}
	for col := 0; col < 5; col++ {
		if v := c.Cell(row, col); v != FreeSpace {
			out = append(out, v)
		}
	}
	return out
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	t.Parallel()
	gen := NewSeededGenerator(1)
	pool := gen.Pool(10)

	cfg := testConfig()
	cfg.CommissionRate = decimal.NewFromFloat(1.5)
	_, err := NewSession(cfg, pool, nil)
	assert.ErrorIs(t, err, ErrCommissionRate)

	cfg = testConfig()
	cfg.CommissionRate = decimal.NewFromFloat(-0.1)
	_, err = NewSession(cfg, pool, nil)
	assert.ErrorIs(t, err, ErrCommissionRate)

	cfg = testConfig()
	cfg.MinPlayers = 0
	_, err = NewSession(cfg, pool, nil)
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = NewSession(testConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestJoinArmsCountdownAtMinOccupancy(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	s := testSession(t, WithClock(clock))

	require.NoError(t, s.Join(1, "abebe"))
	assert.Equal(t, StatusReady, s.Status())
	assert.True(t, s.Deadline().IsZero())

	require.NoError(t, s.Join(2, "sara"))
	assert.Equal(t, StatusCountdown, s.Status())
	assert.Equal(t, clock.Now().Add(30*time.Second), s.Deadline())

	assert.ErrorIs(t, s.Join(1, "abebe"), ErrAlreadyJoined)
}

func TestCountdownCancelsBelowMinimum(t *testing.T) {
	t.Parallel()
	s := testSession(t)

	require.NoError(t, s.Join(1, "abebe"))
	require.NoError(t, s.Join(2, "sara"))
	require.NoError(t, s.Leave(2))

	s.DeadlineElapsed()
	assert.Equal(t, StatusCancelledNoMin, s.Status())

	// Everything after cancellation is a stale no-op.
	assert.ErrorIs(t, s.Draw(5), ErrSessionCancelled)
	assert.ErrorIs(t, s.Join(3, "marta"), ErrSessionCancelled)
	_, err := s.SubmitClaim(1, "whatever", PatternRow)
	assert.ErrorIs(t, err, ErrSessionCancelled)
}

func TestPlayFreezesMembershipAndSelection(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, _ := startPlaying(t, s)

	assert.ErrorIs(t, s.Join(3, "marta"), ErrSelectionClosed)
	assert.ErrorIs(t, s.SelectCard(1, card1.ID), ErrSelectionClosed)

	st := s.Snapshot()
	assert.True(t, st.Started)
	assert.Equal(t, 2, st.EntriesCount)
}

func TestSelectCardRules(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	require.NoError(t, s.Join(1, "abebe"))
	require.NoError(t, s.Join(2, "sara"))
	pool := s.Snapshot().Pool

	assert.ErrorIs(t, s.SelectCard(3, pool[0].ID), ErrNotJoined)
	assert.ErrorIs(t, s.SelectCard(1, "missing"), ErrUnknownCard)

	require.NoError(t, s.SelectCard(1, pool[0].ID))
	assert.ErrorIs(t, s.SelectCard(2, pool[0].ID), ErrCardTaken)

	// Reselecting an owned card is harmless.
	require.NoError(t, s.SelectCard(1, pool[0].ID))

	require.NoError(t, s.SelectCard(1, pool[1].ID))
	assert.ErrorIs(t, s.SelectCard(1, pool[2].ID), ErrCardLimit)
}

func TestDrawRules(t *testing.T) {
	t.Parallel()
	s := testSession(t)

	assert.ErrorIs(t, s.Draw(10), ErrNotPlaying)

	startPlaying(t, s)
	require.NoError(t, s.Draw(10))
	assert.ErrorIs(t, s.Draw(10), ErrAlreadyDrawn)
	assert.ErrorIs(t, s.Draw(0), ErrOutOfRange)
	assert.ErrorIs(t, s.Draw(76), ErrOutOfRange)
	assert.Equal(t, []int{10}, s.DrawnNumbers())
}

func TestDrawExhaustionCompletesWithoutWinner(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	startPlaying(t, s)

	for n := 1; n <= MaxNumber; n++ {
		require.NoError(t, s.Draw(n))
	}
	assert.ErrorIs(t, s.Draw(1), ErrRangeExhausted)

	require.NoError(t, s.ExhaustDraws())
	assert.Equal(t, StatusCompleted, s.Status())

	summary := s.Summary()
	require.NotNil(t, summary)
	assert.False(t, summary.WinnerExists)
	assert.Nil(t, s.Settlement())

	assert.ErrorIs(t, s.Draw(2), ErrGameEnded)
}

func TestMarkNumberRules(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, card2 := startPlaying(t, s)

	n := card1.B[0]
	assert.ErrorIs(t, s.MarkNumber(1, card1.ID, n), ErrNumberNotDrawn)

	require.NoError(t, s.Draw(n))
	require.NoError(t, s.MarkNumber(1, card1.ID, n))
	assert.ErrorIs(t, s.MarkNumber(1, card2.ID, n), ErrCardNotOwned)

	// A drawn number absent from the card cannot be marked.
	other := card2.B[0]
	if other == n {
		other = card2.B[1]
	}
	drawNumbers(t, s, other)
	if !card1.Contains(other) {
		assert.ErrorIs(t, s.MarkNumber(1, card1.ID, other), ErrNotOnCard)
	}
}

func TestMarkNumberIdempotent(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, _ := startPlaying(t, s)

	n := card1.I[2]
	require.NoError(t, s.Draw(n))
	require.NoError(t, s.MarkNumber(1, card1.ID, n))
	before := s.Snapshot()

	require.NoError(t, s.MarkNumber(1, card1.ID, n))
	after := s.Snapshot()
	assert.Equal(t, before.Players, after.Players)
}

func TestWinningClaimSettlesAndCompletes(t *testing.T) {
	t.Parallel()
	events := []Event{}
	var evMu sync.Mutex
	sink := func(ev Event) {
		evMu.Lock()
		events = append(events, ev)
		evMu.Unlock()
	}

	s := testSession(t, WithSink(sink))
	card1, _ := startPlaying(t, s)

	corners := cornerNumbers(card1)
	drawNumbers(t, s, corners...)
	for _, n := range corners {
		require.NoError(t, s.MarkNumber(1, card1.ID, n))
	}

	claim, err := s.SubmitClaim(1, card1.ID, PatternCorners)
	require.NoError(t, err)
	assert.True(t, claim.Winner)
	assert.Equal(t, StatusCompleted, s.Status())

	settlement := s.Settlement()
	require.NotNil(t, settlement)
	assert.Equal(t, "16.00", settlement.Prize.StringFixed(2))
	assert.Equal(t, "4.00", settlement.Commission.StringFixed(2))

	summary := s.Summary()
	require.NotNil(t, summary)
	assert.True(t, summary.WinnerExists)
	assert.Equal(t, int64(1), summary.PlayerID)
	assert.Equal(t, "abebe", summary.PlayerName)
	assert.Equal(t, card1.ID, summary.CardID)
	assert.Equal(t, PatternCorners, summary.Pattern)
	assert.Equal(t, "16.00", summary.PrizeAmount)
	assert.ElementsMatch(t, corners, summary.Marked)

	// A later claim is a race loss, not arbitration.
	_, err = s.SubmitClaim(2, card1.ID, PatternCorners)
	assert.ErrorIs(t, err, ErrGameEnded)

	evMu.Lock()
	defer evMu.Unlock()
	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, EventClaimAccepted)
	assert.Contains(t, types, EventGameCompleted)
}

func TestFalseClaimDisqualifies(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, card2 := startPlaying(t, s)

	// Pattern not satisfied: one corner short.
	corners := cornerNumbers(card1)
	drawNumbers(t, s, corners[:3]...)
	for _, n := range corners[:3] {
		require.NoError(t, s.MarkNumber(1, card1.ID, n))
	}
	_, err := s.SubmitClaim(1, card1.ID, PatternCorners)
	assert.ErrorIs(t, err, ErrPatternNotMet)

	// The penalty sticks: even a now-complete pattern short-circuits on
	// disqualification.
	drawNumbers(t, s, corners[3])
	require.NoError(t, s.MarkNumber(1, card1.ID, corners[3]))
	_, err = s.SubmitClaim(1, card1.ID, PatternCorners)
	assert.ErrorIs(t, err, ErrDisqualified)

	// The round keeps going for everyone else.
	assert.Equal(t, StatusPlaying, s.Status())
	assert.False(t, s.Snapshot().StopDrawing)
	require.NoError(t, s.MarkNumber(2, card2.ID, cardAnyDrawn(t, s, card2)))
}

// cardAnyDrawn draws one of the card's numbers and returns it.
func cardAnyDrawn(t *testing.T, s *Session, c Card) int {
	t.Helper()
	n := c.G[1]
	drawNumbers(t, s, n)
	return n
}

func TestClaimOnForeignCardDisqualifies(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	_, card2 := startPlaying(t, s)

	_, err := s.SubmitClaim(1, card2.ID, PatternRow)
	assert.ErrorIs(t, err, ErrCardNotOwned)
	for _, pv := range s.Snapshot().Players {
		if pv.ID == 1 {
			assert.True(t, pv.Disqualified)
		}
	}
}

func TestClaimWithUndrawnMarkDisqualifies(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, _ := startPlaying(t, s)

	// Inject a mark that bypassed draw validation, as a tampering client
	// snapshot would.
	s.mu.Lock()
	s.players[1].mark(card1.ID, card1.B[0])
	s.mu.Unlock()

	_, err := s.SubmitClaim(1, card1.ID, PatternCorners)
	assert.ErrorIs(t, err, ErrMarkNotDrawn)

	_, dq := s.disqualified[1]
	assert.True(t, dq)
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, card2 := startPlaying(t, s)

	row1 := rowNumbers(card1, 0)
	row2 := rowNumbers(card2, 0)
	drawNumbers(t, s, append(row1, row2...)...)
	for _, n := range row1 {
		require.NoError(t, s.MarkNumber(1, card1.ID, n))
	}
	for _, n := range row2 {
		require.NoError(t, s.MarkNumber(2, card2.ID, n))
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.SubmitClaim(1, card1.ID, PatternRow)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := s.SubmitClaim(2, card2.ID, PatternRow)
		results <- err
	}()
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrGameEnded)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// The loser lost a race, not their standing.
	for _, pv := range s.Snapshot().Players {
		assert.False(t, pv.Disqualified)
	}
}

func TestAdminCancelPreempts(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	require.NoError(t, s.Join(1, "abebe"))
	require.NoError(t, s.Join(2, "sara"))

	require.NoError(t, s.CancelByAdmin("maintenance"))
	assert.Equal(t, StatusCancelledAdmin, s.Status())

	// The elapsed countdown must not resurrect the round.
	s.DeadlineElapsed()
	assert.Equal(t, StatusCancelledAdmin, s.Status())

	assert.ErrorIs(t, s.Join(3, "marta"), ErrSessionCancelled)
	assert.ErrorIs(t, s.CancelByAdmin("again"), ErrSessionCancelled)
}

func TestClaimHaltsDrawingDuringArbitration(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	card1, _ := startPlaying(t, s)

	corners := cornerNumbers(card1)
	drawNumbers(t, s, corners...)
	for _, n := range corners {
		require.NoError(t, s.MarkNumber(1, card1.ID, n))
	}

	_, err := s.SubmitClaim(1, card1.ID, PatternCorners)
	require.NoError(t, err)

	// stopDrawing stays latched after a confirmed win.
	assert.True(t, s.Snapshot().StopDrawing)
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	t.Parallel()
	s := testSession(t)
	startPlaying(t, s)
	require.NoError(t, s.Draw(7))

	st := s.Snapshot()
	st.DrawnNumbers[0] = 99
	st.Pool[0].B[0] = 99
	delete(st.TakenCards, st.Players[0].CardIDs[0])

	fresh := s.Snapshot()
	assert.Equal(t, []int{7}, fresh.DrawnNumbers)
	assert.NotEqual(t, 99, fresh.Pool[0].B[0])
	assert.Len(t, fresh.TakenCards, 2)
}
