package game

import (
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config seeds a session from room configuration.
type Config struct {
	RoomID            string
	MinPlayers        int
	Capacity          int
	MaxCardsPerPlayer int
	Countdown         time.Duration
	EntryFee          decimal.Decimal
	CommissionRate    decimal.Decimal
}

// Option customises a session at construction.
type Option func(*Session)

// WithClock injects a clock; tests use a quartz mock.
func WithClock(c quartz.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithSink registers the event sink for the notification layer.
func WithSink(sink EventSink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) { s.log = log }
}

// Session is the authoritative state of one room round. Every mutation is
// serialized through its lock; reads go through Snapshot and the accessors,
// which return copies. Events are emitted after the lock is released.
type Session struct {
	cfg   Config
	id    string
	clock quartz.Clock
	sink  EventSink
	log   *zap.SugaredLogger

	mu           sync.RWMutex
	status       Status
	started      bool
	deadline     time.Time
	players      map[int64]*PlayerState
	disqualified map[int64]struct{}
	drawn        []int
	drawnSet     [MaxNumber + 1]bool
	pool         []Card
	poolByID     map[string]*Card
	nextPool     []Card
	taken        map[string]int64 // cardID -> owner
	issued       map[string]struct{}
	stopDrawing  bool
	winner       *Summary
	settlement   *Settlement
}

// NewSession validates the room configuration and builds a ready session
// over the given card pool. next is the pre-staged pool for the following
// round; the session only carries it so promotion at round start is O(1).
func NewSession(cfg Config, pool, next []Card, opts ...Option) (*Session, error) {
	if err := ValidateCommissionRate(cfg.CommissionRate); err != nil {
		return nil, err
	}
	if cfg.MinPlayers < 1 || cfg.MaxCardsPerPlayer < 1 || len(pool) == 0 {
		return nil, ErrBadConfig
	}
	if cfg.Capacity > 0 && cfg.Capacity < cfg.MinPlayers {
		return nil, ErrBadConfig
	}

	s := &Session{
		cfg:          cfg,
		id:           uuid.NewString(),
		clock:        quartz.NewReal(),
		log:          zap.NewNop().Sugar(),
		status:       StatusReady,
		players:      make(map[int64]*PlayerState),
		disqualified: make(map[int64]struct{}),
		pool:         ClonePool(pool),
		nextPool:     ClonePool(next),
		taken:        make(map[string]int64),
		issued:       make(map[string]struct{}),
	}
	s.poolByID = make(map[string]*Card, len(s.pool))
	for i := range s.pool {
		s.poolByID[s.pool[i].ID] = &s.pool[i]
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// RoomID returns the owning room.
func (s *Session) RoomID() string { return s.cfg.RoomID }

// emit delivers events to the sink. Callers must not hold the lock.
func (s *Session) emit(events ...Event) {
	if s.sink == nil {
		return
	}
	for _, ev := range events {
		s.sink(ev)
	}
}

// Join admits a player while the round has not started. Reaching minimum
// occupancy arms the countdown.
func (s *Session) Join(playerID int64, name string) error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status == StatusPlaying {
		s.mu.Unlock()
		return ErrSelectionClosed
	}
	if _, ok := s.players[playerID]; ok {
		s.mu.Unlock()
		return ErrAlreadyJoined
	}
	if s.cfg.Capacity > 0 && len(s.players) >= s.cfg.Capacity {
		s.mu.Unlock()
		return ErrRoomFull
	}

	s.players[playerID] = newPlayerState(playerID, name)
	events := []Event{{Type: EventPlayerJoined, Payload: map[string]any{
		"room_id":   s.cfg.RoomID,
		"game_id":   s.id,
		"player_id": playerID,
		"players":   len(s.players),
	}}}

	if s.status == StatusReady && len(s.players) >= s.cfg.MinPlayers {
		s.status = StatusCountdown
		s.deadline = s.clock.Now().Add(s.cfg.Countdown)
		events = append(events, Event{Type: EventCountdownStarted, Payload: map[string]any{
			"game_id":  s.id,
			"deadline": s.deadline,
		}})
	}
	s.mu.Unlock()

	s.log.Infow("player joined", "room", s.cfg.RoomID, "player", playerID)
	s.emit(events...)
	return nil
}

// Leave removes a player before the round starts and releases their cards.
func (s *Session) Leave(playerID int64) error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status == StatusPlaying {
		s.mu.Unlock()
		return ErrSelectionClosed
	}
	ps, ok := s.players[playerID]
	if !ok {
		s.mu.Unlock()
		return ErrNotJoined
	}
	for _, cardID := range ps.cards {
		delete(s.taken, cardID)
	}
	delete(s.players, playerID)
	remaining := len(s.players)
	s.mu.Unlock()

	s.emit(Event{Type: EventPlayerLeft, Payload: map[string]any{
		"game_id":   s.id,
		"player_id": playerID,
		"players":   remaining,
	}})
	return nil
}

// SelectCard allocates an unclaimed pool card to a joined player.
func (s *Session) SelectCard(playerID int64, cardID string) error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status != StatusReady && s.status != StatusCountdown {
		s.mu.Unlock()
		return ErrSelectionClosed
	}
	ps, ok := s.players[playerID]
	if !ok {
		s.mu.Unlock()
		return ErrNotJoined
	}
	if _, ok := s.poolByID[cardID]; !ok {
		s.mu.Unlock()
		return ErrUnknownCard
	}
	if owner, taken := s.taken[cardID]; taken && owner != playerID {
		s.mu.Unlock()
		return ErrCardTaken
	}
	if ps.owns(cardID) {
		s.mu.Unlock()
		return nil // reselecting an owned card is a no-op
	}
	if len(ps.cards) >= s.cfg.MaxCardsPerPlayer {
		s.mu.Unlock()
		return ErrCardLimit
	}

	ps.addCard(cardID)
	s.taken[cardID] = playerID
	s.issued[cardID] = struct{}{}
	s.mu.Unlock()

	s.emit(Event{Type: EventCardSelected, Payload: map[string]any{
		"game_id":   s.id,
		"player_id": playerID,
		"card_id":   cardID,
	}})
	return nil
}

// Deadline returns the countdown deadline, zero before countdown starts.
func (s *Session) Deadline() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deadline
}

// DeadlineElapsed applies the countdown outcome: play if minimum occupancy
// still holds, otherwise cancel. A no-op outside COUNTDOWN.
func (s *Session) DeadlineElapsed() {
	s.mu.Lock()
	if s.status != StatusCountdown {
		s.mu.Unlock()
		return
	}
	if len(s.players) < s.cfg.MinPlayers {
		s.status = StatusCancelledNoMin
		s.mu.Unlock()
		s.log.Infow("round cancelled, below minimum occupancy", "room", s.cfg.RoomID)
		s.emit(Event{Type: EventGameCancelled, Payload: map[string]any{
			"game_id": s.id,
			"reason":  "min_players_not_met",
		}})
		return
	}

	s.status = StatusPlaying
	s.started = true
	entries := len(s.taken)
	s.mu.Unlock()

	s.log.Infow("round started", "room", s.cfg.RoomID, "entries", entries)
	s.emit(Event{Type: EventGameStarted, Payload: map[string]any{
		"game_id": s.id,
		"entries": entries,
	}})
}

// Draw appends one undrawn number to the draw history.
func (s *Session) Draw(n int) error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status != StatusPlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}
	if s.stopDrawing {
		s.mu.Unlock()
		return ErrDrawStopped
	}
	if n < 1 || n > MaxNumber {
		s.mu.Unlock()
		return ErrOutOfRange
	}
	if len(s.drawn) >= MaxNumber {
		s.mu.Unlock()
		return ErrRangeExhausted
	}
	if s.drawnSet[n] {
		s.mu.Unlock()
		return ErrAlreadyDrawn
	}

	s.drawn = append(s.drawn, n)
	s.drawnSet[n] = true
	count := len(s.drawn)
	s.mu.Unlock()

	s.emit(Event{Type: EventNumberDrawn, Payload: map[string]any{
		"game_id": s.id,
		"number":  n,
		"drawn":   count,
	}})
	return nil
}

// ExhaustDraws completes the round without a winner once all numbers are
// out. The caller decides what the no-winner outcome means financially; the
// summary carries WinnerExists=false.
func (s *Session) ExhaustDraws() error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status != StatusPlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}
	if len(s.drawn) < MaxNumber {
		s.mu.Unlock()
		return ErrNotPlaying
	}

	s.status = StatusCompleted
	s.winner = &Summary{
		GameID:       s.id,
		WinnerExists: false,
		WonAt:        s.clock.Now(),
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventGameCompleted, Payload: map[string]any{
		"game_id":       s.id,
		"winner_exists": false,
	}})
	return nil
}

// MarkNumber marks a drawn number on one of the player's cards. Marking an
// already-marked number is idempotent.
func (s *Session) MarkNumber(playerID int64, cardID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rejectIfOver(); err != nil {
		return err
	}
	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	ps, ok := s.players[playerID]
	if !ok {
		return ErrNotJoined
	}
	if !ps.owns(cardID) {
		return ErrCardNotOwned
	}
	if !s.drawnSet[n] {
		return ErrNumberNotDrawn
	}
	if !s.poolByID[cardID].Contains(n) {
		return ErrNotOnCard
	}

	ps.mark(cardID, n)
	return nil
}

// SubmitClaim arbitrates a bingo assertion. Drawing is halted for the
// duration of validation; a failed integrity check disqualifies the
// claimant, a winning claim completes the session.
func (s *Session) SubmitClaim(playerID int64, cardID string, p Pattern) (Claim, error) {
	s.mu.Lock()

	claim := newClaim(s.id, playerID, cardID, p, s.clock.Now())

	wasPlaying := s.status == StatusPlaying
	if wasPlaying {
		s.stopDrawing = true
	}

	verdict := s.validateClaim(playerID, cardID, p)

	if verdict.err != nil {
		claim.Reason = verdict.err.Error()
		var events []Event
		if verdict.disqualify {
			s.disqualified[playerID] = struct{}{}
			events = append(events, Event{Type: EventPlayerDisqualified, Payload: map[string]any{
				"game_id":   s.id,
				"player_id": playerID,
				"reason":    claim.Reason,
			}})
		}
		if wasPlaying && s.status == StatusPlaying {
			s.stopDrawing = false // resume draws after a failed claim
		}
		events = append(events, Event{Type: EventClaimRejected, Payload: map[string]any{
			"game_id":   s.id,
			"player_id": playerID,
			"card_id":   cardID,
			"reason":    claim.Reason,
		}})
		s.mu.Unlock()

		s.log.Infow("claim rejected", "room", s.cfg.RoomID, "player", playerID, "reason", claim.Reason)
		s.emit(events...)
		return claim, verdict.err
	}

	// Winner confirmed.
	ps := s.players[playerID]
	claim.Card = s.poolByID[cardID].Clone()
	claim.Marked = ps.MarkedList(cardID)
	claim.Winner = true

	settlement, err := Settle(s.cfg.EntryFee, len(s.taken), s.cfg.CommissionRate)
	if err != nil {
		// Rate was validated at construction; this cannot happen.
		s.stopDrawing = false
		s.mu.Unlock()
		return claim, err
	}
	s.settlement = &settlement
	s.status = StatusCompleted
	s.winner = &Summary{
		GameID:       s.id,
		PlayerID:     playerID,
		PlayerName:   ps.Name,
		CardID:       cardID,
		Pattern:      p,
		PrizeAmount:  settlement.Prize.StringFixed(2),
		WonAt:        claim.CreatedAt,
		WinnerExists: true,
		Marked:       append([]int(nil), claim.Marked...),
		Card:         claim.Card.Clone(),
	}
	s.mu.Unlock()

	s.log.Infow("bingo confirmed", "room", s.cfg.RoomID, "player", playerID, "prize", settlement.Prize)
	s.emit(
		Event{Type: EventClaimAccepted, Payload: map[string]any{
			"game_id":   s.id,
			"player_id": playerID,
			"card_id":   cardID,
			"pattern":   string(p),
		}},
		Event{Type: EventGameCompleted, Payload: map[string]any{
			"game_id":       s.id,
			"winner_exists": true,
			"player_id":     playerID,
			"prize":         settlement.Prize.StringFixed(2),
		}},
	)
	return claim, nil
}

// CancelByAdmin cancels any non-terminal session immediately. Subsequent
// draws and claims report the cancellation.
func (s *Session) CancelByAdmin(reason string) error {
	s.mu.Lock()
	if err := s.rejectIfOver(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.status = StatusCancelledAdmin
	s.mu.Unlock()

	s.log.Infow("round cancelled by admin", "room", s.cfg.RoomID, "reason", reason)
	s.emit(Event{Type: EventGameCancelled, Payload: map[string]any{
		"game_id": s.id,
		"reason":  reason,
	}})
	return nil
}

// rejectIfOver maps terminal states to their stale-request errors. Caller
// holds the lock.
func (s *Session) rejectIfOver() error {
	switch s.status {
	case StatusCompleted:
		return ErrGameEnded
	case StatusCancelledAdmin, StatusCancelledNoMin:
		return ErrSessionCancelled
	}
	return nil
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// DrawnNumbers returns the draw history in draw order.
func (s *Session) DrawnNumbers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.drawn...)
}

// EntriesCount is the number of cards entered this round.
func (s *Session) EntriesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.taken)
}

// NextPool hands out the pre-staged pool for the following round.
func (s *Session) NextPool() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClonePool(s.nextPool)
}

// Settlement returns the computed split, nil until a winner is confirmed.
func (s *Session) Settlement() *Settlement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settlement == nil {
		return nil
	}
	out := *s.settlement
	return &out
}

// Summary returns the completed-session record, nil while the round is live.
func (s *Session) Summary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.winner == nil {
		return nil
	}
	out := *s.winner
	out.Marked = append([]int(nil), s.winner.Marked...)
	out.Card = s.winner.Card.Clone()
	return &out
}

// Snapshot returns a consistent copy of the whole session.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		RoomID:       s.cfg.RoomID,
		SessionID:    s.id,
		Status:       s.status,
		Started:      s.started,
		Deadline:     s.deadline,
		DrawnNumbers: append([]int(nil), s.drawn...),
		Pool:         ClonePool(s.pool),
		TakenCards:   make(map[string]int64, len(s.taken)),
		EntriesCount: len(s.taken),
		StopDrawing:  s.stopDrawing,
	}
	for id, owner := range s.taken {
		st.TakenCards[id] = owner
	}
	st.IssuedCards = make([]string, 0, len(s.issued))
	for id := range s.issued {
		st.IssuedCards = append(st.IssuedCards, id)
	}
	sort.Strings(st.IssuedCards)
	for _, ps := range s.players {
		_, dq := s.disqualified[ps.ID]
		pv := PlayerView{
			ID:           ps.ID,
			Name:         ps.Name,
			CardIDs:      ps.CardIDs(),
			Marked:       make(map[string][]int, len(ps.cards)),
			Disqualified: dq,
		}
		for _, cardID := range ps.cards {
			pv.Marked[cardID] = ps.MarkedList(cardID)
		}
		st.Players = append(st.Players, pv)
	}
	sort.Slice(st.Players, func(i, j int) bool { return st.Players[i].ID < st.Players[j].ID })
	if s.winner != nil {
		w := *s.winner
		w.Marked = append([]int(nil), s.winner.Marked...)
		w.Card = s.winner.Card.Clone()
		st.Winner = &w
	}
	return st
}
