package game

import (
	"time"

	"github.com/google/uuid"
)

// Claim is the immutable record of one bingo assertion. Once validated it is
// never mutated; re-evaluation produces a new record.
type Claim struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	PlayerID  int64     `json:"player_id"`
	CardID    string    `json:"card_id"`
	Card      Card      `json:"card"`
	Marked    []int     `json:"marked"`
	Pattern   Pattern   `json:"pattern"`
	Winner    bool      `json:"winner"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newClaim(gameID string, playerID int64, cardID string, p Pattern, now time.Time) Claim {
	return Claim{
		ID:        uuid.NewString(),
		GameID:    gameID,
		PlayerID:  playerID,
		CardID:    cardID,
		Pattern:   p,
		CreatedAt: now,
	}
}

// claimVerdict is the outcome of running the validation sequence.
type claimVerdict struct {
	err        error
	disqualify bool
}

// validateClaim runs the ordered checks against session state. Caller holds
// the session lock. Checks 1-2 (stale/late requests) reject without penalty;
// checks 3-5 (bad-faith claims) reject with disqualification.
func (s *Session) validateClaim(playerID int64, cardID string, p Pattern) claimVerdict {
	// 1. Session must still be in play.
	switch {
	case s.status == StatusCompleted:
		return claimVerdict{err: ErrGameEnded}
	case s.status.Terminal():
		return claimVerdict{err: ErrSessionCancelled}
	case s.status != StatusPlaying:
		return claimVerdict{err: ErrNotPlaying}
	}

	// 2. Disqualified players are rejected without re-checking geometry.
	if _, dq := s.disqualified[playerID]; dq {
		return claimVerdict{err: ErrDisqualified}
	}

	ps, ok := s.players[playerID]
	if !ok {
		return claimVerdict{err: ErrNotJoined}
	}

	// 3. Card ownership.
	if !ps.owns(cardID) {
		return claimVerdict{err: ErrCardNotOwned, disqualify: true}
	}

	// 4. Every marked number must have been drawn.
	marked := ps.marks[cardID]
	for n := range marked {
		if !s.drawnSet[n] {
			return claimVerdict{err: ErrMarkNotDrawn, disqualify: true}
		}
	}

	// 5. Pattern geometry.
	card := s.poolByID[cardID]
	if card == nil || !p.Satisfied(*card, marked) {
		return claimVerdict{err: ErrPatternNotMet, disqualify: true}
	}

	return claimVerdict{}
}
