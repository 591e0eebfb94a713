package game

import "errors"

// Validation errors: the command is rejected and session state is unchanged.
var (
	ErrSelectionClosed = errors.New("card selection is closed")
	ErrCardTaken       = errors.New("card already taken")
	ErrCardLimit       = errors.New("card limit reached")
	ErrUnknownCard     = errors.New("card not in current pool")
	ErrNotJoined       = errors.New("player has not joined this session")
	ErrAlreadyJoined   = errors.New("player already joined")
	ErrRoomFull        = errors.New("room is full")
	ErrNotPlaying      = errors.New("session is not in play")
	ErrAlreadyDrawn    = errors.New("number already drawn")
	ErrOutOfRange      = errors.New("number outside 1-75")
	ErrRangeExhausted  = errors.New("all numbers drawn")
	ErrDrawStopped     = errors.New("drawing halted for claim arbitration")
	ErrNumberNotDrawn  = errors.New("number has not been drawn")
	ErrNotOnCard       = errors.New("number not on card")
	ErrUnknownPattern  = errors.New("unknown pattern")
)

// Race losses: stale requests rejected without penalty.
var (
	ErrGameEnded        = errors.New("game already ended")
	ErrSessionCancelled = errors.New("session cancelled")
	ErrDisqualified     = errors.New("player is disqualified")
)

// Integrity violations: the claim is rejected and the claimant disqualified.
var (
	ErrCardNotOwned  = errors.New("claimed card not owned by player")
	ErrMarkNotDrawn  = errors.New("claimed mark was never drawn")
	ErrPatternNotMet = errors.New("pattern not satisfied")
)

// Configuration errors: fatal to session creation.
var (
	ErrCommissionRate = errors.New("commission rate must be within [0,1]")
	ErrBadConfig      = errors.New("invalid session config")
)
