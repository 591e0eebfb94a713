package game

import "time"

// Status is the session lifecycle state.
type Status string

const (
	StatusReady     Status = "ready"
	StatusCountdown Status = "countdown"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"

	// Terminal cancellation exits.
	StatusCancelledAdmin Status = "cancelled_admin"
	StatusCancelledNoMin Status = "cancelled_no_min_players"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledAdmin, StatusCancelledNoMin:
		return true
	}
	return false
}

// PlayerView is a player's slice of a snapshot.
type PlayerView struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	CardIDs      []string         `json:"card_ids"`
	Marked       map[string][]int `json:"marked"`
	Disqualified bool             `json:"disqualified"`
}

// State is a consistent point-in-time copy of a session. All slices and maps
// are defensive copies; holding a State never blocks the session.
type State struct {
	RoomID    string    `json:"room_id"`
	SessionID string    `json:"session_id"`
	Status    Status    `json:"status"`
	Started   bool      `json:"started"`
	Deadline  time.Time `json:"deadline,omitempty"`

	Players      []PlayerView     `json:"players"`
	DrawnNumbers []int            `json:"drawn_numbers"`
	Pool         []Card           `json:"pool"`
	TakenCards   map[string]int64 `json:"taken_cards"`
	IssuedCards  []string         `json:"issued_cards"`

	EntriesCount int  `json:"entries_count"`
	StopDrawing  bool `json:"stop_drawing"`

	Winner *Summary `json:"winner,omitempty"`
}

// Summary is the completed-session record handed to persistence and
// notification collaborators.
type Summary struct {
	GameID       string    `json:"game_id"`
	PlayerID     int64     `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	CardID       string    `json:"card_id"`
	Pattern      Pattern   `json:"pattern"`
	PrizeAmount  string    `json:"prize_amount"`
	WonAt        time.Time `json:"won_at"`
	WinnerExists bool      `json:"winner_exists"`
	Marked       []int     `json:"marked"`
	Card         Card      `json:"card"`
}
