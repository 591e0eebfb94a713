package game

// EventType tags a session event for the notification layer.
type EventType string

const (
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerLeft         EventType = "player_left"
	EventCardSelected       EventType = "card_selected"
	EventCountdownStarted   EventType = "countdown_started"
	EventGameStarted        EventType = "game_started"
	EventNumberDrawn        EventType = "number_drawn"
	EventClaimAccepted      EventType = "claim_accepted"
	EventClaimRejected      EventType = "claim_rejected"
	EventPlayerDisqualified EventType = "player_disqualified"
	EventGameCompleted      EventType = "game_completed"
	EventGameCancelled      EventType = "game_cancelled"
)

// Event is a structured state-change message. The engine never assumes a
// delivery mechanism; the sink decides how to fan it out.
type Event struct {
	Type    EventType      `json:"type"`
	Payload map[string]any `json:"payload"`
}

// EventSink receives events after the originating mutation has committed.
// Sinks must not call back into the session synchronously.
type EventSink func(Event)
