package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/game"
	"github.com/addisbingo/bingo-live/models"
	"github.com/addisbingo/bingo-live/utils/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// Pause between a terminal round and opening the next one, so clients
	// can show the result.
	interRoundPause = 7 * time.Second
	statusTickEvery = 1 * time.Second
)

// Lobby glues one room's live session to its websocket clients and the
// database. Game rules live in the game package; the lobby only moves
// commands in and snapshots/events out.
type Lobby struct {
	Room      models.Room
	drawEvery time.Duration
	log       *zap.SugaredLogger

	gameCfg game.Config
	gen     *game.Generator
	staging *game.PoolStaging

	mu        sync.RWMutex
	clients   map[int64]*Client
	session   *game.Session
	startTime time.Time
}

var (
	Lobbies   = make(map[string]*Lobby)
	LobbiesMu sync.Mutex
)

// InitLobbyService loads active rooms and starts one lobby per room.
func InitLobbyService(ctx context.Context, db *gorm.DB, drawEvery time.Duration) {
	var rooms []models.Room
	if err := db.Where("active = ?", true).Find(&rooms).Error; err != nil {
		logger.Errorf("[Init] failed to load rooms: %v", err)
		return
	}

	for _, room := range rooms {
		l, err := NewLobby(room, drawEvery)
		if err != nil {
			logger.Errorf("[Init] room %s misconfigured, skipping: %v", room.ID, err)
			continue
		}
		LobbiesMu.Lock()
		Lobbies[room.ID] = l
		LobbiesMu.Unlock()
		go l.Run(ctx)
	}
	logger.Infof("[Init] Started %d lobbies", len(Lobbies))
}

// NewLobby validates the room configuration and primes the card pools.
// Configuration errors (bad commission rate, bad pattern) are fatal: the
// room must not open.
func NewLobby(room models.Room, drawEvery time.Duration) (*Lobby, error) {
	entryFee, err := decimal.NewFromString(room.EntryFee)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(room.CommissionRate)
	if err != nil {
		return nil, err
	}
	if err := game.ValidateCommissionRate(rate); err != nil {
		return nil, err
	}
	if _, err := game.ParsePattern(room.Pattern); err != nil {
		return nil, err
	}

	gen := game.NewGenerator()
	l := &Lobby{
		Room:      room,
		drawEvery: drawEvery,
		log:       logger.Named("lobby").With("room", room.ID),
		gen:       gen,
		staging:   game.NewPoolStaging(gen, room.PoolSize),
		clients:   make(map[int64]*Client),
		gameCfg: game.Config{
			RoomID:            room.ID,
			MinPlayers:        room.MinPlayers,
			Capacity:          room.Capacity,
			MaxCardsPerPlayer: room.MaxCards,
			Countdown:         time.Duration(room.CountdownSec) * time.Second,
			EntryFee:          entryFee,
			CommissionRate:    rate,
		},
	}
	return l, nil
}

// Session returns the live session.
func (l *Lobby) Session() *game.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.session
}

// -------------------- Round loop --------------------

// Run drives rounds until the context is cancelled.
func (l *Lobby) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := l.openRound(); err != nil {
			l.log.Errorw("failed to open round", "err", err)
			return
		}
		l.awaitStart(ctx)

		s := l.Session()
		if s.Status() == game.StatusPlaying {
			l.chargeEntries(s)
			l.runDraws(ctx, s)
		}
		l.closeRound(s)

		select {
		case <-ctx.Done():
		case <-time.After(interRoundPause):
		}
	}
}

// openRound promotes the staged pool and creates a fresh session.
func (l *Lobby) openRound() error {
	pool := l.staging.Promote()
	next := l.staging.Staged()

	session, err := game.NewSession(l.gameCfg, pool, next,
		game.WithLogger(l.log),
		game.WithSink(l.onEvent),
	)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.session = session
	l.startTime = time.Now()
	l.mu.Unlock()

	l.log.Infow("round open", "session", session.ID())
	l.broadcastState()
	return nil
}

// awaitStart ticks through READY/COUNTDOWN until the session starts playing
// or dies. The deadline decision belongs to the engine; the lobby only tells
// it when the clock has run out.
func (l *Lobby) awaitStart(ctx context.Context) {
	ticker := time.NewTicker(statusTickEvery)
	defer ticker.Stop()

	s := l.Session()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status := s.Status()
		if status == game.StatusPlaying || status.Terminal() {
			return
		}
		if status == game.StatusCountdown && !time.Now().Before(s.Deadline()) {
			s.DeadlineElapsed()
			if st := s.Status(); st == game.StatusPlaying || st.Terminal() {
				return
			}
		}
		l.broadcastState()
	}
}

// chargeEntries debits the entry fee for every card entered this round.
func (l *Lobby) chargeEntries(s *game.Session) {
	fee := l.gameCfg.EntryFee.Neg()
	snapshot := s.Snapshot()
	charged := make(map[int64]int)
	for _, owner := range snapshot.TakenCards {
		charged[owner]++
	}
	for telegramID, cards := range charged {
		for i := 0; i < cards; i++ {
			err := DispatchPayout(config.DB, PayoutRequest{
				TelegramID: telegramID,
				SessionID:  s.ID(),
				Amount:     fee,
				Kind:       models.PayoutWallet,
				Type:       models.EntryTransaction,
			})
			if err != nil {
				l.log.Errorw("entry debit failed", "player", telegramID, "err", err)
			}
		}
	}
}

// runDraws feeds a shuffled sequence into the session at the draw interval.
// Draws pause while a claim is under arbitration and stop on any terminal
// state.
func (l *Lobby) runDraws(ctx context.Context, s *game.Session) {
	sequence := l.gen.DrawSequence()
	ticker := time.NewTicker(l.drawEvery)
	defer ticker.Stop()

	i := 0
	for i < len(sequence) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := s.Draw(sequence[i])
		switch err {
		case nil:
			i++
			l.broadcastState()
		case game.ErrDrawStopped:
			// claim in flight, retry the same number next tick
		case game.ErrAlreadyDrawn:
			i++
		default:
			return // terminal
		}
	}
	if err := s.ExhaustDraws(); err == nil {
		l.log.Infow("round exhausted with no winner", "session", s.ID())
	}
}

// closeRound persists the terminal snapshot, pays the winner or refunds the
// entries, and broadcasts the final state.
func (l *Lobby) closeRound(s *game.Session) {
	status := s.Status()
	if !status.Terminal() {
		// context cancelled mid-round; the operator cancel path persists.
		return
	}

	snapshot := s.Snapshot()
	summary := s.Summary()

	if err := l.persistGame(snapshot, summary); err != nil {
		l.log.Errorw("failed to persist round", "session", s.ID(), "err", err)
	}

	switch {
	case summary != nil && summary.WinnerExists:
		settlement := s.Settlement()
		err := DispatchPayout(config.DB, PayoutRequest{
			TelegramID: summary.PlayerID,
			SessionID:  s.ID(),
			Amount:     settlement.Prize,
			Kind:       payoutKindFor(summary.PlayerID),
			Type:       models.PrizeTransaction,
		})
		if err != nil {
			l.log.Errorw("prize payout failed", "player", summary.PlayerID, "err", err)
		}
	case status == game.StatusCompleted:
		// No winner at exhaustion: refund every entry.
		l.refundEntries(s, snapshot)
	case status == game.StatusCancelledAdmin && snapshot.Started:
		// Admin pulled the plug mid-play; entries were charged, refund them.
		l.refundEntries(s, snapshot)
	}

	l.broadcastState()
}

// payoutKindFor looks up the winner's preferred payout channel, defaulting
// to the in-app wallet.
func payoutKindFor(telegramID int64) models.PayoutKind {
	var user models.User
	if err := config.DB.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return models.PayoutWallet
	}
	var method models.PaymentMethod
	if err := config.DB.Where("user_id = ?", user.ID).Order("updated_at DESC").First(&method).Error; err != nil {
		return models.PayoutWallet
	}
	return method.Kind
}

func (l *Lobby) refundEntries(s *game.Session, snapshot game.State) {
	perCard := l.gameCfg.EntryFee
	for _, owner := range snapshot.TakenCards {
		err := DispatchPayout(config.DB, PayoutRequest{
			TelegramID: owner,
			SessionID:  s.ID(),
			Amount:     perCard,
			Kind:       models.PayoutWallet,
			Type:       models.RefundTransaction,
		})
		if err != nil {
			l.log.Errorw("refund failed", "player", owner, "err", err)
		}
	}
}

// persistGame serializes the terminal snapshot. List fields become JSON
// blobs only here, at the persistence boundary.
func (l *Lobby) persistGame(snapshot game.State, summary *game.Summary) error {
	players := make([]int64, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		players = append(players, p.ID)
	}
	playersJSON, _ := json.Marshal(players)
	numbersJSON, _ := json.Marshal(snapshot.DrawnNumbers)
	cardsJSON, _ := json.Marshal(snapshot.IssuedCards)

	record := models.Game{
		SessionID:    snapshot.SessionID,
		RoomID:       snapshot.RoomID,
		Status:       string(snapshot.Status),
		EntriesCount: snapshot.EntriesCount,
		PlayersJSON:  datatypes.JSON(playersJSON),
		NumbersJSON:  datatypes.JSON(numbersJSON),
		CardsJSON:    datatypes.JSON(cardsJSON),
		StartTime:    l.startTime,
		EndTime:      time.Now(),
	}
	if summary != nil && summary.WinnerExists {
		markedJSON, _ := json.Marshal(summary.Marked)
		settlement := l.Session().Settlement()
		record.WinnerExists = true
		record.WinnerID = &summary.PlayerID
		record.WinnerName = summary.PlayerName
		record.WinnerCardID = summary.CardID
		record.Pattern = string(summary.Pattern)
		record.PrizeAmount = settlement.Prize.StringFixed(2)
		record.Commission = settlement.Commission.StringFixed(2)
		record.MarkedJSON = datatypes.JSON(markedJSON)
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for cardID, owner := range snapshot.TakenCards {
			layout := cardLayout(snapshot.Pool, cardID)
			layoutJSON, _ := json.Marshal(layout)
			row := models.Card{
				CardSN:     cardID,
				SessionID:  snapshot.SessionID,
				PlayerID:   owner,
				LayoutJSON: datatypes.JSON(layoutJSON),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func cardLayout(pool []game.Card, cardID string) *game.Card {
	for i := range pool {
		if pool[i].ID == cardID {
			return &pool[i]
		}
	}
	return nil
}

// -------------------- Commands from clients --------------------

// SelectCard checks the player's balance covers the entry fee, then asks the
// engine for the card.
func (l *Lobby) SelectCard(telegramID int64, cardID string) {
	var user models.User
	if err := config.DB.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		l.notifyUser(telegramID, "Account not found.")
		return
	}
	fee, _ := l.gameCfg.EntryFee.Float64()
	if user.Balance < fee {
		l.notifyUser(telegramID, "Insufficient balance to select this card.")
		return
	}

	if err := l.Session().SelectCard(telegramID, cardID); err != nil {
		l.notifyUser(telegramID, err.Error())
		return
	}
	l.broadcastState()
}

// MarkNumber daubs a drawn number on the player's card.
func (l *Lobby) MarkNumber(telegramID int64, cardID string, number int) {
	if err := l.Session().MarkNumber(telegramID, cardID, number); err != nil {
		l.notifyUser(telegramID, err.Error())
	}
}

// SubmitClaim arbitrates a bingo assertion. An empty pattern falls back to
// the room's configured one.
func (l *Lobby) SubmitClaim(telegramID int64, cardID string, pattern string) {
	if pattern == "" {
		pattern = l.Room.Pattern
	}
	p, err := game.ParsePattern(pattern)
	if err != nil {
		l.notifyUser(telegramID, err.Error())
		return
	}

	claim, err := l.Session().SubmitClaim(telegramID, cardID, p)
	if err != nil {
		l.notifyUser(telegramID, claim.Reason)
		return
	}
	l.broadcastState()
}

// Cancel applies an operator cancellation to the live round.
func (l *Lobby) Cancel(reason string) error {
	return l.Session().CancelByAdmin(reason)
}

// -------------------- Client management --------------------

func (l *Lobby) addClient(c *Client) {
	l.mu.Lock()
	if old, ok := l.clients[c.telegramID]; ok {
		old.Close()
	}
	l.clients[c.telegramID] = c
	l.mu.Unlock()

	go c.writePump()
	go c.readPump()

	if err := l.Session().Join(c.telegramID, c.name); err != nil {
		switch err {
		case game.ErrAlreadyJoined:
			// reconnect, nothing to do
		case game.ErrSelectionClosed:
			l.notifyUser(c.telegramID, "Round in progress, you can join the next one.")
		default:
			l.notifyUser(c.telegramID, err.Error())
		}
	}

	l.log.Infow("client connected", "player", c.telegramID, "total", l.clientCount())
	l.broadcastState()
}

func (l *Lobby) removeClient(telegramID int64) {
	l.mu.Lock()
	client, ok := l.clients[telegramID]
	if ok {
		delete(l.clients, telegramID)
		client.Close()
	}
	l.mu.Unlock()

	// Dropping the socket before the round starts releases the seat.
	if err := l.Session().Leave(telegramID); err == nil {
		l.broadcastState()
	}
}

func (l *Lobby) clientCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clients)
}

// -------------------- Broadcast --------------------

// lobbyState is the wire shape pushed to every client.
type lobbyState struct {
	Type         string     `json:"type"`
	Room         string     `json:"room"`
	EntryFee     string     `json:"entry_fee"`
	CountdownSec int        `json:"countdown_sec"`
	State        game.State `json:"state"`
}

func (l *Lobby) broadcastState() {
	s := l.Session()
	if s == nil {
		return
	}
	snapshot := s.Snapshot()

	countdown := 0
	if snapshot.Status == game.StatusCountdown {
		if remaining := time.Until(snapshot.Deadline); remaining > 0 {
			countdown = int(remaining.Round(time.Second).Seconds())
		}
	}

	b, _ := json.Marshal(lobbyState{
		Type:         "state",
		Room:         l.Room.ID,
		EntryFee:     l.Room.EntryFee,
		CountdownSec: countdown,
		State:        snapshot,
	})
	l.fanout(b)
}

// onEvent relays engine events to every client.
func (l *Lobby) onEvent(ev game.Event) {
	b, _ := json.Marshal(ev)
	l.fanout(b)
}

func (l *Lobby) fanout(msg []byte) {
	l.mu.RLock()
	clients := make([]*Client, 0, len(l.clients))
	for _, c := range l.clients {
		clients = append(clients, c)
	}
	l.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			l.log.Debugw("dropping message", "player", c.telegramID)
		}
	}
}

func (l *Lobby) notifyUser(telegramID int64, message string) {
	l.mu.RLock()
	client, ok := l.clients[telegramID]
	l.mu.RUnlock()
	if !ok {
		return
	}

	b, _ := json.Marshal(map[string]string{
		"type":    "notification",
		"message": message,
	})
	select {
	case client.send <- b:
	default:
		l.log.Debugw("dropping notification", "player", telegramID)
	}
}
