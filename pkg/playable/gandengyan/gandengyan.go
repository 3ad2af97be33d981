package gandengyan

import (
	"fmt"
	"time"

	"gandengyan-server/pkg/deck"
	"gandengyan-server/pkg/playable"
	"gandengyan-server/pkg/playable/gandengyan/handshape"

	"github.com/sirupsen/logrus"
)

// Phase represents the current phase of the game
type Phase string

const (
	// PhaseWaiting is before cards are dealt
	PhaseWaiting Phase = "waiting"
	// PhasePlaying is while players take turns
	PhasePlaying Phase = "playing"
	// PhaseFinished is after somebody emptied their hand
	PhaseFinished Phase = "finished"
)

// Play is an accepted play
// Value is the value the play was accepted at. For straights that is the start of the
// window the jokers were resolved to.
type Play struct {
	PlayerID  string          `json:"playerId"`
	Cards     []*deck.Card    `json:"cards"`
	Shape     handshape.Shape `json:"shape"`
	Value     int             `json:"value"`
	Timestamp time.Time       `json:"timestamp"`
}

func (p *Play) combination() *handshape.Combination {
	if p == nil {
		return nil
	}

	return &handshape.Combination{
		Shape: p.Shape,
		Cards: p.Cards,
		Value: p.Value,
	}
}

func (p *Play) clone() *Play {
	if p == nil {
		return nil
	}

	c := *p
	c.Cards = append([]*deck.Card{}, p.Cards...)
	return &c
}

var _ playable.Playable = (*Session)(nil)

// Session is a single room's game of Gan Deng Yan
// A session is not safe for concurrent use, the owner serializes access
type Session struct {
	id         string
	options    Options
	players    []*Player
	idToPlayer map[string]*Player

	phase              Phase
	currentPlayerIndex int
	// openingPlayerID overrides the random opening seat on the next deal
	openingPlayerID string

	deck         *deck.Deck
	discardPile  []*deck.Card
	lastPlay     *Play
	lastPlayerID string
	// passed holds the players who passed on lastPlay
	passed map[string]bool

	winner     string
	lastWinner string

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
	now     func() time.Time
}

// NewSession returns an empty session waiting for players
func NewSession(logger logrus.FieldLogger, id string, opts Options) *Session {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	opts.MaxPlayers = ClampMaxPlayers(opts.MaxPlayers)
	if opts.Generator == nil {
		opts.Generator = DefaultOptions().Generator
	}

	d := deck.New(opts.Generator)
	d.Empty()

	return &Session{
		id:          id,
		options:     opts,
		players:     make([]*Player, 0, opts.MaxPlayers),
		idToPlayer:  make(map[string]*Player),
		passed:      make(map[string]bool),
		phase:       PhaseWaiting,
		deck:        d,
		discardPile: []*deck.Card{},
		logger:      logger.WithField("roomID", id),
		logChan:     make(chan []*playable.LogMessage, 256),
		now:         time.Now,
	}
}

// Name returns "gandengyan"
func (s *Session) Name() string {
	return "gandengyan"
}

// ID returns the room ID
func (s *Session) ID() string {
	return s.id
}

// LogChan returns a channel for sending log messages
func (s *Session) LogChan() <-chan []*playable.LogMessage {
	return s.logChan
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	return s.phase
}

// MaxPlayers returns the number of seats
func (s *Session) MaxPlayers() int {
	return s.options.MaxPlayers
}

// PlayerCount returns the number of seated players
func (s *Session) PlayerCount() int {
	return len(s.players)
}

// IsFull returns true if every seat is taken
func (s *Session) IsFull() bool {
	return len(s.players) >= s.options.MaxPlayers
}

// HasPlayer returns true if the player is seated
func (s *Session) HasPlayer(playerID string) bool {
	_, ok := s.idToPlayer[playerID]
	return ok
}

// Players returns the seated players in seat order
func (s *Session) Players() []*Player {
	return append([]*Player{}, s.players...)
}

// CurrentPlayerID returns the ID of the player whose turn it is
func (s *Session) CurrentPlayerID() string {
	if p := s.currentPlayer(); p != nil {
		return p.ID
	}

	return ""
}

// Winner returns the ID of the player who won, or an empty string
func (s *Session) Winner() string {
	return s.winner
}

// LastWinner returns the winner of the previous game
func (s *Session) LastWinner() string {
	return s.lastWinner
}

// LastPlay returns a copy of the play to beat, or nil when a round is open
func (s *Session) LastPlay() *Play {
	return s.lastPlay.clone()
}

// DrawPileCount returns the number of cards left to draw
func (s *Session) DrawPileCount() int {
	return s.deck.CardsLeft()
}

// DiscardPileCount returns the number of played cards
func (s *Session) DiscardPileCount() int {
	return len(s.discardPile)
}

// ConsecutivePasses returns how many players passed since the last play
func (s *Session) ConsecutivePasses() int {
	return len(s.passed)
}

// Action performs an action for a player
func (s *Session) Action(playerID string, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	switch message.Action {
	case "start":
		if !s.HasPlayer(playerID) {
			return nil, false, ErrPlayerNotFound
		}

		if err := s.Start(); err != nil {
			return nil, false, err
		}
	case "play":
		if err := s.PlayCards(playerID, message.Cards); err != nil {
			return nil, false, err
		}
	case "pass":
		if err := s.Pass(playerID); err != nil {
			return nil, false, err
		}
	case "rematch":
		if _, err := s.RequestRematch(playerID); err != nil {
			return nil, false, err
		}
	case "timeout":
		if err := s.ForceTimeoutEffect(playerID); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}

	return playable.OK(message.Context), true, nil
}

// AddPlayer seats a player in the next open seat
func (s *Session) AddPlayer(playerID, name string) error {
	if s.phase != PhaseWaiting {
		return ErrGameInProgress
	}

	if s.HasPlayer(playerID) {
		return ErrAlreadySeated
	}

	if s.IsFull() {
		return ErrRoomFull
	}

	p := NewPlayer(playerID, name)
	s.players = append(s.players, p)
	s.idToPlayer[playerID] = p

	s.logger.WithField("playerID", playerID).Debug("player joined")
	s.sendLogMessages(playable.SimpleLogMessage(playerID, "{} joined the room"))

	return nil
}

// RemovePlayer removes a player from their seat
// A player leaving a running game puts their cards in the discard pile
func (s *Session) RemovePlayer(playerID string) error {
	p, ok := s.idToPlayer[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	idx := s.seatOf(playerID)
	s.players = append(s.players[:idx:idx], s.players[idx+1:]...)
	delete(s.idToPlayer, playerID)

	s.logger.WithField("playerID", playerID).Debug("player left")
	s.sendLogMessages(playable.SimpleLogMessage(playerID, "{} left the room"))

	if s.phase == PhasePlaying {
		s.discardPile = append(s.discardPile, p.clearHand()...)
	}

	if idx < s.currentPlayerIndex {
		s.currentPlayerIndex--
	} else if s.currentPlayerIndex >= len(s.players) {
		s.currentPlayerIndex = 0
	}

	switch s.phase {
	case PhasePlaying:
		if len(s.players) < MinPlayers {
			s.finish("")
			return nil
		}

		delete(s.passed, playerID)
		if s.roundClosed() {
			s.beginNewRound()
		}
	case PhaseFinished:
		if len(s.players) > 0 && s.everyoneWantsRematch() {
			if _, err := s.rematch(); err != nil {
				s.logger.WithError(err).Error("could not start the rematch")
			}
		}
	}

	return nil
}

// Start shuffles and deals a new game
func (s *Session) Start() error {
	if s.phase != PhaseWaiting {
		return ErrGameInProgress
	}

	if len(s.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	opening := s.seatOf(s.openingPlayerID)
	if opening < 0 {
		opening = s.options.Generator.Intn(len(s.players))
	}

	s.deck.Shuffle()
	s.discardPile = []*deck.Card{}

	for _, p := range s.players {
		p.clearHand()
		p.wantsRematch = false
		if err := s.deal(p, HandSize); err != nil {
			return err
		}
	}

	if err := s.deal(s.players[opening], 1); err != nil {
		return err
	}

	s.phase = PhasePlaying
	s.currentPlayerIndex = opening
	s.openingPlayerID = ""
	s.lastPlay = nil
	s.lastPlayerID = ""
	s.passed = make(map[string]bool)
	s.winner = ""

	s.logger.WithField("openingPlayerID", s.players[opening].ID).Info("game started")
	s.sendLogMessages(playable.SimpleLogMessage(s.players[opening].ID, "New game started, {} goes first"))

	return nil
}

func (s *Session) deal(p *Player, n int) error {
	cards := make([]*deck.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := s.deck.Draw()
		if err != nil {
			return fmt.Errorf("could not deal to %s: %w", p.ID, err)
		}

		cards = append(cards, card)
	}

	p.addCards(cards...)
	return nil
}

// checkTurn makes sure the game is running and it is the player's turn
func (s *Session) checkTurn(playerID string) (*Player, error) {
	if s.phase != PhasePlaying {
		return nil, ErrGameNotStarted
	}

	p, ok := s.idToPlayer[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if s.currentPlayer() != p {
		return nil, ErrNotPlayersTurn
	}

	return p, nil
}

// PlayCards plays cards from the player's hand
// Only the ID of each card is used, the cards themselves come from the hand
func (s *Session) PlayCards(playerID string, cards []*deck.Card) error {
	p, err := s.checkTurn(playerID)
	if err != nil {
		return err
	}

	resolved, err := p.resolveCards(cards)
	if err != nil {
		return err
	}

	combination, err := handshape.Beat(resolved, s.lastPlay.combination())
	if err != nil {
		return ruleViolation(err)
	}

	p.removeCards(combination.Cards)
	s.discardPile = append(s.discardPile, combination.Cards...)
	s.lastPlay = &Play{
		PlayerID:  playerID,
		Cards:     combination.Cards,
		Shape:     combination.Shape,
		Value:     combination.Value,
		Timestamp: s.now(),
	}
	s.lastPlayerID = playerID
	s.passed = make(map[string]bool)

	s.logger.WithFields(logrus.Fields{
		"playerID": playerID,
		"shape":    combination.Shape,
		"cards":    deck.CardsToString(combination.Cards),
	}).Debug("cards played")
	s.sendLogMessages(playable.NewLogMessage(playerID, combination.Cards, "{} played a %s", combination.Shape))

	if p.CardCount() == 0 {
		s.finish(playerID)
		return nil
	}

	s.advanceTurn()
	return nil
}

// Pass passes the player's turn
// Once everybody else passed on a play, the round is closed and the next player draws
func (s *Session) Pass(playerID string) error {
	if _, err := s.checkTurn(playerID); err != nil {
		return err
	}

	if s.lastPlay == nil {
		return ErrMustLead
	}

	s.passed[playerID] = true
	s.advanceTurn()

	s.logger.WithField("playerID", playerID).Debug("passed")
	s.sendLogMessages(playable.SimpleLogMessage(playerID, "{} passed"))

	if s.roundClosed() {
		s.beginNewRound()
	}

	return nil
}

// roundClosed returns true once every seated player other than the one who made the last play has passed on it
func (s *Session) roundClosed() bool {
	if s.lastPlay == nil {
		return false
	}

	for _, p := range s.players {
		if p.ID != s.lastPlay.PlayerID && !s.passed[p.ID] {
			return false
		}
	}

	return true
}

// ForceTimeoutEffect acts for a player who ran out of time
// The player passes if there is a play to beat, otherwise the lowest card in their hand is played
func (s *Session) ForceTimeoutEffect(playerID string) error {
	p, err := s.checkTurn(playerID)
	if err != nil {
		return err
	}

	s.logger.WithField("playerID", playerID).Info("turn timed out")

	if s.lastPlay != nil {
		return s.Pass(playerID)
	}

	return s.PlayCards(playerID, []*deck.Card{p.lowestCard()})
}

// RequestRematch records the player's wish for another game
// Once every seated player asked, the session resets and deals again if possible
func (s *Session) RequestRematch(playerID string) (reset bool, err error) {
	if s.phase != PhaseFinished {
		return false, ErrGameNotOver
	}

	p, ok := s.idToPlayer[playerID]
	if !ok {
		return false, ErrPlayerNotFound
	}

	if !p.wantsRematch {
		p.wantsRematch = true
		s.sendLogMessages(playable.SimpleLogMessage(playerID, "{} wants a rematch"))
	}

	if !s.everyoneWantsRematch() {
		return false, nil
	}

	return s.rematch()
}

func (s *Session) everyoneWantsRematch() bool {
	for _, p := range s.players {
		if !p.wantsRematch {
			return false
		}
	}

	return true
}

// rematch resets the session for a new game
// The first seat that did not win the previous game opens
func (s *Session) rematch() (bool, error) {
	s.lastWinner = s.winner
	s.winner = ""
	s.phase = PhaseWaiting
	s.lastPlay = nil
	s.lastPlayerID = ""
	s.passed = make(map[string]bool)
	s.deck.Empty()
	s.discardPile = []*deck.Card{}

	for _, p := range s.players {
		p.clearHand()
		p.wantsRematch = false
	}

	s.currentPlayerIndex = 0
	if s.lastWinner != "" {
		for i, p := range s.players {
			if p.ID != s.lastWinner {
				s.currentPlayerIndex = i
				break
			}
		}
	}

	s.openingPlayerID = ""
	if p := s.currentPlayer(); p != nil {
		s.openingPlayerID = p.ID
	}

	s.logger.WithField("lastWinner", s.lastWinner).Info("rematch")

	if len(s.players) < MinPlayers {
		return true, nil
	}

	return true, s.Start()
}

// beginNewRound clears the table and the player who leads the new round draws a card
func (s *Session) beginNewRound() {
	closing := s.lastPlay
	s.lastPlay = nil
	s.passed = make(map[string]bool)

	p := s.currentPlayer()
	if p == nil {
		return
	}

	s.sendLogMessages(playable.SimpleLogMessage(p.ID, "Everybody passed, {} leads the next round"))

	if s.deck.CardsLeft() == 0 {
		s.reshuffle(closing)
	}

	card, err := s.deck.Draw()
	if err != nil {
		s.logger.WithField("playerID", p.ID).Debug("no cards left to draw")
		return
	}

	p.addCards(card)
}

// reshuffle turns the discard pile into a new draw pile
// The cards of the play that closed the round stay in the discard pile
func (s *Session) reshuffle(closing *Play) {
	held := make(map[string]bool)
	if closing != nil {
		for _, card := range closing.Cards {
			held[card.ID] = true
		}
	}

	pool := make([]*deck.Card, 0, len(s.discardPile))
	kept := make([]*deck.Card, 0, len(held))
	for _, card := range s.discardPile {
		if held[card.ID] {
			kept = append(kept, card)
		} else {
			pool = append(pool, card)
		}
	}

	if len(pool) == 0 {
		return
	}

	s.deck.ShuffleDiscards(pool)
	s.discardPile = kept

	s.logger.WithField("cards", len(pool)).Debug("reshuffled the discard pile")
	s.sendLogMessages(playable.SimpleLogMessage("", "The discard pile was shuffled into the draw pile"))
}

func (s *Session) finish(winner string) {
	s.phase = PhaseFinished
	s.winner = winner

	s.logger.WithField("winner", winner).Info("game over")
	if winner != "" {
		s.sendLogMessages(playable.SimpleLogMessage(winner, "{} won the game"))
	} else {
		s.sendLogMessages(playable.SimpleLogMessage("", "Game over, not enough players left"))
	}
}

func (s *Session) advanceTurn() {
	if len(s.players) == 0 {
		s.currentPlayerIndex = 0
		return
	}

	s.currentPlayerIndex = (s.currentPlayerIndex + 1) % len(s.players)
}

func (s *Session) currentPlayer() *Player {
	if s.currentPlayerIndex < 0 || s.currentPlayerIndex >= len(s.players) {
		return nil
	}

	return s.players[s.currentPlayerIndex]
}

func (s *Session) seatOf(playerID string) int {
	for i, p := range s.players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

func (s *Session) sendLogMessages(msg ...*playable.LogMessage) {
	select {
	case s.logChan <- msg:
	default:
		s.logger.Warn("log channel is full, dropping messages")
	}
}
