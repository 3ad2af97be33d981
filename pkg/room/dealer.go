package room

import (
	"errors"
	"time"

	"gandengyan-server/pkg/playable"
	"gandengyan-server/pkg/playable/gandengyan"

	"github.com/sirupsen/logrus"
)

// ErrDealerClosed is returned when a room has already been torn down
var ErrDealerClosed = errors.New("the room is closed")

// ErrNotSeated is returned when a client sends a message before it was seated
var ErrNotSeated = errors.New("you are not seated in a room")

// Options configure how rooms are run
type Options struct {
	// DefaultMaxPlayers is the room size used when a client has no preference
	DefaultMaxPlayers int

	// TurnTimeout is how long a player has to act, zero disables it
	TurnTimeout time.Duration

	// StartDelay is how long a full room waits before dealing
	StartDelay time.Duration

	// SessionOptions returns the options for each new game session
	// If nil, gandengyan.DefaultOptions() is used
	SessionOptions func() gandengyan.Options
}

// DefaultOptions returns the default room options
func DefaultOptions() Options {
	return Options{
		DefaultMaxPlayers: gandengyan.MinPlayers,
		TurnTimeout:       30 * time.Second,
		StartDelay:        time.Second,
	}
}

// Summary describes a room
type Summary struct {
	ID         string           `json:"id"`
	Phase      gandengyan.Phase `json:"phase"`
	Players    int              `json:"players"`
	MaxPlayers int              `json:"maxPlayers"`
}

// Dealer is responsible for running a single room
// The game session is only ever touched from the run loop
type Dealer struct {
	id         string
	maxPlayers int
	options    Options
	session    *gandengyan.Session
	clients    map[string]*Client
	logger     logrus.FieldLogger

	execInRunLoop chan func()
	close         chan bool
	// stopped is closed once the run loop has returned
	stopped chan bool

	startTimer *time.Timer
	startToken int
	turnTimer  *time.Timer
	turnToken  int
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(logger logrus.FieldLogger, id string, maxPlayers int, opts Options) *Dealer {
	sessionOpts := gandengyan.DefaultOptions()
	if opts.SessionOptions != nil {
		sessionOpts = opts.SessionOptions()
	}
	sessionOpts.MaxPlayers = maxPlayers

	session := gandengyan.NewSession(logger, id, sessionOpts)

	return &Dealer{
		id:            id,
		maxPlayers:    session.MaxPlayers(),
		options:       opts,
		session:       session,
		clients:       make(map[string]*Client),
		logger:        logger.WithField("roomID", id),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		stopped:       make(chan bool),
	}
}

// ID returns the room ID
func (d *Dealer) ID() string {
	return d.id
}

// MaxPlayers returns the room size
func (d *Dealer) MaxPlayers() int {
	return d.maxPlayers
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	defer close(d.stopped)

	for {
		select {
		case fn := <-d.execInRunLoop:
			// queued jobs are dropped once the shift is over
			select {
			case <-d.close:
				d.shutdown()
				return
			default:
			}

			fn()
		case <-d.close:
			d.shutdown()
			return
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) shutdown() {
	d.cancelStart()
	d.stopTurnTimer()
	d.logger.Debug("terminating dealer run loop")
}

// exec runs fn in the run loop and waits for it to finish
// Returns false if the dealer closed before fn could run, in which case fn never runs
func (d *Dealer) exec(fn func()) bool {
	done := make(chan bool)
	wrapped := func() {
		fn()
		close(done)
	}

	select {
	case d.execInRunLoop <- wrapped:
	case <-d.close:
		return false
	}

	select {
	case <-done:
		return true
	case <-d.stopped:
		// fn only runs on the loop, so it either finished before stopped was closed or never will
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

// enqueue schedules fn in the run loop without waiting for it
func (d *Dealer) enqueue(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
	}
}

// Seat adds the client to the game
func (d *Dealer) Seat(client *Client) error {
	var err error
	if !d.exec(func() { err = d.seat(client) }) {
		return ErrDealerClosed
	}

	return err
}

// Unseat removes the client from the game and returns how many clients are left
func (d *Dealer) Unseat(client *Client) int {
	var remaining int
	if !d.exec(func() { remaining = d.unseat(client) }) {
		return 0
	}

	return remaining
}

// Summary returns a description of the room
func (d *Dealer) Summary() (Summary, bool) {
	var summary Summary
	if !d.exec(func() {
		summary = Summary{
			ID:         d.id,
			Phase:      d.session.Phase(),
			Players:    d.session.PlayerCount(),
			MaxPlayers: d.maxPlayers,
		}
	}) {
		return Summary{}, false
	}

	return summary, true
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.enqueue(func() {
		d.handleMessage(c, msg)
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) seat(c *Client) error {
	before := d.session.Phase()
	if err := d.session.AddPlayer(c.PlayerID, c.Name); err != nil {
		return err
	}

	d.clients[c.PlayerID] = c
	c.setDealer(d)

	d.logger.WithField("client", c.String()).Info("client seated")
	c.Send(newResponse(keyJoined, joinedPayload{
		RoomID:     d.id,
		PlayerID:   c.PlayerID,
		Name:       c.Name,
		MaxPlayers: d.maxPlayers,
	}))

	d.afterChange(before)
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) unseat(c *Client) int {
	if _, ok := d.clients[c.PlayerID]; !ok {
		return len(d.clients)
	}

	delete(d.clients, c.PlayerID)
	c.setDealer(nil)

	before := d.session.Phase()
	if err := d.session.RemovePlayer(c.PlayerID); err != nil {
		d.logger.WithError(err).WithField("client", c.String()).Error("could not remove player")
	}

	d.logger.WithField("client", c.String()).Info("client left")
	d.afterChange(before)

	return len(d.clients)
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *playable.PayloadIn) {
	if d.clients[c.PlayerID] != c {
		c.Send(playable.ErrorResponse(msg.Context, ErrNotSeated))
		return
	}

	if msg.Action == "state" {
		d.sendState(c, msg.Context)
		return
	}

	before := d.session.Phase()
	res, updateState, err := d.session.Action(c.PlayerID, msg)
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"client": c.String(),
			"action": msg.Action,
		}).Debug("action rejected")

		errRes := playable.ErrorResponse(msg.Context, err)
		errRes.Data = gandengyan.ResultOf(err)
		c.Send(errRes)
		return
	}

	if res != nil {
		res.Context = msg.Context
		c.Send(res)
	}

	if msg.Action == "rematch" && d.session.Phase() == gandengyan.PhaseFinished {
		d.broadcast(newResponse(keyRematchRequested, playerPayload{PlayerID: c.PlayerID}))
	}

	if updateState {
		d.afterChange(before)
	}
}

// afterChange tells every client about an accepted change and rearms the timers
// NOTE: must only be called from the run loop
func (d *Dealer) afterChange(before gandengyan.Phase) {
	d.flushLogs()

	phase := d.session.Phase()
	switch {
	case before == gandengyan.PhaseFinished && phase != gandengyan.PhaseFinished:
		d.broadcast(newResponse(keyRematchStarted, nil))
	case before == gandengyan.PhasePlaying && phase == gandengyan.PhaseFinished:
		d.broadcast(newResponse(keyGameOver, d.gameOver()))
	}

	d.broadcastState()

	switch phase {
	case gandengyan.PhasePlaying:
		d.cancelStart()
		d.armTurnTimer()
		d.notifyCurrentPlayer()
	case gandengyan.PhaseWaiting:
		d.stopTurnTimer()
		if d.session.IsFull() {
			d.scheduleStart()
		} else {
			d.cancelStart()
		}
	default:
		d.stopTurnTimer()
	}
}

func (d *Dealer) gameOver() gameOverPayload {
	payload := gameOverPayload{Winner: d.session.Winner()}
	for _, p := range d.session.Players() {
		if p.ID == payload.Winner {
			payload.WinnerName = p.Name
		}
	}

	return payload
}

// flushLogs forwards the session's log messages to every client
func (d *Dealer) flushLogs() {
	for {
		select {
		case msgs := <-d.session.LogChan():
			d.broadcast(newResponse(keyLog, msgs))
		default:
			return
		}
	}
}

func (d *Dealer) broadcast(res *playable.Response) {
	for _, c := range d.clients {
		c.Send(res)
	}
}

func (d *Dealer) broadcastState() {
	for _, c := range d.clients {
		d.sendState(c, "")
	}
}

func (d *Dealer) sendState(c *Client, ctx string) {
	state, err := d.session.GetPlayerState(c.PlayerID)
	if err != nil {
		d.logger.WithError(err).Error("could not get player state")
		return
	}

	state.Context = ctx
	c.Send(state)
}

func (d *Dealer) notifyCurrentPlayer() {
	c, ok := d.clients[d.session.CurrentPlayerID()]
	if !ok {
		return
	}

	c.Send(newResponse(keyYourTurn, yourTurnPayload{
		CanPass:     d.session.LastPlay() != nil,
		TimeoutSecs: int64(d.options.TurnTimeout / time.Second),
	}))
}

func (d *Dealer) scheduleStart() {
	if d.startTimer != nil {
		return
	}

	token := d.startToken
	d.startTimer = time.AfterFunc(d.options.StartDelay, func() {
		d.enqueue(func() {
			d.startGame(token)
		})
	})
}

// cancelStart stops the countdown, a timer that already fired is discarded by its token
func (d *Dealer) cancelStart() {
	d.startToken++
	if d.startTimer != nil {
		d.startTimer.Stop()
		d.startTimer = nil
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) startGame(token int) {
	if token != d.startToken {
		// cancelled after it fired
		return
	}

	d.cancelStart()
	if d.session.Phase() != gandengyan.PhaseWaiting || !d.session.IsFull() {
		return
	}

	before := d.session.Phase()
	if err := d.session.Start(); err != nil {
		d.logger.WithError(err).Error("could not start the game")
		return
	}

	d.afterChange(before)
}

// armTurnTimer restarts the turn clock for the current player
func (d *Dealer) armTurnTimer() {
	d.stopTurnTimer()
	if d.options.TurnTimeout <= 0 {
		return
	}

	token := d.turnToken
	playerID := d.session.CurrentPlayerID()
	d.turnTimer = time.AfterFunc(d.options.TurnTimeout, func() {
		d.enqueue(func() {
			d.turnExpired(token, playerID)
		})
	})
}

// stopTurnTimer stops the clock, a timer that already fired is discarded by its token
func (d *Dealer) stopTurnTimer() {
	if d.turnTimer != nil {
		d.turnTimer.Stop()
		d.turnTimer = nil
	}

	d.turnToken++
}

// NOTE: must only be called from the run loop
func (d *Dealer) turnExpired(token int, playerID string) {
	if token != d.turnToken {
		return
	}

	d.turnTimer = nil
	before := d.session.Phase()
	if err := d.session.ForceTimeoutEffect(playerID); err != nil {
		d.logger.WithError(err).WithField("playerID", playerID).Warn("could not force the turn")
		return
	}

	d.broadcast(newResponse(keyTurnTimeout, playerPayload{PlayerID: playerID}))
	d.afterChange(before)
}
