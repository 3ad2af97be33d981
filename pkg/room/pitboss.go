package room

import (
	"sync"

	"gandengyan-server/internal/util"
	"gandengyan-server/pkg/playable/gandengyan"

	"github.com/sirupsen/logrus"
)

// Stats is a snapshot of the rooms the pit boss is running
type Stats struct {
	Clients int        `json:"clients"`
	Rooms   []*Summary `json:"rooms"`
}

// PitBoss is responsible for dispatching players to rooms
type PitBoss struct {
	options Options
	logger  logrus.FieldLogger

	// dealers is in creation order so the oldest waiting room fills first
	dealers        []*Dealer
	clientToDealer map[*Client]*Dealer
	lock           sync.RWMutex

	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(logger logrus.FieldLogger, opts Options) *PitBoss {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	opts.DefaultMaxPlayers = gandengyan.ClampMaxPlayers(opts.DefaultMaxPlayers)

	return &PitBoss{
		options:        opts,
		logger:         logger,
		clientToDealer: make(map[*Client]*Dealer),
		connect:        make(chan *Client, 256),
		disconnect:     make(chan *Client, 256),
		close:          make(chan bool),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every room
func (p *PitBoss) EndShift() {
	close(p.close)
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			p.logger.WithField("client", client.String()).Debug("client connected")
			p.seat(client)
		case client := <-p.disconnect:
			p.logger.WithField("client", client.String()).Debug("client disconnected")
			p.unseat(client)
		case <-p.close:
			p.lock.Lock()
			for _, dealer := range p.dealers {
				dealer.EndShift()
			}
			p.dealers = nil
			p.lock.Unlock()
			return
		}
	}
}

// preferredSize returns the room size the client asked for
func (p *PitBoss) preferredSize(client *Client) int {
	if client.MaxPlayers == 0 {
		return p.options.DefaultMaxPlayers
	}

	return gandengyan.ClampMaxPlayers(client.MaxPlayers)
}

// NOTE: must only be called from the run loop
func (p *PitBoss) seat(client *Client) {
	size := p.preferredSize(client)

	p.lock.RLock()
	dealers := append([]*Dealer{}, p.dealers...)
	p.lock.RUnlock()

	for _, dealer := range dealers {
		if dealer.MaxPlayers() != size {
			continue
		}

		if err := dealer.Seat(client); err == nil {
			p.track(client, dealer)
			return
		}
	}

	dealer := NewDealer(p.logger, util.NewID(), size, p.options)
	dealer.StartShift()

	p.lock.Lock()
	p.dealers = append(p.dealers, dealer)
	p.lock.Unlock()

	p.logger.WithFields(logrus.Fields{
		"roomID":     dealer.ID(),
		"maxPlayers": size,
	}).Info("opened a new room")

	if err := dealer.Seat(client); err != nil {
		p.logger.WithError(err).WithField("client", client.String()).Error("could not seat client in a new room")
		return
	}

	p.track(client, dealer)
}

func (p *PitBoss) track(client *Client, dealer *Dealer) {
	p.lock.Lock()
	p.clientToDealer[client] = dealer
	p.lock.Unlock()
}

// NOTE: must only be called from the run loop
func (p *PitBoss) unseat(client *Client) {
	p.lock.RLock()
	dealer, found := p.clientToDealer[client]
	p.lock.RUnlock()

	if !found {
		p.logger.WithField("client", client.String()).Warn("client was not seated")
		return
	}

	remaining := dealer.Unseat(client)

	p.lock.Lock()
	defer p.lock.Unlock()

	delete(p.clientToDealer, client)
	if remaining > 0 {
		return
	}

	dealer.EndShift()
	for i, d := range p.dealers {
		if d == dealer {
			p.dealers = append(p.dealers[:i:i], p.dealers[i+1:]...)
			break
		}
	}

	p.logger.WithField("roomID", dealer.ID()).Info("closed an empty room")
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// Stats returns the connected clients and open rooms
func (p *PitBoss) Stats() Stats {
	p.lock.RLock()
	dealers := append([]*Dealer{}, p.dealers...)
	clients := len(p.clientToDealer)
	p.lock.RUnlock()

	stats := Stats{
		Clients: clients,
		Rooms:   make([]*Summary, 0, len(dealers)),
	}

	for _, dealer := range dealers {
		summary, ok := dealer.Summary()
		if !ok {
			continue
		}

		stats.Rooms = append(stats.Rooms, &summary)
	}

	return stats
}
