package room

import (
	"fmt"
	"sync"

	"gandengyan-server/pkg/playable"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	// PlayerID is assigned by the server when the client connects
	PlayerID string

	// Name is the display name of the player
	Name string

	// MaxPlayers is the room size the player asked for, zero for the default
	MaxPlayers int

	lock   sync.RWMutex
	dealer *Dealer
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, playerID, name string, maxPlayers int) *Client {
	return &Client{
		send:       make(chan interface{}, 256),
		Close:      make(chan string),
		Conn:       conn,
		PlayerID:   playerID,
		Name:       name,
		MaxPlayers: maxPlayers,
	}
}

// Send send a message to the web client
// Returns false if the client is not keeping up and the message was dropped
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer is full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.PlayerID)
}

// Dealer returns the dealer of the room the client is seated in
func (c *Client) Dealer() *Dealer {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.dealer
}

func (c *Client) setDealer(d *Dealer) {
	c.lock.Lock()
	c.dealer = d
	c.lock.Unlock()
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	dealer := c.Dealer()
	if dealer == nil {
		logrus.WithField("action", msg.Action).WithField("client", c.String()).Warn("received message, but dealer not found")
		c.Send(playable.ErrorResponse(msg.Context, ErrNotSeated))
		return
	}

	dealer.ReceivedMessage(c, msg)
}
