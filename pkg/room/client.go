package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"toes-server/pkg/toes"
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

	dealer   *Dealer
	playerID string
}

// NewClient returns a new client object
// playerID may be empty for a spectator.
func NewClient(conn *websocket.Conn, playerID string, dealer *Dealer) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string, 1),
		Conn:     conn,
		dealer:   dealer,
		playerID: playerID,
	}
}

// Send send a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.playerID, c.dealer.TableID())
}

// Follow sends the player's view of every new state until ctx ends or the dealer's shift ends
func (c *Client) Follow(ctx context.Context) {
	states, unsubscribe := c.dealer.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				c.Close <- "table closed"
				return
			}

			if !c.Send(newViewResponse(toes.View(state, c.playerID))) {
				logrus.WithField("client", c.String()).Warn("client is not keeping up, dropped view")
			}
		}
	}
}

// ReceivedMessage is called when the server receives a message from a connected client
// The message is a move envelope. A spectator may only advance, and a player may only choose for themself.
func (c *Client) ReceivedMessage(ctx context.Context, data []byte) {
	move, err := toes.DecodeMove(data)
	if err != nil {
		c.Send(newErrorResponse(err))
		return
	}

	if err := Authorize(c.playerID, move); err != nil {
		c.Send(newErrorResponse(err))
		return
	}

	if _, err := c.dealer.Submit(ctx, move); err != nil {
		logrus.WithError(err).WithField("client", c.String()).Debug("could not submit move")
		c.Send(newErrorResponse(err))
		return
	}

	c.Send(newLogResponse(c.dealer.LogMessages()))
}

// Authorize checks that a move may be submitted on behalf of the player
// Reshuffles are reserved for the dealer.
func Authorize(playerID string, move toes.Move) error {
	switch m := move.(type) {
	case toes.Choose:
		if m.PlayerID != playerID {
			return fmt.Errorf("%w: cannot choose for another player", ErrMoveRejected)
		}
	case toes.Reshuffle:
		return fmt.Errorf("%w: reshuffles are made by the dealer", ErrMoveRejected)
	}

	return nil
}
