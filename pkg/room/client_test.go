package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/toes"
)

func receive(t *testing.T, c *Client) *Response {
	t.Helper()

	select {
	case msg := <-c.SendChan():
		return msg.(*Response)
	case <-time.After(time.Second):
		require.FailNow(t, "client never received a message")
	}

	return nil
}

func TestClient_ReceivedMessage(t *testing.T) {
	a := assert.New(t)
	cfg, _ := newTestConfig()
	d := newTestDealer(t, cfg)

	c := NewClient(nil, "p2", d)
	a.Equal("p2:t1", c.String())

	c.ReceivedMessage(context.Background(), []byte(`{"type":"advance"}`))
	a.Equal("log", receive(t, c).Key)
	a.Equal(toes.PhaseChoose, d.State().Phase)

	c.ReceivedMessage(context.Background(), []byte(`{"type":"choose","playerId":"p1","in":true}`))
	resp := receive(t, c)
	a.Equal("error", resp.Key)
	a.Equal("move rejected: cannot choose for another player", resp.Value)

	c.ReceivedMessage(context.Background(), []byte(`{"type":"reshuffle","seed":"x","commitHash":"y"}`))
	a.Equal("error", receive(t, c).Key)

	c.ReceivedMessage(context.Background(), []byte(`{"type":"fold"}`))
	a.Equal("error", receive(t, c).Key)

	c.ReceivedMessage(context.Background(), []byte(`{"type":"choose","playerId":"p2","in":true}`))
	a.Equal("log", receive(t, c).Key)
	a.True(d.State().Players[1].In())

	c.ReceivedMessage(context.Background(), []byte(`{"type":"choose","playerId":"p2","in":false}`))
	resp = receive(t, c)
	a.Equal("error", resp.Key)
	a.Equal("move rejected: choose", resp.Value)
}

func TestClient_Follow(t *testing.T) {
	a := assert.New(t)
	cfg, _ := newTestConfig()
	d := newTestDealer(t, cfg)

	c := NewClient(nil, "p1", d)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan bool)
	go func() {
		c.Follow(ctx)
		close(done)
	}()

	resp := receive(t, c)
	a.Equal("view", resp.Key)
	a.Equal(toes.PhaseDeal, resp.Data.(toes.PlayerView).Phase)

	submit(t, d, toes.Advance{})
	resp = receive(t, c)
	view := resp.Data.(toes.PlayerView)
	a.Equal(toes.PhaseChoose, view.Phase)
	if a.NotNil(view.Card) {
		a.Equal("3♢", view.Card.String())
	}

	d.EndShift()
	select {
	case reason := <-c.Close:
		a.Equal("table closed", reason)
	case <-time.After(time.Second):
		require.FailNow(t, "client was never closed")
	}

	<-done
}
