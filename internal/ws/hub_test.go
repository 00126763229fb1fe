package ws

import (
	"BizDevCRM/entity"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	return hub
}

func attach(hub *Hub, userID string) *Client {
	c := &Client{hub: hub, send: make(chan []byte, 4), userID: userID}
	hub.register <- c
	return c
}

func receive(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return &ev
	case <-time.After(time.Second):
		return nil
	}
}

func TestPushMessageDirect(t *testing.T) {
	hub := newTestHub()
	sender := attach(hub, "u1")
	recipient := attach(hub, "u2")
	other := attach(hub, "u3")

	hub.PushMessage(&entity.InternalMessage{ID: "m1", SenderID: "u1", RecipientID: "u2"})

	ev := receive(t, recipient)
	require.NotNil(t, ev)
	assert.Equal(t, EventMessage, ev.Type)
	assert.NotNil(t, receive(t, sender))

	select {
	case <-other.send:
		t.Fatal("unrelated user received a direct message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPushMessageBroadcast(t *testing.T) {
	hub := newTestHub()
	a := attach(hub, "u1")
	b := attach(hub, "u2")

	hub.PushMessage(&entity.InternalMessage{ID: "m1", SenderID: "u1", RecipientID: entity.BroadcastRecipient})

	assert.NotNil(t, receive(t, a))
	assert.NotNil(t, receive(t, b))
}
