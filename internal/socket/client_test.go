package socket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	return &Client{
		ID:     "client-1",
		UserID: userID,
		Hub:    NewHub(),
		Send:   make(chan []byte, 8),
		Rooms:  make(map[string]bool),
	}
}

func drainOne(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("expected a queued message")
		return Message{}
	}
}

func TestCanSubscribe(t *testing.T) {
	cases := []struct {
		name string
		room string
		want bool
	}{
		{"own user room", "user:alice", true},
		{"someone else's user room", "user:bob", false},
		{"org room", "org:org-1", true},
		{"project room", "project:proj-1", true},
		{"empty org id", "org:", false},
		{"empty project id", "project:", false},
		{"unknown room kind", "kitchen:42", false},
		{"empty room", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canSubscribe("alice", tc.room))
		})
	}
}

func TestHandleEnvelopeSubscriptions(t *testing.T) {
	c := newTestClient("alice")

	t.Run("subscribe joins the room and acks", func(t *testing.T) {
		c.handleEnvelope([]byte(`{"action":"subscribe","room":"project:proj-1"}`))

		assert.True(t, c.Rooms["project:proj-1"])
		assert.Contains(t, c.Hub.roomClients, "project:proj-1")

		msg := drainOne(t, c)
		assert.Equal(t, MessageAck, msg.Type)
		assert.Equal(t, "subscribed", msg.Payload["status"])
		assert.Equal(t, "project:proj-1", msg.Payload["room"])
	})

	t.Run("foreign user room is denied silently", func(t *testing.T) {
		c.handleEnvelope([]byte(`{"action":"subscribe","room":"user:bob"}`))

		assert.False(t, c.Rooms["user:bob"])
		assert.Empty(t, c.Send)
	})

	t.Run("own user room is allowed", func(t *testing.T) {
		c.handleEnvelope([]byte(`{"action":"subscribe","room":"user:alice"}`))

		assert.True(t, c.Rooms["user:alice"])
		drainOne(t, c)
	})

	t.Run("unsubscribe leaves the room and acks", func(t *testing.T) {
		c.handleEnvelope([]byte(`{"action":"unsubscribe","room":"project:proj-1"}`))

		assert.False(t, c.Rooms["project:proj-1"])
		assert.NotContains(t, c.Hub.roomClients, "project:proj-1")

		msg := drainOne(t, c)
		assert.Equal(t, "unsubscribed", msg.Payload["status"])
	})
}

func TestHandleEnvelopePing(t *testing.T) {
	c := newTestClient("alice")

	c.handleEnvelope([]byte(`{"action":"ping"}`))

	msg := drainOne(t, c)
	assert.Equal(t, MessagePong, msg.Type)
	assert.NotZero(t, msg.Payload["time"])
	assert.False(t, c.lastPing.IsZero())
}

func TestHandleEnvelopeJunk(t *testing.T) {
	c := newTestClient("alice")

	c.handleEnvelope([]byte(`not json`))
	c.handleEnvelope([]byte(`{"action":"dance"}`))
	c.handleEnvelope([]byte(`{"action":"subscribe"}`))

	assert.Empty(t, c.Send)
	assert.Empty(t, c.Rooms)
}
