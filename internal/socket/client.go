package socket

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	// pings must fire before the peer's pong deadline lapses
	pingInterval = (pongTimeout * 9) / 10

	// board event envelopes are small; anything bigger is garbage
	maxInboundBytes int64 = 4096
)

// Actions a client may send over an established socket. Subscriptions target
// the org and project rooms the broadcaster publishes board events to.
const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
	actionPing        = "ping"
	actionPong        = "pong"
)

// clientEnvelope is the wire shape of every inbound frame.
type clientEnvelope struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
}

// canSubscribe limits which rooms a connection may enter. Org and project
// rooms carry membership and board events; user rooms carry direct
// notifications and are private to their owner (the upgrade handler already
// placed the client in its own).
func canSubscribe(userID, room string) bool {
	if id, ok := strings.CutPrefix(room, "user:"); ok {
		return id == userID
	}
	if id, ok := strings.CutPrefix(room, "org:"); ok {
		return id != ""
	}
	if id, ok := strings.CutPrefix(room, "project:"); ok {
		return id != ""
	}
	return false
}

// ReadPump drains inbound frames until the connection drops, keeping the
// read deadline alive off pong frames. Runs as one goroutine per client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundBytes)
	c.Conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongTimeout))
		c.lastPing = time.Now()
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Client] Read error for user %s: %v", c.UserID, err)
			}
			return
		}
		c.handleEnvelope(frame)
	}
}

// WritePump flushes the send queue to the connection and keeps the peer
// alive with periodic pings. One frame per queued message; the hub already
// serializes payloads.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// hub closed the queue, say goodbye
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEnvelope(frame []byte) {
	var env clientEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		log.Printf("[Client] Bad frame from user %s: %v", c.UserID, err)
		return
	}

	switch env.Action {
	case actionSubscribe:
		if !canSubscribe(c.UserID, env.Room) {
			log.Printf("[Client] Subscribe denied: user=%s, room=%s", c.UserID, env.Room)
			return
		}
		c.Hub.JoinRoom(c, env.Room)
		c.sendAck("subscribed", env.Room)

	case actionUnsubscribe:
		if env.Room == "" {
			return
		}
		c.Hub.LeaveRoom(c, env.Room)
		c.sendAck("unsubscribed", env.Room)

	case actionPing:
		c.lastPing = time.Now()
		c.sendPong()

	case actionPong:
		c.lastPing = time.Now()

	default:
		log.Printf("[Client] Unknown action %q from user %s", env.Action, c.UserID)
	}
}

// enqueue drops the message when the client's queue is full rather than
// blocking the caller.
func (c *Client) enqueue(msg Message) {
	data, _ := json.Marshal(msg)
	select {
	case c.Send <- data:
	default:
		log.Printf("[Client] Send queue full, dropping %s for user %s", msg.Type, c.UserID)
	}
}

func (c *Client) sendAck(status, room string) {
	c.enqueue(Message{
		Type: MessageAck,
		Payload: map[string]interface{}{
			"status": status,
			"room":   room,
		},
		Timestamp: time.Now(),
	})
}

func (c *Client) sendPong() {
	c.enqueue(Message{
		Type: MessagePong,
		Payload: map[string]interface{}{
			"time": time.Now().Unix(),
		},
		Timestamp: time.Now(),
	})
}
