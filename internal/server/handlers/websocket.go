// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The snapshot feed is read-only public data
		return true
	},
}

// pulseFeedClient forwards snapshot update events to one dashboard
// connection.
type pulseFeedClient struct {
	conn *websocket.Conn
	send chan []byte
	sub  *nats.Subscription
	log  *logger.Logger
}

// PulseFeedHandler upgrades the connection, sends the current snapshot,
// then forwards every snapshot published on the events subject until the
// client goes away. Clients only receive; inbound frames are discarded.
func PulseFeedHandler(natsConn *nats.Conn, subject string, service PulseService, log *logger.Logger) http.HandlerFunc {
	wsLog := log.WithComponent("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			wsLog.WithError(err).Warn("failed to upgrade to websocket")
			return
		}

		client := &pulseFeedClient{
			conn: conn,
			send: make(chan []byte, 8),
			log:  wsLog,
		}

		sub, err := natsConn.Subscribe(subject, func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Slow consumer; drop the update, the next one supersedes it
			}
		})
		if err != nil {
			wsLog.WithError(err).Warn("failed to subscribe to snapshot events")
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		// Seed the connection with the current snapshot
		if snap := service.Today(r.Context()); snap != nil {
			if data, err := json.Marshal(snap); err == nil {
				client.send <- data
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are handled.
func (c *pulseFeedClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

// writePump pumps queued snapshot updates to the connection.
func (c *pulseFeedClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *pulseFeedClient) closeConnection() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
