// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"spykes/internal/domain/messaging"
	"spykes/internal/logger"
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
		return true
	},
}

// trendFeedClient relays trend events from NATS to one WebSocket peer
type trendFeedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	sub    *nats.Subscription
	config WebSocketConfig
	log    *zap.SugaredLogger
}

// TrendWebSocketHandler streams every event published under topic to the client.
// Responds 503 when NATS is not configured.
func TrendWebSocketHandler(natsConn *nats.Conn, topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Live trend feed is disabled", nil)
			return
		}

		log := logger.GetLogger("ws")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnw("Failed to upgrade to WebSocket", "error", err)
			return
		}

		client := &trendFeedClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			done:   make(chan struct{}),
			config: DefaultWebSocketConfig(),
			log:    log,
		}

		client.sub, err = natsConn.Subscribe(messaging.Wildcard(topic), func(msg *nats.Msg) {
			client.enqueue(msg.Data)
		})
		if err != nil {
			log.Errorw("Failed to subscribe to trend events", "topic", topic, "error", err)
			client.close()
			return
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":  "welcome",
			"topic": topic,
			"time":  time.Now().UTC(),
		})
		client.enqueue(welcome)

		log.Infow("Trend feed client connected", "remote", r.RemoteAddr)

		go client.writePump()
		go client.readPump()
	}
}

// enqueue drops the message when the client is gone or too slow
func (c *trendFeedClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn("Trend feed client is slow, dropping event")
	}
}

// readPump discards client frames and keeps the read deadline alive
func (c *trendFeedClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warnw("WebSocket error", "error", err)
			}
			return
		}
	}
}

// writePump writes queued events and periodic pings
func (c *trendFeedClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close unsubscribes and closes the connection once
func (c *trendFeedClient) close() {
	c.once.Do(func() {
		close(c.done)
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		c.conn.Close()
		c.log.Info("Trend feed client disconnected")
	})
}
