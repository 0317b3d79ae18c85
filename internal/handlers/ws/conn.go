package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = time.Minute
	pingPeriod      = 54 * time.Second
	sendBuffer      = 256
	maxMessageBytes = 4096
)

// playerConn is one websocket client. It is the replication sink of its
// player: batches are framed on the session goroutine and written by
// writePump.
type playerConn struct {
	socket  *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	log     zerolog.Logger

	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	welcomed bool
	held     [][]byte
}

func newPlayerConn(socket *websocket.Conn, limiter *rate.Limiter, log zerolog.Logger) *playerConn {
	return &playerConn{
		socket:  socket,
		send:    make(chan []byte, sendBuffer),
		limiter: limiter,
		log:     log,
		closed:  make(chan struct{}),
	}
}

// Publish frames one batch. Batches published before the welcome frame are
// held so the client always sees its snapshot first.
func (c *playerConn) Publish(changes []replication.Change) {
	data, err := json.Marshal(&Frame{Type: FrameChanges, Changes: changes})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode changes")
		return
	}
	if !c.welcomed {
		c.held = append(c.held, data)
		return
	}
	c.enqueue(data)
}

// welcome sends the snapshot, then everything held while joining
func (c *playerConn) welcome(joined *session.JoinOutput) {
	data, err := json.Marshal(&Frame{
		Type:      FrameWelcome,
		PlayerID:  joined.PlayerID,
		SessionID: joined.SessionID,
		Snapshot:  joined.Snapshot,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode welcome")
		c.close()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = c.log.With().Uint64("player_id", joined.PlayerID).Logger()
	c.enqueue(data)
	for _, held := range c.held {
		c.enqueue(held)
	}
	c.held = nil
	c.welcomed = true
}

func (c *playerConn) reject(action string, err error) {
	data, _ := json.Marshal(&Frame{Type: FrameRejected, Action: action, Error: err.Error()})
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enqueue(data)
}

// enqueue never blocks; a client that falls a full buffer behind is dropped
func (c *playerConn) enqueue(data []byte) {
	select {
	case <-c.closed:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn().Msg("client too slow, dropping connection")
		c.close()
	}
}

func (c *playerConn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.socket.Close()
	})
}

// readPump performs the client's actions until the socket fails
func (c *playerConn) readPump(ctx context.Context, svc session.Service, playerID uint64) {
	defer c.close()

	c.socket.SetReadLimit(maxMessageBytes)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("connection lost")
			}
			return
		}

		if !c.limiter.Allow() {
			c.reject("", ErrRateLimited)
			continue
		}
		action, err := ParseAction(data)
		if err != nil {
			c.reject("", err)
			continue
		}
		if err := dispatch(ctx, svc, playerID, action); err != nil {
			if errors.Is(err, session.ErrStopped) {
				return
			}
			c.log.Debug().Err(err).Str("action", action.Type).Msg("action rejected")
			c.reject(action.Type, err)
		}
	}
}

// writePump is the only writer of the socket
func (c *playerConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case data := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
