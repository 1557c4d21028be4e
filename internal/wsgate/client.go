package wsgate

import (
	"context"
	"sync"
	"time"

	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/pkg/damadto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeTimeout        = 5 * time.Second
	pingTimeout         = 3 * time.Second
	defaultPingInterval = 30 * time.Second
	maxPingFailures     = 2
)

// client is one accepted connection. Outbound messages go through send and are
// written by writeLoop only.
type client struct {
	id   string
	conn *websocket.Conn
	send chan damadto.Message

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, buffer int) *client {
	if buffer <= 0 {
		buffer = 1
	}
	return &client{
		id:   id,
		conn: conn,
		send: make(chan damadto.Message, buffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the client is closed or its buffer is full.
func (c *client) enqueue(msg damadto.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// close stops the loops and closes the socket in the background; it is safe to
// call while holding locks.
func (c *client) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			go func() { _ = c.conn.Close(code, reason) }()
		}
	})
}

func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, msg)
			cancel()
			if err != nil {
				obslog.L().Warn("ws_write_error", zap.String("conn_id", c.id), zap.String("type", msg.Type), zap.Error(err))
				c.close(websocket.StatusInternalError, "write failure")
				return
			}
		}
	}
}

func (c *client) pingLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPingInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	consecutivePingFailures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				consecutivePingFailures++
				if consecutivePingFailures >= maxPingFailures {
					obslog.L().Info("ws_ping_timeout", zap.String("conn_id", c.id))
					c.close(websocket.StatusGoingAway, "ping failure")
					return
				}
				continue
			}
			consecutivePingFailures = 0
		}
	}
}
