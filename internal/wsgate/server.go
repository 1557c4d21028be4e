package wsgate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/park285/dama-server/internal/msgcat"
	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/internal/session"
	"github.com/park285/dama-server/pkg/damadto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

type Options struct {
	// OriginPatterns are host patterns allowed besides same-origin requests.
	OriginPatterns []string
	ReadLimit      int64
	SendBuffer     int
	PingInterval   time.Duration
}

// Server upgrades HTTP requests to WebSocket connections and feeds decoded intents
// to the session manager.
type Server struct {
	mgr     *session.Manager
	hub     *Hub
	opts    Options
	catalog *msgcat.Catalog
}

func NewServer(mgr *session.Manager, hub *Hub, opts Options) *Server {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 4096
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	return &Server{mgr: mgr, hub: hub, opts: opts}
}

func (s *Server) AttachCatalog(c *msgcat.Catalog) {
	if s != nil {
		s.catalog = c
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  s.opts.OriginPatterns,
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	conn.SetReadLimit(s.opts.ReadLimit)

	c := newClient(uuid.NewString(), conn, s.opts.SendBuffer)
	s.hub.add(c)
	obslog.L().Info("ws_accept", zap.String("conn_id", c.id), zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.writeLoop(ctx)
	go c.pingLoop(ctx, s.opts.PingInterval)

	err = s.readLoop(ctx, c)

	s.hub.remove(c.id)
	s.mgr.Disconnect(c.id)
	c.close(websocket.StatusNormalClosure, "")
	obslog.L().Info("ws_close", zap.String("conn_id", c.id), zap.Int("status", int(websocket.CloseStatus(err))))
}

func (s *Server) readLoop(ctx context.Context, c *client) error {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			s.replyError(c, "", damadto.DomainError{Code: damadto.CodeBadRequest, Message: "text frames only"})
			continue
		}
		var env damadto.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.replyError(c, "", damadto.DomainError{Code: damadto.CodeBadRequest, Message: "malformed json"})
			continue
		}
		s.dispatch(c, env)
	}
}

func (s *Server) reply(c *client, id string, ev damadto.Event) {
	msg := damadto.NewMessage(ev)
	msg.ID = id
	s.hub.deliver(c.id, msg)
}

func (s *Server) replyError(c *client, id string, err error) {
	de := s.toDomainError(err)
	s.reply(c, id, damadto.ErrorEvent{Code: de.Code, Message: de.Error()})
}
