package admin

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/park285/dama-server/internal/obslog"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Snapshot is the body of GET /stats.
type Snapshot struct {
	Queued      int `json:"queued"`
	Sessions    int `json:"sessions"`
	Awaiting    int `json:"awaiting"`
	Connections int `json:"connections"`
}

// Server exposes liveness and counters on a separate port.
type Server struct {
	addr  string
	stats func() Snapshot
	srv   *fasthttp.Server
}

func New(addr string, stats func() Snapshot) *Server {
	s := &Server{addr: addr, stats: stats}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case "/stats":
		var snap Snapshot
		if s.stats != nil {
			snap = s.stats()
		}
		body, err := json.Marshal(snap)
		if err != nil {
			obslog.L().Error("admin_stats_error", zap.Error(err))
			ctx.Error("internal error", fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) ListenAndServe() error {
	obslog.L().Info("admin_listen", zap.String("addr", s.addr))
	return s.srv.ListenAndServe(s.addr)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}
