package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/dama-server/internal/admin"
	appcfg "github.com/park285/dama-server/internal/config"
	"github.com/park285/dama-server/internal/dama"
	"github.com/park285/dama-server/internal/msgcat"
	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/internal/results"
	"github.com/park285/dama-server/internal/session"
	"github.com/park285/dama-server/internal/wsgate"
	"go.uber.org/zap"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		obslog.L().Fatal("config_error", zap.Error(err))
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		obslog.L().Fatal("msgcat_init_error", zap.Error(err))
	}

	hub := wsgate.NewHub()
	store := session.NewStore()
	mgr := session.NewManager(store, hub, dama.Rules{FlyingKings: cfg.FlyingKings})
	mgr.AttachCatalog(catalog)

	// Results fan-out (optional)
	var sink *results.RedisSink
	if cfg.RedisURL != "" {
		sink, err = results.NewRedisSink(cfg.RedisURL, cfg.ResultsChannel)
		if err != nil {
			obslog.L().Fatal("result_sink_init_error", zap.Error(err))
		}
		mgr.AttachResultSink(sink)
	}

	gate := wsgate.NewServer(mgr, hub, wsgate.Options{
		OriginPatterns: cfg.AllowedOrigins,
		ReadLimit:      cfg.WSReadLimit,
		SendBuffer:     cfg.WSSendBuffer,
	})
	gate.AttachCatalog(catalog)

	mux := http.NewServeMux()
	mux.Handle(cfg.WSPath, gate)
	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		obslog.L().Info("ws_listen", zap.String("addr", cfg.ListenAddr), zap.String("path", cfg.WSPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("ws_listen_error", zap.Error(err))
		}
	}()

	var adminSrv *admin.Server
	if cfg.AdminAddr != "" {
		adminSrv = admin.New(cfg.AdminAddr, func() admin.Snapshot {
			st := mgr.Stats()
			return admin.Snapshot{
				Queued:      st.Queued,
				Sessions:    st.Sessions,
				Awaiting:    st.Awaiting,
				Connections: hub.Len(),
			}
		})
		go func() {
			if err := adminSrv.ListenAndServe(); err != nil {
				obslog.L().Error("admin_listen_error", zap.Error(err))
			}
		}()
	}

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	obslog.L().Info("shutdown", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.CloseAll()
	_ = httpSrv.Shutdown(ctx)
	if adminSrv != nil {
		_ = adminSrv.Shutdown(ctx)
	}
	if sink != nil {
		_ = sink.Close()
	}
}
