package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LISTEN_ADDR", "ADMIN_ADDR", "WS_PATH", "ALLOWED_ORIGINS", "WS_READ_LIMIT", "WS_SEND_BUFFER", "REDIS_URL", "RESULTS_CHANNEL", "MESSAGES_DIR", "FLYING_KINGS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.WSPath != "/ws" || cfg.WSReadLimit != 4096 || cfg.WSSendBuffer != 32 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ResultsChannel != "dama:results" || cfg.FlyingKings || cfg.AdminAddr != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("WS_PATH", "play")
	t.Setenv("ALLOWED_ORIGINS", " example.com , ,*.dama.test")
	t.Setenv("WS_READ_LIMIT", "not-a-number")
	t.Setenv("WS_SEND_BUFFER", "64")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("FLYING_KINGS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" || cfg.WSPath != "/play" {
		t.Fatalf("unexpected addrs: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "*.dama.test" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.WSReadLimit != 4096 || cfg.WSSendBuffer != 64 || !cfg.FlyingKings {
		t.Fatalf("unexpected numbers: %+v", cfg)
	}
}

func TestLoadRejectsRedisScheme(t *testing.T) {
	t.Setenv("REDIS_URL", "http://localhost:6379")
	if _, err := Load(); err == nil {
		t.Fatalf("expected scheme error")
	}
}
