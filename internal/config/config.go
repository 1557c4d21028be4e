package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string
	AdminAddr  string
	WSPath     string

	AllowedOrigins []string
	WSReadLimit    int64
	WSSendBuffer   int

	RedisURL       string
	ResultsChannel string

	MessagesDir string
	FlyingKings bool
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:     ":8080",
		WSPath:         "/ws",
		WSReadLimit:    4096,
		WSSendBuffer:   32,
		ResultsChannel: "dama:results",
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.AdminAddr = strings.TrimSpace(os.Getenv("ADMIN_ADDR"))
	if v := strings.TrimSpace(os.Getenv("WS_PATH")); v != "" {
		if !strings.HasPrefix(v, "/") {
			v = "/" + v
		}
		cfg.WSPath = v
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("WS_READ_LIMIT")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.WSReadLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("WS_SEND_BUFFER")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WSSendBuffer = n
		}
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if v := strings.TrimSpace(os.Getenv("RESULTS_CHANNEL")); v != "" {
		cfg.ResultsChannel = v
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("FLYING_KINGS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.FlyingKings = b
		}
	}

	if cfg.RedisURL != "" {
		u, err := url.Parse(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return nil, fmt.Errorf("REDIS_URL: unsupported scheme %q", u.Scheme)
		}
	}

	return cfg, nil
}
