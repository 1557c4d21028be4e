package results

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Pub/Sub channel finished games are announced on.
const DefaultChannel = "dama:results"

// RedisSink publishes finished games as JSON on a Redis channel.
type RedisSink struct {
	rdb     *redis.Client
	channel string
}

func NewRedisSink(redisURL, channel string) (*RedisSink, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for result sink")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisSinkWithClient(rdb, channel), nil
}

func NewRedisSinkWithClient(rdb *redis.Client, channel string) *RedisSink {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultChannel
	}
	return &RedisSink{rdb: rdb, channel: channel}
}

func (s *RedisSink) Publish(ctx context.Context, r *session.Result) error {
	if s == nil || s.rdb == nil || r == nil {
		return nil
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	n, err := s.rdb.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	obslog.L().Info("result_publish", zap.String("session_id", r.SessionID), zap.String("channel", s.channel), zap.Int64("receivers", n))
	return nil
}

func (s *RedisSink) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
