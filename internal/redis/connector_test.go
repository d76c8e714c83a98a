package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/linonon/aibookmarks/internal/config"
	"github.com/linonon/aibookmarks/internal/logger"
)

func TestNewBackoff(t *testing.T) {
	valid := config.RedisConfig{
		RetryInterval:  100 * time.Millisecond,
		MaxWait:        time.Second,
		ConnectTimeout: 5 * time.Second,
		PingTimeout:    time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*config.RedisConfig)
		wantErr string
	}{
		{"valid", func(*config.RedisConfig) {}, ""},
		{"no connect timeout", func(c *config.RedisConfig) { c.ConnectTimeout = 0 }, "connect timeout"},
		{"no retry interval", func(c *config.RedisConfig) { c.RetryInterval = 0 }, "retry interval"},
		{"cap below interval", func(c *config.RedisConfig) { c.MaxWait = time.Millisecond }, "max wait"},
		{"no ping timeout", func(c *config.RedisConfig) { c.PingTimeout = 0 }, "ping timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := newBackoff(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("newBackoff() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("newBackoff() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffNext(t *testing.T) {
	b := backoff{initial: time.Second, max: 5 * time.Second}

	waits := []time.Duration{}
	wait := b.initial
	for i := 0; i < 4; i++ {
		wait = b.next(wait)
		waits = append(waits, wait)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("wait[%d] = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestConnectGivesUp(t *testing.T) {
	cfg := config.RedisConfig{
		Addr:           "127.0.0.1:1", // nothing listens here
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  50 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}

	start := time.Now()
	_, err := Connect(context.Background(), cfg, logger.NewNop())
	if err == nil {
		t.Fatal("Connect() error = nil, want unavailable")
	}
	if !strings.Contains(err.Error(), "redis unavailable") {
		t.Errorf("Connect() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Connect() took %v, should stop near the connect timeout", elapsed)
	}
}
