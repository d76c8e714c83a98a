// Package redis opens the Redis client used by the redis store backend.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linonon/aibookmarks/internal/config"
	"github.com/linonon/aibookmarks/internal/logger"
)

// backoff is the retry policy for the initial connection.
type backoff struct {
	initial       time.Duration
	max           time.Duration
	total         time.Duration
	ping          time.Duration
	warnThreshold int
}

func newBackoff(cfg config.RedisConfig) (backoff, error) {
	b := backoff{
		initial:       cfg.RetryInterval,
		max:           cfg.MaxWait,
		total:         cfg.ConnectTimeout,
		ping:          cfg.PingTimeout,
		warnThreshold: cfg.WarnThreshold,
	}
	switch {
	case b.total <= 0:
		return b, fmt.Errorf("connect timeout must be > 0, got %v", b.total)
	case b.initial <= 0:
		return b, fmt.Errorf("retry interval must be > 0, got %v", b.initial)
	case b.max < b.initial:
		return b, fmt.Errorf("max wait %v is shorter than retry interval %v", b.max, b.initial)
	case b.ping <= 0:
		return b, fmt.Errorf("ping timeout must be > 0, got %v", b.ping)
	}
	return b, nil
}

// next doubles wait up to the cap.
func (b backoff) next(wait time.Duration) time.Duration {
	wait *= 2
	if wait > b.max {
		return b.max
	}
	return wait
}

// Connect creates a client and pings it until it answers, backing off
// exponentially. It gives up after the configured connect timeout or when
// ctx is done.
func Connect(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	b, err := newBackoff(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid redis settings: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := waitForPing(ctx, client, cfg.Addr, b, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitForPing(ctx context.Context, client redis.UniversalClient, addr string, b backoff, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, b.total)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", addr),
		logger.Duration("timeout", b.total))

	start := time.Now()
	wait := b.initial
	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, b.ping)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			fields := []logger.Field{logger.String("addr", addr), logger.Int("attempts", attempt)}
			if attempt > 1 {
				fields = append(fields, logger.Duration("elapsed", time.Since(start)))
			}
			log.Info("connected to redis", fields...)
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("giving up on redis",
				logger.String("addr", addr),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", addr, attempt, err)
		case <-timer.C:
		}

		fields := []logger.Field{
			logger.String("addr", addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err),
		}
		if attempt <= b.warnThreshold {
			log.Warn("redis ping failed, retrying", fields...)
		} else {
			log.Error("redis still unavailable, retrying", fields...)
		}
		wait = b.next(wait)
	}
}
