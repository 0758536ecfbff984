package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/models"
)

const loginAttemptsKeyPrefix = "login_attempts:"

// LoginGuard throttles repeated failed logins per account email.
type LoginGuard interface {
	Allowed(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

type redisLoginGuard struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	logger      logrus.FieldLogger
}

// NewRedisLoginGuard counts failures in Redis. Redis errors are logged and
// the login is allowed through.
func NewRedisLoginGuard(client *redis.Client, maxAttempts int, window time.Duration, logger logrus.FieldLogger) LoginGuard {
	return &redisLoginGuard{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
		logger:      logger,
	}
}

func loginAttemptsKey(email string) string {
	return loginAttemptsKeyPrefix + models.NormalizeEmail(email)
}

func (g *redisLoginGuard) Allowed(ctx context.Context, email string) bool {
	count, err := g.client.Get(ctx, loginAttemptsKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		g.logger.WithError(err).Warn("Login throttle unavailable, allowing attempt")
		return true
	}
	return count < g.maxAttempts
}

func (g *redisLoginGuard) RecordFailure(ctx context.Context, email string) {
	key := loginAttemptsKey(email)
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		g.logger.WithError(err).Warn("Failed to record login failure")
		return
	}
	if count == 1 {
		if err := g.client.Expire(ctx, key, g.window).Err(); err != nil {
			g.logger.WithError(err).Warn("Failed to set login throttle window")
		}
	}
}

func (g *redisLoginGuard) Reset(ctx context.Context, email string) {
	if err := g.client.Del(ctx, loginAttemptsKey(email)).Err(); err != nil {
		g.logger.WithError(err).Warn("Failed to reset login throttle")
	}
}

type noopLoginGuard struct{}

// NewNoopLoginGuard returns a guard that never throttles.
func NewNoopLoginGuard() LoginGuard {
	return noopLoginGuard{}
}

func (noopLoginGuard) Allowed(context.Context, string) bool { return true }

func (noopLoginGuard) RecordFailure(context.Context, string) {}

func (noopLoginGuard) Reset(context.Context, string) {}
