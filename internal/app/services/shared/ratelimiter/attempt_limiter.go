package ratelimiter

import (
	"context"
	"fmt"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// attemptLimiter counts failures per (group, key) inside a fixed redis
// window. Once the count reaches maxAttempts, Allow reports false until
// the window key expires.
type attemptLimiter struct {
	redisRepo   contracts.RedisRepository
	log         *zap.Logger
	maxAttempts int
	window      time.Duration
}

func NewAttemptLimiter(repo contracts.RedisRepository, logger *zap.Logger, maxAttempts int, window time.Duration) contracts.AttemptLimiter {
	return &attemptLimiter{
		redisRepo:   repo,
		log:         logger,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *attemptLimiter) buildKey(group, key string) string {
	return fmt.Sprintf("%s%s:%s", constvars.RedisKeyLoginAttempts, group, key)
}

func (l *attemptLimiter) Allow(ctx context.Context, group string, key string) (bool, error) {
	data, err := l.redisRepo.Get(ctx, l.buildKey(group, key))
	if err != nil {
		return false, err
	}
	if data == "" {
		return true, nil
	}

	count, err := strconv.Atoi(data)
	if err != nil {
		return true, nil
	}
	return count < l.maxAttempts, nil
}

func (l *attemptLimiter) RecordFailure(ctx context.Context, group string, key string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	count, err := l.redisRepo.IncrementWithTTL(ctx, l.buildKey(group, key), l.window)
	if err != nil {
		return err
	}
	if count >= l.maxAttempts {
		l.log.Warn("attemptLimiter.RecordFailure limit reached",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, l.buildKey(group, key)),
			zap.Int(constvars.LoggingAttemptsKey, count),
		)
	}
	return nil
}

func (l *attemptLimiter) Reset(ctx context.Context, group string, key string) error {
	return l.redisRepo.Delete(ctx, l.buildKey(group, key))
}
