// Package codes issues and redeems one-time locker pickup codes.
package codes

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/errs"
)

const (
	TTL = 3 * time.Minute

	rateWindow = 10 * time.Minute
	rateLimit  = 5
)

// Generate returns a uniformly random six-digit code and its expiry.
func Generate(now time.Time) (string, time.Time) {
	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	return code, now.Add(TTL)
}

// Store keeps issued codes until they expire or get redeemed.
type Store interface {
	// Save overwrites any previously issued code for the request.
	Save(ctx context.Context, requestID int, code string, expiry time.Time) error
	// Redeem validates and consumes the code: a matching live code is
	// deleted (single use), an absent or expired one yields ErrCodeExpired,
	// a wrong one ErrCodeMismatch and stays live.
	Redeem(ctx context.Context, requestID int, code string) error
	// Allow enforces the per-request generation rate limit.
	Allow(ctx context.Context, requestID int) error
}

type redisStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewStore(rdb *redis.Client, log *zap.Logger) Store {
	return &redisStore{rdb: rdb, log: log.Named("codes")}
}

func codeKey(requestID int) string { return fmt.Sprintf("pickup:code:%d", requestID) }
func rateKey(requestID int) string { return fmt.Sprintf("pickup:rl:%d", requestID) }

func (s *redisStore) Save(ctx context.Context, requestID int, code string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return errs.ErrCodeExpired
	}
	return s.rdb.Set(ctx, codeKey(requestID), code, ttl).Err()
}

func (s *redisStore) Redeem(ctx context.Context, requestID int, code string) error {
	stored, err := s.rdb.Get(ctx, codeKey(requestID)).Result()
	if err != nil {
		if err == redis.Nil {
			return errs.ErrCodeExpired
		}
		return err
	}
	if stored != code {
		return errs.ErrCodeMismatch
	}
	if err := s.rdb.Del(ctx, codeKey(requestID)).Err(); err != nil {
		s.log.Warn("code del", zap.Int("request_id", requestID), zap.Error(err))
	}
	return nil
}

func (s *redisStore) Allow(ctx context.Context, requestID int) error {
	n, err := s.rdb.Incr(ctx, rateKey(requestID)).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, rateKey(requestID), rateWindow).Err(); err != nil {
			return err
		}
	}
	if n > rateLimit {
		return errs.ErrRateLimited
	}
	return nil
}
