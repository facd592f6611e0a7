package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bsm/redislock"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLeaseHeld means another process already owns the collections under this prefix.
var ErrLeaseHeld = errors.New("store is owned by another instance")

// ErrLeaseLost means this instance no longer owns the prefix and must not write.
var ErrLeaseLost = errors.New("store lease lost")

type RedisRepository struct {
	Client *redis.Client
	prefix string
	lease  *Lease
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{Client: client, prefix: prefix}
}

func (r *RedisRepository) Read(ctx context.Context, c store.Collection) ([]byte, error) {
	val, err := r.Client.Get(ctx, c.Key(r.prefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

// WriteAll sets every key inside one MULTI/EXEC block.
func (r *RedisRepository) WriteAll(ctx context.Context, entries ...store.Entry) error {
	if r.lease != nil && r.lease.Lost() {
		return ErrLeaseLost
	}
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, e.Collection.Key(r.prefix), e.Data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write collections: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.Client.Close()
}

// Lease is the single-writer ownership lock for one key prefix.
type Lease struct {
	lock   *redislock.Lock
	ttl    time.Duration
	logger logger.ZapLogger
	lost   atomic.Bool
}

// AcquireLease takes the ownership lock, failing with ErrLeaseHeld when
// another instance is running against the same prefix. Once the lease is
// lost, WriteAll fails with ErrLeaseLost.
func (r *RedisRepository) AcquireLease(ctx context.Context, ttl time.Duration, log logger.ZapLogger) (*Lease, error) {
	locker := redislock.New(r.Client)
	lock, err := locker.Obtain(ctx, r.prefix+"owner", ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrLeaseHeld
		}
		return nil, fmt.Errorf("failed to obtain lease: %w", err)
	}
	lease := &Lease{lock: lock, ttl: ttl, logger: log}
	r.lease = lease
	return lease, nil
}

// KeepAlive refreshes the lease every half TTL until ctx is done or the
// lease is lost.
func (l *Lease) KeepAlive(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !l.refresh(ctx) {
				return
			}
		}
	}
}

// refresh extends the lease and reports whether it should keep running.
func (l *Lease) refresh(ctx context.Context) bool {
	err := l.lock.Refresh(ctx, l.ttl, nil)
	switch {
	case err == nil:
		return true
	case ctx.Err() != nil:
		return false
	case errors.Is(err, redislock.ErrNotObtained), errors.Is(err, redislock.ErrLockNotHeld):
		l.lost.Store(true)
		l.logger.Error("store lease lost, refusing further writes", zap.Error(err))
		return false
	default:
		l.logger.Error("failed to refresh store lease", zap.Error(err))
		return true
	}
}

func (l *Lease) Lost() bool {
	return l.lost.Load()
}

func (l *Lease) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
