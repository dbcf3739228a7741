// internal/matching/lock.go
// Pair locks serialise conversation creation for one unordered pair

package matching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PairLocker grants exclusive access to a pair key
type PairLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LocalPairLocker is an in-process keyed mutex
type LocalPairLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	slot chan struct{}
	refs int
}

// NewLocalPairLocker creates a LocalPairLocker
func NewLocalPairLocker() *LocalPairLocker {
	return &LocalPairLocker{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free or ctx is done
func (l *LocalPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyedLock{slot: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.slot <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-entry.slot
				l.release(key, entry)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, entry)
		return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
	}
}

func (l *LocalPairLocker) release(key string, entry *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// releaseScript deletes the lock only if we still own it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisPairLocker is a SET NX lock shared by every API instance
type RedisPairLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	log    *zap.Logger
}

// NewRedisPairLocker creates a RedisPairLocker. ttl bounds how long a crashed
// holder can block the pair; wait bounds how long Lock retries.
func NewRedisPairLocker(client redis.UniversalClient, prefix string, ttl, wait time.Duration, log *zap.Logger) *RedisPairLocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisPairLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		log:    log,
	}
}

func (l *RedisPairLocker) key(pair string) string {
	return l.prefix + ":lock:pair:" + pair
}

// Lock implements PairLocker
func (l *RedisPairLocker) Lock(ctx context.Context, pair string) (func(), error) {
	key := l.key(pair)
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrLockTimeout, waitCtx.Err())
			}
			return nil, fmt.Errorf("failed to acquire pair lock: %w", err)
		}
		if ok {
			return func() {
				// Release even if the caller's context is already done
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
					l.log.Warn("pair lock release failed; it expires with its ttl",
						zap.String("key", key),
						zap.Duration("ttl", l.ttl),
						zap.Error(err))
				}
			}, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, waitCtx.Err())
		case <-ticker.C:
		}
	}
}
