package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPairLockerExcludes(t *testing.T) {
	locker := NewLocalPairLocker()

	unlock, err := locker.Lock(context.Background(), "a|b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "a|b")
	assert.ErrorIs(t, err, ErrLockTimeout)

	// Other pairs are independent
	other, err := locker.Lock(context.Background(), "a|c")
	require.NoError(t, err)
	other()

	unlock()
	unlock()

	again, err := locker.Lock(context.Background(), "a|b")
	require.NoError(t, err)
	again()

	locker.mu.Lock()
	assert.Empty(t, locker.locks)
	locker.mu.Unlock()
}

func TestLocalPairLockerSerialises(t *testing.T) {
	locker := NewLocalPairLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "a|b")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestRedisPairLockerKey(t *testing.T) {
	locker := NewRedisPairLocker(nil, "roommate", time.Second, time.Second, nil)
	assert.Equal(t, "roommate:lock:pair:a|b", locker.key("a|b"))
}
