package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisLocker(client)
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	mr, locker := setupTestRedis(t)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "warning-scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("bloodbank:lock:warning-scan"))

	_, ok, err = locker.TryLock(ctx, "warning-scan", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquisition must fail while held")

	release()
	assert.False(t, mr.Exists("bloodbank:lock:warning-scan"))

	_, ok, err = locker.TryLock(ctx, "warning-scan", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_ExpiredLockNotReleasedByOldOwner(t *testing.T) {
	mr, locker := setupTestRedis(t)
	ctx := context.Background()

	releaseOld, ok, err := locker.TryLock(ctx, "cleanup", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = locker.TryLock(ctx, "cleanup", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	releaseOld()
	assert.True(t, mr.Exists("bloodbank:lock:cleanup"), "stale owner must not delete the new holder's lock")
}

func TestRedisLocker_ServerDown(t *testing.T) {
	mr, locker := setupTestRedis(t)
	mr.Close()

	_, ok, err := locker.TryLock(context.Background(), "x", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx, "a", time.Minute)
	assert.False(t, ok)

	_, ok, _ = l.TryLock(ctx, "b", time.Minute)
	assert.True(t, ok, "different keys are independent")

	release()
	_, ok, _ = l.TryLock(ctx, "a", time.Minute)
	assert.True(t, ok)
}

func TestScheduler_AddRejectsBadSchedule(t *testing.T) {
	s := New(NewLocalLocker(), zerolog.Nop())
	err := s.Add(Job{Name: "bad", Schedule: "every tuesday", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)

	err = s.Add(Job{Name: "ok", Schedule: "@every 15m", Run: func(context.Context) error { return nil }})
	assert.NoError(t, err)
}

func TestScheduler_RunNowSkipsWhenLocked(t *testing.T) {
	locker := NewLocalLocker()
	s := New(locker, zerolog.Nop())

	runs := 0
	job := Job{Name: "scan", Timeout: time.Second, Run: func(context.Context) error {
		runs++
		return nil
	}}

	release, ok, _ := locker.TryLock(context.Background(), "scan", time.Minute)
	require.True(t, ok)
	assert.False(t, s.RunNow(job))
	assert.Equal(t, 0, runs)

	release()
	assert.True(t, s.RunNow(job))
	assert.Equal(t, 1, runs)
}

func TestScheduler_RunNowReleasesAfterFailure(t *testing.T) {
	locker := NewLocalLocker()
	s := New(locker, zerolog.Nop())
	job := Job{Name: "cleanup", Timeout: time.Second, Run: func(context.Context) error {
		return errors.New("db down")
	}}

	assert.True(t, s.RunNow(job))
	_, ok, _ := locker.TryLock(context.Background(), "cleanup", time.Minute)
	assert.True(t, ok, "lock must be released after a failed run")
}
