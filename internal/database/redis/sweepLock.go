package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock is a single-holder lease on a redis key, so that only one
// replica runs the no-show sweep at a time.
type SweepLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewSweepLock(client *redis.Client, key string, ttl time.Duration) *SweepLock {
	return &SweepLock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire returns a release func when the lease was taken, or ok == false
// when another holder has it.
func (l *SweepLock) Acquire(ctx context.Context) (release func(context.Context) error, ok bool, err error) {
	token := uuid.NewString()

	ok, err = l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}
