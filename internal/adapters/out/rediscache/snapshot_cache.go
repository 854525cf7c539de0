// Package rediscache keeps baggage snapshots in Redis for the read-by-number path.
//
// Every invalidation bumps a per-record fence counter. A reader remembers the fence it saw
// on a miss and its fill is dropped when the fence has moved since.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "baggage:snapshot:"
	fencePrefix = "baggage:snapshot-fence:"

	// fenceGrace keeps a fence alive past the entries it guards.
	fenceGrace = time.Minute
)

// fill sets KEYS[1] to ARGV[2] when the fence at KEYS[2] still reads ARGV[1].
// ARGV[3] is the entry TTL in milliseconds, 0 for none.
var fill = redis.NewScript(`
local fence = redis.call('GET', KEYS[2])
if not fence then fence = '' end
if fence ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// SnapshotCache implements ports.SnapshotCache on top of Redis.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a cache from a URL in the form
// redis://[:password@]host[:port][/database]. A zero ttl keeps entries until invalidated.
func NewSnapshotCache(redisURL string, ttl time.Duration) (*SnapshotCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &SnapshotCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (c *SnapshotCache) Get(ctx context.Context, trackingNumber string) (ports.SnapshotLookup, error) {
	values, err := c.client.MGet(ctx, key(trackingNumber), fenceKey(trackingNumber)).Result()
	if err != nil {
		return ports.SnapshotLookup{}, fmt.Errorf("failed to get snapshot %s: %w", trackingNumber, err)
	}

	fence, _ := values[1].(string)
	raw, ok := values[0].(string)
	if !ok {
		return ports.SnapshotLookup{Fence: fence}, nil
	}

	var snapshot baggage.Snapshot
	if err = json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// an unreadable entry is dropped and treated as a miss
		_ = c.client.Del(ctx, key(trackingNumber)).Err()
		return ports.SnapshotLookup{Fence: fence}, nil
	}
	return ports.SnapshotLookup{Snapshot: snapshot, Found: true, Fence: fence}, nil
}

func (c *SnapshotCache) Fill(ctx context.Context, snapshot baggage.Snapshot, fence string) (bool, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot %s: %w", snapshot.TrackingNumber, err)
	}

	keys := []string{key(snapshot.TrackingNumber), fenceKey(snapshot.TrackingNumber)}
	stored, err := fill.Run(ctx, c.client, keys, fence, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set snapshot %s: %w", snapshot.TrackingNumber, err)
	}
	return stored == 1, nil
}

// Invalidate removes the snapshots of the given records and moves their fences,
// so fills based on earlier reads are rejected.
func (c *SnapshotCache) Invalidate(ctx context.Context, trackingNumbers ...string) error {
	if len(trackingNumbers) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, n := range trackingNumbers {
			pipe.Del(ctx, key(n))
			pipe.Incr(ctx, fenceKey(n))
			if c.ttl > 0 {
				pipe.PExpire(ctx, fenceKey(n), c.ttl+fenceGrace)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *SnapshotCache) Close() error {
	return c.client.Close()
}

func key(trackingNumber string) string {
	return keyPrefix + trackingNumber
}

func fenceKey(trackingNumber string) string {
	return fencePrefix + trackingNumber
}
