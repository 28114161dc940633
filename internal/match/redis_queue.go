package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// KEYS[1] is the list of waiting IDs, KEYS[2] the hash of ID -> client JSON.
var joinScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 1 then
  return -1
end
redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
redis.call('RPUSH', KEYS[1], ARGV[1])
if redis.call('LLEN', KEYS[1]) < 2 then
  return {}
end
local a = redis.call('LPOP', KEYS[1])
local b = redis.call('LPOP', KEYS[1])
local ca = redis.call('HGET', KEYS[2], a)
local cb = redis.call('HGET', KEYS[2], b)
redis.call('HDEL', KEYS[2], a, b)
return {ca, cb}
`)

var leaveScript = redis.NewScript(`
if redis.call('HDEL', KEYS[2], ARGV[1]) == 1 then
  redis.call('LREM', KEYS[1], 0, ARGV[1])
end
return 1
`)

// RedisQueue is a Queue shared by every server using the same Redis key.
// Pairing runs in a Lua script so two servers never take the same client.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue returns a queue stored under key.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

// DialRedisQueue connects to a redis:// or rediss:// URL and pings it.
func DialRedisQueue(ctx context.Context, rawURL, key string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "redis url")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisQueue(rdb, key), nil
}

func (q *RedisQueue) keys() []string {
	return []string{q.key, q.key + ":clients"}
}

// Join implements Queue.
func (q *RedisQueue) Join(ctx context.Context, c Client) (*Pairing, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	res, err := joinScript.Run(ctx, q.rdb, q.keys(), c.ID, raw).Result()
	if err != nil {
		return nil, errors.Wrap(err, "queue join")
	}

	switch v := res.(type) {
	case int64:
		return nil, errors.ErrAlreadyQueued
	case []interface{}:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) != 2 {
			return nil, fmt.Errorf("queue join: unexpected reply of %d items", len(v))
		}
		var p Pairing
		if err := decodeClient(v[0], &p.White); err != nil {
			return nil, err
		}
		if err := decodeClient(v[1], &p.Black); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, fmt.Errorf("queue join: unexpected reply %T", res)
}

func decodeClient(v interface{}, c *Client) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("queue entry: unexpected %T", v)
	}
	if err := json.Unmarshal([]byte(s), c); err != nil {
		return errors.Wrap(err, "queue entry")
	}
	return nil
}

// Leave implements Queue.
func (q *RedisQueue) Leave(ctx context.Context, clientID string) error {
	if err := leaveScript.Run(ctx, q.rdb, q.keys(), clientID).Err(); err != nil {
		return errors.Wrap(err, "queue leave")
	}
	return nil
}

// Len implements Queue.
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "queue len")
	}
	return int(n), nil
}

// Close releases the Redis connection.
func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}
