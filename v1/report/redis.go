package report

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// DefaultRedisKey is the list key used when none is given.
const DefaultRedisKey = "spinlocks:results"

// Redis appends every result as JSON to a Redis list and keeps the latest
// result per variant in the hash "<key>:latest".
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis returns a Redis sink. An empty key selects DefaultRedisKey.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (s *Redis) latestKey() string { return s.key + ":latest" }

// Publish implements Sink.
func (s *Redis) Publish(ctx context.Context, r bench.Result) error {
	b, err := encode(r)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key, b)
	pipe.HSet(ctx, s.latestKey(), r.Variant.String(), b)
	_, err = pipe.Exec(ctx)
	return err
}

// Results returns every stored result, oldest first.
func (s *Redis) Results(ctx context.Context) ([]bench.Result, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]bench.Result, 0, len(raw))
	for _, v := range raw {
		r, err := decode([]byte(v))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Latest returns the most recent result stored for variant.
func (s *Redis) Latest(ctx context.Context, variant string) (bench.Result, bool, error) {
	v, err := s.client.HGet(ctx, s.latestKey(), variant).Result()
	if err == redis.Nil {
		return bench.Result{}, false, nil
	}
	if err != nil {
		return bench.Result{}, false, err
	}
	r, err := decode([]byte(v))
	if err != nil {
		return bench.Result{}, false, err
	}
	return r, true, nil
}
