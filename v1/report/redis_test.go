package report

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

func newRedisSink(t *testing.T, key string) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedis(client, key), mr
}

func TestRedisAppendsAndTracksLatest(t *testing.T) {
	s, mr := newRedisSink(t, "")
	ctx := context.Background()

	first := sample(lock.Ticket, 400000)
	second := sample(lock.Ticket, 399998)
	other := sample(lock.Yield, 400000)
	if err := s.Publish(ctx, first); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := s.Publish(ctx, second); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := s.Publish(ctx, other); err != nil {
		t.Fatalf("publish: %v", err)
	}

	items, err := mr.List(DefaultRedisKey)
	if err != nil || len(items) != 3 {
		t.Fatalf("list: %v len %d", err, len(items))
	}
	all, err := s.Results(ctx)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if all[0].RunID != first.RunID || all[2].Variant != lock.Yield {
		t.Fatalf("unexpected order %+v", all)
	}

	latest, ok, err := s.Latest(ctx, "ticket")
	if err != nil || !ok {
		t.Fatalf("latest: %v ok %v", err, ok)
	}
	if latest.RunID != second.RunID || latest.OK() {
		t.Fatalf("latest should be the violating run, got %+v", latest)
	}
	if _, ok, err := s.Latest(ctx, "queue"); err != nil || ok {
		t.Fatalf("expected no queue result, ok %v err %v", ok, err)
	}
}

func TestRedisCustomKeyAndFailure(t *testing.T) {
	s, mr := newRedisSink(t, "custom")
	ctx := context.Background()
	if err := s.Publish(ctx, sample(lock.CAS, 400000)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !mr.Exists("custom") || !mr.Exists("custom:latest") {
		t.Fatal("custom keys not written")
	}
	mr.Close()
	if err := s.Publish(ctx, sample(lock.CAS, 400000)); err == nil {
		t.Fatal("expected error with redis down")
	}
}
