package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newStoreWithServer(t *testing.T) (*IdempotencyStore, *redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewIdempotencyStore(client), client, mr
}

func TestIdempotencyStoreReplaysExistingResponse(t *testing.T) {
	store, client, _ := newStoreWithServer(t)
	ctx := context.Background()

	cached := `{"id":"txn-01","status":"COMPLETED"}`
	if err := client.Set(ctx, store.prefix+"transfer-once", cached, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "transfer-once", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists || string(resp) != cached {
		t.Fatalf("expected cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStoreLocksFirstRequest(t *testing.T) {
	store, client, _ := newStoreWithServer(t)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "deposit-42", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"deposit-42").Result()
	if err != nil || val != "processing" {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStoreUpdateOverwritesLock(t *testing.T) {
	store, client, _ := newStoreWithServer(t)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "withdraw-7", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	body := []byte(`{"id":"txn-02"}`)
	if err := store.Update(ctx, "withdraw-7", body, time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"withdraw-7").Result()
	if err != nil || val != string(body) {
		t.Fatalf("expected stored response, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStoreEntriesExpire(t *testing.T) {
	store, _, mr := newStoreWithServer(t)
	ctx := context.Background()

	if err := store.Update(ctx, "stale", []byte(`{}`), time.Second); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "stale", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists {
		t.Fatalf("expected expired key to be treated as new")
	}
}
