package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryResetTicketStore_IssueAndConsume(t *testing.T) {
	store := NewMemoryResetTicketStore()

	ticket, err := store.Issue("ana@example.com", time.Minute)
	if err != nil || ticket == "" {
		t.Fatalf("issue failed: %q, %v", ticket, err)
	}

	ok, err := store.Consume("ana@example.com", "wrong-ticket")
	if err != nil || ok {
		t.Fatalf("expected wrong ticket rejected, got %v,%v", ok, err)
	}

	ok, err = store.Consume("ana@example.com", ticket)
	if err != nil || !ok {
		t.Fatalf("expected consume ok, got %v,%v", ok, err)
	}

	// Un solo uso.
	ok, err = store.Consume("ana@example.com", ticket)
	if err != nil || ok {
		t.Fatalf("expected second consume rejected, got %v,%v", ok, err)
	}
}

func TestMemoryResetTicketStore_Expiry(t *testing.T) {
	store := NewMemoryResetTicketStore()
	ticket, err := store.Issue("ana@example.com", 30*time.Millisecond)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	ok, err := store.Consume("ana@example.com", ticket)
	if err != nil || ok {
		t.Fatalf("expected expired ticket rejected, got %v,%v", ok, err)
	}
}

func TestMemoryResetTicketStore_ReissueReplaces(t *testing.T) {
	store := NewMemoryResetTicketStore()
	first, _ := store.Issue("ana@example.com", time.Minute)
	second, _ := store.Issue("ana@example.com", time.Minute)

	if ok, _ := store.Consume("ana@example.com", first); ok {
		t.Fatalf("expected replaced ticket rejected")
	}
	if ok, _ := store.Consume("ana@example.com", second); !ok {
		t.Fatalf("expected latest ticket accepted")
	}
}

type mockRedisTicketKV struct {
	lastSetKey string
	lastSetVal interface{}
	lastSetTTL time.Duration
	lastDel    []string

	getVal string
	getErr error
	setErr error
	delErr error
}

func (m *mockRedisTicketKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetVal = value
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisTicketKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	cmd.SetVal(m.getVal)
	return cmd
}

func (m *mockRedisTicketKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestRedisResetTicketStore_IssueAndConsume(t *testing.T) {
	mock := &mockRedisTicketKV{}
	store := &redisResetTicketStore{client: mock, prefix: "auth:reset:"}

	ticket, err := store.Issue("ana@example.com", 0)
	if err != nil || ticket == "" {
		t.Fatalf("issue failed: %q, %v", ticket, err)
	}
	if mock.lastSetKey != "auth:reset:ana@example.com" {
		t.Fatalf("unexpected key %q", mock.lastSetKey)
	}
	if mock.lastSetTTL <= 0 {
		t.Fatalf("expected positive TTL fallback, got %v", mock.lastSetTTL)
	}

	mock.getVal = ticket
	ok, err := store.Consume("ana@example.com", ticket)
	if err != nil || !ok {
		t.Fatalf("expected consume ok, got %v,%v", ok, err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "auth:reset:ana@example.com" {
		t.Fatalf("expected ticket deleted on consume, got %+v", mock.lastDel)
	}

	ok, err = store.Consume("ana@example.com", "forged")
	if err != nil || ok {
		t.Fatalf("expected mismatched ticket rejected, got %v,%v", ok, err)
	}
}

func TestRedisResetTicketStore_MissingAndErrors(t *testing.T) {
	mock := &mockRedisTicketKV{getErr: redis.Nil}
	store := &redisResetTicketStore{client: mock, prefix: "auth:reset:"}

	ok, err := store.Consume("ana@example.com", "t")
	if err != nil || ok {
		t.Fatalf("expected missing ticket false,nil; got %v,%v", ok, err)
	}

	mock.getErr = errors.New("redis down")
	if _, err := store.Consume("ana@example.com", "t"); err == nil {
		t.Fatalf("expected error surfaced")
	}

	if ok, err := store.Consume("", "t"); err != nil || ok {
		t.Fatalf("expected empty email rejected, got %v,%v", ok, err)
	}
}
