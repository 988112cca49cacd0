package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResetTicketStore guarda el ticket de un solo uso que emite VerifyOTP
// y que ResetPassword debe consumir. Un ticket por email.
type ResetTicketStore interface {
	Issue(email string, ttl time.Duration) (string, error)
	Consume(email, ticket string) (bool, error)
}

type memoryResetTicket struct {
	ticket    string
	expiresAt time.Time
}

type memoryResetTicketStore struct {
	mu    sync.Mutex
	items map[string]memoryResetTicket
}

func NewMemoryResetTicketStore() ResetTicketStore {
	return &memoryResetTicketStore{
		items: make(map[string]memoryResetTicket),
	}
}

func (s *memoryResetTicketStore) Issue(email string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		ttl = time.Minute
	}
	ticket := uuid.NewString()
	s.items[email] = memoryResetTicket{
		ticket:    ticket,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return ticket, nil
}

func (s *memoryResetTicketStore) Consume(email, ticket string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[email]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, email)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.ticket), []byte(ticket)) != 1 {
		return false, nil
	}
	delete(s.items, email)
	return true, nil
}

type redisResetTicketStore struct {
	client redisTicketKV
	prefix string
}

type redisTicketKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func NewRedisResetTicketStore(client *redis.Client) ResetTicketStore {
	if client == nil {
		return nil
	}
	return &redisResetTicketStore{
		client: client,
		prefix: "auth:reset:",
	}
}

func (s *redisResetTicketStore) Issue(email string, ttl time.Duration) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ticket := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+email, ticket, ttl).Err(); err != nil {
		return "", err
	}
	return ticket, nil
}

func (s *redisResetTicketStore) Consume(email, ticket string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || ticket == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	stored, err := s.client.Get(ctx, s.prefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(ticket)) != 1 {
		return false, nil
	}
	return true, s.client.Del(ctx, s.prefix+email).Err()
}
