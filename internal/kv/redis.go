// Package kv guarda contadores de falha de login e bloqueios temporários no Redis.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store envolve um cliente Redis opcional; sem cliente todos os helpers são no-op.
type Store struct {
	client *redis.Client
}

// New cria o Store a partir de REDIS_URL. URL vazia devolve um Store desabilitado.
func New(redisURL string) (*Store, error) {
	if redisURL == "" {
		return &Store{}, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Store{client: redis.NewClient(opt)}, nil
}

// NewWithClient usa um cliente já construído.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Available informa se o cliente está configurado.
func (s *Store) Available() bool { return s != nil && s.client != nil }

// Ping verifica a conexão.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close encerra o cliente.
func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}

// AllowRate conta uma ocorrência na janela e informa se o limite ainda não foi ultrapassado.
func (s *Store) AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if !s.Available() {
		return true, 0, nil
	}
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// SetLock define um lock com TTL.
func (s *Store) SetLock(ctx context.Context, key string, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	return s.client.Set(ctx, key, "1", ttl).Err()
}

// IsLocked retorna true se existe um lock ativo.
func (s *Store) IsLocked(ctx context.Context, key string) (bool, error) {
	if !s.Available() {
		return false, nil
	}
	_, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Del remove chaves (melhor esforço).
func (s *Store) Del(ctx context.Context, keys ...string) {
	if !s.Available() {
		return
	}
	_ = s.client.Del(ctx, keys...).Err()
}
