// Package redisdb wraps the ephemeral TTL store holding one-time codes and
// per-user refresh-token ids. Keys expire server-side; a missing key reads
// back as the empty string.
package redisdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get returns "" with a nil error when the key is absent or expired.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.client.TTL(ctx, key).Result()
}

const (
	signupOTPPrefix    = "signup:otp:"
	passwdResetPrefix  = "password-reset:otp:"
	refreshTokenPrefix = "refresh-token:"
)

func SignupOTPKey(email string) string        { return signupOTPPrefix + email }
func PasswordResetOTPKey(email string) string { return passwdResetPrefix + email }
func RefreshTokenKey(userID string) string    { return refreshTokenPrefix + userID }
