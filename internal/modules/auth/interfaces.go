package auth

import (
	"context"
	"time"

	"epool/internal/domain"
)

// UserRepositoryInterface covers only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// EphemeralStore is the TTL-backed key-value store holding OTPs and
// refresh-token ids. Get returns "" for an absent or expired key.
type EphemeralStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// TokenSigner issues and verifies the JWT pair.
type TokenSigner interface {
	GenerateAccessToken(userID, email, firstName, lastName string, isDeactivated bool) (string, error)
	GenerateRefreshToken(userID, refreshTokenID string) (string, error)
	// ParseRefreshToken verifies signature, audience and issuer, returning
	// the subject and the rotation id embedded in the token.
	ParseRefreshToken(tokenStr string) (subject, refreshTokenID string, err error)
	AccessTTL() time.Duration
}
