package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

type Service struct {
	secret     []byte
	audience   string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AccessClaims mirror the user fields the boundary layer enforces on
// (notably IsDeactivated).
type AccessClaims struct {
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	IsDeactivated bool   `json:"isDeactivated"`
	jwtlib.RegisteredClaims
}

// RefreshClaims carry only the subject and the rotation id compared against
// the cached value on refresh.
type RefreshClaims struct {
	RefreshTokenID string `json:"refreshTokenId"`
	jwtlib.RegisteredClaims
}

func New(secret, audience, issuer string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		audience:   audience,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *Service) registered(sub string, ttl time.Duration) jwtlib.RegisteredClaims {
	now := time.Now()
	return jwtlib.RegisteredClaims{
		Subject:   sub,
		Audience:  jwtlib.ClaimStrings{s.audience},
		Issuer:    s.issuer,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}
}

func (s *Service) GenerateAccessToken(userID, email, firstName, lastName string, isDeactivated bool) (string, error) {
	claims := AccessClaims{
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		IsDeactivated:    isDeactivated,
		RegisteredClaims: s.registered(userID, s.accessTTL),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) GenerateRefreshToken(userID, refreshTokenID string) (string, error) {
	claims := RefreshClaims{
		RefreshTokenID:   refreshTokenID,
		RegisteredClaims: s.registered(userID, s.refreshTTL),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(tokenStr string, claims jwtlib.Claims) error {
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithAudience(s.audience),
		jwtlib.WithIssuer(s.issuer),
	)
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func (s *Service) ValidateAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) ValidateRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies the token and returns its subject and
// rotation id.
func (s *Service) ParseRefreshToken(tokenStr string) (string, string, error) {
	claims, err := s.ValidateRefreshToken(tokenStr)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.RefreshTokenID, nil
}
