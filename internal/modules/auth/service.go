package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"epool/internal/domain"
	"epool/internal/mail"
	"epool/internal/redisdb"
)

// Service owns the authentication and session lifecycle: signup and OTP
// verification, sign-in, JWT issuance, refresh rotation with reuse
// detection, and the password-reset flows.
type Service struct {
	users      UserRepositoryInterface
	store      EphemeralStore
	signer     TokenSigner
	mailer     mail.Mailer
	otpTTL     time.Duration
	refreshTTL time.Duration
	bcryptCost int
}

func NewService(
	users UserRepositoryInterface,
	store EphemeralStore,
	signer TokenSigner,
	mailer mail.Mailer,
	otpTTL time.Duration,
	refreshTTL time.Duration,
	bcryptCost int,
) *Service {
	return &Service{
		users:      users,
		store:      store,
		signer:     signer,
		mailer:     mailer,
		otpTTL:     otpTTL,
		refreshTTL: refreshTTL,
		bcryptCost: bcryptCost,
	}
}

// SignUp creates an unverified account and caches a single-use OTP under
// the signup key. The verification mail is dispatched best-effort; a failed
// send never rolls back the created account. Returns the OTP so the handler
// can echo it in dev mode.
func (s *Service) SignUp(ctx context.Context, req SignupRequest) (string, error) {
	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return "", ErrInternal
	}

	user := &domain.User{
		Email:       normalizeEmail(req.Email),
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		Password:    &hashed,
		IsVerified:  false,
		IsAnonymous: false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return "", ErrAccountExists
		}
		zap.L().Error("signup: create user failed", zap.Error(err))
		return "", ErrInternal
	}

	otp, err := s.issueOTP(ctx, redisdb.SignupOTPKey(user.Email))
	if err != nil {
		return "", err
	}

	go func() {
		if err := s.mailer.SendSignupOTP(user.Email, otp); err != nil {
			zap.L().Warn("signup: verification mail failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	return otp, nil
}

// VerifySignup consumes the cached signup OTP and marks the account
// verified, returning the first token pair.
func (s *Service) VerifySignup(ctx context.Context, email, otp string) (*AuthResult, error) {
	email = normalizeEmail(email)
	cached, err := s.store.Get(ctx, redisdb.SignupOTPKey(email))
	if err != nil {
		return nil, ErrInternal
	}
	if !otpEqual(cached, otp) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, ErrInternal
	}

	// Single use: a second verify with the same OTP must fail.
	if err := s.store.Del(ctx, redisdb.SignupOTPKey(email)); err != nil {
		zap.L().Warn("verify signup: otp delete failed", zap.Error(err))
	}

	go func() {
		if err := s.mailer.SendWelcome(user.Email, user.FirstNameOrEmpty()); err != nil {
			zap.L().Warn("verify signup: welcome mail failed", zap.Error(err))
		}
	}()

	creds, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AuthCredentials: creds}, nil
}

// ResendSignupOTP replaces any previously cached signup OTP and resets its
// TTL. Verified accounts cannot request one.
func (s *Service) ResendSignupOTP(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidOTPResend
		}
		return "", ErrInternal
	}
	if user.IsVerified {
		return "", ErrCannotGenerateOTP
	}

	otp, err := s.issueOTP(ctx, redisdb.SignupOTPKey(user.Email))
	if err != nil {
		return "", err
	}

	go func() {
		if err := s.mailer.SendSignupOTP(user.Email, otp); err != nil {
			zap.L().Warn("resend otp: mail failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	return otp, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasswordMismatch
		}
		return nil, ErrInternal
	}

	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}
	if user.Password == nil {
		return nil, ErrNoPasswordSet
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)) != nil {
		return nil, ErrPasswordMismatch
	}

	creds, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AuthCredentials: creds}, nil
}

// RefreshTokens rotates the session. The rotation id inside the presented
// token must equal the one cached for the user; issuing a new pair
// overwrites that id, so a previously rotated token can never be replayed.
// Every failure in this path is reported uniformly as invalid credentials.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*AuthCredentials, error) {
	sub, tokenID, err := s.signer.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, sub)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	cached, err := s.store.Get(ctx, redisdb.RefreshTokenKey(user.ID))
	if err != nil || cached == "" || cached != tokenID {
		return nil, ErrInvalidCredentials
	}

	creds, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return creds, nil
}

// RequestPasswordReset caches a reset OTP for an existing account and mails
// it. Unknown emails fail as invalid credentials so the endpoint does not
// reveal account existence.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", ErrInternal
	}

	otp, err := s.issueOTP(ctx, redisdb.PasswordResetOTPKey(user.Email))
	if err != nil {
		return "", err
	}

	go func() {
		if err := s.mailer.SendPasswordResetOTP(user.Email, otp); err != nil {
			zap.L().Warn("password reset: mail failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	return otp, nil
}

// VerifyPasswordResetOTP checks the cached reset OTP without consuming it;
// the commit step re-validates and deletes.
func (s *Service) VerifyPasswordResetOTP(ctx context.Context, email, otp string) error {
	cached, err := s.store.Get(ctx, redisdb.PasswordResetOTPKey(normalizeEmail(email)))
	if err != nil {
		return ErrInternal
	}
	if !otpEqual(cached, otp) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	if err := s.VerifyPasswordResetOTP(ctx, email, otp); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return ErrInternal
	}

	if err := s.setNewPassword(ctx, user, newPassword); err != nil {
		return err
	}

	if err := s.store.Del(ctx, redisdb.PasswordResetOTPKey(email)); err != nil {
		zap.L().Warn("password reset: otp delete failed", zap.Error(err))
	}
	return nil
}

// InAppPasswordReset changes the password of an authenticated user.
func (s *Service) InAppPasswordReset(ctx context.Context, userID, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}
	return s.setNewPassword(ctx, user, newPassword)
}

func (s *Service) setNewPassword(ctx context.Context, user *domain.User, newPassword string) error {
	if user.Password != nil &&
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(newPassword)) == nil {
		return ErrPleaseUseNewPasswd
	}

	hashed, err := s.hashPassword(newPassword)
	if err != nil {
		return ErrInternal
	}
	user.Password = &hashed

	if err := s.users.Update(ctx, user); err != nil {
		return ErrInternal
	}
	return nil
}

// generateTokens issues the access+refresh pair and stores the fresh
// rotation id under the user's refresh key, overwriting any previous value.
// Only the most recently issued refresh token per user is ever valid.
func (s *Service) generateTokens(ctx context.Context, user *domain.User) (*AuthCredentials, error) {
	refreshTokenID := uuid.NewString()

	accessToken, err := s.signer.GenerateAccessToken(
		user.ID,
		user.Email,
		user.FirstNameOrEmpty(),
		user.LastNameOrEmpty(),
		user.IsDeactivated,
	)
	if err != nil {
		return nil, ErrInternal
	}

	refreshToken, err := s.signer.GenerateRefreshToken(user.ID, refreshTokenID)
	if err != nil {
		return nil, ErrInternal
	}

	if err := s.store.Set(ctx, redisdb.RefreshTokenKey(user.ID), refreshTokenID, s.refreshTTL); err != nil {
		return nil, ErrInternal
	}

	return &AuthCredentials{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		AccessTokenTTL: int64(s.signer.AccessTTL().Seconds()),
	}, nil
}

func (s *Service) issueOTP(ctx context.Context, key string) (string, error) {
	otp, err := generateOTP()
	if err != nil {
		return "", ErrInternal
	}
	if err := s.store.Set(ctx, key, otp, s.otpTTL); err != nil {
		return "", ErrInternal
	}
	return otp, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
