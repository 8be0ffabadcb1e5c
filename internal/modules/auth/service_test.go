package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"epool/internal/domain"
	"epool/internal/redisdb"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// fakeStore is an in-memory EphemeralStore so tests can observe exactly what
// was cached and simulate consumption.
type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (s *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.values[key] = value
	return nil
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *fakeStore) Del(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) GenerateAccessToken(userID, email, firstName, lastName string, isDeactivated bool) (string, error) {
	args := m.Called(userID, email, firstName, lastName, isDeactivated)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) GenerateRefreshToken(userID, refreshTokenID string) (string, error) {
	args := m.Called(userID, refreshTokenID)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) ParseRefreshToken(tokenStr string) (string, string, error) {
	args := m.Called(tokenStr)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSigner) AccessTTL() time.Duration {
	return time.Hour
}

// nopMailer avoids racing the fire-and-forget mail goroutines against test
// completion.
type nopMailer struct{}

func (nopMailer) SendSignupOTP(email, otp string) error        { return nil }
func (nopMailer) SendPasswordResetOTP(email, otp string) error { return nil }
func (nopMailer) SendWelcome(email, name string) error         { return nil }

func newTestService(users *mockUserRepo, store *fakeStore, signer *mockSigner) *Service {
	return NewService(users, store, signer, nopMailer{}, 10*time.Minute, 168*time.Hour, bcrypt.MinCost)
}

func TestService_SignUp_CachesOTP(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(users, store, signer)

	otp, err := service.SignUp(context.Background(), SignupRequest{
		Email:    "New@Example.com",
		Password: "securepass",
	})

	assert.NoError(t, err)
	assert.Len(t, otp, 6)
	assert.Equal(t, otp, store.values[redisdb.SignupOTPKey("new@example.com")])
	users.AssertExpectations(t)
}

func TestService_SignUp_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	service := newTestService(users, store, signer)

	_, err := service.SignUp(context.Background(), SignupRequest{
		Email:    "exists@example.com",
		Password: "securepass",
	})

	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Empty(t, store.values)
}

func TestService_VerifySignup_ConsumesOTP(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	user := &domain.User{ID: "u1", Email: "user@example.com"}
	store.values[redisdb.SignupOTPKey("user@example.com")] = "123456"

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	signer.On("GenerateAccessToken", "u1", "user@example.com", "", "", false).Return("access", nil)
	signer.On("GenerateRefreshToken", "u1", mock.Anything).Return("refresh", nil)

	service := newTestService(users, store, signer)

	result, err := service.VerifySignup(context.Background(), "user@example.com", "123456")

	assert.NoError(t, err)
	assert.True(t, result.User.IsVerified)
	assert.Equal(t, "access", result.AuthCredentials.AccessToken)
	assert.NotContains(t, store.values, redisdb.SignupOTPKey("user@example.com"))

	// The OTP is single-use: a second attempt with the same code fails.
	_, err = service.VerifySignup(context.Background(), "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_VerifySignup_WrongOTP(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	store.values[redisdb.SignupOTPKey("user@example.com")] = "123456"

	service := newTestService(users, store, signer)

	_, err := service.VerifySignup(context.Background(), "user@example.com", "654321")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, store.values, redisdb.SignupOTPKey("user@example.com"))
}

func TestService_ResendSignupOTP_VerifiedAccount(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("GetByEmail", mock.Anything, "done@example.com").
		Return(&domain.User{ID: "u1", Email: "done@example.com", IsVerified: true}, nil)

	service := newTestService(users, store, signer)

	_, err := service.ResendSignupOTP(context.Background(), "done@example.com")

	assert.ErrorIs(t, err, ErrCannotGenerateOTP)
}

func TestService_ResendSignupOTP_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(users, store, signer)

	_, err := service.ResendSignupOTP(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, ErrInvalidOTPResend)
}

func TestService_ResendSignupOTP_ReplacesOTP(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	store.values[redisdb.SignupOTPKey("user@example.com")] = "111111"
	users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(&domain.User{ID: "u1", Email: "user@example.com"}, nil)

	service := newTestService(users, store, signer)

	otp, err := service.ResendSignupOTP(context.Background(), "user@example.com")

	assert.NoError(t, err)
	assert.Equal(t, otp, store.values[redisdb.SignupOTPKey("user@example.com")])
	assert.NotEqual(t, "111111", store.values[redisdb.SignupOTPKey("user@example.com")])
}

func TestService_SignIn_Success(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	password := string(hashed)
	user := &domain.User{ID: "u1", Email: "user@example.com", Password: &password, IsVerified: true}

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	signer.On("GenerateAccessToken", "u1", "user@example.com", "", "", false).Return("access", nil)
	signer.On("GenerateRefreshToken", "u1", mock.Anything).Return("refresh", nil)

	service := newTestService(users, store, signer)

	result, err := service.SignIn(context.Background(), "user@example.com", "password123")

	assert.NoError(t, err)
	assert.Equal(t, "access", result.AuthCredentials.AccessToken)
	assert.NotEmpty(t, store.values[redisdb.RefreshTokenKey("u1")])
}

func TestService_SignIn_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	password := string(hashed)
	users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(&domain.User{ID: "u1", Email: "user@example.com", Password: &password, IsVerified: true}, nil)

	service := newTestService(users, store, signer)

	_, err := service.SignIn(context.Background(), "user@example.com", "nope")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestService_SignIn_Unverified(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("GetByEmail", mock.Anything, "user@example.com").
		Return(&domain.User{ID: "u1", Email: "user@example.com"}, nil)

	service := newTestService(users, store, signer)

	_, err := service.SignIn(context.Background(), "user@example.com", "password123")

	assert.ErrorIs(t, err, ErrAccountNotVerified)
}

func TestService_SignIn_AnonymousAccount(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	users.On("GetByEmail", mock.Anything, "anon@example.com").
		Return(&domain.User{ID: "u1", Email: "anon@example.com", IsVerified: true, IsAnonymous: true}, nil)

	service := newTestService(users, store, signer)

	_, err := service.SignIn(context.Background(), "anon@example.com", "anything")

	assert.ErrorIs(t, err, ErrNoPasswordSet)
}

func TestService_RefreshTokens_RotatesAndDetectsReuse(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	user := &domain.User{ID: "u1", Email: "user@example.com", IsVerified: true}
	store.values[redisdb.RefreshTokenKey("u1")] = "rot-1"

	users.On("GetByID", mock.Anything, "u1").Return(user, nil)
	signer.On("ParseRefreshToken", "old-token").Return("u1", "rot-1", nil)
	signer.On("GenerateAccessToken", "u1", "user@example.com", "", "", false).Return("access2", nil)
	signer.On("GenerateRefreshToken", "u1", mock.Anything).Return("new-token", nil)

	service := newTestService(users, store, signer)

	creds, err := service.RefreshTokens(context.Background(), "old-token")

	assert.NoError(t, err)
	assert.Equal(t, "new-token", creds.RefreshToken)
	assert.NotEqual(t, "rot-1", store.values[redisdb.RefreshTokenKey("u1")])

	// The rotated-out token still parses but its id no longer matches.
	_, err = service.RefreshTokens(context.Background(), "old-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RefreshTokens_BadToken(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	signer.On("ParseRefreshToken", "garbage").Return("", "", assert.AnError)

	service := newTestService(users, store, signer)

	_, err := service.RefreshTokens(context.Background(), "garbage")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResetPassword_Success(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.MinCost)
	password := string(hashed)
	user := &domain.User{ID: "u1", Email: "user@example.com", Password: &password, IsVerified: true}

	store.values[redisdb.PasswordResetOTPKey("user@example.com")] = "123456"
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(users, store, signer)

	err := service.ResetPassword(context.Background(), "user@example.com", "123456", "brandnewpass")

	assert.NoError(t, err)
	assert.NotContains(t, store.values, redisdb.PasswordResetOTPKey("user@example.com"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("brandnewpass")))
}

func TestService_ResetPassword_SamePassword(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("samepassword"), bcrypt.MinCost)
	password := string(hashed)
	user := &domain.User{ID: "u1", Email: "user@example.com", Password: &password, IsVerified: true}

	store.values[redisdb.PasswordResetOTPKey("user@example.com")] = "123456"
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	service := newTestService(users, store, signer)

	err := service.ResetPassword(context.Background(), "user@example.com", "123456", "samepassword")

	assert.ErrorIs(t, err, ErrPleaseUseNewPasswd)
	// OTP survives a rejected attempt.
	assert.Contains(t, store.values, redisdb.PasswordResetOTPKey("user@example.com"))
}

func TestService_VerifyPasswordResetOTP_DoesNotConsume(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	store.values[redisdb.PasswordResetOTPKey("user@example.com")] = "123456"

	service := newTestService(users, store, signer)

	assert.NoError(t, service.VerifyPasswordResetOTP(context.Background(), "user@example.com", "123456"))
	assert.Contains(t, store.values, redisdb.PasswordResetOTPKey("user@example.com"))

	assert.ErrorIs(t,
		service.VerifyPasswordResetOTP(context.Background(), "user@example.com", "000000"),
		ErrInvalidCredentials)
}

func TestService_InAppPasswordReset(t *testing.T) {
	users := new(mockUserRepo)
	store := newFakeStore()
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.MinCost)
	password := string(hashed)
	user := &domain.User{ID: "u1", Email: "user@example.com", Password: &password, IsVerified: true}

	users.On("GetByID", mock.Anything, "u1").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(users, store, signer)

	assert.NoError(t, service.InAppPasswordReset(context.Background(), "u1", "freshpassword"))
	assert.ErrorIs(t,
		service.InAppPasswordReset(context.Background(), "u1", "freshpassword"),
		ErrPleaseUseNewPasswd)
}
