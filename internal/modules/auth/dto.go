package auth

import "epool/internal/domain"

type SignupRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Username  *string `json:"username,omitempty" binding:"omitempty,min=3,max=64"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Gender    *string `json:"gender,omitempty"`
}

type VerifySignupRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type ResendSignupOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyPasswordResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required,len=6,numeric"`
	Password string `json:"password" binding:"required,min=8"`
}

type InAppPasswordResetRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// AuthCredentials is the token pair handed to clients; AccessTokenTTL is
// seconds until the access token expires.
type AuthCredentials struct {
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken"`
	AccessTokenTTL int64  `json:"accessTokenTtl"`
}

type AuthResult struct {
	User            *domain.User     `json:"user"`
	AuthCredentials *AuthCredentials `json:"authCredentials"`
}
