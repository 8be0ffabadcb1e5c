package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epool/internal/middleware"
	"epool/internal/pkg/apperrors"
	"epool/internal/pkg/response"
)

type Handler struct {
	service *Service
	devMode bool
}

func NewHandler(service *Service, devMode bool) *Handler {
	return &Handler{service: service, devMode: devMode}
}

// RegisterRoutes mounts the auth endpoints under the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signup/verify-otp", h.VerifySignup)
		auth.POST("/signup/resend-otp", h.ResendSignupOTP)
		auth.POST("/signin", h.SignIn)
		auth.POST("/refresh-token", h.RefreshTokens)
		auth.POST("/reset-password", h.RequestPasswordReset)
		auth.POST("/verify-reset-password", h.VerifyPasswordResetOTP)
		auth.PATCH("/reset-password", h.ResetPassword)
		auth.PATCH("/in-app/reset-password", requireAuth, h.InAppPasswordReset)
	}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	otp, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created, check email to verify", h.devPayload(otp))
}

func (h *Handler) VerifySignup(c *gin.Context) {
	var req VerifySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.VerifySignup(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Successful verification", result)
}

func (h *Handler) ResendSignupOTP(c *gin.Context) {
	var req ResendSignupOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	otp, err := h.service.ResendSignupOTP(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OTP resent successfully", h.devPayload(otp))
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Sign-in successful", result)
}

func (h *Handler) RefreshTokens(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	creds, err := h.service.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Auth credentials", creds)
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	otp, err := h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reset OTP sent, check mail", h.devPayload(otp))
}

func (h *Handler) VerifyPasswordResetOTP(c *gin.Context) {
	var req VerifyPasswordResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.VerifyPasswordResetOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OTP is valid", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.Password); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *Handler) InAppPasswordReset(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		response.FromError(c, apperrors.Unauthorized(apperrors.MsgInvalidCredentials))
		return
	}

	var req InAppPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.InAppPasswordReset(c.Request.Context(), userID, req.Password); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

// devPayload echoes the OTP in the response body outside production so the
// flow can be exercised without a mail sink.
func (h *Handler) devPayload(otp string) gin.H {
	if !h.devMode {
		return nil
	}
	return gin.H{"otp": otp}
}
