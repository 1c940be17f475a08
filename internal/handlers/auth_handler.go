package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/models"
	"campusmarket/internal/services"
)

type AuthHandler struct {
	users        services.UserService
	auth         services.AuthService
	verification services.VerificationService
	tokens       services.TokenService
	emails       services.EmailService

	// test/dev only: include the raw reset code in forgot-password responses
	exposeResetCode bool
}

func NewAuthHandler(
	users services.UserService,
	auth services.AuthService,
	verification services.VerificationService,
	tokens services.TokenService,
	emails services.EmailService,
	exposeResetCode bool,
) *AuthHandler {
	return &AuthHandler{
		users:           users,
		auth:            auth,
		verification:    verification,
		tokens:          tokens,
		emails:          emails,
		exposeResetCode: exposeResetCode,
	}
}

// sendCode delivers a code best-effort: a failure is logged and reported
// as email_sent=false, never as a request failure.
func (h *AuthHandler) sendCode(user *models.User, code string, purpose services.CodePurpose) bool {
	if err := h.emails.SendCode(user.Email, user.Name, code, purpose); err != nil {
		log.Printf("[auth][notify] failed to send %s email: user_id=%d email=%s err=%v", purpose, user.ID, user.Email, err)
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	code, expiresAt, err := h.verification.PrepareChallenge()
	if err != nil {
		log.Printf("[auth][register] code generation failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := &models.User{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		StudentID:             req.StudentID,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
	}
	if err := h.users.Register(user, req.Password); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondFieldErrors(c, map[string][]string{
				"email": {"The email has already been taken."},
			})
			return
		}
		log.Printf("[auth][register] create user failed: email=%q err=%v", user.Email, err)
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	emailSent := h.sendCode(user, code, services.PurposeVerification)

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[auth][register] token issue failed: user_id=%d err=%v", user.ID, err)
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	message := "User registered successfully. Verification code sent to your email."
	if !emailSent {
		message = "User registered successfully. Failed to send verification email, please request a new code."
	}
	respondSuccess(c, http.StatusCreated, message, gin.H{
		"user":       user.Summary(),
		"token":      token,
		"email_sent": emailSent,
	})
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("[auth][login] lookup failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	// identical response for unknown email and wrong password
	if user == nil || !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[auth][login] token issue failed: user_id=%d err=%v", user.ID, err)
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":  user.Summary(),
		"token": token,
	})
}

// @Summary      Verify email with a 6-digit code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.VerifyEmailRequest  true  "Email and code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.verification.VerifyEmail(req.Email, req.VerificationCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			respondError(c, http.StatusBadRequest, "Invalid verification code")
		case errors.Is(err, services.ErrAlreadyVerified):
			respondError(c, http.StatusBadRequest, "Email already verified")
		case errors.Is(err, services.ErrCodeExpired):
			respondError(c, http.StatusBadRequest, "Verification code expired")
		default:
			log.Printf("[auth][verify-email] failed: email=%q err=%v", req.Email, err)
			respondError(c, http.StatusInternalServerError, "Verification failed")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Email verified successfully", gin.H{
		"user": user.Summary(),
	})
}

// @Summary      Resend the email verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        resend  body      models.ResendCodeRequest  true  "Email"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/resend-code [post]
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req models.ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, code, err := h.verification.ResendEmailCode(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrAlreadyVerified):
			respondError(c, http.StatusBadRequest, "Email already verified")
		default:
			log.Printf("[auth][resend-code] failed: email=%q err=%v", req.Email, err)
			respondError(c, http.StatusInternalServerError, "Failed to resend code")
		}
		return
	}

	emailSent := h.sendCode(user, code, services.PurposeVerification)

	message := "Verification code sent to your email"
	if !emailSent {
		message = "Failed to send verification email, please try again"
	}
	respondSuccess(c, http.StatusOK, message, gin.H{
		"email":      user.Email,
		"email_sent": emailSent,
	})
}

// @Summary      Request a password reset code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Email"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, code, expiresAt, err := h.verification.IssueResetCode(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[auth][forgot-password] failed: email=%q err=%v", req.Email, err)
		respondError(c, http.StatusInternalServerError, "Failed to issue reset code")
		return
	}

	emailSent := h.sendCode(user, code, services.PurposeReset)

	data := gin.H{
		"email":      user.Email,
		"email_sent": emailSent,
	}
	if h.exposeResetCode {
		data["reset_code"] = code
		data["expires_at"] = expiresAt.Format(time.RFC3339)
	}
	message := "Password reset code sent to your email"
	if !emailSent {
		message = "Failed to send password reset email, please try again"
	}
	respondSuccess(c, http.StatusOK, message, data)
}

// @Summary      Reset password with a code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Email, code and new password"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.verification.ResetPassword(req.Email, req.ResetCode, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			respondError(c, http.StatusBadRequest, "Invalid reset code or email")
		case errors.Is(err, services.ErrCodeExpired):
			respondError(c, http.StatusBadRequest, "Reset code expired")
		default:
			log.Printf("[auth][reset-password] failed: email=%q err=%v", req.Email, err)
			respondError(c, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Password reset successfully", gin.H{
		"user": user.Summary(),
	})
}

// @Summary      Rotate the bearer token
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/refresh-token [get]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	user := currentUser(c)
	old := currentToken(c)

	newToken, err := h.tokens.Refresh(old, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Printf("[auth][refresh] failed: user_id=%d err=%v", user.ID, err)
		respondError(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	respondSuccess(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"token": newToken,
		"user":  user.Summary(),
	})
}

// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.tokens.Revoke(currentToken(c)); err != nil && !errors.Is(err, services.ErrUnauthorized) {
		log.Printf("[auth][logout] revoke failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	respondSuccess(c, http.StatusOK, "Logout successful", nil)
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "", gin.H{
		"user": currentUser(c).Summary(),
	})
}
