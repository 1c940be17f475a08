package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/models"
	"campusmarket/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- fakes ----

type fakeUserService struct {
	registerFunc   func(user *models.User, plainPassword string) error
	getByEmailFunc func(email string) (*models.User, error)
}

var _ services.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(user *models.User, plainPassword string) error {
	return f.registerFunc(user, plainPassword)
}
func (f *fakeUserService) GetUserByEmail(email string) (*models.User, error) {
	return f.getByEmailFunc(email)
}
func (f *fakeUserService) GetUserByID(id int) (*models.User, error) { return nil, nil }
func (f *fakeUserService) ListUsers(limit, offset int) ([]*models.User, error) {
	return nil, nil
}

type fakeAuthService struct {
	checkFunc func(hash, plain string) bool
}

var _ services.AuthService = (*fakeAuthService)(nil)

func (f *fakeAuthService) HashPassword(plain string) (string, error) { return "hashed:" + plain, nil }
func (f *fakeAuthService) CheckPassword(hash, plain string) bool {
	return f.checkFunc(hash, plain)
}

type fakeVerificationService struct {
	prepareFunc func() (string, time.Time, error)
	resendFunc  func(email string) (*models.User, string, error)
	verifyFunc  func(email, code string) (*models.User, error)
	issueFunc   func(email string) (*models.User, string, time.Time, error)
	resetFunc   func(email, code, newPassword string) (*models.User, error)
}

var _ services.VerificationService = (*fakeVerificationService)(nil)

func (f *fakeVerificationService) PrepareChallenge() (string, time.Time, error) {
	return f.prepareFunc()
}
func (f *fakeVerificationService) ResendEmailCode(email string) (*models.User, string, error) {
	return f.resendFunc(email)
}
func (f *fakeVerificationService) VerifyEmail(email, code string) (*models.User, error) {
	return f.verifyFunc(email, code)
}
func (f *fakeVerificationService) IssueResetCode(email string) (*models.User, string, time.Time, error) {
	return f.issueFunc(email)
}
func (f *fakeVerificationService) ResetPassword(email, code, newPassword string) (*models.User, error) {
	return f.resetFunc(email, code, newPassword)
}

type fakeTokenService struct {
	issueFunc   func(userID int) (string, error)
	refreshFunc func(oldToken string, userID int) (string, error)
	revokeFunc  func(token string) error
}

var _ services.TokenService = (*fakeTokenService)(nil)

func (f *fakeTokenService) Issue(userID int) (string, error) { return f.issueFunc(userID) }
func (f *fakeTokenService) Validate(token string) (*models.User, error) {
	return nil, services.ErrUnauthorized
}
func (f *fakeTokenService) Revoke(token string) error { return f.revokeFunc(token) }
func (f *fakeTokenService) Refresh(oldToken string, userID int) (string, error) {
	return f.refreshFunc(oldToken, userID)
}
func (f *fakeTokenService) RevokeAllForUser(userID int) error { return nil }

type fakeEmailService struct {
	err   error
	sent  int
	last  string
	codes []string
}

var _ services.EmailService = (*fakeEmailService)(nil)

func (f *fakeEmailService) SendCode(toEmail, name, code string, purpose services.CodePurpose) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.last = toEmail
	f.codes = append(f.codes, code)
	return nil
}

// ---- harness ----

type authFixture struct {
	users        *fakeUserService
	auth         *fakeAuthService
	verification *fakeVerificationService
	tokens       *fakeTokenService
	emails       *fakeEmailService
}

func newAuthFixture() *authFixture {
	return &authFixture{
		users:        &fakeUserService{},
		auth:         &fakeAuthService{},
		verification: &fakeVerificationService{},
		tokens:       &fakeTokenService{},
		emails:       &fakeEmailService{},
	}
}

func (f *authFixture) handler(exposeResetCode bool) *AuthHandler {
	return NewAuthHandler(f.users, f.auth, f.verification, f.tokens, f.emails, exposeResetCode)
}

func doJSON(t *testing.T, handle gin.HandlerFunc, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r := gin.New()
	r.Handle(method, path, handle)
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

// ---- Register ----

func TestRegister_success(t *testing.T) {
	f := newAuthFixture()
	f.verification.prepareFunc = func() (string, time.Time, error) {
		return "004821", time.Now().Add(15 * time.Minute), nil
	}
	f.users.registerFunc = func(user *models.User, plainPassword string) error {
		user.ID = 42
		assert.Equal(t, "secret123", plainPassword)
		require.NotNil(t, user.VerificationCode)
		assert.Equal(t, "004821", *user.VerificationCode)
		return nil
	}
	f.tokens.issueFunc = func(userID int) (string, error) {
		assert.Equal(t, 42, userID)
		return "tok-abc", nil
	}

	w, out := doJSON(t, f.handler(false).Register, http.MethodPost, "/api/auth/register", gin.H{
		"name":             "Alice",
		"email":            "alice@x.edu",
		"password":         "secret123",
		"password_confirm": "secret123",
		"phone":            "12345678901",
		"student_id":       "20250001",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, out["success"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "tok-abc", data["token"])
	assert.Equal(t, true, data["email_sent"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, false, user["is_verified"])
	assert.Equal(t, 1, f.emails.sent)
}

func TestRegister_duplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.verification.prepareFunc = func() (string, time.Time, error) {
		return "004821", time.Now().Add(15 * time.Minute), nil
	}
	f.users.registerFunc = func(user *models.User, plainPassword string) error {
		return services.ErrEmailTaken
	}

	w, out := doJSON(t, f.handler(false).Register, http.MethodPost, "/api/auth/register", gin.H{
		"name":             "Alice",
		"email":            "alice@x.edu",
		"password":         "secret123",
		"password_confirm": "secret123",
		"phone":            "12345678901",
		"student_id":       "20250001",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, false, out["success"])
	errs := out["errors"].(map[string]interface{})
	msgs := errs["email"].([]interface{})
	assert.Equal(t, "The email has already been taken.", msgs[0])
	assert.Zero(t, f.emails.sent)
}

func TestRegister_validation(t *testing.T) {
	f := newAuthFixture()

	w, out := doJSON(t, f.handler(false).Register, http.MethodPost, "/api/auth/register", gin.H{
		"name":             "A",
		"email":            "not-an-email",
		"password":         "short",
		"password_confirm": "different",
		"phone":            "123",
		"student_id":       "123",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Validation failed", out["message"])
	errs := out["errors"].(map[string]interface{})
	for _, field := range []string{"name", "email", "password", "password_confirm", "phone", "student_id"} {
		assert.Contains(t, errs, field)
	}
}

func TestRegister_emailSendFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture()
	f.emails.err = assert.AnError
	f.verification.prepareFunc = func() (string, time.Time, error) {
		return "004821", time.Now().Add(15 * time.Minute), nil
	}
	f.users.registerFunc = func(user *models.User, plainPassword string) error {
		user.ID = 42
		return nil
	}
	f.tokens.issueFunc = func(userID int) (string, error) { return "tok-abc", nil }

	w, out := doJSON(t, f.handler(false).Register, http.MethodPost, "/api/auth/register", gin.H{
		"name":             "Alice",
		"email":            "alice@x.edu",
		"password":         "secret123",
		"password_confirm": "secret123",
		"phone":            "12345678901",
		"student_id":       "20250001",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, false, data["email_sent"])
	assert.Equal(t, "tok-abc", data["token"])
}

// ---- Login ----

func TestLogin_identicalResponseForBothFailures(t *testing.T) {
	unknown := newAuthFixture()
	unknown.users.getByEmailFunc = func(email string) (*models.User, error) { return nil, nil }

	wrongPass := newAuthFixture()
	wrongPass.users.getByEmailFunc = func(email string) (*models.User, error) {
		return &models.User{ID: 1, Email: "alice@x.edu", PasswordHash: "h"}, nil
	}
	wrongPass.auth.checkFunc = func(hash, plain string) bool { return false }

	body := gin.H{"email": "alice@x.edu", "password": "nope123"}
	w1, out1 := doJSON(t, unknown.handler(false).Login, http.MethodPost, "/api/auth/login", body)
	w2, out2 := doJSON(t, wrongPass.handler(false).Login, http.MethodPost, "/api/auth/login", body)

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, out1, out2)
	assert.Equal(t, "Invalid credentials", out1["message"])
}

func TestLogin_success(t *testing.T) {
	f := newAuthFixture()
	verifiedAt := time.Now()
	f.users.getByEmailFunc = func(email string) (*models.User, error) {
		return &models.User{ID: 1, Name: "Alice", Email: "alice@x.edu", PasswordHash: "h", EmailVerifiedAt: &verifiedAt}, nil
	}
	f.auth.checkFunc = func(hash, plain string) bool { return plain == "secret123" }
	f.tokens.issueFunc = func(userID int) (string, error) { return "tok-login", nil }

	w, out := doJSON(t, f.handler(false).Login, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@x.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "tok-login", data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_verified"])
}

// ---- VerifyEmail ----

func TestVerifyEmail_handler(t *testing.T) {
	f := newAuthFixture()
	verifiedAt := time.Now()
	f.verification.verifyFunc = func(email, code string) (*models.User, error) {
		if code != "004821" {
			return nil, services.ErrInvalidCode
		}
		return &models.User{ID: 1, Name: "Alice", Email: email, EmailVerifiedAt: &verifiedAt}, nil
	}
	h := f.handler(false)

	w, out := doJSON(t, h.VerifyEmail, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email":             "alice@x.edu",
		"verification_code": "999999",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid verification code", out["message"])

	w, out = doJSON(t, h.VerifyEmail, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email":             "alice@x.edu",
		"verification_code": "004821",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email verified successfully", out["message"])
	user := out["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_verified"])
}

func TestVerifyEmail_alreadyVerifiedAndExpired(t *testing.T) {
	f := newAuthFixture()
	f.verification.verifyFunc = func(email, code string) (*models.User, error) {
		return nil, services.ErrAlreadyVerified
	}
	w, out := doJSON(t, f.handler(false).VerifyEmail, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email":             "alice@x.edu",
		"verification_code": "004821",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already verified", out["message"])

	f.verification.verifyFunc = func(email, code string) (*models.User, error) {
		return nil, services.ErrCodeExpired
	}
	w, out = doJSON(t, f.handler(false).VerifyEmail, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email":             "alice@x.edu",
		"verification_code": "004821",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Verification code expired", out["message"])
}

// ---- ResendCode ----

func TestResendCode(t *testing.T) {
	f := newAuthFixture()
	f.verification.resendFunc = func(email string) (*models.User, string, error) {
		return &models.User{ID: 1, Name: "Alice", Email: "alice@x.edu"}, "771234", nil
	}

	w, out := doJSON(t, f.handler(false).ResendCode, http.MethodPost, "/api/auth/resend-code", gin.H{
		"email": "alice@x.edu",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, true, data["email_sent"])
	assert.Equal(t, []string{"771234"}, f.emails.codes)
}

func TestResendCode_userNotFound(t *testing.T) {
	f := newAuthFixture()
	f.verification.resendFunc = func(email string) (*models.User, string, error) {
		return nil, "", services.ErrUserNotFound
	}

	w, out := doJSON(t, f.handler(false).ResendCode, http.MethodPost, "/api/auth/resend-code", gin.H{
		"email": "nobody@x.edu",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", out["message"])
}

// ---- ForgotPassword ----

func TestForgotPassword_exposesCodeWhenConfigured(t *testing.T) {
	f := newAuthFixture()
	expiresAt := time.Date(2025, 3, 1, 12, 15, 0, 0, time.UTC)
	f.verification.issueFunc = func(email string) (*models.User, string, time.Time, error) {
		return &models.User{ID: 1, Name: "Alice", Email: "alice@x.edu"}, "352901", expiresAt, nil
	}

	w, out := doJSON(t, f.handler(true).ForgotPassword, http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "alice@x.edu",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "352901", data["reset_code"])
	assert.Equal(t, "2025-03-01T12:15:00Z", data["expires_at"])
}

func TestForgotPassword_hidesCodeByDefault(t *testing.T) {
	f := newAuthFixture()
	f.verification.issueFunc = func(email string) (*models.User, string, time.Time, error) {
		return &models.User{ID: 1, Email: "alice@x.edu"}, "352901", time.Now(), nil
	}

	w, out := doJSON(t, f.handler(false).ForgotPassword, http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "alice@x.edu",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.NotContains(t, data, "reset_code")
	assert.NotContains(t, data, "expires_at")
	assert.Equal(t, 1, f.emails.sent)
}

func TestForgotPassword_userNotFound(t *testing.T) {
	f := newAuthFixture()
	f.verification.issueFunc = func(email string) (*models.User, string, time.Time, error) {
		return nil, "", time.Time{}, services.ErrUserNotFound
	}

	w, out := doJSON(t, f.handler(true).ForgotPassword, http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "nobody@x.edu",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", out["message"])
}

// ---- ResetPassword ----

func TestResetPassword_handler(t *testing.T) {
	f := newAuthFixture()
	f.verification.resetFunc = func(email, code, newPassword string) (*models.User, error) {
		if code != "352901" {
			return nil, services.ErrInvalidCode
		}
		assert.Equal(t, "newsecret", newPassword)
		return &models.User{ID: 1, Name: "Alice", Email: email}, nil
	}
	h := f.handler(false)

	w, out := doJSON(t, h.ResetPassword, http.MethodPost, "/api/auth/reset-password", gin.H{
		"email":            "alice@x.edu",
		"reset_code":       "000000",
		"password":         "newsecret",
		"password_confirm": "newsecret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid reset code or email", out["message"])

	w, out = doJSON(t, h.ResetPassword, http.MethodPost, "/api/auth/reset-password", gin.H{
		"email":            "alice@x.edu",
		"reset_code":       "352901",
		"password":         "newsecret",
		"password_confirm": "newsecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset successfully", out["message"])
}

// ---- RefreshToken / Logout / Me ----

func withAuthContext(user *models.User, token string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth_user", user)
		c.Set("auth_token", token)
		next(c)
	}
}

func TestRefreshToken_handler(t *testing.T) {
	f := newAuthFixture()
	f.tokens.refreshFunc = func(oldToken string, userID int) (string, error) {
		assert.Equal(t, "old-token", oldToken)
		assert.Equal(t, 1, userID)
		return "new-token", nil
	}
	alice := &models.User{ID: 1, Name: "Alice", Email: "alice@x.edu"}

	w, out := doJSON(t, withAuthContext(alice, "old-token", f.handler(false).RefreshToken),
		http.MethodGet, "/api/auth/refresh-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "new-token", data["token"])
}

func TestLogout_handler(t *testing.T) {
	f := newAuthFixture()
	revoked := ""
	f.tokens.revokeFunc = func(token string) error {
		revoked = token
		return nil
	}
	alice := &models.User{ID: 1}

	w, out := doJSON(t, withAuthContext(alice, "tok-abc", f.handler(false).Logout),
		http.MethodPost, "/api/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful", out["message"])
	assert.Equal(t, "tok-abc", revoked)
}

func TestMe_handler(t *testing.T) {
	f := newAuthFixture()
	verifiedAt := time.Now()
	alice := &models.User{ID: 1, Name: "Alice", Email: "alice@x.edu", EmailVerifiedAt: &verifiedAt}

	w, out := doJSON(t, withAuthContext(alice, "tok-abc", f.handler(false).Me),
		http.MethodGet, "/api/auth/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	user := out["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "alice@x.edu", user["email"])
	assert.Equal(t, true, user["is_verified"])
}
