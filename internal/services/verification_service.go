package services

import (
	"strings"
	"time"

	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
	"campusmarket/internal/utils"
)

const defaultCodeTTL = 15 * time.Minute

// VerificationService owns the challenge lifecycle for both email
// verification and password reset: issue a 6-digit code with an absolute
// expiry, consume it exactly once.
type VerificationService interface {
	// PrepareChallenge returns a fresh code and its expiry so registration
	// can persist user and challenge in one insert.
	PrepareChallenge() (code string, expiresAt time.Time, err error)

	// ResendEmailCode issues a new email-verification code, overwriting any
	// previous one. Fails with ErrUserNotFound / ErrAlreadyVerified.
	ResendEmailCode(email string) (user *models.User, code string, err error)

	// VerifyEmail consumes an email-verification challenge and marks the
	// account verified. Fails with ErrInvalidCode / ErrAlreadyVerified /
	// ErrCodeExpired.
	VerifyEmail(email, code string) (*models.User, error)

	// IssueResetCode issues a password-reset code, overwriting any previous
	// one regardless of state. Fails with ErrUserNotFound.
	IssueResetCode(email string) (user *models.User, code string, expiresAt time.Time, err error)

	// ResetPassword consumes a reset challenge and replaces the password
	// hash. Fails with ErrInvalidCode / ErrCodeExpired.
	ResetPassword(email, code, newPassword string) (*models.User, error)
}

type verificationService struct {
	users repositories.UserRepository
	auth  AuthService

	codeTTL time.Duration

	// injectable for expiry-boundary tests
	now          func() time.Time
	generateCode func() (string, error)
}

func NewVerificationService(users repositories.UserRepository, auth AuthService, codeTTL time.Duration) VerificationService {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	return &verificationService{
		users:        users,
		auth:         auth,
		codeTTL:      codeTTL,
		now:          time.Now,
		generateCode: utils.NewVerificationCode,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *verificationService) PrepareChallenge() (string, time.Time, error) {
	code, err := s.generateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, s.now().Add(s.codeTTL), nil
}

func (s *verificationService) ResendEmailCode(email string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}
	if user.IsVerified() {
		return nil, "", ErrAlreadyVerified
	}

	code, expiresAt, err := s.PrepareChallenge()
	if err != nil {
		return nil, "", err
	}
	if err := s.users.SetVerificationChallenge(user.ID, code, expiresAt); err != nil {
		return nil, "", err
	}
	return user, code, nil
}

func (s *verificationService) VerifyEmail(email, code string) (*models.User, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}
	if user.IsVerified() {
		return nil, ErrAlreadyVerified
	}
	// exact-string comparison, no normalization
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return nil, ErrInvalidCode
	}
	// strictly after expiry: a code presented exactly at expiresAt is valid
	if user.VerificationExpiresAt != nil && s.now().After(*user.VerificationExpiresAt) {
		return nil, ErrCodeExpired
	}

	verifiedAt := s.now()
	ok, err := s.users.ConsumeVerificationCode(user.ID, code, verifiedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the consume race: the challenge is gone and the account verified
		return nil, ErrAlreadyVerified
	}

	user.EmailVerifiedAt = &verifiedAt
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	return user, nil
}

func (s *verificationService) IssueResetCode(email string) (*models.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrUserNotFound
	}

	code, expiresAt, err := s.PrepareChallenge()
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.users.SetResetChallenge(user.ID, code, expiresAt); err != nil {
		return nil, "", time.Time{}, err
	}
	return user, code, expiresAt, nil
}

func (s *verificationService) ResetPassword(email, code, newPassword string) (*models.User, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}
	if user.ResetCode == nil || *user.ResetCode != code {
		return nil, ErrInvalidCode
	}
	if user.ResetExpiresAt != nil && s.now().After(*user.ResetExpiresAt) {
		return nil, ErrCodeExpired
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.ConsumeResetCode(user.ID, code, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCode
	}

	user.PasswordHash = hash
	user.ResetCode = nil
	user.ResetExpiresAt = nil
	return user, nil
}
