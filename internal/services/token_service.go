package services

import (
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
	"campusmarket/internal/utils"
)

// TokenService issues opaque bearer tokens. The plain token goes to the
// client once; only its SHA-256 hash is persisted, and revoking deletes
// the row, so a revoked or unknown token can never authenticate.
type TokenService interface {
	Issue(userID int) (string, error)
	Validate(token string) (*models.User, error)
	Revoke(token string) error
	// Refresh revokes the presented token, then issues a new one. There is
	// no rollback: if issuance fails after the revoke, the caller is left
	// unauthenticated.
	Refresh(oldToken string, userID int) (string, error)
	RevokeAllForUser(userID int) error
}

type tokenService struct {
	tokens repositories.TokenRepository
}

func NewTokenService(tokens repositories.TokenRepository) TokenService {
	return &tokenService{tokens: tokens}
}

func (s *tokenService) Issue(userID int) (string, error) {
	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return "", err
	}
	if _, err := s.tokens.Create(userID, utils.HashToken(token)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *tokenService) Validate(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.tokens.GetUserByTokenHash(utils.HashToken(token))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *tokenService) Revoke(token string) error {
	deleted, err := s.tokens.DeleteByTokenHash(utils.HashToken(token))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUnauthorized
	}
	return nil
}

func (s *tokenService) Refresh(oldToken string, userID int) (string, error) {
	if err := s.Revoke(oldToken); err != nil {
		return "", err
	}
	return s.Issue(userID)
}

func (s *tokenService) RevokeAllForUser(userID int) error {
	return s.tokens.DeleteAllForUser(userID)
}
