package services

import (
	"errors"
	"strings"

	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type UserService interface {
	// Register hashes the password and inserts the user together with the
	// pre-issued verification challenge in one atomic insert. Fails with
	// ErrEmailTaken on a duplicate email, also under concurrency (the
	// unique constraint decides the winner).
	Register(user *models.User, plainPassword string) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	ListUsers(limit, offset int) ([]*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) Register(user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return ErrInvalidCredentials
	}
	user.Email = normalizeEmail(user.Email)

	hash, err := s.auth.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(normalizeEmail(email))
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}
