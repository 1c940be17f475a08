package services

import (
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type ProductService interface {
	Create(p *models.Product) error
	GetByID(id int) (*models.Product, error)
	List(limit, offset int) ([]*models.Product, error)
	ListByUser(userID, limit, offset int) ([]*models.Product, error)
	// Delete removes a product owned by userID. ErrProductNotFound when the
	// product does not exist, ErrNotProductOwner otherwise.
	Delete(id, userID int) error
	// Owner returns the public owner info for a product.
	Owner(productID int) (*models.Product, *models.User, error)
}

type productService struct {
	repo  repositories.ProductRepository
	users repositories.UserRepository
}

func NewProductService(repo repositories.ProductRepository, users repositories.UserRepository) ProductService {
	return &productService{repo: repo, users: users}
}

func (s *productService) Create(p *models.Product) error {
	return s.repo.Create(p)
}

func (s *productService) GetByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

func (s *productService) List(limit, offset int) ([]*models.Product, error) {
	return s.repo.List(limit, offset)
}

func (s *productService) ListByUser(userID, limit, offset int) ([]*models.Product, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *productService) Delete(id, userID int) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if p.UserID != userID {
		return ErrNotProductOwner
	}
	_, err = s.repo.Delete(id)
	return err
}

func (s *productService) Owner(productID int) (*models.Product, *models.User, error) {
	p, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrProductNotFound
	}
	owner, err := s.users.GetByID(p.UserID)
	if err != nil {
		return nil, nil, err
	}
	if owner == nil {
		return nil, nil, ErrUserNotFound
	}
	return p, owner, nil
}
