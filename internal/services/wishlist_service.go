package services

import (
	"errors"

	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type WishlistService interface {
	Add(userID, productID int) (*models.WishlistItem, error)
	List(userID, limit, offset int) ([]*models.WishlistItem, error)
	Remove(userID, productID int) error
	Check(userID, productID int) (bool, error)
}

type wishlistService struct {
	repo     repositories.WishlistRepository
	products repositories.ProductRepository
}

func NewWishlistService(repo repositories.WishlistRepository, products repositories.ProductRepository) WishlistService {
	return &wishlistService{repo: repo, products: products}
}

func (s *wishlistService) Add(userID, productID int) (*models.WishlistItem, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	item, err := s.repo.Add(userID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateWishlist) {
			return nil, ErrWishlistConflict
		}
		return nil, err
	}
	item.Product = p
	return item, nil
}

func (s *wishlistService) List(userID, limit, offset int) ([]*models.WishlistItem, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *wishlistService) Remove(userID, productID int) error {
	removed, err := s.repo.Remove(userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrWishlistMissing
	}
	return nil
}

func (s *wishlistService) Check(userID, productID int) (bool, error) {
	return s.repo.Exists(userID, productID)
}
